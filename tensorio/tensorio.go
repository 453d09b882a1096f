// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tensorio is the external collaborator that sits outside the
// decoder's core: it loads score arrays from disk and saves decoded index
// arrays back, and offers single-file and batched-file decode helpers
// built on top of the viterbi package's public Decode call.
//
// The on-disk container is a small JSON document (shape + flat row-major
// data). The exact byte layout is implementation-defined; only a
// contiguous array of the documented shape is required once loaded, so
// this package picks the simplest format that needs no dependency beyond
// the standard library's encoding/json (see DESIGN.md).
package tensorio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	viterbi "github.com/ajroetker/viterbi-batch"
	"github.com/ajroetker/viterbi-batch/internal/tensor"
)

// container is the on-disk JSON shape of a serialized tensor.
type container struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// indexContainer is the on-disk JSON shape of a serialized index array.
type indexContainer struct {
	Shape []int   `json:"shape"`
	Data  []int32 `json:"data"`
}

// LoadDense reads a JSON tensor container from path.
func LoadDense(path string) (tensor.Dense, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tensor.Dense{}, fmt.Errorf("read tensor %q: %w", path, err)
	}
	var c container
	if err := json.Unmarshal(raw, &c); err != nil {
		return tensor.Dense{}, fmt.Errorf("parse tensor %q: %w", path, err)
	}
	return tensor.Dense{Data: c.Data, Shape: c.Shape}, nil
}

// SaveIndices writes a decoded index array to path as a JSON container.
func SaveIndices(path string, indices tensor.DenseInt) error {
	c := indexContainer{Shape: indices.Shape, Data: indices.Data}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal indices: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write indices %q: %w", path, err)
	}
	return nil
}

// DecodeFile treats a serialized (T, S) observation tensor as a B=1
// request and returns the length-T decoded index slice.
func DecodeFile(ctx context.Context, observationPath, transitionPath, initialPath string, logProbs bool, device viterbi.Device) ([]int32, error) {
	obs, err := LoadDense(observationPath)
	if err != nil {
		return nil, err
	}
	if len(obs.Shape) != 2 {
		return nil, fmt.Errorf("%s: expected a 2-D (T, S) tensor, got %d axes", observationPath, len(obs.Shape))
	}
	tmax, s := obs.Shape[0], obs.Shape[1]

	transition, err := loadOptional(transitionPath)
	if err != nil {
		return nil, err
	}
	initial, err := loadOptional(initialPath)
	if err != nil {
		return nil, err
	}

	res, err := viterbi.Decode(ctx, viterbi.Request{
		Observation: obs.Data,
		B:           1, Tmax: tmax, S: s,
		Transition: transition,
		Initial:    initial,
		LogProbs:   logProbs,
		Device:     device,
	})
	if err != nil {
		return nil, err
	}
	return res.Indices, nil
}

// DecodeFiles decodes a list of (T_i, S) observation files by padding them
// into one batch with explicit frame counts, then returns each item's
// decoded prefix trimmed back to its own length.
func DecodeFiles(ctx context.Context, observationPaths []string, transitionPath, initialPath string, logProbs bool, device viterbi.Device) ([][]int32, error) {
	if len(observationPaths) == 0 {
		return nil, nil
	}

	items := make([]tensor.Dense, len(observationPaths))
	s := -1
	tmax := 0
	for i, p := range observationPaths {
		d, err := LoadDense(p)
		if err != nil {
			return nil, err
		}
		if len(d.Shape) != 2 {
			return nil, fmt.Errorf("%s: expected a 2-D (T, S) tensor, got %d axes", p, len(d.Shape))
		}
		if s == -1 {
			s = d.Shape[1]
		} else if d.Shape[1] != s {
			return nil, fmt.Errorf("%s: state count %d does not match earlier file's %d", p, d.Shape[1], s)
		}
		if d.Shape[0] > tmax {
			tmax = d.Shape[0]
		}
		items[i] = d
	}

	b := len(items)
	obs := make([]float64, b*tmax*s)
	frameCounts := make([]int32, b)
	for i, d := range items {
		l := d.Shape[0]
		frameCounts[i] = int32(l)
		copy(obs[i*tmax*s:i*tmax*s+l*s], d.Data)
	}

	transition, err := loadOptional(transitionPath)
	if err != nil {
		return nil, err
	}
	initial, err := loadOptional(initialPath)
	if err != nil {
		return nil, err
	}

	res, err := viterbi.Decode(ctx, viterbi.Request{
		Observation: obs,
		B:           b, Tmax: tmax, S: s,
		FrameCounts: frameCounts,
		Transition:  transition,
		Initial:     initial,
		LogProbs:    logProbs,
		Device:      device,
	})
	if err != nil {
		return nil, err
	}

	out := make([][]int32, b)
	for i, l := range frameCounts {
		out[i] = res.Indices[i*tmax : i*tmax+int(l)]
	}
	return out, nil
}

// FileItem names one observation file in a batch decode job, with
// optional per-item transition/initial tensor overrides. An empty
// Transition or Initial falls back to the caller-supplied batch default.
type FileItem struct {
	Observation string
	Transition  string
	Initial     string
}

// DecodeBatch decodes a list of items, grouping items that share the same
// effective transition/initial tensors (after applying each item's
// override, or the batch-wide default when it has none) into a single
// padded DecodeFiles call, and keeping items with a distinct override in
// their own group. Results are returned in the same order as items.
func DecodeBatch(ctx context.Context, items []FileItem, defaultTransition, defaultInitial string, logProbs bool, device viterbi.Device) ([][]int32, error) {
	if len(items) == 0 {
		return nil, nil
	}

	type groupKey struct{ transition, initial string }
	groupOrder := make([]groupKey, 0, len(items))
	groupIndices := make(map[groupKey][]int)

	for i, it := range items {
		k := groupKey{transition: it.Transition, initial: it.Initial}
		if k.transition == "" {
			k.transition = defaultTransition
		}
		if k.initial == "" {
			k.initial = defaultInitial
		}
		if _, ok := groupIndices[k]; !ok {
			groupOrder = append(groupOrder, k)
		}
		groupIndices[k] = append(groupIndices[k], i)
	}

	out := make([][]int32, len(items))
	for _, k := range groupOrder {
		idxs := groupIndices[k]
		paths := make([]string, len(idxs))
		for j, idx := range idxs {
			paths[j] = items[idx].Observation
		}
		res, err := DecodeFiles(ctx, paths, k.transition, k.initial, logProbs, device)
		if err != nil {
			return nil, err
		}
		for j, idx := range idxs {
			out[idx] = res[j]
		}
	}
	return out, nil
}

func loadOptional(path string) ([]float64, error) {
	if path == "" {
		return nil, nil
	}
	d, err := LoadDense(path)
	if err != nil {
		return nil, err
	}
	return d.Data, nil
}
