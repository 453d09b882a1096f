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

package tensorio

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	viterbi "github.com/ajroetker/viterbi-batch"
	"github.com/ajroetker/viterbi-batch/internal/tensor"
)

func writeContainer(t *testing.T, dir, name string, c container) string {
	t.Helper()
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestDecodeFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	obsPath := writeContainer(t, dir, "obs.json", container{
		Shape: []int{3, 2},
		Data:  []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
	})

	indices, err := DecodeFile(context.Background(), obsPath, "", "", false, viterbi.OnCPU())
	require.NoError(t, err)
	require.Len(t, indices, 3)
}

func TestDecodeFilesPadsRaggedBatch(t *testing.T) {
	dir := t.TempDir()
	short := writeContainer(t, dir, "short.json", container{Shape: []int{2, 2}, Data: []float64{0.5, 0.5, 0.5, 0.5}})
	long := writeContainer(t, dir, "long.json", container{Shape: []int{4, 2}, Data: []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}})

	out, err := DecodeFiles(context.Background(), []string{short, long}, "", "", false, viterbi.OnCPU())
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Len(t, out[0], 2)
	require.Len(t, out[1], 4)
}

func TestDecodeBatchHonorsPerItemOverride(t *testing.T) {
	dir := t.TempDir()
	a := writeContainer(t, dir, "a.json", container{Shape: []int{2, 2}, Data: []float64{0.5, 0.5, 0.5, 0.5}})
	b := writeContainer(t, dir, "b.json", container{Shape: []int{2, 2}, Data: []float64{0.5, 0.5, 0.5, 0.5}})
	defaultTransition := writeContainer(t, dir, "default_transition.json", container{Shape: []int{2, 2}, Data: []float64{0.9, 0.1, 0.1, 0.9}})
	overrideTransition := writeContainer(t, dir, "override_transition.json", container{Shape: []int{2, 2}, Data: []float64{0.1, 0.9, 0.9, 0.1}})

	items := []FileItem{
		{Observation: a},
		{Observation: b, Transition: overrideTransition},
	}

	batched, err := DecodeBatch(context.Background(), items, defaultTransition, "", false, viterbi.OnCPU())
	require.NoError(t, err)
	require.Len(t, batched, 2)

	withDefault, err := DecodeFile(context.Background(), a, defaultTransition, "", false, viterbi.OnCPU())
	require.NoError(t, err)
	require.Equal(t, withDefault, batched[0])

	withOverride, err := DecodeFile(context.Background(), b, overrideTransition, "", false, viterbi.OnCPU())
	require.NoError(t, err)
	require.Equal(t, withOverride, batched[1])
}

func TestDecodeBatchGroupsItemsSharingTheSameEffectiveTensors(t *testing.T) {
	dir := t.TempDir()
	a := writeContainer(t, dir, "a.json", container{Shape: []int{2, 2}, Data: []float64{0.5, 0.5, 0.5, 0.5}})
	b := writeContainer(t, dir, "b.json", container{Shape: []int{3, 2}, Data: []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}})

	items := []FileItem{{Observation: a}, {Observation: b}}
	out, err := DecodeBatch(context.Background(), items, "", "", false, viterbi.OnCPU())
	require.NoError(t, err)
	require.Len(t, out[0], 2)
	require.Len(t, out[1], 3)
}

func TestSaveIndicesWritesJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, SaveIndices(path, tensor.DenseInt{Shape: []int{2}, Data: []int32{1, 0}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var c indexContainer
	require.NoError(t, json.Unmarshal(raw, &c))
	require.Equal(t, []int32{1, 0}, c.Data)
}
