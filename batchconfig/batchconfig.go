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

// Package batchconfig loads a YAML description of a batched-file decode
// job: which observation files make up the batch, which transition/initial
// tensors to use (globally or per item), and which device to run on. It is
// the CLI's alternative to repeating --input_files/--output_files flags by
// hand, in the same spirit as the pack's YAML workload-spec loaders.
package batchconfig

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemSpec describes one observation file in a batch, with optional
// per-item overrides of the global transition/initial tensors.
type ItemSpec struct {
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	Transition string `yaml:"transition,omitempty"`
	Initial    string `yaml:"initial,omitempty"`
}

// BatchSpec is the top-level YAML document shape.
type BatchSpec struct {
	Version    string     `yaml:"version"`
	LogProbs   bool       `yaml:"log_probs"`
	GPU        *int       `yaml:"gpu,omitempty"` // nil means CPU; set to a device index to use the GPU kernel
	Transition string     `yaml:"transition,omitempty"`
	Initial    string     `yaml:"initial,omitempty"`
	Items      []ItemSpec `yaml:"items"`
}

// Load reads and strictly parses a batch spec from path: unrecognized keys
// (a typo'd field name) are rejected rather than silently ignored.
func Load(path string) (*BatchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch spec: %w", err)
	}
	var spec BatchSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing batch spec: %w", err)
	}
	if len(spec.Items) == 0 {
		return nil, fmt.Errorf("batch spec %q lists no items", path)
	}
	return &spec, nil
}

// Device returns the decode device this spec selects: CPU if GPU is unset.
func (s *BatchSpec) Device() (gpu bool, index int) {
	if s.GPU == nil {
		return false, 0
	}
	return true, *s.GPU
}

// InputFiles returns the Items' Input paths in order.
func (s *BatchSpec) InputFiles() []string {
	out := make([]string, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.Input
	}
	return out
}

// OutputFiles returns the Items' Output paths in order.
func (s *BatchSpec) OutputFiles() []string {
	out := make([]string, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.Output
	}
	return out
}
