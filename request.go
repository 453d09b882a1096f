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

// Package viterbi decodes batches of categorical observation sequences
// against a first-order Markov model, returning the single most probable
// hidden-state sequence per item. See Decode.
package viterbi

// Device selects which kernel variant a decode call runs on.
type Device struct {
	gpu   bool
	index int
}

// OnCPU requests the worker-pool kernel.
func OnCPU() Device { return Device{} }

// OnGPU requests the cooperative-block kernel bound to the given device
// index.
func OnGPU(index int) Device { return Device{gpu: true, index: index} }

func (d Device) String() string {
	if d.gpu {
		return "gpu"
	}
	return "cpu"
}

// Request carries every parameter to Decode. Observation is required;
// FrameCounts, Transition, and Initial are optional (nil means "use the
// uniform default").
type Request struct {
	// Observation is (B, Tmax, S), row-major: Observation[b*Tmax*S + t*S + s].
	Observation []float64
	B, Tmax, S  int

	// FrameCounts is length B, each in [1, Tmax]. Nil means every item has
	// length Tmax.
	FrameCounts []int32

	// Transition is (S, S), row-major: from-state i at Transition[i*S+j]
	// scores the move to state j. Nil means uniform (every entry 1/S, or
	// -log(S) in log domain).
	Transition []float64

	// Initial is length S, a distribution over starting states. Nil means
	// uniform.
	Initial []float64

	// LogProbs, when true, means Observation/Transition/Initial are
	// already natural-log scores; when false they are probabilities in
	// [0, 1] and are log-converted exactly once.
	LogProbs bool

	// Device selects CPU or a specific GPU index.
	Device Device
}

// Result is the output of a successful Decode call.
type Result struct {
	// Indices is (B, Tmax): Indices[b*Tmax+t] is the decoded state at
	// frame t of item b. Entries at t >= FrameCounts[b] are zero-filled
	// and must not be interpreted as a decoded state.
	Indices []int32
}
