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

// Package normalize validates decoder inputs, synthesizes uniform defaults
// for the transition matrix / initial distribution / frame counts, and
// converts every score array into the natural-log domain exactly once.
package normalize

import (
	"fmt"
	"math"
)

// Input mirrors the raw, caller-supplied parameters to Decode before any
// validation or default synthesis has run.
type Input struct {
	Observation []float64 // (B, Tmax, S), row-major
	B, Tmax, S  int
	FrameCounts []int32 // length B, optional (nil => every item has length Tmax)
	Transition  []float64 // (S, S), optional
	Initial     []float64 // (S,), optional
	LogProbs    bool
}

// Normalized is the post-validation, log-domain, default-filled tuple that
// every kernel consumes. All three score slices are guaranteed present and
// in the natural-log domain regardless of what the caller supplied.
type Normalized struct {
	Observation []float64
	FrameCounts []int32
	Transition  []float64
	Initial     []float64
}

// ValidationError reports why raw input failed shape or range checks.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Run validates in's shapes and frame counts, synthesizes any absent parameter, and
// returns every score array in the log domain. It never mutates the
// caller's slices; it always allocates fresh output buffers.
func Run(in Input) (Normalized, error) {
	if in.S <= 0 {
		return Normalized{}, &ValidationError{Msg: fmt.Sprintf("state count must be >= 1, got %d", in.S)}
	}
	if in.B <= 0 || in.Tmax <= 0 {
		return Normalized{}, &ValidationError{Msg: fmt.Sprintf("batch size and max length must be >= 1, got B=%d Tmax=%d", in.B, in.Tmax)}
	}
	wantObsLen := in.B * in.Tmax * in.S
	if len(in.Observation) != wantObsLen {
		return Normalized{}, &ValidationError{Msg: fmt.Sprintf("observation must have %d elements (B*Tmax*S), got %d", wantObsLen, len(in.Observation))}
	}

	frameCounts := make([]int32, in.B)
	if in.FrameCounts == nil {
		for b := range frameCounts {
			frameCounts[b] = int32(in.Tmax)
		}
	} else {
		if len(in.FrameCounts) != in.B {
			return Normalized{}, &ValidationError{Msg: fmt.Sprintf("frame_counts must have length B=%d, got %d", in.B, len(in.FrameCounts))}
		}
		for b, l := range in.FrameCounts {
			if l < 1 || int(l) > in.Tmax {
				return Normalized{}, &ValidationError{Msg: fmt.Sprintf("frame_counts[%d]=%d out of range [1, %d]", b, l, in.Tmax)}
			}
			frameCounts[b] = l
		}
	}

	uniformState := 1.0 / float64(in.S)
	if in.LogProbs {
		uniformState = -math.Log(float64(in.S))
	}

	transition := make([]float64, in.S*in.S)
	if in.Transition == nil {
		for i := range transition {
			transition[i] = uniformState
		}
	} else {
		if len(in.Transition) != in.S*in.S {
			return Normalized{}, &ValidationError{Msg: fmt.Sprintf("transition must be (S,S)=%d elements, got %d", in.S*in.S, len(in.Transition))}
		}
		copy(transition, in.Transition)
	}

	initial := make([]float64, in.S)
	if in.Initial == nil {
		for i := range initial {
			initial[i] = uniformState
		}
	} else {
		if len(in.Initial) != in.S {
			return Normalized{}, &ValidationError{Msg: fmt.Sprintf("initial must have length S=%d, got %d", in.S, len(in.Initial))}
		}
		copy(initial, in.Initial)
	}

	observation := make([]float64, len(in.Observation))
	copy(observation, in.Observation)

	if !in.LogProbs {
		logInPlace(observation)
		logInPlace(transition)
		logInPlace(initial)
	}

	return Normalized{
		Observation: observation,
		FrameCounts: frameCounts,
		Transition:  transition,
		Initial:     initial,
	}, nil
}

// logInPlace applies the natural log element-wise, mapping a probability
// of exactly 0 to negative infinity rather than NaN.
func logInPlace(xs []float64) {
	for i, x := range xs {
		if x == 0 {
			xs[i] = math.Inf(-1)
			continue
		}
		xs[i] = math.Log(x)
	}
}
