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

// Package tensor provides the small, contiguous, row-major array descriptor
// used throughout the decoder: a shape plus a flat backing slice, and
// nothing else. The caller owns the backing slice; the decoder only ever
// reads from or writes into slices it is handed.
package tensor

import "fmt"

// Dense is a row-major, contiguous array of float64 scores.
// Shape order matches the axis order documented at each call site
// (e.g. observation is (B, Tmax, S)).
type Dense struct {
	Data  []float64
	Shape []int
}

// NewDense allocates a zero-valued Dense of the given shape.
func NewDense(shape ...int) Dense {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return Dense{Data: make([]float64, n), Shape: append([]int(nil), shape...)}
}

// Len returns the total element count implied by Shape.
func (d Dense) Len() int {
	n := 1
	for _, s := range d.Shape {
		n *= s
	}
	return n
}

// CheckShape reports an error if d.Shape does not match want exactly.
func (d Dense) CheckShape(want ...int) error {
	if len(d.Shape) != len(want) {
		return fmt.Errorf("expected %d axes, got %d", len(want), len(d.Shape))
	}
	for i, w := range want {
		if d.Shape[i] != w {
			return fmt.Errorf("axis %d: expected size %d, got %d", i, w, d.Shape[i])
		}
	}
	return nil
}

// DenseInt is the integer counterpart used for back-pointers and decoded
// paths. Index values are stored as int32, sufficient for state counts up
// to 2^31.
type DenseInt struct {
	Data  []int32
	Shape []int
}

// NewDenseInt allocates a zero-valued DenseInt of the given shape.
func NewDenseInt(shape ...int) DenseInt {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return DenseInt{Data: make([]int32, n), Shape: append([]int(nil), shape...)}
}
