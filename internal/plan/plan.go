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

// Package plan computes the batch layout (per-item offsets, max length,
// device choice) and preallocates the back-pointer table before any kernel
// runs. Device selection is decided once, up front, as a single small enum
// value that every downstream component consults rather than re-deriving.
package plan

import "fmt"

// Device selects which kernel variant a Plan is bound to.
type Device int

const (
	// CPU dispatches to the worker-pool kernel.
	CPU Device = iota
	// GPU dispatches to the cooperative-block kernel on the given index.
	GPU
)

func (d Device) String() string {
	if d == GPU {
		return "gpu"
	}
	return "cpu"
}

// AllocationError reports a back-pointer table that could not be sized,
// the resource-exhaustion failure mode of a decode call.
type AllocationError struct {
	Msg string
}

func (e *AllocationError) Error() string { return e.Msg }

// Plan carries everything the kernels need that does not depend on the
// per-sequence scores themselves: device choice, offsets, and the
// preallocated back-pointer table.
type Plan struct {
	Device     Device
	GPUIndex   int
	B, Tmax, S int
	// Offsets[b] is the starting element offset of item b within a
	// (B, Tmax, S)-shaped flat array; Offsets[b] == b*Tmax*S.
	Offsets []int
	// Psi is the back-pointer table, shape (B, Tmax, S), flat. Psi[b,0,:]
	// is allocated but never read.
	Psi []int32
}

// MaxPsiElements bounds how large a back-pointer table this package will
// attempt to allocate before reporting OutOfResources; it exists so a
// pathological request fails fast with a typed error instead of an OOM
// panic deep inside make().
const MaxPsiElements = 1 << 34

// Build computes offsets and allocates psi, always as int32 back-pointers.
// device/gpuIndex come from the caller's request and are recorded in the
// returned Plan unchanged.
func Build(b, tmax, s int, device Device, gpuIndex int) (Plan, error) {
	n := b * tmax * s
	if n <= 0 || n > MaxPsiElements {
		return Plan{}, &AllocationError{Msg: fmt.Sprintf("back-pointer table of %d elements exceeds budget %d", n, MaxPsiElements)}
	}

	offsets := make([]int, b)
	for i := range offsets {
		offsets[i] = i * tmax * s
	}

	psi := make([]int32, n)

	return Plan{
		Device:   device,
		GPUIndex: gpuIndex,
		B:        b,
		Tmax:     tmax,
		S:        s,
		Offsets:  offsets,
		Psi:      psi,
	}, nil
}
