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

package viterbi

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/viterbi-batch/internal/kernel/cpu"
	"github.com/ajroetker/viterbi-batch/internal/kernel/gpu"
	"github.com/ajroetker/viterbi-batch/internal/normalize"
	"github.com/ajroetker/viterbi-batch/internal/plan"
	"github.com/ajroetker/viterbi-batch/internal/workerpool"
)

// Decode runs the Normalizer, Planner, and the selected kernel in sequence
// and returns the decoded index array. It is synchronous end to end: it
// returns only once every item's path has been written. There is no
// caching and no implicit batching across calls; every call is an
// independent decode.
//
// ctx is consulted only by the GPU kernel, once as each block starts; the
// CPU kernel does not consult it. Cancellation is not supported partway
// through a sequence's recurrence.
func Decode(ctx context.Context, req Request) (Result, error) {
	norm, err := normalize.Run(normalize.Input{
		Observation: req.Observation,
		B:           req.B,
		Tmax:        req.Tmax,
		S:           req.S,
		FrameCounts: req.FrameCounts,
		Transition:  req.Transition,
		Initial:     req.Initial,
		LogProbs:    req.LogProbs,
	})
	if err != nil {
		var verr *normalize.ValidationError
		if errors.As(err, &verr) {
			return Result{}, invalidArgf("%s", verr.Error())
		}
		return Result{}, invalidArgf("%s", err.Error())
	}

	device := plan.CPU
	if req.Device.gpu {
		device = plan.GPU
	}

	p, err := plan.Build(req.B, req.Tmax, req.S, device, req.Device.index)
	if err != nil {
		var aerr *plan.AllocationError
		if errors.As(err, &aerr) {
			return Result{}, outOfResources(aerr.Error(), err)
		}
		return Result{}, outOfResources(err.Error(), err)
	}

	logrus.WithFields(logrus.Fields{
		"device": device.String(),
		"batch":  req.B,
		"tmax":   req.Tmax,
		"states": req.S,
	}).Debug("viterbi: dispatching decode")

	if device == plan.GPU {
		kp := gpu.Params{
			Observation: norm.Observation,
			FrameCounts: norm.FrameCounts,
			Transition:  norm.Transition,
			Initial:     norm.Initial,
			B:           req.B,
			Tmax:        req.Tmax,
			S:           req.S,
		}
		indices, err := gpu.Run(ctx, req.Device.index, kp, p.Psi)
		if err != nil {
			return Result{}, deviceErrorf("%s", err.Error())
		}
		return Result{Indices: indices}, nil
	}

	pool := workerpool.New(0)
	defer pool.Close()

	kp := cpu.Params{
		Observation: norm.Observation,
		FrameCounts: norm.FrameCounts,
		Transition:  norm.Transition,
		Initial:     norm.Initial,
		B:           req.B,
		Tmax:        req.Tmax,
		S:           req.S,
	}
	indices := cpu.Run(pool, kp, p.Psi)
	return Result{Indices: indices}, nil
}
