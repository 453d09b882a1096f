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

// Package gpu implements the cooperative-block variant of the Viterbi
// kernel: one block per batch item, G cooperating lanes per block, an
// intra-block barrier between frames. This module carries no cgo/CUDA
// bindings, so a "block" is a group of goroutines and a "lane" is one of
// them; the barrier is a sync.WaitGroup closed and re-armed once per
// frame. The launch geometry, lane striping, and frame barrier model a
// real cooperative-block GPU launch directly; what's simulated is the
// device, not the algorithm's shape.
package gpu

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// NumDevices is the number of simulated GPU devices this module exposes.
// A real deployment would query the driver; this module has exactly one
// device, index 0.
const NumDevices = 1

// MaxLanes is the largest power-of-two lane count a block will use,
// matching the "typically 256 or 512" guidance; it is capped far lower
// here because lanes are goroutines, not SIMT threads, and the state
// counts this module is asked to decode rarely benefit from more than a
// few dozen concurrent scanners per frame.
const MaxLanes = 32

// Params mirrors cpu.Params; kept as a distinct type so the two kernel
// packages do not share an import that would let a future change to one
// silently change the other.
type Params struct {
	Observation []float64
	FrameCounts []int32
	Transition  []float64
	Initial     []float64
	B, Tmax, S  int
}

// LaunchError reports a simulated device-side failure. Run returns it for
// an invalid device index, which lets tests exercise the DeviceError path
// without needing real hardware.
type LaunchError struct {
	Msg string
}

func (e *LaunchError) Error() string { return e.Msg }

// lanesFor picks G as the largest power of two <= min(S, MaxLanes).
func lanesFor(s int) int {
	g := 1
	for g*2 <= s && g*2 <= MaxLanes {
		g *= 2
	}
	return g
}

// Run validates deviceIndex, then runs one cooperative block per batch item
// concurrently, each block itself running G lanes per frame. For identical
// input it fills psi and returns indices with the same shape and content as
// cpu.Run.
func Run(ctx context.Context, deviceIndex int, p Params, psi []int32) ([]int32, error) {
	if deviceIndex < 0 || deviceIndex >= NumDevices {
		return nil, &LaunchError{Msg: fmt.Sprintf("invalid GPU device index %d", deviceIndex)}
	}

	indices := make([]int32, p.B*p.Tmax)

	g, ctx := errgroup.WithContext(ctx)
	for b := 0; b < p.B; b++ {
		b := b
		g.Go(func() error {
			return runBlock(ctx, p, psi, indices, b)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return indices, nil
}

// runBlock executes the per-frame lane-striped scan for one batch item,
// synchronizing lanes with a barrier between frames, then performs the
// traceback for that item on the block's lane 0.
func runBlock(ctx context.Context, p Params, psi []int32, indices []int32, b int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s := p.S
	lb := int(p.FrameCounts[b])
	obsBase := b * p.Tmax * s
	psiBase := b * p.Tmax * s
	idxBase := b * p.Tmax
	g := lanesFor(s)

	cur := make([]float64, s)
	next := make([]float64, s)

	for st := 0; st < s; st++ {
		cur[st] = p.Initial[st] + p.Observation[obsBase+st]
	}

	for t := 1; t < lb; t++ {
		obsRow := obsBase + t*s
		psiRow := psiBase + t*s

		var wg sync.WaitGroup
		wg.Add(g)
		for lane := 0; lane < g; lane++ {
			lane := lane
			go func() {
				defer wg.Done()
				for dst := lane; dst < s; dst += g {
					emit := p.Observation[obsRow+dst]
					bestScore := cur[0] + p.Transition[dst] + emit
					bestI := 0
					for src := 1; src < s; src++ {
						score := cur[src] + p.Transition[src*s+dst] + emit
						if score > bestScore {
							bestScore = score
							bestI = src
						}
					}
					next[dst] = bestScore
					psi[psiRow+dst] = int32(bestI)
				}
			}()
		}
		wg.Wait() // block-wide barrier before the buffers swap

		cur, next = next, cur
	}

	bestScore := cur[0]
	bestState := 0
	for st := 1; st < s; st++ {
		if cur[st] > bestScore {
			bestScore = cur[st]
			bestState = st
		}
	}

	indices[idxBase+lb-1] = int32(bestState)
	state := bestState
	for t := lb - 2; t >= 0; t-- {
		state = int(psi[psiBase+(t+1)*s+state])
		indices[idxBase+t] = int32(state)
	}
	return nil
}
