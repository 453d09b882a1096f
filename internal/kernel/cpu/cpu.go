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

// Package cpu implements the batch-parallel Viterbi forward pass and
// traceback. Each batch item runs the serial recurrence to completion on
// whichever worker pulls it; items share no mutable state, so the batch
// dimension parallelizes over a workerpool.Pool with no synchronization
// beyond the pool's own barrier.
package cpu

import "github.com/ajroetker/viterbi-batch/internal/workerpool"

// Params bundles the normalized, log-domain inputs every item's recurrence
// reads from. All fields are read-only during Run.
type Params struct {
	Observation []float64 // (B, Tmax, S)
	FrameCounts []int32   // (B,)
	Transition  []float64 // (S, S)
	Initial     []float64 // (S,)
	B, Tmax, S  int
}

// Run fills psi (shape (B, Tmax, S), caller-allocated) and returns the
// decoded index array of shape (B, Tmax) with padded positions zero-filled.
// pool may be nil, in which case items run sequentially on the caller's
// goroutine.
func Run(pool *workerpool.Pool, p Params, psi []int32) []int32 {
	indices := make([]int32, p.B*p.Tmax)

	decodeItem := func(b int) {
		decodeOne(p, psi, indices, b)
	}

	if pool == nil {
		for b := 0; b < p.B; b++ {
			decodeItem(b)
		}
		return indices
	}
	pool.ForEachItem(p.B, decodeItem)
	return indices
}

// decodeOne runs the forward recurrence and traceback for a single batch
// item b, writing into its slice of psi and indices.
func decodeOne(p Params, psi []int32, indices []int32, b int) {
	s := p.S
	lb := int(p.FrameCounts[b])
	obsBase := b * p.Tmax * s
	psiBase := b * p.Tmax * s
	idxBase := b * p.Tmax

	cur := make([]float64, s)
	next := make([]float64, s)

	// Frame 0: delta[s] = pi[s] + O[b,0,s].
	for st := 0; st < s; st++ {
		cur[st] = p.Initial[st] + p.Observation[obsBase+st]
	}

	for t := 1; t < lb; t++ {
		obsRow := obsBase + t*s
		psiRow := psiBase + t*s
		for dst := 0; dst < s; dst++ {
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
		cur, next = next, cur
	}

	// Traceback from the argmax of the last valid frame.
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
}
