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

// Package refimpl is a deliberately independent, non-parallel
// reimplementation of the forward pass, used only by tests to check the
// production kernels' decoded score against a second implementation. It
// favors gonum's dense vector type over the kernels' flat-slice indexing
// so a bug shared between the production kernels and this package is
// unlikely to be a coincidence of identical code.
package refimpl

import "gonum.org/v1/gonum/mat"

// BestFinalScore runs the Viterbi forward recurrence for a single sequence
// of length lb over S states and returns max_s delta_{lb-1}[s], using
// gonum.org/v1/gonum/mat for the per-frame vector arithmetic.
//
// obs is (lb, S) row-major restricted to this item's valid frames;
// transition is (S, S) row-major; initial is length S. All three must
// already be in the natural-log domain.
func BestFinalScore(obs []float64, lb, s int, transition, initial []float64) float64 {
	delta := mat.NewVecDense(s, nil)
	for st := 0; st < s; st++ {
		delta.SetVec(st, initial[st]+obs[st])
	}

	trans := mat.NewDense(s, s, transition)

	for t := 1; t < lb; t++ {
		next := mat.NewVecDense(s, nil)
		obsRow := obs[t*s : t*s+s]
		for dst := 0; dst < s; dst++ {
			best := delta.AtVec(0) + trans.At(0, dst)
			for src := 1; src < s; src++ {
				cand := delta.AtVec(src) + trans.At(src, dst)
				if cand > best {
					best = cand
				}
			}
			next.SetVec(dst, best+obsRow[dst])
		}
		delta = next
	}

	best := delta.AtVec(0)
	for st := 1; st < s; st++ {
		if v := delta.AtVec(st); v > best {
			best = v
		}
	}
	return best
}

// PathScore sums the log-score of a caller-provided path: initial[path[0]]
// + obs[0,path[0]] + sum_{t=1}^{lb-1} transition[path[t-1],path[t]] +
// obs[t,path[t]].
func PathScore(obs []float64, lb, s int, transition, initial []float64, path []int32) float64 {
	score := initial[path[0]] + obs[path[0]]
	for t := 1; t < lb; t++ {
		prev, cur := path[t-1], path[t]
		score += transition[int(prev)*s+int(cur)] + obs[t*s+int(cur)]
	}
	return score
}
