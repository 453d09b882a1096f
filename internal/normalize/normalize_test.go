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

package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDefaultsAreUniformAndLogged(t *testing.T) {
	out, err := Run(Input{
		Observation: []float64{0.25, 0.25, 0.25, 0.25, 0.25, 0.25},
		B:           1, Tmax: 3, S: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []int32{3}, out.FrameCounts)
	assert.InDelta(t, math.Log(0.5), out.Transition[0], 1e-12)
	assert.InDelta(t, math.Log(0.5), out.Initial[0], 1e-12)
	assert.InDelta(t, math.Log(0.25), out.Observation[0], 1e-12)
}

func TestRunZeroProbabilityBecomesNegativeInfinity(t *testing.T) {
	out, err := Run(Input{
		Observation: []float64{0, 1},
		B:           1, Tmax: 1, S: 2,
	})
	require.NoError(t, err)
	assert.True(t, math.IsInf(out.Observation[0], -1))
	assert.Equal(t, 0.0, out.Observation[1])
}

func TestRunIdempotentWhenAlreadyLogDomain(t *testing.T) {
	logObs := []float64{math.Log(0.5), math.Log(0.5)}
	out, err := Run(Input{
		Observation: logObs,
		B:           1, Tmax: 1, S: 2,
		LogProbs: true,
	})
	require.NoError(t, err)
	assert.Equal(t, logObs, out.Observation)
	assert.InDelta(t, -math.Log(2), out.Transition[0], 1e-12)
}

func TestRunRejectsWrongObservationLength(t *testing.T) {
	_, err := Run(Input{Observation: []float64{0.5}, B: 1, Tmax: 1, S: 2})
	require.Error(t, err)
}

func TestRunRejectsFrameCountOutOfRange(t *testing.T) {
	_, err := Run(Input{
		Observation: []float64{0.5, 0.5, 0.5, 0.5},
		B:           1, Tmax: 2, S: 2,
		FrameCounts: []int32{3},
	})
	require.Error(t, err)
}

func TestRunRejectsZeroStates(t *testing.T) {
	_, err := Run(Input{Observation: nil, B: 1, Tmax: 1, S: 0})
	require.Error(t, err)
}

func TestRunRejectsMismatchedTransitionShape(t *testing.T) {
	_, err := Run(Input{
		Observation: []float64{0.5, 0.5},
		B:           1, Tmax: 1, S: 2,
		Transition: []float64{1, 0, 0},
	})
	require.Error(t, err)
}
