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

package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildComputesOffsetsAndAllocatesPsi(t *testing.T) {
	p, err := Build(3, 4, 5, CPU, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 20, 40}, p.Offsets)
	assert.Len(t, p.Psi, 3*4*5)
	assert.Equal(t, CPU, p.Device)
}

func TestBuildRejectsOversizedAllocation(t *testing.T) {
	_, err := Build(1, 1, MaxPsiElements+1, CPU, 0)
	require.Error(t, err)
	var aerr *AllocationError
	require.ErrorAs(t, err, &aerr)
}

func TestDeviceString(t *testing.T) {
	assert.Equal(t, "cpu", CPU.String())
	assert.Equal(t, "gpu", GPU.String())
}
