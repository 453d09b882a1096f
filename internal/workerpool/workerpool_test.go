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

package workerpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEachItemVisitsEveryIndexExactlyOnce(t *testing.T) {
	p := New(4)
	defer p.Close()

	const n = 1000
	var seen [n]atomic.Bool
	p.ForEachItem(n, func(i int) {
		seen[i].Store(true)
	})
	for i := range seen {
		assert.True(t, seen[i].Load(), "index %d not visited", i)
	}
}

func TestForEachItemRunsSequentiallyAfterClose(t *testing.T) {
	p := New(4)
	p.Close()

	var count atomic.Int64
	p.ForEachItem(10, func(int) { count.Add(1) })
	assert.Equal(t, int64(10), count.Load())
}

func TestNewDefaultsToGOMAXPROCS(t *testing.T) {
	p := New(0)
	defer p.Close()
	assert.Greater(t, p.NumWorkers(), 0)
}
