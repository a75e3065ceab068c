// Copyright 2026 Blink Labs Software
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

package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64ValueScan(t *testing.T) {
	for _, input := range []uint64{0, 42, math.MaxInt64 + 1, math.MaxUint64} {
		val, err := Uint64(input).Value()
		require.NoError(t, err)
		var out Uint64
		require.NoError(t, out.Scan(val))
		assert.Equal(t, Uint64(input), out)
	}
	var out Uint64
	require.NoError(t, out.Scan([]byte("12")))
	assert.Equal(t, Uint64(12), out)
	require.NoError(t, out.Scan(int64(7)))
	assert.Equal(t, Uint64(7), out)
	require.Error(t, out.Scan(int64(-1)))
	require.Error(t, out.Scan(12))
	require.Error(t, out.Scan("not a number"))
}
