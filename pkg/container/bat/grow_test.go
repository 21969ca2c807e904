// Copyright 2021 - 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
)

func TestExtrapolate(t *testing.T) {
	require.Equal(t, 5, Extrapolate(4, 0, 10, 1))
	// 10 pairs out of 4 rows, 3 per row for the 6 left
	require.Equal(t, 10+3*6+1, Extrapolate(10, 4, 10, 1))
	require.Equal(t, 11, Extrapolate(10, 10, 10, 1))
	require.Equal(t, 11, Extrapolate(10, 12, 10, 1))
}

// crossLoop feeds outer*yield pairs through a Grower.
func crossLoop(t *testing.T, mp *mpool.MPool, outer int, yield func(i int) int) *BAT[int64, int64] {
	b, err := New[int64, int64](mp, 0)
	require.NoError(t, err)
	g := NewGrower(b, outer)
	for i := 0; i < outer; i++ {
		for j := 0; j < yield(i); j++ {
			require.NoError(t, g.Append(int64(i), int64(j)))
			require.LessOrEqual(t, b.Count(), b.Capacity())
		}
		g.Next()
	}
	return g.BAT()
}

func TestGrowerAdversarial(t *testing.T) {
	mp := mpool.MustNewZero()
	defer mpool.DeleteMPool(mp)

	// every outer row matches every inner row
	b := crossLoop(t, mp, 100, func(int) int { return 100 })
	require.Equal(t, 100*100, b.Count())
	for i := 0; i < b.Count(); i++ {
		h, tt := b.Get(i)
		require.Equal(t, int64(i/100), h)
		require.Equal(t, int64(i%100), tt)
	}
	// one extrapolation after the first row sizes the whole output
	require.Equal(t, 100*100+1, b.Capacity())
	b.Free()

	// no outer row matches
	b = crossLoop(t, mp, 1000, func(int) int { return 0 })
	require.Equal(t, 0, b.Count())
	require.Equal(t, 0, b.Capacity())
	b.Free()

	// only the last row explodes
	b = crossLoop(t, mp, 50, func(i int) int {
		if i == 49 {
			return 5000
		}
		return 1
	})
	require.Equal(t, 49+5000, b.Count())
	tails := b.Tails()
	require.Equal(t, int64(4999), tails[len(tails)-1])
	require.Less(t, b.Capacity(), 4*b.Count())
	b.Free()
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestGrowerOOM(t *testing.T) {
	mp, err := mpool.NewMPool("grow-oom", 4096)
	require.NoError(t, err)
	defer mpool.DeleteMPool(mp)

	b, err := New[int64, int64](mp, 0)
	require.NoError(t, err)
	g := NewGrower(b, 10)
	for i := 0; err == nil && i < 10; i++ {
		for j := 0; err == nil && j < 1000; j++ {
			err = g.Append(int64(i), int64(j))
		}
		g.Next()
	}
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
	require.LessOrEqual(t, b.Count(), b.Capacity())
	b.Free()
	require.Equal(t, int64(0), mp.CurrNB())
}
