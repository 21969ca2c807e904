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

package hashtable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
)

func TestHash(t *testing.T) {
	mp := mpool.MustNewZero()
	defer mpool.DeleteMPool(mp)

	keys := make([]int, 1000)
	h, err := New(mp, 0)
	require.NoError(t, err)
	for i := range keys {
		keys[i] = i % 100
		require.NoError(t, h.Add(uint64(keys[i]*7919)))
	}
	require.Equal(t, 1000, h.Len())
	require.Equal(t, h.Size(), mp.CurrNB())

	for k := 0; k < 100; k++ {
		var got []int
		for p := h.First(uint64(k * 7919)); p != End; p = h.Next(p) {
			if h.HashAt(p) == uint64(k*7919) {
				got = append(got, p)
			}
		}
		require.Equal(t, 10, len(got))
		for i, p := range got {
			require.Equal(t, k, keys[p])
			// newest first
			require.Equal(t, k+(9-i)*100, p)
		}
	}
	require.Equal(t, 142, h.Find(42*7919, func(pos int) bool { return pos < 200 }))
	require.Equal(t, End, h.Find(100*7919, func(int) bool { return true }))

	h.Free()
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestHashOOM(t *testing.T) {
	mp, err := mpool.NewMPool("hash-oom", 1024)
	require.NoError(t, err)
	defer mpool.DeleteMPool(mp)

	h, err := New(mp, 8)
	require.NoError(t, err)
	for err == nil {
		err = h.Add(uint64(h.Len()))
	}
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
	n := h.Len()
	for i := 0; i < n; i++ {
		require.Equal(t, i, h.Find(uint64(i), func(int) bool { return true }))
	}
	h.Free()
	require.Equal(t, int64(0), mp.CurrNB())

	_, err = New(mp, 1<<20)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestFixedMap(t *testing.T) {
	mp := mpool.MustNewZero()
	defer mpool.DeleteMPool(mp)

	ht, err := NewFixedMap(mp, 10)
	require.NoError(t, err)
	require.Equal(t, End, ht.Get(3))
	require.Equal(t, 0, ht.Insert(3, 0))
	require.Equal(t, 0, ht.Insert(3, 5))
	require.Equal(t, 1, ht.Insert(4, 1))
	// 64 slots, 3 and 67 share one
	require.Equal(t, 0, ht.Insert(67, 2))
	require.Equal(t, 1, ht.Get(4))
	ht.Free()
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestHashPop(t *testing.T) {
	mp := mpool.MustNewZero()
	defer mpool.DeleteMPool(mp)

	h, err := New(mp, 4)
	require.NoError(t, err)
	defer h.Free()
	require.NoError(t, h.Add(5))
	require.NoError(t, h.Add(5))
	require.NoError(t, h.Add(9))
	h.Pop()
	require.Equal(t, 2, h.Len())
	require.Equal(t, End, h.Find(9, func(int) bool { return true }))
	h.Pop()
	require.Equal(t, 0, h.Find(5, func(int) bool { return true }))
	h.Pop()
	h.Pop()
	require.Equal(t, 0, h.Len())
	require.Equal(t, End, h.First(5))
}
