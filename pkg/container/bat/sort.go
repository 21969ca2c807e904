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
	"slices"

	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/container/types"
)

// Sorted returns b ordered ascending on its head, equal heads keeping their
// order: b itself when its head is already sorted, otherwise a copy charged
// to mp. owned tells the caller it must free the result. Sort on the tail
// with Sorted(mp, b.Mirror()).
func Sorted[H, T types.Scalar](mp *mpool.MPool, b *BAT[H, T]) (s *BAT[H, T], owned bool, err error) {
	if b.head.sorted {
		return b, false, nil
	}
	s, err = sortedCopy(mp, b)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func sortedCopy[H, T types.Scalar](mp *mpool.MPool, b *BAT[H, T]) (*BAT[H, T], error) {
	n := b.Count()
	sels, err := mpool.MakeSlice[int32](mp, n, n)
	if err != nil {
		return nil, err
	}
	defer mpool.FreeSlice(mp, sels)
	for i := range sels {
		sels[i] = int32(i)
	}
	slices.SortStableFunc(sels, func(x, y int32) int {
		return types.Compare(b.head.Get(int(x)), b.head.Get(int(y)))
	})

	r, err := New[H, T](mp, n)
	if err != nil {
		return nil, err
	}
	for _, sel := range sels {
		if err = r.Append(b.Get(int(sel))); err != nil {
			r.Free()
			return nil, err
		}
	}
	r.head.key = r.head.key || b.head.key
	r.tail.key = r.tail.key || b.tail.key
	r.st.setKey = r.st.setKey || b.SetKey()
	return r, nil
}
