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
	"fmt"

	"github.com/matrixorigin/batcore/pkg/container/types"
)

// ColMeta is the property snapshot of a column used to pick strategies.
type ColMeta struct {
	Type      types.T
	Sorted    bool
	RevSorted bool
	Dense     bool
	Key       bool
	NoNil     bool
	HasHash   bool
}

type Meta struct {
	Count  int
	SetKey bool
	Head   ColMeta
	Tail   ColMeta
}

func (c *Column[V]) Meta() ColMeta {
	return ColMeta{
		Type:      c.typ,
		Sorted:    c.sorted,
		RevSorted: c.revsorted,
		Dense:     c.dense != nil,
		Key:       c.key,
		NoNil:     c.NoNil(),
		HasHash:   c.hash != nil,
	}
}

func (b *BAT[H, T]) Meta() Meta {
	return Meta{
		Count:  b.Count(),
		SetKey: b.SetKey(),
		Head:   b.head.Meta(),
		Tail:   b.tail.Meta(),
	}
}

// Mirror swaps the column snapshots.
func (m Meta) Mirror() Meta {
	m.Head, m.Tail = m.Tail, m.Head
	return m
}

func (m ColMeta) String() string {
	return fmt.Sprintf("%s sorted=%v revsorted=%v dense=%v key=%v nonil=%v hash=%v",
		m.Type.OidString(), m.Sorted, m.RevSorted, m.Dense, m.Key, m.NoNil, m.HasHash)
}
