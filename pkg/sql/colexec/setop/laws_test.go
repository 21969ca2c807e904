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

package setop

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/container/bat"
)

func keyed(rnd *rand.Rand, mp *mpool.MPool, n int) *bat.BAT[int32, int16] {
	perm := rnd.Perm(3 * n)[:n]
	b, err := bat.New[int32, int16](mp, n)
	if err != nil {
		panic(err)
	}
	for i, v := range perm {
		if err = b.Append(int32(v), int16(i%7)); err != nil {
			panic(err)
		}
	}
	b.Head().SetKey(true)
	return b
}

func headSet(b *bat.BAT[int32, int16]) []int32 {
	hs := b.Heads()
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

func TestSetLaws(t *testing.T) {
	convey.Convey("set algebra over key operands", t, func() {
		mp := mpool.MustNewZero()
		proc := newProc(mp)
		rnd := rand.New(rand.NewSource(21))
		a, b := keyed(rnd, mp, 300), keyed(rnd, mp, 200)

		convey.Convey("union counts each key once", func() {
			u, err := Union(proc, a, b, false)
			convey.So(err, convey.ShouldBeNil)
			i, err := Intersect(proc, a, b, false)
			convey.So(err, convey.ShouldBeNil)
			convey.So(u.Count(), convey.ShouldEqual, a.Count()+b.Count()-i.Count())
			convey.So(u.Head().Key(), convey.ShouldBeTrue)
		})

		convey.Convey("diff and intersect partition l", func() {
			d, err := Diff(proc, a, b, false)
			convey.So(err, convey.ShouldBeNil)
			i, err := Intersect(proc, a, b, false)
			convey.So(err, convey.ShouldBeNil)
			convey.So(d.Count()+i.Count(), convey.ShouldEqual, a.Count())
			u, err := Union(proc, d, i, false)
			convey.So(err, convey.ShouldBeNil)
			convey.So(headSet(u), convey.ShouldResemble, headSet(a))
		})

		convey.Convey("intersect commutes on heads", func() {
			ab, err := Intersect(proc, a, b, false)
			convey.So(err, convey.ShouldBeNil)
			ba, err := Intersect(proc, b, a, false)
			convey.So(err, convey.ShouldBeNil)
			convey.So(headSet(ab), convey.ShouldResemble, headSet(ba))
		})

		convey.Convey("diff with itself is empty", func() {
			d, err := Diff(proc, a, a, true)
			convey.So(err, convey.ShouldBeNil)
			convey.So(d.Count(), convey.ShouldEqual, 0)
		})

		convey.Convey("unique is idempotent", func() {
			u, err := Union(proc, a, a, false)
			convey.So(err, convey.ShouldBeNil)
			convey.So(u.Count(), convey.ShouldEqual, a.Count())
			once, err := Unique(proc, u, true)
			convey.So(err, convey.ShouldBeNil)
			twice, err := Unique(proc, once, true)
			convey.So(err, convey.ShouldBeNil)
			convey.So(twice.Count(), convey.ShouldEqual, once.Count())
			convey.So(headSet(once), convey.ShouldResemble, headSet(a))
		})
	})
}
