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
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/config"
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
	mock_colexec "github.com/matrixorigin/batcore/pkg/sql/colexec/test"
	"github.com/matrixorigin/batcore/pkg/vm/process"
)

func forceUnique(s colexec.Strategy) *gostub.Stubs {
	return gostub.Stub(&chooseUnique, func(_ bat.Meta, _ bool, _ config.Tuning) colexec.Strategy {
		return s
	})
}

func TestUniqueExample(t *testing.T) {
	mp := mpool.MustNewZero()
	b, err := bat.FromSlices(mp, []int32{3, 1, 3, 2, 1}, []int16{0, 1, 2, 3, 4})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tr := mock_colexec.NewMockTracer(ctrl)
	tr.EXPECT().Strategy(gomock.Any(), colexec.Unique, colexec.Direct, gomock.Any(), gomock.Any())
	tr.EXPECT().Fallback(gomock.Any(), colexec.Unique, colexec.Direct, colexec.Hash).AnyTimes()
	tr.EXPECT().Done(gomock.Any(), colexec.Unique, 3, gomock.Any())

	res, err := Unique(newProc(mp, process.WithTracer(tr)), b, false)
	require.NoError(t, err)
	require.Equal(t, []int32{3, 1, 2}, res.Heads())
	require.Equal(t, []int16{0, 1, 3}, res.Tails())
	require.True(t, res.Head().Key())
	require.True(t, res.SetKey())
	res.Free()

	for _, s := range []colexec.Strategy{colexec.Direct, colexec.Hash} {
		stubs := forceUnique(s)
		res, err = Unique(newProc(mp), b, false)
		stubs.Reset()
		require.NoError(t, err)
		require.Equal(t, []int32{3, 1, 2}, res.Heads(), "strategy %s", s)
		require.True(t, res.Head().Key())
		res.Free()
	}
}

func TestUniqueStrategies(t *testing.T) {
	mp := mpool.MustNewZero()
	rnd := rand.New(rand.NewSource(13))
	for _, sorted := range []bool{false, true} {
		rows := randRows(rnd, 500, sorted)
		b := build(t, mp, rows)
		for _, full := range []bool{false, true} {
			strategies := []colexec.Strategy{colexec.Direct, colexec.Hash}
			if sorted && !full {
				strategies = append(strategies, colexec.Sorted)
			}
			for _, s := range strategies {
				stubs := forceUnique(s)
				res, err := Unique(newProc(mp), b, full)
				stubs.Reset()
				require.NoError(t, err)
				want := refUnique(rows, full)
				require.Equal(t, want, rowsOf(res), "strategy %s full=%v sorted=%v", s, full, sorted)
				if full {
					require.True(t, res.SetKey())
				} else {
					require.True(t, res.Head().Key())
				}
				res.Free()
			}
		}
		b.Free()
	}
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestUniqueCopy(t *testing.T) {
	mp := mpool.MustNewZero()
	b, err := bat.FromSlices(mp, []int32{5, 1, 3}, []int16{1, 1, 1})
	require.NoError(t, err)
	b.Head().SetKey(true)
	d, err := bat.NewDenseHead[int32, int16](mp, 7, []int16{2, 2, 2})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tr := mock_colexec.NewMockTracer(ctrl)
	tr.EXPECT().Strategy(gomock.Any(), colexec.Unique, colexec.Copy, gomock.Any(), gomock.Any()).Times(3)
	tr.EXPECT().Done(gomock.Any(), colexec.Unique, 3, gomock.Any()).Times(3)
	proc := newProc(mp, process.WithTracer(tr))

	for _, tt := range []struct {
		b    *bat.BAT[int32, int16]
		full bool
	}{{b, false}, {d, false}, {d, true}} {
		res, err := Unique(proc, tt.b, tt.full)
		require.NoError(t, err)
		require.True(t, bat.Aligned(res, tt.b))
		require.Equal(t, tt.b.Heads(), res.Heads())
		res.Free()
	}
}

func TestUniqueEstimate(t *testing.T) {
	mp := mpool.MustNewZero()
	n := 1000
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{int32(i % 100), int16(i % 3)}
	}
	b := build(t, mp, rows)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	tr := mock_colexec.NewMockTracer(ctrl)
	tr.EXPECT().Strategy(gomock.Any(), colexec.Unique, colexec.Hash, gomock.Any(), gomock.Any()).Times(2)
	tr.EXPECT().Estimate(gomock.Any(), colexec.Unique, n, gomock.Any()).Times(2)
	tr.EXPECT().Done(gomock.Any(), colexec.Unique, 100, gomock.Any())
	tr.EXPECT().Done(gomock.Any(), colexec.Unique, 300, gomock.Any())

	tuning := config.DefaultTuning()
	tuning.EstimateLimit = 10
	tuning.DirectHashLimit = 16
	proc := newProc(mp, process.WithTracer(tr), process.WithTuning(tuning))

	res, err := Unique(proc, b, false)
	require.NoError(t, err)
	require.Equal(t, refUnique(rows, false), rowsOf(res))
	require.True(t, res.Head().HasHash())
	res.Free()

	res, err = Unique(proc, b, true)
	require.NoError(t, err)
	require.Equal(t, refUnique(rows, true), rowsOf(res))
	res.Free()
}
