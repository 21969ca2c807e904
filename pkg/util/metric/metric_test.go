// Copyright 2023 Matrix Origin
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

package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(StrategyCounter("diff", "hash"))
	StrategyInc("diff", "hash")
	require.Equal(t, before+1, testutil.ToFloat64(StrategyCounter("diff", "hash")))

	RowsAdd("diff", 10)
	require.Equal(t, float64(10), testutil.ToFloat64(RowsCounter("diff")))

	SetEnable(false)
	defer SetEnable(true)
	require.False(t, Enabled())
	GrowthInc()
	StrategyInc("diff", "hash")
	require.Equal(t, before+1, testutil.ToFloat64(StrategyCounter("diff", "hash")))
	require.Equal(t, float64(0), testutil.ToFloat64(GrowthCounter))
}

func TestGather(t *testing.T) {
	RowsAdd("union", 1)
	mfs, err := Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	require.True(t, names["batcore_colexec_rows_total"])
	require.True(t, names["batcore_bat_growth_total"])
}
