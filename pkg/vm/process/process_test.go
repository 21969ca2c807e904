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

package process

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/config"
	"github.com/matrixorigin/batcore/pkg/logutil"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
)

func TestNew(t *testing.T) {
	mp := mpool.MustNewZero()
	defer mpool.DeleteMPool(mp)

	proc := New(context.Background(), mp)
	require.NotEmpty(t, proc.Id)
	require.Equal(t, mp, proc.Mp)
	require.Equal(t, config.DefaultTuning(), proc.Tuning)
	require.Equal(t, colexec.NoopTracer{}, proc.Tracer)
	require.Equal(t, zap.String("call", proc.Id), logutil.ContextField(proc.Ctx))

	err := moerr.NewInvalidOperand(proc.Ctx, "left")
	require.Equal(t, "call "+proc.Id, err.Detail())

	other := New(context.Background(), mp, WithId("fixed"), WithTuning(config.Tuning{DirectHashLimit: 1}))
	require.Equal(t, "fixed", other.Id)
	require.Equal(t, 1, other.Tuning.DirectHashLimit)
	require.NotEqual(t, proc.Id, New(context.Background(), mp).Id)
}

func TestNewFromConfig(t *testing.T) {
	mp := mpool.MustNewZero()
	defer mpool.DeleteMPool(mp)

	cfg := config.Default()
	cfg.Tuning.NestedLoopLimit = 7
	proc := NewFromConfig(context.Background(), mp, cfg)
	require.Equal(t, 7, proc.Tuning.NestedLoopLimit)
	require.Equal(t, colexec.NoopTracer{}, proc.Tracer)

	cfg.Debug.Esti = true
	proc = NewFromConfig(context.Background(), mp, cfg)
	require.Equal(t, colexec.LogTracer{Esti: true}, proc.Tracer)
	proc.Info("process ready")
}
