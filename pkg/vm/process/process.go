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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/config"
	"github.com/matrixorigin/batcore/pkg/logutil"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
)

// Process is the context of operator calls: where memory is charged, the
// strategy thresholds and who observes the decisions.
type Process struct {
	Id     string // call id
	Ctx    context.Context
	Mp     *mpool.MPool
	Tuning config.Tuning
	Tracer colexec.Tracer
}

type Option func(*Process)

func WithTuning(t config.Tuning) Option {
	return func(proc *Process) {
		proc.Tuning = t
	}
}

func WithTracer(tr colexec.Tracer) Option {
	return func(proc *Process) {
		proc.Tracer = tr
	}
}

// WithId overrides the generated call id.
func WithId(id string) Option {
	return func(proc *Process) {
		proc.Id = id
	}
}

// New creates a process charging mp. Errors raised and lines logged under
// it carry its id.
func New(ctx context.Context, mp *mpool.MPool, opts ...Option) *Process {
	proc := &Process{
		Id:     uuid.NewString(),
		Mp:     mp,
		Tuning: config.DefaultTuning(),
		Tracer: colexec.NoopTracer{},
	}
	for _, opt := range opts {
		opt(proc)
	}
	ctx = moerr.AttachCallID(ctx, proc.Id)
	proc.Ctx = logutil.WithCallID(ctx, proc.Id)
	return proc
}

// NewFromConfig creates a process from the tuning and debug sections of cfg.
func NewFromConfig(ctx context.Context, mp *mpool.MPool, cfg *config.Config, opts ...Option) *Process {
	base := []Option{
		WithTuning(cfg.Tuning),
	}
	if cfg.Debug.Algo || cfg.Debug.Esti {
		base = append(base, WithTracer(colexec.LogTracer{Algo: cfg.Debug.Algo, Esti: cfg.Debug.Esti}))
	}
	return New(ctx, mp, append(base, opts...)...)
}

func (proc *Process) Info(msg string, fields ...zap.Field) {
	logutil.InfoCtx(proc.Ctx, msg, fields...)
}

func (proc *Process) Debug(msg string, fields ...zap.Field) {
	logutil.DebugCtx(proc.Ctx, msg, fields...)
}
