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

package colexec

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/logutil"
	"github.com/matrixorigin/batcore/pkg/util/metric"
)

// Tracer observes operator calls. It replaces compile time debug switches,
// the default does nothing.
type Tracer interface {
	// Strategy is called once per call, before any output is produced.
	Strategy(ctx context.Context, op Op, s Strategy, l, r bat.Meta)
	// Fallback is called when a strategy gives up for another one.
	Fallback(ctx context.Context, op Op, from, to Strategy)
	// Estimate reports a distinct count estimate made for rows input rows.
	Estimate(ctx context.Context, op Op, rows int, estimate uint64)
	// Done is called on success with the result count.
	Done(ctx context.Context, op Op, rows int, elapsed time.Duration)
}

type NoopTracer struct{}

func (NoopTracer) Strategy(context.Context, Op, Strategy, bat.Meta, bat.Meta) {}
func (NoopTracer) Fallback(context.Context, Op, Strategy, Strategy)           {}
func (NoopTracer) Estimate(context.Context, Op, int, uint64)                  {}
func (NoopTracer) Done(context.Context, Op, int, time.Duration)               {}

// LogTracer logs decisions through logutil.
type LogTracer struct {
	// Algo logs strategies, fallbacks and results.
	Algo bool
	// Esti logs estimates.
	Esti bool
}

func (t LogTracer) Strategy(ctx context.Context, op Op, s Strategy, l, r bat.Meta) {
	if !t.Algo {
		return
	}
	logutil.InfoCtx(ctx, "colexec strategy",
		zap.Stringer("op", op),
		zap.Stringer("strategy", s),
		zap.Int("l", l.Count),
		zap.Int("r", r.Count),
		zap.Stringer("l.head", l.Head),
		zap.Stringer("r.head", r.Head))
}

func (t LogTracer) Fallback(ctx context.Context, op Op, from, to Strategy) {
	if !t.Algo {
		return
	}
	logutil.WarnCtx(ctx, "colexec fallback",
		zap.Stringer("op", op),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
}

func (t LogTracer) Estimate(ctx context.Context, op Op, rows int, estimate uint64) {
	if !t.Esti {
		return
	}
	logutil.InfoCtx(ctx, "colexec estimate",
		zap.Stringer("op", op),
		zap.Int("rows", rows),
		zap.Uint64("estimate", estimate))
}

func (t LogTracer) Done(ctx context.Context, op Op, rows int, elapsed time.Duration) {
	if !t.Algo {
		return
	}
	logutil.InfoCtx(ctx, "colexec done",
		zap.Stringer("op", op),
		zap.Int("rows", rows),
		zap.Duration("elapsed", elapsed))
}

// NoteStrategy reports s to tr and counts it.
func NoteStrategy(ctx context.Context, tr Tracer, op Op, s Strategy, l, r bat.Meta) {
	metric.StrategyInc(string(op), s.String())
	tr.Strategy(ctx, op, s, l, r)
}

// NoteFallback reports a switch of strategy and counts the new one.
func NoteFallback(ctx context.Context, tr Tracer, op Op, from, to Strategy) {
	metric.StrategyInc(string(op), to.String())
	tr.Fallback(ctx, op, from, to)
}

// NoteDone reports the rows of a successful call.
func NoteDone(ctx context.Context, tr Tracer, op Op, rows int, start time.Time) {
	metric.RowsAdd(string(op), rows)
	tr.Done(ctx, op, rows, time.Since(start))
}
