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

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/common/mpool"
	"github.com/matrixorigin/batcore/pkg/config"
	"github.com/matrixorigin/batcore/pkg/container/bat"
	"github.com/matrixorigin/batcore/pkg/logutil"
	"github.com/matrixorigin/batcore/pkg/sql/colexec"
	"github.com/matrixorigin/batcore/pkg/sql/colexec/bandjoin"
	"github.com/matrixorigin/batcore/pkg/sql/colexec/rangejoin"
	"github.com/matrixorigin/batcore/pkg/sql/colexec/setop"
	"github.com/matrixorigin/batcore/pkg/util/metric"
	"github.com/matrixorigin/batcore/pkg/vm/process"
)

type options struct {
	rows    int
	trials  int
	workers int
	seed    int64
}

type opStat struct {
	calls   int
	rows    int
	elapsed time.Duration
}

type report struct {
	sync.Mutex
	ops     map[colexec.Op]*opStat
	trials  int
	elapsed time.Duration
	hwm     int64
	global  int64
	usage   string
	metrics []string
}

func (r *report) add(op colexec.Op, rows int, elapsed time.Duration) {
	r.Lock()
	defer r.Unlock()
	st, ok := r.ops[op]
	if !ok {
		st = new(opStat)
		r.ops[op] = st
	}
	st.calls++
	st.rows += rows
	st.elapsed += elapsed
}

func (r *report) print(w io.Writer) {
	fmt.Fprintf(w, "trials %d in %s, mpool high water mark %s, process %s\n", r.trials, r.elapsed,
		humanize.Bytes(uint64(r.hwm)), humanize.Bytes(uint64(r.global)))
	fmt.Fprintln(w, r.usage)
	ops := make([]string, 0, len(r.ops))
	for op := range r.ops {
		ops = append(ops, string(op))
	}
	sort.Strings(ops)
	for _, op := range ops {
		st := r.ops[colexec.Op(op)]
		fmt.Fprintf(w, "%-10s calls %-4d rows %-10s elapsed %s\n", op, st.calls, humanize.Comma(int64(st.rows)), st.elapsed)
	}
	for _, m := range r.metrics {
		fmt.Fprintln(w, m)
	}
}

// run executes opt.trials independent trials on a worker pool. Trials share
// mp but no BAT.
func run(ctx context.Context, cfg *config.Config, mp *mpool.MPool, opt options) (*report, error) {
	if opt.rows <= 0 {
		return nil, moerr.NewInvalidInput(ctx, "-rows %d must be positive", opt.rows)
	}
	if opt.trials <= 0 {
		return nil, moerr.NewInvalidInput(ctx, "-trials %d must be positive", opt.trials)
	}
	workers := opt.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}
	pool, err := ants.NewPool(workers,
		ants.WithExpiryDuration(200*time.Millisecond),
		ants.WithPanicHandler(func(v interface{}) {
			fail(moerr.ConvertPanicError(ctx, v))
		}))
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	defer pool.Release()

	rep := &report{ops: make(map[colexec.Op]*opStat), trials: opt.trials}
	start := time.Now()
	for i := 0; i < opt.trials; i++ {
		seed := opt.seed + int64(i)
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			if err := trial(ctx, cfg, mp, opt.rows, seed, rep); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(moerr.ConvertGoError(ctx, err))
			break
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	rep.elapsed = time.Since(start)
	rep.hwm = mp.Stats().HighWaterMark.Load()
	rep.global = mpool.GlobalStats().HighWaterMark.Load()
	rep.usage = mpool.ReportMemUsage(mp.Name())
	if metric.Enabled() {
		if rep.metrics, err = gather(); err != nil {
			return nil, moerr.ConvertGoError(ctx, err)
		}
	}
	return rep, nil
}

// gather renders every non zero counter of the metric registry.
func gather() ([]string, error) {
	mfs, err := metric.Gather()
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			v := m.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %v", mf.GetName(), strings.Join(labels, ","), v))
		}
	}
	return lines, nil
}

// trial runs every operator once on data generated from seed.
func trial(ctx context.Context, cfg *config.Config, mp *mpool.MPool, n int, seed int64, rep *report) (err error) {
	proc := process.NewFromConfig(ctx, mp, cfg)
	defer func() {
		if err != nil {
			err = moerr.AttachCall(proc.Ctx, err)
			logutil.ErrorCtx(proc.Ctx, "trial failed", zap.Int64("seed", seed), zap.Error(err))
		}
	}()
	rnd := rand.New(rand.NewSource(seed))
	timed := func(op colexec.Op, f func() (int, error)) error {
		start := time.Now()
		rows, err := f()
		if err != nil {
			return err
		}
		rep.add(op, rows, time.Since(start))
		return nil
	}

	left, err := randomBAT(mp, rnd, n, n)
	if err != nil {
		return err
	}
	defer left.Free()
	other, err := randomBAT(mp, rnd, n/2+1, n)
	if err != nil {
		return err
	}
	defer other.Free()

	if err = timed(colexec.RangeJoin, func() (int, error) {
		return rangeJoin(proc, rnd, left, n)
	}); err != nil {
		return err
	}
	if err = timed(colexec.BandJoin, func() (int, error) {
		return bandJoin(proc, rnd, left, n, seed%2 == 0)
	}); err != nil {
		return err
	}

	full := seed%2 == 1
	var union *bat.BAT[int64, int32]
	if err = timed(colexec.Union, func() (int, error) {
		union, err = setop.Union(proc, left, other, full)
		if err != nil {
			return 0, err
		}
		return union.Count(), nil
	}); err != nil {
		return err
	}
	defer union.Free()
	for _, op := range []struct {
		op colexec.Op
		f  func(*process.Process, *bat.BAT[int64, int32], *bat.BAT[int64, int32], bool) (*bat.BAT[int64, int32], error)
	}{
		{colexec.Diff, setop.Diff[int64, int32]},
		{colexec.Intersect, setop.Intersect[int64, int32]},
	} {
		if err = timed(op.op, func() (int, error) {
			res, err := op.f(proc, union, other, full)
			if err != nil {
				return 0, err
			}
			defer res.Free()
			return res.Count(), nil
		}); err != nil {
			return err
		}
	}
	if err = timed(colexec.Unique, func() (int, error) {
		res, err := setop.Unique(proc, union.Mirror(), full)
		if err != nil {
			return 0, err
		}
		defer res.Free()
		return res.Count(), nil
	}); err != nil {
		return err
	}
	proc.Debug("trial done", zap.Int64("seed", seed), zap.Int("rows", n))
	return nil
}

// randomBAT has row ids as head and values in [0, domain) as tail.
func randomBAT(mp *mpool.MPool, rnd *rand.Rand, n, domain int) (*bat.BAT[int64, int32], error) {
	b, err := bat.New[int64, int32](mp, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err = b.Append(int64(i), int32(rnd.Intn(domain))); err != nil {
			b.Free()
			return nil, err
		}
	}
	return b, nil
}

func rangeJoin(proc *process.Process, rnd *rand.Rand, left *bat.BAT[int64, int32], domain int) (int, error) {
	m := domain/100 + 1
	ids := make([]uint32, m)
	lo := make([]int32, m)
	hi := make([]int32, m)
	for i := range ids {
		ids[i] = uint32(i)
		lo[i] = int32(rnd.Intn(domain))
		hi[i] = lo[i] + int32(rnd.Intn(16))
	}
	rl, err := bat.FromSlices(proc.Mp, ids, lo)
	if err != nil {
		return 0, err
	}
	defer rl.Free()
	rh, err := bat.FromSlices(proc.Mp, ids, hi)
	if err != nil {
		return 0, err
	}
	defer rh.Free()
	res, err := rangejoin.Join(proc, left, rl, rh, true, rnd.Intn(2) == 0)
	if err != nil {
		return 0, err
	}
	defer res.Free()
	return res.Count(), nil
}

func bandJoin(proc *process.Process, rnd *rand.Rand, left *bat.BAT[int64, int32], domain int, dense bool) (int, error) {
	m := domain/10 + 1
	tails := make([]int64, m)
	for i := range tails {
		tails[i] = int64(i)
	}
	var right *bat.BAT[int32, int64]
	var err error
	if dense {
		right, err = bat.NewDenseHead[int32, int64](proc.Mp, int32(rnd.Intn(domain)), tails)
	} else {
		heads := make([]int32, m)
		for i := range heads {
			heads[i] = int32(rnd.Intn(domain))
		}
		right, err = bat.FromSlices(proc.Mp, heads, tails)
	}
	if err != nil {
		return 0, err
	}
	defer right.Free()
	res, err := bandjoin.Join(proc, left, right, 2, 3, true, rnd.Intn(2) == 0)
	if err != nil {
		return 0, err
	}
	defer res.Free()
	return res.Count(), nil
}
