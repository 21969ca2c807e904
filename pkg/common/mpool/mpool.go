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

// Package mpool accounts the memory used by BAT storage and hash indexes.
// Slices are still owned by the Go runtime; the pool only tracks their
// capacity in bytes so that an operator exceeding its budget fails with
// an out of memory error instead of growing without bound.
package mpool

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
)

const (
	NoLimit = 0
)

// MPoolStats is the statistics of a mpool.
type MPoolStats struct {
	NumAlloc      atomic.Int64
	NumFree       atomic.Int64
	NumAllocBytes atomic.Int64
	NumFreeBytes  atomic.Int64
	NumCurrBytes  atomic.Int64
	HighWaterMark atomic.Int64
}

func (s *MPoolStats) recordAlloc(sz int64) {
	s.NumAlloc.Add(1)
	s.NumAllocBytes.Add(sz)
	curr := s.NumCurrBytes.Add(sz)
	for {
		hwm := s.HighWaterMark.Load()
		if curr <= hwm || s.HighWaterMark.CompareAndSwap(hwm, curr) {
			return
		}
	}
}

func (s *MPoolStats) recordFree(sz int64) {
	s.NumFree.Add(1)
	s.NumFreeBytes.Add(sz)
	s.NumCurrBytes.Add(-sz)
}

// MPool is named. A BAT and everything built for it during an operator call
// charges the same pool.
type MPool struct {
	id    int64
	name  string
	cap   int64
	stats MPoolStats
}

var nextPool atomic.Int64

var globalCap atomic.Int64
var globalStats MPoolStats
var globalPools sync.Map

// InitCap sets the process wide cap shared by every pool. 0 means no limit.
func InitCap(cap int64) {
	globalCap.Store(cap)
}

func GlobalStats() *MPoolStats {
	return &globalStats
}

// NewMPool creates a pool with a cap in bytes, 0 means no limit.
func NewMPool(name string, cap int64) (*MPool, error) {
	if cap < 0 {
		return nil, moerr.NewInvalidArg(moerr.Context(), "mpool cap", cap)
	}
	mp := &MPool{
		id:   nextPool.Add(1),
		name: name,
		cap:  cap,
	}
	globalPools.Store(mp.id, mp)
	return mp, nil
}

// MustNewZero creates a pool without cap, used in tests.
func MustNewZero() *MPool {
	mp, err := NewMPool("zero", NoLimit)
	if err != nil {
		panic(err)
	}
	return mp
}

// DeleteMPool unregisters mp.
func DeleteMPool(mp *MPool) {
	if mp == nil {
		return
	}
	globalPools.Delete(mp.id)
}

func (mp *MPool) Name() string {
	return mp.name
}

func (mp *MPool) Cap() int64 {
	return mp.cap
}

func (mp *MPool) Stats() *MPoolStats {
	return &mp.stats
}

// CurrNB returns the number of bytes currently charged to mp.
func (mp *MPool) CurrNB() int64 {
	return mp.stats.NumCurrBytes.Load()
}

// Reserve charges sz bytes to mp, failing with ErrOOM when either the pool
// cap or the global cap would be exceeded.
func (mp *MPool) Reserve(sz int64) error {
	if sz <= 0 {
		return nil
	}
	if mp.cap != NoLimit && mp.stats.NumCurrBytes.Load()+sz > mp.cap {
		return moerr.NewOOMNoCtx()
	}
	if gcap := globalCap.Load(); gcap != NoLimit && globalStats.NumCurrBytes.Load()+sz > gcap {
		return moerr.NewOOMNoCtx()
	}
	mp.stats.recordAlloc(sz)
	globalStats.recordAlloc(sz)
	return nil
}

// Release returns sz bytes previously reserved.
func (mp *MPool) Release(sz int64) {
	if sz <= 0 {
		return
	}
	mp.stats.recordFree(sz)
	globalStats.recordFree(sz)
}

func sizeOf[T any](n int) int64 {
	var v T
	return int64(unsafe.Sizeof(v)) * int64(n)
}

// MakeSlice allocates a slice with length n and capacity c charged to mp.
func MakeSlice[T any](mp *MPool, n, c int) ([]T, error) {
	if c < n {
		c = n
	}
	if err := mp.Reserve(sizeOf[T](c)); err != nil {
		return nil, err
	}
	return make([]T, n, c), nil
}

// GrowSlice returns s with capacity at least c, keeping its content. The
// old backing array is released from mp once the new one is charged.
func GrowSlice[T any](mp *MPool, s []T, c int) ([]T, error) {
	if cap(s) >= c {
		return s, nil
	}
	ns, err := MakeSlice[T](mp, len(s), c)
	if err != nil {
		return nil, err
	}
	copy(ns, s)
	FreeSlice(mp, s)
	return ns, nil
}

// FreeSlice releases the capacity of s from mp.
func FreeSlice[T any](mp *MPool, s []T) {
	if s == nil {
		return
	}
	mp.Release(sizeOf[T](cap(s)))
}

type mpoolReport struct {
	Name  string `json:"name"`
	Cap   int64  `json:"cap"`
	Curr  int64  `json:"curr"`
	HWM   int64  `json:"hwm"`
	Alloc int64  `json:"alloc"`
	Free  int64  `json:"free"`
}

// ReportMemUsage returns a json report of the named pool, "global" for the
// process wide counters or all pools when name is empty.
func ReportMemUsage(name string) string {
	var reports []mpoolReport
	if name == "global" {
		reports = append(reports, report("global", globalCap.Load(), &globalStats))
	} else {
		globalPools.Range(func(_, v any) bool {
			mp := v.(*MPool)
			if name == "" || mp.name == name {
				reports = append(reports, report(mp.name, mp.cap, &mp.stats))
			}
			return true
		})
	}
	data, err := json.Marshal(reports)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func report(name string, cap int64, s *MPoolStats) mpoolReport {
	return mpoolReport{
		Name:  name,
		Cap:   cap,
		Curr:  s.NumCurrBytes.Load(),
		HWM:   s.HighWaterMark.Load(),
		Alloc: s.NumAlloc.Load(),
		Free:  s.NumFree.Load(),
	}
}
