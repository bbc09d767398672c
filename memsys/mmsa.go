// Package memsys provides a size-classed buffer pool for shard I/O, so the
// PUT write-fanout path does not allocate a fresh []byte per shard per disk.
// The GET read-fanout path deliberately does not draw from this pool: its
// early-stop read (pipeline/shardio.go) can leave a read still in flight
// after the caller has moved on, and returning that buffer to the pool
// while a background goroutine might still be writing into it would let a
// later, unrelated Alloc hand out a buffer someone else is still touching.
/*
 * Copyright (c) 2018-2020, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import (
	"sync"
	"sync/atomic"

	"github.com/NVIDIA/buckets/cmn"
)

// Size classes are powers of two from minSlabSize to maxSlabSize, mirroring
// the teacher's page/small slab tiers (memsys/mmsa.go) but collapsed to one
// dimension: a shard buffer only ever needs "big enough", never a byte-exact
// fit.
const (
	minSlabSize = 4 * cmn.KiB
	maxSlabSize = 16 * 1024 * cmn.KiB
)

// MMSA (memory-manager-slab-allocator) owns one sync.Pool per size class.
// Unlike the teacher's MMSA, buffers here have no refcount: Alloc hands the
// caller sole ownership, and the caller must Free exactly once before
// letting the slice go out of scope -- the "explicit ownership transfer"
// discipline asyncio.Batch relies on to avoid a shared mutable buffer
// racing between workers.
type MMSA struct {
	pools     []*sync.Pool
	classes   []int
	allocs    int64
	frees     int64
	oversized int64
}

// NewMMSA builds the slab classes once; MMSA itself is safe for concurrent
// use from every asyncio worker.
func NewMMSA() *MMSA {
	m := &MMSA{}
	for sz := minSlabSize; sz <= maxSlabSize; sz *= 2 {
		sz := sz
		m.classes = append(m.classes, sz)
		m.pools = append(m.pools, &sync.Pool{
			New: func() interface{} {
				b := make([]byte, sz)
				return &b
			},
		})
	}
	return m
}

func (m *MMSA) classFor(size int) int {
	for i, sz := range m.classes {
		if size <= sz {
			return i
		}
	}
	return -1
}

// Alloc returns a []byte of length size. Buffers above the largest slab
// class are allocated directly and not tracked for pooling.
func (m *MMSA) Alloc(size int) []byte {
	atomic.AddInt64(&m.allocs, 1)
	idx := m.classFor(size)
	if idx < 0 {
		atomic.AddInt64(&m.oversized, 1)
		return make([]byte, size)
	}
	bp := m.pools[idx].Get().(*[]byte)
	buf := *bp
	return buf[:size]
}

// Free returns buf to its size class. Passing a slice not obtained from
// Alloc, or freeing the same slice twice, is a caller bug -- the pool does
// not defend against it, matching the teacher's Slab.Free contract.
func (m *MMSA) Free(buf []byte) {
	atomic.AddInt64(&m.frees, 1)
	idx := m.classFor(cap(buf))
	if idx < 0 || cap(buf) != m.classes[idx] {
		return // oversized or foreign allocation: let GC reclaim it
	}
	full := buf[:cap(buf)]
	m.pools[idx].Put(&full)
}

type Stats struct {
	Allocs    int64
	Frees     int64
	Oversized int64
}

func (m *MMSA) Stats() Stats {
	return Stats{
		Allocs:    atomic.LoadInt64(&m.allocs),
		Frees:     atomic.LoadInt64(&m.frees),
		Oversized: atomic.LoadInt64(&m.oversized),
	}
}

var defaultMM = NewMMSA()

// Default returns the process-wide MMSA instance, used where a dedicated
// pool per pipeline.Service isn't warranted.
func Default() *MMSA { return defaultMM }
