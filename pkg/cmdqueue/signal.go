// Copyright 2026 The OpenNV Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmdqueue

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/opennv/opennv/pkg/abi/nvgpu"
	"github.com/opennv/opennv/pkg/gpumem"
	"github.com/opennv/opennv/pkg/nverr"
)

// Signal is one GPU-visible semaphore cell claimed from the pool. The GPU
// writes it via notify commands in the stream; the CPU reads it through the
// mapping. A Signal is valid until released back to the pool; no command
// still pending may reference it at release time.
type Signal struct {
	index uint32
	cell  *nvgpu.SemaphoreCell
	gpuVA uint64
}

// Value returns the signal's current value as last written by the GPU.
func (s *Signal) Value() uint64 {
	return atomic.LoadUint64(&s.cell.Payload)
}

// Timestamp returns the GPU timer value recorded by the most recent notify.
func (s *Signal) Timestamp() uint64 {
	return atomic.LoadUint64(&s.cell.Timestamp)
}

// GPUVA returns the GPU virtual address of the signal's cell.
func (s *Signal) GPUVA() uint64 {
	return s.gpuVA
}

// signalPool is a fixed-capacity array of semaphore cells in mapped memory
// plus a free list of unclaimed indices. Claim and release may be called from
// independent call sites concurrently; the free list is the only shared
// mutable structure outside the single-threaded build path, so it alone is
// lock-protected.
type signalPool struct {
	buf   *gpumem.Buffer
	cells []nvgpu.SemaphoreCell

	mu sync.Mutex
	// +checklocks:mu
	free []uint32
	// +checklocks:mu
	claimed []bool
}

func newSignalPool(alloc gpumem.Allocator, capacity int) (*signalPool, error) {
	buf, err := gpumem.AllocAligned(alloc, uint64(capacity)*nvgpu.SizeofSemaphoreCell, nvgpu.SizeofSemaphoreCell)
	if err != nil {
		return nil, err
	}
	p := &signalPool{
		buf:     buf,
		cells:   semaphoreCells(buf, capacity),
		free:    make([]uint32, 0, capacity),
		claimed: make([]bool, capacity),
	}
	// LIFO free list; push in reverse so index 0 pops first and becomes the
	// timeline signal.
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, uint32(i))
	}
	return p, nil
}

func (p *signalPool) capacity() int {
	return len(p.cells)
}

// obtain claims a signal slot, zeroing its cell.
func (p *signalPool) obtain() (*Signal, error) {
	p.mu.Lock()
	if len(p.free) == 0 {
		p.mu.Unlock()
		return nil, nverr.ErrSignalPoolExhausted
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.claimed[idx] = true
	p.mu.Unlock()

	cell := &p.cells[idx]
	atomic.StoreUint64(&cell.Payload, 0)
	atomic.StoreUint64(&cell.Timestamp, 0)
	return &Signal{
		index: idx,
		cell:  cell,
		gpuVA: p.buf.GPUVA() + uint64(idx)*nvgpu.SizeofSemaphoreCell,
	}, nil
}

// release returns a signal slot to the free list. Releasing a slot that is
// not claimed is a caller error.
func (p *signalPool) release(s *Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(s.index) >= len(p.claimed) || !p.claimed[s.index] {
		return fmt.Errorf("%w: release of unclaimed signal %d", nverr.ErrInternalFault, s.index)
	}
	p.claimed[s.index] = false
	p.free = append(p.free, s.index)
	return nil
}

// freeCount returns the current free-list size.
func (p *signalPool) freeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

func (p *signalPool) destroy() error {
	return p.buf.Free()
}
