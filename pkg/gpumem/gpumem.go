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

// Package gpumem provides CPU-mapped, GPU-addressable memory buffers.
//
// Allocation itself is performed by an external memory manager behind the
// Allocator interface; this package only represents the resulting mappings
// and guarantees they are released exactly once.
package gpumem

import (
	"fmt"
	"sync/atomic"
)

// Buffer is a fixed-length block of memory that is simultaneously mapped into
// the host address space and addressable by the GPU at a virtual address.
// The host view is valid until Free is called.
type Buffer struct {
	cpu   []byte
	gpuVA uint64
	freed atomic.Bool

	// free releases the underlying mapping. May be nil for buffers whose
	// lifetime is managed elsewhere.
	free func(b *Buffer) error
}

// NewBuffer returns a Buffer wrapping the given host mapping and GPU virtual
// address. free, if non-nil, is invoked by Free to release the mapping.
func NewBuffer(cpu []byte, gpuVA uint64, free func(b *Buffer) error) *Buffer {
	return &Buffer{
		cpu:   cpu,
		gpuVA: gpuVA,
		free:  free,
	}
}

// Bytes returns the host view of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.cpu
}

// GPUVA returns the GPU virtual address of the buffer's base.
func (b *Buffer) GPUVA() uint64 {
	return b.gpuVA
}

// Size returns the buffer's length in bytes.
func (b *Buffer) Size() uint64 {
	return uint64(len(b.cpu))
}

// Free releases the underlying mapping. Only the first call has effect;
// subsequent calls return nil. The host view must not be used after Free.
func (b *Buffer) Free() error {
	if b.freed.Swap(true) {
		return nil
	}
	if b.free == nil {
		return nil
	}
	return b.free(b)
}

// Allocator is implemented by the external memory manager. Alloc returns a
// zeroed Buffer of at least size bytes that the GPU can address.
type Allocator interface {
	Alloc(size uint64) (*Buffer, error)
}

// AllocAligned allocates via a and verifies the mapping satisfies align,
// which must be a power of two. Hardware structures placed in mapped memory
// (GPFIFO entries, semaphore cells) require natural alignment.
func AllocAligned(a Allocator, size, align uint64) (*Buffer, error) {
	b, err := a.Alloc(size)
	if err != nil {
		return nil, err
	}
	if addr := uint64(b.hostAddr()); addr&(align-1) != 0 {
		err := fmt.Errorf("allocator returned mapping at %#x, need %d-byte alignment", addr, align)
		if ferr := b.Free(); ferr != nil {
			return nil, fmt.Errorf("%v; freeing it also failed: %v", err, ferr)
		}
		return nil, err
	}
	return b, nil
}
