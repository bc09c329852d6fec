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

package gpumem

import (
	"errors"
	"strings"
	"testing"
	"unsafe"
)

func TestBufferFreeOnce(t *testing.T) {
	frees := 0
	b := NewBuffer(make([]byte, 64), 0x1000, func(*Buffer) error {
		frees++
		return nil
	})
	if err := b.Free(); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if err := b.Free(); err != nil {
		t.Fatalf("second Free: %v", err)
	}
	if frees != 1 {
		t.Errorf("release callback ran %d times, want 1", frees)
	}
}

func TestBufferFreeNilCallback(t *testing.T) {
	b := NewBuffer(make([]byte, 8), 0x2000, nil)
	if err := b.Free(); err != nil {
		t.Fatalf("Free with nil callback: %v", err)
	}
}

// alignedAlloc returns page-aligned slices, the common case for mmap-backed
// allocators.
type alignedAlloc struct{}

func (alignedAlloc) Alloc(size uint64) (*Buffer, error) {
	const align = 4096
	raw := make([]byte, size+align)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := (align - base%align) % align
	return NewBuffer(raw[off:off+uintptr(size)], 0x9000, nil), nil
}

// misalignedAlloc returns mappings at an odd host address.
type misalignedAlloc struct {
	alignedAlloc
	freed bool
}

func (m *misalignedAlloc) Alloc(size uint64) (*Buffer, error) {
	b, err := m.alignedAlloc.Alloc(size + 1)
	if err != nil {
		return nil, err
	}
	return NewBuffer(b.Bytes()[1:], b.GPUVA()+1, func(*Buffer) error {
		m.freed = true
		return nil
	}), nil
}

func TestAllocAligned(t *testing.T) {
	b, err := AllocAligned(alignedAlloc{}, 256, 8)
	if err != nil {
		t.Fatalf("AllocAligned: %v", err)
	}
	if b.Size() != 256 {
		t.Errorf("Size = %d, want 256", b.Size())
	}
}

func TestAllocAlignedRejectsMisaligned(t *testing.T) {
	m := &misalignedAlloc{}
	if _, err := AllocAligned(m, 256, 8); err == nil {
		t.Fatal("AllocAligned accepted a misaligned mapping")
	}
	if !m.freed {
		t.Error("rejected mapping was not freed")
	}
}

func TestAllocAlignedReportsFreeFailure(t *testing.T) {
	freeErr := errors.New("unmap failed")
	bad := allocFunc(func(size uint64) (*Buffer, error) {
		// Slice starts one byte past an 8-aligned Go allocation, so the host
		// address is odd.
		raw := make([]byte, size+1)
		return NewBuffer(raw[1:1+size], 0x9001, func(*Buffer) error {
			return freeErr
		}), nil
	})
	_, err := AllocAligned(bad, 64, 4096)
	if err == nil {
		t.Fatal("AllocAligned accepted a misaligned mapping")
	}
	if !strings.Contains(err.Error(), freeErr.Error()) {
		t.Errorf("error %q does not report the failed free", err)
	}
}

func TestAllocAlignedPropagatesError(t *testing.T) {
	wantErr := errors.New("out of memory")
	failAlloc := allocFunc(func(uint64) (*Buffer, error) { return nil, wantErr })
	if _, err := AllocAligned(failAlloc, 64, 8); !errors.Is(err, wantErr) {
		t.Fatalf("AllocAligned error = %v, want %v", err, wantErr)
	}
}

type allocFunc func(size uint64) (*Buffer, error)

func (f allocFunc) Alloc(size uint64) (*Buffer, error) { return f(size) }

func TestUint32sViews(t *testing.T) {
	b := NewBuffer(make([]byte, 16), 0x3000, nil)
	w := b.Uint32s()
	if len(w) != 4 {
		t.Fatalf("Uint32s length %d, want 4", len(w))
	}
	w[1] = 0xdeadbeef
	if got := b.Bytes()[4]; got != 0xef {
		t.Errorf("word store not visible through byte view: byte[4] = %#x", got)
	}
	q := b.Uint64s()
	if len(q) != 2 {
		t.Fatalf("Uint64s length %d, want 2", len(q))
	}
	if got := q[0] >> 32; got != 0xdeadbeef {
		t.Errorf("Uint64s[0]>>32 = %#x, want 0xdeadbeef", got)
	}
}
