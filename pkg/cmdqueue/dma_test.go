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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opennv/opennv/pkg/nverr"
)

func TestEnqueueCopy(t *testing.T) {
	q, dev := newTestQueue(t)

	const n = 4096
	src, err := dev.Alloc(n)
	if err != nil {
		t.Fatalf("Alloc src: %v", err)
	}
	dst, err := dev.Alloc(n)
	if err != nil {
		t.Fatalf("Alloc dst: %v", err)
	}
	for i := range src.Bytes() {
		src.Bytes()[i] = byte(i * 7)
	}

	if err := q.EnqueueCopy(dst.GPUVA(), src.GPUVA(), n); err != nil {
		t.Fatalf("EnqueueCopy: %v", err)
	}
	if err := q.StartExecution(DMA); err != nil {
		t.Fatalf("StartExecution: %v", err)
	}
	if err := q.AwaitExecution(); err != nil {
		t.Fatalf("AwaitExecution: %v", err)
	}
	if diff := cmp.Diff(src.Bytes(), dst.Bytes()); diff != "" {
		t.Errorf("copied bytes mismatch (-src +dst):\n%s", diff)
	}
}

func TestEnqueueCopyChained(t *testing.T) {
	q, dev := newTestQueue(t)

	const n = 256
	a, err := dev.Alloc(n)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	b, err := dev.Alloc(n)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	c, err := dev.Alloc(n)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	for i := range a.Bytes() {
		a.Bytes()[i] = byte(0xff - i)
	}

	// Two copies in one segment execute in order on the copy engine.
	if err := q.EnqueueCopy(b.GPUVA(), a.GPUVA(), n); err != nil {
		t.Fatalf("EnqueueCopy a->b: %v", err)
	}
	if err := q.EnqueueCopy(c.GPUVA(), b.GPUVA(), n); err != nil {
		t.Fatalf("EnqueueCopy b->c: %v", err)
	}
	if err := q.StartExecution(DMA); err != nil {
		t.Fatalf("StartExecution: %v", err)
	}
	if err := q.AwaitExecution(); err != nil {
		t.Fatalf("AwaitExecution: %v", err)
	}
	if diff := cmp.Diff(a.Bytes(), c.Bytes()); diff != "" {
		t.Errorf("chained copy mismatch (-a +c):\n%s", diff)
	}
}

func TestEnqueueCopyZeroLength(t *testing.T) {
	q, _ := newTestQueue(t)
	if err := q.EnqueueCopy(0x1000, 0x2000, 0); err != nil {
		t.Fatalf("zero-length EnqueueCopy = %v, want nil", err)
	}
	if !q.cmdBuf.empty() {
		t.Error("zero-length EnqueueCopy appended commands")
	}
}

func TestEnqueueCopyTooLarge(t *testing.T) {
	q, _ := newTestQueue(t)
	if err := q.EnqueueCopy(0x1000, 0x2000, 1<<32); !errors.Is(err, nverr.ErrInvalidMethod) {
		t.Fatalf("oversized EnqueueCopy = %v, want InvalidMethod", err)
	}
}
