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
	"unsafe"

	"github.com/opennv/opennv/pkg/abi/nvgpu"
	"github.com/opennv/opennv/pkg/gpumem"
)

// semaphoreCells views the pool's mapped bytes as semaphore cells. The buffer
// must hold at least capacity cells and be 8-byte aligned.
func semaphoreCells(buf *gpumem.Buffer, capacity int) []nvgpu.SemaphoreCell {
	b := buf.Bytes()
	return unsafe.Slice((*nvgpu.SemaphoreCell)(unsafe.Pointer(unsafe.SliceData(b))), capacity)
}

// userdView views a mapped USERD page as the channel control structure.
func userdView(buf *gpumem.Buffer) *nvgpu.AmpereAControlGPFifo {
	b := buf.Bytes()
	return (*nvgpu.AmpereAControlGPFifo)(unsafe.Pointer(unsafe.SliceData(b)))
}
