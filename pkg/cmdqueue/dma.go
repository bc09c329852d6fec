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

	"github.com/opennv/opennv/pkg/abi/nvgpu"
	"github.com/opennv/opennv/pkg/nverr"
)

// EnqueueCopy enqueues a copy-engine transfer of n bytes from GPU virtual
// address src to dst. The copy executes on the DMA queue; submit it with
// StartExecution(DMA). Overlapping ranges are not supported by the engine in
// pitch-linear mode.
func (q *CommandQueue) EnqueueCopy(dst, src, n uint64) error {
	if !q.initialized {
		return nverr.ErrUninitializedQueue
	}
	if n == 0 {
		return nil
	}
	if n > 1<<32-1 {
		// Single-line transfers carry a 32-bit length. Larger copies are
		// split by the caller.
		return fmt.Errorf("%w: copy of %#x bytes exceeds one launch", nverr.ErrInvalidMethod, n)
	}
	if err := q.Enqueue(nvgpu.SubchannelCopy, nvgpu.NVC6B5_OFFSET_IN_UPPER,
		uint32(src>>32), uint32(src), uint32(dst>>32), uint32(dst)); err != nil {
		return err
	}
	if err := q.Enqueue(nvgpu.SubchannelCopy, nvgpu.NVC6B5_LINE_LENGTH_IN, uint32(n)); err != nil {
		return err
	}
	return q.Enqueue(nvgpu.SubchannelCopy, nvgpu.NVC6B5_LAUNCH_DMA,
		nvgpu.NVC6B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NON_PIPELINED|
			nvgpu.NVC6B5_LAUNCH_DMA_FLUSH_ENABLE|
			nvgpu.NVC6B5_LAUNCH_DMA_SRC_MEMORY_LAYOUT_PITCH|
			nvgpu.NVC6B5_LAUNCH_DMA_DST_MEMORY_LAYOUT_PITCH)
}
