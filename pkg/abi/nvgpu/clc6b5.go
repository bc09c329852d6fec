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

package nvgpu

// AMPERE_DMA_COPY_B (copy engine) method offsets, from class/clc6b5.h.
const (
	NVC6B5_SET_OBJECT            = 0x0000
	NVC6B5_SET_SEMAPHORE_A       = 0x0240 // address bits [63:32]
	NVC6B5_SET_SEMAPHORE_B       = 0x0244 // address bits [31:0]
	NVC6B5_SET_SEMAPHORE_PAYLOAD = 0x0248
	NVC6B5_LAUNCH_DMA            = 0x0300
	NVC6B5_OFFSET_IN_UPPER       = 0x0400
	NVC6B5_OFFSET_IN_LOWER       = 0x0404
	NVC6B5_OFFSET_OUT_UPPER      = 0x0408
	NVC6B5_OFFSET_OUT_LOWER      = 0x040c
	NVC6B5_PITCH_IN              = 0x0410
	NVC6B5_PITCH_OUT             = 0x0414
	NVC6B5_LINE_LENGTH_IN        = 0x0418
	NVC6B5_LINE_COUNT            = 0x041c
)

// NVC6B5_LAUNCH_DMA fields, from class/clc6b5.h.
const (
	// DATA_TRANSFER_TYPE, bits 1:0.
	NVC6B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NONE          = 0x0
	NVC6B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_PIPELINED     = 0x1 << 0
	NVC6B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NON_PIPELINED = 0x2 << 0

	// FLUSH_ENABLE, bit 2. Makes the semaphore release visible only after
	// the copy's writes are.
	NVC6B5_LAUNCH_DMA_FLUSH_ENABLE = 1 << 2

	// SEMAPHORE_TYPE, bits 4:3.
	NVC6B5_LAUNCH_DMA_SEMAPHORE_TYPE_NONE              = 0x0 << 3
	NVC6B5_LAUNCH_DMA_SEMAPHORE_TYPE_RELEASE_ONE_WORD  = 0x1 << 3
	NVC6B5_LAUNCH_DMA_SEMAPHORE_TYPE_RELEASE_FOUR_WORD = 0x2 << 3

	// SRC_MEMORY_LAYOUT and DST_MEMORY_LAYOUT, bits 7 and 8. PITCH is
	// linear addressing.
	NVC6B5_LAUNCH_DMA_SRC_MEMORY_LAYOUT_PITCH = 1 << 7
	NVC6B5_LAUNCH_DMA_DST_MEMORY_LAYOUT_PITCH = 1 << 8
)
