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

// AMPERE_COMPUTE_B method offsets, from class/clc6c0.h.
const (
	NVC6C0_SET_OBJECT                      = 0x0000
	NVC6C0_NO_OPERATION                    = 0x0100
	NVC6C0_SET_REPORT_SEMAPHORE_A          = 0x1b00 // address bits [63:32]
	NVC6C0_SET_REPORT_SEMAPHORE_B          = 0x1b04 // address bits [31:0]
	NVC6C0_SET_REPORT_SEMAPHORE_C          = 0x1b08 // payload
	NVC6C0_SET_REPORT_SEMAPHORE_D          = 0x1b0c
	NVC6C0_SET_SHADER_LOCAL_MEMORY_A       = 0x0790
	NVC6C0_SET_SHADER_LOCAL_MEMORY_B       = 0x0794
	NVC6C0_SEND_PCAS_A                     = 0x02b4
	NVC6C0_SEND_SIGNALING_PCAS2_B          = 0x02b8
	NVC6C0_INVALIDATE_SHADER_CACHES_NO_WFI = 0x1698
)

// NVC6C0_SET_REPORT_SEMAPHORE_D fields, from class/clc6c0.h. A FOUR_WORDS
// structure writes the 32-bit payload at the semaphore address and the GPU
// timer at address+8, matching SemaphoreCell.
const (
	// OPERATION, bits 1:0.
	NVC6C0_SET_REPORT_SEMAPHORE_D_OPERATION_RELEASE = 0x0
	NVC6C0_SET_REPORT_SEMAPHORE_D_OPERATION_TRAP    = 0x3

	// AWAKEN_ENABLE, bit 20. Raises a non-stall interrupt on release so a
	// host waiter sleeping on the channel's event fd is woken.
	NVC6C0_SET_REPORT_SEMAPHORE_D_AWAKEN_ENABLE = 1 << 20

	// STRUCTURE_SIZE, bit 28. 0 is FOUR_WORDS, 1 is ONE_WORD.
	NVC6C0_SET_REPORT_SEMAPHORE_D_STRUCTURE_SIZE_ONE_WORD = 1 << 28
)
