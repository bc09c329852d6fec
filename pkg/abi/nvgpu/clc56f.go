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

// AMPERE_CHANNEL_GPFIFO_A (host) method offsets, from class/clc56f.h. These
// are executed by the host (PBDMA) itself on SubchannelHost, not forwarded to
// an engine.
const (
	NVC56F_SET_OBJECT     = 0x0000
	NVC56F_SEM_ADDR_LO    = 0x005c
	NVC56F_SEM_ADDR_HI    = 0x0060
	NVC56F_SEM_PAYLOAD_LO = 0x0064
	NVC56F_SEM_PAYLOAD_HI = 0x0068
	NVC56F_SEM_EXECUTE    = 0x006c
	NVC56F_NON_STALL_INT  = 0x0020
	NVC56F_MEM_OP_A       = 0x0028
	NVC56F_MEM_OP_B       = 0x002c
	NVC56F_MEM_OP_C       = 0x0030
	NVC56F_MEM_OP_D       = 0x0034
)

// NVC56F_SEM_EXECUTE fields, from class/clc56f.h.
const (
	// OPERATION, bits 2:0.
	NVC56F_SEM_EXECUTE_OPERATION_ACQUIRE        = 0x0
	NVC56F_SEM_EXECUTE_OPERATION_RELEASE        = 0x1
	NVC56F_SEM_EXECUTE_OPERATION_ACQ_STRICT_GEQ = 0x2
	NVC56F_SEM_EXECUTE_OPERATION_ACQ_CIRC_GEQ   = 0x3
	NVC56F_SEM_EXECUTE_OPERATION_ACQ_AND        = 0x4
	NVC56F_SEM_EXECUTE_OPERATION_ACQ_NOR        = 0x5
	NVC56F_SEM_EXECUTE_OPERATION_REDUCTION      = 0x6

	// ACQUIRE_SWITCH_TSG, bit 12. Lets the host switch channels while the
	// acquire is outstanding rather than stalling the runlist.
	NVC56F_SEM_EXECUTE_ACQUIRE_SWITCH_TSG_EN = 1 << 12

	// RELEASE_WFI, bit 20.
	NVC56F_SEM_EXECUTE_RELEASE_WFI_EN = 1 << 20

	// PAYLOAD_SIZE, bit 24. 0 is 32-bit, 1 is 64-bit.
	NVC56F_SEM_EXECUTE_PAYLOAD_SIZE_64BIT = 1 << 24

	// RELEASE_TIMESTAMP, bit 25. Also writes the GPU timer into the
	// semaphore cell's timestamp words.
	NVC56F_SEM_EXECUTE_RELEASE_TIMESTAMP_EN = 1 << 25
)
