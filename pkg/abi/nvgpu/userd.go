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

// AmpereAControlGPFifo is the per-channel USERD control page, struct
// Nvc56fControl from class/clc56f.h. The host reads GPPut to discover new
// GPFIFO entries; GPGet trails it as entries are fetched.
type AmpereAControlGPFifo struct {
	Ignored00     [0x010]uint32
	Put           uint32
	Get           uint32
	Reference     uint32
	PutHi         uint32
	Ignored01     [0x002]uint32
	TopLevelGet   uint32
	TopLevelGetHi uint32
	GetHi         uint32
	Ignored02     [0x007]uint32
	Ignored03     uint32
	Ignored04     [0x001]uint32
	GPGet         uint32
	GPPut         uint32
	Ignored05     [0x5c]uint32
}

// SizeofAmpereAControlGPFifo is the size of the USERD control structure.
const SizeofAmpereAControlGPFifo = 0x200

// SemaphoreCell is the 16-byte GPU-visible semaphore format written by
// 64-bit-payload releases with timestamps (NVC56F_SEM_EXECUTE with
// PAYLOAD_SIZE_64BIT and RELEASE_TIMESTAMP, and FOUR_WORDS report
// structures). Payload holds the released value; Timestamp holds the GPU
// timer at release.
type SemaphoreCell struct {
	Payload   uint64
	Timestamp uint64
}

// SizeofSemaphoreCell is the size of one semaphore cell.
const SizeofSemaphoreCell = 16

// USERD doorbell: on Volta and later, work is submitted by writing the
// channel's work submit token (NVC36F_CTRL_CMD_GPFIFO_GET_WORK_SUBMIT_TOKEN)
// to the doorbell register in the usermode region (VOLTA_USERMODE_A and
// successors), from manuals/volta/gv100/dev_vm.ref.txt
// (NV_VIRTUAL_FUNCTION_DOORBELL).
const (
	// UsermodeDoorbellOffset is the byte offset of the doorbell register
	// within the mapped usermode region.
	UsermodeDoorbellOffset = 0x90

	// UsermodeRegionSize is the size of the usermode mapping.
	UsermodeRegionSize = 0x10000
)
