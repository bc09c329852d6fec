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

// DMA method header fields, from manuals/volta/gv100/dev_pbdma.ref.txt
// (NV_PBDMA_METHOD_ADDR, NV_PBDMA_METHOD_SUBCH, NV_PBDMA_METHOD_COUNT,
// NV_PBDMA_SEC_OP). A header is one 32-bit word; COUNT 32-bit argument words
// follow it in the pushbuffer.
const (
	MethodAddrShift  = 0
	MethodAddrBits   = 13
	MethodSubchShift = 13
	MethodSubchBits  = 3
	MethodCountShift = 16
	MethodCountBits  = 13
	MethodSecOpShift = 29
	MethodSecOpBits  = 3
)

// NV_PBDMA_SEC_OP values, from manuals/volta/gv100/dev_pbdma.ref.txt. For
// IMMD_DATA_METHOD the COUNT field carries the immediate payload instead of
// an argument count.
const (
	SecOpGrp0UseTert  = 0
	SecOpIncMethod    = 1
	SecOpGrp2UseTert  = 2
	SecOpNonIncMethod = 3
	SecOpImmdData     = 4
	SecOpOneInc       = 5
	SecOpReserved6    = 6
	SecOpEndPBSegment = 7
)

// GPFIFO entry fields, from class/clc56f.h (NVC56F_GP_ENTRY0_*,
// NVC56F_GP_ENTRY1_*). An entry is 64 bits: the low word holds bits [31:2] of
// the pushbuffer byte address, the high word holds address bits [39:32], the
// pushbuffer length in 32-bit words, and the sync bit.
const (
	GPEntry0GetShift    = 2  // pushbuffer address bits [31:2]
	GPEntry1GetHiShift  = 32 // pushbuffer address bits [39:32]
	GPEntry1GetHiBits   = 8
	GPEntry1LevelShift  = 41
	GPEntry1LengthShift = 42
	GPEntry1LengthBits  = 21
	GPEntry1SyncShift   = 63
)

// NVC56F_GP_ENTRY1_LEVEL values. The proprietary userspace submits its
// pushbuffers at subroutine level; we follow it.
const (
	GPEntryLevelMain       = 0
	GPEntryLevelSubroutine = 1
)

// GPEntry composes a GPFIFO entry for a pushbuffer of lengthWords 32-bit
// words at GPU virtual address gpuVA. gpuVA must be 4-byte aligned and fit in
// 40 bits; lengthWords must fit GP_ENTRY1_LENGTH.
func GPEntry(gpuVA uint64, lengthWords uint32) uint64 {
	return (gpuVA &^ 3) |
		uint64(GPEntryLevelSubroutine)<<GPEntry1LevelShift |
		uint64(lengthWords)<<GPEntry1LengthShift
}
