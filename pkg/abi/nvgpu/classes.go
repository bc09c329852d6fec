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

// Class handles, from src/nvidia/generated/g_allclasses.h.
const (
	VOLTA_USERMODE_A        = 0x0000c361
	VOLTA_CHANNEL_GPFIFO_A  = 0x0000c36f
	TURING_USERMODE_A       = 0x0000c461
	TURING_CHANNEL_GPFIFO_A = 0x0000c46f
	AMPERE_CHANNEL_GPFIFO_A = 0x0000c56f
	TURING_DMA_COPY_A       = 0x0000c5b5
	TURING_COMPUTE_A        = 0x0000c5c0
	HOPPER_USERMODE_A       = 0x0000c661
	AMPERE_DMA_COPY_A       = 0x0000c6b5
	AMPERE_COMPUTE_A        = 0x0000c6c0
	AMPERE_DMA_COPY_B       = 0x0000c7b5
	AMPERE_COMPUTE_B        = 0x0000c7c0
	HOPPER_CHANNEL_GPFIFO_A = 0x0000c86f
	HOPPER_DMA_COPY_A       = 0x0000c8b5
	ADA_COMPUTE_A           = 0x0000c9c0
	HOPPER_COMPUTE_A        = 0x0000cbc0
)

// Subchannel assignments. The channel binds one engine class per subchannel
// with SET_OBJECT; these are the fixed assignments the resource manager
// expects for a CUDA-style channel, from
// src/nvidia/inc/kernel/gpu/fifo/kernel_channel.h (enums for HW subchannel
// usage).
const (
	// SubchannelHost addresses the channel's own GPFIFO class (e.g.
	// AMPERE_CHANNEL_GPFIFO_A). No SET_OBJECT is required.
	SubchannelHost = 0

	// SubchannelCompute is the conventional subchannel for the compute
	// class.
	SubchannelCompute = 1

	// SubchannelCopy is the conventional subchannel for the copy engine
	// class.
	SubchannelCopy = 4
)

// SET_OBJECT binds an engine class to a subchannel. The method offset is
// common to all engine classes, from class/clc6c0.h and class/clc6b5.h
// (NVC6C0_SET_OBJECT, NVC6B5_SET_OBJECT).
const NV_SET_OBJECT = 0x0000
