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

// Package nvgpu tracks the ABI of the Nvidia GPU command front end:
// https://github.com/NVIDIA/open-gpu-kernel-modules and
// https://github.com/NVIDIA/open-gpu-doc.
//
// Every constant block cites the upstream header it is taken from. The values
// are a hardware contract and must match the command parser bit-for-bit.
package nvgpu

// Handle is NvHandle, from src/common/sdk/nvidia/inc/nvtypes.h.
type Handle struct {
	Val uint32
}

// P64 is NvP64, from src/common/sdk/nvidia/inc/nvtypes.h.
type P64 uint64
