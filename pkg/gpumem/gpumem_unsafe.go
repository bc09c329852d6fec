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

package gpumem

import (
	"unsafe"
)

func (b *Buffer) hostAddr() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b.cpu)))
}

// Uint32s returns the host view of the buffer as 32-bit words. The buffer's
// length must be a multiple of 4.
func (b *Buffer) Uint32s() []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(b.cpu))), len(b.cpu)/4)
}

// Uint64s returns the host view of the buffer as 64-bit words. The buffer's
// length must be a multiple of 8.
func (b *Buffer) Uint64s() []uint64 {
	return unsafe.Slice((*uint64)(unsafe.Pointer(unsafe.SliceData(b.cpu))), len(b.cpu)/8)
}
