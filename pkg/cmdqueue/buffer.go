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

// commandBuffer accumulates the command stream under construction: method
// headers each followed by their argument words, in call order. It lives in
// host memory only; flushing copies it into a queue page and resets it.
type commandBuffer struct {
	words []uint32
}

func (b *commandBuffer) push(m Method, args ...uint32) {
	b.words = append(b.words, uint32(m))
	b.words = append(b.words, args...)
}

func (b *commandBuffer) reset() {
	b.words = b.words[:0]
}

func (b *commandBuffer) empty() bool {
	return len(b.words) == 0
}

// sizeBytes returns the buffer's length in bytes.
func (b *commandBuffer) sizeBytes() uint64 {
	return uint64(len(b.words)) * 4
}
