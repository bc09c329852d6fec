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

// Method is one 32-bit pushbuffer method header. The COUNT field's worth of
// 32-bit argument words follow it in the command stream.
type Method uint32

// MethodFields is the unpacked form of a Method. Field widths are the
// hardware's (pkg/abi/nvgpu pbdma constants); EncodeMethod rejects values
// that do not fit.
type MethodFields struct {
	// SecOp is the secondary opcode (nvgpu.SecOp*). It selects how the
	// method pointer advances across the argument words.
	SecOp uint32

	// Subchannel selects the engine class the method targets.
	Subchannel uint32

	// Count is the number of argument words, or the immediate payload for
	// SecOpImmdData.
	Count uint32

	// Offset is the method's byte offset into the class's method table.
	// Must be 4-byte aligned.
	Offset uint32
}

const (
	methodAddrMax  = 1<<nvgpu.MethodAddrBits - 1
	methodSubchMax = 1<<nvgpu.MethodSubchBits - 1
	methodCountMax = 1<<nvgpu.MethodCountBits - 1
)

// EncodeMethod packs f into a method header word.
func EncodeMethod(f MethodFields) (Method, error) {
	switch f.SecOp {
	case nvgpu.SecOpIncMethod, nvgpu.SecOpNonIncMethod, nvgpu.SecOpOneInc, nvgpu.SecOpImmdData, nvgpu.SecOpEndPBSegment:
	default:
		return 0, fmt.Errorf("%w: sec op %#x", nverr.ErrInvalidMethod, f.SecOp)
	}
	if f.Offset%4 != 0 || f.Offset/4 > methodAddrMax {
		return 0, fmt.Errorf("%w: method offset %#x", nverr.ErrInvalidMethod, f.Offset)
	}
	if f.Subchannel > methodSubchMax {
		return 0, fmt.Errorf("%w: subchannel %d", nverr.ErrInvalidMethod, f.Subchannel)
	}
	if f.Count > methodCountMax {
		return 0, fmt.Errorf("%w: argument count %d", nverr.ErrInvalidMethod, f.Count)
	}
	return Method(f.SecOp<<nvgpu.MethodSecOpShift |
		f.Count<<nvgpu.MethodCountShift |
		f.Subchannel<<nvgpu.MethodSubchShift |
		f.Offset/4<<nvgpu.MethodAddrShift), nil
}

// DecodeMethod unpacks a method header word. It is the exact inverse of
// EncodeMethod for every value EncodeMethod accepts.
func DecodeMethod(m Method) MethodFields {
	return MethodFields{
		SecOp:      uint32(m) >> nvgpu.MethodSecOpShift & (1<<nvgpu.MethodSecOpBits - 1),
		Subchannel: uint32(m) >> nvgpu.MethodSubchShift & methodSubchMax,
		Count:      uint32(m) >> nvgpu.MethodCountShift & methodCountMax,
		Offset:     (uint32(m) >> nvgpu.MethodAddrShift & methodAddrMax) * 4,
	}
}

// DecodeStream walks a pushbuffer segment, calling fn once per method with
// its decoded header and argument words. The walk stops at an END_PB_SEGMENT
// header or the end of the slice, or when fn returns a non-nil error.
func DecodeStream(words []uint32, fn func(f MethodFields, args []uint32) error) error {
	for i := 0; i < len(words); {
		f := DecodeMethod(Method(words[i]))
		var n int
		switch f.SecOp {
		case nvgpu.SecOpImmdData, nvgpu.SecOpEndPBSegment:
			// COUNT carries the immediate payload; no argument words follow.
		default:
			n = int(f.Count)
		}
		if i+1+n > len(words) {
			return fmt.Errorf("%w: word %d: %d argument words claimed, %d remain",
				nverr.ErrInvalidMethod, i, n, len(words)-i-1)
		}
		if err := fn(f, words[i+1:i+1+n]); err != nil {
			return err
		}
		if f.SecOp == nvgpu.SecOpEndPBSegment {
			return nil
		}
		i += 1 + n
	}
	return nil
}

// makeMethod builds the default (incrementing) header used by the queue's
// own enqueue path.
func makeMethod(subchannel, offset uint32, count int) (Method, error) {
	return EncodeMethod(MethodFields{
		SecOp:      nvgpu.SecOpIncMethod,
		Subchannel: subchannel,
		Count:      uint32(count),
		Offset:     offset,
	})
}
