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
	"sync/atomic"

	"github.com/opennv/opennv/pkg/abi/nvgpu"
	"github.com/opennv/opennv/pkg/gpumem"
	"github.com/opennv/opennv/pkg/log"
	"github.com/opennv/opennv/pkg/nverr"
)

// Doorbell notifies the GPU that new GPFIFO entries are ready. On real
// hardware this is a 32-bit store of the channel's work submit token into
// the usermode region. Ring is called after all entry and GPPut stores; an
// implementation must not let the notification become visible to the device
// before those stores are.
type Doorbell interface {
	Ring(token uint32) error
}

// UsermodeDoorbell is the hardware doorbell: the mapped usermode region
// (VOLTA_USERMODE_A and successors) with the doorbell register at
// nvgpu.UsermodeDoorbellOffset.
type UsermodeDoorbell struct {
	regs []uint32
}

// NewUsermodeDoorbell returns a doorbell backed by the mapped usermode
// region.
func NewUsermodeDoorbell(buf *gpumem.Buffer) *UsermodeDoorbell {
	return &UsermodeDoorbell{regs: buf.Uint32s()}
}

// Ring implements Doorbell.Ring. The atomic store orders it after the
// submission's preceding writes.
func (d *UsermodeDoorbell) Ring(token uint32) error {
	atomic.StoreUint32(&d.regs[nvgpu.UsermodeDoorbellOffset/4], token)
	return nil
}

// FifoConfig describes one hardware channel's submission interface, produced
// by the context layer when it allocates the channel.
type FifoConfig struct {
	// Ring is the mapped GPFIFO entry ring. Its size fixes the entry count,
	// 8 bytes per entry.
	Ring *gpumem.Buffer

	// UserD is the channel's mapped USERD control page.
	UserD *gpumem.Buffer

	// Doorbell is rung after each submission.
	Doorbell Doorbell

	// WorkSubmitToken is the channel's doorbell token, from
	// NVC36F_CTRL_CMD_GPFIFO_GET_WORK_SUBMIT_TOKEN.
	WorkSubmitToken uint32
}

// gpfifo is the submitter for one channel: the entry ring, the USERD control
// page, and the host-side producer index.
type gpfifo struct {
	ring     []uint64
	userd    *nvgpu.AmpereAControlGPFifo
	doorbell Doorbell
	token    uint32

	// put is the producer index, free-running; the ring slot is put modulo
	// len(ring). Only the build/submit path writes it.
	put uint32
}

func newGPFifo(cfg FifoConfig) (*gpfifo, error) {
	if cfg.Ring == nil || cfg.UserD == nil || cfg.Doorbell == nil {
		return nil, fmt.Errorf("%w: incomplete fifo config", nverr.ErrInternalFault)
	}
	entries := cfg.Ring.Size() / 8
	if entries == 0 || entries&(entries-1) != 0 {
		return nil, fmt.Errorf("%w: gpfifo ring of %d entries, need a power of two", nverr.ErrInternalFault, entries)
	}
	return &gpfifo{
		ring:     cfg.Ring.Uint64s(),
		userd:    userdView(cfg.UserD),
		doorbell: cfg.Doorbell,
		token:    cfg.WorkSubmitToken,
	}, nil
}

// inFlight returns the number of entries the GPU has not yet fetched.
func (f *gpfifo) inFlight() uint32 {
	get := atomic.LoadUint32(&f.userd.GPGet)
	return (f.put - get) % uint32(len(f.ring))
}

// full reports whether appending one more entry would make the ring
// indistinguishable from empty.
func (f *gpfifo) full() bool {
	return f.inFlight() == uint32(len(f.ring))-1
}

// submit appends one entry referencing lengthWords 32-bit words of command
// stream at gpuVA, publishes the new GPPut, and rings the doorbell. This is
// the single point where host-built commands become visible to the GPU's
// fetch unit.
func (f *gpfifo) submit(gpuVA uint64, lengthWords uint32) error {
	// GP_ENTRY holds a 4-byte-aligned 40-bit address and a 21-bit word
	// count; anything wider would corrupt the adjacent fields.
	if gpuVA&3 != 0 || gpuVA >= 1<<(nvgpu.GPEntry1GetHiShift+nvgpu.GPEntry1GetHiBits) {
		return fmt.Errorf("%w: pushbuffer address %#x does not fit a gpfifo entry", nverr.ErrInternalFault, gpuVA)
	}
	if lengthWords >= 1<<nvgpu.GPEntry1LengthBits {
		return fmt.Errorf("%w: pushbuffer length %d words does not fit a gpfifo entry", nverr.ErrInternalFault, lengthWords)
	}
	if f.full() {
		return nverr.ErrFifoFull
	}
	slot := f.put % uint32(len(f.ring))
	f.ring[slot] = nvgpu.GPEntry(gpuVA, lengthWords)
	f.put++
	// The release store of GPPut fences the entry write above; the doorbell
	// store fences both.
	atomic.StoreUint32(&f.userd.GPPut, f.put%uint32(len(f.ring)))
	if log.IsLogging(log.Debug) {
		log.Debugf("gpfifo: submit %d words at %#x, slot %d, put %d", lengthWords, gpuVA, slot, f.put)
	}
	if err := f.doorbell.Ring(f.token); err != nil {
		return fmt.Errorf("%w: doorbell: %v", nverr.ErrInternalFault, err)
	}
	return nil
}
