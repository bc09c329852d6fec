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
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/opennv/opennv/pkg/abi/nvgpu"
	"github.com/opennv/opennv/pkg/gpumem"
)

// testDevice is a software model of the GPU front end: it allocates host
// memory under fake GPU virtual addresses and, when a channel's doorbell is
// rung, fetches GPFIFO entries and interprets the referenced pushbuffers.
// Only the methods the queue emits are understood; anything else fails the
// interpreter.
type testDevice struct {
	mu       sync.Mutex
	nextVA   uint64
	mappings []testMapping
	channels map[uint32]*testChannel
	nextTok  uint32

	// stalled, when set, makes doorbells no-ops: entries pile up and GPGet
	// never advances.
	stalled bool

	// execDelay, when non-zero, defers pushbuffer execution to a background
	// goroutine after the delay, modeling asynchronous completion.
	execDelay time.Duration

	// errs collects interpreter failures for the test to assert on.
	errs []error
}

type testMapping struct {
	va  uint64
	mem []byte
}

type testChannel struct {
	ring  *gpumem.Buffer
	userd *gpumem.Buffer

	// binds maps subchannel to the class bound by SET_OBJECT.
	binds map[uint32]uint32

	// Copy engine and semaphore state latched by methods pending a launch.
	semAddr    uint64
	semPayload uint32
	copySrc    uint64
	copyDst    uint64
	copyLen    uint32
}

func newTestDevice() *testDevice {
	return &testDevice{
		nextVA:   0x70_0000_0000,
		channels: make(map[uint32]*testChannel),
		nextTok:  0x1000,
	}
}

// Alloc implements gpumem.Allocator.Alloc.
func (d *testDevice) Alloc(size uint64) (*gpumem.Buffer, error) {
	const align = 4096
	raw := make([]byte, size+align)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := (align - base%align) % align
	mem := raw[off : off+uintptr(size) : off+uintptr(size)]

	d.mu.Lock()
	defer d.mu.Unlock()
	va := d.nextVA
	d.nextVA += (size + align - 1) &^ (align - 1)
	d.mappings = append(d.mappings, testMapping{va: va, mem: mem})
	return gpumem.NewBuffer(mem, va, nil), nil
}

// newChannel allocates a channel's ring and USERD and returns its
// FifoConfig.
func (d *testDevice) newChannel(entries int) FifoConfig {
	ring, err := d.Alloc(uint64(entries) * 8)
	if err != nil {
		panic(err)
	}
	userd, err := d.Alloc(nvgpu.SizeofAmpereAControlGPFifo)
	if err != nil {
		panic(err)
	}
	d.mu.Lock()
	tok := d.nextTok
	d.nextTok++
	ch := &testChannel{
		ring:  ring,
		userd: userd,
		binds: make(map[uint32]uint32),
	}
	d.channels[tok] = ch
	d.mu.Unlock()
	return FifoConfig{
		Ring:            ring,
		UserD:           userd,
		Doorbell:        &testDoorbell{dev: d},
		WorkSubmitToken: tok,
	}
}

// config returns a queue Config with one compute and one DMA channel of the
// given ring size.
func (d *testDevice) config(entries int) Config {
	return Config{
		Allocator: d,
		Compute:   d.newChannel(entries),
		DMA:       d.newChannel(entries),
	}
}

type testDoorbell struct {
	dev *testDevice
}

// Ring implements Doorbell.Ring.
func (db *testDoorbell) Ring(token uint32) error {
	d := db.dev
	d.mu.Lock()
	ch, ok := d.channels[token]
	stalled, delay := d.stalled, d.execDelay
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown work submit token %#x", token)
	}
	if stalled {
		return nil
	}
	if delay > 0 {
		go func() {
			time.Sleep(delay)
			d.consume(ch)
		}()
		return nil
	}
	d.consume(ch)
	return nil
}

// consume fetches entries from GPGet up to GPPut and interprets each
// pushbuffer.
func (d *testDevice) consume(ch *testChannel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	userd := userdView(ch.userd)
	ring := ch.ring.Uint64s()
	get := atomic.LoadUint32(&userd.GPGet)
	put := atomic.LoadUint32(&userd.GPPut)
	for get != put {
		entry := ring[get]
		va := entry & (1<<40 - 1) &^ 3
		words := uint32(entry >> nvgpu.GPEntry1LengthShift & (1<<nvgpu.GPEntry1LengthBits - 1))
		if err := d.interpret(ch, va, words); err != nil {
			d.errs = append(d.errs, err)
		}
		get = (get + 1) % uint32(len(ring))
	}
	atomic.StoreUint32(&userd.GPGet, get)
}

// interpret executes one pushbuffer.
//
// +checklocks:d.mu
func (d *testDevice) interpret(ch *testChannel, va uint64, words uint32) error {
	pb, err := d.sliceLocked(va, uint64(words)*4)
	if err != nil {
		return fmt.Errorf("pushbuffer fetch: %v", err)
	}
	stream := unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(pb))), words)

	release := func(addr uint64, payload uint32) error {
		cell, err := d.sliceLocked(addr, nvgpu.SizeofSemaphoreCell)
		if err != nil {
			return fmt.Errorf("semaphore release: %v", err)
		}
		c := (*nvgpu.SemaphoreCell)(unsafe.Pointer(unsafe.SliceData(cell)))
		atomic.StoreUint64(&c.Timestamp, uint64(time.Now().UnixNano()))
		atomic.StoreUint64(&c.Payload, uint64(payload))
		return nil
	}
	acquire := func(addr, target uint64) error {
		cell, err := d.sliceLocked(addr, nvgpu.SizeofSemaphoreCell)
		if err != nil {
			return fmt.Errorf("semaphore acquire: %v", err)
		}
		c := (*nvgpu.SemaphoreCell)(unsafe.Pointer(unsafe.SliceData(cell)))
		for deadline := time.Now().Add(5 * time.Second); ; {
			if atomic.LoadUint64(&c.Payload) >= target {
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("semaphore acquire of %d at %#x stuck at %d", target, addr, atomic.LoadUint64(&c.Payload))
			}
			time.Sleep(10 * time.Microsecond)
		}
	}

	i := 0
	return DecodeStream(stream, func(f MethodFields, args []uint32) error {
		if f.SecOp != nvgpu.SecOpIncMethod {
			return fmt.Errorf("word %d: unsupported sec op %#x", i, f.SecOp)
		}
		if err := d.method(ch, f, args, release, acquire); err != nil {
			return fmt.Errorf("word %d: %v", i, err)
		}
		i += 1 + len(args)
		return nil
	})
}

// method executes a single decoded method.
//
// +checklocks:d.mu
func (d *testDevice) method(ch *testChannel, f MethodFields, args []uint32, release func(uint64, uint32) error, acquire func(uint64, uint64) error) error {
	switch f.Subchannel {
	case nvgpu.SubchannelHost:
		switch f.Offset {
		case nvgpu.NVC56F_SEM_ADDR_LO:
			if len(args) != 5 {
				return fmt.Errorf("SEM_ADDR_LO with %d args", len(args))
			}
			addr := uint64(args[1])<<32 | uint64(args[0])
			payload := uint64(args[3])<<32 | uint64(args[2])
			execute := args[4]
			switch op := execute & 7; op {
			case nvgpu.NVC56F_SEM_EXECUTE_OPERATION_ACQ_CIRC_GEQ, nvgpu.NVC56F_SEM_EXECUTE_OPERATION_ACQ_STRICT_GEQ:
				return acquire(addr, payload)
			case nvgpu.NVC56F_SEM_EXECUTE_OPERATION_RELEASE:
				return release(addr, uint32(payload))
			default:
				return fmt.Errorf("SEM_EXECUTE operation %#x", op)
			}
		default:
			return fmt.Errorf("host method %#x", f.Offset)
		}
	case nvgpu.SubchannelCompute:
		switch f.Offset {
		case nvgpu.NVC6C0_SET_OBJECT:
			if len(args) != 1 {
				return fmt.Errorf("SET_OBJECT with %d args", len(args))
			}
			ch.binds[f.Subchannel] = args[0]
			return nil
		case nvgpu.NVC6C0_NO_OPERATION:
			return nil
		case nvgpu.NVC6C0_SET_REPORT_SEMAPHORE_A:
			if len(args) != 4 {
				return fmt.Errorf("SET_REPORT_SEMAPHORE with %d args", len(args))
			}
			if ch.binds[f.Subchannel] == 0 {
				return fmt.Errorf("compute method before SET_OBJECT")
			}
			addr := uint64(args[0])<<32 | uint64(args[1])
			return release(addr, args[2])
		default:
			return fmt.Errorf("compute method %#x", f.Offset)
		}
	case nvgpu.SubchannelCopy:
		switch f.Offset {
		case nvgpu.NVC6B5_SET_OBJECT:
			if len(args) != 1 {
				return fmt.Errorf("SET_OBJECT with %d args", len(args))
			}
			ch.binds[f.Subchannel] = args[0]
			return nil
		case nvgpu.NVC6B5_SET_SEMAPHORE_A:
			if len(args) != 3 {
				return fmt.Errorf("SET_SEMAPHORE with %d args", len(args))
			}
			ch.semAddr = uint64(args[0])<<32 | uint64(args[1])
			ch.semPayload = args[2]
			return nil
		case nvgpu.NVC6B5_OFFSET_IN_UPPER:
			if len(args) != 4 {
				return fmt.Errorf("OFFSET_IN_UPPER with %d args", len(args))
			}
			ch.copySrc = uint64(args[0])<<32 | uint64(args[1])
			ch.copyDst = uint64(args[2])<<32 | uint64(args[3])
			return nil
		case nvgpu.NVC6B5_LINE_LENGTH_IN:
			if len(args) != 1 {
				return fmt.Errorf("LINE_LENGTH_IN with %d args", len(args))
			}
			ch.copyLen = args[0]
			return nil
		case nvgpu.NVC6B5_LAUNCH_DMA:
			if len(args) != 1 {
				return fmt.Errorf("LAUNCH_DMA with %d args", len(args))
			}
			if ch.binds[f.Subchannel] == 0 {
				return fmt.Errorf("copy method before SET_OBJECT")
			}
			flags := args[0]
			if flags&3 != nvgpu.NVC6B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NONE {
				src, err := d.sliceLocked(ch.copySrc, uint64(ch.copyLen))
				if err != nil {
					return fmt.Errorf("copy source: %v", err)
				}
				dst, err := d.sliceLocked(ch.copyDst, uint64(ch.copyLen))
				if err != nil {
					return fmt.Errorf("copy destination: %v", err)
				}
				copy(dst, src)
			}
			if flags&(3<<3) != nvgpu.NVC6B5_LAUNCH_DMA_SEMAPHORE_TYPE_NONE {
				return release(ch.semAddr, ch.semPayload)
			}
			return nil
		default:
			return fmt.Errorf("copy method %#x", f.Offset)
		}
	default:
		return fmt.Errorf("subchannel %d method %#x", f.Subchannel, f.Offset)
	}
}

// sliceLocked is slice for callers already holding d.mu.
//
// +checklocks:d.mu
func (d *testDevice) sliceLocked(va, n uint64) ([]byte, error) {
	for _, m := range d.mappings {
		if va >= m.va && va+n <= m.va+uint64(len(m.mem)) {
			return m.mem[va-m.va : va-m.va+n], nil
		}
	}
	return nil, fmt.Errorf("no mapping covers [%#x, %#x)", va, va+n)
}

// takeErrs returns and clears accumulated interpreter errors.
func (d *testDevice) takeErrs() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	errs := d.errs
	d.errs = nil
	return errs
}

func (d *testDevice) setStalled(stalled bool) {
	d.mu.Lock()
	d.stalled = stalled
	d.mu.Unlock()
}

func (d *testDevice) setExecDelay(delay time.Duration) {
	d.mu.Lock()
	d.execDelay = delay
	d.mu.Unlock()
}
