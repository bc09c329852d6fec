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

// Package cmdqueue builds GPU command streams and submits them to hardware
// execution channels.
//
// A CommandQueue accumulates method words in a host-side command buffer,
// flushes them to a CPU-mapped, GPU-addressable queue page (one per queue
// type), and submits the page's valid range through the channel's GPFIFO
// ring. Synchronization between CPU and GPU uses semaphore cells from the
// signal pool and the timeline counter/signal pair.
//
// Command building (Enqueue through StartExecution) is single-threaded per
// queue; only signal pool claim/release and the timeline wait path are safe
// for concurrent callers.
//
// Lock ordering:
//
//   - signalPool.mu
//   - timeline.mu
package cmdqueue

import (
	"fmt"
	"time"

	"github.com/opennv/opennv/pkg/abi/nvgpu"
	"github.com/opennv/opennv/pkg/gpumem"
	"github.com/opennv/opennv/pkg/log"
	"github.com/opennv/opennv/pkg/nverr"
)

// QueueType selects which hardware channel a submission targets.
type QueueType int

const (
	// Compute is the compute-class channel.
	Compute QueueType = iota

	// DMA is the copy-engine channel.
	DMA

	numQueueTypes
)

// String implements fmt.Stringer.String.
func (qt QueueType) String() string {
	switch qt {
	case Compute:
		return "compute"
	case DMA:
		return "dma"
	default:
		return fmt.Sprintf("invalid queue type %d", int(qt))
	}
}

// Default sizes.
const (
	// DefaultQueuePageSize holds the command stream for one submission
	// cycle per queue type.
	DefaultQueuePageSize = 0x100000

	// DefaultSignalPoolSize is the fixed signal pool capacity.
	DefaultSignalPoolSize = 256
)

// Config holds arguments to New. The context layer fills it from the channel
// and memory resources it owns; the queue keeps non-owning references for its
// lifetime.
type Config struct {
	// Allocator provides the CPU-mapped, GPU-addressable memory backing the
	// queue pages and the signal pool.
	Allocator gpumem.Allocator

	// Compute and DMA describe the two hardware channels.
	Compute FifoConfig
	DMA     FifoConfig

	// ComputeClass and CopyClass are the engine classes bound during
	// InitializeQueue. Zero values select AMPERE_COMPUTE_B and
	// AMPERE_DMA_COPY_B.
	ComputeClass uint32
	CopyClass    uint32

	// QueuePageSize overrides DefaultQueuePageSize if non-zero.
	QueuePageSize uint64

	// SignalPoolSize overrides DefaultSignalPoolSize if non-zero.
	SignalPoolSize int
}

// queuePage is one queue type's flushed command stream: a mapped page plus
// the byte cursor delimiting valid data.
type queuePage struct {
	buf *gpumem.Buffer

	// writePtr is the byte offset one past the end of valid data. Flushes
	// append at it; submissions cover the newly appended range.
	writePtr uint64
}

// CommandQueue is the command-submission engine for one context. It owns its
// two queue pages, its signal pool, and its timeline signal; channel
// resources in Config remain owned by the context.
type CommandQueue struct {
	cfg         Config
	initialized bool

	cmdBuf commandBuffer
	pages  [numQueueTypes]queuePage
	fifos  [numQueueTypes]*gpfifo

	signals  *signalPool
	timeline *timeline
}

// New creates a CommandQueue. It has no hardware side effect;
// InitializeQueue must be called before any other operation.
func New(cfg Config) *CommandQueue {
	if cfg.QueuePageSize == 0 {
		cfg.QueuePageSize = DefaultQueuePageSize
	}
	if cfg.SignalPoolSize == 0 {
		cfg.SignalPoolSize = DefaultSignalPoolSize
	}
	if cfg.ComputeClass == 0 {
		cfg.ComputeClass = nvgpu.AMPERE_COMPUTE_B
	}
	if cfg.CopyClass == 0 {
		cfg.CopyClass = nvgpu.AMPERE_DMA_COPY_B
	}
	return &CommandQueue{cfg: cfg}
}

// InitializeQueue allocates the queue's device-visible state, starts the
// timeline watcher, and binds the engine classes to their subchannels on
// both channels. It must complete before any other operation; a repeated
// call is a no-op.
func (q *CommandQueue) InitializeQueue() error {
	if q.initialized {
		return nil
	}
	if q.cfg.Allocator == nil {
		return fmt.Errorf("%w: no allocator", nverr.ErrInternalFault)
	}
	for qt := Compute; qt < numQueueTypes; qt++ {
		fifo, err := newGPFifo(q.fifoConfig(qt))
		if err != nil {
			q.teardown()
			return fmt.Errorf("%s channel: %w", qt, err)
		}
		q.fifos[qt] = fifo
		buf, err := gpumem.AllocAligned(q.cfg.Allocator, q.cfg.QueuePageSize, 8)
		if err != nil {
			q.teardown()
			return fmt.Errorf("%w: %s queue page: %v", nverr.ErrInternalFault, qt, err)
		}
		q.pages[qt] = queuePage{buf: buf}
	}
	signals, err := newSignalPool(q.cfg.Allocator, q.cfg.SignalPoolSize)
	if err != nil {
		q.teardown()
		return fmt.Errorf("%w: signal pool: %v", nverr.ErrInternalFault, err)
	}
	q.signals = signals
	timelineSig, err := signals.obtain()
	if err != nil {
		q.teardown()
		return err
	}
	q.timeline = newTimeline(timelineSig)
	q.initialized = true

	// Bind the engine classes. The binds ride the first submission on each
	// channel; completion is covered by the next await.
	if err := q.bindClasses(); err != nil {
		q.Destroy()
		return err
	}
	log.Infof("cmdqueue: initialized, %d signals, %#x-byte pages, compute class %#x, copy class %#x",
		q.cfg.SignalPoolSize, q.cfg.QueuePageSize, q.cfg.ComputeClass, q.cfg.CopyClass)
	return nil
}

func (q *CommandQueue) fifoConfig(qt QueueType) FifoConfig {
	if qt == Compute {
		return q.cfg.Compute
	}
	return q.cfg.DMA
}

func (q *CommandQueue) bindClasses() error {
	if err := q.Enqueue(nvgpu.SubchannelCompute, nvgpu.NVC6C0_SET_OBJECT, q.cfg.ComputeClass); err != nil {
		return err
	}
	if err := q.StartExecution(Compute); err != nil {
		return err
	}
	if err := q.Enqueue(nvgpu.SubchannelCopy, nvgpu.NVC6B5_SET_OBJECT, q.cfg.CopyClass); err != nil {
		return err
	}
	return q.StartExecution(DMA)
}

// teardown releases partially initialized state.
func (q *CommandQueue) teardown() {
	if q.timeline != nil {
		q.timeline.stop()
		q.timeline = nil
	}
	if q.signals != nil {
		q.signals.destroy()
		q.signals = nil
	}
	for qt := Compute; qt < numQueueTypes; qt++ {
		if q.pages[qt].buf != nil {
			q.pages[qt].buf.Free()
			q.pages[qt] = queuePage{}
		}
		q.fifos[qt] = nil
	}
}

// Destroy stops the watcher and frees the queue's owned memory. Work already
// submitted runs to completion on the device regardless. Safe to call on an
// uninitialized or destroyed queue.
func (q *CommandQueue) Destroy() error {
	if !q.initialized {
		return nil
	}
	q.initialized = false
	q.teardown()
	log.Debugf("cmdqueue: destroyed")
	return nil
}

// Enqueue appends one method and its arguments to the command buffer. Host
// memory only; nothing reaches the device until StartExecution.
func (q *CommandQueue) Enqueue(subchannel, methodOffset uint32, args ...uint32) error {
	if !q.initialized {
		return nverr.ErrUninitializedQueue
	}
	m, err := makeMethod(subchannel, methodOffset, len(args))
	if err != nil {
		return err
	}
	q.cmdBuf.push(m, args...)
	return nil
}

// ObtainSignal claims a signal from the pool.
func (q *CommandQueue) ObtainSignal() (*Signal, error) {
	if !q.initialized {
		return nil, nverr.ErrUninitializedQueue
	}
	return q.signals.obtain()
}

// ReleaseSignal returns a signal to the pool. The caller must ensure no
// unexecuted command still references it.
func (q *CommandQueue) ReleaseSignal(s *Signal) error {
	if !q.initialized {
		return nverr.ErrUninitializedQueue
	}
	return q.signals.release(s)
}

// SignalNotify enqueues a command directing qt's engine to write target (and
// a timestamp) into sig when the engine reaches this point in its own
// execution order.
func (q *CommandQueue) SignalNotify(sig *Signal, target uint64, qt QueueType) error {
	if !q.initialized {
		return nverr.ErrUninitializedQueue
	}
	return q.signalNotify(sig, target, qt)
}

func (q *CommandQueue) signalNotify(sig *Signal, target uint64, qt QueueType) error {
	if target > 1<<32-1 {
		// Engine releases carry 32-bit payloads; the timeline counter stays
		// far below this in any plausible lifetime.
		return fmt.Errorf("%w: notify target %#x exceeds 32 bits", nverr.ErrInvalidMethod, target)
	}
	switch qt {
	case Compute:
		return q.Enqueue(nvgpu.SubchannelCompute, nvgpu.NVC6C0_SET_REPORT_SEMAPHORE_A,
			uint32(sig.GPUVA()>>32), uint32(sig.GPUVA()), uint32(target),
			nvgpu.NVC6C0_SET_REPORT_SEMAPHORE_D_OPERATION_RELEASE|nvgpu.NVC6C0_SET_REPORT_SEMAPHORE_D_AWAKEN_ENABLE)
	case DMA:
		if err := q.Enqueue(nvgpu.SubchannelCopy, nvgpu.NVC6B5_SET_SEMAPHORE_A,
			uint32(sig.GPUVA()>>32), uint32(sig.GPUVA()), uint32(target)); err != nil {
			return err
		}
		return q.Enqueue(nvgpu.SubchannelCopy, nvgpu.NVC6B5_LAUNCH_DMA,
			nvgpu.NVC6B5_LAUNCH_DMA_DATA_TRANSFER_TYPE_NONE|
				nvgpu.NVC6B5_LAUNCH_DMA_FLUSH_ENABLE|
				nvgpu.NVC6B5_LAUNCH_DMA_SEMAPHORE_TYPE_RELEASE_FOUR_WORD)
	default:
		return fmt.Errorf("%w: %s", nverr.ErrInvalidMethod, qt)
	}
}

// notifyWords is the command stream footprint of signalNotify per queue
// type.
func notifyWords(qt QueueType) uint64 {
	if qt == Compute {
		return 5
	}
	return 6
}

// SignalWait enqueues a host semaphore acquire: whichever channel executes
// it stalls until sig's value is observed >= target. This is how cross-engine
// ordering is established, since compute and DMA submissions are otherwise
// unordered relative to each other.
func (q *CommandQueue) SignalWait(sig *Signal, target uint64) error {
	if !q.initialized {
		return nverr.ErrUninitializedQueue
	}
	return q.Enqueue(nvgpu.SubchannelHost, nvgpu.NVC56F_SEM_ADDR_LO,
		uint32(sig.GPUVA()), uint32(sig.GPUVA()>>32),
		uint32(target), uint32(target>>32),
		nvgpu.NVC56F_SEM_EXECUTE_OPERATION_ACQ_CIRC_GEQ|
			nvgpu.NVC56F_SEM_EXECUTE_ACQUIRE_SWITCH_TSG_EN|
			nvgpu.NVC56F_SEM_EXECUTE_PAYLOAD_SIZE_64BIT)
}

// StartExecution closes the current command segment and hands it to qt's
// channel: it advances the timeline, appends the timeline notify as the
// segment's last command, flushes the buffer to qt's page, and submits the
// page range via the GPFIFO.
func (q *CommandQueue) StartExecution(qt QueueType) error {
	if !q.initialized {
		return nverr.ErrUninitializedQueue
	}
	if qt < Compute || qt >= numQueueTypes {
		return fmt.Errorf("%w: %s", nverr.ErrInvalidMethod, qt)
	}
	fifo := q.fifos[qt]
	if fifo.full() {
		return nverr.ErrFifoFull
	}
	page := &q.pages[qt]
	need := q.cmdBuf.sizeBytes() + notifyWords(qt)*4
	if page.writePtr+need > page.buf.Size() {
		if !q.timeline.idle() {
			// The page cannot be rewound while submitted work may still be
			// fetched from it.
			return nverr.ErrFifoFull
		}
		page.writePtr = 0
		if need > page.buf.Size() {
			return fmt.Errorf("%w: segment of %d bytes exceeds queue page", nverr.ErrInternalFault, need)
		}
	}

	// Nothing below may fail after the counter advances, or an await would
	// wait for a notify that was never submitted.
	target := q.timeline.advance()
	if err := q.signalNotify(q.timeline.sig, target, qt); err != nil {
		return err
	}
	start := q.flush(page)
	if err := fifo.submit(page.buf.GPUVA()+start, uint32((page.writePtr-start)/4)); err != nil {
		return err
	}
	log.Debugf("cmdqueue: %s segment submitted, timeline target %d", qt, target)
	return nil
}

// flush copies the command buffer into page at its cursor, advances the
// cursor, and resets the buffer. Returns the segment's starting byte offset.
func (q *CommandQueue) flush(page *queuePage) uint64 {
	start := page.writePtr
	if q.cmdBuf.empty() {
		return start
	}
	words := page.buf.Uint32s()
	copy(words[start/4:], q.cmdBuf.words)
	page.writePtr += q.cmdBuf.sizeBytes()
	q.cmdBuf.reset()
	return start
}

// AwaitExecution blocks until the device has completed every submitted
// segment, i.e. the timeline signal has reached the timeline counter.
func (q *CommandQueue) AwaitExecution() error {
	return q.AwaitExecutionTimeout(0)
}

// AwaitExecutionTimeout is AwaitExecution with a bound; zero means no bound.
// On Timeout no state is corrupted and the await may simply be retried.
//
// Awaits touch only the timeline, never the pages or the command buffer, so
// any number of threads may block here concurrently with each other and with
// the build thread. Page rewinding happens on the build path in
// StartExecution.
func (q *CommandQueue) AwaitExecutionTimeout(timeout time.Duration) error {
	if !q.initialized {
		return nverr.ErrUninitializedQueue
	}
	return q.timeline.await(timeout)
}

// TimelineCounter returns the highest issued timeline target.
func (q *CommandQueue) TimelineCounter() uint64 {
	if q.timeline == nil {
		return 0
	}
	return q.timeline.counter.Load()
}

// TimelineValue returns the timeline signal's current device-written value.
func (q *CommandQueue) TimelineValue() uint64 {
	if q.timeline == nil {
		return 0
	}
	return q.timeline.sig.Value()
}
