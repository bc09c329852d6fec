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
	"sync"
	"sync/atomic"
	"time"

	"github.com/opennv/opennv/pkg/nverr"
)

// timelinePollInterval is how often the watcher samples the timeline cell.
// The cell is written by the GPU, not by any host store a condition variable
// could observe, so a poller (or interrupt path) has to bridge device writes
// to blocked host threads.
const timelinePollInterval = 100 * time.Microsecond

// timeline is the queue's primary synchronization channel: a reserved signal
// plus a host counter of issued targets. The counter advances when work is
// submitted; the signal's value advances when the GPU executes the matching
// notify. counter == signal value means no work is outstanding.
type timeline struct {
	sig *Signal

	// counter is the highest target issued to the GPU. Written by the
	// single-threaded submit path, read by awaiters.
	counter atomic.Uint64

	mu sync.Mutex
	// cond is broadcast by the watcher whenever it observes the signal
	// value change, and by expiring await timers.
	cond *sync.Cond
	// +checklocks:mu
	stopped bool

	watcherDone chan struct{}
}

func newTimeline(sig *Signal) *timeline {
	tl := &timeline{
		sig:         sig,
		watcherDone: make(chan struct{}),
	}
	tl.cond = sync.NewCond(&tl.mu)
	go tl.watch()
	return tl
}

// advance issues a new target and returns it. Caller must be the submit
// path.
func (tl *timeline) advance() uint64 {
	return tl.counter.Add(1)
}

// idle reports whether the GPU has caught up with every issued target.
func (tl *timeline) idle() bool {
	return tl.sig.Value() >= tl.counter.Load()
}

// watch observes device-side writes to the timeline cell and wakes blocked
// waiters. It runs until stop.
func (tl *timeline) watch() {
	defer close(tl.watcherDone)
	last := tl.sig.Value()
	for {
		tl.mu.Lock()
		if tl.stopped {
			tl.mu.Unlock()
			return
		}
		// Broadcasting under mu means a waiter between its value check and
		// cond.Wait cannot miss the wakeup.
		if v := tl.sig.Value(); v != last {
			last = v
			tl.cond.Broadcast()
		}
		tl.mu.Unlock()
		time.Sleep(timelinePollInterval)
	}
}

// await blocks until the signal's observed value reaches the counter value at
// the time of the call, or until timeout elapses if timeout is non-zero.
func (tl *timeline) await(timeout time.Duration) error {
	target := tl.counter.Load()
	var deadline time.Time
	var timer *time.Timer
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
		// The timer only wakes waiters so they notice the deadline. Bracketed
		// by mu for the same reason as the watcher's broadcast.
		timer = time.AfterFunc(timeout, func() {
			tl.mu.Lock()
			tl.cond.Broadcast()
			tl.mu.Unlock()
		})
		defer timer.Stop()
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for tl.sig.Value() < target {
		if tl.stopped {
			return nverr.ErrInternalFault
		}
		if timeout > 0 && !time.Now().Before(deadline) {
			return nverr.ErrTimeout
		}
		tl.cond.Wait()
	}
	return nil
}

// stop terminates the watcher and unblocks waiters with an error.
func (tl *timeline) stop() {
	tl.mu.Lock()
	tl.stopped = true
	tl.mu.Unlock()
	tl.cond.Broadcast()
	<-tl.watcherDone
}
