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

// Package nverr holds the standardized error definitions for the command
// queue. Every public queue operation either succeeds (nil) or returns one of
// the canonical *Error values below, possibly wrapped with additional context.
package nverr

import (
	"errors"
	"fmt"
)

// Status is the fixed enumeration of operation outcomes.
type Status uint32

const (
	// OK indicates success. It never appears in a non-nil error.
	OK Status = iota

	// UninitializedQueue indicates an operation was called before
	// InitializeQueue. Programmer error; never retried.
	UninitializedQueue

	// SignalPoolExhausted indicates no free signal slots remain. Recoverable
	// once prior work completes and signals are released.
	SignalPoolExhausted

	// FifoFull indicates the GPFIFO ring has no free entries. Recoverable
	// backpressure; await prior completions and retry.
	FifoFull

	// InvalidMethod indicates method encoding parameters exceed the hardware
	// field widths. Programmer error; never retried.
	InvalidMethod

	// Timeout indicates an await exceeded its bound. State is not corrupted;
	// the await may be retried.
	Timeout

	// InternalFault indicates an unexpected hardware or mapping failure. The
	// queue instance is no longer usable.
	InternalFault
)

var statusStrings = [...]string{
	OK:                  "success",
	UninitializedQueue:  "queue not initialized",
	SignalPoolExhausted: "signal pool exhausted",
	FifoFull:            "gpfifo ring full",
	InvalidMethod:       "invalid method encoding",
	Timeout:             "await timed out",
	InternalFault:       "internal fault",
}

// String implements fmt.Stringer.String.
func (s Status) String() string {
	if int(s) < len(statusStrings) {
		return statusStrings[s]
	}
	return fmt.Sprintf("unknown status %d", uint32(s))
}

// Error represents a queue status with a descriptive message.
type Error struct {
	status  Status
	message string
}

// New creates a new *Error.
func New(status Status, message string) *Error {
	return &Error{
		status:  status,
		message: message,
	}
}

// Error implements error.Error.
func (e *Error) Error() string { return e.message }

// Status returns the underlying Status value.
func (e *Error) Status() Status { return e.status }

// Is implements errors.Is matching by status, so wrapped errors compare equal
// to their canonical singleton.
func (e *Error) Is(target error) bool {
	if other, ok := target.(*Error); ok {
		return e.status == other.status
	}
	return false
}

// Canonical errors, one per failure status.
var (
	ErrUninitializedQueue  = New(UninitializedQueue, "queue not initialized")
	ErrSignalPoolExhausted = New(SignalPoolExhausted, "signal pool exhausted")
	ErrFifoFull            = New(FifoFull, "gpfifo ring full")
	ErrInvalidMethod       = New(InvalidMethod, "invalid method encoding")
	ErrTimeout             = New(Timeout, "await timed out")
	ErrInternalFault       = New(InternalFault, "internal fault")
)

// StatusOf extracts the Status from err. A nil err maps to OK; a non-nil err
// that is not (and does not wrap) an *Error maps to InternalFault.
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.status
	}
	return InternalFault
}

// Message returns the human-readable string for status, the lookup facility
// callers use to translate status codes.
func Message(status Status) string {
	return status.String()
}
