/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package connio drives a single connection through spec.md §4.5: growing
// the per-connection buffer, running read → parse → route → send,
// shifting unparsed bytes, enforcing the receive timeout, and handling
// pipelining and keep-alive.
package connio

import (
	"github.com/badu/originserver/internal/httperr"
)

// DefaultInitialCapacity and DefaultMaxCapacity are spec.md §3's
// ConnectionBuffer bounds, used when a caller (or a test) has no
// svcconfig.Config.Listen override to supply.
const (
	DefaultInitialCapacity = 4096
	DefaultMaxCapacity     = 16384
)

// Buffer is spec.md §3's ConnectionBuffer: an owned growable byte slice
// with two cursors. ParseOffset <= ReadOffset <= len(data) <= maxCapacity
// holds after every method call.
type Buffer struct {
	data        []byte
	readOffset  int
	parseOffset int
	maxCapacity int
}

// NewBuffer allocates a Buffer at initialCapacity, refusing to Grow past
// maxCapacity. Both bounds come from svcconfig.Config.Listen.
func NewBuffer(initialCapacity, maxCapacity int) *Buffer {
	return &Buffer{data: make([]byte, initialCapacity), maxCapacity: maxCapacity}
}

// ReadOffset is the number of bytes read from the socket currently
// present in the buffer.
func (b *Buffer) ReadOffset() int { return b.readOffset }

// ParseOffset is the number of bytes already consumed by completed
// requests.
func (b *Buffer) ParseOffset() int { return b.parseOffset }

// Cap is the buffer's current capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Bytes exposes the full backing array. Callers must not retain slices
// of it across a Grow or Shift call.
func (b *Buffer) Bytes() []byte { return b.data }

// Unparsed returns the slice of bytes read but not yet consumed by a
// completed request: data[parseOffset:readOffset].
func (b *Buffer) Unparsed() []byte { return b.data[b.parseOffset:b.readOffset] }

// FreeSpace returns the slice available for the next socket read:
// data[readOffset:cap].
func (b *Buffer) FreeSpace() []byte { return b.data[b.readOffset:] }

// Advance records n freshly read bytes.
func (b *Buffer) Advance(n int) { b.readOffset += n }

// ConsumeRequest records that a complete request of size bytes has been
// parsed starting at ParseOffset.
func (b *Buffer) ConsumeRequest(size int) { b.parseOffset += size }

// MaxCapacity is the configured ceiling this Buffer refuses to Grow past.
func (b *Buffer) MaxCapacity() int { return b.maxCapacity }

// Grow implements spec.md §4.5's growth policy: if need exceeds the
// current capacity, reallocate to need+1 bytes, refusing to exceed
// maxCapacity (the caller maps that refusal to a 413 response).
func (b *Buffer) Grow(need int) error {
	if need <= len(b.data) {
		return nil
	}
	newCap := need + 1
	if newCap > b.maxCapacity {
		return httperr.New(httperr.PayloadTooLarge, "request would exceed MAX_CAPACITY")
	}
	grown := make([]byte, newCap)
	copy(grown, b.data[:b.readOffset])
	b.data = grown
	return nil
}

// Shift implements spec.md §4.5's buffer shift: after a fully processed
// request, move any remaining unparsed bytes to the buffer front and
// reset the cursors.
func (b *Buffer) Shift() {
	remaining := b.readOffset - b.parseOffset
	if remaining > 0 && b.parseOffset > 0 {
		copy(b.data, b.data[b.parseOffset:b.readOffset])
	}
	if b.parseOffset > 0 {
		b.readOffset = remaining
		b.parseOffset = 0
	}
}
