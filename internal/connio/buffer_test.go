/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package connio

import "testing"

func TestBufferGrow(t *testing.T) {
	b := NewBuffer(DefaultInitialCapacity, DefaultMaxCapacity)
	if b.Cap() != DefaultInitialCapacity {
		t.Fatalf("Cap() = %d, want %d", b.Cap(), DefaultInitialCapacity)
	}
	if err := b.Grow(DefaultInitialCapacity + 1); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if b.Cap() <= DefaultInitialCapacity {
		t.Fatalf("Cap() did not grow: %d", b.Cap())
	}
}

func TestBufferGrowRefusesBeyondMaxCapacity(t *testing.T) {
	b := NewBuffer(DefaultInitialCapacity, DefaultMaxCapacity)
	if err := b.Grow(DefaultMaxCapacity + 1000); err == nil {
		t.Fatal("Grow: want error exceeding MaxCapacity, got nil")
	}
}

func TestBufferGrowPreservesData(t *testing.T) {
	b := NewBuffer(DefaultInitialCapacity, DefaultMaxCapacity)
	copy(b.FreeSpace(), "hello")
	b.Advance(5)
	if err := b.Grow(DefaultInitialCapacity * 2); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if got := string(b.Bytes()[:5]); got != "hello" {
		t.Fatalf("data after grow = %q, want %q", got, "hello")
	}
}

func TestBufferShiftMovesUnparsedToFront(t *testing.T) {
	b := NewBuffer(DefaultInitialCapacity, DefaultMaxCapacity)
	copy(b.FreeSpace(), "AAAABBBB")
	b.Advance(8)
	b.ConsumeRequest(4)
	b.Shift()
	if got := string(b.Bytes()[:4]); got != "BBBB" {
		t.Fatalf("after shift, front = %q, want %q", got, "BBBB")
	}
	if b.ParseOffset() != 0 {
		t.Fatalf("ParseOffset() = %d, want 0", b.ParseOffset())
	}
	if b.ReadOffset() != 4 {
		t.Fatalf("ReadOffset() = %d, want 4", b.ReadOffset())
	}
}

func TestBufferShiftNoOpWhenNothingConsumed(t *testing.T) {
	b := NewBuffer(DefaultInitialCapacity, DefaultMaxCapacity)
	copy(b.FreeSpace(), "AAAA")
	b.Advance(4)
	b.Shift()
	if got := string(b.Bytes()[:4]); got != "AAAA" {
		t.Fatalf("front = %q, want %q", got, "AAAA")
	}
}
