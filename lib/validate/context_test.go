// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"errors"
	"testing"

	"github.com/stele-foundation/stele/lib/layout"
)

func TestCheckSubtreePos(t *testing.T) {
	c := NewContext(make([]byte, 64))

	if err := c.CheckSubtreePos(0, layout.U64); err != nil {
		t.Errorf("in-range check failed: %v", err)
	}
	if err := c.CheckSubtreePos(56, layout.U64); err != nil {
		t.Errorf("check at range end failed: %v", err)
	}

	err := c.CheckSubtreePos(64, layout.U8)
	if !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("single byte at buffer end: err = %v, want ErrPointerOutOfBounds", err)
	}
	err = c.CheckSubtreePos(60, layout.U64)
	if !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("span past end: err = %v, want ErrPointerOutOfBounds", err)
	}
	err = c.CheckSubtreePos(-8, layout.U64)
	if !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("negative position: err = %v, want ErrPointerOutOfBounds", err)
	}
	err = c.CheckSubtreePos(12, layout.U64)
	if !errors.Is(err, ErrMisaligned) {
		t.Errorf("misaligned position: err = %v, want ErrMisaligned", err)
	}
}

func TestPushLowersClaimCeiling(t *testing.T) {
	c := NewContext(make([]byte, 64))

	// Descend into a pointee at [48, 56): its own pointers may only
	// target bytes serialized before it.
	token, err := c.PushSubtreeRange(48, 56)
	if err != nil {
		t.Fatalf("PushSubtreeRange failed: %v", err)
	}
	if token != (Range{Start: 56, End: 64}) {
		t.Errorf("token = %+v, want {56 64}", token)
	}
	if c.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", c.Depth())
	}

	if err := c.CheckSubtreePos(40, layout.U64); err != nil {
		t.Errorf("position below pointee rejected: %v", err)
	}
	if err := c.CheckSubtreePos(48, layout.U64); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("pointee's own bytes admitted during descent: err = %v", err)
	}
	if err := c.CheckSubtreePos(56, layout.U64); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("position past pointee admitted: err = %v", err)
	}

	if err := c.PopSubtreeRange(token); err != nil {
		t.Fatalf("PopSubtreeRange failed: %v", err)
	}
	if c.Depth() != 0 {
		t.Errorf("Depth after pop = %d, want 0", c.Depth())
	}

	// The enclosing ceiling is restored, but the popped pointee's
	// bytes stay claimed: the range now starts at its end.
	if err := c.CheckSubtreePos(56, layout.U64); err != nil {
		t.Errorf("position past popped pointee rejected: %v", err)
	}
	if err := c.CheckSubtreePos(48, layout.U64); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("claimed pointee bytes admitted after pop: err = %v", err)
	}
}

func TestPushRejectsEscape(t *testing.T) {
	c := NewContext(make([]byte, 32))

	if _, err := c.PushSubtreeRange(8, 48); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("end past buffer: err = %v, want ErrPointerOutOfBounds", err)
	}
	if _, err := c.PushSubtreeRange(-4, 8); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("negative root: err = %v, want ErrPointerOutOfBounds", err)
	}
	if _, err := c.PushSubtreeRange(24, 16); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("inverted range: err = %v, want ErrPointerOutOfBounds", err)
	}
}

func TestPopDiscipline(t *testing.T) {
	c := NewContext(make([]byte, 64))

	outer, err := c.PushSubtreeRange(48, 56)
	if err != nil {
		t.Fatalf("outer push failed: %v", err)
	}
	inner, err := c.PushSubtreeRange(16, 32)
	if err != nil {
		t.Fatalf("inner push failed: %v", err)
	}

	// Popping the outer range while the inner is live is exactly the
	// out-of-order traversal the discipline exists to catch.
	if err := c.PopSubtreeRange(outer); !errors.Is(err, ErrOutOfOrderPop) {
		t.Fatalf("out-of-order pop: err = %v, want ErrOutOfOrderPop", err)
	}

	if err := c.PopSubtreeRange(inner); err != nil {
		t.Fatalf("inner pop failed: %v", err)
	}
	if err := c.PopSubtreeRange(outer); err != nil {
		t.Fatalf("outer pop failed: %v", err)
	}

	if err := c.PopSubtreeRange(outer); !errors.Is(err, ErrRangeUnderflow) {
		t.Errorf("pop when idle: err = %v, want ErrRangeUnderflow", err)
	}
}

func TestSiblingDescentOrder(t *testing.T) {
	// A parent record at [48, 64) with two pointees below it, each
	// claimed and released in turn: the walk a real two-field record
	// produces.
	c := NewContext(make([]byte, 64))

	parent, err := c.PushSubtreeRange(48, 64)
	if err != nil {
		t.Fatalf("parent push failed: %v", err)
	}

	first, err := c.PushSubtreeRange(0, 16)
	if err != nil {
		t.Fatalf("first child push failed: %v", err)
	}
	if err := c.PopSubtreeRange(first); err != nil {
		t.Fatalf("first child pop failed: %v", err)
	}

	second, err := c.PushSubtreeRange(16, 40)
	if err != nil {
		t.Fatalf("second child push failed: %v", err)
	}
	if err := c.PopSubtreeRange(second); err != nil {
		t.Fatalf("second child pop failed: %v", err)
	}

	if err := c.PopSubtreeRange(parent); err != nil {
		t.Fatalf("parent pop failed: %v", err)
	}
	if c.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", c.Depth())
	}
}

func TestSiblingCannotReclaimPointee(t *testing.T) {
	// Once a pointee is validated and popped, its bytes belong to it: a
	// later sibling pointer resolving back into the same span must fail
	// rather than alias the first field's data.
	c := NewContext(make([]byte, 64))

	parent, err := c.PushSubtreeRange(48, 64)
	if err != nil {
		t.Fatalf("parent push failed: %v", err)
	}
	first, err := c.PushSubtreeRange(0, 16)
	if err != nil {
		t.Fatalf("first child push failed: %v", err)
	}
	if err := c.PopSubtreeRange(first); err != nil {
		t.Fatalf("first child pop failed: %v", err)
	}

	if err := c.CheckSubtreePos(0, layout.U32); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("claimed sibling bytes admitted: err = %v", err)
	}
	if _, err := c.PushSubtreeRange(8, 24); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("push overlapping claimed sibling: err = %v, want ErrPointerOutOfBounds", err)
	}

	second, err := c.PushSubtreeRange(16, 40)
	if err != nil {
		t.Fatalf("second child push failed: %v", err)
	}
	if err := c.PopSubtreeRange(second); err != nil {
		t.Fatalf("second child pop failed: %v", err)
	}
	if err := c.PopSubtreeRange(parent); err != nil {
		t.Fatalf("parent pop failed: %v", err)
	}
}

func TestBoundsCheckSubtreeOffset(t *testing.T) {
	c := NewContext(make([]byte, 64))

	pos, err := c.BoundsCheckSubtreeOffset(16, 24, layout.U64)
	if err != nil {
		t.Fatalf("BoundsCheckSubtreeOffset failed: %v", err)
	}
	if pos != 40 {
		t.Errorf("pos = %d, want 40", pos)
	}

	// Negative displacement is the common case: pointees live below
	// their pointers.
	pos, err = c.BoundsCheckSubtreeOffset(32, -32, layout.U32)
	if err != nil {
		t.Fatalf("backward offset failed: %v", err)
	}
	if pos != 0 {
		t.Errorf("pos = %d, want 0", pos)
	}

	if _, err := c.BoundsCheckSubtreeOffset(32, 40, layout.U64); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("escaping offset: err = %v, want ErrPointerOutOfBounds", err)
	}
}

func TestPushPrefixSubtree(t *testing.T) {
	c := NewContext(make([]byte, 64))

	token, err := c.PushPrefixSubtree(40, layout.Layout{Size: 16, Align: 8})
	if err != nil {
		t.Fatalf("PushPrefixSubtree failed: %v", err)
	}
	if token != (Range{Start: 56, End: 64}) {
		t.Errorf("token = %+v, want {56 64}", token)
	}
	if err := c.CheckSubtreePos(32, layout.U64); err != nil {
		t.Errorf("position below prefix rejected: %v", err)
	}
	if err := c.CheckSubtreePos(40, layout.U64); !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("claimed prefix admitted: err = %v", err)
	}
}

func TestRegisterShared(t *testing.T) {
	c := NewContext(make([]byte, 64))
	typeA, typeB := "bytes", "string"

	first, err := c.RegisterShared(16, typeA)
	if err != nil {
		t.Fatalf("first RegisterShared failed: %v", err)
	}
	if !first {
		t.Fatal("first registration returned false")
	}

	again, err := c.RegisterShared(16, typeA)
	if err != nil {
		t.Fatalf("repeat RegisterShared failed: %v", err)
	}
	if again {
		t.Error("repeat registration returned true")
	}

	if _, err := c.RegisterShared(16, typeB); !errors.Is(err, ErrSharedTypeConflict) {
		t.Errorf("conflicting registration: err = %v, want ErrSharedTypeConflict", err)
	}

	// A different position is independent.
	first, err = c.RegisterShared(32, typeB)
	if err != nil || !first {
		t.Errorf("registration at new position = (%t, %v), want (true, nil)", first, err)
	}
}
