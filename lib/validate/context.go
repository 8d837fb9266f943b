// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"errors"
	"fmt"

	"github.com/stele-foundation/stele/lib/layout"
)

var (
	// ErrPointerOutOfBounds is returned when a pointer target, or the
	// byte span its layout requires, falls outside the active subtree
	// range.
	ErrPointerOutOfBounds = errors.New("pointer outside active subtree range")

	// ErrMisaligned is returned when a pointer target does not
	// satisfy the pointee's alignment.
	ErrMisaligned = errors.New("pointer target misaligned")

	// ErrRangeUnderflow is returned when a subtree range is popped
	// with no range pushed.
	ErrRangeUnderflow = errors.New("subtree range popped with none active")

	// ErrOutOfOrderPop is returned when subtree ranges are not popped
	// in exact reverse push order.
	ErrOutOfOrderPop = errors.New("subtree range popped out of order")
)

// Range is the token returned by [Context.PushSubtreeRange]: the
// active range to install when the pointee's validation completes.
// Start is the end of the claimed pointee and End is the enclosing
// claim ceiling, so popping both restores the ceiling and moves the
// range start past the bytes the pointee consumed. Tokens must be
// handed back to [Context.PopSubtreeRange] in exact reverse order.
type Range struct {
	Start int
	End   int
}

// Context tracks the byte-range entitlement of one validation pass
// over one buffer.
//
// The archive format is append-only: a value's pointees are serialized
// before the value itself, in field order, so every pointer targets
// bytes below its own record and sibling pointees occupy disjoint,
// ascending spans. The active subtree range is [start, ceiling):
// descending into a pointee at root lowers the ceiling to root, and
// completing the pointee restores the enclosing ceiling while
// advancing start past the pointee's end. A pointer that escapes the
// active range fails the pass, whether it reaches past the ceiling,
// past the buffer, into its own record, or back into a span an
// earlier sibling already claimed.
//
// The zero Context is not usable; create one with [NewContext]. A
// Context also carries the pass's shared-pointer registry (see
// shared.go). Neither structure is safe for concurrent use; each
// concurrent validation pass over the same buffer gets its own
// Context.
type Context struct {
	size    int
	start   int
	ceiling int
	stack   []Range

	shared map[int]any
}

// NewContext returns a validation context for a buffer of len(buf)
// bytes. The context never reads buf; it works purely on positions.
// Taking the slice rather than a length keeps call sites honest about
// which buffer the pass is for.
func NewContext(buf []byte) *Context {
	return &Context{size: len(buf), ceiling: len(buf)}
}

// Depth returns the number of subtree ranges currently pushed. Zero
// means the context is idle: either untouched or returned to rest
// after a successful pass.
func (c *Context) Depth() int { return len(c.stack) }

// CheckSubtreePos fails unless the span [pos, pos+l.Size) lies
// entirely within the active subtree range and pos satisfies l's
// alignment. This is the single gate between an attacker-controlled
// offset and an out-of-range read.
func (c *Context) CheckSubtreePos(pos int, l layout.Layout) error {
	if pos < c.start || pos+l.Size > c.ceiling || pos+l.Size < pos {
		return fmt.Errorf("value of %d bytes at position %d, active range [%d, %d): %w",
			l.Size, pos, c.start, c.ceiling, ErrPointerOutOfBounds)
	}
	if !layout.Aligned(pos, l.Alignment()) {
		return fmt.Errorf("value at position %d requires alignment %d: %w",
			pos, l.Alignment(), ErrMisaligned)
	}
	return nil
}

// PushSubtreeRange starts validating the pointee occupying
// [root, end). The active range becomes [start, root): the pointee's
// own pointers may only target unclaimed bytes serialized before it.
// The returned token restores the enclosing range when passed to
// [Context.PopSubtreeRange].
//
// The span must already have been admitted by [Context.CheckSubtreePos];
// push re-validates the boundaries so a buggy caller cannot widen its
// entitlement.
func (c *Context) PushSubtreeRange(root, end int) (Range, error) {
	if root < c.start || end > c.ceiling || root > end {
		return Range{}, fmt.Errorf("subtree [%d, %d), active range [%d, %d): %w",
			root, end, c.start, c.ceiling, ErrPointerOutOfBounds)
	}
	token := Range{Start: end, End: c.ceiling}
	c.stack = append(c.stack, token)
	c.ceiling = root
	return token, nil
}

// PopSubtreeRange finishes the subtree whose push returned token,
// restoring the enclosing claim ceiling and advancing the range start
// past the pointee's end. The bytes the pointee claimed stay claimed:
// a later sibling pointer that resolves back into them fails
// [Context.CheckSubtreePos]. Tokens pop in exact reverse push order;
// popping any token other than the most recent one fails with
// [ErrOutOfOrderPop] and poisons nothing — the buffer is simply
// rejected.
func (c *Context) PopSubtreeRange(token Range) error {
	if len(c.stack) == 0 {
		return fmt.Errorf("pop of subtree token [%d, %d): %w", token.Start, token.End, ErrRangeUnderflow)
	}
	top := c.stack[len(c.stack)-1]
	if token != top {
		return fmt.Errorf("pop of subtree token [%d, %d), innermost is [%d, %d): %w",
			token.Start, token.End, top.Start, top.End, ErrOutOfOrderPop)
	}
	c.stack = c.stack[:len(c.stack)-1]
	c.start = token.Start
	c.ceiling = token.End
	return nil
}

// BoundsCheckSubtreeOffset resolves the candidate position base +
// offset, checks it against the active range under the given layout,
// and returns it. Layout derivation from untrusted metadata happens
// before this call (see [layout.Array] and [layout.Bytes]); a
// derivation failure is reported as that package's overflow error.
func (c *Context) BoundsCheckSubtreeOffset(base, offset int, l layout.Layout) (int, error) {
	pos := base + offset
	if err := c.CheckSubtreePos(pos, l); err != nil {
		return 0, err
	}
	return pos, nil
}

// PushPrefixSubtree claims a pointee of exactly l's size at root:
// [root, root+l.Size). The remaining unclaimed bytes below root are
// deferred to the pointee's own pointers, and the bytes above its end
// to the siblings that follow — the front-to-back, append-only
// placement of the format replayed during validation.
func (c *Context) PushPrefixSubtree(root int, l layout.Layout) (Range, error) {
	return c.PushSubtreeRange(root, root+l.Size)
}
