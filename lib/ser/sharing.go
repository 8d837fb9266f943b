// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package ser

import (
	"errors"
	"fmt"
)

// ErrSharedCollision is returned when a value identity is recorded
// twice in a sharing registry. A correct encode pass consults
// SharedPos before serializing, so a second AddShared for the same
// identity indicates the same value serialized twice.
var ErrSharedCollision = errors.New("shared value recorded twice")

// Sharing maps a value's identity to the buffer position where it was
// first serialized. When two pointers reference the same original
// value, the second consults the registry and emplaces a pointer to
// the recorded position instead of serializing a second copy; decode
// then observes the same identity-sharing the original value graph
// had.
//
// Identity keys must be comparable. Pointer values are the natural
// choice: two *T keys are equal exactly when they identify the same
// value.
type Sharing interface {
	// SharedPos returns the recorded position for key, if any.
	SharedPos(key any) (int, bool)

	// AddShared records that the value identified by key was
	// serialized at pos.
	AddShared(key any, pos int) error
}

// Dedup is the deduplicating Sharing strategy: every identity
// serializes once and all later references resolve to the first
// copy's position.
type Dedup struct {
	positions map[any]int
}

// NewDedup returns an empty deduplication registry.
func NewDedup() *Dedup {
	return &Dedup{positions: make(map[any]int)}
}

// SharedPos returns the position recorded for key.
func (d *Dedup) SharedPos(key any) (int, bool) {
	pos, ok := d.positions[key]
	return pos, ok
}

// AddShared records key's position, failing with [ErrSharedCollision]
// if key was already recorded.
func (d *Dedup) AddShared(key any, pos int) error {
	if prev, ok := d.positions[key]; ok {
		return fmt.Errorf("value %v already serialized at position %d: %w", key, prev, ErrSharedCollision)
	}
	d.positions[key] = pos
	return nil
}

// Duplicate is the always-duplicate Sharing strategy: no registry is
// kept, every reference to a shared value serializes its own copy.
// Encode stays allocation-free at the cost of losing identity sharing
// in the decoded view.
type Duplicate struct{}

// SharedPos never finds a recorded position.
func (Duplicate) SharedPos(any) (int, bool) { return 0, false }

// AddShared discards the record.
func (Duplicate) AddShared(any, int) error { return nil }
