// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"errors"
	"fmt"
)

// ErrSharedTypeConflict is returned when the same buffer position is
// registered under two different type identities. Two pointers
// interpreting the same bytes as different shapes is a crafted-buffer
// type-confusion condition, never a legitimate encoding.
var ErrSharedTypeConflict = errors.New("shared value registered under conflicting types")

// RegisterShared records that a shared pointee at pos is being
// validated as the type identified by typeID. It returns true exactly
// once per distinct position: the caller that receives true validates
// the pointee's bytes, every later caller receives false and skips
// the re-check.
//
// typeID is an opaque comparable identity chosen by the caller — the
// built-in archived types use package-level sentinels, and a dynamic
// extension can key by its own registry handles. Registering the same
// position under a different identity fails with
// [ErrSharedTypeConflict].
func (c *Context) RegisterShared(pos int, typeID any) (bool, error) {
	if existing, ok := c.shared[pos]; ok {
		if existing != typeID {
			return false, fmt.Errorf("position %d first seen as %v, now %v: %w",
				pos, existing, typeID, ErrSharedTypeConflict)
		}
		return false, nil
	}
	if c.shared == nil {
		c.shared = make(map[int]any)
	}
	c.shared[pos] = typeID
	return true, nil
}
