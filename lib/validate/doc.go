// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

// Package validate proves that an untrusted archive buffer is safe to
// interpret in place.
//
// A validation pass walks the archived value graph exactly as a reader
// would, but instead of producing values it checks, for every pointer
// dereference, that the target lies inside the byte range the current
// value is entitled to. The archive is append-only — pointees are
// written before the values that point at them, in field order — so
// entitlements form a window that narrows from both ends: descending
// into a pointee confines its own pointers to the unclaimed bytes
// serialized before it, and completing it restores the enclosing
// ceiling while advancing the window start past the pointee, so no
// two sibling pointers can claim the same bytes. Claims are tracked
// as a stack of subtree range tokens that must pop in exact reverse
// push order; a
// buffer whose pointer graph cannot be walked under that discipline
// is malformed or adversarial and is rejected.
//
// Values reachable through more than one pointer are handled by the
// shared-pointer registry on the same [Context]: the first pointer to
// reach a position validates the pointee, later pointers verify the
// position was previously admitted under the same type identity and
// skip the re-check. Re-registration under a different identity is a
// type-confusion condition and fails the pass.
//
// Validation never reads value bytes itself; it only compares integer
// positions against ranges, so no reference into a bad buffer ever
// escapes a failed pass. A pass that errors abandons its Context and
// the buffer is treated as entirely untrusted.
package validate
