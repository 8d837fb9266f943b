// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive assembles the format's primitives into a usable
// surface: serializing value graphs into archive buffers and
// validating untrusted buffers before interpreting them in place.
//
// An archive is a single contiguous buffer written append-only. Every
// value's pointees are serialized before the value itself, pointer
// fields are encoded as self-relative displacements (see
// [github.com/stele-foundation/stele/lib/rel]), and the root record
// occupies the final bytes of the buffer. Reading never decodes: a
// validated buffer is interpreted directly through position-based
// views such as [String] and [Bytes].
//
// Encoding threads a [ser.Serializer] through the value graph. A
// value serializes its pointees first, collecting a [BoxResolver] per
// pointer field, then assembles its own record in scratch memory —
// pointer displacements depend on the record's final position, which
// is only known at write time — and appends it. [ToBytes] drives this
// for a whole graph and places the root record last.
//
// Decoding of untrusted bytes goes through [Access] and friends,
// which run a full validation pass (see
// [github.com/stele-foundation/stele/lib/validate]) before any view
// is produced. A buffer that fails validation yields no reference at
// all. [AccessMut] returns a [Pin], a non-relocatable handle for
// in-place mutation: archived values must never be moved or copied
// out independently of their buffer, because their internal pointers
// encode displacements from their own positions.
//
// Byte-level machine alignment is not a concern in this
// implementation: all reads go through explicit offsets into the
// byte slice, which Go performs correctly at any alignment. Position
// alignment within the buffer is still enforced during validation,
// because it is part of the wire contract shared with implementations
// that do reinterpret memory directly.
package archive
