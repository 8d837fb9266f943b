// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

// Package ser provides the write-time half of the archive format: an
// append-only [Writer], a stack-discipline scratch [Allocator], a
// [Sharing] registry for multiply-referenced values, and the
// [Serializer] that composes one of each into the single context
// threaded through an encode pass.
//
// The three capabilities are deliberately narrow so they can be swapped
// independently:
//
//   - Writer: where archive bytes go. [Buffer] grows; [BufferWriter]
//     is fixed-capacity and fails with [ErrWriterFull] instead of
//     growing, for environments that cannot allocate.
//   - Allocator: transient scratch memory for assembling records whose
//     pointer fields depend on their final write position.
//     Acquisitions release in strict LIFO order; callers pair every
//     PushAlloc with a deferred PopAlloc so scratch unwinds on every
//     exit path, including failed serializations.
//   - Sharing: maps a value's identity to the buffer position where it
//     was first serialized. [Dedup] serializes shared sub-graphs once;
//     [Duplicate] skips the registry and re-serializes every
//     reference.
//
// [NewSerializer] is the general-purpose configuration (growable
// buffer, heap scratch, dedup). [NewCoreSerializer] is the
// allocation-free configuration (fixed buffers, duplicate sharing)
// that reports capacity exhaustion instead of growing.
package ser
