// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

// Package rel implements the relative pointer encoding at the heart
// of the archive format.
//
// A relative pointer stores the displacement from its own position in
// the buffer to its target, not an absolute address. Because every
// pointer is relative to itself, the entire buffer can be relocated,
// copied, or memory-mapped at any address and every pointer remains
// valid with no fix-up pass.
//
// Two record shapes exist, both little-endian:
//
//   - sized pointer: int32 displacement (4 bytes)
//   - unsized pointer: int32 displacement + uint32 metadata (8 bytes);
//     the metadata is the pointee's element count (string and byte-run
//     length for the built-in types)
//
// The displacement is always target position minus pointer position.
// Archive layout is append-only, so a pointee's position is known
// before its pointer record is written; Emplace functions compute the
// displacement at that moment and fail with [ErrOffsetOutOfRange]
// rather than truncating when it does not fit in 32 bits.
//
// This package is the only place in the module where pointer offset
// arithmetic happens. Everything above it works in terms of resolved
// positions.
package rel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/stele-foundation/stele/lib/layout"
)

// ErrOffsetOutOfRange is returned when a pointer's displacement does
// not fit the 32-bit signed offset field. This happens when a pointee
// is placed more than ~2GiB away from its pointer, i.e. the archive
// is too large for the format profile.
var ErrOffsetOutOfRange = errors.New("relative pointer offset out of range")

// Record sizes and layouts of the two pointer shapes.
const (
	PtrSize     = 4
	UnsizedSize = 8
)

var (
	// PtrLayout is the layout of a sized pointer record.
	PtrLayout = layout.Layout{Size: PtrSize, Align: 4}
	// UnsizedLayout is the layout of an unsized pointer record.
	UnsizedLayout = layout.Layout{Size: UnsizedSize, Align: 4}
)

// EmplacePtr writes a sized pointer record into record at byte offset
// off. recordPos is the buffer position the record will occupy once
// written; target is the buffer position of the pointee. The stored
// displacement is target − (recordPos + off).
func EmplacePtr(record []byte, off, recordPos, target int) error {
	displacement, err := displacement(recordPos+off, target)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(record[off:], uint32(displacement))
	return nil
}

// EmplaceUnsized writes an unsized pointer record into record at byte
// offset off, carrying the pointee's metadata (element count)
// alongside the displacement.
func EmplaceUnsized(record []byte, off, recordPos, target int, metadata uint32) error {
	if err := EmplacePtr(record, off, recordPos, target); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(record[off+PtrSize:], metadata)
	return nil
}

// ResolvePtr reads the sized pointer record at pos and returns the
// target position: pos plus the stored displacement.
//
// Resolution performs no bounds checking of its own; it must only be
// applied to positions a validation pass has already admitted, or to
// buffers produced by a trusted serializer.
func ResolvePtr(buf []byte, pos int) int {
	displacement := int32(binary.LittleEndian.Uint32(buf[pos:]))
	return pos + int(displacement)
}

// ResolveUnsized reads the unsized pointer record at pos and returns
// the target position and the pointee metadata.
func ResolveUnsized(buf []byte, pos int) (target int, metadata uint32) {
	return ResolvePtr(buf, pos), binary.LittleEndian.Uint32(buf[pos+PtrSize:])
}

// Metadata reads only the metadata field of the unsized pointer
// record at pos.
func Metadata(buf []byte, pos int) uint32 {
	return binary.LittleEndian.Uint32(buf[pos+PtrSize:])
}

func displacement(from, to int) (int32, error) {
	d := to - from
	if d < math.MinInt32 || d > math.MaxInt32 {
		return 0, fmt.Errorf("pointer at %d to target %d: %w", from, to, ErrOffsetOutOfRange)
	}
	return int32(d), nil
}
