// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import "encoding/binary"

// Fixed-width integer accessors for archived records. All multi-byte
// values in the format are little-endian; these helpers are the only
// spelling of that fact callers need.

// U16 reads a little-endian uint16 at pos.
func U16(buf []byte, pos int) uint16 { return binary.LittleEndian.Uint16(buf[pos:]) }

// U32 reads a little-endian uint32 at pos.
func U32(buf []byte, pos int) uint32 { return binary.LittleEndian.Uint32(buf[pos:]) }

// U64 reads a little-endian uint64 at pos.
func U64(buf []byte, pos int) uint64 { return binary.LittleEndian.Uint64(buf[pos:]) }

// I32 reads a little-endian int32 at pos.
func I32(buf []byte, pos int) int32 { return int32(binary.LittleEndian.Uint32(buf[pos:])) }

// I64 reads a little-endian int64 at pos.
func I64(buf []byte, pos int) int64 { return int64(binary.LittleEndian.Uint64(buf[pos:])) }

// PutU16 writes a little-endian uint16 at offset off of record.
func PutU16(record []byte, off int, v uint16) { binary.LittleEndian.PutUint16(record[off:], v) }

// PutU32 writes a little-endian uint32 at offset off of record.
func PutU32(record []byte, off int, v uint32) { binary.LittleEndian.PutUint32(record[off:], v) }

// PutU64 writes a little-endian uint64 at offset off of record.
func PutU64(record []byte, off int, v uint64) { binary.LittleEndian.PutUint64(record[off:], v) }

// PutI32 writes a little-endian int32 at offset off of record.
func PutI32(record []byte, off int, v int32) { binary.LittleEndian.PutUint32(record[off:], uint32(v)) }

// PutI64 writes a little-endian int64 at offset off of record.
func PutI64(record []byte, off int, v int64) { binary.LittleEndian.PutUint64(record[off:], uint64(v)) }
