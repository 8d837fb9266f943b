// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

// Package frame wraps raw archive buffers in an on-disk container:
// a fixed header, optional CBOR metadata, an optionally compressed
// payload, and a trailing BLAKE3 checksum of the uncompressed
// payload.
//
// The frame is strictly outside the archive byte contract. The
// archive core neither knows nor cares whether its buffer arrived
// framed; the frame layer's job is to get the exact payload bytes
// across storage or transport, prove they were not corrupted, and
// hand them over starting at a 16-byte-aligned position so every
// record alignment inside the payload holds.
//
// Unpacking verifies the checksum before returning the payload, but
// checksum integrity is not validity: callers still run archive
// validation before trusting the payload's structure.
package frame
