// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Checksum is a 32-byte BLAKE3 digest of the uncompressed payload.
type Checksum [32]byte

// String returns the checksum as lowercase hex.
func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// payloadDomainKey is the BLAKE3 keyed-hash domain for frame payload
// checksums. A fixed constant — changing it invalidates every
// existing frame. ASCII encoding of the domain name, zero-padded to
// 32 bytes, so the key is readable in hex dumps.
var payloadDomainKey = [32]byte{
	's', 't', 'e', 'l', 'e', '.', 'f', 'r', 'a', 'm', 'e', '.',
	'p', 'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// checksumPayload computes the payload-domain keyed hash of the
// uncompressed payload bytes.
func checksumPayload(payload []byte) Checksum {
	// NewKeyed requires exactly 32 bytes, which payloadDomainKey
	// guarantees, so the error path is unreachable.
	hasher, err := blake3.NewKeyed(payloadDomainKey[:])
	if err != nil {
		panic("frame: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(payload)

	var digest Checksum
	copy(digest[:], hasher.Sum(nil))
	return digest
}
