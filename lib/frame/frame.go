// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Frame format constants.
const (
	// frameVersion is baked into byte 5 of the magic. Version 1 is
	// the initial format.
	frameVersion = 1

	// headerSize is the fixed header: 8-byte magic + 4-byte root
	// record size + 2-byte flags + 1-byte compression tag + 1
	// reserved byte.
	headerSize = 16

	// payloadAlign is the alignment of the payload's first byte
	// within the frame. 16 covers every record alignment the
	// archive format produces.
	payloadAlign = 16

	// checksumSize is the trailing BLAKE3 digest.
	checksumSize = 32
)

// frameMagic is the 8-byte frame signature: "STELE" + version byte +
// two reserved bytes.
var frameMagic = [8]byte{'S', 'T', 'E', 'L', 'E', frameVersion, 0, 0}

// flagMetadata marks a frame carrying a CBOR metadata section.
const flagMetadata uint16 = 1 << 0

var (
	// ErrBadMagic is returned when the input does not start with the
	// frame signature.
	ErrBadMagic = errors.New("not a stele frame")

	// ErrUnsupportedVersion is returned when the signature matches
	// but the version byte is unknown.
	ErrUnsupportedVersion = errors.New("unsupported frame version")

	// ErrTruncated is returned when the input ends before a complete
	// section.
	ErrTruncated = errors.New("truncated frame")

	// ErrChecksumMismatch is returned when the payload digest does
	// not match the stored checksum.
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
)

// Header is the fixed-size frame header.
type Header struct {
	// Version is the format version from the magic.
	Version uint8

	// RootSize is the size in bytes of the archive's root record.
	// The frame carries it so tooling can locate the root without
	// knowing the archived type.
	RootSize int

	// Flags is the feature bitset. Unknown bits fail Unpack.
	Flags uint16

	// Compression is the payload compression algorithm.
	Compression CompressionTag
}

// Frame is a parsed frame.
type Frame struct {
	Header Header

	// Metadata is the raw CBOR metadata section, nil when the frame
	// carries none. Decode with [UnmarshalMetadata].
	Metadata RawMetadata

	// Payload is the uncompressed archive buffer. Nil when the
	// frame was parsed with [Inspect].
	Payload []byte

	// StoredSize is the payload's on-disk size after compression.
	StoredSize int

	// Checksum is the stored payload digest.
	Checksum Checksum
}

// Pack wraps an archive buffer in a frame. rootSize is the archive
// root record's size; tag selects payload compression, falling back
// to CompressionNone when the payload does not shrink. metadata may
// be nil; otherwise it is CBOR-encoded into the frame.
func Pack(payload []byte, rootSize int, tag CompressionTag, metadata any) ([]byte, error) {
	if rootSize < 0 || rootSize > len(payload) {
		return nil, fmt.Errorf("root record of %d bytes in payload of %d", rootSize, len(payload))
	}
	if len(payload) > math.MaxUint32 {
		return nil, fmt.Errorf("payload of %d bytes exceeds frame size field", len(payload))
	}

	var flags uint16
	var metadataBytes []byte
	if metadata != nil {
		encoded, err := MarshalMetadata(metadata)
		if err != nil {
			return nil, fmt.Errorf("encoding frame metadata: %w", err)
		}
		metadataBytes = encoded
		flags |= flagMetadata
	}

	stored, err := compress(payload, tag)
	if errors.Is(err, errIncompressible) {
		stored, tag = payload, CompressionNone
	} else if err != nil {
		return nil, fmt.Errorf("compressing payload: %w", err)
	}

	var out bytes.Buffer
	out.Write(frameMagic[:])

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(rootSize))
	out.Write(u32[:])

	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], flags)
	out.Write(u16[:])
	out.WriteByte(byte(tag))
	out.WriteByte(0)

	if flags&flagMetadata != 0 {
		binary.LittleEndian.PutUint32(u32[:], uint32(len(metadataBytes)))
		out.Write(u32[:])
		out.Write(metadataBytes)
	}

	binary.LittleEndian.PutUint32(u32[:], uint32(len(payload)))
	out.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], uint32(len(stored)))
	out.Write(u32[:])

	// Zero padding so the stored payload starts 16-byte aligned
	// within the frame.
	if pad := (payloadAlign - out.Len()%payloadAlign) % payloadAlign; pad > 0 {
		out.Write(make([]byte, pad))
	}
	out.Write(stored)

	digest := checksumPayload(payload)
	out.Write(digest[:])

	return out.Bytes(), nil
}

// Unpack parses a frame, decompresses the payload, and verifies its
// checksum. The returned payload is ready for archive validation;
// Unpack proves transport integrity, not structural validity.
func Unpack(framed []byte) (*Frame, error) {
	return parse(framed, true)
}

// Inspect parses a frame's header, metadata, and sizes without
// decompressing the payload or verifying its checksum. The returned
// Frame has a nil Payload.
func Inspect(framed []byte) (*Frame, error) {
	return parse(framed, false)
}

func parse(framed []byte, unpack bool) (*Frame, error) {
	if len(framed) < headerSize {
		return nil, fmt.Errorf("%d-byte input, header needs %d: %w", len(framed), headerSize, ErrTruncated)
	}
	if !bytes.Equal(framed[:5], frameMagic[:5]) {
		return nil, ErrBadMagic
	}
	version := framed[5]
	if version != frameVersion {
		return nil, fmt.Errorf("version %d: %w", version, ErrUnsupportedVersion)
	}

	f := &Frame{
		Header: Header{
			Version:     version,
			RootSize:    int(binary.LittleEndian.Uint32(framed[8:])),
			Flags:       binary.LittleEndian.Uint16(framed[12:]),
			Compression: CompressionTag(framed[14]),
		},
	}
	if unknown := f.Header.Flags &^ flagMetadata; unknown != 0 {
		return nil, fmt.Errorf("unknown frame flags %#04x: %w", unknown, ErrUnsupportedVersion)
	}

	off := headerSize
	if f.Header.Flags&flagMetadata != 0 {
		if len(framed) < off+4 {
			return nil, fmt.Errorf("metadata length at %d: %w", off, ErrTruncated)
		}
		n := int(binary.LittleEndian.Uint32(framed[off:]))
		off += 4
		if len(framed) < off+n {
			return nil, fmt.Errorf("%d-byte metadata at %d: %w", n, off, ErrTruncated)
		}
		f.Metadata = RawMetadata(framed[off : off+n])
		off += n
	}

	if len(framed) < off+8 {
		return nil, fmt.Errorf("size fields at %d: %w", off, ErrTruncated)
	}
	uncompressedSize := int(binary.LittleEndian.Uint32(framed[off:]))
	f.StoredSize = int(binary.LittleEndian.Uint32(framed[off+4:]))
	off += 8

	off += (payloadAlign - off%payloadAlign) % payloadAlign
	if len(framed) < off+f.StoredSize+checksumSize {
		return nil, fmt.Errorf("%d-byte payload at %d plus checksum: %w", f.StoredSize, off, ErrTruncated)
	}
	stored := framed[off : off+f.StoredSize]
	copy(f.Checksum[:], framed[off+f.StoredSize:])

	if f.Header.RootSize > uncompressedSize {
		return nil, fmt.Errorf("root record of %d bytes in %d-byte payload: %w",
			f.Header.RootSize, uncompressedSize, ErrTruncated)
	}

	if !unpack {
		return f, nil
	}

	payload, err := decompress(stored, f.Header.Compression, uncompressedSize)
	if err != nil {
		return nil, err
	}
	digest := checksumPayload(payload)
	if digest != f.Checksum {
		return nil, fmt.Errorf("computed %s, stored %s: %w", digest, f.Checksum, ErrChecksumMismatch)
	}
	f.Payload = payload
	return f, nil
}
