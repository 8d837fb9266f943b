// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag identifies the payload compression algorithm. Tags
// are stored in the frame header (1 byte). These values are format
// constants — changing them breaks frame compatibility.
type CompressionTag uint8

const (
	// CompressionNone stores the payload verbatim. Also the
	// fallback when a requested algorithm cannot shrink the
	// payload.
	CompressionNone CompressionTag = 0

	// CompressionLZ4 is LZ4 block compression. Fast default for
	// binary archive data.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd is zstd at its default level. Better ratios
	// for text-heavy payloads at higher CPU cost.
	CompressionZstd CompressionTag = 2
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// ParseCompressionTag parses a compression tag from its string
// representation.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// errIncompressible reports that compressed output would not be
// smaller than the input. Pack falls back to CompressionNone.
var errIncompressible = errors.New("payload is incompressible")

// zstdEncoder and zstdDecoder are reused across calls. Both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("frame: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("frame: zstd decoder initialization failed: " + err.Error())
	}
}

// compress applies tag to data. For CompressionNone the input is
// returned unchanged, no copy.
func compress(data []byte, tag CompressionTag) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return data, nil

	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		destination := make([]byte, bound)
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		// CompressBlock returns 0 when the data is incompressible.
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return destination[:written], nil

	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return nil, errIncompressible
		}
		return compressed, nil

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", uint8(tag))
	}
}

// decompress reverses compress. uncompressedSize must match the
// original payload length exactly; a mismatch is corruption.
func decompress(stored []byte, tag CompressionTag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(stored) != uncompressedSize {
			return nil, fmt.Errorf("uncompressed payload: size %d does not match expected %d",
				len(stored), uncompressedSize)
		}
		return stored, nil

	case CompressionLZ4:
		destination := make([]byte, uncompressedSize)
		read, err := lz4.UncompressBlock(stored, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != uncompressedSize {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
		}
		return destination, nil

	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(stored, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != uncompressedSize {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), uncompressedSize)
		}
		return result, nil

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", uint8(tag))
	}
}
