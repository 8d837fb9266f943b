// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("compressible archive content "), 100)

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			compressed, err := compress(data, tag)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			if len(compressed) >= len(data) {
				t.Errorf("compressed %d bytes to %d, no reduction", len(data), len(compressed))
			}
			restored, err := decompress(compressed, tag, len(data))
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(restored, data) {
				t.Error("data does not round-trip")
			}
		})
	}
}

func TestCompressIncompressible(t *testing.T) {
	data := []byte{0x6b, 0xf1, 0x09, 0xd3, 0x9c, 0x4e, 0x22, 0x80}

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		if _, err := compress(data, tag); !errors.Is(err, errIncompressible) {
			t.Errorf("%v compress = %v, want errIncompressible", tag, err)
		}
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	data := bytes.Repeat([]byte("padding "), 50)
	compressed, err := compress(data, CompressionZstd)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if _, err := decompress(compressed, CompressionZstd, len(data)-1); err == nil {
		t.Error("size mismatch accepted")
	}
	if _, err := decompress(data, CompressionNone, len(data)+1); err == nil {
		t.Error("uncompressed size mismatch accepted")
	}
}

func TestCompressionTagStrings(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompressionTag(tag.String())
		if err != nil {
			t.Fatalf("ParseCompressionTag(%q): %v", tag.String(), err)
		}
		if parsed != tag {
			t.Errorf("ParseCompressionTag(%q) = %v", tag.String(), parsed)
		}
	}
	if _, err := ParseCompressionTag("gzip"); err == nil {
		t.Error("unknown tag accepted")
	}
}
