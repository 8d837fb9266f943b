// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package ser

import (
	"bytes"
	"errors"
	"testing"
)

func TestBufferAppendsAndReportsPosition(t *testing.T) {
	b := NewBuffer()
	if b.Pos() != 0 {
		t.Fatalf("fresh buffer Pos = %d, want 0", b.Pos())
	}
	if err := b.Write([]byte("abcd")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := b.Write([]byte("efg")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if b.Pos() != 7 {
		t.Errorf("Pos = %d, want 7", b.Pos())
	}
	if !bytes.Equal(b.Bytes(), []byte("abcdefg")) {
		t.Errorf("Bytes = %q, want %q", b.Bytes(), "abcdefg")
	}
}

func TestBufferWriterCapacityExhaustion(t *testing.T) {
	w := NewBufferWriter(make([]byte, 8))
	if err := w.Write([]byte("123456")); err != nil {
		t.Fatalf("Write within capacity failed: %v", err)
	}

	err := w.Write([]byte("789"))
	if !errors.Is(err, ErrWriterFull) {
		t.Fatalf("over-capacity write: err = %v, want ErrWriterFull", err)
	}

	// A failed write commits nothing.
	if w.Pos() != 6 {
		t.Errorf("Pos after failed write = %d, want 6", w.Pos())
	}
	if !bytes.Equal(w.Bytes(), []byte("123456")) {
		t.Errorf("Bytes after failed write = %q, want %q", w.Bytes(), "123456")
	}

	// Exactly filling the remaining capacity still succeeds.
	if err := w.Write([]byte("78")); err != nil {
		t.Errorf("exact-fit write failed: %v", err)
	}
}

func TestAlignPadsWithZeros(t *testing.T) {
	b := NewBuffer()
	if err := b.Write([]byte{0xff, 0xff, 0xff}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	pos, err := Align(b, 8)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if pos != 8 {
		t.Errorf("aligned pos = %d, want 8", pos)
	}
	if !bytes.Equal(b.Bytes()[3:], []byte{0, 0, 0, 0, 0}) {
		t.Errorf("padding bytes = %v, want zeros", b.Bytes()[3:])
	}

	// Already aligned: no padding written.
	pos, err = Align(b, 4)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	if pos != 8 || b.Pos() != 8 {
		t.Errorf("no-op align moved position to %d", b.Pos())
	}
}

func TestPadWritesExactCount(t *testing.T) {
	b := NewBuffer()
	if err := Pad(b, 40); err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	if b.Pos() != 40 {
		t.Errorf("Pos = %d, want 40", b.Pos())
	}
	for i, v := range b.Bytes() {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}
