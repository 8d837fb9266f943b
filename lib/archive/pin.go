// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"

	"github.com/stele-foundation/stele/lib/rel"
)

// Pin grants in-place mutation of a validated record without moving
// it. All access goes through the pin's offset methods; the record's
// pointer fields keep their displacements intact because the record
// never relocates. Offsets are relative to the record start and are
// bounds-checked against the record's own span, not the whole
// buffer: a pin cannot be used to reach sibling records.
type Pin struct {
	buf  []byte
	pos  int
	size int
}

// Pos returns the pinned record's position in the buffer.
func (p *Pin) Pos() int { return p.pos }

// Size returns the pinned record's size in bytes.
func (p *Pin) Size() int { return p.size }

func (p *Pin) span(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > p.size {
		return nil, fmt.Errorf("offset %d length %d outside pinned record of %d bytes", off, n, p.size)
	}
	return p.buf[p.pos+off : p.pos+off+n], nil
}

// U16 reads the 16-bit field at off.
func (p *Pin) U16(off int) (uint16, error) {
	b, err := p.span(off, 2)
	if err != nil {
		return 0, err
	}
	return U16(b, 0), nil
}

// U32 reads the 32-bit field at off.
func (p *Pin) U32(off int) (uint32, error) {
	b, err := p.span(off, 4)
	if err != nil {
		return 0, err
	}
	return U32(b, 0), nil
}

// U64 reads the 64-bit field at off.
func (p *Pin) U64(off int) (uint64, error) {
	b, err := p.span(off, 8)
	if err != nil {
		return 0, err
	}
	return U64(b, 0), nil
}

// SetU16 overwrites the 16-bit field at off.
func (p *Pin) SetU16(off int, v uint16) error {
	b, err := p.span(off, 2)
	if err != nil {
		return err
	}
	PutU16(b, 0, v)
	return nil
}

// SetU32 overwrites the 32-bit field at off.
func (p *Pin) SetU32(off int, v uint32) error {
	b, err := p.span(off, 4)
	if err != nil {
		return err
	}
	PutU32(b, 0, v)
	return nil
}

// SetU64 overwrites the 64-bit field at off.
func (p *Pin) SetU64(off int, v uint64) error {
	b, err := p.span(off, 8)
	if err != nil {
		return err
	}
	PutU64(b, 0, v)
	return nil
}

// Deref returns the target position of the sized pointer field at
// off. Pointer fields themselves may not be overwritten through a
// pin; rewriting a displacement would silently retarget the graph.
func (p *Pin) Deref(off int) (int, error) {
	if _, err := p.span(off, rel.PtrSize); err != nil {
		return 0, err
	}
	return rel.ResolvePtr(p.buf, p.pos+off), nil
}
