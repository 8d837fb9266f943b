// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/stele-foundation/stele/lib/layout"
	"github.com/stele-foundation/stele/lib/rel"
	"github.com/stele-foundation/stele/lib/ser"
	"github.com/stele-foundation/stele/lib/validate"
)

// ErrInvalidUTF8 is returned when an archived string's bytes are not
// valid UTF-8. The pointer itself was in bounds; the pointee's
// content violates the string contract.
var ErrInvalidUTF8 = errors.New("archived string is not valid UTF-8")

// SerializeBytes writes a byte run to the archive and returns the
// resolver for the owning pointer. Byte runs have no alignment
// requirement; the pointee starts at the current write position.
func SerializeBytes(s *ser.Serializer, data []byte) (BoxResolver, error) {
	if len(data) > math.MaxUint32 {
		return BoxResolver{}, fmt.Errorf("byte run of %d bytes exceeds pointer metadata range: %w",
			len(data), layout.ErrOverflow)
	}
	pos := s.Pos()
	if err := s.Write(data); err != nil {
		return BoxResolver{}, err
	}
	return BoxResolver{pos: pos, metadata: uint32(len(data))}, nil
}

// SerializeString writes a string's bytes to the archive and returns
// the resolver for the owning pointer.
func SerializeString(s *ser.Serializer, v string) (BoxResolver, error) {
	return SerializeBytes(s, []byte(v))
}

// SerializeBox serializes v as a boxed pointee — pointees first, then
// v's own record — and returns the resolver for the owning sized
// pointer.
func SerializeBox(s *ser.Serializer, v Value) (BoxResolver, error) {
	resolver, err := v.Serialize(s)
	if err != nil {
		return BoxResolver{}, err
	}
	pos, err := SerializeRecord(s, v.RecordLayout(), resolver.Resolve)
	if err != nil {
		return BoxResolver{}, err
	}
	return BoxResolver{pos: pos}, nil
}

// Bytes is a view of an archived byte run through its owning pointer
// record. Produce one only for validated buffers or buffers from a
// trusted serializer.
type Bytes struct {
	buf []byte
	pos int
}

// BytesAt returns the byte-run view for the pointer record at pos.
func BytesAt(buf []byte, pos int) Bytes {
	return Bytes{buf: buf, pos: pos}
}

// Len returns the run's length in bytes.
func (b Bytes) Len() int { return int(rel.Metadata(b.buf, b.pos)) }

// Bytes returns the run's content. The slice aliases the archive
// buffer; it is valid as long as the buffer is and must not be
// written through.
func (b Bytes) Bytes() []byte {
	target, n := rel.ResolveUnsized(b.buf, b.pos)
	return b.buf[target : target+int(n)]
}

// String is a view of an archived string through its owning pointer
// record.
type String struct {
	buf []byte
	pos int
}

// StringAt returns the string view for the pointer record at pos.
func StringAt(buf []byte, pos int) String {
	return String{buf: buf, pos: pos}
}

// Len returns the string's length in bytes.
func (s String) Len() int { return int(rel.Metadata(s.buf, s.pos)) }

// Str returns the string's content. The returned string copies no
// bytes on conversion in the common read path; treat it as borrowed
// from the buffer.
func (s String) Str() string {
	target, n := rel.ResolveUnsized(s.buf, s.pos)
	return string(s.buf[target : target+int(n)])
}

// Box is a view of an owning box over a fixed-layout pointee.
type Box struct {
	buf []byte
	pos int
}

// BoxAt returns the box view for the sized pointer record at pos.
func BoxAt(buf []byte, pos int) Box {
	return Box{buf: buf, pos: pos}
}

// Elem returns the position of the boxed record.
func (b Box) Elem() int { return rel.ResolvePtr(b.buf, b.pos) }

// BytesType is the [Type] of an archived byte run's owning pointer.
type BytesType struct{}

// RecordLayout returns the unsized pointer record layout.
func (BytesType) RecordLayout() layout.Layout { return rel.UnsizedLayout }

// CheckArchived claims the byte run the pointer targets.
func (BytesType) CheckArchived(ctx *validate.Context, buf []byte, pos int) error {
	target, n := rel.ResolveUnsized(buf, pos)
	l, err := layout.Bytes(int(n))
	if err != nil {
		return err
	}
	if err := ctx.CheckSubtreePos(target, l); err != nil {
		return err
	}
	token, err := ctx.PushPrefixSubtree(target, l)
	if err != nil {
		return err
	}
	// A byte run has no interior pointers; claiming the range is the
	// whole check.
	return ctx.PopSubtreeRange(token)
}

// Load materializes an owned copy of the byte run.
func (BytesType) Load(buf []byte, pos int) ([]byte, error) {
	return append([]byte(nil), BytesAt(buf, pos).Bytes()...), nil
}

// StringType is the [Type] of an archived string's owning pointer.
type StringType struct{}

// RecordLayout returns the unsized pointer record layout.
func (StringType) RecordLayout() layout.Layout { return rel.UnsizedLayout }

// CheckArchived claims the string's bytes and verifies they are
// valid UTF-8.
func (StringType) CheckArchived(ctx *validate.Context, buf []byte, pos int) error {
	target, n := rel.ResolveUnsized(buf, pos)
	l, err := layout.Bytes(int(n))
	if err != nil {
		return err
	}
	if err := ctx.CheckSubtreePos(target, l); err != nil {
		return err
	}
	token, err := ctx.PushPrefixSubtree(target, l)
	if err != nil {
		return err
	}
	if !utf8.Valid(buf[target : target+l.Size]) {
		return fmt.Errorf("string of %d bytes at position %d: %w", l.Size, target, ErrInvalidUTF8)
	}
	return ctx.PopSubtreeRange(token)
}

// Load materializes an owned string.
func (StringType) Load(buf []byte, pos int) (string, error) {
	return StringAt(buf, pos).Str(), nil
}

// BoxType is the [Type] of an owning box over a fixed-layout pointee.
type BoxType struct {
	// Elem is the boxed record's type.
	Elem Type
}

// RecordLayout returns the sized pointer record layout.
func (b BoxType) RecordLayout() layout.Layout { return rel.PtrLayout }

// CheckArchived claims the boxed record and validates it recursively.
func (b BoxType) CheckArchived(ctx *validate.Context, buf []byte, pos int) error {
	target := rel.ResolvePtr(buf, pos)
	el := b.Elem.RecordLayout()
	if err := ctx.CheckSubtreePos(target, el); err != nil {
		return err
	}
	token, err := ctx.PushPrefixSubtree(target, el)
	if err != nil {
		return err
	}
	if err := b.Elem.CheckArchived(ctx, buf, target); err != nil {
		return err
	}
	return ctx.PopSubtreeRange(token)
}
