// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"

	"github.com/stele-foundation/stele/lib/layout"
	"github.com/stele-foundation/stele/lib/ser"
	"github.com/stele-foundation/stele/lib/validate"
)

// ErrBufferTooSmall is returned when a buffer cannot hold a root
// record of the requested type.
var ErrBufferTooSmall = errors.New("buffer too small for root record")

// Type describes the archived form of one type: the fixed layout of
// its record and how to prove a record of it is valid. Implementations
// for the built-in shapes live in this package; per-type glue for user
// structs is written (or generated) against this same contract.
type Type interface {
	// RecordLayout returns the fixed layout of the archived record.
	RecordLayout() layout.Layout

	// CheckArchived validates the record at pos, descending through
	// its pointer fields. The record's own span has already been
	// admitted by the caller; the implementation claims and releases
	// subtree ranges for each pointee it follows.
	CheckArchived(ctx *validate.Context, buf []byte, pos int) error
}

// Value is a Go value that can be archived. Serialize writes the
// value's pointees through the serializer and returns a Resolver
// holding their positions; the resolver is consumed exactly once when
// the value's own record is assembled.
type Value interface {
	Type

	Serialize(s *ser.Serializer) (Resolver, error)
}

// Resolver finalizes a value's record once its position is fixed. It
// receives the zeroed record bytes and the buffer position the record
// will occupy, and emplaces every field — pointer fields through the
// [BoxResolver]s collected during Serialize.
type Resolver interface {
	Resolve(record []byte, recordPos int) error
}

// RootPos returns the position of the root record in a buffer of n
// bytes: the root occupies the final RecordLayout().Size bytes.
func RootPos(n int, t Type) (int, error) {
	size := t.RecordLayout().Size
	if n < size {
		return 0, fmt.Errorf("buffer of %d bytes, root record needs %d: %w", n, size, ErrBufferTooSmall)
	}
	return n - size, nil
}

// CheckPosWithContext validates a record of type t at pos using a
// caller-supplied context. The context's claim stack must be idle; it
// returns to idle on success and must be discarded on failure.
func CheckPosWithContext(ctx *validate.Context, buf []byte, pos int, t Type) error {
	l := t.RecordLayout()
	if _, err := ctx.BoundsCheckSubtreeOffset(0, pos, l); err != nil {
		return err
	}
	token, err := ctx.PushPrefixSubtree(pos, l)
	if err != nil {
		return err
	}
	if err := t.CheckArchived(ctx, buf, pos); err != nil {
		return err
	}
	return ctx.PopSubtreeRange(token)
}

// AccessPosWithContext validates the record of type t at pos and, on
// success, admits the buffer for in-place reads at that position.
func AccessPosWithContext(ctx *validate.Context, buf []byte, pos int, t Type) error {
	return CheckPosWithContext(ctx, buf, pos, t)
}

// AccessWithContext validates the root record of type t using a
// caller-supplied context and returns the root position.
func AccessWithContext(ctx *validate.Context, buf []byte, t Type) (int, error) {
	pos, err := RootPos(len(buf), t)
	if err != nil {
		return 0, err
	}
	if err := AccessPosWithContext(ctx, buf, pos, t); err != nil {
		return 0, err
	}
	return pos, nil
}

// AccessPos validates the record of type t at pos with a fresh
// context. On success the buffer is safe to read in place at pos
// through t's views.
func AccessPos(buf []byte, pos int, t Type) error {
	return AccessPosWithContext(validate.NewContext(buf), buf, pos, t)
}

// Access validates the root record of type t and returns its
// position. This is the standard entry point for untrusted buffers:
// no view into the buffer should be produced before Access succeeds.
func Access(buf []byte, t Type) (int, error) {
	return AccessWithContext(validate.NewContext(buf), buf, t)
}

// AccessMut validates the root record of type t and returns a [Pin]
// granting exclusive in-place mutation of the root record. The caller
// must hold the only mutable reference to buf for the Pin's lifetime.
func AccessMut(buf []byte, t Type) (*Pin, error) {
	pos, err := Access(buf, t)
	if err != nil {
		return nil, err
	}
	return &Pin{buf: buf, pos: pos, size: t.RecordLayout().Size}, nil
}

// Loader is a Type whose archived form can be fully materialized into
// an owned Go value, leaving no ties to the buffer.
type Loader[T any] interface {
	Type

	// Load materializes the validated record at pos. Load must only
	// be called on positions admitted by a validation pass.
	Load(buf []byte, pos int) (T, error)
}

// FromBytes validates the root record and materializes it into an
// owned value of type T. This is the validate-then-copy path for
// callers that want a plain Go value rather than in-place views.
func FromBytes[T any](buf []byte, t Loader[T]) (T, error) {
	pos, err := Access(buf, t)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.Load(buf, pos)
}

// SerializeRecord assembles a record of the given layout in scratch
// memory and appends it to the archive. fill receives the zeroed
// record bytes and the position the record will occupy; pointer
// displacements are computed against that position. The scratch
// allocation is released on every exit path.
func SerializeRecord(s *ser.Serializer, l layout.Layout, fill func(record []byte, recordPos int) error) (pos int, err error) {
	if _, err := s.Align(l.Alignment()); err != nil {
		return 0, err
	}
	pos = s.Pos()

	alloc, err := s.PushAlloc(l)
	if err != nil {
		return 0, err
	}
	defer func() {
		if popErr := s.PopAlloc(alloc); popErr != nil && err == nil {
			err = popErr
		}
	}()

	if err := fill(alloc.Bytes, pos); err != nil {
		return 0, err
	}
	if err := s.Write(alloc.Bytes); err != nil {
		return 0, err
	}
	return pos, nil
}

// ToBytesWith serializes a value graph through the given serializer
// and returns the finished archive bytes. The root record is written
// last so that it occupies the buffer's final bytes.
func ToBytesWith(s *ser.Serializer, v Value) ([]byte, error) {
	resolver, err := v.Serialize(s)
	if err != nil {
		return nil, err
	}
	if _, err := SerializeRecord(s, v.RecordLayout(), resolver.Resolve); err != nil {
		return nil, err
	}
	type byteser interface{ Bytes() []byte }
	w, ok := s.Writer().(byteser)
	if !ok {
		return nil, fmt.Errorf("serializer writer %T does not expose its bytes", s.Writer())
	}
	return w.Bytes(), nil
}

// ToBytes serializes a value graph with the general-purpose
// serializer configuration and returns the archive.
func ToBytes(v Value) ([]byte, error) {
	return ToBytesWith(ser.NewSerializer(), v)
}
