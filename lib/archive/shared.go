// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"github.com/stele-foundation/stele/lib/layout"
	"github.com/stele-foundation/stele/lib/rel"
	"github.com/stele-foundation/stele/lib/ser"
	"github.com/stele-foundation/stele/lib/validate"
)

// typeTag identifies a built-in archived type in the shared-pointee
// registry. Two shared pointers may target the same position only
// when they agree on the tag.
type typeTag string

const (
	sharedBytesTag  typeTag = "bytes"
	sharedStringTag typeTag = "string"
)

// SerializeBytesShared writes a byte run at most once per key. The
// first call for a key serializes the run and records its position
// with the serializer's sharing strategy; later calls with the same
// key reuse the recorded position. Key equality is Go equality on
// the comparable key the caller chooses, typically a pointer
// identity.
func SerializeBytesShared(s *ser.Serializer, key any, data []byte) (BoxResolver, error) {
	if pos, ok := s.SharedPos(key); ok {
		return BoxResolver{pos: pos, metadata: uint32(len(data))}, nil
	}
	resolver, err := SerializeBytes(s, data)
	if err != nil {
		return BoxResolver{}, err
	}
	if err := s.AddShared(key, resolver.Pos()); err != nil {
		return BoxResolver{}, err
	}
	return resolver, nil
}

// SerializeStringShared writes a string's bytes at most once per key.
func SerializeStringShared(s *ser.Serializer, key any, v string) (BoxResolver, error) {
	return SerializeBytesShared(s, key, []byte(v))
}

// SerializeBoxShared serializes v as a boxed pointee at most once per
// key.
func SerializeBoxShared(s *ser.Serializer, key any, v Value) (BoxResolver, error) {
	if pos, ok := s.SharedPos(key); ok {
		return BoxResolver{pos: pos}, nil
	}
	resolver, err := SerializeBox(s, v)
	if err != nil {
		return BoxResolver{}, err
	}
	if err := s.AddShared(key, resolver.Pos()); err != nil {
		return BoxResolver{}, err
	}
	return resolver, nil
}

// SharedBytesType is the [Type] of a shared pointer to an archived
// byte run. The pointee is validated once; later pointers to the
// same position only check the registry.
type SharedBytesType struct{}

// RecordLayout returns the unsized pointer record layout.
func (SharedBytesType) RecordLayout() layout.Layout { return rel.UnsizedLayout }

// CheckArchived validates the byte run on first registration of its
// position and rejects tag conflicts on later ones.
func (SharedBytesType) CheckArchived(ctx *validate.Context, buf []byte, pos int) error {
	target, _ := rel.ResolveUnsized(buf, pos)
	first, err := ctx.RegisterShared(target, sharedBytesTag)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	return BytesType{}.CheckArchived(ctx, buf, pos)
}

// Load materializes an owned copy of the byte run.
func (SharedBytesType) Load(buf []byte, pos int) ([]byte, error) {
	return BytesType{}.Load(buf, pos)
}

// SharedStringType is the [Type] of a shared pointer to an archived
// string.
type SharedStringType struct{}

// RecordLayout returns the unsized pointer record layout.
func (SharedStringType) RecordLayout() layout.Layout { return rel.UnsizedLayout }

// CheckArchived validates the string on first registration of its
// position and rejects tag conflicts on later ones.
func (SharedStringType) CheckArchived(ctx *validate.Context, buf []byte, pos int) error {
	target, _ := rel.ResolveUnsized(buf, pos)
	first, err := ctx.RegisterShared(target, sharedStringTag)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	return StringType{}.CheckArchived(ctx, buf, pos)
}

// Load materializes an owned string.
func (SharedStringType) Load(buf []byte, pos int) (string, error) {
	return StringType{}.Load(buf, pos)
}

// SharedBoxType is the [Type] of a shared pointer to a fixed-layout
// pointee. ID is the registry identity for the pointee type; two
// shared pointers to the same position with different IDs fail
// validation.
type SharedBoxType struct {
	Elem Type
	ID   any
}

// RecordLayout returns the sized pointer record layout.
func (b SharedBoxType) RecordLayout() layout.Layout { return rel.PtrLayout }

// CheckArchived validates the pointee on first registration of its
// position and rejects ID conflicts on later ones.
func (b SharedBoxType) CheckArchived(ctx *validate.Context, buf []byte, pos int) error {
	target := rel.ResolvePtr(buf, pos)
	first, err := ctx.RegisterShared(target, b.ID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}
	return BoxType{Elem: b.Elem}.CheckArchived(ctx, buf, pos)
}
