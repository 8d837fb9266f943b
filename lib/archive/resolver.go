// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"github.com/stele-foundation/stele/lib/rel"
)

// BoxResolver records where a pointee was serialized, plus the
// metadata its pointer record carries (the element count for unsized
// pointees). It is produced by serializing the pointee and consumed
// exactly once to emplace the final pointer; it is never persisted.
type BoxResolver struct {
	pos      int
	metadata uint32
}

// ResolverAt returns a resolver for a pointee already serialized at
// pos. Most callers obtain resolvers from the Serialize* functions
// instead.
func ResolverAt(pos int, metadata uint32) BoxResolver {
	return BoxResolver{pos: pos, metadata: metadata}
}

// Pos returns the pointee's buffer position.
func (r BoxResolver) Pos() int { return r.pos }

// Metadata returns the pointee metadata carried by the resolver.
func (r BoxResolver) Metadata() uint32 { return r.metadata }

// EmplacePtr writes a sized pointer record at byte offset off of a
// record that will occupy recordPos.
func (r BoxResolver) EmplacePtr(record []byte, off, recordPos int) error {
	return rel.EmplacePtr(record, off, recordPos, r.pos)
}

// EmplaceUnsized writes an unsized pointer record — displacement plus
// the resolver's metadata — at byte offset off of a record that will
// occupy recordPos.
func (r BoxResolver) EmplaceUnsized(record []byte, off, recordPos int) error {
	return rel.EmplaceUnsized(record, off, recordPos, r.pos, r.metadata)
}
