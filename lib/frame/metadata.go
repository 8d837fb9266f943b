// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. The same metadata always
// produces identical frame bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
// Unknown fields are ignored for forward compatibility.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("frame: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// When the decode target is any, pick map[string]any over
		// the CBOR default map[interface{}]interface{} so metadata
		// interoperates with ordinary Go code.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("frame: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalMetadata encodes v with Core Deterministic Encoding.
func MarshalMetadata(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// UnmarshalMetadata decodes frame metadata into v.
func UnmarshalMetadata(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// RawMetadata is a raw encoded CBOR value, for callers that pass
// metadata through without decoding it.
type RawMetadata = cbor.RawMessage
