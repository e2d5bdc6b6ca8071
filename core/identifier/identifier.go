/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package identifier implements the 32 byte identifiers of contracts,
// documents and identities.
package identifier

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Size is the length of an identifier in bytes.
const Size = 32

// Encoding selects a text representation of an identifier.
type Encoding int

const (
	Base58 Encoding = iota
	Base64
	Hex
)

// ErrInvalidLength is returned when the input does not decode to 32 bytes.
var ErrInvalidLength = errors.New("Identifier must be 32 bytes long")

// Identifier is an immutable 32 byte value compared by its raw bytes.
type Identifier [Size]byte

// Zero is the identifier of all zero bytes.
var Zero Identifier

// FromBytes copies b into an identifier.
func FromBytes(b []byte) (Identifier, error) {
	var id Identifier
	if len(b) != Size {
		return id, ErrInvalidLength
	}
	copy(id[:], b)
	return id, nil
}

// MustFromBytes is FromBytes that panics, for constants and fixtures.
func MustFromBytes(b []byte) Identifier {
	id, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return id
}

// FromString decodes s with the given encoding.
func FromString(s string, enc Encoding) (Identifier, error) {
	var (
		b   []byte
		err error
	)
	switch enc {
	case Base58:
		b, err = base58.Decode(s)
	case Base64:
		b, err = base64.StdEncoding.DecodeString(s)
	case Hex:
		b, err = hex.DecodeString(s)
	default:
		return Zero, errors.Errorf("unknown identifier encoding %d", enc)
	}
	if err != nil {
		return Zero, errors.Wrapf(err, "failed decoding identifier '%s'", s)
	}
	return FromBytes(b)
}

// MustFromBase58 decodes a base58 identifier and panics on failure.
func MustFromBase58(s string) Identifier {
	id, err := FromString(s, Base58)
	if err != nil {
		panic(err)
	}
	return id
}

// Random reads a new identifier from rng.
func Random(rng io.Reader) (Identifier, error) {
	var id Identifier
	if _, err := io.ReadFull(rng, id[:]); err != nil {
		return Zero, errors.Wrap(err, "failed reading random identifier")
	}
	return id, nil
}

func (id Identifier) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// String returns the base58 form.
func (id Identifier) String() string {
	return base58.Encode(id[:])
}

// Encode returns the identifier in the requested encoding.
func (id Identifier) Encode(enc Encoding) string {
	switch enc {
	case Base64:
		return base64.StdEncoding.EncodeToString(id[:])
	case Hex:
		return hex.EncodeToString(id[:])
	default:
		return id.String()
	}
}

func (id Identifier) IsZero() bool {
	return id == Zero
}

// Compare orders identifiers by raw bytes.
func (id Identifier) Compare(other Identifier) int {
	return bytes.Compare(id[:], other[:])
}

func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *Identifier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "identifier must be a base58 string")
	}
	parsed, err := FromString(s, Base58)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
