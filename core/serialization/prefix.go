/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package serialization

import (
	"encoding/binary"
	"math"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
)

// PutVersionPrefix writes the leading feature or protocol version of a
// serialized object.
func PutVersionPrefix(e *Encoder, version uint32) {
	e.WriteU32(version)
}

// ReadVersionPrefix reads the leading version without interpreting it so
// that unknown versions can be rejected by the caller.
func ReadVersionPrefix(b []byte) (version uint32, rest []byte, err error) {
	d := NewDecoder(b, Config{})
	version = d.ReadU32()
	if d.Err() != nil {
		return 0, nil, d.Err()
	}
	return version, b[d.Offset():], nil
}

// PutUvarint prepends an unsigned LEB128 varint to payload.
func PutUvarint(v uint64, payload []byte) []byte {
	buf := make([]byte, binary.MaxVarintLen64, binary.MaxVarintLen64+len(payload))
	n := binary.PutUvarint(buf, v)
	return append(buf[:n], payload...)
}

// Uvarint reads a LEB128 varint prefix and returns the value and the rest.
func Uvarint(b []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(b)
	if n <= 0 {
		return 0, nil, &commonerrors.DecodingError{Reason: "invalid varint prefix"}
	}
	return v, b[n:], nil
}

// Uvarint32 reads a LEB128 prefix, saturating values above MaxUint32.
func Uvarint32(b []byte) (uint32, []byte, error) {
	v, rest, err := Uvarint(b)
	if err != nil {
		return 0, nil, err
	}
	if v > math.MaxUint32 {
		return math.MaxUint32, rest, nil
	}
	return uint32(v), rest, nil
}
