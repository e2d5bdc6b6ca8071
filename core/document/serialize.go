/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"fmt"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/version"
)

// Serialize writes the serialization format version followed by the
// document fields.
func Serialize(d *Document, pv *version.PlatformVersion) ([]byte, error) {
	formatVersion := pv.DPP.Document.DocumentSerialization.DefaultCurrentVersion
	switch formatVersion {
	case 0:
		e := serialization.NewEncoder(serialization.Config{})
		serialization.PutVersionPrefix(e, uint32(formatVersion))
		e.Encode(*d)
		if e.Err() != nil {
			return nil, e.Err()
		}
		return e.Bytes(), nil
	default:
		return nil, &commonerrors.UnknownVersionMismatchError{
			Method:        "Document.Serialize",
			KnownVersions: []uint16{0},
			Received:      formatVersion,
		}
	}
}

// Deserialize reverses Serialize.
func Deserialize(b []byte, pv *version.PlatformVersion) (*Document, error) {
	formatVersion, rest, err := serialization.ReadVersionPrefix(b)
	if err != nil {
		return nil, &commonerrors.PlatformDeserializationError{Reason: fmt.Sprintf("document version prefix: %s", err)}
	}
	bounds := pv.DPP.Document.DocumentSerialization
	if formatVersion > 0xffff || !bounds.CheckVersion(uint16(formatVersion)) {
		return nil, &commonerrors.PlatformDeserializationError{
			Reason: fmt.Sprintf("document serialization version %d is not in range %d..=%d", formatVersion, bounds.MinVersion, bounds.MaxVersion),
		}
	}
	d := &Document{}
	if err := serialization.Unmarshal(rest, d, serialization.Config{}); err != nil {
		return nil, err
	}
	return d, nil
}
