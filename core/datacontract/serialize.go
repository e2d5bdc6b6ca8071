/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"fmt"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

// serializationFormatV0 is the stored layout of a contract.
type serializationFormatV0 struct {
	ID        identifier.Identifier
	Config    Config
	Schema    string
	Version   uint32
	OwnerID   identifier.Identifier
	Documents map[string]value.Value
	Defs      *map[string]value.Value
}

// Serialize writes the serialization format version followed by the
// contract fields in the platform binary format.
func Serialize(c DataContract, pv *version.PlatformVersion) ([]byte, error) {
	v0, err := AsV0(c)
	if err != nil {
		return nil, err
	}
	formatVersion := pv.DPP.Contract.ContractSerializationVersion.DefaultCurrentVersion
	switch formatVersion {
	case 0:
		format := serializationFormatV0{
			ID:        v0.id,
			Config:    v0.config,
			Schema:    v0.schema,
			Version:   v0.version,
			OwnerID:   v0.ownerID,
			Documents: v0.documents,
		}
		if v0.defs != nil {
			format.Defs = &v0.defs
		}
		e := serialization.NewEncoder(serialization.Config{})
		serialization.PutVersionPrefix(e, uint32(formatVersion))
		e.Encode(format)
		if e.Err() != nil {
			return nil, e.Err()
		}
		return e.Bytes(), nil
	default:
		return nil, &commonerrors.UnknownVersionMismatchError{
			Method:        "DataContract.Serialize",
			KnownVersions: []uint16{0},
			Received:      formatVersion,
		}
	}
}

// Deserialize reverses Serialize. The serialization format version must be
// within the bounds of the platform version.
func Deserialize(b []byte, pv *version.PlatformVersion) (DataContract, error) {
	formatVersion, rest, err := serialization.ReadVersionPrefix(b)
	if err != nil {
		return nil, &commonerrors.PlatformDeserializationError{Reason: fmt.Sprintf("data contract version prefix: %s", err)}
	}
	bounds := pv.DPP.Contract.ContractSerializationVersion
	if formatVersion > 0xffff || !bounds.CheckVersion(uint16(formatVersion)) {
		return nil, &commonerrors.PlatformDeserializationError{
			Reason: fmt.Sprintf("data contract serialization version %d is not in range %d..=%d", formatVersion, bounds.MinVersion, bounds.MaxVersion),
		}
	}

	var format serializationFormatV0
	if err := serialization.Unmarshal(rest, &format, serialization.Config{}); err != nil {
		return nil, err
	}
	var defs map[string]value.Value
	if format.Defs != nil {
		defs = *format.Defs
		if defs == nil {
			defs = map[string]value.Value{}
		}
	}
	c, err := NewV0(format.ID, format.OwnerID, format.Version, format.Schema, format.Config, format.Documents, defs)
	if err != nil {
		return nil, &commonerrors.PlatformDeserializationError{Reason: err.Error()}
	}
	return c, nil
}
