/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

// ToCBORBuffer writes protocolVersion as an unsigned LEB128 varint followed
// by the DAG-CBOR encoding of the cleaned object without $version.
func (c *V0) ToCBORBuffer(protocolVersion uint32) ([]byte, error) {
	obj, err := c.ToCleanedObject()
	if err != nil {
		return nil, err
	}
	obj.Remove(PropertySystemVersion)
	payload, err := obj.ToCBOR()
	if err != nil {
		return nil, err
	}
	return serialization.PutUvarint(uint64(protocolVersion), payload), nil
}

// FromCBORBuffer reads a buffer written by ToCBORBuffer. A protocol version
// prefix above MaxUint32 saturates.
func FromCBORBuffer(b []byte, pv *version.PlatformVersion) (DataContract, uint32, error) {
	protocolVersion, payload, err := serialization.Uvarint32(b)
	if err != nil {
		return nil, 0, err
	}
	raw, err := value.FromCBOR(payload)
	if err != nil {
		return nil, 0, err
	}
	if err := raw.ReplaceAtPaths(IdentifierFields, value.ReplaceWithIdentifier); err != nil {
		return nil, 0, err
	}
	c, err := FromRawObject(raw, pv)
	if err != nil {
		return nil, 0, err
	}
	return c, protocolVersion, nil
}
