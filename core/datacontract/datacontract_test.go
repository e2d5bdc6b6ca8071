/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"testing"

	"github.com/dashpay/platform-drive/common/crypto"
	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCBORBuffer(t *testing.T) {
	c, protocolVersion, err := FromCBORBuffer(fixtureCBOR(t), latest(t))
	require.NoError(t, err)

	assert.Equal(t, uint32(1), protocolVersion)
	assert.Equal(t, uint32(1), c.Version())
	assert.Equal(t, SchemaURIV0, c.Schema())
	assert.Equal(t, mustIdentifier(t, []byte{
		150, 32, 136, 170, 56, 18, 187, 51, 134, 208, 201, 19, 14, 219, 222, 81, 228, 190,
		23, 187, 45, 16, 3, 29, 65, 71, 200, 89, 127, 172, 238, 37,
	}), c.OwnerID())
	assert.Equal(t, mustIdentifier(t, []byte{
		142, 254, 247, 51, 140, 13, 52, 178, 228, 8, 65, 27, 148, 115, 215, 36, 203, 249,
		182, 117, 202, 114, 179, 18, 111, 127, 142, 125, 235, 66, 174, 81,
	}), c.ID())
	assert.Equal(t, "AdCPPRx3XKvB4PHMXwe8VsggZS4WFrnB54Xg6drS29wW", c.ID().String())

	v0, err := AsV0(c)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"indexedDocument", "niceDocument", "noTimeDocument", "optionalUniqueIndexedDocument",
		"prettyDocument", "uniqueDates", "withByteArrays",
	}, v0.DocumentTypeNames())
	assert.Nil(t, c.Defs())
	assert.Equal(t, DefaultConfig(), c.Config())

	indexed, err := c.DocumentType("indexedDocument")
	require.NoError(t, err)
	assert.Len(t, indexed.Indices, 6)
	assert.Len(t, indexed.UniqueIndices(), 2)

	withBytes, err := c.DocumentType("withByteArrays")
	require.NoError(t, err)
	assert.Equal(t, FieldByteArray, withBytes.Properties["byteArrayField"].Type.Kind)
	assert.Equal(t, FieldIdentifier, withBytes.Properties["identifierField"].Type.Kind)
	assert.True(t, withBytes.Properties["byteArrayField"].Required)
	assert.Contains(t, v0.BinaryProperties("withByteArrays"), "identifierField")
}

func TestToCBORBufferIsDeterministic(t *testing.T) {
	original := fixtureCBOR(t)
	c, protocolVersion, err := FromCBORBuffer(original, latest(t))
	require.NoError(t, err)
	v0, err := AsV0(c)
	require.NoError(t, err)

	encoded, err := v0.ToCBORBuffer(protocolVersion)
	require.NoError(t, err)
	assert.Equal(t, original, encoded)
}

func TestFromCBORBufferSaturatesProtocolVersion(t *testing.T) {
	payload := fixtureCBOR(t)[1:]
	b := serialization.PutUvarint(^uint64(0), payload)

	_, protocolVersion, err := FromCBORBuffer(b, latest(t))
	require.NoError(t, err)
	assert.Equal(t, ^uint32(0), protocolVersion)
}

func TestFromCBORBufferRejectsGarbage(t *testing.T) {
	_, _, err := FromCBORBuffer([]byte{0x01, 0xff, 0x00}, latest(t))
	require.Error(t, err)
	assert.IsType(t, &commonerrors.DecodingError{}, err)

	_, _, err = FromCBORBuffer(nil, latest(t))
	require.Error(t, err)
}

func TestToObjectRoundTrip(t *testing.T) {
	c := profileContract(t)
	c.config.KeepsHistory = true

	obj, err := c.ToObject()
	require.NoError(t, err)
	assert.True(t, obj.Has(ConfigKeepsHistory))
	assert.False(t, obj.Has(ConfigReadonly))
	sysVersion, err := obj.GetU16(PropertySystemVersion)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), sysVersion)

	restored, err := FromRawObject(obj, latest(t))
	require.NoError(t, err)
	assert.Equal(t, c.ID(), restored.ID())
	assert.Equal(t, c.OwnerID(), restored.OwnerID())
	assert.Equal(t, c.Version(), restored.Version())
	assert.Equal(t, c.Config(), restored.Config())
	require.Len(t, restored.Documents(), 2)
	for name, schema := range c.Documents() {
		assert.True(t, schema.Equal(restored.Documents()[name]), name)
	}
	require.Len(t, restored.Defs(), 1)
	assert.True(t, c.Defs()["address"].Equal(restored.Defs()["address"]))
}

func TestDefsNilAndEmptyAreDistinct(t *testing.T) {
	pv := latest(t)
	id := mustIdentifier(t, crypto.SHA256([]byte("contract")))
	owner := mustIdentifier(t, crypto.SHA256([]byte("owner")))

	withoutDefs, err := NewV0(id, owner, 1, SchemaURIV0, DefaultConfig(), nil, nil)
	require.NoError(t, err)
	obj, err := withoutDefs.ToObject()
	require.NoError(t, err)
	defs, ok := obj.Get(PropertyDefinitions)
	require.True(t, ok)
	assert.True(t, defs.IsNull())

	cleaned, err := withoutDefs.ToCleanedObject()
	require.NoError(t, err)
	_, ok = cleaned.Get(PropertyDefinitions)
	assert.False(t, ok)

	withEmptyDefs, err := NewV0(id, owner, 1, SchemaURIV0, DefaultConfig(), nil, map[string]value.Value{})
	require.NoError(t, err)
	cleaned, err = withEmptyDefs.ToCleanedObject()
	require.NoError(t, err)
	defs, ok = cleaned.Get(PropertyDefinitions)
	require.True(t, ok)
	assert.True(t, defs.IsMap())
	assert.Equal(t, 0, defs.Len())

	restored, err := FromRawObject(cleaned, pv)
	require.NoError(t, err)
	assert.NotNil(t, restored.Defs())
}

func TestFromRawObjectUnknownStructure(t *testing.T) {
	pv := latest(t)
	pv.DPP.Contract.ContractStructure = 7

	c := profileContract(t)
	obj, err := c.ToObject()
	require.NoError(t, err)

	_, err = FromRawObject(obj, pv)
	require.Error(t, err)
	mismatch, ok := err.(*commonerrors.UnknownVersionMismatchError)
	require.True(t, ok)
	assert.Equal(t, "DataContract.FromRawObject", mismatch.Method)
	assert.Equal(t, uint16(7), mismatch.Received)
}

func TestFromRawObjectRequiresFields(t *testing.T) {
	obj := mustValue(t, `{"$schema": "x", "version": 1, "documents": {}}`)
	_, err := FromRawObject(obj, latest(t))
	require.Error(t, err)

	_, err = FromRawObject(value.NewText("contract"), latest(t))
	require.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	c := profileContract(t)
	data, err := c.ToJSON()
	require.NoError(t, err)

	restored, err := FromJSON(data, latest(t))
	require.NoError(t, err)
	assert.Equal(t, c.ID(), restored.ID())
	assert.Equal(t, c.OwnerID(), restored.OwnerID())
	assert.Equal(t, "5wpZAEWndYcTeuwZpkmSa8s49cHXU5q2DhdibesxFSu8", restored.ID().String())
}

func TestGenerateDataContractID(t *testing.T) {
	owner := mustIdentifier(t, crypto.SHA256([]byte("owner")))
	entropy := crypto.SHA256([]byte("entropy"))

	id := GenerateDataContractID(owner, entropy)
	assert.Equal(t, id, GenerateDataContractID(owner, entropy))
	assert.Equal(t, crypto.DoubleSHA256(owner.Bytes(), entropy), id.Bytes())
	assert.NotEqual(t, id, GenerateDataContractID(owner, crypto.SHA256([]byte("other"))))
}

func TestSetDocumentSchemaAndVersion(t *testing.T) {
	c := profileContract(t)
	clone := c.Clone()

	err := clone.SetDocumentSchema("contact", mustValue(t, `{
		"type": "object",
		"properties": {"alias": {"type": "string", "maxLength": 10}},
		"additionalProperties": false
	}`))
	require.NoError(t, err)
	clone.IncrementVersion()

	assert.True(t, clone.IsDocumentDefined("contact"))
	assert.False(t, c.IsDocumentDefined("contact"))
	assert.Equal(t, uint32(2), clone.Version())
	assert.Equal(t, uint32(1), c.Version())

	_, err = clone.DocumentType("missing")
	require.Error(t, err)

	err = clone.SetDocumentSchema("broken", value.NewText("nope"))
	require.Error(t, err)
	assert.False(t, clone.IsDocumentDefined("broken"))
}

func TestSerializeRoundTrip(t *testing.T) {
	pv := latest(t)
	c := profileContract(t)

	b, err := Serialize(c, pv)
	require.NoError(t, err)
	assert.Equal(t, byte(0), b[0])

	restored, err := Deserialize(b, pv)
	require.NoError(t, err)
	assert.Equal(t, c.ID(), restored.ID())
	assert.Equal(t, c.Config(), restored.Config())
	for name, schema := range c.Documents() {
		assert.True(t, schema.Equal(restored.Documents()[name]), name)
	}
	require.NotNil(t, restored.Defs())

	withoutDefs, err := NewV0(c.ID(), c.OwnerID(), 1, SchemaURIV0, DefaultConfig(), nil, nil)
	require.NoError(t, err)
	b, err = Serialize(withoutDefs, pv)
	require.NoError(t, err)
	restored, err = Deserialize(b, pv)
	require.NoError(t, err)
	assert.Nil(t, restored.Defs())
}

func TestDeserializeRejectsUnknownFormatVersion(t *testing.T) {
	pv := latest(t)
	b, err := Serialize(profileContract(t), pv)
	require.NoError(t, err)

	b[0] = 5
	_, err = Deserialize(b, pv)
	require.Error(t, err)
	assert.IsType(t, &commonerrors.PlatformDeserializationError{}, err)
	assert.Contains(t, err.Error(), "serialization version 5")

	_, err = Deserialize(append([]byte{0}, 0xff), pv)
	require.Error(t, err)
}

func TestConfigFromValue(t *testing.T) {
	cfg, err := ConfigFromValue(mustValue(t, `{"readonly": true, "documentsMutableContractDefault": false}`))
	require.NoError(t, err)
	assert.True(t, cfg.Readonly)
	assert.False(t, cfg.DocumentsMutableContractDefault)
	assert.False(t, cfg.CanBeDeleted)

	_, err = ConfigFromValue(mustValue(t, `{"readonly": "yes"}`))
	require.Error(t, err)
}
