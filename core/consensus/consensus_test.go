/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package consensus

import (
	"testing"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = identifier.MustFromBase58("4fJLR2GYTPFdomuTVvNy3VRrvWgvkKPzqehEBpNf2nk6")

func TestMessages(t *testing.T) {
	tests := []struct {
		err      Error
		expected string
	}{
		{
			err:      &IdentityInsufficientBalanceError{IdentityID: testID, Balance: 42},
			expected: "Insufficient identity 4fJLR2GYTPFdomuTVvNy3VRrvWgvkKPzqehEBpNf2nk6 balance 42",
		},
		{
			err:      &DuplicateUniqueIndexError{DocumentID: testID, DuplicatingProperties: []string{"$ownerId", "label"}},
			expected: `Document 4fJLR2GYTPFdomuTVvNy3VRrvWgvkKPzqehEBpNf2nk6 has duplicate unique properties ["$ownerId", "label"] with other documents`,
		},
		{
			err:      &DataContractAlreadyPresentError{DataContractID: testID},
			expected: "Data Contract 4fJLR2GYTPFdomuTVvNy3VRrvWgvkKPzqehEBpNf2nk6 is already present",
		},
		{
			err:      &UnsupportedVersionError{ReceivedVersion: 3, MinVersion: 0, MaxVersion: 0},
			expected: "Unsupported version 3 is not in range 0..=0",
		},
		{
			err:      &DataContractMaxDepthExceedError{MaxDepth: 500},
			expected: "JSON Schema depth is greater than 500",
		},
		{
			err:      &DataTriggerConditionError{Message: "Percentage can not be more than 10000"},
			expected: "Percentage can not be more than 10000",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.err.Error())
	}
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, ClassBasic, ClassOf((&JSONSchemaError{}).Code()))
	assert.Equal(t, ClassSignature, ClassOf((&IdentityNotFoundError{}).Code()))
	assert.Equal(t, ClassFee, ClassOf((&BalanceIsNotEnoughError{}).Code()))
	assert.Equal(t, ClassState, ClassOf((&DuplicateUniqueIndexError{}).Code()))
	assert.Equal(t, ClassUnknown, ClassOf(5000))
	assert.Equal(t, "state", ClassState.String())
}

func TestRegistryCoversAllCodes(t *testing.T) {
	codes := Codes()
	require.NotEmpty(t, codes)
	for i := 1; i < len(codes); i++ {
		require.Less(t, codes[i-1], codes[i])
	}
	for _, code := range codes {
		err, ok := New(code)
		require.True(t, ok)
		require.Equal(t, code, err.Code())
		require.NotEqual(t, ClassUnknown, ClassOf(code), "code %d is outside of every range", code)
	}

	_, ok := New(9999)
	require.False(t, ok)
}

func TestSerializeRoundTrip(t *testing.T) {
	errs := []Error{
		&IdentityInsufficientBalanceError{IdentityID: testID, Balance: 1 << 40},
		&DuplicateUniqueIndexError{DocumentID: testID, DuplicatingProperties: []string{"a", "b"}},
		&JSONSchemaError{ErrorSummary: "missing", Keyword: "required", InstancePath: "/a", SchemaPath: "/required"},
		&DocumentTimestampWindowViolationError{TimestampName: "createdAt", DocumentID: testID, Timestamp: -5, TimeWindowStart: 1, TimeWindowEnd: 2},
		&InvalidSignaturePublicKeySecurityLevelError{PublicKeySecurityLevel: 3, RequiredSecurityLevels: []uint8{0, 1}},
		&MissingMasterPublicKeyError{},
		&InvalidDataContractIDError{ExpectedID: testID.Bytes(), InvalidID: []byte{1, 2}},
	}

	for _, e := range errs {
		b, err := Serialize(e)
		require.NoError(t, err)

		decoded, err := Deserialize(b)
		require.NoError(t, err)
		require.Equal(t, e, decoded)
	}
}

func TestSerializeZeroValuesOfEveryCode(t *testing.T) {
	for _, code := range Codes() {
		e, _ := New(code)
		b, err := Serialize(e)
		require.NoError(t, err, "code %d", code)

		decoded, err := Deserialize(b)
		require.NoError(t, err, "code %d", code)
		require.Equal(t, code, decoded.Code())
	}
}

func TestDeserializeErrors(t *testing.T) {
	_, err := Deserialize([]byte{})
	require.IsType(t, &commonerrors.PlatformDeserializationError{}, err)

	_, err = Deserialize([]byte{251, 0x27, 0x0f})
	require.EqualError(t, err, "platform deserialization error: unknown consensus error code 9999")

	b, err := Serialize(&InvalidIdentityKeySignatureError{PublicKeyID: 2})
	require.NoError(t, err)
	_, err = Deserialize(append(b, 0))
	require.EqualError(t, err, "platform deserialization error: 1 trailing bytes after consensus error 1058")

	_, err = Serialize(nil)
	require.Error(t, err)
}

func TestValidationResult(t *testing.T) {
	r := NewValidationResult[int]()
	require.True(t, r.IsValid())
	require.Nil(t, r.FirstError())
	require.False(t, r.HasData())

	_, err := r.IntoData()
	require.EqualError(t, err, "validation result has no data")

	r.SetData(7)
	v, err := r.IntoData()
	require.NoError(t, err)
	require.Equal(t, 7, v)

	first := &IdentityNotFoundError{IdentityID: testID}
	r.AddError(first)
	r.AddError(nil)
	require.False(t, r.IsValid())
	require.Equal(t, Error(first), r.FirstError())
	require.Equal(t, 7, r.Data())

	_, err = r.IntoData()
	require.ErrorContains(t, err, "validation result is invalid: [2000] Identity")

	other := NewSimpleValidationResult(&MissingMasterPublicKeyError{})
	r.Merge(other)
	require.Equal(t, []uint32{CodeIdentityNotFound, CodeMissingMasterPublicKey}, r.Codes())

	simple := r.Simple()
	require.Len(t, simple.Errors, 2)
	require.False(t, simple.HasData())

	withData := NewValidationResultWithData("x")
	require.True(t, withData.HasData())
	require.True(t, withData.IsValid())

	withErrors := NewValidationResultWithErrors[string](first, nil)
	require.Len(t, withErrors.Errors, 1)
}
