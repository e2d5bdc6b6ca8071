/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statetransition

import (
	"bytes"
	"testing"

	"github.com/dashpay/platform-drive/common/crypto"
	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrivateKey = bytes.Repeat([]byte{0x22}, 32)

func testID(seed string) identifier.Identifier {
	return identifier.MustFromBytes(crypto.SHA256([]byte(seed)))
}

func testContract(t *testing.T) *datacontract.CreatedDataContract {
	f, err := datacontract.NewFactory(version.LatestProtocolVersion, nil)
	require.NoError(t, err)
	f.EntropyGenerator = func() ([]byte, error) { return crypto.SHA256([]byte("entropy")), nil }
	note, err := value.FromJSON([]byte(`{"type": "object", "properties": {"text": {"type": "string", "maxLength": 63}}, "additionalProperties": false}`))
	require.NoError(t, err)
	created, err := f.Create(testID("owner"), map[string]value.Value{"note": note}, nil, nil)
	require.NoError(t, err)
	return created
}

func testDocumentsBatch(contractID identifier.Identifier) *DocumentsBatchTransitionV0 {
	owner := testID("owner")
	createdAt := uint64(1700000000000)
	var entropy [32]byte
	entropy[0] = 9
	return &DocumentsBatchTransitionV0{
		Owner: owner,
		Transitions: DocumentTransitions{
			&DocumentCreateTransition{
				DocumentBaseTransition: DocumentBaseTransition{ID: testID("doc1"), DocumentType: "note", DataContractID: contractID},
				Entropy:                entropy,
				CreatedAt:              &createdAt,
				UpdatedAt:              &createdAt,
				Data:                   map[string]value.Value{"text": value.NewText("hello")},
			},
			&DocumentReplaceTransition{
				DocumentBaseTransition: DocumentBaseTransition{ID: testID("doc2"), DocumentType: "note", DataContractID: contractID},
				Revision:               2,
				Data:                   map[string]value.Value{"text": value.NewText("bye")},
			},
			&DocumentDeleteTransition{
				DocumentBaseTransition: DocumentBaseTransition{ID: testID("doc3"), DocumentType: "note", DataContractID: contractID},
			},
		},
		SignatureKeyID: 1,
		SignatureBytes: bytes.Repeat([]byte{1}, 65),
	}
}

func testAssetLockProof() *identity.ChainAssetLockProof {
	var o identity.OutPoint
	o[0] = 7
	return &identity.ChainAssetLockProof{CoreChainLockedHeight: 42, OutPointBytes: o}
}

func testKey(t *testing.T, id identity.KeyID) IdentityPublicKeyInCreation {
	signer, err := crypto.NewECDSASigner(testPrivateKey)
	require.NoError(t, err)
	return IdentityPublicKeyInCreation{
		ID:            id,
		Type:          identity.KeyTypeECDSASecp256k1,
		Purpose:       identity.PurposeAuthentication,
		SecurityLevel: identity.SecurityLevelMaster,
		Data:          signer.PublicKey(),
		Signature:     bytes.Repeat([]byte{3}, 65),
	}
}

func allTransitions(t *testing.T) []StateTransition {
	created := testContract(t)
	create, err := NewDataContractCreateTransition(created)
	require.NoError(t, err)
	create.SignatureBytes = bytes.Repeat([]byte{5}, 65)
	update, err := NewDataContractUpdateTransition(created.DataContract)
	require.NoError(t, err)
	update.SignatureKeyID = 2
	update.SignatureBytes = bytes.Repeat([]byte{6}, 65)
	disabledAt := uint64(1700000000000)

	return []StateTransition{
		create,
		update,
		testDocumentsBatch(created.DataContract.ID()),
		&IdentityCreateTransitionV0{
			PublicKeys:     []IdentityPublicKeyInCreation{testKey(t, 0), testKey(t, 1)},
			AssetLockProof: testAssetLockProof(),
			SignatureBytes: bytes.Repeat([]byte{7}, 65),
		},
		&IdentityTopUpTransitionV0{
			AssetLockProof: &identity.InstantAssetLockProof{InstantLock: []byte{1, 2}, Transaction: []byte{3, 4}, OutputIndex: 1},
			IdentityID:     testID("identity"),
			SignatureBytes: bytes.Repeat([]byte{8}, 65),
		},
		&IdentityCreditWithdrawalTransitionV0{
			IdentityID:     testID("identity"),
			Amount:         5000,
			CoreFeePerByte: 1,
			OutputScript:   bytes.Repeat([]byte{0x76}, 25),
			Revision:       1,
			SignatureKeyID: 3,
			SignatureBytes: bytes.Repeat([]byte{9}, 65),
		},
		&IdentityUpdateTransitionV0{
			IdentityID:           testID("identity"),
			Revision:             2,
			AddPublicKeys:        []IdentityPublicKeyInCreation{testKey(t, 4)},
			DisablePublicKeys:    []identity.KeyID{1},
			PublicKeysDisabledAt: &disabledAt,
			SignatureKeyID:       0,
			SignatureBytes:       bytes.Repeat([]byte{10}, 65),
		},
		&IdentityCreditTransferTransitionV0{
			IdentityID:     testID("identity"),
			RecipientID:    testID("recipient"),
			Amount:         100,
			SignatureKeyID: 0,
			SignatureBytes: bytes.Repeat([]byte{11}, 65),
		},
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "DocumentsBatch", TypeDocumentsBatch.String())
	assert.Equal(t, "IdentityCreditTransfer", TypeIdentityCreditTransfer.String())
	assert.Equal(t, "Type(9)", Type(9).String())
}

func TestSerializeRoundTrip(t *testing.T) {
	pv := version.Latest()
	for _, st := range allTransitions(t) {
		t.Run(st.Type().String(), func(t *testing.T) {
			b, err := Serialize(st)
			require.NoError(t, err)

			back, err := Deserialize(b, pv)
			require.NoError(t, err)
			assert.Equal(t, st.Type(), back.Type())
			assert.Equal(t, st.OwnerID(), back.OwnerID())
			assert.Equal(t, st.Signature(), back.Signature())
			assert.Equal(t, st.ModifiedDataIDs(), back.ModifiedDataIDs())

			again, err := Serialize(back)
			require.NoError(t, err)
			assert.Equal(t, b, again)
		})
	}
}

func TestSignableBytesLeaveSignaturesOut(t *testing.T) {
	for _, st := range allTransitions(t) {
		t.Run(st.Type().String(), func(t *testing.T) {
			signable, err := st.SignableBytes()
			require.NoError(t, err)
			full, err := Serialize(st)
			require.NoError(t, err)
			assert.Less(t, len(signable), len(full))

			st.SetSignature(bytes.Repeat([]byte{0xff}, 65))
			if s, ok := st.(IdentitySigned); ok {
				s.SetSignaturePublicKeyID(99)
			}
			again, err := st.SignableBytes()
			require.NoError(t, err)
			assert.Equal(t, signable, again)

			h1, err := st.Hash(true)
			require.NoError(t, err)
			assert.Equal(t, crypto.DoubleSHA256(signable), h1)
			h2, err := st.Hash(false)
			require.NoError(t, err)
			assert.NotEqual(t, h1, h2)
		})
	}
}

func TestKeySignaturesAreNotSignable(t *testing.T) {
	st := allTransitions(t)[3].(*IdentityCreateTransitionV0)
	before, err := st.SignableBytes()
	require.NoError(t, err)
	require.NoError(t, st.SignPublicKeys(map[identity.KeyID][]byte{0: testPrivateKey, 1: testPrivateKey}))
	after, err := st.SignableBytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	key := st.PublicKeys[0].PublicKey()
	require.NoError(t, identity.VerifySignature(&key, after, st.PublicKeys[0].Signature))

	require.Error(t, st.SignPublicKeys(map[identity.KeyID][]byte{0: testPrivateKey}))
}

func TestSignByPrivateKey(t *testing.T) {
	st := allTransitions(t)[7].(*IdentityCreditTransferTransitionV0)
	require.NoError(t, SignByPrivateKey(st, 5, testPrivateKey))
	assert.Equal(t, identity.KeyID(5), st.SignaturePublicKeyID())

	signer, err := crypto.NewECDSASigner(testPrivateKey)
	require.NoError(t, err)
	data, err := st.SignableBytes()
	require.NoError(t, err)
	key := &identity.PublicKey{Type: identity.KeyTypeECDSASecp256k1, Data: signer.PublicKey()}
	require.NoError(t, identity.VerifySignature(key, data, st.Signature()))
}

func TestObjectRoundTrip(t *testing.T) {
	pv := version.Latest()
	for _, st := range allTransitions(t) {
		t.Run(st.Type().String(), func(t *testing.T) {
			obj, err := st.ToObject(false)
			require.NoError(t, err)
			back, err := FromRawObject(obj, pv)
			require.NoError(t, err)

			want, err := Serialize(st)
			require.NoError(t, err)
			got, err := Serialize(back)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	pv := version.Latest()
	all := allTransitions(t)
	for _, st := range []StateTransition{all[2], all[7]} {
		t.Run(st.Type().String(), func(t *testing.T) {
			raw, err := st.ToJSON(false)
			require.NoError(t, err)
			obj, err := value.FromJSON(raw)
			require.NoError(t, err)
			back, err := FromRawObject(obj, pv)
			require.NoError(t, err)

			want, err := Serialize(st)
			require.NoError(t, err)
			got, err := Serialize(back)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestToCleanedObject(t *testing.T) {
	st := &IdentityUpdateTransitionV0{IdentityID: testID("identity"), Revision: 1}
	obj, err := st.ToCleanedObject(true)
	require.NoError(t, err)
	assert.False(t, obj.Has(PropertyAddPublicKeys))
	assert.False(t, obj.Has(PropertyDisablePublicKeys))
	assert.False(t, obj.Has(PropertySignature))
	assert.True(t, obj.Has(PropertyIdentityID))

	batch := &DocumentsBatchTransitionV0{Owner: testID("owner")}
	obj, err = batch.ToCleanedObject(true)
	require.NoError(t, err)
	assert.True(t, obj.Has(PropertyTransitions))
}

func TestFromRawObjectType(t *testing.T) {
	pv := version.Latest()

	_, err := FromRawObject(value.EmptyMap(), pv)
	var invalid *InvalidStateTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.IsType(t, &consensus.MissingStateTransitionTypeError{}, invalid.Errors[0])

	raw := value.NewMap(map[string]value.Value{PropertyType: value.NewU8(8)})
	_, err = FromRawObject(raw, pv)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, &consensus.InvalidStateTransitionTypeError{TransitionType: 8}, invalid.Errors[0])

	raw = value.NewMap(map[string]value.Value{
		PropertyType:    value.NewU8(uint8(TypeIdentityCreditTransfer)),
		PropertyVersion: value.NewU16(3),
	})
	_, err = FromRawObject(raw, pv)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, &consensus.UnsupportedVersionError{ReceivedVersion: 3}, invalid.Errors[0])
}

func TestDeserializeErrors(t *testing.T) {
	pv := version.Latest()
	good, err := Serialize(allTransitions(t)[7])
	require.NoError(t, err)

	t.Run("unknown variant", func(t *testing.T) {
		b := append([]byte{9}, good[1:]...)
		_, err := Deserialize(b, pv)
		var de *commonerrors.PlatformDeserializationError
		require.ErrorAs(t, err, &de)
	})

	t.Run("unknown feature version", func(t *testing.T) {
		b := append([]byte{good[0], 4}, good[2:]...)
		_, err := Deserialize(b, pv)
		var unsupported *UnsupportedFeatureVersionError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, version.FeatureVersion(4), unsupported.Version)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Deserialize(good[:len(good)-1], pv)
		var de *commonerrors.PlatformDeserializationError
		require.ErrorAs(t, err, &de)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := Deserialize(append(append([]byte(nil), good...), 0), pv)
		var de *commonerrors.PlatformDeserializationError
		require.ErrorAs(t, err, &de)
	})
}

func TestSerializeSizeLimit(t *testing.T) {
	st := &IdentityTopUpTransitionV0{
		AssetLockProof: &identity.InstantAssetLockProof{InstantLock: []byte{1}, Transaction: make([]byte, MaxSize), OutputIndex: 0},
		IdentityID:     testID("identity"),
	}
	_, err := Serialize(st)
	var tooBig *commonerrors.MaxEncodedBytesReachedError
	require.ErrorAs(t, err, &tooBig)
	assert.Equal(t, uint64(MaxSize), tooBig.MaxSizeBytes)
}

func TestDocumentTransitionFromObjectErrors(t *testing.T) {
	_, err := DocumentTransitionFromObject(value.NewText("x"))
	require.Error(t, err)

	obj := testDocumentsBatch(testID("contract")).Transitions[0].ToObject()
	require.NoError(t, obj.Set(PropertyAction, value.NewU8(2)))
	_, err = DocumentTransitionFromObject(obj)
	require.EqualError(t, err, "unknown document transition action 2")

	obj = testDocumentsBatch(testID("contract")).Transitions[0].ToObject()
	require.NoError(t, obj.Set(PropertyEntropyDoc, value.NewBytes([]byte{1})))
	_, err = DocumentTransitionFromObject(obj)
	require.EqualError(t, err, "document transition $entropy must be 32 bytes long, got 1")
}
