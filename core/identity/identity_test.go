/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrivateKey = bytes.Repeat([]byte{0x11}, 32)

func testSigner(t *testing.T) *crypto.ECDSASigner {
	s, err := crypto.NewECDSASigner(testPrivateKey)
	require.NoError(t, err)
	return s
}

func assetLockTx(t *testing.T, outputs ...*wire.TxOut) []byte {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 3}, []byte{0x51}, nil))
	for _, o := range outputs {
		tx.AddTxOut(o)
	}
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return buf.Bytes()
}

func opReturn(t *testing.T, data []byte) []byte {
	script, err := txscript.NewScriptBuilder().AddOp(txscript.OP_RETURN).AddData(data).Script()
	require.NoError(t, err)
	return script
}

func TestKeyTypeDataLength(t *testing.T) {
	assert.Equal(t, 33, KeyTypeECDSASecp256k1.DataLength())
	assert.Equal(t, 48, KeyTypeBLS12381.DataLength())
	assert.Equal(t, 20, KeyTypeECDSAHash160.DataLength())
	assert.Equal(t, 20, KeyTypeBIP13ScriptHash.DataLength())
	assert.False(t, KeyType(4).IsValid())
	assert.True(t, SecurityLevelMaster.Satisfies(SecurityLevelHigh))
	assert.False(t, SecurityLevelMedium.Satisfies(SecurityLevelHigh))
}

func TestPublicKeyValidateData(t *testing.T) {
	signer := testSigner(t)

	k := PublicKey{Type: KeyTypeECDSASecp256k1, Data: signer.PublicKey()}
	require.NoError(t, k.ValidateData())

	k.Data = append([]byte{0x05}, k.Data[1:]...)
	require.Error(t, k.ValidateData())

	k = PublicKey{Type: KeyTypeBLS12381, Data: make([]byte, 47)}
	require.EqualError(t, k.ValidateData(), "BLS12_381 key data must be 48 bytes long, got 47")

	k = PublicKey{Type: KeyType(9)}
	require.Error(t, k.ValidateData())
}

func TestVerifySignature(t *testing.T) {
	signer := testSigner(t)
	data := []byte("signable bytes")
	sig, err := Sign(testPrivateKey, data)
	require.NoError(t, err)
	assert.Len(t, sig, 65)

	full := &PublicKey{ID: 1, Type: KeyTypeECDSASecp256k1, Data: signer.PublicKey()}
	require.NoError(t, VerifySignature(full, data, sig))
	require.Error(t, VerifySignature(full, []byte("other bytes"), sig))

	hashed := &PublicKey{ID: 2, Type: KeyTypeECDSAHash160, Data: signer.PublicKeyHash()}
	require.NoError(t, VerifySignature(hashed, data, sig))
	require.NoError(t, VerifyHash160Signature(signer.PublicKeyHash(), data, sig))

	bls := &PublicKey{ID: 3, Type: KeyTypeBLS12381, Data: make([]byte, 48)}
	err = VerifySignature(bls, data, sig)
	assert.ErrorIs(t, err, ErrKeyTypeCannotSign)
}

func TestPublicKeyObjectRoundTrip(t *testing.T) {
	at := uint64(42)
	k := PublicKey{
		ID:            4,
		Purpose:       PurposeEncryption,
		SecurityLevel: SecurityLevelHigh,
		Type:          KeyTypeECDSAHash160,
		ReadOnly:      true,
		Data:          bytes.Repeat([]byte{7}, 20),
		DisabledAt:    &at,
	}
	back, err := PublicKeyFromObject(k.ToObject())
	require.NoError(t, err)
	assert.Equal(t, k, back)

	hash, err := back.Hash()
	require.NoError(t, err)
	assert.Equal(t, k.Data, hash)
}

func TestIdentitySerializeRoundTrip(t *testing.T) {
	pv := version.Latest()
	i := &Identity{
		ID: identifier.Identifier{3},
		PublicKeys: map[KeyID]PublicKey{
			0: {ID: 0, Type: KeyTypeECDSASecp256k1, Data: testSigner(t).PublicKey()},
			2: {ID: 2, Type: KeyTypeECDSAHash160, SecurityLevel: SecurityLevelHigh, Data: make([]byte, 20)},
		},
		Balance:  1000,
		Revision: 1,
	}
	b, err := Serialize(i, pv)
	require.NoError(t, err)
	back, err := Deserialize(b, pv)
	require.NoError(t, err)
	assert.Equal(t, i, back)

	maxID, ok := back.MaxPublicKeyID()
	require.True(t, ok)
	assert.Equal(t, KeyID(2), maxID)

	partial := back.Partial(2, 5)
	assert.Contains(t, partial.LoadedPublicKeys, KeyID(2))
	assert.Equal(t, []KeyID{5}, partial.NotFoundPublicKeys)
	assert.Equal(t, uint64(1000), *partial.Balance)
}

func TestOutPoint(t *testing.T) {
	var txid chainhash.Hash
	for i := range txid {
		txid[i] = byte(i)
	}
	o := NewOutPoint(txid, 258)
	assert.Equal(t, byte(31), o[0])
	assert.Equal(t, byte(0), o[31])
	assert.Equal(t, []byte{2, 1, 0, 0}, o[32:])
	assert.Equal(t, uint32(258), o.OutputIndex())
}

func TestValidateAssetLockTransaction(t *testing.T) {
	hash := testSigner(t).PublicKeyHash()

	t.Run("valid", func(t *testing.T) {
		raw := assetLockTx(t, wire.NewTxOut(1, []byte{0x51}), wire.NewTxOut(90000, opReturn(t, hash)))
		result := ValidateAssetLockTransaction(raw, 1)
		require.True(t, result.IsValid())
		out := result.Data()
		assert.Equal(t, hash, out.PublicKeyHash)
		assert.Equal(t, uint64(90000000), out.Credits())
		assert.Equal(t, NewOutPoint(chainhash.DoubleHashH(raw), 1), out.OutPoint)
	})

	t.Run("garbage", func(t *testing.T) {
		result := ValidateAssetLockTransaction([]byte{1, 2}, 0)
		require.IsType(t, &consensus.InvalidIdentityAssetLockTransactionError{}, result.FirstError())
	})

	t.Run("missing output", func(t *testing.T) {
		raw := assetLockTx(t, wire.NewTxOut(90000, opReturn(t, hash)))
		result := ValidateAssetLockTransaction(raw, 1)
		require.Equal(t, &consensus.IdentityAssetLockTransactionOutputNotFoundError{OutputIndex: 1}, result.FirstError())
	})

	t.Run("not op return", func(t *testing.T) {
		raw := assetLockTx(t, wire.NewTxOut(90000, []byte{0x51}))
		result := ValidateAssetLockTransaction(raw, 0)
		require.Equal(t, &consensus.InvalidIdentityAssetLockTransactionOutputError{OutputIndex: 0}, result.FirstError())
	})

	t.Run("wrong payload size", func(t *testing.T) {
		raw := assetLockTx(t, wire.NewTxOut(90000, opReturn(t, hash[:19])))
		result := ValidateAssetLockTransaction(raw, 0)
		require.Equal(t, &consensus.InvalidAssetLockTransactionOutputReturnSizeError{OutputIndex: 0}, result.FirstError())
	})
}

func TestAssetLockProofs(t *testing.T) {
	raw := assetLockTx(t, wire.NewTxOut(90000, opReturn(t, make([]byte, 20))))
	instant := &InstantAssetLockProof{InstantLock: []byte{1}, Transaction: raw, OutputIndex: 0}
	chain := &ChainAssetLockProof{CoreChainLockedHeight: 42, OutPointBytes: instant.OutPoint()}

	assert.Equal(t, CreateIdentifier(instant), CreateIdentifier(chain))
	o := instant.OutPoint()
	assert.Equal(t, crypto.DoubleSHA256(o[:]), CreateIdentifier(instant).Bytes())

	for _, p := range []AssetLockProof{instant, chain} {
		back, err := AssetLockProofFromObject(p.ToObject())
		require.NoError(t, err)
		assert.Equal(t, p, back)

		e := serialization.NewEncoder(serialization.Config{})
		EncodeAssetLockProof(e, p)
		require.NoError(t, e.Err())
		d := serialization.NewDecoder(e.Bytes(), serialization.Config{})
		decoded := DecodeAssetLockProof(d)
		require.NoError(t, d.Err())
		assert.Equal(t, p, decoded)
	}

	d := serialization.NewDecoder([]byte{7}, serialization.Config{})
	assert.Nil(t, DecodeAssetLockProof(d))
	require.Error(t, d.Err())
}
