/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statetransition

import (
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

// Identity transition property names.
const (
	PropertyPublicKeys           = "publicKeys"
	PropertyAssetLockProof       = "assetLockProof"
	PropertyAddPublicKeys        = "addPublicKeys"
	PropertyDisablePublicKeys    = "disablePublicKeys"
	PropertyPublicKeysDisabledAt = "publicKeysDisabledAt"
	PropertyCoreFeePerByte       = "coreFeePerByte"
	PropertyPooling              = "pooling"
	PropertyOutputScript         = "outputScript"
	PropertyRecipientID          = "recipientId"
)

// Pooling is how a withdrawal is batched with others on the core chain.
type Pooling uint8

const (
	PoolingNever       Pooling = 0
	PoolingIfAvailable Pooling = 1
	PoolingStandard    Pooling = 2
)

var assetLockBinaryProperties = []string{
	PropertyAssetLockProof + ".transaction",
	PropertyAssetLockProof + ".instantLock",
	PropertyAssetLockProof + ".outPoint",
}

// IdentityPublicKeyInCreation is a key added to an identity. Signature
// proves possession of the private key and is made over the signable
// bytes of the enclosing transition.
type IdentityPublicKeyInCreation struct {
	ID            identity.KeyID
	Type          identity.KeyType
	Purpose       identity.Purpose
	SecurityLevel identity.SecurityLevel
	ReadOnly      bool
	Data          []byte
	Signature     []byte `platform:"sig"`
}

// PublicKey returns the key as it will be stored on the identity.
func (k *IdentityPublicKeyInCreation) PublicKey() identity.PublicKey {
	return identity.PublicKey{
		ID:            k.ID,
		Purpose:       k.Purpose,
		SecurityLevel: k.SecurityLevel,
		Type:          k.Type,
		ReadOnly:      k.ReadOnly,
		Data:          k.Data,
	}
}

func (k *IdentityPublicKeyInCreation) toObject(skipSignature bool) value.Value {
	pk := k.PublicKey()
	obj := pk.ToObject()
	if !skipSignature {
		_ = obj.Set(PropertySignature, value.NewBytes(k.Signature))
	}
	return obj
}

// NewPublicKeyInCreation wraps a key without a signature.
func NewPublicKeyInCreation(k identity.PublicKey) IdentityPublicKeyInCreation {
	return IdentityPublicKeyInCreation{
		ID:            k.ID,
		Type:          k.Type,
		Purpose:       k.Purpose,
		SecurityLevel: k.SecurityLevel,
		ReadOnly:      k.ReadOnly,
		Data:          k.Data,
	}
}

func publicKeysInCreationFromObject(items []value.Value) ([]IdentityPublicKeyInCreation, error) {
	keys := make([]IdentityPublicKeyInCreation, 0, len(items))
	for i, item := range items {
		k, err := identity.PublicKeyFromObject(item)
		if err != nil {
			return nil, errors.WithMessagef(err, "public key %d", i)
		}
		kc := NewPublicKeyInCreation(k)
		if item.Has(PropertySignature) {
			if kc.Signature, err = item.GetBytes(PropertySignature); err != nil {
				return nil, errors.WithMessagef(err, "public key %d", i)
			}
		}
		keys = append(keys, kc)
	}
	return keys, nil
}

func publicKeysToObject(keys []IdentityPublicKeyInCreation, skipSignature bool) value.Value {
	items := make([]value.Value, 0, len(keys))
	for i := range keys {
		items = append(items, keys[i].toObject(skipSignature))
	}
	return value.NewArray(items...)
}

// setPublicKeySignatures fills the key signatures of keys from the
// private keys matching their ids, over the transition signable bytes.
func setPublicKeySignatures(st StateTransition, keys []IdentityPublicKeyInCreation, privateKeys map[identity.KeyID][]byte) error {
	data, err := st.SignableBytes()
	if err != nil {
		return err
	}
	for i := range keys {
		priv, ok := privateKeys[keys[i].ID]
		if !ok {
			return errors.Errorf("no private key for public key %d", keys[i].ID)
		}
		if keys[i].Signature, err = identity.Sign(priv, data); err != nil {
			return err
		}
	}
	return nil
}

var (
	identityCreateSignatureProperties  = []string{PropertySignature, PropertyPublicKeys + "[].signature"}
	identityCreateIdentifierProperties = []string{}
	identityCreateBinaryProperties     = append([]string{
		PropertySignature,
		PropertyPublicKeys + "[].data",
		PropertyPublicKeys + "[].signature",
	}, assetLockBinaryProperties...)
)

// IdentityCreateTransitionV0 registers an identity funded by an asset
// lock. It is signed with the one-time key locked in the asset lock
// output.
type IdentityCreateTransitionV0 struct {
	PublicKeys     []IdentityPublicKeyInCreation
	AssetLockProof identity.AssetLockProof
	SignatureBytes []byte `platform:"sig"`
}

func (*IdentityCreateTransitionV0) isStateTransition()                     {}
func (*IdentityCreateTransitionV0) Type() Type                             { return TypeIdentityCreate }
func (*IdentityCreateTransitionV0) FeatureVersion() version.FeatureVersion { return 0 }
func (st *IdentityCreateTransitionV0) Signature() []byte                   { return st.SignatureBytes }
func (st *IdentityCreateTransitionV0) SetSignature(signature []byte)       { st.SignatureBytes = signature }

// IdentityID is derived from the asset lock outpoint.
func (st *IdentityCreateTransitionV0) IdentityID() identifier.Identifier {
	if st.AssetLockProof == nil {
		return identifier.Identifier{}
	}
	return identity.CreateIdentifier(st.AssetLockProof)
}

func (st *IdentityCreateTransitionV0) OwnerID() identifier.Identifier { return st.IdentityID() }
func (st *IdentityCreateTransitionV0) ModifiedDataIDs() []identifier.Identifier {
	return []identifier.Identifier{st.IdentityID()}
}

func (*IdentityCreateTransitionV0) SignatureProperties() []string {
	return identityCreateSignatureProperties
}
func (*IdentityCreateTransitionV0) IdentifierProperties() []string {
	return identityCreateIdentifierProperties
}
func (*IdentityCreateTransitionV0) BinaryProperties() []string { return identityCreateBinaryProperties }

// SignPublicKeys sets the proof of possession of every added key.
func (st *IdentityCreateTransitionV0) SignPublicKeys(privateKeys map[identity.KeyID][]byte) error {
	return setPublicKeySignatures(st, st.PublicKeys, privateKeys)
}

func (st IdentityCreateTransitionV0) EncodePlatform(e *serialization.Encoder) {
	e.Encode(st.PublicKeys)
	identity.EncodeAssetLockProof(e, st.AssetLockProof)
	if !e.Signable() {
		e.WriteBytes(st.SignatureBytes)
	}
}

func (st *IdentityCreateTransitionV0) DecodePlatform(d *serialization.Decoder) {
	d.Decode(&st.PublicKeys)
	st.AssetLockProof = identity.DecodeAssetLockProof(d)
	if !d.Signable() {
		st.SignatureBytes = d.ReadBytes()
	}
}

func (st *IdentityCreateTransitionV0) ToObject(skipSignature bool) (value.Value, error) {
	if st.AssetLockProof == nil {
		return value.Value{}, errors.New("identity create transition has no asset lock proof")
	}
	m := baseObject(st)
	m[PropertyPublicKeys] = publicKeysToObject(st.PublicKeys, skipSignature)
	m[PropertyAssetLockProof] = st.AssetLockProof.ToObject()
	putSignature(m, skipSignature, st.SignatureBytes)
	return value.NewMap(m), nil
}

func (st *IdentityCreateTransitionV0) SignableBytes() ([]byte, error) { return signableBytes(st) }
func (st *IdentityCreateTransitionV0) Hash(skipSignature bool) ([]byte, error) {
	return hash(st, skipSignature)
}
func (st *IdentityCreateTransitionV0) ToCleanedObject(skipSignature bool) (value.Value, error) {
	return toCleanedObject(st, skipSignature)
}
func (st *IdentityCreateTransitionV0) ToJSON(skipSignature bool) ([]byte, error) {
	return toJSON(st, skipSignature)
}

func identityCreateFromObject(obj value.Value) (*IdentityCreateTransitionV0, error) {
	st := &IdentityCreateTransitionV0{}
	items, err := obj.GetArray(PropertyPublicKeys)
	if err != nil {
		return nil, err
	}
	if st.PublicKeys, err = publicKeysInCreationFromObject(items); err != nil {
		return nil, err
	}
	proof, err := obj.GetMap(PropertyAssetLockProof)
	if err != nil {
		return nil, err
	}
	if st.AssetLockProof, err = identity.AssetLockProofFromObject(proof); err != nil {
		return nil, err
	}
	if st.SignatureBytes, _, err = readSignature(obj); err != nil {
		return nil, err
	}
	return st, nil
}

var (
	topUpSignatureProperties  = []string{PropertySignature}
	topUpIdentifierProperties = []string{PropertyIdentityID}
	topUpBinaryProperties     = append([]string{PropertySignature}, assetLockBinaryProperties...)
)

// IdentityTopUpTransitionV0 adds the credits of an asset lock to an
// existing identity.
type IdentityTopUpTransitionV0 struct {
	AssetLockProof identity.AssetLockProof
	IdentityID     identifier.Identifier
	SignatureBytes []byte `platform:"sig"`
}

func (*IdentityTopUpTransitionV0) isStateTransition()                     {}
func (*IdentityTopUpTransitionV0) Type() Type                             { return TypeIdentityTopUp }
func (*IdentityTopUpTransitionV0) FeatureVersion() version.FeatureVersion { return 0 }
func (st *IdentityTopUpTransitionV0) Signature() []byte                   { return st.SignatureBytes }
func (st *IdentityTopUpTransitionV0) SetSignature(signature []byte)       { st.SignatureBytes = signature }
func (st *IdentityTopUpTransitionV0) OwnerID() identifier.Identifier      { return st.IdentityID }
func (st *IdentityTopUpTransitionV0) ModifiedDataIDs() []identifier.Identifier {
	return []identifier.Identifier{st.IdentityID}
}

func (*IdentityTopUpTransitionV0) SignatureProperties() []string  { return topUpSignatureProperties }
func (*IdentityTopUpTransitionV0) IdentifierProperties() []string { return topUpIdentifierProperties }
func (*IdentityTopUpTransitionV0) BinaryProperties() []string     { return topUpBinaryProperties }

func (st IdentityTopUpTransitionV0) EncodePlatform(e *serialization.Encoder) {
	identity.EncodeAssetLockProof(e, st.AssetLockProof)
	e.Encode(st.IdentityID)
	if !e.Signable() {
		e.WriteBytes(st.SignatureBytes)
	}
}

func (st *IdentityTopUpTransitionV0) DecodePlatform(d *serialization.Decoder) {
	st.AssetLockProof = identity.DecodeAssetLockProof(d)
	d.Decode(&st.IdentityID)
	if !d.Signable() {
		st.SignatureBytes = d.ReadBytes()
	}
}

func (st *IdentityTopUpTransitionV0) ToObject(skipSignature bool) (value.Value, error) {
	if st.AssetLockProof == nil {
		return value.Value{}, errors.New("identity top up transition has no asset lock proof")
	}
	m := baseObject(st)
	m[PropertyAssetLockProof] = st.AssetLockProof.ToObject()
	m[PropertyIdentityID] = value.NewIdentifier(st.IdentityID)
	putSignature(m, skipSignature, st.SignatureBytes)
	return value.NewMap(m), nil
}

func (st *IdentityTopUpTransitionV0) SignableBytes() ([]byte, error) { return signableBytes(st) }
func (st *IdentityTopUpTransitionV0) Hash(skipSignature bool) ([]byte, error) {
	return hash(st, skipSignature)
}
func (st *IdentityTopUpTransitionV0) ToCleanedObject(skipSignature bool) (value.Value, error) {
	return toCleanedObject(st, skipSignature)
}
func (st *IdentityTopUpTransitionV0) ToJSON(skipSignature bool) ([]byte, error) {
	return toJSON(st, skipSignature)
}

func identityTopUpFromObject(obj value.Value) (*IdentityTopUpTransitionV0, error) {
	st := &IdentityTopUpTransitionV0{}
	proof, err := obj.GetMap(PropertyAssetLockProof)
	if err != nil {
		return nil, err
	}
	if st.AssetLockProof, err = identity.AssetLockProofFromObject(proof); err != nil {
		return nil, err
	}
	if st.IdentityID, err = obj.GetIdentifier(PropertyIdentityID); err != nil {
		return nil, err
	}
	if st.SignatureBytes, _, err = readSignature(obj); err != nil {
		return nil, err
	}
	return st, nil
}

var (
	withdrawalSignatureProperties  = []string{PropertySignature, PropertySignaturePublicKeyID}
	withdrawalIdentifierProperties = []string{PropertyIdentityID}
	withdrawalBinaryProperties     = []string{PropertySignature, PropertyOutputScript}
)

// IdentityCreditWithdrawalTransitionV0 withdraws credits of an identity to
// a core chain output script.
type IdentityCreditWithdrawalTransitionV0 struct {
	IdentityID     identifier.Identifier
	Amount         uint64
	CoreFeePerByte uint32
	Pooling        Pooling
	OutputScript   []byte
	Revision       uint64
	SignatureKeyID identity.KeyID `platform:"sig"`
	SignatureBytes []byte         `platform:"sig"`
}

func (*IdentityCreditWithdrawalTransitionV0) isStateTransition() {}
func (*IdentityCreditWithdrawalTransitionV0) Type() Type         { return TypeIdentityCreditWithdrawal }
func (*IdentityCreditWithdrawalTransitionV0) FeatureVersion() version.FeatureVersion {
	return 0
}
func (st *IdentityCreditWithdrawalTransitionV0) Signature() []byte { return st.SignatureBytes }
func (st *IdentityCreditWithdrawalTransitionV0) SetSignature(signature []byte) {
	st.SignatureBytes = signature
}
func (st *IdentityCreditWithdrawalTransitionV0) SignaturePublicKeyID() identity.KeyID {
	return st.SignatureKeyID
}
func (st *IdentityCreditWithdrawalTransitionV0) SetSignaturePublicKeyID(id identity.KeyID) {
	st.SignatureKeyID = id
}
func (st *IdentityCreditWithdrawalTransitionV0) OwnerID() identifier.Identifier {
	return st.IdentityID
}
func (st *IdentityCreditWithdrawalTransitionV0) ModifiedDataIDs() []identifier.Identifier {
	return []identifier.Identifier{st.IdentityID}
}

func (*IdentityCreditWithdrawalTransitionV0) SignatureProperties() []string {
	return withdrawalSignatureProperties
}
func (*IdentityCreditWithdrawalTransitionV0) IdentifierProperties() []string {
	return withdrawalIdentifierProperties
}
func (*IdentityCreditWithdrawalTransitionV0) BinaryProperties() []string {
	return withdrawalBinaryProperties
}

func (st *IdentityCreditWithdrawalTransitionV0) ToObject(skipSignature bool) (value.Value, error) {
	m := baseObject(st)
	m[PropertyIdentityID] = value.NewIdentifier(st.IdentityID)
	m[PropertyAmount] = value.NewU64(st.Amount)
	m[PropertyCoreFeePerByte] = value.NewU32(st.CoreFeePerByte)
	m[PropertyPooling] = value.NewU8(uint8(st.Pooling))
	m[PropertyOutputScript] = value.NewBytes(st.OutputScript)
	m[PropertyRevision] = value.NewU64(st.Revision)
	putIdentitySignature(m, skipSignature, st.SignatureKeyID, st.SignatureBytes)
	return value.NewMap(m), nil
}

func (st *IdentityCreditWithdrawalTransitionV0) SignableBytes() ([]byte, error) {
	return signableBytes(st)
}
func (st *IdentityCreditWithdrawalTransitionV0) Hash(skipSignature bool) ([]byte, error) {
	return hash(st, skipSignature)
}
func (st *IdentityCreditWithdrawalTransitionV0) ToCleanedObject(skipSignature bool) (value.Value, error) {
	return toCleanedObject(st, skipSignature)
}
func (st *IdentityCreditWithdrawalTransitionV0) ToJSON(skipSignature bool) ([]byte, error) {
	return toJSON(st, skipSignature)
}

func identityCreditWithdrawalFromObject(obj value.Value) (*IdentityCreditWithdrawalTransitionV0, error) {
	st := &IdentityCreditWithdrawalTransitionV0{}
	var err error
	if st.IdentityID, err = obj.GetIdentifier(PropertyIdentityID); err != nil {
		return nil, err
	}
	if st.Amount, err = obj.GetU64(PropertyAmount); err != nil {
		return nil, err
	}
	if st.CoreFeePerByte, err = obj.GetU32(PropertyCoreFeePerByte); err != nil {
		return nil, err
	}
	item, ok := obj.Get(PropertyPooling)
	if !ok {
		return nil, errors.Errorf("'%s' is not present", PropertyPooling)
	}
	pooling, err := item.AsU8()
	if err != nil {
		return nil, errors.WithMessage(err, PropertyPooling)
	}
	st.Pooling = Pooling(pooling)
	if st.OutputScript, err = obj.GetBytes(PropertyOutputScript); err != nil {
		return nil, err
	}
	if st.Revision, err = obj.GetU64(PropertyRevision); err != nil {
		return nil, err
	}
	if st.SignatureBytes, st.SignatureKeyID, err = readSignature(obj); err != nil {
		return nil, err
	}
	return st, nil
}

var (
	identityUpdateSignatureProperties = []string{
		PropertySignature,
		PropertySignaturePublicKeyID,
		PropertyAddPublicKeys + "[].signature",
	}
	identityUpdateIdentifierProperties = []string{PropertyIdentityID}
	identityUpdateBinaryProperties     = []string{
		PropertySignature,
		PropertyAddPublicKeys + "[].data",
		PropertyAddPublicKeys + "[].signature",
	}
)

// IdentityUpdateTransitionV0 adds keys to an identity and disables
// existing ones.
type IdentityUpdateTransitionV0 struct {
	IdentityID        identifier.Identifier
	Revision          uint64
	AddPublicKeys     []IdentityPublicKeyInCreation
	DisablePublicKeys []identity.KeyID
	// PublicKeysDisabledAt is set exactly when DisablePublicKeys is not
	// empty.
	PublicKeysDisabledAt *uint64
	SignatureKeyID       identity.KeyID `platform:"sig"`
	SignatureBytes       []byte         `platform:"sig"`
}

func (*IdentityUpdateTransitionV0) isStateTransition()                     {}
func (*IdentityUpdateTransitionV0) Type() Type                             { return TypeIdentityUpdate }
func (*IdentityUpdateTransitionV0) FeatureVersion() version.FeatureVersion { return 0 }
func (st *IdentityUpdateTransitionV0) Signature() []byte                   { return st.SignatureBytes }
func (st *IdentityUpdateTransitionV0) SetSignature(signature []byte)       { st.SignatureBytes = signature }
func (st *IdentityUpdateTransitionV0) SignaturePublicKeyID() identity.KeyID {
	return st.SignatureKeyID
}
func (st *IdentityUpdateTransitionV0) SetSignaturePublicKeyID(id identity.KeyID) {
	st.SignatureKeyID = id
}
func (st *IdentityUpdateTransitionV0) OwnerID() identifier.Identifier { return st.IdentityID }
func (st *IdentityUpdateTransitionV0) ModifiedDataIDs() []identifier.Identifier {
	return []identifier.Identifier{st.IdentityID}
}

func (*IdentityUpdateTransitionV0) SignatureProperties() []string {
	return identityUpdateSignatureProperties
}
func (*IdentityUpdateTransitionV0) IdentifierProperties() []string {
	return identityUpdateIdentifierProperties
}
func (*IdentityUpdateTransitionV0) BinaryProperties() []string { return identityUpdateBinaryProperties }

// SignPublicKeys sets the proof of possession of every added key.
func (st *IdentityUpdateTransitionV0) SignPublicKeys(privateKeys map[identity.KeyID][]byte) error {
	return setPublicKeySignatures(st, st.AddPublicKeys, privateKeys)
}

func (st *IdentityUpdateTransitionV0) ToObject(skipSignature bool) (value.Value, error) {
	m := baseObject(st)
	m[PropertyIdentityID] = value.NewIdentifier(st.IdentityID)
	m[PropertyRevision] = value.NewU64(st.Revision)
	m[PropertyAddPublicKeys] = publicKeysToObject(st.AddPublicKeys, skipSignature)
	disable := make([]value.Value, 0, len(st.DisablePublicKeys))
	for _, id := range st.DisablePublicKeys {
		disable = append(disable, value.NewU32(id))
	}
	m[PropertyDisablePublicKeys] = value.NewArray(disable...)
	if st.PublicKeysDisabledAt != nil {
		m[PropertyPublicKeysDisabledAt] = value.NewU64(*st.PublicKeysDisabledAt)
	}
	putIdentitySignature(m, skipSignature, st.SignatureKeyID, st.SignatureBytes)
	return value.NewMap(m), nil
}

func (st *IdentityUpdateTransitionV0) SignableBytes() ([]byte, error) { return signableBytes(st) }
func (st *IdentityUpdateTransitionV0) Hash(skipSignature bool) ([]byte, error) {
	return hash(st, skipSignature)
}
func (st *IdentityUpdateTransitionV0) ToCleanedObject(skipSignature bool) (value.Value, error) {
	return toCleanedObject(st, skipSignature)
}
func (st *IdentityUpdateTransitionV0) ToJSON(skipSignature bool) ([]byte, error) {
	return toJSON(st, skipSignature)
}

func identityUpdateFromObject(obj value.Value) (*IdentityUpdateTransitionV0, error) {
	st := &IdentityUpdateTransitionV0{}
	var err error
	if st.IdentityID, err = obj.GetIdentifier(PropertyIdentityID); err != nil {
		return nil, err
	}
	if st.Revision, err = obj.GetU64(PropertyRevision); err != nil {
		return nil, err
	}
	items, ok, err := obj.GetOptionalArray(PropertyAddPublicKeys)
	if err != nil {
		return nil, err
	}
	if ok {
		if st.AddPublicKeys, err = publicKeysInCreationFromObject(items); err != nil {
			return nil, err
		}
	}
	ids, ok, err := obj.GetOptionalArray(PropertyDisablePublicKeys)
	if err != nil {
		return nil, err
	}
	if ok {
		for _, item := range ids {
			id, err := item.AsU32()
			if err != nil {
				return nil, errors.WithMessage(err, PropertyDisablePublicKeys)
			}
			st.DisablePublicKeys = append(st.DisablePublicKeys, id)
		}
	}
	if st.PublicKeysDisabledAt, err = obj.GetOptionalU64(PropertyPublicKeysDisabledAt); err != nil {
		return nil, err
	}
	if st.SignatureBytes, st.SignatureKeyID, err = readSignature(obj); err != nil {
		return nil, err
	}
	return st, nil
}

var (
	transferSignatureProperties  = []string{PropertySignature, PropertySignaturePublicKeyID}
	transferIdentifierProperties = []string{PropertyIdentityID, PropertyRecipientID}
	transferBinaryProperties     = []string{PropertySignature}
)

// IdentityCreditTransferTransitionV0 moves credits between identities.
type IdentityCreditTransferTransitionV0 struct {
	IdentityID     identifier.Identifier
	RecipientID    identifier.Identifier
	Amount         uint64
	SignatureKeyID identity.KeyID `platform:"sig"`
	SignatureBytes []byte         `platform:"sig"`
}

func (*IdentityCreditTransferTransitionV0) isStateTransition() {}
func (*IdentityCreditTransferTransitionV0) Type() Type         { return TypeIdentityCreditTransfer }
func (*IdentityCreditTransferTransitionV0) FeatureVersion() version.FeatureVersion {
	return 0
}
func (st *IdentityCreditTransferTransitionV0) Signature() []byte { return st.SignatureBytes }
func (st *IdentityCreditTransferTransitionV0) SetSignature(signature []byte) {
	st.SignatureBytes = signature
}
func (st *IdentityCreditTransferTransitionV0) SignaturePublicKeyID() identity.KeyID {
	return st.SignatureKeyID
}
func (st *IdentityCreditTransferTransitionV0) SetSignaturePublicKeyID(id identity.KeyID) {
	st.SignatureKeyID = id
}
func (st *IdentityCreditTransferTransitionV0) OwnerID() identifier.Identifier { return st.IdentityID }
func (st *IdentityCreditTransferTransitionV0) ModifiedDataIDs() []identifier.Identifier {
	return []identifier.Identifier{st.IdentityID, st.RecipientID}
}

func (*IdentityCreditTransferTransitionV0) SignatureProperties() []string {
	return transferSignatureProperties
}
func (*IdentityCreditTransferTransitionV0) IdentifierProperties() []string {
	return transferIdentifierProperties
}
func (*IdentityCreditTransferTransitionV0) BinaryProperties() []string {
	return transferBinaryProperties
}

func (st *IdentityCreditTransferTransitionV0) ToObject(skipSignature bool) (value.Value, error) {
	m := baseObject(st)
	m[PropertyIdentityID] = value.NewIdentifier(st.IdentityID)
	m[PropertyRecipientID] = value.NewIdentifier(st.RecipientID)
	m[PropertyAmount] = value.NewU64(st.Amount)
	putIdentitySignature(m, skipSignature, st.SignatureKeyID, st.SignatureBytes)
	return value.NewMap(m), nil
}

func (st *IdentityCreditTransferTransitionV0) SignableBytes() ([]byte, error) {
	return signableBytes(st)
}
func (st *IdentityCreditTransferTransitionV0) Hash(skipSignature bool) ([]byte, error) {
	return hash(st, skipSignature)
}
func (st *IdentityCreditTransferTransitionV0) ToCleanedObject(skipSignature bool) (value.Value, error) {
	return toCleanedObject(st, skipSignature)
}
func (st *IdentityCreditTransferTransitionV0) ToJSON(skipSignature bool) ([]byte, error) {
	return toJSON(st, skipSignature)
}

func identityCreditTransferFromObject(obj value.Value) (*IdentityCreditTransferTransitionV0, error) {
	st := &IdentityCreditTransferTransitionV0{}
	var err error
	if st.IdentityID, err = obj.GetIdentifier(PropertyIdentityID); err != nil {
		return nil, err
	}
	if st.RecipientID, err = obj.GetIdentifier(PropertyRecipientID); err != nil {
		return nil, err
	}
	if st.Amount, err = obj.GetU64(PropertyAmount); err != nil {
		return nil, err
	}
	if st.SignatureBytes, st.SignatureKeyID, err = readSignature(obj); err != nil {
		return nil, err
	}
	return st, nil
}
