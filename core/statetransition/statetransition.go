/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package statetransition defines the state transitions users submit to
// change platform state, together with their object and binary forms.
package statetransition

import (
	"fmt"

	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

var logger = flogging.MustGetLogger("statetransition")

// MaxSize is the maximum size of a serialized state transition in bytes.
const MaxSize = serialization.StateTransitionMaxSize

// Type is the state transition type code carried in the object form.
type Type uint8

const (
	TypeDataContractCreate       Type = 0
	TypeDocumentsBatch           Type = 1
	TypeIdentityCreate           Type = 2
	TypeIdentityTopUp            Type = 3
	TypeDataContractUpdate       Type = 4
	TypeIdentityUpdate           Type = 5
	TypeIdentityCreditWithdrawal Type = 6
	TypeIdentityCreditTransfer   Type = 7
)

func (t Type) String() string {
	switch t {
	case TypeDataContractCreate:
		return "DataContractCreate"
	case TypeDocumentsBatch:
		return "DocumentsBatch"
	case TypeIdentityCreate:
		return "IdentityCreate"
	case TypeIdentityTopUp:
		return "IdentityTopUp"
	case TypeDataContractUpdate:
		return "DataContractUpdate"
	case TypeIdentityUpdate:
		return "IdentityUpdate"
	case TypeIdentityCreditWithdrawal:
		return "IdentityCreditWithdrawal"
	case TypeIdentityCreditTransfer:
		return "IdentityCreditTransfer"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Property names shared by the object forms.
const (
	PropertyType                 = "type"
	PropertyVersion              = "$version"
	PropertySignature            = "signature"
	PropertySignaturePublicKeyID = "signaturePublicKeyId"
	PropertyIdentityID           = "identityId"
	PropertyOwnerID              = "ownerId"
	PropertyRevision             = "revision"
	PropertyAmount               = "amount"
)

// StateTransition is implemented by exactly the V0 transition types of
// this package.
type StateTransition interface {
	Type() Type
	// FeatureVersion is the structure version of the transition.
	FeatureVersion() version.FeatureVersion

	Signature() []byte
	SetSignature(signature []byte)

	// OwnerID is the identity the transition acts for.
	OwnerID() identifier.Identifier
	// ModifiedDataIDs lists the ids of the objects the transition changes.
	ModifiedDataIDs() []identifier.Identifier

	// SignatureProperties are the object paths left out of signable bytes.
	SignatureProperties() []string
	// IdentifierProperties are the object paths holding identifiers.
	IdentifierProperties() []string
	// BinaryProperties are the object paths holding raw bytes.
	BinaryProperties() []string

	SignableBytes() ([]byte, error)
	Hash(skipSignature bool) ([]byte, error)
	ToObject(skipSignature bool) (value.Value, error)
	ToCleanedObject(skipSignature bool) (value.Value, error)
	ToJSON(skipSignature bool) ([]byte, error)

	isStateTransition()
}

// IdentitySigned is implemented by transitions signed with a key of an
// existing identity.
type IdentitySigned interface {
	StateTransition
	SignaturePublicKeyID() identity.KeyID
	SetSignaturePublicKeyID(id identity.KeyID)
}

// signableBytes is the binary form without the fields tagged as signature
// fields.
func signableBytes(st StateTransition) ([]byte, error) {
	return encode(st, serialization.Config{Signable: true})
}

func hash(st StateTransition, skipSignature bool) ([]byte, error) {
	var b []byte
	var err error
	if skipSignature {
		b, err = st.SignableBytes()
	} else {
		b, err = Serialize(st)
	}
	if err != nil {
		return nil, err
	}
	return crypto.DoubleSHA256(b), nil
}

// toCleanedObject drops null entries and empty optional lists from the
// top level of the object form.
func toCleanedObject(st StateTransition, skipSignature bool) (value.Value, error) {
	obj, err := st.ToObject(skipSignature)
	if err != nil {
		return value.Value{}, err
	}
	for _, k := range obj.Keys() {
		item, _ := obj.Get(k)
		if item.IsNull() || (item.IsArray() && item.Len() == 0 && k != "transitions" && k != "publicKeys") {
			obj.Remove(k)
		}
	}
	return obj, nil
}

func toJSON(st StateTransition, skipSignature bool) ([]byte, error) {
	obj, err := st.ToCleanedObject(skipSignature)
	if err != nil {
		return nil, err
	}
	return obj.ToJSON()
}

// baseObject starts the object form of a transition.
func baseObject(st StateTransition) map[string]value.Value {
	return map[string]value.Value{
		PropertyType:    value.NewU8(uint8(st.Type())),
		PropertyVersion: value.NewU16(st.FeatureVersion()),
	}
}

func putSignature(m map[string]value.Value, skipSignature bool, signature []byte) {
	if skipSignature {
		return
	}
	m[PropertySignature] = value.NewBytes(signature)
}

func putIdentitySignature(m map[string]value.Value, skipSignature bool, keyID identity.KeyID, signature []byte) {
	if skipSignature {
		return
	}
	m[PropertySignature] = value.NewBytes(signature)
	m[PropertySignaturePublicKeyID] = value.NewU32(keyID)
}

// readSignature takes the signature entries of an object form. Both are
// optional so unsigned transitions can be built from objects.
func readSignature(obj value.Value) ([]byte, identity.KeyID, error) {
	var signature []byte
	if obj.Has(PropertySignature) {
		b, err := obj.GetBytes(PropertySignature)
		if err != nil {
			return nil, 0, err
		}
		signature = b
	}
	keyID, err := obj.GetOptionalU32(PropertySignaturePublicKeyID)
	if err != nil {
		return nil, 0, err
	}
	if keyID == nil {
		return signature, 0, nil
	}
	return signature, *keyID, nil
}
