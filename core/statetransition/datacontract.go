/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statetransition

import (
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

const (
	PropertyDataContract = "dataContract"
	PropertyEntropy      = "entropy"
)

var (
	contractSignatureProperties  = []string{PropertySignature, PropertySignaturePublicKeyID}
	contractIdentifierProperties = []string{PropertyDataContract + "." + datacontract.PropertyID, PropertyDataContract + "." + datacontract.PropertyOwnerID}
	contractCreateBinary         = []string{PropertySignature, PropertyEntropy}
	contractUpdateBinary         = []string{PropertySignature}
)

// DataContractCreateTransitionV0 registers a new data contract. The
// contract is carried in its object form without protocolVersion.
type DataContractCreateTransitionV0 struct {
	DataContract   value.Value
	Entropy        [32]byte
	SignatureKeyID identity.KeyID `platform:"sig"`
	SignatureBytes []byte         `platform:"sig"`
}

// NewDataContractCreateTransition wraps a freshly created contract.
func NewDataContractCreateTransition(created *datacontract.CreatedDataContract) (*DataContractCreateTransitionV0, error) {
	if len(created.Entropy) != 32 {
		return nil, errors.Errorf("data contract entropy must be 32 bytes long, got %d", len(created.Entropy))
	}
	obj, err := created.DataContract.ToCleanedObject()
	if err != nil {
		return nil, err
	}
	st := &DataContractCreateTransitionV0{DataContract: obj}
	copy(st.Entropy[:], created.Entropy)
	return st, nil
}

func (*DataContractCreateTransitionV0) isStateTransition()                     {}
func (*DataContractCreateTransitionV0) Type() Type                             { return TypeDataContractCreate }
func (*DataContractCreateTransitionV0) FeatureVersion() version.FeatureVersion { return 0 }
func (st *DataContractCreateTransitionV0) Signature() []byte                   { return st.SignatureBytes }
func (st *DataContractCreateTransitionV0) SetSignature(signature []byte)       { st.SignatureBytes = signature }
func (st *DataContractCreateTransitionV0) SignaturePublicKeyID() identity.KeyID {
	return st.SignatureKeyID
}
func (st *DataContractCreateTransitionV0) SetSignaturePublicKeyID(id identity.KeyID) {
	st.SignatureKeyID = id
}

func (st *DataContractCreateTransitionV0) OwnerID() identifier.Identifier {
	id, _ := st.DataContract.GetIdentifier(datacontract.PropertyOwnerID)
	return id
}

// DataContractID returns the id the contract claims.
func (st *DataContractCreateTransitionV0) DataContractID() identifier.Identifier {
	id, _ := st.DataContract.GetIdentifier(datacontract.PropertyID)
	return id
}

func (st *DataContractCreateTransitionV0) ModifiedDataIDs() []identifier.Identifier {
	return []identifier.Identifier{st.DataContractID()}
}

func (*DataContractCreateTransitionV0) SignatureProperties() []string  { return contractSignatureProperties }
func (*DataContractCreateTransitionV0) IdentifierProperties() []string { return contractIdentifierProperties }
func (*DataContractCreateTransitionV0) BinaryProperties() []string     { return contractCreateBinary }

// Contract parses the carried contract.
func (st *DataContractCreateTransitionV0) Contract(pv *version.PlatformVersion) (datacontract.DataContract, error) {
	return datacontract.FromRawObject(st.DataContract, pv)
}

func (st *DataContractCreateTransitionV0) ToObject(skipSignature bool) (value.Value, error) {
	m := baseObject(st)
	m[PropertyDataContract] = st.DataContract.Clone()
	m[PropertyEntropy] = value.NewBytes(append([]byte(nil), st.Entropy[:]...))
	putIdentitySignature(m, skipSignature, st.SignatureKeyID, st.SignatureBytes)
	return value.NewMap(m), nil
}

func (st *DataContractCreateTransitionV0) SignableBytes() ([]byte, error) { return signableBytes(st) }
func (st *DataContractCreateTransitionV0) Hash(skipSignature bool) ([]byte, error) {
	return hash(st, skipSignature)
}
func (st *DataContractCreateTransitionV0) ToCleanedObject(skipSignature bool) (value.Value, error) {
	return toCleanedObject(st, skipSignature)
}
func (st *DataContractCreateTransitionV0) ToJSON(skipSignature bool) ([]byte, error) {
	return toJSON(st, skipSignature)
}

func dataContractCreateFromObject(obj value.Value) (*DataContractCreateTransitionV0, error) {
	st := &DataContractCreateTransitionV0{}
	contract, err := obj.GetMap(PropertyDataContract)
	if err != nil {
		return nil, err
	}
	st.DataContract = contract.Clone()
	st.DataContract.Remove(datacontract.PropertyProtocolVersion)
	entropy, err := obj.GetBytes(PropertyEntropy)
	if err != nil {
		return nil, err
	}
	if len(entropy) != len(st.Entropy) {
		return nil, errors.Errorf("entropy must be %d bytes long, got %d", len(st.Entropy), len(entropy))
	}
	copy(st.Entropy[:], entropy)
	if st.SignatureBytes, st.SignatureKeyID, err = readSignature(obj); err != nil {
		return nil, err
	}
	return st, nil
}

// DataContractUpdateTransitionV0 replaces a stored contract with a newer
// version of it.
type DataContractUpdateTransitionV0 struct {
	DataContract   value.Value
	SignatureKeyID identity.KeyID `platform:"sig"`
	SignatureBytes []byte         `platform:"sig"`
}

// NewDataContractUpdateTransition wraps an updated contract.
func NewDataContractUpdateTransition(c datacontract.DataContract) (*DataContractUpdateTransitionV0, error) {
	obj, err := c.ToCleanedObject()
	if err != nil {
		return nil, err
	}
	return &DataContractUpdateTransitionV0{DataContract: obj}, nil
}

func (*DataContractUpdateTransitionV0) isStateTransition()                     {}
func (*DataContractUpdateTransitionV0) Type() Type                             { return TypeDataContractUpdate }
func (*DataContractUpdateTransitionV0) FeatureVersion() version.FeatureVersion { return 0 }
func (st *DataContractUpdateTransitionV0) Signature() []byte                   { return st.SignatureBytes }
func (st *DataContractUpdateTransitionV0) SetSignature(signature []byte)       { st.SignatureBytes = signature }
func (st *DataContractUpdateTransitionV0) SignaturePublicKeyID() identity.KeyID {
	return st.SignatureKeyID
}
func (st *DataContractUpdateTransitionV0) SetSignaturePublicKeyID(id identity.KeyID) {
	st.SignatureKeyID = id
}

func (st *DataContractUpdateTransitionV0) OwnerID() identifier.Identifier {
	id, _ := st.DataContract.GetIdentifier(datacontract.PropertyOwnerID)
	return id
}

func (st *DataContractUpdateTransitionV0) DataContractID() identifier.Identifier {
	id, _ := st.DataContract.GetIdentifier(datacontract.PropertyID)
	return id
}

func (st *DataContractUpdateTransitionV0) ModifiedDataIDs() []identifier.Identifier {
	return []identifier.Identifier{st.DataContractID()}
}

func (*DataContractUpdateTransitionV0) SignatureProperties() []string  { return contractSignatureProperties }
func (*DataContractUpdateTransitionV0) IdentifierProperties() []string { return contractIdentifierProperties }
func (*DataContractUpdateTransitionV0) BinaryProperties() []string     { return contractUpdateBinary }

func (st *DataContractUpdateTransitionV0) Contract(pv *version.PlatformVersion) (datacontract.DataContract, error) {
	return datacontract.FromRawObject(st.DataContract, pv)
}

func (st *DataContractUpdateTransitionV0) ToObject(skipSignature bool) (value.Value, error) {
	m := baseObject(st)
	m[PropertyDataContract] = st.DataContract.Clone()
	putIdentitySignature(m, skipSignature, st.SignatureKeyID, st.SignatureBytes)
	return value.NewMap(m), nil
}

func (st *DataContractUpdateTransitionV0) SignableBytes() ([]byte, error) { return signableBytes(st) }
func (st *DataContractUpdateTransitionV0) Hash(skipSignature bool) ([]byte, error) {
	return hash(st, skipSignature)
}
func (st *DataContractUpdateTransitionV0) ToCleanedObject(skipSignature bool) (value.Value, error) {
	return toCleanedObject(st, skipSignature)
}
func (st *DataContractUpdateTransitionV0) ToJSON(skipSignature bool) ([]byte, error) {
	return toJSON(st, skipSignature)
}

func dataContractUpdateFromObject(obj value.Value) (*DataContractUpdateTransitionV0, error) {
	st := &DataContractUpdateTransitionV0{}
	contract, err := obj.GetMap(PropertyDataContract)
	if err != nil {
		return nil, err
	}
	st.DataContract = contract.Clone()
	st.DataContract.Remove(datacontract.PropertyProtocolVersion)
	if st.SignatureBytes, st.SignatureKeyID, err = readSignature(obj); err != nil {
		return nil, err
	}
	return st, nil
}
