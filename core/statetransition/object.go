/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statetransition

import (
	"fmt"
	"strings"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

// InvalidStateTransitionError carries the consensus errors that prevented
// an object from being turned into a state transition.
type InvalidStateTransitionError struct {
	Errors []consensus.Error
	Raw    value.Value
}

func (e *InvalidStateTransitionError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid state transition: %s", strings.Join(msgs, "; "))
}

var typePaths = map[Type]struct {
	identifiers []string
	binary      []string
}{
	TypeDataContractCreate:       {contractIdentifierProperties, contractCreateBinary},
	TypeDataContractUpdate:       {contractIdentifierProperties, contractUpdateBinary},
	TypeDocumentsBatch:           {batchIdentifierProperties, batchBinaryProperties},
	TypeIdentityCreate:           {identityCreateIdentifierProperties, identityCreateBinaryProperties},
	TypeIdentityTopUp:            {topUpIdentifierProperties, topUpBinaryProperties},
	TypeIdentityCreditWithdrawal: {withdrawalIdentifierProperties, withdrawalBinaryProperties},
	TypeIdentityUpdate:           {identityUpdateIdentifierProperties, identityUpdateBinaryProperties},
	TypeIdentityCreditTransfer:   {transferIdentifierProperties, transferBinaryProperties},
}

// ReadType returns the type of a raw object. A missing type gives a
// MissingStateTransitionTypeError and an unknown one an
// InvalidStateTransitionTypeError.
func ReadType(raw value.Value) (Type, consensus.Error) {
	item, ok := raw.Get(PropertyType)
	if !ok || item.IsNull() {
		return 0, &consensus.MissingStateTransitionTypeError{}
	}
	code, err := item.AsU8()
	if err != nil {
		return 0, &consensus.InvalidStateTransitionTypeError{TransitionType: 255}
	}
	t := Type(code)
	if _, ok := typePaths[t]; !ok {
		return 0, &consensus.InvalidStateTransitionTypeError{TransitionType: code}
	}
	return t, nil
}

// CleanValue converts the identifier and binary paths of a raw object of
// type t to their typed forms. Base58 and base64 text as well as byte
// arrays are accepted.
func CleanValue(raw value.Value, t Type) (value.Value, error) {
	paths, ok := typePaths[t]
	if !ok {
		return value.Value{}, errors.Errorf("unknown state transition type %d", uint8(t))
	}
	obj := raw.Clone()
	if err := obj.ReplaceAtPaths(paths.identifiers, value.ReplaceWithIdentifier); err != nil {
		return value.Value{}, err
	}
	if err := obj.ReplaceAtPaths(paths.binary, value.ReplaceWithBytes); err != nil {
		return value.Value{}, err
	}
	return obj, nil
}

// FromRawObject builds a state transition from its object form. Structural
// problems with the type are reported as *InvalidStateTransitionError.
func FromRawObject(raw value.Value, pv *version.PlatformVersion) (StateTransition, error) {
	if !raw.IsMap() {
		return nil, errors.Errorf("state transition must be a map, got %s", raw.Kind())
	}
	t, cerr := ReadType(raw)
	if cerr != nil {
		return nil, &InvalidStateTransitionError{Errors: []consensus.Error{cerr}, Raw: raw}
	}

	var featureVersion version.FeatureVersion
	if v, err := raw.GetOptionalU64(PropertyVersion); err != nil {
		return nil, err
	} else if v != nil {
		if *v > uint64(^version.FeatureVersion(0)) {
			return nil, errors.Errorf("state transition $version %d overflows", *v)
		}
		featureVersion = version.FeatureVersion(*v)
	}
	if result := featureVersionBounds(t, pv).Validate(featureVersion); !result.IsValid() {
		return nil, &InvalidStateTransitionError{Errors: result.ErrorList(), Raw: raw}
	}

	obj, err := CleanValue(raw, t)
	if err != nil {
		return nil, err
	}

	var st StateTransition
	switch t {
	case TypeDataContractCreate:
		st, err = dataContractCreateFromObject(obj)
	case TypeDataContractUpdate:
		st, err = dataContractUpdateFromObject(obj)
	case TypeDocumentsBatch:
		st, err = documentsBatchFromObject(obj)
	case TypeIdentityCreate:
		st, err = identityCreateFromObject(obj)
	case TypeIdentityTopUp:
		st, err = identityTopUpFromObject(obj)
	case TypeIdentityCreditWithdrawal:
		st, err = identityCreditWithdrawalFromObject(obj)
	case TypeIdentityUpdate:
		st, err = identityUpdateFromObject(obj)
	case TypeIdentityCreditTransfer:
		st, err = identityCreditTransferFromObject(obj)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "parsing %s transition", t)
	}
	return st, nil
}

func featureVersionBounds(t Type, pv *version.PlatformVersion) version.FeatureVersionBounds {
	versions := pv.DPP.StateTransitionSerializationVersions
	switch t {
	case TypeDataContractCreate:
		return versions.ContractCreate
	case TypeDataContractUpdate:
		return versions.ContractUpdate
	case TypeDocumentsBatch:
		return versions.DocumentsBatch
	case TypeIdentityCreate:
		return versions.IdentityCreate
	case TypeIdentityTopUp:
		return versions.IdentityTopUp
	case TypeIdentityCreditWithdrawal:
		return versions.IdentityCreditWithdrawal
	case TypeIdentityUpdate:
		return versions.IdentityUpdate
	case TypeIdentityCreditTransfer:
		return versions.IdentityCreditTransfer
	}
	return version.FeatureVersionBounds{}
}
