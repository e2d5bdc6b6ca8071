/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"fmt"

	"github.com/dashpay/platform-drive/common/crypto"
	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

// InitialVersion is the version of a newly created contract.
const InitialVersion uint32 = 1

// Validator validates raw contracts.
type Validator interface {
	Validate(raw value.Value) (*consensus.SimpleValidationResult, error)
}

// CreatedDataContract is a new contract together with the entropy its id
// was derived from.
type CreatedDataContract struct {
	DataContract DataContract
	Entropy      []byte
}

// InvalidDataContractError carries the consensus errors that made a raw
// contract unacceptable.
type InvalidDataContractError struct {
	Errors []consensus.Error
	Raw    value.Value
}

func (e *InvalidDataContractError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid data contract"
	}
	return fmt.Sprintf("invalid data contract: %s", e.Errors[0])
}

// Factory creates contracts for one protocol version.
type Factory struct {
	ProtocolVersion  uint32
	EntropyGenerator func() ([]byte, error)
	Validator        Validator

	platformVersion *version.PlatformVersion
}

func NewFactory(protocolVersion uint32, validator Validator) (*Factory, error) {
	pv, err := version.Get(protocolVersion)
	if err != nil {
		return nil, err
	}
	return &Factory{
		ProtocolVersion:  protocolVersion,
		EntropyGenerator: crypto.GetRandomEntropy,
		Validator:        validator,
		platformVersion:  pv,
	}, nil
}

// PlatformVersion returns the platform version the factory builds for.
func (f *Factory) PlatformVersion() *version.PlatformVersion { return f.platformVersion }

// Create builds a new contract owned by ownerID with a fresh id. A nil
// config selects the defaults.
func (f *Factory) Create(ownerID identifier.Identifier, documents map[string]value.Value, config *Config, defs map[string]value.Value) (*CreatedDataContract, error) {
	entropy, err := f.EntropyGenerator()
	if err != nil {
		return nil, errors.WithMessage(err, "failed generating data contract entropy")
	}
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}

	id := GenerateDataContractID(ownerID, entropy)
	switch v := f.platformVersion.DPP.Contract.ContractStructure; v {
	case 0:
		c, err := NewV0(id, ownerID, InitialVersion, SchemaURIV0, cfg, documents, defs)
		if err != nil {
			return nil, err
		}
		logger.Debugf("Created data contract %s for owner %s", id, ownerID)
		return &CreatedDataContract{DataContract: c, Entropy: entropy}, nil
	default:
		return nil, unknownStructure("DataContractFactory.Create", v)
	}
}

// CreateFromObject validates raw unless skipValidation is set and builds
// the contract. raw must carry protocolVersion when validated.
func (f *Factory) CreateFromObject(raw value.Value, skipValidation bool) (DataContract, error) {
	if !skipValidation {
		if f.Validator == nil {
			return nil, errors.New("data contract factory has no validator")
		}
		result, err := f.Validator.Validate(raw)
		if err != nil {
			return nil, err
		}
		if !result.IsValid() {
			return nil, &InvalidDataContractError{Errors: result.Errors, Raw: raw}
		}
	}
	obj := raw.Clone()
	obj.Remove(PropertyProtocolVersion)
	return FromRawObject(obj, f.platformVersion)
}

// CreateFromBuffer decodes a buffer written by ToCBORBuffer. Malformed
// buffers are reported as consensus errors inside InvalidDataContractError.
func (f *Factory) CreateFromBuffer(b []byte, skipValidation bool) (DataContract, error) {
	protocolVersion, payload, err := serialization.Uvarint32(b)
	if err != nil {
		return nil, &InvalidDataContractError{Errors: []consensus.Error{
			&consensus.ProtocolVersionParsingError{ParsingError: err.Error()},
		}}
	}
	raw, err := value.FromCBOR(payload)
	if err != nil {
		return nil, &InvalidDataContractError{Errors: []consensus.Error{
			&consensus.SerializedObjectParsingError{ParsingError: err.Error()},
		}}
	}
	if !raw.IsMap() {
		return nil, &InvalidDataContractError{Errors: []consensus.Error{
			&consensus.SerializedObjectParsingError{ParsingError: "data contract must be a map"},
		}}
	}
	if err := raw.ReplaceAtPaths(IdentifierFields, value.ReplaceWithIdentifier); err != nil {
		return nil, &InvalidDataContractError{Errors: []consensus.Error{
			&consensus.SerializedObjectParsingError{ParsingError: err.Error()},
		}}
	}
	if err := raw.Set(PropertyProtocolVersion, value.NewU32(protocolVersion)); err != nil {
		return nil, err
	}
	return f.CreateFromObject(raw, skipValidation)
}

func unknownStructure(method string, received uint16) error {
	return &commonerrors.UnknownVersionMismatchError{Method: method, KnownVersions: []uint16{0}, Received: received}
}
