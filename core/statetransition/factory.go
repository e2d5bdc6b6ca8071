/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statetransition

import (
	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

// Factory turns untrusted input into state transitions. Malformed input is
// reported through the returned validation result; only failures of the
// node itself are returned as errors.
type Factory struct {
	pv *version.PlatformVersion
}

// NewFactory returns a factory for the given platform version.
func NewFactory(pv *version.PlatformVersion) *Factory {
	return &Factory{pv: pv}
}

// CreateFromBuffer deserializes a binary state transition.
func (f *Factory) CreateFromBuffer(b []byte) (*consensus.ValidationResult[StateTransition], error) {
	result := consensus.NewValidationResult[StateTransition]()
	if len(b) > MaxSize {
		result.AddError(&consensus.StateTransitionMaxSizeExceededError{
			ActualSizeKBytes: uint64(len(b)) / 1024,
			MaxSizeKBytes:    MaxSize / 1024,
		})
		return result, nil
	}

	st, err := Deserialize(b, f.pv)
	if err != nil {
		if cerr := deserializationConsensusError(err); cerr != nil {
			logger.Debugf("Rejected state transition buffer of %d bytes: %s", len(b), err)
			result.AddError(cerr)
			return result, nil
		}
		return nil, err
	}
	result.SetData(st)
	return result, nil
}

func deserializationConsensusError(err error) consensus.Error {
	var unsupported *UnsupportedFeatureVersionError
	if errors.As(err, &unsupported) {
		return &consensus.UnsupportedVersionError{
			ReceivedVersion: unsupported.Version,
			MinVersion:      unsupported.Accepted.MinVersion,
			MaxVersion:      unsupported.Accepted.MaxVersion,
		}
	}
	var tooBig *commonerrors.MaxEncodedBytesReachedError
	if errors.As(err, &tooBig) {
		return &consensus.StateTransitionMaxSizeExceededError{
			ActualSizeKBytes: tooBig.SizeHit / 1024,
			MaxSizeKBytes:    tooBig.MaxSizeBytes / 1024,
		}
	}
	var de *commonerrors.PlatformDeserializationError
	if errors.As(err, &de) {
		return &consensus.SerializedObjectParsingError{ParsingError: err.Error()}
	}
	return nil
}

// CreateFromObject builds a state transition from its object form.
func (f *Factory) CreateFromObject(raw value.Value) (*consensus.ValidationResult[StateTransition], error) {
	result := consensus.NewValidationResult[StateTransition]()
	st, err := FromRawObject(raw, f.pv)
	if err != nil {
		var invalid *InvalidStateTransitionError
		if errors.As(err, &invalid) {
			result.AddErrors(invalid.Errors...)
			return result, nil
		}
		result.AddError(&consensus.SerializedObjectParsingError{ParsingError: err.Error()})
		return result, nil
	}
	result.SetData(st)
	return result, nil
}

// CreateDataContractCreateTransition wraps a contract created by a
// datacontract.Factory.
func (f *Factory) CreateDataContractCreateTransition(created *datacontract.CreatedDataContract) (*DataContractCreateTransitionV0, error) {
	return NewDataContractCreateTransition(created)
}

// CreateDataContractUpdateTransition wraps an updated contract.
func (f *Factory) CreateDataContractUpdateTransition(c datacontract.DataContract) (*DataContractUpdateTransitionV0, error) {
	return NewDataContractUpdateTransition(c)
}

// CreateDocumentsBatchTransition wraps document transitions of owner.
func (f *Factory) CreateDocumentsBatchTransition(owner identifier.Identifier, transitions ...DocumentTransition) *DocumentsBatchTransitionV0 {
	return &DocumentsBatchTransitionV0{Owner: owner, Transitions: transitions}
}

// SignByPrivateKey signs st with a private key. Identity signed
// transitions record keyID.
func SignByPrivateKey(st StateTransition, keyID identity.KeyID, privateKey []byte) error {
	if s, ok := st.(IdentitySigned); ok {
		s.SetSignaturePublicKeyID(keyID)
	}
	data, err := st.SignableBytes()
	if err != nil {
		return err
	}
	sig, err := identity.Sign(privateKey, data)
	if err != nil {
		return err
	}
	st.SetSignature(sig)
	return nil
}
