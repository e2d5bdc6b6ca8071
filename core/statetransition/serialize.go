/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statetransition

import (
	"fmt"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

// variant indexes of the binary envelope
const (
	variantDataContractCreate uint32 = iota
	variantDataContractUpdate
	variantDocumentsBatch
	variantIdentityCreate
	variantIdentityTopUp
	variantIdentityCreditWithdrawal
	variantIdentityUpdate
	variantIdentityCreditTransfer
)

// UnsupportedFeatureVersionError is returned when a serialized transition
// carries a feature version the platform version does not accept.
type UnsupportedFeatureVersionError struct {
	Type     Type
	Version  version.FeatureVersion
	Accepted version.FeatureVersionBounds
}

func (e *UnsupportedFeatureVersionError) Error() string {
	return fmt.Sprintf("%s feature version %d is not in [%d, %d]", e.Type, e.Version, e.Accepted.MinVersion, e.Accepted.MaxVersion)
}

// encode writes the envelope variant, the feature version and the fields.
func encode(st StateTransition, cfg serialization.Config) ([]byte, error) {
	if cfg.Limit == 0 {
		cfg.Limit = MaxSize
	}
	e := serialization.NewEncoder(cfg)
	switch st := st.(type) {
	case *DataContractCreateTransitionV0:
		e.WriteEnum(variantDataContractCreate)
		e.WriteU16(st.FeatureVersion())
		e.Encode(*st)
	case *DataContractUpdateTransitionV0:
		e.WriteEnum(variantDataContractUpdate)
		e.WriteU16(st.FeatureVersion())
		e.Encode(*st)
	case *DocumentsBatchTransitionV0:
		e.WriteEnum(variantDocumentsBatch)
		e.WriteU16(st.FeatureVersion())
		e.Encode(*st)
	case *IdentityCreateTransitionV0:
		e.WriteEnum(variantIdentityCreate)
		e.WriteU16(st.FeatureVersion())
		e.Encode(*st)
	case *IdentityTopUpTransitionV0:
		e.WriteEnum(variantIdentityTopUp)
		e.WriteU16(st.FeatureVersion())
		e.Encode(*st)
	case *IdentityCreditWithdrawalTransitionV0:
		e.WriteEnum(variantIdentityCreditWithdrawal)
		e.WriteU16(st.FeatureVersion())
		e.Encode(*st)
	case *IdentityUpdateTransitionV0:
		e.WriteEnum(variantIdentityUpdate)
		e.WriteU16(st.FeatureVersion())
		e.Encode(*st)
	case *IdentityCreditTransferTransitionV0:
		e.WriteEnum(variantIdentityCreditTransfer)
		e.WriteU16(st.FeatureVersion())
		e.Encode(*st)
	default:
		return nil, &commonerrors.PlatformSerializationError{Reason: fmt.Sprintf("unknown state transition %T", st)}
	}
	if e.Err() != nil {
		return nil, e.Err()
	}
	return e.Bytes(), nil
}

// Serialize returns the binary form of st including its signatures.
func Serialize(st StateTransition) ([]byte, error) {
	return encode(st, serialization.Config{})
}

// Deserialize parses the binary form. Feature versions are checked against
// pv before the fields are read.
func Deserialize(b []byte, pv *version.PlatformVersion) (StateTransition, error) {
	cfg := serialization.Config{Limit: MaxSize}
	if len(b) > MaxSize {
		return nil, &commonerrors.MaxEncodedBytesReachedError{MaxSizeBytes: MaxSize, SizeHit: uint64(len(b))}
	}
	d := serialization.NewDecoder(b, cfg)
	variant := d.ReadEnum()
	featureVersion := d.ReadU16()
	if d.Err() != nil {
		return nil, d.Err()
	}

	versions := pv.DPP.StateTransitionSerializationVersions
	var (
		st     StateTransition
		bounds version.FeatureVersionBounds
	)
	switch variant {
	case variantDataContractCreate:
		st, bounds = &DataContractCreateTransitionV0{}, versions.ContractCreate
	case variantDataContractUpdate:
		st, bounds = &DataContractUpdateTransitionV0{}, versions.ContractUpdate
	case variantDocumentsBatch:
		st, bounds = &DocumentsBatchTransitionV0{}, versions.DocumentsBatch
	case variantIdentityCreate:
		st, bounds = &IdentityCreateTransitionV0{}, versions.IdentityCreate
	case variantIdentityTopUp:
		st, bounds = &IdentityTopUpTransitionV0{}, versions.IdentityTopUp
	case variantIdentityCreditWithdrawal:
		st, bounds = &IdentityCreditWithdrawalTransitionV0{}, versions.IdentityCreditWithdrawal
	case variantIdentityUpdate:
		st, bounds = &IdentityUpdateTransitionV0{}, versions.IdentityUpdate
	case variantIdentityCreditTransfer:
		st, bounds = &IdentityCreditTransferTransitionV0{}, versions.IdentityCreditTransfer
	default:
		return nil, &commonerrors.PlatformDeserializationError{Reason: fmt.Sprintf("unknown state transition variant %d", variant)}
	}
	if !bounds.CheckVersion(featureVersion) {
		return nil, &UnsupportedFeatureVersionError{Type: st.Type(), Version: featureVersion, Accepted: bounds}
	}

	d.Decode(st)
	if d.Err() != nil {
		return nil, errors.WithMessagef(d.Err(), "decoding %s", st.Type())
	}
	if d.Remaining() != 0 {
		return nil, &commonerrors.PlatformDeserializationError{
			Reason: fmt.Sprintf("%d trailing bytes after %s", d.Remaining(), st.Type()),
		}
	}
	logger.Debugf("deserialized %s transition of %d bytes", st.Type(), len(b))
	return st, nil
}
