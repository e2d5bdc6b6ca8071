/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"fmt"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
)

type partialIdentityResult = consensus.ValidationResult[*identity.PartialIdentity]

// validateIdentitySignature checks that st is signed by an enabled
// authentication key of its owner that meets required.
func (p *Platform) validateIdentitySignature(ctx context.Context, st statetransition.IdentitySigned,
	required identity.SecurityLevel, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	result := consensus.NewValidationResult[*identity.PartialIdentity]()

	ownerID := st.OwnerID()
	owner, err := p.Repository.FetchIdentity(ctx, ownerID, ec)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		result.AddError(&consensus.IdentityNotFoundError{IdentityID: ownerID})
		return result, nil
	}

	keyID := st.SignaturePublicKeyID()
	key, ok := owner.PublicKey(keyID)
	if !ok {
		result.AddError(&consensus.MissingPublicKeyError{PublicKeyID: keyID})
		return result, nil
	}
	if key.IsDisabled() {
		result.AddError(&consensus.PublicKeyIsDisabledError{PublicKeyID: keyID})
		return result, nil
	}
	if key.Purpose != identity.PurposeAuthentication {
		result.AddError(&consensus.WrongPublicKeyPurposeError{
			PublicKeyPurpose:      uint8(key.Purpose),
			KeyPurposeRequirement: uint8(identity.PurposeAuthentication),
		})
		return result, nil
	}
	if err := securityLevelError(key.SecurityLevel, required); err != nil {
		result.AddError(err)
		return result, nil
	}
	if !key.Type.CanSign() {
		result.AddError(&consensus.InvalidIdentityPublicKeyTypeError{PublicKeyType: uint8(key.Type)})
		return result, nil
	}

	signable, err := st.SignableBytes()
	if err != nil {
		return nil, err
	}
	if err := identity.VerifySignature(&key, signable, st.Signature()); err != nil {
		logger.Debugf("Signature of %s by key %d of %s does not verify: %s", st.Type(), keyID, ownerID, err)
		result.AddError(&consensus.InvalidStateTransitionSignatureError{})
		return result, nil
	}

	result.SetData(owner.Partial(keyID))
	return result, nil
}

// securityLevelError returns nil when a key of level may sign a transition
// requiring required. Master keys only sign transitions requiring master.
func securityLevelError(level, required identity.SecurityLevel) consensus.Error {
	if required == identity.SecurityLevelMaster || level == identity.SecurityLevelMaster {
		if level == required {
			return nil
		}
		return &consensus.InvalidSignaturePublicKeySecurityLevelError{
			PublicKeySecurityLevel: uint8(level),
			RequiredSecurityLevels: allowedSecurityLevels(required),
		}
	}
	if !level.Satisfies(required) {
		return &consensus.PublicKeySecurityLevelNotMetError{
			PublicKeySecurityLevel: uint8(level),
			RequiredSecurityLevel:  uint8(required),
		}
	}
	return nil
}

func allowedSecurityLevels(required identity.SecurityLevel) []uint8 {
	if required == identity.SecurityLevelMaster {
		return []uint8{uint8(identity.SecurityLevelMaster)}
	}
	var levels []uint8
	for l := identity.SecurityLevelCritical; l <= required; l++ {
		levels = append(levels, uint8(l))
	}
	return levels
}

// assetLockOutput resolves the funding output an asset lock proof points
// to. Chain proofs read the transaction from the repository.
func (p *Platform) assetLockOutput(ctx context.Context, proof identity.AssetLockProof,
	ec *staterepository.ExecutionContext) (*consensus.ValidationResult[*identity.AssetLockOutput], error) {
	switch proof := proof.(type) {
	case *identity.InstantAssetLockProof:
		return identity.ValidateAssetLockTransaction(proof.Transaction, proof.OutputIndex), nil

	case *identity.ChainAssetLockProof:
		result := consensus.NewValidationResult[*identity.AssetLockOutput]()
		current, err := p.Repository.FetchLatestPlatformCoreChainLockedHeight(ctx, ec)
		if err != nil {
			return nil, err
		}
		if proof.CoreChainLockedHeight > current {
			result.AddError(&consensus.InvalidAssetLockProofCoreChainHeightError{
				ProofCoreChainLockedHeight:   proof.CoreChainLockedHeight,
				CurrentCoreChainLockedHeight: current,
			})
			return result, nil
		}

		outPoint := proof.OutPoint()
		raw, err := p.Repository.FetchTransaction(ctx, outPoint.TransactionID(), ec)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			result.AddError(&consensus.InvalidIdentityAssetLockTransactionError{
				Message: fmt.Sprintf("asset lock transaction %x is not known", outPoint.TransactionID()),
			})
			return result, nil
		}
		output := identity.ValidateAssetLockTransaction(raw, outPoint.OutputIndex())
		if output.IsValid() && output.Data().OutPoint != outPoint {
			result.AddError(&consensus.InvalidIdentityAssetLockTransactionError{
				Message: fmt.Sprintf("transaction stored for out point %s has a different id", outPoint),
			})
			return result, nil
		}
		return output, nil
	}
	return nil, &commonerrors.CorruptedCodeExecutionError{Reason: fmt.Sprintf("unknown asset lock proof %T", proof)}
}

// validateAssetLockSignature checks that st is signed by the one-time key
// of its asset lock output.
func validateAssetLockSignature(st statetransition.StateTransition, output *identity.AssetLockOutput) (*consensus.SimpleValidationResult, error) {
	signable, err := st.SignableBytes()
	if err != nil {
		return nil, err
	}
	if err := identity.VerifyHash160Signature(output.PublicKeyHash, signable, st.Signature()); err != nil {
		logger.Debugf("Asset lock signature of %s does not verify: %s", st.Type(), err)
		return consensus.NewSimpleValidationResult(&consensus.InvalidStateTransitionSignatureError{}), nil
	}
	return consensus.NewSimpleValidationResult(), nil
}

// validateKeySignatures checks the proof of possession of every added key
// that can sign.
func validateKeySignatures(st statetransition.StateTransition, keys []statetransition.IdentityPublicKeyInCreation) (*consensus.SimpleValidationResult, error) {
	result := consensus.NewSimpleValidationResult()
	signable, err := st.SignableBytes()
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if !k.Type.CanSign() {
			continue
		}
		key := k.PublicKey()
		if err := identity.VerifySignature(&key, signable, k.Signature); err != nil {
			result.AddError(&consensus.InvalidIdentityKeySignatureError{PublicKeyID: k.ID})
		}
	}
	return result, nil
}

var allowedSecurityLevelsByPurpose = map[identity.Purpose][]identity.SecurityLevel{
	identity.PurposeAuthentication: {
		identity.SecurityLevelMaster, identity.SecurityLevelCritical, identity.SecurityLevelHigh, identity.SecurityLevelMedium,
	},
	identity.PurposeEncryption: {identity.SecurityLevelMedium},
	identity.PurposeDecryption: {identity.SecurityLevelMedium},
	identity.PurposeWithdraw:   {identity.SecurityLevelCritical},
}

// validatePublicKeysStructure runs the stateless checks of keys added to
// an identity.
func validatePublicKeysStructure(keys []statetransition.IdentityPublicKeyInCreation) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	if len(keys) > identity.MaxPublicKeys {
		result.AddError(&consensus.MaxIdentityPublicKeyLimitReachedError{MaxItems: identity.MaxPublicKeys})
		return result
	}

	ids := map[identity.KeyID]bool{}
	data := map[string]bool{}
	var duplicatedIDs, duplicatedData []uint32
	for _, k := range keys {
		if ids[k.ID] {
			duplicatedIDs = append(duplicatedIDs, k.ID)
		}
		ids[k.ID] = true
		if data[string(k.Data)] {
			duplicatedData = append(duplicatedData, k.ID)
		}
		data[string(k.Data)] = true
	}
	if len(duplicatedIDs) > 0 {
		result.AddError(&consensus.DuplicatedIdentityPublicKeyIDError{DuplicatedIDs: duplicatedIDs})
	}
	if len(duplicatedData) > 0 {
		result.AddError(&consensus.DuplicatedIdentityPublicKeyError{DuplicatedPublicKeyIDs: duplicatedData})
	}

	for _, k := range keys {
		if !k.Type.IsValid() {
			result.AddError(&consensus.InvalidIdentityPublicKeyTypeBasicError{PublicKeyType: uint8(k.Type)})
			continue
		}
		key := k.PublicKey()
		if err := key.ValidateData(); err != nil {
			result.AddError(&consensus.InvalidIdentityPublicKeyDataError{PublicKeyID: k.ID, ValidationError: err.Error()})
		}
		if !securityLevelAllowed(k.Purpose, k.SecurityLevel) {
			result.AddError(&consensus.InvalidIdentityPublicKeySecurityLevelError{
				PublicKeyID:   k.ID,
				Purpose:       uint8(k.Purpose),
				SecurityLevel: uint8(k.SecurityLevel),
			})
		}
	}
	return result
}

func securityLevelAllowed(purpose identity.Purpose, level identity.SecurityLevel) bool {
	for _, l := range allowedSecurityLevelsByPurpose[purpose] {
		if l == level {
			return true
		}
	}
	return false
}

func hasMasterKey(keys []identity.PublicKey) bool {
	for _, k := range keys {
		if k.Purpose == identity.PurposeAuthentication && k.SecurityLevel == identity.SecurityLevelMaster && !k.IsDisabled() {
			return true
		}
	}
	return false
}
