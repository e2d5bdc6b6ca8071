/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/version"
)

type identityCreditTransfer struct {
	st *statetransition.IdentityCreditTransferTransitionV0
}

func (v *identityCreditTransfer) ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	if err := checkStage("identity credit transfer transition: structure", stages(pv).IdentityCreditTransfer.Structure); err != nil {
		return nil, err
	}
	if result := pv.ValidateIdentityCreditTransferVersion(v.st.FeatureVersion()); !result.IsValid() {
		return result, nil
	}
	result, err := statetransition.ValidateSchema(v.st)
	if err != nil || !result.IsValid() {
		return result, err
	}
	if v.st.IdentityID == v.st.RecipientID {
		result.AddError(&consensus.IdentityCreditTransferToSelfError{})
	}
	return result, nil
}

func (v *identityCreditTransfer) ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	if err := checkStage("identity credit transfer transition: identity signatures", stages(pv).IdentityCreditTransfer.IdentitySignatures); err != nil {
		return nil, err
	}
	return p.validateIdentitySignature(ctx, v.st, identity.SecurityLevelCritical, ec)
}

func (v *identityCreditTransfer) ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity credit transfer transition: state", stages(pv).IdentityCreditTransfer.State); err != nil {
		return nil, err
	}
	sender, err := p.Repository.FetchIdentity(ctx, v.st.IdentityID, ec)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return stateResult(ec, invalidAction(&consensus.IdentityNotFoundError{IdentityID: v.st.IdentityID})), nil
	}
	if sender.Balance < v.st.Amount {
		return stateResult(ec, invalidAction(&consensus.IdentityInsufficientBalanceError{
			IdentityID: v.st.IdentityID,
			Balance:    sender.Balance,
		})), nil
	}
	recipient, err := p.Repository.FetchIdentity(ctx, v.st.RecipientID, ec)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return stateResult(ec, invalidAction(&consensus.IdentityNotFoundError{IdentityID: v.st.RecipientID})), nil
	}
	return validAction(v.action()), nil
}

func (v *identityCreditTransfer) TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity credit transfer transition: transform into action", stages(pv).IdentityCreditTransfer.TransformIntoAction); err != nil {
		return nil, err
	}
	return validAction(v.action()), nil
}

func (v *identityCreditTransfer) action() *action.IdentityCreditTransferActionV0 {
	return &action.IdentityCreditTransferActionV0{
		IdentityID:     v.st.IdentityID,
		RecipientID:    v.st.RecipientID,
		TransferAmount: v.st.Amount,
	}
}
