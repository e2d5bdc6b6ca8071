/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"

	"github.com/btcsuite/btcd/txscript"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/systemcontracts"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

// minWithdrawalAmount is the smallest withdrawal in credits.
const minWithdrawalAmount uint64 = 1000

type identityCreditWithdrawal struct {
	st *statetransition.IdentityCreditWithdrawalTransitionV0
}

func (v *identityCreditWithdrawal) ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	if err := checkStage("identity credit withdrawal transition: structure", stages(pv).IdentityCreditWithdrawal.Structure); err != nil {
		return nil, err
	}
	if result := pv.ValidateIdentityCreditWithdrawalVersion(v.st.FeatureVersion()); !result.IsValid() {
		return result, nil
	}
	result, err := statetransition.ValidateSchema(v.st)
	if err != nil || !result.IsValid() {
		return result, err
	}

	if v.st.Amount < minWithdrawalAmount {
		result.AddError(&consensus.InvalidIdentityCreditWithdrawalTransitionAmountError{Amount: v.st.Amount, MinAmount: minWithdrawalAmount})
	}
	if !isFibonacci(v.st.CoreFeePerByte) {
		result.AddError(&consensus.InvalidIdentityCreditWithdrawalTransitionCoreFeeError{CoreFee: v.st.CoreFeePerByte})
	}
	if v.st.Pooling != statetransition.PoolingNever {
		result.AddError(&consensus.NotImplementedIdentityCreditWithdrawalPoolingError{Pooling: uint8(v.st.Pooling)})
	}
	switch txscript.GetScriptClass(v.st.OutputScript) {
	case txscript.PubKeyHashTy, txscript.ScriptHashTy:
	default:
		result.AddError(&consensus.InvalidIdentityCreditWithdrawalTransitionOutputScriptError{OutputScript: v.st.OutputScript})
	}
	return result, nil
}

func isFibonacci(n uint32) bool {
	a, b := uint64(1), uint64(2)
	for a < uint64(n) {
		a, b = b, a+b
	}
	return a == uint64(n)
}

func (v *identityCreditWithdrawal) ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	if err := checkStage("identity credit withdrawal transition: identity signatures", stages(pv).IdentityCreditWithdrawal.IdentitySignatures); err != nil {
		return nil, err
	}
	return p.validateIdentitySignature(ctx, v.st, identity.SecurityLevelCritical, ec)
}

func (v *identityCreditWithdrawal) ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity credit withdrawal transition: state", stages(pv).IdentityCreditWithdrawal.State); err != nil {
		return nil, err
	}
	existing, err := p.Repository.FetchIdentity(ctx, v.st.IdentityID, ec)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return stateResult(ec, invalidAction(&consensus.IdentityNotFoundError{IdentityID: v.st.IdentityID})), nil
	}
	if existing.Balance < v.st.Amount {
		return stateResult(ec, invalidAction(&consensus.IdentityInsufficientBalanceError{
			IdentityID: v.st.IdentityID,
			Balance:    existing.Balance,
		})), nil
	}
	if v.st.Revision == 0 || existing.Revision != v.st.Revision-1 {
		return stateResult(ec, invalidAction(&consensus.InvalidIdentityRevisionError{
			IdentityID:      v.st.IdentityID,
			CurrentRevision: existing.Revision,
		})), nil
	}
	return v.transform(ctx, p, ec)
}

func (v *identityCreditWithdrawal) TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity credit withdrawal transition: transform into action", stages(pv).IdentityCreditWithdrawal.TransformIntoAction); err != nil {
		return nil, err
	}
	return v.transform(ctx, p, ec)
}

// transform prepares the queued withdrawal document. Its timestamps are
// the block time truncated to seconds.
func (v *identityCreditWithdrawal) transform(ctx context.Context, p *Platform, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	header, err := p.blockHeader(ctx, ec)
	if err != nil {
		return nil, err
	}
	var createdAt uint64
	if header.Time.Seconds > 0 {
		createdAt = uint64(header.Time.Seconds) * 1000
	}
	updatedAt := createdAt
	revision := document.InitialRevision

	doc := &document.Document{
		ID: document.GenerateDocumentID(
			systemcontracts.WithdrawalsContractID,
			v.st.IdentityID,
			systemcontracts.WithdrawalDocumentType,
			v.st.OutputScript,
		),
		OwnerID: v.st.IdentityID,
		Properties: map[string]value.Value{
			systemcontracts.WithdrawalAmount:         value.NewU64(v.st.Amount),
			systemcontracts.WithdrawalCoreFeePerByte: value.NewU32(v.st.CoreFeePerByte),
			systemcontracts.WithdrawalPooling:        value.NewU8(uint8(statetransition.PoolingNever)),
			systemcontracts.WithdrawalOutputScript:   value.NewBytes(v.st.OutputScript),
			systemcontracts.WithdrawalStatus:         value.NewU8(uint8(systemcontracts.WithdrawalQueued)),
		},
		Revision:  &revision,
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}
	return validAction(&action.IdentityCreditWithdrawalActionV0{
		IdentityID:                 v.st.IdentityID,
		Revision:                   v.st.Revision,
		PreparedWithdrawalDocument: doc,
	}), nil
}
