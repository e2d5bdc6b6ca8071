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

// assetLockFunded caches the funding output resolved by the signature
// stage for the later stages.
type assetLockFunded struct {
	output *identity.AssetLockOutput
}

func (f *assetLockFunded) fundingOutput(ctx context.Context, p *Platform, proof identity.AssetLockProof,
	ec *staterepository.ExecutionContext) (*consensus.ValidationResult[*identity.AssetLockOutput], error) {
	if f.output != nil {
		return consensus.NewValidationResultWithData(f.output), nil
	}
	result, err := p.assetLockOutput(ctx, proof, ec)
	if err != nil {
		return nil, err
	}
	if result.IsValid() {
		f.output = result.Data()
	}
	return result, nil
}

// instantLockStructure validates the transaction carried by an instant
// asset lock proof. Chain proofs are resolved in the signature stage.
func instantLockStructure(proof identity.AssetLockProof) *consensus.SimpleValidationResult {
	instant, ok := proof.(*identity.InstantAssetLockProof)
	if !ok {
		return consensus.NewSimpleValidationResult()
	}
	return identity.ValidateAssetLockTransaction(instant.Transaction, instant.OutputIndex).Simple()
}

func outPointUsedError(ctx context.Context, p *Platform, outPoint identity.OutPoint, ec *staterepository.ExecutionContext) (consensus.Error, error) {
	used, err := p.Repository.IsAssetLockTransactionOutPointAlreadyUsed(ctx, outPoint, ec)
	if err != nil || !used {
		return nil, err
	}
	return &consensus.IdentityAssetLockTransactionOutPointAlreadyExistsError{
		TransactionID: outPoint.TransactionID(),
		OutputIndex:   outPoint.OutputIndex(),
	}, nil
}

type identityCreate struct {
	assetLockFunded
	st *statetransition.IdentityCreateTransitionV0
}

func (v *identityCreate) ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	if err := checkStage("identity create transition: structure", stages(pv).IdentityCreate.Structure); err != nil {
		return nil, err
	}
	if result := pv.ValidateIdentityCreateVersion(v.st.FeatureVersion()); !result.IsValid() {
		return result, nil
	}
	result, err := statetransition.ValidateSchema(v.st)
	if err != nil || !result.IsValid() {
		return result, err
	}

	if result = validatePublicKeysStructure(v.st.PublicKeys); !result.IsValid() {
		return result, nil
	}
	if !hasMasterKey(publicKeys(v.st.PublicKeys)) {
		return consensus.NewSimpleValidationResult(&consensus.MissingMasterPublicKeyError{}), nil
	}
	return instantLockStructure(v.st.AssetLockProof), nil
}

func publicKeys(keys []statetransition.IdentityPublicKeyInCreation) []identity.PublicKey {
	out := make([]identity.PublicKey, len(keys))
	for i := range keys {
		out[i] = keys[i].PublicKey()
	}
	return out
}

func (v *identityCreate) ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	if err := checkStage("identity create transition: identity signatures", stages(pv).IdentityCreate.IdentitySignatures); err != nil {
		return nil, err
	}
	result := consensus.NewValidationResult[*identity.PartialIdentity]()
	output, err := v.fundingOutput(ctx, p, v.st.AssetLockProof, ec)
	if err != nil {
		return nil, err
	}
	if !output.IsValid() {
		result.Merge(output)
		return result, nil
	}

	signature, err := validateAssetLockSignature(v.st, output.Data())
	if err != nil {
		return nil, err
	}
	if !signature.IsValid() {
		result.Merge(signature)
		return result, nil
	}
	keySignatures, err := validateKeySignatures(v.st, v.st.PublicKeys)
	if err != nil {
		return nil, err
	}
	if !keySignatures.IsValid() {
		result.Merge(keySignatures)
		return result, nil
	}
	result.SetData(&identity.PartialIdentity{ID: v.st.IdentityID()})
	return result, nil
}

func (v *identityCreate) ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity create transition: state", stages(pv).IdentityCreate.State); err != nil {
		return nil, err
	}
	id := v.st.IdentityID()
	existing, err := p.Repository.FetchIdentity(ctx, id, ec)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return stateResult(ec, invalidAction(&consensus.IdentityAlreadyExistsError{IdentityID: id})), nil
	}
	usedErr, err := outPointUsedError(ctx, p, v.st.AssetLockProof.OutPoint(), ec)
	if err != nil {
		return nil, err
	}
	if usedErr != nil {
		return stateResult(ec, invalidAction(usedErr)), nil
	}
	return v.TransformIntoAction(ctx, p, pv, ec)
}

func (v *identityCreate) TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity create transition: transform into action", stages(pv).IdentityCreate.TransformIntoAction); err != nil {
		return nil, err
	}
	output, err := v.fundingOutput(ctx, p, v.st.AssetLockProof, ec)
	if err != nil {
		return nil, err
	}
	if !output.IsValid() {
		return invalidAction(output.ErrorList()...), nil
	}
	return validAction(&action.IdentityCreateAction{
		IdentityID:        v.st.IdentityID(),
		PublicKeys:        publicKeys(v.st.PublicKeys),
		InitialBalance:    output.Data().Credits(),
		AssetLockOutPoint: output.Data().OutPoint,
	}), nil
}

type identityTopUp struct {
	assetLockFunded
	st *statetransition.IdentityTopUpTransitionV0
}

func (v *identityTopUp) ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	if err := checkStage("identity top up transition: structure", stages(pv).IdentityTopUp.Structure); err != nil {
		return nil, err
	}
	if result := pv.ValidateIdentityTopUpVersion(v.st.FeatureVersion()); !result.IsValid() {
		return result, nil
	}
	result, err := statetransition.ValidateSchema(v.st)
	if err != nil || !result.IsValid() {
		return result, err
	}
	return instantLockStructure(v.st.AssetLockProof), nil
}

func (v *identityTopUp) ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	if err := checkStage("identity top up transition: identity signatures", stages(pv).IdentityTopUp.IdentitySignatures); err != nil {
		return nil, err
	}
	result := consensus.NewValidationResult[*identity.PartialIdentity]()
	existing, err := p.Repository.FetchIdentity(ctx, v.st.IdentityID, ec)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		result.AddError(&consensus.IdentityNotFoundError{IdentityID: v.st.IdentityID})
		return result, nil
	}

	output, err := v.fundingOutput(ctx, p, v.st.AssetLockProof, ec)
	if err != nil {
		return nil, err
	}
	if !output.IsValid() {
		result.Merge(output)
		return result, nil
	}
	signature, err := validateAssetLockSignature(v.st, output.Data())
	if err != nil {
		return nil, err
	}
	if !signature.IsValid() {
		result.Merge(signature)
		return result, nil
	}
	result.SetData(existing.Partial())
	return result, nil
}

func (v *identityTopUp) ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity top up transition: state", stages(pv).IdentityTopUp.State); err != nil {
		return nil, err
	}
	usedErr, err := outPointUsedError(ctx, p, v.st.AssetLockProof.OutPoint(), ec)
	if err != nil {
		return nil, err
	}
	if usedErr != nil {
		return stateResult(ec, invalidAction(usedErr)), nil
	}
	return v.TransformIntoAction(ctx, p, pv, ec)
}

func (v *identityTopUp) TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity top up transition: transform into action", stages(pv).IdentityTopUp.TransformIntoAction); err != nil {
		return nil, err
	}
	output, err := v.fundingOutput(ctx, p, v.st.AssetLockProof, ec)
	if err != nil {
		return nil, err
	}
	if !output.IsValid() {
		return invalidAction(output.ErrorList()...), nil
	}
	return validAction(&action.IdentityTopUpAction{
		IdentityID:        v.st.IdentityID,
		TopUpBalance:      output.Data().Credits(),
		AssetLockOutPoint: output.Data().OutPoint,
	}), nil
}
