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

type identityUpdate struct {
	st *statetransition.IdentityUpdateTransitionV0
}

func (v *identityUpdate) ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	if err := checkStage("identity update transition: structure", stages(pv).IdentityUpdate.Structure); err != nil {
		return nil, err
	}
	if result := pv.ValidateIdentityUpdateVersion(v.st.FeatureVersion()); !result.IsValid() {
		return result, nil
	}
	result, err := statetransition.ValidateSchema(v.st)
	if err != nil || !result.IsValid() {
		return result, err
	}

	if len(v.st.AddPublicKeys) == 0 && len(v.st.DisablePublicKeys) == 0 {
		return consensus.NewSimpleValidationResult(&consensus.InvalidIdentityUpdateTransitionEmptyError{}), nil
	}
	if (len(v.st.DisablePublicKeys) > 0) != (v.st.PublicKeysDisabledAt != nil) {
		return consensus.NewSimpleValidationResult(&consensus.InvalidIdentityUpdateTransitionDisableKeysError{}), nil
	}
	return validatePublicKeysStructure(v.st.AddPublicKeys), nil
}

func (v *identityUpdate) ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	if err := checkStage("identity update transition: identity signatures", stages(pv).IdentityUpdate.IdentitySignatures); err != nil {
		return nil, err
	}
	result, err := p.validateIdentitySignature(ctx, v.st, identity.SecurityLevelMaster, ec)
	if err != nil || !result.IsValid() {
		return result, err
	}
	keySignatures, err := validateKeySignatures(v.st, v.st.AddPublicKeys)
	if err != nil {
		return nil, err
	}
	if !keySignatures.IsValid() {
		return consensus.NewValidationResultWithErrors[*identity.PartialIdentity](keySignatures.ErrorList()...), nil
	}
	return result, nil
}

func (v *identityUpdate) ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity update transition: state", stages(pv).IdentityUpdate.State); err != nil {
		return nil, err
	}
	existing, err := p.Repository.FetchIdentity(ctx, v.st.IdentityID, ec)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return stateResult(ec, invalidAction(&consensus.IdentityNotFoundError{IdentityID: v.st.IdentityID})), nil
	}
	if v.st.Revision == 0 || existing.Revision != v.st.Revision-1 {
		return stateResult(ec, invalidAction(&consensus.InvalidIdentityRevisionError{
			IdentityID:      v.st.IdentityID,
			CurrentRevision: existing.Revision,
		})), nil
	}

	result := consensus.NewValidationResult[action.Action]()
	for _, id := range v.st.DisablePublicKeys {
		key, ok := existing.PublicKey(id)
		switch {
		case !ok:
			result.AddError(&consensus.InvalidIdentityPublicKeyIDError{ID: id})
		case key.ReadOnly:
			result.AddError(&consensus.IdentityPublicKeyIsReadOnlyError{PublicKeyIndex: id})
		case key.IsDisabled():
			result.AddError(&consensus.IdentityPublicKeyIsDisabledError{PublicKeyIndex: id})
		}
	}
	if !result.IsValid() {
		return stateResult(ec, result), nil
	}

	if v.st.PublicKeysDisabledAt != nil {
		header, err := p.blockHeader(ctx, ec)
		if err != nil {
			return nil, err
		}
		start, end := timeWindow(header.TimeMillis())
		if at := *v.st.PublicKeysDisabledAt; at < start || at > end {
			return stateResult(ec, invalidAction(&consensus.IdentityPublicKeyDisabledAtWindowViolationError{
				DisabledAt:      at,
				TimeWindowStart: start,
				TimeWindowEnd:   end,
			})), nil
		}
	}

	var duplicatedIDs, duplicatedData []uint32
	data := map[string]bool{}
	for _, k := range existing.PublicKeys {
		data[string(k.Data)] = true
	}
	for _, k := range v.st.AddPublicKeys {
		if _, ok := existing.PublicKey(k.ID); ok {
			duplicatedIDs = append(duplicatedIDs, k.ID)
		}
		if data[string(k.Data)] {
			duplicatedData = append(duplicatedData, k.ID)
		}
	}
	if len(duplicatedIDs) > 0 {
		result.AddError(&consensus.DuplicatedIdentityPublicKeyIDStateError{DuplicatedIDs: duplicatedIDs})
	}
	if len(duplicatedData) > 0 {
		result.AddError(&consensus.DuplicatedIdentityPublicKeyStateError{DuplicatedPublicKeyIDs: duplicatedData})
	}
	if !result.IsValid() {
		return stateResult(ec, result), nil
	}

	updated := v.updatedKeys(existing)
	enabled := 0
	for _, k := range updated {
		if !k.IsDisabled() {
			enabled++
		}
	}
	if enabled > identity.MaxPublicKeys {
		return stateResult(ec, invalidAction(&consensus.MaxIdentityPublicKeyLimitReachedError{MaxItems: identity.MaxPublicKeys})), nil
	}
	if !hasMasterKey(updated) {
		return stateResult(ec, invalidAction(&consensus.MissingMasterPublicKeyError{})), nil
	}
	return validAction(v.action()), nil
}

// updatedKeys returns the keys of existing once the update is applied.
func (v *identityUpdate) updatedKeys(existing *identity.Identity) []identity.PublicKey {
	disabled := map[identity.KeyID]bool{}
	for _, id := range v.st.DisablePublicKeys {
		disabled[id] = true
	}
	var keys []identity.PublicKey
	for _, id := range existing.PublicKeyIDs() {
		k := existing.PublicKeys[id]
		if disabled[id] {
			k.DisabledAt = v.st.PublicKeysDisabledAt
		}
		keys = append(keys, k)
	}
	return append(keys, publicKeys(v.st.AddPublicKeys)...)
}

func (v *identityUpdate) TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("identity update transition: transform into action", stages(pv).IdentityUpdate.TransformIntoAction); err != nil {
		return nil, err
	}
	return validAction(v.action()), nil
}

func (v *identityUpdate) action() *action.IdentityUpdateAction {
	return &action.IdentityUpdateAction{
		IdentityID:           v.st.IdentityID,
		Revision:             v.st.Revision,
		AddPublicKeys:        publicKeys(v.st.AddPublicKeys),
		DisablePublicKeys:    v.st.DisablePublicKeys,
		PublicKeysDisabledAt: v.st.PublicKeysDisabledAt,
	}
}
