/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"sort"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/datacontract/validator"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

// validateContract runs the data contract validator on a carried contract,
// which travels without its protocol version.
func (p *Platform) validateContract(raw value.Value, pv *version.PlatformVersion) (*consensus.SimpleValidationResult, error) {
	withVersion := raw.Clone()
	if err := withVersion.Set(datacontract.PropertyProtocolVersion, value.NewU32(p.ProtocolVersion)); err != nil {
		return nil, err
	}
	return validator.New(p.protocolVersionValidator(), pv).Validate(withVersion)
}

type contractCarrier interface {
	Contract(pv *version.PlatformVersion) (datacontract.DataContract, error)
}

func parsedContract(st contractCarrier, pv *version.PlatformVersion) (datacontract.DataContract, consensus.Error) {
	c, err := st.Contract(pv)
	if err != nil {
		return nil, &consensus.SerializedObjectParsingError{ParsingError: err.Error()}
	}
	return c, nil
}

type dataContractCreate struct {
	st *statetransition.DataContractCreateTransitionV0
}

func (v *dataContractCreate) ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	if err := checkStage("data contract create transition: structure", stages(pv).ContractCreate.Structure); err != nil {
		return nil, err
	}
	if result := pv.ValidateContractCreateVersion(v.st.FeatureVersion()); !result.IsValid() {
		return result, nil
	}
	result, err := statetransition.ValidateSchema(v.st)
	if err != nil || !result.IsValid() {
		return result, err
	}

	expected := datacontract.GenerateDataContractID(v.st.OwnerID(), v.st.Entropy[:])
	if actual := v.st.DataContractID(); expected != actual {
		return consensus.NewSimpleValidationResult(&consensus.InvalidDataContractIDError{
			ExpectedID: expected.Bytes(),
			InvalidID:  actual.Bytes(),
		}), nil
	}
	return p.validateContract(v.st.DataContract, pv)
}

func (v *dataContractCreate) ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	if err := checkStage("data contract create transition: identity signatures", stages(pv).ContractCreate.IdentitySignatures); err != nil {
		return nil, err
	}
	return p.validateIdentitySignature(ctx, v.st, identity.SecurityLevelHigh, ec)
}

func (v *dataContractCreate) ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("data contract create transition: state", stages(pv).ContractCreate.State); err != nil {
		return nil, err
	}
	id := v.st.DataContractID()
	existing, err := p.Repository.FetchDataContract(ctx, id, ec)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return stateResult(ec, invalidAction(&consensus.DataContractAlreadyPresentError{DataContractID: id})), nil
	}
	return v.transform(pv), nil
}

func (v *dataContractCreate) TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("data contract create transition: transform into action", stages(pv).ContractCreate.TransformIntoAction); err != nil {
		return nil, err
	}
	return v.transform(pv), nil
}

func (v *dataContractCreate) transform(pv *version.PlatformVersion) *consensus.ValidationResult[action.Action] {
	c, cerr := parsedContract(v.st, pv)
	if cerr != nil {
		return invalidAction(cerr)
	}
	return validAction(&action.DataContractCreateAction{DataContract: c})
}

type dataContractUpdate struct {
	st *statetransition.DataContractUpdateTransitionV0
}

func (v *dataContractUpdate) ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	if err := checkStage("data contract update transition: structure", stages(pv).ContractUpdate.Structure); err != nil {
		return nil, err
	}
	if result := pv.ValidateContractUpdateVersion(v.st.FeatureVersion()); !result.IsValid() {
		return result, nil
	}
	result, err := statetransition.ValidateSchema(v.st)
	if err != nil || !result.IsValid() {
		return result, err
	}
	return p.validateContract(v.st.DataContract, pv)
}

func (v *dataContractUpdate) ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	if err := checkStage("data contract update transition: identity signatures", stages(pv).ContractUpdate.IdentitySignatures); err != nil {
		return nil, err
	}
	return p.validateIdentitySignature(ctx, v.st, identity.SecurityLevelHigh, ec)
}

func (v *dataContractUpdate) ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("data contract update transition: state", stages(pv).ContractUpdate.State); err != nil {
		return nil, err
	}
	id := v.st.DataContractID()
	existing, err := p.Repository.FetchDataContract(ctx, id, ec)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return stateResult(ec, invalidAction(&consensus.DataContractNotPresentError{DataContractID: id})), nil
	}
	updated, cerr := parsedContract(v.st, pv)
	if cerr != nil {
		return stateResult(ec, invalidAction(cerr)), nil
	}

	result := consensus.NewValidationResult[action.Action]()
	if existing.Config().Readonly {
		result.AddError(&consensus.DataContractIsReadonlyError{DataContractID: id})
		return stateResult(ec, result), nil
	}
	if expected := existing.Version() + 1; updated.Version() != expected {
		result.AddError(&consensus.InvalidDataContractVersionError{ExpectedVersion: expected, Version: updated.Version()})
	}
	if updated.OwnerID() != existing.OwnerID() {
		result.AddError(&consensus.DataContractConfigUpdateError{DataContractID: id, Message: "owner id can not be changed"})
	}
	if updated.Schema() != existing.Schema() {
		result.AddError(&consensus.DataContractImmutablePropertiesUpdateError{Operation: "replace", FieldPath: "/$schema"})
	}
	for _, name := range changedConfig(existing.Config(), updated.Config()) {
		result.AddError(&consensus.DataContractConfigUpdateError{DataContractID: id, Message: name + " can not be changed"})
	}
	result.AddErrors(incompatibleSchemaChanges(existing, updated)...)
	if !result.IsValid() {
		return stateResult(ec, result), nil
	}
	return validAction(&action.DataContractUpdateAction{DataContract: updated}), nil
}

func (v *dataContractUpdate) TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("data contract update transition: transform into action", stages(pv).ContractUpdate.TransformIntoAction); err != nil {
		return nil, err
	}
	c, cerr := parsedContract(v.st, pv)
	if cerr != nil {
		return invalidAction(cerr), nil
	}
	return validAction(&action.DataContractUpdateAction{DataContract: c}), nil
}

func changedConfig(old, updated datacontract.Config) []string {
	var changed []string
	for _, f := range []struct {
		name       string
		old, value bool
	}{
		{"canBeDeleted", old.CanBeDeleted, updated.CanBeDeleted},
		{"readonly", old.Readonly, updated.Readonly},
		{"keepsHistory", old.KeepsHistory, updated.KeepsHistory},
		{"documentsKeepHistoryContractDefault", old.DocumentsKeepHistoryContractDefault, updated.DocumentsKeepHistoryContractDefault},
		{"documentsMutableContractDefault", old.DocumentsMutableContractDefault, updated.DocumentsMutableContractDefault},
	} {
		if f.old != f.value {
			changed = append(changed, f.name)
		}
	}
	return changed
}

// incompatibleSchemaChanges lists the changes that could invalidate stored
// documents. Adding document types, optional properties and definitions
// is allowed.
func incompatibleSchemaChanges(old, updated datacontract.DataContract) []consensus.Error {
	var errs []consensus.Error
	incompatible := func(operation, path string) {
		errs = append(errs, &consensus.IncompatibleDataContractSchemaError{
			DataContractID: old.ID(),
			Operation:      operation,
			FieldPath:      path,
		})
	}

	oldTypes := old.DocumentTypes()
	names := make([]string, 0, len(oldTypes))
	for name := range oldTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := "/documents/" + name
		oldType := oldTypes[name]
		newType, err := updated.DocumentType(name)
		if err != nil {
			incompatible("remove", path)
			continue
		}

		oldProps, _, _ := oldType.Schema.GetOptionalMap(datacontract.SchemaProperties)
		newProps, _, _ := newType.Schema.GetOptionalMap(datacontract.SchemaProperties)
		for _, prop := range oldProps.Keys() {
			oldDef, _ := oldProps.Get(prop)
			newDef, ok := newProps.Get(prop)
			switch {
			case !ok:
				incompatible("remove", path+"/properties/"+prop)
			case !oldDef.Equal(newDef):
				incompatible("replace", path+"/properties/"+prop)
			}
		}

		oldRequired := stringSet(oldType.Required)
		newRequired := stringSet(newType.Required)
		for _, r := range newType.Required {
			if !oldRequired[r] {
				incompatible("add", path+"/required/"+r)
			}
		}
		for _, r := range oldType.Required {
			if !newRequired[r] {
				incompatible("remove", path+"/required/"+r)
			}
		}

		if !sameIndices(oldType.Indices, newType.Indices) {
			incompatible("replace", path+"/indices")
		}
	}

	newDefs := updated.Defs()
	for _, name := range value.NewMap(old.Defs()).Keys() {
		newDef, ok := newDefs[name]
		switch {
		case !ok:
			incompatible("remove", "/$defs/"+name)
		case !old.Defs()[name].Equal(newDef):
			incompatible("replace", "/$defs/"+name)
		}
	}
	return errs
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

func sameIndices(a, b []datacontract.Index) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Unique != b[i].Unique || a[i].Fingerprint() != b[i].Fingerprint() {
			return false
		}
	}
	return true
}
