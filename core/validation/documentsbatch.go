/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"fmt"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/datacontract/validator"
	"github.com/dashpay/platform-drive/core/datatriggers"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/jsonschema"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/validation/uniqueness"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/dgraph-io/ristretto"
)

type documentsBatch struct {
	st *statetransition.DocumentsBatchTransitionV0
}

func (v *documentsBatch) ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	if err := checkStage("documents batch transition: structure", stages(pv).DocumentsBatch.Structure); err != nil {
		return nil, err
	}
	if result := pv.ValidateDocumentsBatchVersion(v.st.FeatureVersion()); !result.IsValid() {
		return result, nil
	}
	if n := len(v.st.Transitions); n > statetransition.MaxDocumentTransitions {
		return consensus.NewSimpleValidationResult(&consensus.DocumentTransitionsLimitExceededError{
			Count: uint32(n),
			Limit: statetransition.MaxDocumentTransitions,
		}), nil
	}
	result, err := statetransition.ValidateSchema(v.st)
	if err != nil || !result.IsValid() {
		return result, err
	}

	if dup := duplicateTransitions(v.st.Transitions); len(dup) > 0 {
		return consensus.NewSimpleValidationResult(&consensus.DuplicateDocumentTransitionsWithIDsError{References: dup}), nil
	}

	result = consensus.NewSimpleValidationResult()
	contracts := map[identifier.Identifier]datacontract.DataContract{}
	for _, t := range v.st.Transitions {
		base := t.BaseTransition()
		c, ok := contracts[base.DataContractID]
		if !ok {
			c, err = p.Repository.FetchDataContract(ctx, base.DataContractID, ec)
			if err != nil {
				return nil, err
			}
			contracts[base.DataContractID] = c
		}
		if c == nil {
			result.AddError(&consensus.DataContractNotPresentError{DataContractID: base.DataContractID})
			continue
		}
		documentType, err := c.DocumentType(base.DocumentType)
		if err != nil {
			result.AddError(&consensus.InvalidDocumentTypeError{DocumentType: base.DocumentType, DataContractID: c.ID()})
			continue
		}

		if create, ok := t.(*statetransition.DocumentCreateTransition); ok {
			expected := document.GenerateDocumentID(c.ID(), v.st.Owner, base.DocumentType, create.Entropy[:])
			if expected != base.ID {
				result.AddError(&consensus.InvalidDocumentTransitionIDError{ExpectedID: expected, InvalidID: base.ID})
				continue
			}
		}
		if t.Action() == statetransition.ActionDelete {
			continue
		}
		r, err := validateDocumentData(c, documentType, v.st.Owner, t)
		if err != nil {
			return nil, err
		}
		result.Merge(r)
	}
	return result, nil
}

func duplicateTransitions(transitions statetransition.DocumentTransitions) []consensus.DocumentTypeAndID {
	type ref struct {
		documentType string
		id           identifier.Identifier
	}
	seen := map[ref]int{}
	var dup []consensus.DocumentTypeAndID
	for _, t := range transitions {
		base := t.BaseTransition()
		r := ref{base.DocumentType, base.ID}
		seen[r]++
		if seen[r] == 2 {
			dup = append(dup, consensus.DocumentTypeAndID{DocumentType: base.DocumentType, DocumentID: base.ID})
		}
	}
	return dup
}

// documentInstance is the document a create or replace transition would
// store, with the system properties the base schema describes.
func documentInstance(ownerID identifier.Identifier, t statetransition.DocumentTransition) value.Value {
	base := t.BaseTransition()
	m := map[string]value.Value{}
	for k, item := range statetransition.DocumentData(t) {
		m[k] = item
	}
	m[document.PropertyID] = value.NewIdentifier(base.ID)
	m[document.PropertyType] = value.NewText(base.DocumentType)
	m[document.PropertyDataContractID] = value.NewIdentifier(base.DataContractID)
	m[document.PropertyOwnerID] = value.NewIdentifier(ownerID)
	switch t := t.(type) {
	case *statetransition.DocumentCreateTransition:
		m[document.PropertyRevision] = value.NewU64(document.InitialRevision)
		putTimestamp(m, document.PropertyCreatedAt, t.CreatedAt)
		putTimestamp(m, document.PropertyUpdatedAt, t.UpdatedAt)
	case *statetransition.DocumentReplaceTransition:
		m[document.PropertyRevision] = value.NewU64(t.Revision)
		putTimestamp(m, document.PropertyUpdatedAt, t.UpdatedAt)
	}
	return value.NewMap(m)
}

func putTimestamp(m map[string]value.Value, key string, ts *uint64) {
	if ts != nil {
		m[key] = value.NewU64(*ts)
	}
}

// validateDocumentData validates the data of a create or replace
// transition against its document schema.
func validateDocumentData(c datacontract.DataContract, documentType *datacontract.DocumentType, ownerID identifier.Identifier,
	t statetransition.DocumentTransition) (*consensus.SimpleValidationResult, error) {
	schema, result, err := documentSchemas.get(c, documentType.Name)
	if err != nil || !result.IsValid() {
		return result, err
	}
	instance := documentInstance(ownerID, t)
	result = schema.Validate(instance)
	if !result.IsValid() {
		return result, nil
	}
	result.AddErrors(inconsistentCompoundIndices(documentType, instance)...)
	return result, nil
}

// inconsistentCompoundIndices reports unique compound indices for which
// only some of the properties are set.
func inconsistentCompoundIndices(documentType *datacontract.DocumentType, instance value.Value) []consensus.Error {
	var errs []consensus.Error
	for _, index := range documentType.UniqueIndices() {
		if len(index.Properties) < 2 {
			continue
		}
		present := 0
		for _, name := range index.PropertyNames() {
			if v, ok := instance.GetAtPath(name); ok && !v.IsNull() {
				present++
			}
		}
		if present != 0 && present != len(index.Properties) {
			errs = append(errs, &consensus.InconsistentCompoundIndexDataError{
				DocumentType:    documentType.Name,
				IndexProperties: index.PropertyNames(),
			})
		}
	}
	return errs
}

// maxCachedSchemas bounds the number of compiled document schemas kept
// across contract versions.
const maxCachedSchemas = 1024

// schemaCache holds compiled document schemas by contract version.
type schemaCache struct {
	cache *ristretto.Cache
}

var documentSchemas = newSchemaCache(maxCachedSchemas)

func newSchemaCache(capacity int64) *schemaCache {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: capacity * 10,
		MaxCost:     capacity,
		BufferItems: 64,
	})
	if err != nil {
		panic(fmt.Sprintf("failed creating document schema cache: %s", err))
	}
	return &schemaCache{cache: cache}
}

func (sc *schemaCache) get(c datacontract.DataContract, name string) (*jsonschema.Schema, *consensus.SimpleValidationResult, error) {
	key := fmt.Sprintf("%s/%d/%s", c.ID(), c.Version(), name)
	if s, ok := sc.cache.Get(key); ok {
		return s.(*jsonschema.Schema), consensus.NewSimpleValidationResult(), nil
	}

	v0, err := datacontract.AsV0(c)
	if err != nil {
		return nil, nil, err
	}
	enriched, err := v0.EnrichWithBaseSchema(validator.DocumentBaseSchema(), datacontract.PrefixByte0, nil)
	if err != nil {
		return nil, nil, err
	}
	schema := enriched.Documents()[name].Clone()
	if defs := enriched.Defs(); defs != nil {
		if err := schema.Set(datacontract.PropertyDefinitions, value.NewMap(defs)); err != nil {
			return nil, nil, err
		}
	}
	url := fmt.Sprintf("https://schema.dash.org/dpp-0-4-0/contract/%s/%s", enriched.JSONSchemaID(), name)
	compiled, result := jsonschema.CompileValue(url, schema)
	if !result.IsValid() {
		return nil, result, nil
	}
	sc.cache.Set(key, compiled, 1)
	sc.cache.Wait()
	return compiled, result, nil
}

func (v *documentsBatch) ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*partialIdentityResult, error) {
	if err := checkStage("documents batch transition: identity signatures", stages(pv).DocumentsBatch.IdentitySignatures); err != nil {
		return nil, err
	}
	return p.validateIdentitySignature(ctx, v.st, identity.SecurityLevelMedium, ec)
}

// batchState is what the state stage reads before checking transitions.
type batchState struct {
	header    *staterepository.BlockHeader
	contracts map[identifier.Identifier]datacontract.DataContract
	existing  map[identifier.Identifier]*document.Document
}

func (v *documentsBatch) loadBatchState(ctx context.Context, p *Platform, ec *staterepository.ExecutionContext) (*batchState, error) {
	header, err := p.blockHeader(ctx, ec)
	if err != nil {
		return nil, err
	}
	s := &batchState{
		header:    header,
		contracts: map[identifier.Identifier]datacontract.DataContract{},
		existing:  map[identifier.Identifier]*document.Document{},
	}
	for _, t := range v.st.Transitions {
		base := t.BaseTransition()
		if _, ok := s.contracts[base.DataContractID]; !ok {
			c, err := p.Repository.FetchDataContract(ctx, base.DataContractID, ec)
			if err != nil {
				return nil, err
			}
			s.contracts[base.DataContractID] = c
		}
		docs, err := p.Repository.FetchDocuments(ctx, base.DataContractID, base.DocumentType, staterepository.Query{
			Where: []staterepository.WhereClause{{
				Field:    document.PropertyID,
				Operator: staterepository.OperatorEqual,
				Value:    value.NewIdentifier(base.ID),
			}},
			Limit: 1,
		}, ec)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			s.existing[base.ID] = docs[0]
		}
	}
	return s, nil
}

func (v *documentsBatch) ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("documents batch transition: state", stages(pv).DocumentsBatch.State); err != nil {
		return nil, err
	}
	s, err := v.loadBatchState(ctx, p, ec)
	if err != nil {
		return nil, err
	}

	result := consensus.NewValidationResult[action.Action]()
	blockTime := s.header.TimeMillis()
	for _, t := range v.st.Transitions {
		base := t.BaseTransition()
		c := s.contracts[base.DataContractID]
		if c == nil {
			result.AddError(&consensus.DataContractNotPresentError{DataContractID: base.DataContractID})
			continue
		}
		documentType, err := c.DocumentType(base.DocumentType)
		if err != nil {
			result.AddError(&consensus.InvalidDocumentTypeError{DocumentType: base.DocumentType, DataContractID: c.ID()})
			continue
		}
		existing := s.existing[base.ID]

		switch t := t.(type) {
		case *statetransition.DocumentCreateTransition:
			if existing != nil {
				result.AddError(&consensus.DocumentAlreadyPresentError{DocumentID: base.ID})
				continue
			}
			if t.CreatedAt != nil && t.UpdatedAt != nil && *t.CreatedAt != *t.UpdatedAt {
				result.AddError(&consensus.DocumentTimestampsMismatchError{DocumentID: base.ID})
			}
			result.AddErrors(timestampErrors(base.ID, blockTime, "createdAt", t.CreatedAt)...)
			result.AddErrors(timestampErrors(base.ID, blockTime, "updatedAt", t.UpdatedAt)...)
			r, err := uniqueness.ValidateDocumentUniqueness(ctx, p.Repository, uniqueness.Request{
				DocumentType: documentType,
				DocumentID:   base.ID,
				OwnerID:      v.st.Owner,
				CreatedAt:    t.CreatedAt,
				UpdatedAt:    t.UpdatedAt,
				Data:         t.Data,
			}, pv, ec)
			if err != nil {
				return nil, err
			}
			result.Merge(r)

		case *statetransition.DocumentReplaceTransition:
			if errs := v.existingDocumentErrors(base, existing); len(errs) > 0 {
				result.AddErrors(errs...)
				continue
			}
			if !documentType.DocumentsMutable {
				result.AddError(&consensus.DocumentNotMutableError{DocumentID: base.ID, DocumentType: base.DocumentType})
				continue
			}
			if current := currentRevision(existing); t.Revision != current+1 {
				result.AddError(&consensus.InvalidDocumentRevisionError{DocumentID: base.ID, CurrentRevision: current})
			}
			result.AddErrors(timestampErrors(base.ID, blockTime, "updatedAt", t.UpdatedAt)...)
			r, err := uniqueness.ValidateDocumentUniqueness(ctx, p.Repository, uniqueness.Request{
				DocumentType:  documentType,
				DocumentID:    base.ID,
				OwnerID:       v.st.Owner,
				CreatedAt:     existing.CreatedAt,
				UpdatedAt:     t.UpdatedAt,
				Data:          t.Data,
				AllowOriginal: true,
			}, pv, ec)
			if err != nil {
				return nil, err
			}
			result.Merge(r)

		case *statetransition.DocumentDeleteTransition:
			result.AddErrors(v.existingDocumentErrors(base, existing)...)
		}
	}
	if !result.IsValid() {
		return stateResult(ec, result), nil
	}

	triggers, err := v.executeTriggers(ctx, p, pv, s, ec)
	if err != nil {
		return nil, err
	}
	if !triggers.IsValid() {
		result.Merge(triggers)
		return stateResult(ec, result), nil
	}
	return validAction(v.action(s)), nil
}

func (v *documentsBatch) existingDocumentErrors(base *statetransition.DocumentBaseTransition, existing *document.Document) []consensus.Error {
	if existing == nil {
		return []consensus.Error{&consensus.DocumentNotFoundError{DocumentID: base.ID}}
	}
	if existing.OwnerID != v.st.Owner {
		return []consensus.Error{&consensus.DocumentOwnerIDMismatchError{
			DocumentID:              base.ID,
			DocumentOwnerID:         v.st.Owner,
			ExistingDocumentOwnerID: existing.OwnerID,
		}}
	}
	return nil
}

func currentRevision(d *document.Document) uint64 {
	if d.Revision == nil {
		return 0
	}
	return *d.Revision
}

func timestampErrors(id identifier.Identifier, blockTime uint64, name string, ts *uint64) []consensus.Error {
	if ts == nil {
		return nil
	}
	start, end := timeWindow(blockTime)
	if *ts < start || *ts > end {
		return []consensus.Error{&consensus.DocumentTimestampWindowViolationError{
			TimestampName:   name,
			DocumentID:      id,
			Timestamp:       int64(*ts),
			TimeWindowStart: int64(start),
			TimeWindowEnd:   int64(end),
		}}
	}
	return nil
}

// executeTriggers runs the data triggers of each contract on the
// transitions that target it, in batch order.
func (v *documentsBatch) executeTriggers(ctx context.Context, p *Platform, pv *version.PlatformVersion, s *batchState,
	ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	bindings, err := datatriggers.Bindings(pv)
	if err != nil {
		return nil, err
	}

	var order []identifier.Identifier
	byContract := map[identifier.Identifier][]statetransition.DocumentTransition{}
	for _, t := range v.st.Transitions {
		id := t.BaseTransition().DataContractID
		if _, ok := byContract[id]; !ok {
			order = append(order, id)
		}
		byContract[id] = append(byContract[id], t)
	}

	result := consensus.NewSimpleValidationResult()
	for _, id := range order {
		r, err := datatriggers.ExecuteTriggers(ctx, bindings, byContract[id], &datatriggers.Context{
			DataContract:          s.contracts[id],
			OwnerID:               v.st.Owner,
			Repository:            p.Repository,
			ExecutionContext:      ec,
			TopLevelIdentity:      p.Config.TopLevelIdentity,
			BlockHeight:           s.header.Height,
			CoreChainLockedHeight: s.header.CoreChainLockedHeight,
		})
		if err != nil {
			return nil, err
		}
		result.Merge(r)
	}
	return result, nil
}

func (v *documentsBatch) TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	if err := checkStage("documents batch transition: transform into action", stages(pv).DocumentsBatch.TransformIntoAction); err != nil {
		return nil, err
	}
	s, err := v.loadBatchState(ctx, p, ec)
	if err != nil {
		return nil, err
	}
	for _, t := range v.st.Transitions {
		base := t.BaseTransition()
		if s.contracts[base.DataContractID] == nil {
			return invalidAction(&consensus.DataContractNotPresentError{DataContractID: base.DataContractID}), nil
		}
		if t.Action() == statetransition.ActionReplace && s.existing[base.ID] == nil {
			return invalidAction(&consensus.DocumentNotFoundError{DocumentID: base.ID}), nil
		}
	}
	return validAction(v.action(s)), nil
}

// action converts the transitions. Replace actions keep the creation time
// of the stored document.
func (v *documentsBatch) action(s *batchState) *action.DocumentsBatchAction {
	a := &action.DocumentsBatchAction{OwnerID: v.st.Owner}
	for _, t := range v.st.Transitions {
		base := t.BaseTransition()
		baseAction := action.DocumentBaseAction{
			ID:               base.ID,
			DocumentTypeName: base.DocumentType,
			DataContract:     s.contracts[base.DataContractID],
		}
		switch t := t.(type) {
		case *statetransition.DocumentCreateTransition:
			a.Transitions = append(a.Transitions, &action.DocumentCreateAction{
				DocumentBaseAction: baseAction,
				CreatedAt:          t.CreatedAt,
				UpdatedAt:          t.UpdatedAt,
				Data:               t.Data,
			})
		case *statetransition.DocumentReplaceTransition:
			var createdAt *uint64
			if existing := s.existing[base.ID]; existing != nil {
				createdAt = existing.CreatedAt
			}
			a.Transitions = append(a.Transitions, &action.DocumentReplaceAction{
				DocumentBaseAction: baseAction,
				Revision:           t.Revision,
				CreatedAt:          createdAt,
				UpdatedAt:          t.UpdatedAt,
				Data:               t.Data,
			})
		case *statetransition.DocumentDeleteTransition:
			a.Transitions = append(a.Transitions, &action.DocumentDeleteAction{DocumentBaseAction: baseAction})
		}
	}
	return a
}
