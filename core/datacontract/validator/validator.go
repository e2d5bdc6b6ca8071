/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package validator checks raw data contracts before they are accepted:
// meta schema, protocol version, nesting depth, regex patterns, document
// schema compilation and index definitions.
package validator

import (
	"fmt"
	"math"

	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/jsonschema"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

var logger = flogging.MustGetLogger("datacontract.validator")

// Validator validates raw data contracts. It satisfies datacontract.Validator.
type Validator struct {
	protocolVersionValidator *version.ProtocolVersionValidator
	platformVersion          *version.PlatformVersion
}

// New returns a validator that checks protocol versions with pvv and builds
// contracts with the structure of pv.
func New(pvv *version.ProtocolVersionValidator, pv *version.PlatformVersion) *Validator {
	return &Validator{
		protocolVersionValidator: pvv,
		platformVersion:          pv,
	}
}

// Validate runs the validation stages in order and returns after the first
// stage that reports errors. The error return is for failures that are not
// the contract's fault.
func (v *Validator) Validate(raw value.Value) (*consensus.SimpleValidationResult, error) {
	result := consensus.NewSimpleValidationResult()

	logger.Debug("validating against data contract meta schema")
	result.Merge(MetaSchema().Validate(raw))
	if !result.IsValid() {
		return result, nil
	}

	logger.Debug("validating protocol version")
	protocolVersion, err := raw.GetU64(datacontract.PropertyProtocolVersion)
	if err != nil {
		return nil, err
	}
	if protocolVersion > math.MaxUint32 {
		protocolVersion = math.MaxUint32
	}
	result.Merge(v.protocolVersionValidator.Validate(uint32(protocolVersion)))
	if !result.IsValid() {
		return result, nil
	}

	logger.Debug("validating data contract max depth")
	result.Merge(ValidateMaxDepth(raw))
	if !result.IsValid() {
		return result, nil
	}

	logger.Debug("validating data contract patterns and byteArray parents")
	result.Merge(MultiValidate(raw, PatternIsValidRegex, ByteArrayHasNoItems))
	if !result.IsValid() {
		return result, nil
	}

	obj := raw.Clone()
	obj.Remove(datacontract.PropertyProtocolVersion)
	contract, err := datacontract.FromRawObject(obj, v.platformVersion)
	if err != nil {
		return nil, err
	}
	v0, err := datacontract.AsV0(contract)
	if err != nil {
		return nil, err
	}
	enriched, err := v0.EnrichWithBaseSchema(DocumentBaseSchema(), datacontract.PrefixByte0, nil)
	if err != nil {
		return nil, err
	}

	names := enriched.DocumentTypeNames()
	for _, name := range names {
		logger.Debugf("validating document schema '%s'", name)
		result.Merge(compileDocumentSchema(enriched, name))
	}
	if !result.IsValid() {
		return result, nil
	}

	logger.Debug("validating indices")
	for _, name := range names {
		dt, err := enriched.DocumentType(name)
		if err != nil {
			return nil, err
		}
		if len(dt.Indices) == 0 {
			continue
		}
		logger.Debugf("validating indices in '%s'", name)
		result.Merge(ValidateIndexNamingDuplicates(dt.Indices, name))
		result.Merge(ValidateMaxUniqueIndices(dt.Indices, name))
		definitions, stop := ValidateIndexDefinitions(dt.Indices, name, dt.Schema, enriched.Defs())
		result.Merge(definitions)
		if stop {
			return result, nil
		}
	}

	return result, nil
}

// compileDocumentSchema compiles an enriched document schema with the
// contract $defs attached.
func compileDocumentSchema(c *datacontract.V0, name string) *consensus.SimpleValidationResult {
	schema := c.Documents()[name].Clone()
	if defs := c.Defs(); defs != nil {
		if err := schema.Set(datacontract.PropertyDefinitions, value.NewMap(defs)); err != nil {
			return consensus.NewSimpleValidationResult(&consensus.JSONSchemaCompilationError{CompilationError: err.Error()})
		}
	}
	url := fmt.Sprintf("https://schema.dash.org/dpp-0-4-0/contract/%s/%s", c.JSONSchemaID(), name)
	_, result := jsonschema.CompileValue(url, schema)
	return result
}
