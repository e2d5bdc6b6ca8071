/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"fmt"
	"strings"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/value"
)

// ValidateIndexNamingDuplicates reports every index name used more than once.
func ValidateIndexNamingDuplicates(indices []datacontract.Index, documentType string) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	seen := map[string]int{}
	for _, index := range indices {
		seen[index.Name]++
		if seen[index.Name] == 2 {
			result.AddError(&consensus.DuplicateIndexNameError{
				DocumentType:       documentType,
				DuplicateIndexName: index.Name,
			})
		}
	}
	return result
}

// ValidateMaxUniqueIndices limits the number of unique indices per document
// type.
func ValidateMaxUniqueIndices(indices []datacontract.Index, documentType string) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	unique := 0
	for _, index := range indices {
		if index.Unique {
			unique++
		}
	}
	if unique > datacontract.UniqueIndexLimit {
		result.AddError(&consensus.UniqueIndicesLimitReachedError{
			DocumentType: documentType,
			IndexLimit:   datacontract.UniqueIndexLimit,
		})
	}
	return result
}

// ValidateIndexDefinitions checks each index against the document schema.
// stop is set when an index names an undefined property; nothing after
// that index is validated.
func ValidateIndexDefinitions(indices []datacontract.Index, documentType string, schema value.Value,
	defs map[string]value.Value) (result *consensus.SimpleValidationResult, stop bool) {
	result = consensus.NewSimpleValidationResult()
	var fingerprints []string

	for _, index := range indices {
		result.Merge(validateNoSystemIndices(index, documentType))

		type userProperty struct {
			name string
			def  value.Value
		}
		var properties []userProperty
		undefined := consensus.NewSimpleValidationResult()
		for _, name := range index.PropertyNames() {
			if isAllowedSystemProperty(name) {
				continue
			}
			def, ok := propertyDefinitionByPath(schema, name, defs)
			if !ok {
				undefined.AddError(&consensus.UndefinedIndexPropertyError{
					DocumentType: documentType,
					IndexName:    index.Name,
					PropertyName: name,
				})
				continue
			}
			properties = append(properties, userProperty{name: name, def: def})
		}
		if !undefined.IsValid() {
			result.Merge(undefined)
			return result, true
		}

		for _, p := range properties {
			result.Merge(validatePropertyDefinition(p.name, p.def, documentType, index))
		}

		if index.Unique && len(index.Properties) > 1 {
			fingerprint := index.Fingerprint()
			for _, f := range fingerprints {
				if f == fingerprint {
					result.AddError(&consensus.DuplicateIndexError{
						DocumentType: documentType,
						IndexName:    index.Name,
					})
					break
				}
			}
			fingerprints = append(fingerprints, fingerprint)
		}
	}
	return result, false
}

func validateNoSystemIndices(index datacontract.Index, documentType string) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	for _, name := range index.PropertyNames() {
		for _, notAllowed := range datacontract.NotAllowedSystemProperties {
			if name == notAllowed {
				result.AddError(&consensus.SystemPropertyIndexAlreadyPresentError{
					DocumentType: documentType,
					IndexName:    index.Name,
					PropertyName: name,
				})
			}
		}
	}
	return result
}

func isAllowedSystemProperty(name string) bool {
	for _, allowed := range datacontract.AllowedIndexSystemProperties {
		if name == allowed {
			return true
		}
	}
	return false
}

func validatePropertyDefinition(name string, def value.Value, documentType string, index datacontract.Index) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	typ, _ := def.GetOptionalText(datacontract.SchemaType)
	isType := func(t string) bool { return typ != nil && *typ == t }
	byteArray, _ := def.GetOptionalBool(datacontract.SchemaByteArray)
	isByteArray := byteArray != nil && *byteArray

	invalidType := ""
	switch {
	case isType("object"):
		invalidType = "object"
	case isType("array") && !isByteArray:
		invalidType = "array"
	}
	if invalidType != "" {
		result.AddError(&consensus.InvalidIndexPropertyTypeError{
			DocumentType: documentType,
			IndexName:    index.Name,
			PropertyName: name,
			PropertyType: invalidType,
		})
	}

	if invalidType == "" && isType("array") {
		limit := uint64(datacontract.MaxIndexedArrayItems)
		if isByteArray {
			limit = datacontract.MaxIndexedByteArrayPropertyLength
		}
		maxItems, err := def.GetOptionalU64("maxItems")
		if err != nil || maxItems == nil || *maxItems > limit {
			result.AddError(&consensus.InvalidIndexedPropertyConstraintError{
				DocumentType:   documentType,
				IndexName:      index.Name,
				PropertyName:   name,
				ConstraintName: "maxItems",
				Reason:         fmt.Sprintf("should be less or equal %d", limit),
			})
		}
	}

	if isType("string") {
		maxLength, err := def.GetOptionalU64("maxLength")
		if err != nil || maxLength == nil || *maxLength > datacontract.MaxIndexedStringPropertyLength {
			result.AddError(&consensus.InvalidIndexedPropertyConstraintError{
				DocumentType:   documentType,
				IndexName:      index.Name,
				PropertyName:   name,
				ConstraintName: "maxLength",
				Reason:         fmt.Sprintf("should be less or equal than %d", datacontract.MaxIndexedStringPropertyLength),
			})
		}
	}
	return result
}

// propertyDefinitionByPath resolves a dotted path through nested
// properties, following $defs references on the way.
func propertyDefinitionByPath(schema value.Value, path string, defs map[string]value.Value) (value.Value, bool) {
	cur := schema
	for _, part := range strings.Split(path, ".") {
		resolved, err := datacontract.ResolveRef(cur, defs)
		if err != nil {
			return value.Value{}, false
		}
		props, ok, err := resolved.GetOptionalMap(datacontract.SchemaProperties)
		if err != nil || !ok {
			return value.Value{}, false
		}
		next, ok := props.Get(part)
		if !ok {
			return value.Value{}, false
		}
		cur = next
	}
	resolved, err := datacontract.ResolveRef(cur, defs)
	if err != nil {
		return value.Value{}, false
	}
	return resolved, true
}
