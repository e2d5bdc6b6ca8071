/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"fmt"
	"math/rand"

	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/value"
)

// RandomDocumentTypeSchema generates a document schema with indexable
// fields and up to three distinct indices. Every generated schema passes
// contract validation.
func RandomDocumentTypeSchema(rng *rand.Rand) (value.Value, error) {
	fieldCount := 1 + rng.Intn(8)
	properties := make(map[string]value.Value, fieldCount)
	fieldNames := make([]string, 0, fieldCount)
	var required []value.Value

	for i := 0; i < fieldCount; i++ {
		name := fmt.Sprintf("field%d", i)
		fieldNames = append(fieldNames, name)
		properties[name] = randomFieldSchema(rng)
		if rng.Intn(2) == 0 {
			required = append(required, value.NewText(name))
		}
	}

	indexCount := rng.Intn(UniqueIndexLimit + 1)
	if fieldCount == 1 && indexCount > 2 {
		// one field only allows an ascending and a descending index
		indexCount = 2
	}
	var indices []Index
	names := map[string]bool{}
	for len(indices) < indexCount {
		index, err := RandomIndex(fieldNames, indices, rng)
		if err != nil {
			return value.Value{}, err
		}
		if names[index.Name] {
			continue
		}
		names[index.Name] = true
		indices = append(indices, index)
	}

	schema := map[string]value.Value{
		"type":                 value.NewText("object"),
		"properties":           value.NewMap(properties),
		"additionalProperties": value.NewBool(false),
	}
	if len(required) > 0 {
		schema["required"] = value.NewArray(required...)
	}
	if len(indices) > 0 {
		items := make([]value.Value, len(indices))
		for i, index := range indices {
			items[i] = index.ToValue()
		}
		schema["indices"] = value.NewArray(items...)
	}
	return value.NewMap(schema), nil
}

func randomFieldSchema(rng *rand.Rand) value.Value {
	switch rng.Intn(4) {
	case 0:
		return value.NewMap(map[string]value.Value{
			"type":      value.NewText("string"),
			"maxLength": value.NewU64(uint64(1 + rng.Intn(MaxIndexedStringPropertyLength))),
		})
	case 1:
		return value.NewMap(map[string]value.Value{
			"type": value.NewText("integer"),
		})
	case 2:
		return value.NewMap(map[string]value.Value{
			"type":      value.NewText("array"),
			"byteArray": value.NewBool(true),
			"maxItems":  value.NewU64(uint64(1 + rng.Intn(MaxIndexedByteArrayPropertyLength))),
		})
	default:
		return value.NewMap(map[string]value.Value{
			"type": value.NewText("boolean"),
		})
	}
}

// RandomDocumentType derives a document type from RandomDocumentTypeSchema.
func RandomDocumentType(contractID identifier.Identifier, name string, rng *rand.Rand) (*DocumentType, error) {
	schema, err := RandomDocumentTypeSchema(rng)
	if err != nil {
		return nil, err
	}
	return NewDocumentType(contractID, name, schema, nil, DefaultConfig())
}
