/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"github.com/dashpay/platform-drive/core/value"
	"github.com/mr-tron/base58"
)

// Prefix bytes keep the schema ids of differently enriched copies of the
// same contract apart.
const (
	PrefixByte0 byte = 0
	PrefixByte1 byte = 1
	PrefixByte2 byte = 2
	PrefixByte3 byte = 3
)

// EnrichWithBaseSchema returns a copy of c where every document schema also
// carries the properties and required entries of base, minus exclude.
func (c *V0) EnrichWithBaseSchema(base value.Value, prefixByte byte, exclude []string) (*V0, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}

	baseProperties, _, err := base.GetOptionalMap(SchemaProperties)
	if err != nil {
		return nil, err
	}
	baseRequired, err := requiredOf(base)
	if err != nil {
		return nil, err
	}

	enriched := c.Clone()
	for _, name := range enriched.DocumentTypeNames() {
		schema := enriched.documents[name]
		props, ok, err := schema.GetOptionalMap(SchemaProperties)
		if err != nil {
			return nil, err
		}
		if !ok {
			props = value.EmptyMap()
			if err := schema.Set(SchemaProperties, props); err != nil {
				return nil, err
			}
		}
		for _, key := range baseProperties.Keys() {
			if excluded[key] {
				continue
			}
			def, _ := baseProperties.Get(key)
			if err := props.Set(key, def.Clone()); err != nil {
				return nil, err
			}
		}

		required, err := requiredOf(schema)
		if err != nil {
			return nil, err
		}
		var merged []value.Value
		for _, r := range append(required, baseRequired...) {
			if !excluded[r] {
				merged = append(merged, value.NewText(r))
			}
		}
		if err := schema.Set(SchemaRequired, value.NewArray(merged...)); err != nil {
			return nil, err
		}

		for _, e := range exclude {
			schema.Remove(e)
		}
	}

	if err := enriched.derive(); err != nil {
		return nil, err
	}
	enriched.jsonSchemaID = base58.Encode(append([]byte{prefixByte}, c.id.Bytes()...))
	return enriched, nil
}
