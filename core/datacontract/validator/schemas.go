/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"embed"
	"sync"

	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/jsonschema"
	"github.com/dashpay/platform-drive/core/value"
)

//go:embed schema
var schemaFS embed.FS

const (
	metaSchemaPath   = "schema/meta/data-contract.json"
	documentBasePath = "schema/document/documentBase.json"
)

var (
	metaSchemaOnce sync.Once
	metaSchema     *jsonschema.Schema

	documentBaseOnce sync.Once
	documentBase     value.Value
)

func mustReadSchema(path string) []byte {
	raw, err := schemaFS.ReadFile(path)
	if err != nil {
		logger.Panicf("Embedded schema %s is missing: %s", path, err)
	}
	return raw
}

// MetaSchema returns the compiled data contract meta schema.
func MetaSchema() *jsonschema.Schema {
	metaSchemaOnce.Do(func() {
		metaSchema = jsonschema.MustCompile(datacontract.SchemaURIV0, mustReadSchema(metaSchemaPath), nil)
	})
	return metaSchema
}

// DocumentBaseSchema returns a copy of the schema every document type is
// enriched with before documents are validated.
func DocumentBaseSchema() value.Value {
	documentBaseOnce.Do(func() {
		v, err := value.FromJSON(mustReadSchema(documentBasePath))
		if err != nil {
			logger.Panicf("Failed parsing embedded document base schema: %s", err)
		}
		documentBase = v
	})
	return documentBase.Clone()
}
