/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statetransition

import (
	"embed"
	"sync"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/jsonschema"
)

//go:embed schema
var schemaFS embed.FS

const schemaURLPrefix = "https://schema.dash.org/dpp-0-4-0/state-transition/"

var schemaFiles = map[Type]string{
	TypeDataContractCreate:       "dataContractCreate",
	TypeDataContractUpdate:       "dataContractUpdate",
	TypeDocumentsBatch:           "documentsBatch",
	TypeIdentityCreate:           "identityCreate",
	TypeIdentityTopUp:            "identityTopUp",
	TypeIdentityCreditWithdrawal: "identityCreditWithdrawal",
	TypeIdentityUpdate:           "identityUpdate",
	TypeIdentityCreditTransfer:   "identityCreditTransfer",
}

var (
	schemasOnce sync.Once
	schemas     map[Type]*jsonschema.Schema
)

func loadSchemas() {
	schemas = make(map[Type]*jsonschema.Schema, len(schemaFiles))
	for t, name := range schemaFiles {
		raw, err := schemaFS.ReadFile("schema/" + name + ".json")
		if err != nil {
			logger.Panicf("Failed reading embedded schema %s: %s", name, err)
		}
		schemas[t] = jsonschema.MustCompile(schemaURLPrefix+name, raw, nil)
	}
}

// Schema returns the compiled JSON schema of the object form of t.
func Schema(t Type) *jsonschema.Schema {
	schemasOnce.Do(loadSchemas)
	return schemas[t]
}

// ValidateSchema validates the cleaned object form of st, signature
// included, against the schema of its type.
func ValidateSchema(st StateTransition) (*consensus.SimpleValidationResult, error) {
	obj, err := st.ToCleanedObject(false)
	if err != nil {
		return nil, err
	}
	return Schema(st.Type()).Validate(obj), nil
}
