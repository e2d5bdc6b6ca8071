/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import "github.com/dashpay/platform-drive/core/value"

// Contract configuration defaults.
const (
	DefaultContractKeepsHistory          = false
	DefaultContractCanBeDeleted          = false
	DefaultContractMutability            = true
	DefaultContractDocumentsKeepsHistory = false
	DefaultContractDocumentMutability    = true
)

// Contract configuration keys.
const (
	ConfigCanBeDeleted                        = "canBeDeleted"
	ConfigReadonly                            = "readonly"
	ConfigKeepsHistory                        = "keepsHistory"
	ConfigDocumentsKeepHistoryContractDefault = "documentsKeepHistoryContractDefault"
	ConfigDocumentsMutableContractDefault     = "documentsMutableContractDefault"
)

// Config holds the contract wide switches.
type Config struct {
	CanBeDeleted                        bool `json:"canBeDeleted"`
	Readonly                            bool `json:"readonly"`
	KeepsHistory                        bool `json:"keepsHistory"`
	DocumentsKeepHistoryContractDefault bool `json:"documentsKeepHistoryContractDefault"`
	DocumentsMutableContractDefault     bool `json:"documentsMutableContractDefault"`
}

// DefaultConfig returns the configuration of a contract that sets no keys.
func DefaultConfig() Config {
	return Config{
		CanBeDeleted:                        DefaultContractCanBeDeleted,
		Readonly:                            !DefaultContractMutability,
		KeepsHistory:                        DefaultContractKeepsHistory,
		DocumentsKeepHistoryContractDefault: DefaultContractDocumentsKeepsHistory,
		DocumentsMutableContractDefault:     DefaultContractDocumentMutability,
	}
}

// ConfigFromValue reads the configuration keys of a raw contract.
func ConfigFromValue(obj value.Value) (Config, error) {
	cfg := DefaultConfig()
	fields := []struct {
		key string
		dst *bool
	}{
		{ConfigCanBeDeleted, &cfg.CanBeDeleted},
		{ConfigReadonly, &cfg.Readonly},
		{ConfigKeepsHistory, &cfg.KeepsHistory},
		{ConfigDocumentsKeepHistoryContractDefault, &cfg.DocumentsKeepHistoryContractDefault},
		{ConfigDocumentsMutableContractDefault, &cfg.DocumentsMutableContractDefault},
	}
	for _, f := range fields {
		b, err := obj.GetOptionalBool(f.key)
		if err != nil {
			return Config{}, err
		}
		if b != nil {
			*f.dst = *b
		}
	}
	return cfg, nil
}

func (c Config) writeNonDefault(obj map[string]value.Value) {
	def := DefaultConfig()
	if c.CanBeDeleted != def.CanBeDeleted {
		obj[ConfigCanBeDeleted] = value.NewBool(c.CanBeDeleted)
	}
	if c.Readonly != def.Readonly {
		obj[ConfigReadonly] = value.NewBool(c.Readonly)
	}
	if c.KeepsHistory != def.KeepsHistory {
		obj[ConfigKeepsHistory] = value.NewBool(c.KeepsHistory)
	}
	if c.DocumentsKeepHistoryContractDefault != def.DocumentsKeepHistoryContractDefault {
		obj[ConfigDocumentsKeepHistoryContractDefault] = value.NewBool(c.DocumentsKeepHistoryContractDefault)
	}
	if c.DocumentsMutableContractDefault != def.DocumentsMutableContractDefault {
		obj[ConfigDocumentsMutableContractDefault] = value.NewBool(c.DocumentsMutableContractDefault)
	}
}
