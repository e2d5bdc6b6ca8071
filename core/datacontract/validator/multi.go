/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/value"
)

// SubValidator inspects one map node of a raw contract. path is the JSON
// pointer of the node.
type SubValidator func(path string, node value.Value, result *consensus.SimpleValidationResult)

// MultiValidate walks every map node of raw and runs each validator on it.
func MultiValidate(raw value.Value, validators ...SubValidator) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	walkNodes(raw, "", func(path string, node value.Value) {
		for _, validate := range validators {
			validate(path, node, result)
		}
	})
	return result
}

func walkNodes(v value.Value, path string, visit func(path string, node value.Value)) {
	switch {
	case v.IsMap():
		visit(path, v)
		for _, key := range v.Keys() {
			item, _ := v.Get(key)
			walkNodes(item, path+"/"+escapePointer(key), visit)
		}
	case v.IsArray():
		items, _ := v.AsArray()
		for i, item := range items {
			walkNodes(item, path+"/"+strconv.Itoa(i), visit)
		}
	}
}

func escapePointer(token string) string {
	return strings.ReplaceAll(strings.ReplaceAll(token, "~", "~0"), "/", "~1")
}

// PatternIsValidRegex requires every pattern keyword to compile as an RE2
// expression.
func PatternIsValidRegex(path string, node value.Value, result *consensus.SimpleValidationResult) {
	pattern, err := node.GetOptionalText("pattern")
	if err != nil || pattern == nil {
		return
	}
	if _, err := regexp.Compile(*pattern); err != nil {
		result.AddError(&consensus.IncompatibleRe2PatternError{
			Pattern: *pattern,
			Path:    path + "/pattern",
			Message: err.Error(),
		})
	}
}

// ByteArrayHasNoItems rejects byteArray nodes that also describe items.
func ByteArrayHasNoItems(path string, node value.Value, result *consensus.SimpleValidationResult) {
	b, err := node.GetOptionalBool(datacontract.SchemaByteArray)
	if err != nil || b == nil || !*b {
		return
	}
	if _, ok := node.Get(datacontract.SchemaItems); !ok {
		return
	}
	result.AddError(&consensus.JSONSchemaError{
		ErrorSummary: "byteArray must not be used together with items",
		Keyword:      datacontract.SchemaByteArray,
		InstancePath: path,
		SchemaPath:   path + "/" + datacontract.SchemaByteArray,
	})
}
