/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jsonschema compiles JSON schemas (draft 2020-12) and reports
// violations as consensus errors.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/pkg/errors"
	jsschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var logger = flogging.MustGetLogger("jsonschema")

// Schema is a compiled JSON schema.
type Schema struct {
	url    string
	schema *jsschema.Schema
}

// Compiler wraps a draft 2020-12 compiler that understands the byteArray
// keyword.
type Compiler struct {
	c *jsschema.Compiler
}

// NewCompiler returns a compiler with no resources.
func NewCompiler() *Compiler {
	c := jsschema.NewCompiler()
	c.Draft = jsschema.Draft2020
	c.RegisterExtension("byteArray", byteArrayMeta, byteArrayCompiler{})
	return &Compiler{c: c}
}

// AddResource registers a raw JSON document under url so that other schemas
// can reference it.
func (c *Compiler) AddResource(url string, raw []byte) error {
	if err := c.c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return errors.Wrapf(err, "failed adding schema resource %s", url)
	}
	return nil
}

// AddValueResource registers a schema held as a Value.
func (c *Compiler) AddValueResource(url string, schema value.Value) error {
	raw, err := schema.ToJSON()
	if err != nil {
		return err
	}
	return c.AddResource(url, raw)
}

// Compile compiles the resource registered under url.
func (c *Compiler) Compile(url string) (*Schema, error) {
	s, err := c.c.Compile(url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed compiling schema %s", url)
	}
	return &Schema{url: url, schema: s}, nil
}

// CompileValue compiles a single schema held as a Value. Compilation
// failures are consensus errors, not system errors.
func CompileValue(url string, schema value.Value) (*Schema, *consensus.SimpleValidationResult) {
	result := consensus.NewSimpleValidationResult()
	c := NewCompiler()
	if err := c.AddValueResource(url, schema); err != nil {
		result.AddError(&consensus.JSONSchemaCompilationError{CompilationError: errors.Cause(err).Error()})
		return nil, result
	}
	s, err := c.Compile(url)
	if err != nil {
		result.AddError(&consensus.JSONSchemaCompilationError{CompilationError: errors.Cause(err).Error()})
		return nil, result
	}
	return s, result
}

// MustCompile compiles raw JSON schemas that ship with the binary. The first
// resource is the one compiled; the others are made available for $ref.
func MustCompile(url string, raw []byte, deps map[string][]byte) *Schema {
	c := NewCompiler()
	urls := make([]string, 0, len(deps))
	for u := range deps {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	for _, u := range urls {
		if err := c.AddResource(u, deps[u]); err != nil {
			logger.Panicf("Failed adding embedded schema %s: %s", u, err)
		}
	}
	if err := c.AddResource(url, raw); err != nil {
		logger.Panicf("Failed adding embedded schema %s: %s", url, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		logger.Panicf("Failed compiling embedded schema %s: %s", url, err)
	}
	return s
}

// URL returns the url the schema was compiled from.
func (s *Schema) URL() string { return s.url }

// Validate validates instance and returns one JSONSchemaError per leaf
// violation, ordered by instance path.
func (s *Schema) Validate(instance value.Value) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	err := s.schema.Validate(instance.ToValidatingJSON())
	if err == nil {
		return result
	}

	verr, ok := err.(*jsschema.ValidationError)
	if !ok {
		result.AddError(&consensus.JSONSchemaError{ErrorSummary: err.Error()})
		return result
	}

	var leaves []*jsschema.ValidationError
	collectLeaves(verr, &leaves)
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].InstanceLocation < leaves[j].InstanceLocation
	})
	for _, leaf := range leaves {
		result.AddError(toConsensusError(leaf))
	}
	return result
}

func collectLeaves(e *jsschema.ValidationError, out *[]*jsschema.ValidationError) {
	if len(e.Causes) == 0 {
		*out = append(*out, e)
		return
	}
	for _, cause := range e.Causes {
		collectLeaves(cause, out)
	}
}

func toConsensusError(e *jsschema.ValidationError) *consensus.JSONSchemaError {
	return &consensus.JSONSchemaError{
		ErrorSummary: e.Message,
		Keyword:      keywordOf(e.KeywordLocation),
		InstancePath: e.InstanceLocation,
		SchemaPath:   e.KeywordLocation,
	}
}

// keywordOf returns the last keyword of a keyword location, skipping array
// indices such as the 0 in /allOf/0.
func keywordOf(location string) string {
	parts := strings.Split(location, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		p := parts[i]
		if p == "" {
			continue
		}
		if _, err := strconv.Atoi(p); err == nil {
			continue
		}
		return p
	}
	return ""
}

var byteArrayMeta = jsschema.MustCompileString("byteArray.json", `{
	"properties": {
		"byteArray": {"type": "boolean"}
	}
}`)

type byteArrayCompiler struct{}

func (byteArrayCompiler) Compile(ctx jsschema.CompilerContext, m map[string]interface{}) (jsschema.ExtSchema, error) {
	if b, ok := m["byteArray"].(bool); ok && b {
		return byteArraySchema{}, nil
	}
	return nil, nil
}

// byteArraySchema accepts arrays whose items are integers in [0, 255].
type byteArraySchema struct{}

func (byteArraySchema) Validate(ctx jsschema.ValidationContext, v interface{}) error {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	for i, item := range items {
		if !isByte(item) {
			return ctx.Error("byteArray", "item %d is not a byte", i)
		}
	}
	return nil
}

func isByte(v interface{}) bool {
	var n int64
	switch t := v.(type) {
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return false
		}
		n = i
	case float64:
		if t != float64(int64(t)) {
			return false
		}
		n = int64(t)
	case int:
		n = int64(t)
	default:
		return false
	}
	return n >= 0 && n <= 255
}
