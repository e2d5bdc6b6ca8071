/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"fmt"
	"sort"
	"strings"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/pkg/errors"
)

// IdentifierMediaType marks a 32 byte array as an identifier.
const IdentifierMediaType = "application/x.dash.dpp.identifier"

// Document schema keys.
const (
	SchemaProperties           = "properties"
	SchemaRequired             = "required"
	SchemaIndices              = "indices"
	SchemaType                 = "type"
	SchemaItems                = "items"
	SchemaRef                  = "$ref"
	SchemaByteArray            = "byteArray"
	SchemaContentMediaType     = "contentMediaType"
	SchemaDocumentsKeepHistory = "documentsKeepHistory"
	SchemaDocumentsMutable     = "documentsMutable"
)

const defsRefPrefix = "#/$defs/"

// maxRefChain bounds $ref chains while deriving field types.
const maxRefChain = 64

// FieldKind is the kind of a document field.
type FieldKind uint8

const (
	FieldString FieldKind = iota
	FieldInteger
	FieldNumber
	FieldBoolean
	FieldByteArray
	FieldIdentifier
	FieldObject
	FieldArray
	FieldDate
)

var fieldKindNames = [...]string{"string", "integer", "number", "boolean", "byteArray", "identifier", "object", "array", "date"}

func (k FieldKind) String() string {
	if int(k) < len(fieldKindNames) {
		return fieldKindNames[k]
	}
	return fmt.Sprintf("fieldKind(%d)", uint8(k))
}

// FieldType describes the type of one document field. Min and Max hold the
// string length or byte array size limits when the schema sets them.
type FieldType struct {
	Kind   FieldKind
	Min    *uint64
	Max    *uint64
	Fields map[string]DocumentField
	Item   *FieldType
}

type DocumentField struct {
	Type     FieldType
	Required bool
}

// DocumentType is the typed view of one document schema of a contract.
type DocumentType struct {
	Name                 string
	DataContractID       identifier.Identifier
	Schema               value.Value
	Properties           map[string]DocumentField
	Required             []string
	Indices              []Index
	IndexStructure       *IndexLevel
	DocumentsKeepHistory bool
	DocumentsMutable     bool
}

func documentTypesFromSchemas(contractID identifier.Identifier, documents, defs map[string]value.Value, config Config) (map[string]*DocumentType, error) {
	types := make(map[string]*DocumentType, len(documents))
	for name, schema := range documents {
		dt, err := NewDocumentType(contractID, name, schema, defs, config)
		if err != nil {
			return nil, err
		}
		types[name] = dt
	}
	return types, nil
}

// NewDocumentType derives a document type from its schema. Properties that
// reference $defs are resolved through defs.
func NewDocumentType(contractID identifier.Identifier, name string, schema value.Value, defs map[string]value.Value, config Config) (*DocumentType, error) {
	if !schema.IsMap() {
		return nil, &commonerrors.ValueError{Reason: fmt.Sprintf("document type '%s' schema must be a map", name)}
	}

	dt := &DocumentType{
		Name:                 name,
		DataContractID:       contractID,
		Schema:               schema,
		DocumentsKeepHistory: config.DocumentsKeepHistoryContractDefault,
		DocumentsMutable:     config.DocumentsMutableContractDefault,
	}

	if b, err := schema.GetOptionalBool(SchemaDocumentsKeepHistory); err != nil {
		return nil, err
	} else if b != nil {
		dt.DocumentsKeepHistory = *b
	}
	if b, err := schema.GetOptionalBool(SchemaDocumentsMutable); err != nil {
		return nil, err
	} else if b != nil {
		dt.DocumentsMutable = *b
	}

	required, err := requiredOf(schema)
	if err != nil {
		return nil, err
	}
	dt.Required = required

	dt.Properties, err = fieldsOf(schema, defs, 0)
	if err != nil {
		return nil, errors.WithMessagef(err, "document type '%s'", name)
	}

	indices, err := IndicesFromSchema(schema)
	if err != nil {
		return nil, errors.WithMessagef(err, "document type '%s'", name)
	}
	dt.Indices = indices
	dt.IndexStructure = IndexLevelFromIndices(indices)

	return dt, nil
}

// UniqueIndices returns the indices with unique set, in declaration order.
func (dt *DocumentType) UniqueIndices() []Index {
	var unique []Index
	for _, index := range dt.Indices {
		if index.Unique {
			unique = append(unique, index)
		}
	}
	return unique
}

// FieldNames returns the top level property names in sorted order.
func (dt *DocumentType) FieldNames() []string {
	names := make([]string, 0, len(dt.Properties))
	for name := range dt.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field resolves a dotted path through object fields.
func (dt *DocumentType) Field(path string) (DocumentField, bool) {
	fields := dt.Properties
	parts := strings.Split(path, ".")
	for i, part := range parts {
		f, ok := fields[part]
		if !ok {
			return DocumentField{}, false
		}
		if i == len(parts)-1 {
			return f, true
		}
		if f.Type.Kind != FieldObject {
			return DocumentField{}, false
		}
		fields = f.Type.Fields
	}
	return DocumentField{}, false
}

func requiredOf(schema value.Value) ([]string, error) {
	items, ok, err := schema.GetOptionalArray(SchemaRequired)
	if err != nil || !ok {
		return nil, err
	}
	required := make([]string, 0, len(items))
	for _, item := range items {
		s, err := item.AsText()
		if err != nil {
			return nil, err
		}
		required = append(required, s)
	}
	return required, nil
}

func fieldsOf(schema value.Value, defs map[string]value.Value, depth int) (map[string]DocumentField, error) {
	props, ok, err := schema.GetOptionalMap(SchemaProperties)
	if err != nil {
		return nil, err
	}
	fields := map[string]DocumentField{}
	if !ok {
		return fields, nil
	}
	required, err := requiredOf(schema)
	if err != nil {
		return nil, err
	}
	isRequired := make(map[string]bool, len(required))
	for _, r := range required {
		isRequired[r] = true
	}

	for _, name := range props.Keys() {
		def, _ := props.Get(name)
		ft, err := fieldTypeOf(name, def, defs, depth+1)
		if err != nil {
			return nil, err
		}
		fields[name] = DocumentField{Type: ft, Required: isRequired[name]}
	}
	return fields, nil
}

// ResolveRef follows "#/$defs/<name>" references.
func ResolveRef(def value.Value, defs map[string]value.Value) (value.Value, error) {
	for i := 0; i < maxRefChain; i++ {
		ref, err := def.GetOptionalText(SchemaRef)
		if err != nil {
			return value.Value{}, err
		}
		if ref == nil {
			return def, nil
		}
		if !strings.HasPrefix(*ref, defsRefPrefix) {
			return value.Value{}, &commonerrors.ValueError{Reason: fmt.Sprintf("unsupported $ref '%s'", *ref)}
		}
		target, ok := defs[strings.TrimPrefix(*ref, defsRefPrefix)]
		if !ok {
			return value.Value{}, &commonerrors.ValueError{Reason: fmt.Sprintf("$ref '%s' is not defined", *ref)}
		}
		def = target
	}
	return value.Value{}, &commonerrors.ValueError{Reason: "$ref chain is too long"}
}

func fieldTypeOf(name string, def value.Value, defs map[string]value.Value, depth int) (FieldType, error) {
	if depth > MaxDepth {
		return FieldType{}, &commonerrors.ValueError{Reason: fmt.Sprintf("property '%s' is nested too deep", name)}
	}
	def, err := ResolveRef(def, defs)
	if err != nil {
		return FieldType{}, err
	}
	typ, err := def.GetText(SchemaType)
	if err != nil {
		return FieldType{}, err
	}

	switch typ {
	case "string":
		ft := FieldType{Kind: FieldString}
		if ft.Min, err = def.GetOptionalU64("minLength"); err != nil {
			return FieldType{}, err
		}
		if ft.Max, err = def.GetOptionalU64("maxLength"); err != nil {
			return FieldType{}, err
		}
		return ft, nil
	case "integer":
		if name == "$createdAt" || name == "$updatedAt" {
			return FieldType{Kind: FieldDate}, nil
		}
		return FieldType{Kind: FieldInteger}, nil
	case "number":
		return FieldType{Kind: FieldNumber}, nil
	case "boolean":
		return FieldType{Kind: FieldBoolean}, nil
	case "object":
		fields, err := fieldsOf(def, defs, depth)
		if err != nil {
			return FieldType{}, err
		}
		return FieldType{Kind: FieldObject, Fields: fields}, nil
	case "array":
		if isByteArray(def) {
			if mt, _ := def.GetOptionalText(SchemaContentMediaType); mt != nil && *mt == IdentifierMediaType {
				return FieldType{Kind: FieldIdentifier}, nil
			}
			ft := FieldType{Kind: FieldByteArray}
			if ft.Min, err = def.GetOptionalU64("minItems"); err != nil {
				return FieldType{}, err
			}
			if ft.Max, err = def.GetOptionalU64("maxItems"); err != nil {
				return FieldType{}, err
			}
			return ft, nil
		}
		ft := FieldType{Kind: FieldArray}
		if items, ok, err := def.GetOptionalMap(SchemaItems); err != nil {
			return FieldType{}, err
		} else if ok {
			item, err := fieldTypeOf(name, items, defs, depth+1)
			if err != nil {
				return FieldType{}, err
			}
			ft.Item = &item
		}
		return ft, nil
	default:
		return FieldType{}, &commonerrors.ValueError{Reason: fmt.Sprintf("property '%s' has unsupported type '%s'", name, typ)}
	}
}

func isByteArray(def value.Value) bool {
	b, err := def.GetOptionalBool(SchemaByteArray)
	return err == nil && b != nil && *b
}

// binaryPropertiesOf walks a document schema for byte array properties and
// returns their definitions keyed by dotted path.
func binaryPropertiesOf(schema value.Value) map[string]value.Value {
	out := map[string]value.Value{}
	walkBinaryProperties(schema, "", out)
	return out
}

func walkBinaryProperties(schema value.Value, prefix string, out map[string]value.Value) {
	props, ok, err := schema.GetOptionalMap(SchemaProperties)
	if err != nil || !ok {
		return
	}
	for _, name := range props.Keys() {
		def, _ := props.Get(name)
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		typ, _ := def.GetOptionalText(SchemaType)
		if typ == nil {
			continue
		}
		switch {
		case *typ == "array" && isByteArray(def):
			out[path] = def
		case *typ == "object":
			walkBinaryProperties(def, path, out)
		}
	}
}
