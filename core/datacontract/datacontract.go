/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package datacontract implements data contracts: user defined document
// schemas with indices, owned by an identity.
package datacontract

import (
	"fmt"
	"math"
	"sort"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

var logger = flogging.MustGetLogger("datacontract")

// SchemaURIV0 is the meta schema every v0 contract declares.
const SchemaURIV0 = "https://schema.dash.org/dpp-0-4-0/meta/data-contract"

// Top level property names of a raw data contract.
const (
	PropertyID              = "$id"
	PropertyOwnerID         = "ownerId"
	PropertyVersion         = "version"
	PropertySchema          = "$schema"
	PropertyDocuments       = "documents"
	PropertyDefinitions     = "$defs"
	PropertySystemVersion   = "$version"
	PropertyProtocolVersion = "protocolVersion"
	PropertyEntropy         = "entropy"
)

// IdentifierFields and BinaryFields are the paths rewritten when a raw
// contract is cleaned.
var (
	IdentifierFields = []string{PropertyID, PropertyOwnerID}
	BinaryFields     = []string{PropertyEntropy}
)

// DataContract is implemented by every contract version. The set of
// implementations is closed.
type DataContract interface {
	ID() identifier.Identifier
	OwnerID() identifier.Identifier
	Version() uint32
	Schema() string
	Config() Config
	Documents() map[string]value.Value
	Defs() map[string]value.Value
	DocumentType(name string) (*DocumentType, error)
	DocumentTypes() map[string]*DocumentType
	IsDocumentDefined(name string) bool
	ToObject() (value.Value, error)
	ToCleanedObject() (value.Value, error)

	isDataContract()
}

// V0 is the first data contract structure.
type V0 struct {
	id      identifier.Identifier
	ownerID identifier.Identifier
	version uint32
	schema  string
	config  Config

	documents map[string]value.Value
	// nil means absent, an empty map means present but empty
	defs map[string]value.Value

	documentTypes    map[string]*DocumentType
	binaryProperties map[string]map[string]value.Value

	// jsonSchemaID is set on contracts enriched with the base document schema
	jsonSchemaID string
}

func (*V0) isDataContract() {}

// NewV0 builds a contract and derives its document types.
func NewV0(id, ownerID identifier.Identifier, contractVersion uint32, schema string, config Config,
	documents, defs map[string]value.Value) (*V0, error) {
	if documents == nil {
		documents = map[string]value.Value{}
	}
	c := &V0{
		id:        id,
		ownerID:   ownerID,
		version:   contractVersion,
		schema:    schema,
		config:    config,
		documents: documents,
		defs:      defs,
	}
	if err := c.derive(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *V0) derive() error {
	documentTypes, err := documentTypesFromSchemas(c.id, c.documents, c.defs, c.config)
	if err != nil {
		return err
	}
	c.documentTypes = documentTypes
	c.binaryProperties = make(map[string]map[string]value.Value, len(c.documents))
	for name, schema := range c.documents {
		c.binaryProperties[name] = binaryPropertiesOf(schema)
	}
	return nil
}

func (c *V0) ID() identifier.Identifier      { return c.id }
func (c *V0) OwnerID() identifier.Identifier { return c.ownerID }
func (c *V0) Version() uint32                { return c.version }
func (c *V0) Schema() string                 { return c.schema }
func (c *V0) Config() Config                 { return c.config }

// Documents returns the document schemas keyed by document type.
func (c *V0) Documents() map[string]value.Value { return c.documents }

// Defs returns the shared definitions or nil when the contract has none.
func (c *V0) Defs() map[string]value.Value { return c.defs }

func (c *V0) DocumentTypes() map[string]*DocumentType { return c.documentTypes }

// BinaryProperties returns the byte array property definitions of a
// document type keyed by dotted path.
func (c *V0) BinaryProperties(documentType string) map[string]value.Value {
	return c.binaryProperties[documentType]
}

// JSONSchemaID is the id document schemas are compiled under.
func (c *V0) JSONSchemaID() string {
	if c.jsonSchemaID != "" {
		return c.jsonSchemaID
	}
	return c.id.String()
}

func (c *V0) IsDocumentDefined(name string) bool {
	_, ok := c.documents[name]
	return ok
}

func (c *V0) DocumentType(name string) (*DocumentType, error) {
	dt, ok := c.documentTypes[name]
	if !ok {
		return nil, &commonerrors.ValueError{Reason: fmt.Sprintf("document type '%s' is not defined in data contract %s", name, c.id)}
	}
	return dt, nil
}

// DocumentTypeNames returns the document types in sorted order.
func (c *V0) DocumentTypeNames() []string {
	names := make([]string, 0, len(c.documents))
	for name := range c.documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetDocumentSchema replaces or adds one document schema and rederives the
// document types.
func (c *V0) SetDocumentSchema(name string, schema value.Value) error {
	documents := make(map[string]value.Value, len(c.documents)+1)
	for k, v := range c.documents {
		documents[k] = v
	}
	documents[name] = schema
	dt, err := NewDocumentType(c.id, name, schema, c.defs, c.config)
	if err != nil {
		return err
	}
	c.documents = documents
	c.documentTypes[name] = dt
	c.binaryProperties[name] = binaryPropertiesOf(schema)
	return nil
}

func (c *V0) IncrementVersion() { c.version++ }

func (c *V0) SetVersion(v uint32) { c.version = v }

// Clone returns a deep copy.
func (c *V0) Clone() *V0 {
	clone := *c
	clone.documents = cloneSchemas(c.documents)
	clone.defs = cloneSchemas(c.defs)
	// derived fields hold no references into documents that are mutated
	clone.documentTypes = make(map[string]*DocumentType, len(c.documentTypes))
	for k, v := range c.documentTypes {
		clone.documentTypes[k] = v
	}
	clone.binaryProperties = make(map[string]map[string]value.Value, len(c.binaryProperties))
	for k, v := range c.binaryProperties {
		clone.binaryProperties[k] = v
	}
	return &clone
}

func cloneSchemas(m map[string]value.Value) map[string]value.Value {
	if m == nil {
		return nil
	}
	out := make(map[string]value.Value, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// FromRawObject builds the contract structure selected by the platform
// version.
func FromRawObject(raw value.Value, pv *version.PlatformVersion) (DataContract, error) {
	switch v := pv.DPP.Contract.ContractStructure; v {
	case 0:
		return v0FromRawObject(raw)
	default:
		return nil, &commonerrors.UnknownVersionMismatchError{
			Method:        "DataContract.FromRawObject",
			KnownVersions: []uint16{0},
			Received:      v,
		}
	}
}

func v0FromRawObject(raw value.Value) (*V0, error) {
	if !raw.IsMap() {
		return nil, &commonerrors.ValueError{Reason: fmt.Sprintf("data contract must be a map, got %s", raw.Kind())}
	}
	obj := raw.Clone()

	id, err := obj.RemoveIdentifier(PropertyID)
	if err != nil {
		return nil, err
	}
	ownerID, err := obj.RemoveIdentifier(PropertyOwnerID)
	if err != nil {
		return nil, err
	}
	contractVersion, err := obj.RemoveInteger(PropertyVersion)
	if err != nil {
		return nil, err
	}
	if contractVersion > math.MaxUint32 {
		return nil, &commonerrors.ValueError{Reason: fmt.Sprintf("data contract version %d overflows u32", contractVersion)}
	}
	schema, err := obj.RemoveText(PropertySchema)
	if err != nil {
		return nil, err
	}
	config, err := ConfigFromValue(obj)
	if err != nil {
		return nil, err
	}

	documents := map[string]value.Value{}
	if docs, ok, err := obj.GetOptionalMap(PropertyDocuments); err != nil {
		return nil, err
	} else if ok {
		m, _ := docs.AsMap()
		for k, v := range m {
			documents[k] = v
		}
	}

	var defs map[string]value.Value
	if d, ok, err := obj.GetOptionalMap(PropertyDefinitions); err != nil {
		return nil, err
	} else if ok {
		m, _ := d.AsMap()
		defs = make(map[string]value.Value, len(m))
		for k, v := range m {
			defs[k] = v
		}
	}

	return NewV0(id, ownerID, uint32(contractVersion), schema, config, documents, defs)
}

// ToObject renders the contract as a raw value. Config entries are only
// written when they differ from the defaults.
func (c *V0) ToObject() (value.Value, error) {
	obj := map[string]value.Value{
		PropertyID:            value.NewIdentifier(c.id),
		PropertySchema:        value.NewText(c.schema),
		PropertyVersion:       value.NewU32(c.version),
		PropertyOwnerID:       value.NewIdentifier(c.ownerID),
		PropertyDocuments:     value.NewMap(cloneSchemas(c.documents)),
		PropertyDefinitions:   value.Null(),
		PropertySystemVersion: value.NewU16(0),
	}
	if c.defs != nil {
		obj[PropertyDefinitions] = value.NewMap(cloneSchemas(c.defs))
	}
	c.config.writeNonDefault(obj)
	return value.NewMap(obj), nil
}

// ToCleanedObject is ToObject without the $defs entry when the contract has
// no definitions. An empty definitions map is kept.
func (c *V0) ToCleanedObject() (value.Value, error) {
	obj, err := c.ToObject()
	if err != nil {
		return value.Value{}, err
	}
	if c.defs == nil {
		obj.Remove(PropertyDefinitions)
	}
	return obj, nil
}

// IntoObject is ToObject.
func (c *V0) IntoObject() (value.Value, error) { return c.ToObject() }

// ToJSON renders the cleaned object as JSON. Identifiers are base58 strings.
func (c *V0) ToJSON() ([]byte, error) {
	obj, err := c.ToCleanedObject()
	if err != nil {
		return nil, err
	}
	return obj.ToJSON()
}

// FromJSON parses the JSON interchange form.
func FromJSON(data []byte, pv *version.PlatformVersion) (DataContract, error) {
	raw, err := value.FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := raw.ReplaceAtPaths(IdentifierFields, value.ReplaceWithIdentifier); err != nil {
		return nil, err
	}
	return FromRawObject(raw, pv)
}

// AsV0 unwraps the only contract structure.
func AsV0(c DataContract) (*V0, error) {
	switch t := c.(type) {
	case *V0:
		return t, nil
	default:
		return nil, &commonerrors.CorruptedCodeExecutionError{Reason: fmt.Sprintf("unknown data contract structure %T", c)}
	}
}
