/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package document holds the document model stored under data contract
// document types.
package document

import (
	"sort"

	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/pkg/errors"
)

// InitialRevision is the revision of a newly created document.
const InitialRevision uint64 = 1

// System property names.
const (
	PropertyID             = "$id"
	PropertyType           = "$type"
	PropertyDataContractID = "$dataContractId"
	PropertyOwnerID        = "$ownerId"
	PropertyRevision       = "$revision"
	PropertyCreatedAt      = "$createdAt"
	PropertyUpdatedAt      = "$updatedAt"
)

// Document is a stored document. Timestamps are milliseconds since the
// epoch.
type Document struct {
	ID         identifier.Identifier
	OwnerID    identifier.Identifier
	Properties map[string]value.Value
	Revision   *uint64
	CreatedAt  *uint64
	UpdatedAt  *uint64
}

// GenerateDocumentID derives the id of a document created by ownerID.
func GenerateDocumentID(contractID, ownerID identifier.Identifier, documentType string, entropy []byte) identifier.Identifier {
	return identifier.MustFromBytes(crypto.DoubleSHA256(
		contractID.Bytes(),
		ownerID.Bytes(),
		[]byte(documentType),
		entropy,
	))
}

// Get returns the value at path. System properties are resolved from the
// document fields and user properties by dotted path.
func (d *Document) Get(path string) (value.Value, bool) {
	switch path {
	case PropertyID:
		return value.NewIdentifier(d.ID), true
	case PropertyOwnerID:
		return value.NewIdentifier(d.OwnerID), true
	case PropertyRevision:
		return optionalU64(d.Revision)
	case PropertyCreatedAt:
		return optionalU64(d.CreatedAt)
	case PropertyUpdatedAt:
		return optionalU64(d.UpdatedAt)
	}
	return value.NewMap(d.Properties).GetAtPath(path)
}

func optionalU64(v *uint64) (value.Value, bool) {
	if v == nil {
		return value.Null(), false
	}
	return value.NewU64(*v), true
}

// Set stores a user property at path.
func (d *Document) Set(path string, v value.Value) error {
	if d.Properties == nil {
		d.Properties = map[string]value.Value{}
	}
	return value.NewMap(d.Properties).SetAtPath(path, v)
}

// PropertyNames returns the user property names in sorted order.
func (d *Document) PropertyNames() []string {
	names := make([]string, 0, len(d.Properties))
	for name := range d.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IncrementRevision bumps the revision. A document without a revision
// cannot be updated.
func (d *Document) IncrementRevision() error {
	if d.Revision == nil {
		return errors.New("document revision is not set")
	}
	next := *d.Revision + 1
	d.Revision = &next
	return nil
}

// ToObject returns the document as a map with the system properties
// prefixed by '$'.
func (d *Document) ToObject() value.Value {
	m := make(map[string]value.Value, len(d.Properties)+5)
	for k, v := range d.Properties {
		m[k] = v.Clone()
	}
	m[PropertyID] = value.NewIdentifier(d.ID)
	m[PropertyOwnerID] = value.NewIdentifier(d.OwnerID)
	if d.Revision != nil {
		m[PropertyRevision] = value.NewU64(*d.Revision)
	}
	if d.CreatedAt != nil {
		m[PropertyCreatedAt] = value.NewU64(*d.CreatedAt)
	}
	if d.UpdatedAt != nil {
		m[PropertyUpdatedAt] = value.NewU64(*d.UpdatedAt)
	}
	return value.NewMap(m)
}

// FromObject reverses ToObject. $type and $dataContractId are dropped;
// they belong to the transition, not to the stored document.
func FromObject(raw value.Value) (*Document, error) {
	obj := raw.Clone()
	if !obj.IsMap() {
		return nil, errors.Errorf("document must be a map, got %s", obj.Kind())
	}
	d := &Document{}
	var err error
	if d.ID, err = obj.RemoveIdentifier(PropertyID); err != nil {
		return nil, errors.WithMessage(err, "document $id")
	}
	if d.OwnerID, err = obj.RemoveIdentifier(PropertyOwnerID); err != nil {
		return nil, errors.WithMessage(err, "document $ownerId")
	}
	if d.Revision, err = obj.RemoveOptionalInteger(PropertyRevision); err != nil {
		return nil, errors.WithMessage(err, "document $revision")
	}
	if d.CreatedAt, err = obj.RemoveOptionalInteger(PropertyCreatedAt); err != nil {
		return nil, errors.WithMessage(err, "document $createdAt")
	}
	if d.UpdatedAt, err = obj.RemoveOptionalInteger(PropertyUpdatedAt); err != nil {
		return nil, errors.WithMessage(err, "document $updatedAt")
	}
	obj.Remove(PropertyType)
	obj.Remove(PropertyDataContractID)

	d.Properties, err = obj.AsMap()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		ID:      d.ID,
		OwnerID: d.OwnerID,
	}
	if d.Properties != nil {
		c.Properties = make(map[string]value.Value, len(d.Properties))
		for k, v := range d.Properties {
			c.Properties[k] = v.Clone()
		}
	}
	c.Revision = copyU64(d.Revision)
	c.CreatedAt = copyU64(d.CreatedAt)
	c.UpdatedAt = copyU64(d.UpdatedAt)
	return c
}

func copyU64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
