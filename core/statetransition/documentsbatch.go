/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statetransition

import (
	"fmt"

	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

// Limits of a documents batch.
const (
	MaxDocumentTransitions = 10
)

// Document transition property names.
const (
	PropertyTransitions = "transitions"
	PropertyAction      = "$action"
	PropertyEntropyDoc  = "$entropy"
)

// DocumentTransitionAction is the document operation a transition
// requests.
type DocumentTransitionAction uint8

const (
	ActionCreate  DocumentTransitionAction = 0
	ActionReplace DocumentTransitionAction = 1
	ActionDelete  DocumentTransitionAction = 3
)

func (a DocumentTransitionAction) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionReplace:
		return "replace"
	case ActionDelete:
		return "delete"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// DocumentTransition is one of *DocumentCreateTransition,
// *DocumentReplaceTransition and *DocumentDeleteTransition.
type DocumentTransition interface {
	Action() DocumentTransitionAction
	BaseTransition() *DocumentBaseTransition
	ToObject() value.Value
	isDocumentTransition()
}

// DocumentBaseTransition holds the fields every document transition has.
type DocumentBaseTransition struct {
	ID             identifier.Identifier
	DocumentType   string
	DataContractID identifier.Identifier
}

func (b *DocumentBaseTransition) BaseTransition() *DocumentBaseTransition { return b }

func (b *DocumentBaseTransition) writeObject(m map[string]value.Value, action DocumentTransitionAction) {
	m[document.PropertyID] = value.NewIdentifier(b.ID)
	m[document.PropertyType] = value.NewText(b.DocumentType)
	m[document.PropertyDataContractID] = value.NewIdentifier(b.DataContractID)
	m[PropertyAction] = value.NewU8(uint8(action))
}

func baseFromObject(obj value.Value) (DocumentBaseTransition, error) {
	var b DocumentBaseTransition
	var err error
	if b.ID, err = obj.RemoveIdentifier(document.PropertyID); err != nil {
		return b, errors.WithMessage(err, "document transition $id")
	}
	if b.DocumentType, err = obj.RemoveText(document.PropertyType); err != nil {
		return b, errors.WithMessage(err, "document transition $type")
	}
	if b.DataContractID, err = obj.RemoveIdentifier(document.PropertyDataContractID); err != nil {
		return b, errors.WithMessage(err, "document transition $dataContractId")
	}
	obj.Remove(PropertyAction)
	return b, nil
}

// DocumentCreateTransition creates a document. Entropy feeds the document
// id.
type DocumentCreateTransition struct {
	DocumentBaseTransition
	Entropy   [32]byte
	CreatedAt *uint64
	UpdatedAt *uint64
	Data      map[string]value.Value
}

func (*DocumentCreateTransition) isDocumentTransition()            {}
func (*DocumentCreateTransition) Action() DocumentTransitionAction { return ActionCreate }

func (t *DocumentCreateTransition) ToObject() value.Value {
	m := cloneData(t.Data)
	t.writeObject(m, ActionCreate)
	m[PropertyEntropyDoc] = value.NewBytes(append([]byte(nil), t.Entropy[:]...))
	putOptionalU64(m, document.PropertyCreatedAt, t.CreatedAt)
	putOptionalU64(m, document.PropertyUpdatedAt, t.UpdatedAt)
	return value.NewMap(m)
}

// DocumentReplaceTransition replaces the data of a document. Revision is
// the revision the document will have.
type DocumentReplaceTransition struct {
	DocumentBaseTransition
	Revision  uint64
	UpdatedAt *uint64
	Data      map[string]value.Value
}

func (*DocumentReplaceTransition) isDocumentTransition()            {}
func (*DocumentReplaceTransition) Action() DocumentTransitionAction { return ActionReplace }

func (t *DocumentReplaceTransition) ToObject() value.Value {
	m := cloneData(t.Data)
	t.writeObject(m, ActionReplace)
	m[document.PropertyRevision] = value.NewU64(t.Revision)
	putOptionalU64(m, document.PropertyUpdatedAt, t.UpdatedAt)
	return value.NewMap(m)
}

// DocumentDeleteTransition deletes a document.
type DocumentDeleteTransition struct {
	DocumentBaseTransition
}

func (*DocumentDeleteTransition) isDocumentTransition()            {}
func (*DocumentDeleteTransition) Action() DocumentTransitionAction { return ActionDelete }

func (t *DocumentDeleteTransition) ToObject() value.Value {
	m := map[string]value.Value{}
	t.writeObject(m, ActionDelete)
	return value.NewMap(m)
}

// DocumentData returns the user data of create and replace transitions.
func DocumentData(t DocumentTransition) map[string]value.Value {
	switch t := t.(type) {
	case *DocumentCreateTransition:
		return t.Data
	case *DocumentReplaceTransition:
		return t.Data
	}
	return nil
}

func cloneData(data map[string]value.Value) map[string]value.Value {
	m := make(map[string]value.Value, len(data)+8)
	for k, v := range data {
		m[k] = v.Clone()
	}
	return m
}

func putOptionalU64(m map[string]value.Value, key string, v *uint64) {
	if v != nil {
		m[key] = value.NewU64(*v)
	}
}

// DocumentTransitionFromObject parses the object form of a document
// transition.
func DocumentTransitionFromObject(raw value.Value) (DocumentTransition, error) {
	if !raw.IsMap() {
		return nil, errors.Errorf("document transition must be a map, got %s", raw.Kind())
	}
	obj := raw.Clone()
	item, ok := obj.Get(PropertyAction)
	if !ok {
		return nil, errors.New("document transition $action is not present")
	}
	action, err := item.AsU8()
	if err != nil {
		return nil, errors.WithMessage(err, "document transition $action")
	}
	base, err := baseFromObject(obj)
	if err != nil {
		return nil, err
	}

	switch DocumentTransitionAction(action) {
	case ActionCreate:
		t := &DocumentCreateTransition{DocumentBaseTransition: base}
		entropy, err := obj.RemoveBytes(PropertyEntropyDoc)
		if err != nil {
			return nil, errors.WithMessage(err, "document transition $entropy")
		}
		if len(entropy) != len(t.Entropy) {
			return nil, errors.Errorf("document transition $entropy must be %d bytes long, got %d", len(t.Entropy), len(entropy))
		}
		copy(t.Entropy[:], entropy)
		if t.CreatedAt, err = obj.RemoveOptionalInteger(document.PropertyCreatedAt); err != nil {
			return nil, err
		}
		if t.UpdatedAt, err = obj.RemoveOptionalInteger(document.PropertyUpdatedAt); err != nil {
			return nil, err
		}
		t.Data, _ = obj.AsMap()
		return t, nil
	case ActionReplace:
		t := &DocumentReplaceTransition{DocumentBaseTransition: base}
		if t.Revision, err = obj.RemoveInteger(document.PropertyRevision); err != nil {
			return nil, errors.WithMessage(err, "document transition $revision")
		}
		if t.UpdatedAt, err = obj.RemoveOptionalInteger(document.PropertyUpdatedAt); err != nil {
			return nil, err
		}
		t.Data, _ = obj.AsMap()
		return t, nil
	case ActionDelete:
		return &DocumentDeleteTransition{DocumentBaseTransition: base}, nil
	}
	return nil, errors.Errorf("unknown document transition action %d", action)
}

// DocumentTransitions encodes each transition as its action followed by
// its fields.
type DocumentTransitions []DocumentTransition

func (ts DocumentTransitions) EncodePlatform(e *serialization.Encoder) {
	e.WriteLen(len(ts))
	for _, t := range ts {
		switch t := t.(type) {
		case *DocumentCreateTransition:
			e.WriteU8(uint8(ActionCreate))
			e.Encode(*t)
		case *DocumentReplaceTransition:
			e.WriteU8(uint8(ActionReplace))
			e.Encode(*t)
		case *DocumentDeleteTransition:
			e.WriteU8(uint8(ActionDelete))
			e.Encode(*t)
		default:
			e.Fail(errors.Errorf("unknown document transition %T", t))
		}
	}
}

func (ts *DocumentTransitions) DecodePlatform(d *serialization.Decoder) {
	n := d.ReadLen()
	out := make(DocumentTransitions, 0, n)
	for i := 0; i < n && d.Err() == nil; i++ {
		switch action := DocumentTransitionAction(d.ReadU8()); action {
		case ActionCreate:
			t := &DocumentCreateTransition{}
			d.Decode(t)
			out = append(out, t)
		case ActionReplace:
			t := &DocumentReplaceTransition{}
			d.Decode(t)
			out = append(out, t)
		case ActionDelete:
			t := &DocumentDeleteTransition{}
			d.Decode(t)
			out = append(out, t)
		default:
			if d.Err() == nil {
				d.Failf("unknown document transition action %d", action)
			}
		}
	}
	*ts = out
}

var (
	batchSignatureProperties = []string{PropertySignature, PropertySignaturePublicKeyID}
	batchIdentifierProperties = []string{
		PropertyOwnerID,
		PropertyTransitions + "[]." + document.PropertyID,
		PropertyTransitions + "[]." + document.PropertyDataContractID,
	}
	batchBinaryProperties = []string{PropertySignature, PropertyTransitions + "[]." + PropertyEntropyDoc}
)

// DocumentsBatchTransitionV0 creates, replaces and deletes documents of
// one owner.
type DocumentsBatchTransitionV0 struct {
	Owner          identifier.Identifier
	Transitions    DocumentTransitions
	SignatureKeyID identity.KeyID `platform:"sig"`
	SignatureBytes []byte         `platform:"sig"`
}

func (*DocumentsBatchTransitionV0) isStateTransition()                     {}
func (*DocumentsBatchTransitionV0) Type() Type                             { return TypeDocumentsBatch }
func (*DocumentsBatchTransitionV0) FeatureVersion() version.FeatureVersion { return 0 }
func (st *DocumentsBatchTransitionV0) Signature() []byte                   { return st.SignatureBytes }
func (st *DocumentsBatchTransitionV0) SetSignature(signature []byte)       { st.SignatureBytes = signature }
func (st *DocumentsBatchTransitionV0) SignaturePublicKeyID() identity.KeyID {
	return st.SignatureKeyID
}
func (st *DocumentsBatchTransitionV0) SetSignaturePublicKeyID(id identity.KeyID) {
	st.SignatureKeyID = id
}
func (st *DocumentsBatchTransitionV0) OwnerID() identifier.Identifier { return st.Owner }

func (st *DocumentsBatchTransitionV0) ModifiedDataIDs() []identifier.Identifier {
	ids := make([]identifier.Identifier, 0, len(st.Transitions))
	for _, t := range st.Transitions {
		ids = append(ids, t.BaseTransition().ID)
	}
	return ids
}

func (*DocumentsBatchTransitionV0) SignatureProperties() []string  { return batchSignatureProperties }
func (*DocumentsBatchTransitionV0) IdentifierProperties() []string { return batchIdentifierProperties }
func (*DocumentsBatchTransitionV0) BinaryProperties() []string     { return batchBinaryProperties }

func (st *DocumentsBatchTransitionV0) ToObject(skipSignature bool) (value.Value, error) {
	m := baseObject(st)
	m[PropertyOwnerID] = value.NewIdentifier(st.Owner)
	transitions := make([]value.Value, 0, len(st.Transitions))
	for _, t := range st.Transitions {
		transitions = append(transitions, t.ToObject())
	}
	m[PropertyTransitions] = value.NewArray(transitions...)
	putIdentitySignature(m, skipSignature, st.SignatureKeyID, st.SignatureBytes)
	return value.NewMap(m), nil
}

func (st *DocumentsBatchTransitionV0) SignableBytes() ([]byte, error) { return signableBytes(st) }
func (st *DocumentsBatchTransitionV0) Hash(skipSignature bool) ([]byte, error) {
	return hash(st, skipSignature)
}
func (st *DocumentsBatchTransitionV0) ToCleanedObject(skipSignature bool) (value.Value, error) {
	return toCleanedObject(st, skipSignature)
}
func (st *DocumentsBatchTransitionV0) ToJSON(skipSignature bool) ([]byte, error) {
	return toJSON(st, skipSignature)
}

func documentsBatchFromObject(obj value.Value) (*DocumentsBatchTransitionV0, error) {
	st := &DocumentsBatchTransitionV0{}
	var err error
	if st.Owner, err = obj.GetIdentifier(PropertyOwnerID); err != nil {
		return nil, err
	}
	items, err := obj.GetArray(PropertyTransitions)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		t, err := DocumentTransitionFromObject(item)
		if err != nil {
			return nil, errors.WithMessagef(err, "transition %d", i)
		}
		st.Transitions = append(st.Transitions, t)
	}
	if st.SignatureBytes, st.SignatureKeyID, err = readSignature(obj); err != nil {
		return nil, err
	}
	return st, nil
}
