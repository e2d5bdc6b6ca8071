/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"encoding/json"
	"fmt"
	"math/rand"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/value"
)

// Limits enforced on contracts and their indices.
const (
	MaxDepth                          = 500
	MaxIndexedStringPropertyLength    = 63
	UniqueIndexLimit                  = 3
	MaxIndexedByteArrayPropertyLength = 255
	MaxIndexedArrayItems              = 1024
)

var (
	NotAllowedSystemProperties   = []string{"$id"}
	AllowedIndexSystemProperties = []string{"$ownerId", "$createdAt", "$updatedAt"}
)

// maxRandomIndexAttempts bounds RandomIndex retries.
const maxRandomIndexAttempts = 1000

const (
	directionAsc  = "asc"
	directionDesc = "desc"
)

type IndexProperty struct {
	Name      string
	Ascending bool
}

// Index is one entry of a document type's indices.
type Index struct {
	Name       string
	Properties []IndexProperty
	Unique     bool
}

// PropertyNames returns the indexed property names in order.
func (i Index) PropertyNames() []string {
	names := make([]string, len(i.Properties))
	for n, p := range i.Properties {
		names[n] = p.Name
	}
	return names
}

// Fingerprint is the canonical JSON of the ordered properties. Two indices
// with the same fingerprint index the same fields in the same directions.
func (i Index) Fingerprint() string {
	props := make([]map[string]string, len(i.Properties))
	for n, p := range i.Properties {
		dir := directionDesc
		if p.Ascending {
			dir = directionAsc
		}
		props[n] = map[string]string{p.Name: dir}
	}
	b, err := json.Marshal(props)
	if err != nil {
		logger.Panicf("Failed rendering index fingerprint: %s", err)
	}
	return string(b)
}

func (i Index) samePropertiesAs(o Index) bool {
	if len(i.Properties) != len(o.Properties) {
		return false
	}
	for n := range i.Properties {
		if i.Properties[n] != o.Properties[n] {
			return false
		}
	}
	return true
}

// ToValue renders the index the way it appears in a document schema.
func (i Index) ToValue() value.Value {
	props := make([]value.Value, len(i.Properties))
	for n, p := range i.Properties {
		dir := directionDesc
		if p.Ascending {
			dir = directionAsc
		}
		props[n] = value.NewMap(map[string]value.Value{p.Name: value.NewText(dir)})
	}
	m := map[string]value.Value{
		"name":       value.NewText(i.Name),
		"properties": value.NewArray(props...),
	}
	if i.Unique {
		m["unique"] = value.NewBool(true)
	}
	return value.NewMap(m)
}

// IndicesFromSchema parses the indices entry of a document schema. A schema
// without indices has none.
func IndicesFromSchema(schema value.Value) ([]Index, error) {
	raw, ok, err := schema.GetOptionalArray(SchemaIndices)
	if err != nil || !ok {
		return nil, err
	}
	indices := make([]Index, 0, len(raw))
	for n, item := range raw {
		index, err := indexFromValue(item)
		if err != nil {
			return nil, &commonerrors.ValueError{Reason: fmt.Sprintf("index %d: %s", n, err)}
		}
		indices = append(indices, index)
	}
	return indices, nil
}

func indexFromValue(v value.Value) (Index, error) {
	name, err := v.GetText("name")
	if err != nil {
		return Index{}, err
	}
	index := Index{Name: name}
	if unique, err := v.GetOptionalBool("unique"); err != nil {
		return Index{}, err
	} else if unique != nil {
		index.Unique = *unique
	}

	props, err := v.GetArray("properties")
	if err != nil {
		return Index{}, err
	}
	for _, p := range props {
		if !p.IsMap() || p.Len() != 1 {
			return Index{}, &commonerrors.ValueError{Reason: "index property must be a map with one entry"}
		}
		field := p.Keys()[0]
		dir, err := p.GetText(field)
		if err != nil {
			return Index{}, err
		}
		switch dir {
		case directionAsc:
			index.Properties = append(index.Properties, IndexProperty{Name: field, Ascending: true})
		case directionDesc:
			index.Properties = append(index.Properties, IndexProperty{Name: field})
		default:
			return Index{}, &commonerrors.ValueError{Reason: fmt.Sprintf("invalid index direction '%s'", dir)}
		}
	}
	return index, nil
}

// IndexLevel is a trie of index properties. A path from the root to a level
// with HasIndexWithUniqueness set spells out the properties of an index.
type IndexLevel struct {
	subLevels map[string]*IndexLevel
	order     []string

	HasIndexWithUniqueness *bool
}

func newIndexLevel() *IndexLevel {
	return &IndexLevel{subLevels: map[string]*IndexLevel{}}
}

// IndexLevelFromIndices inserts the properties of every index in order.
// When several indices end on the same level the level is unique if any of
// them is.
func IndexLevelFromIndices(indices []Index) *IndexLevel {
	root := newIndexLevel()
	for _, index := range indices {
		cur := root
		for _, p := range index.Properties {
			next, ok := cur.subLevels[p.Name]
			if !ok {
				next = newIndexLevel()
				cur.subLevels[p.Name] = next
				cur.order = append(cur.order, p.Name)
			}
			cur = next
		}
		if cur == root {
			continue
		}
		unique := index.Unique
		if cur.HasIndexWithUniqueness != nil {
			unique = unique || *cur.HasIndexWithUniqueness
		}
		cur.HasIndexWithUniqueness = &unique
	}
	return root
}

// SubLevel returns the child level for a property.
func (l *IndexLevel) SubLevel(name string) (*IndexLevel, bool) {
	sub, ok := l.subLevels[name]
	return sub, ok
}

// SubLevelNames returns child property names in insertion order.
func (l *IndexLevel) SubLevelNames() []string {
	return append([]string(nil), l.order...)
}

// Paths lists the property path of every terminal level, depth first in
// insertion order.
func (l *IndexLevel) Paths() [][]string {
	var paths [][]string
	var walk func(level *IndexLevel, prefix []string)
	walk = func(level *IndexLevel, prefix []string) {
		for _, name := range level.order {
			sub := level.subLevels[name]
			path := append(append([]string(nil), prefix...), name)
			if sub.HasIndexWithUniqueness != nil {
				paths = append(paths, path)
			}
			walk(sub, path)
		}
	}
	walk(l, nil)
	return paths
}

// RandomIndex generates an index over a random non empty subset of
// fieldNames whose properties differ from every existing index.
func RandomIndex(fieldNames []string, existing []Index, rng *rand.Rand) (Index, error) {
	if len(fieldNames) == 0 {
		return Index{}, &commonerrors.GenericError{Reason: "cannot generate an index without fields"}
	}
	name := fmt.Sprintf("index_%d", uint16(rng.Intn(1<<16)))

	var properties []IndexProperty
	for attempts := 0; ; {
		count := 1 + rng.Intn(len(fieldNames))
		perm := rng.Perm(len(fieldNames))[:count]
		properties = make([]IndexProperty, count)
		for n, idx := range perm {
			properties[n] = IndexProperty{Name: fieldNames[idx], Ascending: rng.Intn(2) == 1}
		}

		candidate := Index{Properties: properties}
		duplicate := false
		for _, e := range existing {
			if e.samePropertiesAs(candidate) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			break
		}

		attempts++
		if attempts >= maxRandomIndexAttempts {
			return Index{}, &commonerrors.GenericError{Reason: "Unable to generate a unique index after maximum attempts"}
		}
	}

	return Index{
		Name:       name,
		Properties: properties,
		Unique:     rng.Intn(2) == 1,
	}, nil
}
