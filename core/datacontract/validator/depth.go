/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/pkg/errors"
)

// refError is reported as InvalidJSONSchemaRefError.
type refError struct {
	reason string
}

func (e *refError) Error() string { return e.reason }

// depthMeasurer computes the nesting depth of a raw contract. A local $ref
// counts as the subtree it points to.
type depthMeasurer struct {
	root     value.Value
	resolved map[string]int
	visiting map[string]bool
}

// ValidateMaxDepth checks that raw is nested no deeper than
// datacontract.MaxDepth.
func ValidateMaxDepth(raw value.Value) *consensus.SimpleValidationResult {
	result := consensus.NewSimpleValidationResult()
	m := &depthMeasurer{
		root:     raw,
		resolved: map[string]int{},
		visiting: map[string]bool{},
	}
	depth, err := m.depth(raw, 0)
	if err != nil {
		if re, ok := err.(*refError); ok {
			result.AddError(&consensus.InvalidJSONSchemaRefError{RefError: re.reason})
			return result
		}
		result.AddError(&consensus.DataContractMaxDepthExceedError{MaxDepth: datacontract.MaxDepth})
		return result
	}
	if depth > datacontract.MaxDepth {
		result.AddError(&consensus.DataContractMaxDepthExceedError{MaxDepth: datacontract.MaxDepth})
	}
	return result
}

var errTooDeep = errors.New("depth limit exceeded")

// depth returns the height of v. level is the depth v sits at and bounds
// the recursion.
func (m *depthMeasurer) depth(v value.Value, level int) (int, error) {
	if level > datacontract.MaxDepth {
		return 0, errTooDeep
	}
	switch {
	case v.IsArray():
		items, _ := v.AsArray()
		deepest := 0
		for _, item := range items {
			d, err := m.depth(item, level+1)
			if err != nil {
				return 0, err
			}
			if d > deepest {
				deepest = d
			}
		}
		return deepest + 1, nil
	case v.IsMap():
		deepest := 0
		for _, key := range v.Keys() {
			item, _ := v.Get(key)
			var d int
			var err error
			if ref, ok := localRef(key, item); ok {
				d, err = m.refDepth(ref, level+1)
			} else {
				d, err = m.depth(item, level+1)
			}
			if err != nil {
				return 0, err
			}
			if d > deepest {
				deepest = d
			}
		}
		return deepest + 1, nil
	default:
		return 0, nil
	}
}

func (m *depthMeasurer) refDepth(ref string, level int) (int, error) {
	if d, ok := m.resolved[ref]; ok {
		return d, nil
	}
	if m.visiting[ref] {
		return 0, &refError{reason: fmt.Sprintf("the $ref '%s' is circular", ref)}
	}
	target, err := resolvePointer(m.root, ref)
	if err != nil {
		return 0, err
	}
	m.visiting[ref] = true
	d, err := m.depth(target, level)
	delete(m.visiting, ref)
	if err != nil {
		return 0, err
	}
	m.resolved[ref] = d
	return d, nil
}

func localRef(key string, item value.Value) (string, bool) {
	if key != datacontract.SchemaRef || !item.IsText() {
		return "", false
	}
	ref, _ := item.AsText()
	return ref, true
}

// resolvePointer resolves a "#/a/b" JSON pointer against root.
func resolvePointer(root value.Value, ref string) (value.Value, error) {
	if !strings.HasPrefix(ref, "#") {
		return value.Value{}, &refError{reason: fmt.Sprintf("only local references are allowed, got '%s'", ref)}
	}
	pointer := strings.TrimPrefix(ref, "#")
	if pointer == "" {
		return root, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return value.Value{}, &refError{reason: fmt.Sprintf("invalid JSON pointer in '%s'", ref)}
	}

	cur := root
	for _, token := range strings.Split(pointer[1:], "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch {
		case cur.IsMap():
			next, ok := cur.Get(token)
			if !ok {
				return value.Value{}, &refError{reason: fmt.Sprintf("can't resolve '%s'", ref)}
			}
			cur = next
		case cur.IsArray():
			items, _ := cur.AsArray()
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(items) {
				return value.Value{}, &refError{reason: fmt.Sprintf("can't resolve '%s'", ref)}
			}
			cur = items[i]
		default:
			return value.Value{}, &refError{reason: fmt.Sprintf("can't resolve '%s'", ref)}
		}
	}
	return cur, nil
}
