/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package staterepository

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/pkg/errors"
)

// OperatorEqual is the only supported where operator.
const OperatorEqual = "=="

// WhereClause compares the document value at Field with Value.
type WhereClause struct {
	Field    string
	Operator string
	Value    value.Value
}

func (w WhereClause) String() string {
	return fmt.Sprintf("%s %s %s", w.Field, w.Operator, w.Value)
}

// Query selects documents of one document type. A zero Limit means no
// limit.
type Query struct {
	Where []WhereClause
	Limit int
}

func (q Query) String() string {
	clauses := make([]string, 0, len(q.Where))
	for _, w := range q.Where {
		clauses = append(clauses, w.String())
	}
	return fmt.Sprintf("where [%s] limit %d", strings.Join(clauses, ", "), q.Limit)
}

// Validate rejects unsupported operators.
func (q Query) Validate() error {
	for _, w := range q.Where {
		if w.Operator != OperatorEqual {
			return errors.Errorf("unsupported operator '%s' on '%s'", w.Operator, w.Field)
		}
		if w.Field == "" {
			return errors.New("where clause without field")
		}
	}
	if q.Limit < 0 {
		return errors.Errorf("negative limit %d", q.Limit)
	}
	return nil
}

// Matches reports whether d satisfies every clause.
func (q Query) Matches(d *document.Document) bool {
	for _, w := range q.Where {
		v, ok := d.Get(w.Field)
		if !ok || !valuesEqual(v, w.Value) {
			return false
		}
	}
	return true
}

// identifiers and bytes with the same content are equal
func valuesEqual(a, b value.Value) bool {
	if isBinary(a) && isBinary(b) {
		ab, err1 := a.AsBytes()
		bb, err2 := b.AsBytes()
		return err1 == nil && err2 == nil && bytes.Equal(ab, bb)
	}
	return a.Equal(b)
}

func isBinary(v value.Value) bool {
	return v.IsBytes() || v.Kind() == value.KindIdentifier
}
