/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package value implements the dynamic value tree that contracts, documents
// and raw state transitions are carried in before they are typed.
package value

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/mr-tron/base58"
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindU8
	KindU16
	KindU32
	KindU64
	KindI64
	KindFloat
	KindText
	KindBytes
	KindIdentifier
	KindArray
	KindMap
)

var kindNames = [...]string{"null", "bool", "u8", "u16", "u32", "u64", "i64", "float", "text", "bytes", "identifier", "array", "map"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a tagged union. The zero Value is Null. Maps are keyed by strings
// and iterate in sorted key order.
type Value struct {
	kind Kind
	b    bool
	u    uint64
	i    int64
	f    float64
	s    string
	raw  []byte
	id   identifier.Identifier
	arr  []Value
	m    map[string]Value
}

func Null() Value                                { return Value{} }
func NewBool(v bool) Value                       { return Value{kind: KindBool, b: v} }
func NewU8(v uint8) Value                        { return Value{kind: KindU8, u: uint64(v)} }
func NewU16(v uint16) Value                      { return Value{kind: KindU16, u: uint64(v)} }
func NewU32(v uint32) Value                      { return Value{kind: KindU32, u: uint64(v)} }
func NewU64(v uint64) Value                      { return Value{kind: KindU64, u: v} }
func NewI64(v int64) Value                       { return Value{kind: KindI64, i: v} }
func NewFloat(v float64) Value                   { return Value{kind: KindFloat, f: v} }
func NewText(v string) Value                     { return Value{kind: KindText, s: v} }
func NewBytes(v []byte) Value                    { return Value{kind: KindBytes, raw: v} }
func NewIdentifier(v identifier.Identifier) Value { return Value{kind: KindIdentifier, id: v} }

// NewArray builds an array value from items.
func NewArray(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// NewMap builds a map value. A nil map yields an empty one.
func NewMap(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: m}
}

// EmptyMap is NewMap(nil).
func EmptyMap() Value { return NewMap(nil) }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsMap() bool    { return v.kind == KindMap }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsText() bool   { return v.kind == KindText }
func (v Value) IsBytes() bool  { return v.kind == KindBytes }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsFloat() bool  { return v.kind == KindFloat }
func (v Value) IsInteger() bool {
	switch v.kind {
	case KindU8, KindU16, KindU32, KindU64, KindI64:
		return true
	}
	return false
}

func valueErrorf(format string, args ...interface{}) error {
	return &commonerrors.ValueError{Reason: fmt.Sprintf(format, args...)}
}

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, valueErrorf("expected bool, got %s", v.kind)
	}
	return v.b, nil
}

// AsU64 accepts any integer kind holding a non negative value.
func (v Value) AsU64() (uint64, error) {
	switch v.kind {
	case KindU8, KindU16, KindU32, KindU64:
		return v.u, nil
	case KindI64:
		if v.i < 0 {
			return 0, valueErrorf("integer %d is negative", v.i)
		}
		return uint64(v.i), nil
	}
	return 0, valueErrorf("expected integer, got %s", v.kind)
}

func (v Value) asUnsigned(max uint64, name string) (uint64, error) {
	u, err := v.AsU64()
	if err != nil {
		return 0, err
	}
	if u > max {
		return 0, valueErrorf("integer %d overflows %s", u, name)
	}
	return u, nil
}

func (v Value) AsU32() (uint32, error) {
	u, err := v.asUnsigned(math.MaxUint32, "u32")
	return uint32(u), err
}

func (v Value) AsU16() (uint16, error) {
	u, err := v.asUnsigned(math.MaxUint16, "u16")
	return uint16(u), err
}

func (v Value) AsU8() (uint8, error) {
	u, err := v.asUnsigned(math.MaxUint8, "u8")
	return uint8(u), err
}

func (v Value) AsI64() (int64, error) {
	switch v.kind {
	case KindI64:
		return v.i, nil
	case KindU8, KindU16, KindU32, KindU64:
		if v.u > math.MaxInt64 {
			return 0, valueErrorf("integer %d overflows i64", v.u)
		}
		return int64(v.u), nil
	}
	return 0, valueErrorf("expected integer, got %s", v.kind)
}

// AsFloat accepts floats and integers.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindI64:
		return float64(v.i), nil
	case KindU8, KindU16, KindU32, KindU64:
		return float64(v.u), nil
	}
	return 0, valueErrorf("expected number, got %s", v.kind)
}

func (v Value) AsText() (string, error) {
	if v.kind != KindText {
		return "", valueErrorf("expected text, got %s", v.kind)
	}
	return v.s, nil
}

// AsBytes accepts byte strings, identifiers and arrays of small integers.
func (v Value) AsBytes() ([]byte, error) {
	switch v.kind {
	case KindBytes:
		return v.raw, nil
	case KindIdentifier:
		return v.id.Bytes(), nil
	case KindArray:
		out := make([]byte, len(v.arr))
		for i, item := range v.arr {
			b, err := item.AsU8()
			if err != nil {
				return nil, valueErrorf("expected byte array: item %d: %s", i, err)
			}
			out[i] = b
		}
		return out, nil
	}
	return nil, valueErrorf("expected bytes, got %s", v.kind)
}

// AsIdentifier accepts identifiers, 32 byte strings or arrays and base58 text.
func (v Value) AsIdentifier() (identifier.Identifier, error) {
	switch v.kind {
	case KindIdentifier:
		return v.id, nil
	case KindText:
		b, err := base58.Decode(v.s)
		if err != nil {
			return identifier.Zero, valueErrorf("invalid base58 identifier '%s'", v.s)
		}
		id, err := identifier.FromBytes(b)
		if err != nil {
			return identifier.Zero, valueErrorf("%s", err)
		}
		return id, nil
	case KindBytes, KindArray:
		b, err := v.AsBytes()
		if err != nil {
			return identifier.Zero, err
		}
		id, err := identifier.FromBytes(b)
		if err != nil {
			return identifier.Zero, valueErrorf("%s", err)
		}
		return id, nil
	}
	return identifier.Zero, valueErrorf("expected identifier, got %s", v.kind)
}

func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, valueErrorf("expected array, got %s", v.kind)
	}
	return v.arr, nil
}

// AsMap returns the underlying map. Mutating it mutates v.
func (v Value) AsMap() (map[string]Value, error) {
	if v.kind != KindMap {
		return nil, valueErrorf("expected map, got %s", v.kind)
	}
	return v.m, nil
}

// Len returns the number of array items or map entries.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindMap:
		return len(v.m)
	case KindBytes:
		return len(v.raw)
	case KindText:
		return len(v.s)
	}
	return 0
}

// Keys returns the sorted keys of a map value.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal compares deeply. Integer kinds compare by numeric value.
func (v Value) Equal(o Value) bool {
	if v.IsInteger() && o.IsInteger() {
		switch {
		case v.kind == KindI64 && v.i < 0, o.kind == KindI64 && o.i < 0:
			vi, err1 := v.AsI64()
			oi, err2 := o.AsI64()
			return err1 == nil && err2 == nil && vi == oi
		default:
			vu, _ := v.AsU64()
			ou, _ := o.AsU64()
			return vu == ou
		}
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindFloat:
		return v.f == o.f
	case KindText:
		return v.s == o.s
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	case KindIdentifier:
		return v.id == o.id
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, a := range v.m {
			b, ok := o.m[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindBytes:
		return NewBytes(append([]byte(nil), v.raw...))
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Clone()
		}
		return NewArray(items...)
	case KindMap:
		m := make(map[string]Value, len(v.m))
		for k, item := range v.m {
			m[k] = item.Clone()
		}
		return NewMap(m)
	}
	return v
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprint(v.b)
	case KindU8, KindU16, KindU32, KindU64:
		return fmt.Sprint(v.u)
	case KindI64:
		return fmt.Sprint(v.i)
	case KindFloat:
		return fmt.Sprint(v.f)
	case KindText:
		return fmt.Sprintf("%q", v.s)
	case KindIdentifier:
		return v.id.String()
	}
	b, err := v.ToJSON()
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(b)
}
