/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package value

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/pkg/errors"
)

// FromJSON parses JSON keeping integers as integers: non negative integers
// become U64, negative ones I64 and anything with a fraction or exponent Float.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, valueErrorf("invalid json: %s", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, valueErrorf("invalid json: trailing data")
	}
	return FromInterface(raw)
}

// FromInterface converts a generic Go tree, such as decoded JSON or YAML.
func FromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return fromNumber(string(t))
	case string:
		return NewText(t), nil
	case []byte:
		return NewBytes(t), nil
	case identifier.Identifier:
		return NewIdentifier(t), nil
	case float64:
		if t == math.Trunc(t) && !strings.ContainsAny(strconv.FormatFloat(t, 'g', -1, 64), "e.") {
			if t >= 0 {
				return NewU64(uint64(t)), nil
			}
			return NewI64(int64(t)), nil
		}
		return NewFloat(t), nil
	case float32:
		return NewFloat(float64(t)), nil
	case uint8:
		return NewU8(t), nil
	case uint16:
		return NewU16(t), nil
	case uint32:
		return NewU32(t), nil
	case uint64:
		return NewU64(t), nil
	case uint:
		return NewU64(uint64(t)), nil
	case int, int8, int16, int32, int64:
		i := reflect.ValueOf(t).Int()
		if i >= 0 {
			return NewU64(uint64(i)), nil
		}
		return NewI64(i), nil
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromInterface(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return NewArray(items...), nil
	case []Value:
		return NewArray(t...), nil
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			v, err := FromInterface(item)
			if err != nil {
				return Value{}, errors.WithMessagef(err, "at '%s'", k)
			}
			m[k] = v
		}
		return NewMap(m), nil
	case map[interface{}]interface{}:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			key, ok := k.(string)
			if !ok {
				return Value{}, valueErrorf("map key %v is not a string", k)
			}
			v, err := FromInterface(item)
			if err != nil {
				return Value{}, err
			}
			m[key] = v
		}
		return NewMap(m), nil
	case map[string]Value:
		return NewMap(t), nil
	}
	return Value{}, valueErrorf("unsupported type %T", raw)
}

// MustFromInterface is FromInterface for fixtures.
func MustFromInterface(raw interface{}) Value {
	v, err := FromInterface(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func fromNumber(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if strings.HasPrefix(s, "-") {
			i, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return NewI64(i), nil
			}
		} else {
			u, err := strconv.ParseUint(s, 10, 64)
			if err == nil {
				return NewU64(u), nil
			}
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, valueErrorf("invalid number '%s'", s)
	}
	return NewFloat(f), nil
}

// ToInterface converts to a generic tree with identifiers as base58 strings
// and bytes as base64 strings.
func (v Value) ToInterface() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindU8, KindU16, KindU32, KindU64:
		return v.u
	case KindI64:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.raw)
	case KindIdentifier:
		return v.id.String()
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToInterface()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = item.ToInterface()
		}
		return out
	}
	return nil
}

// ToJSON renders the value as JSON with sorted map keys.
func (v Value) ToJSON() ([]byte, error) {
	b, err := json.Marshal(v.ToInterface())
	if err != nil {
		return nil, valueErrorf("failed rendering json: %s", err)
	}
	return b, nil
}

// ToValidatingJSON converts to the tree a JSON-Schema validator sees:
// numbers become json.Number, identifiers and bytes become arrays of byte
// values so that byteArray schemas apply to them.
func (v Value) ToValidatingJSON() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindU8, KindU16, KindU32, KindU64:
		return json.Number(strconv.FormatUint(v.u, 10))
	case KindI64:
		return json.Number(strconv.FormatInt(v.i, 10))
	case KindFloat:
		return json.Number(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindText:
		return v.s
	case KindBytes:
		return bytesToJSONArray(v.raw)
	case KindIdentifier:
		return bytesToJSONArray(v.id[:])
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToValidatingJSON()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = item.ToValidatingJSON()
		}
		return out
	}
	panic(fmt.Sprintf("unknown value kind %d", v.kind))
}

func bytesToJSONArray(b []byte) []interface{} {
	out := make([]interface{}, len(b))
	for i, c := range b {
		out[i] = json.Number(strconv.Itoa(int(c)))
	}
	return out
}
