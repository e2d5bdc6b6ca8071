/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package value

import (
	"bytes"
	"math"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/pkg/errors"
)

// ToCBOR encodes the value as DAG-CBOR. Map keys are ordered length first
// then bytewise, integers use their shortest form, so the output is
// deterministic. Identifiers are written as byte strings.
func (v Value) ToCBOR() ([]byte, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := assemble(nb, v); err != nil {
		return nil, &commonerrors.EncodingError{Reason: err.Error()}
	}
	var buf bytes.Buffer
	if err := dagcbor.Encode(nb.Build(), &buf); err != nil {
		return nil, &commonerrors.EncodingError{Reason: err.Error()}
	}
	return buf.Bytes(), nil
}

// FromCBOR decodes DAG-CBOR. Non negative integers decode as U64, negative
// ones as I64 and byte strings as Bytes.
func FromCBOR(b []byte) (Value, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(b)); err != nil {
		return Value{}, &commonerrors.DecodingError{Reason: err.Error()}
	}
	v, err := fromNode(nb.Build())
	if err != nil {
		return Value{}, &commonerrors.DecodingError{Reason: err.Error()}
	}
	return v, nil
}

func assemble(na datamodel.NodeAssembler, v Value) error {
	switch v.kind {
	case KindNull:
		return na.AssignNull()
	case KindBool:
		return na.AssignBool(v.b)
	case KindU8, KindU16, KindU32, KindU64:
		if v.u > math.MaxInt64 {
			return errors.Errorf("integer %d cannot be encoded", v.u)
		}
		return na.AssignInt(int64(v.u))
	case KindI64:
		return na.AssignInt(v.i)
	case KindFloat:
		return na.AssignFloat(v.f)
	case KindText:
		return na.AssignString(v.s)
	case KindBytes:
		return na.AssignBytes(v.raw)
	case KindIdentifier:
		return na.AssignBytes(v.id.Bytes())
	case KindArray:
		la, err := na.BeginList(int64(len(v.arr)))
		if err != nil {
			return err
		}
		for _, item := range v.arr {
			if err := assemble(la.AssembleValue(), item); err != nil {
				return err
			}
		}
		return la.Finish()
	case KindMap:
		ma, err := na.BeginMap(int64(len(v.m)))
		if err != nil {
			return err
		}
		for _, k := range v.Keys() {
			if err := ma.AssembleKey().AssignString(k); err != nil {
				return err
			}
			if err := assemble(ma.AssembleValue(), v.m[k]); err != nil {
				return errors.WithMessagef(err, "at '%s'", k)
			}
		}
		return ma.Finish()
	}
	return errors.Errorf("unknown value kind %d", v.kind)
}

type uintNode interface {
	AsUint() (uint64, error)
}

func fromNode(n datamodel.Node) (Value, error) {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return Null(), nil
	case datamodel.Kind_Bool:
		b, err := n.AsBool()
		return NewBool(b), err
	case datamodel.Kind_Int:
		if un, ok := n.(uintNode); ok {
			if u, err := un.AsUint(); err == nil {
				return NewU64(u), nil
			}
		}
		i, err := n.AsInt()
		if err != nil {
			return Value{}, err
		}
		if i >= 0 {
			return NewU64(uint64(i)), nil
		}
		return NewI64(i), nil
	case datamodel.Kind_Float:
		f, err := n.AsFloat()
		return NewFloat(f), err
	case datamodel.Kind_String:
		s, err := n.AsString()
		return NewText(s), err
	case datamodel.Kind_Bytes:
		b, err := n.AsBytes()
		return NewBytes(b), err
	case datamodel.Kind_List:
		items := make([]Value, 0, n.Length())
		for iter := n.ListIterator(); !iter.Done(); {
			_, item, err := iter.Next()
			if err != nil {
				return Value{}, err
			}
			v, err := fromNode(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return NewArray(items...), nil
	case datamodel.Kind_Map:
		m := make(map[string]Value, n.Length())
		for iter := n.MapIterator(); !iter.Done(); {
			k, item, err := iter.Next()
			if err != nil {
				return Value{}, err
			}
			key, err := k.AsString()
			if err != nil {
				return Value{}, err
			}
			v, err := fromNode(item)
			if err != nil {
				return Value{}, err
			}
			m[key] = v
		}
		return NewMap(m), nil
	}
	return Value{}, errors.Errorf("unsupported cbor node kind %s", n.Kind())
}
