/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package value

import (
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/serialization"
)

// maxNesting bounds recursion while decoding untrusted input.
const maxNesting = 1024

// EncodePlatform writes a kind tag followed by the payload.
func (v Value) EncodePlatform(e *serialization.Encoder) {
	e.WriteU8(uint8(v.kind))
	switch v.kind {
	case KindNull:
	case KindBool:
		e.WriteBool(v.b)
	case KindU8:
		e.WriteU8(uint8(v.u))
	case KindU16, KindU32, KindU64:
		e.WriteVarUint(v.u)
	case KindI64:
		e.WriteI64(v.i)
	case KindFloat:
		e.WriteF64(v.f)
	case KindText:
		e.WriteString(v.s)
	case KindBytes:
		e.WriteBytes(v.raw)
	case KindIdentifier:
		e.WriteFixed(v.id[:])
	case KindArray:
		e.WriteLen(len(v.arr))
		for _, item := range v.arr {
			item.EncodePlatform(e)
		}
	case KindMap:
		e.WriteLen(len(v.m))
		for _, k := range v.Keys() {
			e.WriteString(k)
			v.m[k].EncodePlatform(e)
		}
	default:
		e.Fail(valueErrorf("unknown value kind %d", v.kind))
	}
}

// DecodePlatform reads a value written by EncodePlatform.
func (v *Value) DecodePlatform(d *serialization.Decoder) {
	*v = decodePlatform(d, 0)
}

func decodePlatform(d *serialization.Decoder, depth int) Value {
	if depth > maxNesting {
		d.Failf("value nesting exceeds %d", maxNesting)
		return Value{}
	}
	kind := Kind(d.ReadU8())
	switch kind {
	case KindNull:
		return Null()
	case KindBool:
		return NewBool(d.ReadBool())
	case KindU8:
		return NewU8(d.ReadU8())
	case KindU16:
		return NewU16(d.ReadU16())
	case KindU32:
		return NewU32(d.ReadU32())
	case KindU64:
		return NewU64(d.ReadU64())
	case KindI64:
		return NewI64(d.ReadI64())
	case KindFloat:
		return NewFloat(d.ReadF64())
	case KindText:
		return NewText(d.ReadString())
	case KindBytes:
		return NewBytes(d.ReadBytes())
	case KindIdentifier:
		b := d.ReadFixed(identifier.Size)
		if b == nil {
			return Value{}
		}
		return NewIdentifier(identifier.MustFromBytes(b))
	case KindArray:
		n := d.ReadLen()
		items := make([]Value, 0, n)
		for i := 0; i < n && d.Err() == nil; i++ {
			items = append(items, decodePlatform(d, depth+1))
		}
		return NewArray(items...)
	case KindMap:
		n := d.ReadLen()
		m := make(map[string]Value, n)
		for i := 0; i < n && d.Err() == nil; i++ {
			k := d.ReadString()
			m[k] = decodePlatform(d, depth+1)
		}
		return NewMap(m)
	}
	d.Failf("unknown value kind %d", kind)
	return Value{}
}
