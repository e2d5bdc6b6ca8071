/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package serialization

import (
	"fmt"
	"reflect"
	"sort"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
)

const tagName = "platform"

var (
	encodableType = reflect.TypeOf((*Encodable)(nil)).Elem()
	decodableType = reflect.TypeOf((*Decodable)(nil)).Elem()
)

// Marshal encodes v. Structs are written field by field in declaration
// order; fields tagged `platform:"-"` are skipped and fields tagged
// `platform:"sig"` are skipped when cfg.Signable is set.
func Marshal(v interface{}, cfg Config) ([]byte, error) {
	e := NewEncoder(cfg)
	e.Encode(v)
	if e.Err() != nil {
		return nil, e.Err()
	}
	return e.Bytes(), nil
}

// Unmarshal decodes b into v, which must be a pointer. The whole input must
// be consumed.
func Unmarshal(b []byte, v interface{}, cfg Config) error {
	if cfg.Limit > 0 && len(b) > cfg.Limit {
		return &commonerrors.PlatformDeserializationError{
			Reason: fmt.Sprintf("input of %d bytes exceeds limit of %d bytes", len(b), cfg.Limit),
		}
	}
	d := NewDecoder(b, cfg)
	d.Decode(v)
	if d.Err() != nil {
		return d.Err()
	}
	if d.Remaining() != 0 {
		return &commonerrors.PlatformDeserializationError{
			Reason: fmt.Sprintf("%d trailing bytes after decoding", d.Remaining()),
		}
	}
	return nil
}

func encodeReflect(e *Encoder, v interface{}) {
	if v == nil {
		e.Fail(&commonerrors.PlatformSerializationError{Reason: "cannot encode nil"})
		return
	}
	encodeValue(e, reflect.ValueOf(v))
}

func encodeValue(e *Encoder, rv reflect.Value) {
	if e.err != nil {
		return
	}
	if rv.Type().Implements(encodableType) {
		if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
			e.Fail(&commonerrors.PlatformSerializationError{Reason: fmt.Sprintf("nil %s", rv.Type())})
			return
		}
		rv.Interface().(Encodable).EncodePlatform(e)
		return
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(encodableType) {
		rv.Addr().Interface().(Encodable).EncodePlatform(e)
		return
	}

	switch rv.Kind() {
	case reflect.Bool:
		e.WriteBool(rv.Bool())
	case reflect.Uint8:
		e.WriteU8(uint8(rv.Uint()))
	case reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		e.WriteVarUint(rv.Uint())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		e.WriteI64(rv.Int())
	case reflect.Float32, reflect.Float64:
		e.WriteF64(rv.Float())
	case reflect.String:
		e.WriteString(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			e.WriteBytes(rv.Bytes())
			return
		}
		e.WriteLen(rv.Len())
		for i := 0; i < rv.Len(); i++ {
			encodeValue(e, rv.Index(i))
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			e.WriteFixed(b)
			return
		}
		for i := 0; i < rv.Len(); i++ {
			encodeValue(e, rv.Index(i))
		}
	case reflect.Map:
		keys := rv.MapKeys()
		if err := sortKeys(keys); err != nil {
			e.Fail(err)
			return
		}
		e.WriteLen(len(keys))
		for _, k := range keys {
			encodeValue(e, k)
			encodeValue(e, rv.MapIndex(k))
		}
	case reflect.Ptr:
		e.WriteOption(!rv.IsNil())
		if !rv.IsNil() {
			encodeValue(e, rv.Elem())
		}
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if skipField(f, e.cfg.Signable) {
				continue
			}
			encodeValue(e, rv.Field(i))
		}
	default:
		e.Fail(&commonerrors.PlatformSerializationError{Reason: fmt.Sprintf("unsupported type %s", rv.Type())})
	}
}

func decodeReflect(d *Decoder, v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		d.Fail(&commonerrors.PlatformDeserializationError{Reason: fmt.Sprintf("decode target must be a non nil pointer, got %T", v)})
		return
	}
	decodeValue(d, rv.Elem())
}

func decodeValue(d *Decoder, rv reflect.Value) {
	if d.err != nil {
		return
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(decodableType) {
		rv.Addr().Interface().(Decodable).DecodePlatform(d)
		return
	}

	switch rv.Kind() {
	case reflect.Bool:
		rv.SetBool(d.ReadBool())
	case reflect.Uint8:
		rv.SetUint(uint64(d.ReadU8()))
	case reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		u := d.ReadVarUint()
		if rv.OverflowUint(u) {
			d.Failf("value %d overflows %s", u, rv.Type())
			return
		}
		rv.SetUint(u)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		i := d.ReadI64()
		if rv.OverflowInt(i) {
			d.Failf("value %d overflows %s", i, rv.Type())
			return
		}
		rv.SetInt(i)
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(d.ReadF64())
	case reflect.String:
		rv.SetString(d.ReadString())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			rv.SetBytes(d.ReadBytes())
			return
		}
		n := d.ReadLen()
		s := reflect.MakeSlice(rv.Type(), n, n)
		for i := 0; i < n && d.err == nil; i++ {
			decodeValue(d, s.Index(i))
		}
		rv.Set(s)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := d.ReadFixed(rv.Len())
			if b != nil {
				reflect.Copy(rv, reflect.ValueOf(b))
			}
			return
		}
		for i := 0; i < rv.Len() && d.err == nil; i++ {
			decodeValue(d, rv.Index(i))
		}
	case reflect.Map:
		n := d.ReadLen()
		m := reflect.MakeMapWithSize(rv.Type(), n)
		for i := 0; i < n && d.err == nil; i++ {
			k := reflect.New(rv.Type().Key()).Elem()
			decodeValue(d, k)
			val := reflect.New(rv.Type().Elem()).Elem()
			decodeValue(d, val)
			m.SetMapIndex(k, val)
		}
		rv.Set(m)
	case reflect.Ptr:
		if !d.ReadOption() {
			rv.Set(reflect.Zero(rv.Type()))
			return
		}
		p := reflect.New(rv.Type().Elem())
		decodeValue(d, p.Elem())
		rv.Set(p)
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField() && d.err == nil; i++ {
			f := t.Field(i)
			if skipField(f, d.cfg.Signable) {
				continue
			}
			decodeValue(d, rv.Field(i))
		}
	default:
		d.Fail(&commonerrors.PlatformDeserializationError{Reason: fmt.Sprintf("unsupported type %s", rv.Type())})
	}
}

func skipField(f reflect.StructField, signable bool) bool {
	if f.PkgPath != "" {
		return true
	}
	switch f.Tag.Get(tagName) {
	case "-":
		return true
	case "sig":
		return signable
	}
	return false
}

func sortKeys(keys []reflect.Value) error {
	if len(keys) == 0 {
		return nil
	}
	switch keys[0].Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	default:
		return &commonerrors.PlatformSerializationError{Reason: fmt.Sprintf("unsupported map key type %s", keys[0].Type())}
	}
	return nil
}
