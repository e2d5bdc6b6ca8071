/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package value

import (
	"github.com/dashpay/platform-drive/core/identifier"
)

// Get returns the entry of a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	item, ok := v.m[key]
	return item, ok
}

// Set stores an entry in a map value.
func (v Value) Set(key string, item Value) error {
	if v.kind != KindMap {
		return valueErrorf("cannot set '%s' on %s", key, v.kind)
	}
	v.m[key] = item
	return nil
}

// Remove deletes and returns an entry of a map value.
func (v Value) Remove(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	item, ok := v.m[key]
	if ok {
		delete(v.m, key)
	}
	return item, ok
}

// Has reports whether a map value holds a non null entry for key.
func (v Value) Has(key string) bool {
	item, ok := v.Get(key)
	return ok && !item.IsNull()
}

func (v Value) required(key string) (Value, error) {
	item, ok := v.Get(key)
	if !ok || item.IsNull() {
		return Value{}, valueErrorf("missing required property '%s'", key)
	}
	return item, nil
}

func (v Value) GetText(key string) (string, error) {
	item, err := v.required(key)
	if err != nil {
		return "", err
	}
	return item.AsText()
}

func (v Value) GetU64(key string) (uint64, error) {
	item, err := v.required(key)
	if err != nil {
		return 0, err
	}
	return item.AsU64()
}

func (v Value) GetU32(key string) (uint32, error) {
	item, err := v.required(key)
	if err != nil {
		return 0, err
	}
	return item.AsU32()
}

func (v Value) GetU16(key string) (uint16, error) {
	item, err := v.required(key)
	if err != nil {
		return 0, err
	}
	return item.AsU16()
}

func (v Value) GetBool(key string) (bool, error) {
	item, err := v.required(key)
	if err != nil {
		return false, err
	}
	return item.AsBool()
}

func (v Value) GetBytes(key string) ([]byte, error) {
	item, err := v.required(key)
	if err != nil {
		return nil, err
	}
	return item.AsBytes()
}

func (v Value) GetIdentifier(key string) (identifier.Identifier, error) {
	item, err := v.required(key)
	if err != nil {
		return identifier.Zero, err
	}
	return item.AsIdentifier()
}

func (v Value) GetArray(key string) ([]Value, error) {
	item, err := v.required(key)
	if err != nil {
		return nil, err
	}
	return item.AsArray()
}

func (v Value) GetMap(key string) (Value, error) {
	item, err := v.required(key)
	if err != nil {
		return Value{}, err
	}
	if !item.IsMap() {
		return Value{}, valueErrorf("property '%s' must be a map, got %s", key, item.kind)
	}
	return item, nil
}

// GetOptionalBool returns nil when the key is absent or null.
func (v Value) GetOptionalBool(key string) (*bool, error) {
	if !v.Has(key) {
		return nil, nil
	}
	b, err := v.GetBool(key)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (v Value) GetOptionalText(key string) (*string, error) {
	if !v.Has(key) {
		return nil, nil
	}
	s, err := v.GetText(key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (v Value) GetOptionalU64(key string) (*uint64, error) {
	if !v.Has(key) {
		return nil, nil
	}
	u, err := v.GetU64(key)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (v Value) GetOptionalU32(key string) (*uint32, error) {
	if !v.Has(key) {
		return nil, nil
	}
	u, err := v.GetU32(key)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetOptionalMap returns ok false when the key is absent or null.
func (v Value) GetOptionalMap(key string) (Value, bool, error) {
	if !v.Has(key) {
		return Value{}, false, nil
	}
	m, err := v.GetMap(key)
	return m, err == nil, err
}

func (v Value) GetOptionalArray(key string) ([]Value, bool, error) {
	if !v.Has(key) {
		return nil, false, nil
	}
	a, err := v.GetArray(key)
	return a, err == nil, err
}

// RemoveIdentifier removes a required identifier entry.
func (v Value) RemoveIdentifier(key string) (identifier.Identifier, error) {
	id, err := v.GetIdentifier(key)
	if err != nil {
		return identifier.Zero, err
	}
	v.Remove(key)
	return id, nil
}

// RemoveInteger removes a required unsigned integer entry.
func (v Value) RemoveInteger(key string) (uint64, error) {
	u, err := v.GetU64(key)
	if err != nil {
		return 0, err
	}
	v.Remove(key)
	return u, nil
}

func (v Value) RemoveText(key string) (string, error) {
	s, err := v.GetText(key)
	if err != nil {
		return "", err
	}
	v.Remove(key)
	return s, nil
}

func (v Value) RemoveBytes(key string) ([]byte, error) {
	b, err := v.GetBytes(key)
	if err != nil {
		return nil, err
	}
	v.Remove(key)
	return b, nil
}

// RemoveOptionalInteger removes an optional unsigned integer entry.
func (v Value) RemoveOptionalInteger(key string) (*uint64, error) {
	u, err := v.GetOptionalU64(key)
	if err != nil {
		return nil, err
	}
	v.Remove(key)
	return u, nil
}
