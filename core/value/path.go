/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package value

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReplaceWith is the target kind of ReplaceAtPaths.
type ReplaceWith int

const (
	ReplaceWithIdentifier ReplaceWith = iota
	ReplaceWithBytes
	ReplaceWithU32
	ReplaceWithU64
)

type segment struct {
	key string
	// index is -1 when the segment has no index, -2 for "[]".
	index int
}

const (
	noIndex  = -1
	allIndex = -2
)

// parsePath splits "a.b[0].c" and "transitions[].$id" into segments.
func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, valueErrorf("empty path")
	}
	parts := strings.Split(path, ".")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		seg := segment{key: part, index: noIndex}
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, valueErrorf("malformed path segment '%s' in '%s'", part, path)
			}
			seg.key = part[:open]
			idx := part[open+1 : len(part)-1]
			if idx == "" {
				seg.index = allIndex
			} else {
				n, err := strconv.Atoi(idx)
				if err != nil || n < 0 {
					return nil, valueErrorf("malformed index '%s' in '%s'", idx, path)
				}
				seg.index = n
			}
		}
		if seg.key == "" {
			return nil, valueErrorf("malformed path segment '%s' in '%s'", part, path)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// GetAtPath walks a dotted path with optional array indices. It reports
// false when any step is missing or of the wrong kind.
func (v Value) GetAtPath(path string) (Value, bool) {
	segments, err := parsePath(path)
	if err != nil {
		return Value{}, false
	}
	cur := v
	for _, seg := range segments {
		next, ok := cur.Get(seg.key)
		if !ok {
			return Value{}, false
		}
		switch {
		case seg.index == allIndex:
			return Value{}, false
		case seg.index >= 0:
			if next.kind != KindArray || seg.index >= len(next.arr) {
				return Value{}, false
			}
			next = next.arr[seg.index]
		}
		cur = next
	}
	return cur, true
}

// SetAtPath stores item at path, creating intermediate maps. Array indices
// must already exist.
func (v Value) SetAtPath(path string, item Value) error {
	segments, err := parsePath(path)
	if err != nil {
		return err
	}
	if v.kind != KindMap {
		return valueErrorf("cannot set path '%s' on %s", path, v.kind)
	}
	cur := v
	for i, seg := range segments {
		last := i == len(segments)-1
		if seg.index == allIndex {
			return valueErrorf("cannot set through '[]' in '%s'", path)
		}
		if seg.index == noIndex {
			if last {
				cur.m[seg.key] = item
				return nil
			}
			next, ok := cur.m[seg.key]
			if !ok || next.IsNull() {
				next = EmptyMap()
				cur.m[seg.key] = next
			}
			if next.kind != KindMap {
				return valueErrorf("path '%s' crosses %s at '%s'", path, next.kind, seg.key)
			}
			cur = next
			continue
		}
		arr, ok := cur.m[seg.key]
		if !ok || arr.kind != KindArray || seg.index >= len(arr.arr) {
			return valueErrorf("index %d out of range at '%s' in '%s'", seg.index, seg.key, path)
		}
		if last {
			arr.arr[seg.index] = item
			return nil
		}
		cur = arr.arr[seg.index]
		if cur.kind != KindMap {
			return valueErrorf("path '%s' crosses %s at '%s[%d]'", path, cur.kind, seg.key, seg.index)
		}
	}
	return nil
}

// RemoveAtPath removes and returns the entry at path.
func (v Value) RemoveAtPath(path string) (Value, bool) {
	idx := strings.LastIndexByte(path, '.')
	parent := v
	key := path
	if idx >= 0 {
		var ok bool
		parent, ok = v.GetAtPath(path[:idx])
		if !ok {
			return Value{}, false
		}
		key = path[idx+1:]
	}
	if strings.ContainsRune(key, '[') {
		return Value{}, false
	}
	return parent.Remove(key)
}

// ReplaceAtPaths converts the values found at paths in place. A "[]" segment
// applies the rest of the path to every element of an array. Missing paths
// are skipped.
func (v Value) ReplaceAtPaths(paths []string, with ReplaceWith) error {
	for _, path := range paths {
		segments, err := parsePath(path)
		if err != nil {
			return err
		}
		if err := replaceAt(v, segments, with); err != nil {
			return errors.WithMessagef(err, "failed replacing value at '%s'", path)
		}
	}
	return nil
}

func replaceAt(cur Value, segments []segment, with ReplaceWith) error {
	if cur.kind != KindMap {
		return nil
	}
	seg := segments[0]
	rest := segments[1:]
	item, ok := cur.m[seg.key]
	if !ok || item.IsNull() {
		return nil
	}

	switch seg.index {
	case noIndex:
		if len(rest) == 0 {
			replaced, err := convert(item, with)
			if err != nil {
				return err
			}
			cur.m[seg.key] = replaced
			return nil
		}
		return replaceAt(item, rest, with)
	case allIndex:
		if item.kind != KindArray {
			return nil
		}
		for i := range item.arr {
			if len(rest) == 0 {
				replaced, err := convert(item.arr[i], with)
				if err != nil {
					return err
				}
				item.arr[i] = replaced
				continue
			}
			if err := replaceAt(item.arr[i], rest, with); err != nil {
				return err
			}
		}
		return nil
	default:
		if item.kind != KindArray || seg.index >= len(item.arr) {
			return nil
		}
		if len(rest) == 0 {
			replaced, err := convert(item.arr[seg.index], with)
			if err != nil {
				return err
			}
			item.arr[seg.index] = replaced
			return nil
		}
		return replaceAt(item.arr[seg.index], rest, with)
	}
}

func convert(item Value, with ReplaceWith) (Value, error) {
	switch with {
	case ReplaceWithIdentifier:
		id, err := item.AsIdentifier()
		if err != nil {
			return Value{}, err
		}
		return NewIdentifier(id), nil
	case ReplaceWithBytes:
		if item.kind == KindText {
			b, err := base64.StdEncoding.DecodeString(item.s)
			if err != nil {
				return Value{}, valueErrorf("invalid base64 '%s'", item.s)
			}
			return NewBytes(b), nil
		}
		b, err := item.AsBytes()
		if err != nil {
			return Value{}, err
		}
		return NewBytes(b), nil
	case ReplaceWithU32:
		u, err := item.AsU32()
		if err != nil {
			return Value{}, err
		}
		return NewU32(u), nil
	case ReplaceWithU64:
		u, err := item.AsU64()
		if err != nil {
			return Value{}, err
		}
		return NewU64(u), nil
	}
	return Value{}, valueErrorf("unknown replacement %d", with)
}
