/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package serialization implements the platform binary format: a big endian
// bincode layout with variable length integers.
package serialization

import (
	"encoding/binary"
	"math"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
)

// StateTransitionMaxSize is the encoding limit of a state transition in bytes.
const StateTransitionMaxSize = 100000

// varint markers
const (
	singleByteMax = 250
	u16Marker     = 251
	u32Marker     = 252
	u64Marker     = 253
)

// Config tunes an encoding or decoding run.
type Config struct {
	// Limit is the maximum number of bytes. Zero means unlimited.
	Limit int
	// Signable leaves out fields tagged `platform:"sig"`.
	Signable bool
}

// Encodable is implemented by types that write themselves. Errors are
// reported with Encoder.Fail.
type Encodable interface {
	EncodePlatform(e *Encoder)
}

// Encoder appends values to a buffer. The first error is sticky; once an
// error is recorded every later write is a no-op.
type Encoder struct {
	buf []byte
	cfg Config
	err error
}

func NewEncoder(cfg Config) *Encoder {
	return &Encoder{cfg: cfg}
}

// Signable reports whether signature fields are being left out.
func (e *Encoder) Signable() bool { return e.cfg.Signable }

// Err returns the first error encountered.
func (e *Encoder) Err() error { return e.err }

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

// Fail records err unless an error is already recorded.
func (e *Encoder) Fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *Encoder) write(b ...byte) {
	if e.err != nil {
		return
	}
	if e.cfg.Limit > 0 && len(e.buf)+len(b) > e.cfg.Limit {
		e.err = &commonerrors.MaxEncodedBytesReachedError{
			MaxSizeBytes: uint64(e.cfg.Limit),
			SizeHit:       uint64(len(e.buf)),
		}
		return
	}
	e.buf = append(e.buf, b...)
}

func (e *Encoder) WriteU8(v uint8) { e.write(v) }

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.write(1)
		return
	}
	e.write(0)
}

// WriteVarUint writes an unsigned integer in the variable length form.
func (e *Encoder) WriteVarUint(v uint64) {
	var b [9]byte
	switch {
	case v <= singleByteMax:
		e.write(byte(v))
	case v <= math.MaxUint16:
		b[0] = u16Marker
		binary.BigEndian.PutUint16(b[1:], uint16(v))
		e.write(b[:3]...)
	case v <= math.MaxUint32:
		b[0] = u32Marker
		binary.BigEndian.PutUint32(b[1:], uint32(v))
		e.write(b[:5]...)
	default:
		b[0] = u64Marker
		binary.BigEndian.PutUint64(b[1:], v)
		e.write(b[:9]...)
	}
}

func (e *Encoder) WriteU16(v uint16) { e.WriteVarUint(uint64(v)) }
func (e *Encoder) WriteU32(v uint32) { e.WriteVarUint(uint64(v)) }
func (e *Encoder) WriteU64(v uint64) { e.WriteVarUint(v) }

// WriteI64 writes a zigzag encoded signed integer.
func (e *Encoder) WriteI64(v int64) {
	e.WriteVarUint(uint64(v<<1) ^ uint64(v>>63))
}

func (e *Encoder) WriteF64(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	e.write(b[:]...)
}

// WriteBytes writes a length prefixed byte string.
func (e *Encoder) WriteBytes(v []byte) {
	e.WriteVarUint(uint64(len(v)))
	e.write(v...)
}

// WriteFixed writes raw bytes without a length.
func (e *Encoder) WriteFixed(v []byte) { e.write(v...) }

func (e *Encoder) WriteString(v string) { e.WriteBytes([]byte(v)) }

// WriteOption writes the presence tag of an optional value.
func (e *Encoder) WriteOption(present bool) { e.WriteBool(present) }

// WriteEnum writes an enum discriminant.
func (e *Encoder) WriteEnum(index uint32) { e.WriteVarUint(uint64(index)) }

// WriteLen writes a sequence length.
func (e *Encoder) WriteLen(n int) { e.WriteVarUint(uint64(n)) }

// Encode writes v, dispatching to Encodable or reflection.
func (e *Encoder) Encode(v interface{}) {
	if e.err != nil {
		return
	}
	if enc, ok := v.(Encodable); ok {
		enc.EncodePlatform(e)
		return
	}
	encodeReflect(e, v)
}
