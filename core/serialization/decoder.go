/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package serialization

import (
	"encoding/binary"
	"fmt"
	"math"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
)

// Decodable is implemented by types that read themselves.
type Decodable interface {
	DecodePlatform(d *Decoder)
}

// Decoder reads values from a buffer. Like Encoder the first error is sticky
// and later reads return zero values.
type Decoder struct {
	buf []byte
	off int
	cfg Config
	err error
}

func NewDecoder(b []byte, cfg Config) *Decoder {
	return &Decoder{buf: b, cfg: cfg}
}

func (d *Decoder) Err() error { return d.err }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }

// Offset returns the number of bytes consumed.
func (d *Decoder) Offset() int { return d.off }

func (d *Decoder) Signable() bool { return d.cfg.Signable }

// Fail records err unless an error is already recorded.
func (d *Decoder) Fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Failf records a deserialization error.
func (d *Decoder) Failf(format string, args ...interface{}) {
	d.Fail(&commonerrors.PlatformDeserializationError{Reason: fmt.Sprintf(format, args...)})
}

func (d *Decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.Remaining() < n {
		d.Failf("unexpected end of input at offset %d: need %d bytes, have %d", d.off, n, d.Remaining())
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *Decoder) ReadU8() uint8 {
	b := d.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) ReadBool() bool {
	switch v := d.ReadU8(); v {
	case 0:
		return false
	case 1:
		return true
	default:
		d.Failf("invalid bool value %d", v)
		return false
	}
}

func (d *Decoder) ReadVarUint() uint64 {
	m := d.ReadU8()
	switch {
	case m <= singleByteMax:
		return uint64(m)
	case m == u16Marker:
		if b := d.read(2); b != nil {
			return uint64(binary.BigEndian.Uint16(b))
		}
	case m == u32Marker:
		if b := d.read(4); b != nil {
			return uint64(binary.BigEndian.Uint32(b))
		}
	case m == u64Marker:
		if b := d.read(8); b != nil {
			return binary.BigEndian.Uint64(b)
		}
	default:
		d.Failf("invalid varint marker %d", m)
	}
	return 0
}

func (d *Decoder) ReadU16() uint16 {
	v := d.ReadVarUint()
	if v > math.MaxUint16 {
		d.Failf("value %d overflows u16", v)
		return 0
	}
	return uint16(v)
}

func (d *Decoder) ReadU32() uint32 {
	v := d.ReadVarUint()
	if v > math.MaxUint32 {
		d.Failf("value %d overflows u32", v)
		return 0
	}
	return uint32(v)
}

func (d *Decoder) ReadU64() uint64 { return d.ReadVarUint() }

func (d *Decoder) ReadI64() int64 {
	u := d.ReadVarUint()
	return int64(u>>1) ^ -int64(u&1)
}

func (d *Decoder) ReadF64() float64 {
	b := d.read(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// ReadLen reads a sequence length and checks it against the remaining input,
// each element taking at least one byte.
func (d *Decoder) ReadLen() int {
	n := d.ReadVarUint()
	if d.err != nil {
		return 0
	}
	if n > uint64(d.Remaining()) {
		d.Failf("sequence length %d exceeds remaining input %d", n, d.Remaining())
		return 0
	}
	return int(n)
}

func (d *Decoder) ReadBytes() []byte {
	n := d.ReadLen()
	b := d.read(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (d *Decoder) ReadFixed(n int) []byte {
	b := d.read(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (d *Decoder) ReadString() string { return string(d.ReadBytes()) }

func (d *Decoder) ReadOption() bool { return d.ReadBool() }

func (d *Decoder) ReadEnum() uint32 { return d.ReadU32() }

// Decode reads into v, which must be a pointer.
func (d *Decoder) Decode(v interface{}) {
	if d.err != nil {
		return
	}
	if dec, ok := v.(Decodable); ok {
		dec.DecodePlatform(d)
		return
	}
	decodeReflect(d, v)
}
