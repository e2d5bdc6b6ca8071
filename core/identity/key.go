/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"fmt"

	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/pkg/errors"
)

// KeyID identifies a public key within one identity.
type KeyID = uint32

// KeyType is the algorithm of a public key.
type KeyType uint8

const (
	KeyTypeECDSASecp256k1 KeyType = iota
	KeyTypeBLS12381
	KeyTypeECDSAHash160
	KeyTypeBIP13ScriptHash
)

// DataLength returns the size of the key data for the type.
func (t KeyType) DataLength() int {
	switch t {
	case KeyTypeECDSASecp256k1:
		return 33
	case KeyTypeBLS12381:
		return 48
	case KeyTypeECDSAHash160, KeyTypeBIP13ScriptHash:
		return 20
	}
	return 0
}

// IsValid reports whether t is a known key type.
func (t KeyType) IsValid() bool {
	return t <= KeyTypeBIP13ScriptHash
}

// CanSign reports whether keys of this type can sign state transitions.
func (t KeyType) CanSign() bool {
	return t == KeyTypeECDSASecp256k1 || t == KeyTypeECDSAHash160
}

func (t KeyType) String() string {
	switch t {
	case KeyTypeECDSASecp256k1:
		return "ECDSA_SECP256K1"
	case KeyTypeBLS12381:
		return "BLS12_381"
	case KeyTypeECDSAHash160:
		return "ECDSA_HASH160"
	case KeyTypeBIP13ScriptHash:
		return "BIP13_SCRIPT_HASH"
	}
	return fmt.Sprintf("KeyType(%d)", uint8(t))
}

// Purpose is what a public key may be used for.
type Purpose uint8

const (
	PurposeAuthentication Purpose = iota
	PurposeEncryption
	PurposeDecryption
	PurposeWithdraw
)

func (p Purpose) IsValid() bool { return p <= PurposeWithdraw }

func (p Purpose) String() string {
	switch p {
	case PurposeAuthentication:
		return "AUTHENTICATION"
	case PurposeEncryption:
		return "ENCRYPTION"
	case PurposeDecryption:
		return "DECRYPTION"
	case PurposeWithdraw:
		return "WITHDRAW"
	}
	return fmt.Sprintf("Purpose(%d)", uint8(p))
}

// SecurityLevel orders keys by strength. Lower values are stronger.
type SecurityLevel uint8

const (
	SecurityLevelMaster SecurityLevel = iota
	SecurityLevelCritical
	SecurityLevelHigh
	SecurityLevelMedium
)

func (l SecurityLevel) IsValid() bool { return l <= SecurityLevelMedium }

// Satisfies reports whether a key of level l may sign where required is
// needed.
func (l SecurityLevel) Satisfies(required SecurityLevel) bool {
	return l <= required
}

func (l SecurityLevel) String() string {
	switch l {
	case SecurityLevelMaster:
		return "MASTER"
	case SecurityLevelCritical:
		return "CRITICAL"
	case SecurityLevelHigh:
		return "HIGH"
	case SecurityLevelMedium:
		return "MEDIUM"
	}
	return fmt.Sprintf("SecurityLevel(%d)", uint8(l))
}

// PublicKey is a key registered on an identity.
type PublicKey struct {
	ID            KeyID
	Purpose       Purpose
	SecurityLevel SecurityLevel
	Type          KeyType
	ReadOnly      bool
	Data          []byte
	// DisabledAt is the block time in milliseconds the key was disabled at.
	DisabledAt *uint64
}

// IsDisabled reports whether the key has been disabled.
func (k *PublicKey) IsDisabled() bool {
	return k.DisabledAt != nil
}

// Hash returns the 20 byte key hash used to look identities up.
func (k *PublicKey) Hash() ([]byte, error) {
	switch k.Type {
	case KeyTypeECDSASecp256k1:
		return crypto.Hash160(k.Data), nil
	case KeyTypeECDSAHash160, KeyTypeBIP13ScriptHash:
		return k.Data, nil
	}
	return nil, errors.Errorf("hash of %s keys is not supported", k.Type)
}

// ValidateData checks the key data against its type. Only secp256k1 keys
// are parsed; the other types are checked for length.
func (k *PublicKey) ValidateData() error {
	if !k.Type.IsValid() {
		return errors.Errorf("unknown key type %d", uint8(k.Type))
	}
	if len(k.Data) != k.Type.DataLength() {
		return errors.Errorf("%s key data must be %d bytes long, got %d", k.Type, k.Type.DataLength(), len(k.Data))
	}
	if k.Type == KeyTypeECDSASecp256k1 {
		return crypto.ValidatePublicKey(k.Data)
	}
	return nil
}

func (k *PublicKey) ToObject() value.Value {
	m := map[string]value.Value{
		"id":            value.NewU32(k.ID),
		"purpose":       value.NewU8(uint8(k.Purpose)),
		"securityLevel": value.NewU8(uint8(k.SecurityLevel)),
		"type":          value.NewU8(uint8(k.Type)),
		"readOnly":      value.NewBool(k.ReadOnly),
		"data":          value.NewBytes(k.Data),
	}
	if k.DisabledAt != nil {
		m["disabledAt"] = value.NewU64(*k.DisabledAt)
	}
	return value.NewMap(m)
}

// PublicKeyFromObject reverses ToObject. Binary data may be bytes, a byte
// array or base64 text.
func PublicKeyFromObject(raw value.Value) (PublicKey, error) {
	var k PublicKey
	id, err := raw.GetU32("id")
	if err != nil {
		return k, err
	}
	k.ID = id
	for _, f := range []struct {
		name string
		dst  *uint8
	}{
		{"purpose", (*uint8)(&k.Purpose)},
		{"securityLevel", (*uint8)(&k.SecurityLevel)},
		{"type", (*uint8)(&k.Type)},
	} {
		item, ok := raw.Get(f.name)
		if !ok {
			return k, errors.Errorf("public key is missing '%s'", f.name)
		}
		if *f.dst, err = item.AsU8(); err != nil {
			return k, errors.WithMessagef(err, "public key '%s'", f.name)
		}
	}
	if readOnly, err := raw.GetOptionalBool("readOnly"); err != nil {
		return k, err
	} else if readOnly != nil {
		k.ReadOnly = *readOnly
	}
	data := raw.Clone()
	if err := data.ReplaceAtPaths([]string{"data"}, value.ReplaceWithBytes); err != nil {
		return k, err
	}
	if k.Data, err = data.GetBytes("data"); err != nil {
		return k, err
	}
	if k.DisabledAt, err = raw.GetOptionalU64("disabledAt"); err != nil {
		return k, err
	}
	return k, nil
}
