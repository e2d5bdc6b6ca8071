/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package identity holds identities, their public keys, signature checks
// and the asset lock proofs identities are funded with.
package identity

import (
	"fmt"
	"sort"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/serialization"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

// MaxPublicKeys is the maximum number of keys an identity may hold.
const MaxPublicKeys = 10

// CreditsPerDuff converts asset lock output value to credits.
const CreditsPerDuff = 1000

// Identity is a registered identity. Balance is in credits.
type Identity struct {
	ID         identifier.Identifier
	PublicKeys map[KeyID]PublicKey
	Balance    uint64
	Revision   uint64
}

// PartialIdentity is an identity loaded with only the keys a caller asked
// for.
type PartialIdentity struct {
	ID                 identifier.Identifier
	LoadedPublicKeys   map[KeyID]PublicKey
	Balance            *uint64
	Revision           *uint64
	NotFoundPublicKeys []KeyID
}

// PublicKey returns the key with the given id.
func (i *Identity) PublicKey(id KeyID) (PublicKey, bool) {
	k, ok := i.PublicKeys[id]
	return k, ok
}

// PublicKeyIDs returns the key ids in ascending order.
func (i *Identity) PublicKeyIDs() []KeyID {
	ids := make([]KeyID, 0, len(i.PublicKeys))
	for id := range i.PublicKeys {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// MaxPublicKeyID returns the highest key id, or false without keys.
func (i *Identity) MaxPublicKeyID() (KeyID, bool) {
	ids := i.PublicKeyIDs()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[len(ids)-1], true
}

// Partial returns the identity with the keys in ids loaded.
func (i *Identity) Partial(ids ...KeyID) *PartialIdentity {
	p := &PartialIdentity{
		ID:               i.ID,
		LoadedPublicKeys: map[KeyID]PublicKey{},
	}
	balance, revision := i.Balance, i.Revision
	p.Balance = &balance
	p.Revision = &revision
	for _, id := range ids {
		if k, ok := i.PublicKeys[id]; ok {
			p.LoadedPublicKeys[id] = k
		} else {
			p.NotFoundPublicKeys = append(p.NotFoundPublicKeys, id)
		}
	}
	return p
}

// Clone returns a deep copy.
func (i *Identity) Clone() *Identity {
	c := *i
	c.PublicKeys = make(map[KeyID]PublicKey, len(i.PublicKeys))
	for id, k := range i.PublicKeys {
		k.Data = append([]byte(nil), k.Data...)
		if k.DisabledAt != nil {
			at := *k.DisabledAt
			k.DisabledAt = &at
		}
		c.PublicKeys[id] = k
	}
	return &c
}

func (i *Identity) ToObject() value.Value {
	keys := make([]value.Value, 0, len(i.PublicKeys))
	for _, id := range i.PublicKeyIDs() {
		k := i.PublicKeys[id]
		keys = append(keys, k.ToObject())
	}
	return value.NewMap(map[string]value.Value{
		"id":         value.NewIdentifier(i.ID),
		"publicKeys": value.NewArray(keys...),
		"balance":    value.NewU64(i.Balance),
		"revision":   value.NewU64(i.Revision),
	})
}

// Serialize writes the identity in the platform binary format.
func Serialize(i *Identity, pv *version.PlatformVersion) ([]byte, error) {
	formatVersion := pv.DPP.Identity.DefaultCurrentVersion
	switch formatVersion {
	case 0:
		e := serialization.NewEncoder(serialization.Config{})
		serialization.PutVersionPrefix(e, uint32(formatVersion))
		e.Encode(*i)
		if e.Err() != nil {
			return nil, e.Err()
		}
		return e.Bytes(), nil
	default:
		return nil, &commonerrors.UnknownVersionMismatchError{
			Method:        "Identity.Serialize",
			KnownVersions: []uint16{0},
			Received:      formatVersion,
		}
	}
}

// Deserialize reverses Serialize.
func Deserialize(b []byte, pv *version.PlatformVersion) (*Identity, error) {
	formatVersion, rest, err := serialization.ReadVersionPrefix(b)
	if err != nil {
		return nil, &commonerrors.PlatformDeserializationError{Reason: fmt.Sprintf("identity version prefix: %s", err)}
	}
	if formatVersion > 0xffff || !pv.DPP.Identity.CheckVersion(uint16(formatVersion)) {
		return nil, &commonerrors.PlatformDeserializationError{
			Reason: fmt.Sprintf("identity serialization version %d is not supported", formatVersion),
		}
	}
	i := &Identity{}
	if err := serialization.Unmarshal(rest, i, serialization.Config{}); err != nil {
		return nil, err
	}
	return i, nil
}
