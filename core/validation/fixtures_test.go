/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"bytes"
	"testing"

	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/stretchr/testify/require"
)

// blockSeconds is the time of the block every test validates against.
const blockSeconds = 1700000000

var testBlock = &staterepository.BlockHeader{
	Height:                10,
	Time:                  staterepository.BlockTime{Seconds: blockSeconds},
	CoreChainLockedHeight: 100,
}

func testID(seed string) identifier.Identifier {
	return identifier.MustFromBytes(crypto.SHA256([]byte(seed)))
}

func privateKey(n byte) []byte {
	return bytes.Repeat([]byte{n}, 32)
}

func publicKeyData(t *testing.T, n byte) []byte {
	signer, err := crypto.NewECDSASigner(privateKey(n))
	require.NoError(t, err)
	return signer.PublicKey()
}

// testIdentity has one authentication key per security level. Key i is
// backed by privateKey(i+1).
func testIdentity(t *testing.T, seed string) *identity.Identity {
	i := &identity.Identity{
		ID:         testID(seed),
		PublicKeys: map[identity.KeyID]identity.PublicKey{},
		Balance:    1000000,
		Revision:   1,
	}
	for id, level := range []identity.SecurityLevel{
		identity.SecurityLevelMaster,
		identity.SecurityLevelCritical,
		identity.SecurityLevelHigh,
		identity.SecurityLevelMedium,
	} {
		keyID := identity.KeyID(id)
		i.PublicKeys[keyID] = identity.PublicKey{
			ID:            keyID,
			Purpose:       identity.PurposeAuthentication,
			SecurityLevel: level,
			Type:          identity.KeyTypeECDSASecp256k1,
			Data:          publicKeyData(t, byte(id+1)),
		}
	}
	return i
}

// p2pkh is a standard pay to public key hash output script.
func p2pkh(hash byte) []byte {
	script := []byte{0x76, 0xa9, 0x14}
	script = append(script, bytes.Repeat([]byte{hash}, 20)...)
	return append(script, 0x88, 0xac)
}

func signWith(t *testing.T, st statetransition.StateTransition, keyID identity.KeyID) {
	require.NoError(t, statetransition.SignByPrivateKey(st, keyID, privateKey(byte(keyID+1))))
}

func withdrawalTransition(t *testing.T, owner *identity.Identity) *statetransition.IdentityCreditWithdrawalTransitionV0 {
	st := &statetransition.IdentityCreditWithdrawalTransitionV0{
		IdentityID:     owner.ID,
		Amount:         5000,
		CoreFeePerByte: 1,
		Pooling:        statetransition.PoolingNever,
		OutputScript:   p2pkh(0x11),
		Revision:       owner.Revision + 1,
	}
	signWith(t, st, 1)
	return st
}

func transferTransition(t *testing.T, sender, recipient identifier.Identifier, amount uint64) *statetransition.IdentityCreditTransferTransitionV0 {
	st := &statetransition.IdentityCreditTransferTransitionV0{
		IdentityID:  sender,
		RecipientID: recipient,
		Amount:      amount,
	}
	signWith(t, st, 1)
	return st
}
