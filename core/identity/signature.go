/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/pkg/errors"
)

// ErrKeyTypeCannotSign is returned when a key of a type that cannot sign
// state transitions is asked to verify one.
var ErrKeyTypeCannotSign = errors.New("key type cannot sign state transitions")

// VerifySignature checks a compact secp256k1 signature over data. Hash160
// keys are matched against the hash of the recovered key.
func VerifySignature(key *PublicKey, data, signature []byte) error {
	switch key.Type {
	case KeyTypeECDSASecp256k1:
		return crypto.VerifyECDSA(signature, data, key.Data)
	case KeyTypeECDSAHash160:
		return crypto.VerifyECDSAHash160(signature, data, key.Data)
	}
	return errors.Wrapf(ErrKeyTypeCannotSign, "key %d of type %s", key.ID, key.Type)
}

// VerifyHash160Signature checks a signature against a raw public key hash,
// as carried by asset lock outputs.
func VerifyHash160Signature(publicKeyHash, data, signature []byte) error {
	return crypto.VerifyECDSAHash160(signature, data, publicKeyHash)
}

// Sign produces the signature VerifySignature accepts for the key derived
// from privateKey.
func Sign(privateKey, data []byte) ([]byte, error) {
	signer, err := crypto.NewECDSASigner(privateKey)
	if err != nil {
		return nil, err
	}
	return signer.Sign(data)
}
