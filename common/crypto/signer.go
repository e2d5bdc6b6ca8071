/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package crypto

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

// Signer signs messages.
type Signer interface {
	// Sign returns the signature over the double SHA-256 of message.
	Sign(message []byte) ([]byte, error)
}

// ECDSASigner produces 65 byte compact recoverable secp256k1 signatures.
type ECDSASigner struct {
	key *btcec.PrivateKey
}

// NewECDSASigner parses a raw 32 byte private key.
func NewECDSASigner(privateKey []byte) (*ECDSASigner, error) {
	if len(privateKey) != btcec.PrivKeyBytesLen {
		return nil, errors.Errorf("private key must be %d bytes long, got %d", btcec.PrivKeyBytesLen, len(privateKey))
	}
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), privateKey)
	return &ECDSASigner{key: priv}, nil
}

// NewRandomECDSASigner generates a fresh key.
func NewRandomECDSASigner() (*ECDSASigner, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errors.Wrap(err, "failed generating secp256k1 key")
	}
	return &ECDSASigner{key: priv}, nil
}

// PublicKey returns the 33 byte compressed public key.
func (s *ECDSASigner) PublicKey() []byte {
	return s.key.PubKey().SerializeCompressed()
}

// PublicKeyHash returns Hash160 of the compressed public key.
func (s *ECDSASigner) PublicKeyHash() []byte {
	return Hash160(s.PublicKey())
}

func (s *ECDSASigner) Sign(message []byte) ([]byte, error) {
	sig, err := btcec.SignCompact(btcec.S256(), s.key, DoubleSHA256(message), true)
	if err != nil {
		return nil, errors.Wrap(err, "failed signing message")
	}
	return sig, nil
}

// RecoverPublicKey returns the compressed public key that produced the
// compact signature over message.
func RecoverPublicKey(signature, message []byte) ([]byte, error) {
	pub, _, err := btcec.RecoverCompact(btcec.S256(), signature, DoubleSHA256(message))
	if err != nil {
		return nil, errors.Wrap(err, "failed recovering public key")
	}
	return pub.SerializeCompressed(), nil
}

// VerifyECDSA checks a compact signature against a compressed public key.
func VerifyECDSA(signature, message, publicKey []byte) error {
	recovered, err := RecoverPublicKey(signature, message)
	if err != nil {
		return err
	}
	if !bytes.Equal(recovered, publicKey) {
		return errors.New("signature does not match public key")
	}
	return nil
}

// VerifyECDSAHash160 checks a compact signature against a public key hash.
func VerifyECDSAHash160(signature, message, publicKeyHash []byte) error {
	recovered, err := RecoverPublicKey(signature, message)
	if err != nil {
		return err
	}
	if !bytes.Equal(Hash160(recovered), publicKeyHash) {
		return errors.New("signature does not match public key hash")
	}
	return nil
}

// ValidatePublicKey reports whether b is a valid serialized secp256k1 key.
func ValidatePublicKey(b []byte) error {
	_, err := btcec.ParsePubKey(b, btcec.S256())
	return errors.Wrap(err, "invalid secp256k1 public key")
}
