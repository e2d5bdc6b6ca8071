/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package crypto

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcutil"
)

// DoubleSHA256 hashes the concatenation of parts twice with SHA-256.
func DoubleSHA256(parts ...[]byte) []byte {
	if len(parts) == 1 {
		return chainhash.DoubleHashB(parts[0])
	}
	var size int
	for _, p := range parts {
		size += len(p)
	}
	buf := make([]byte, 0, size)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return chainhash.DoubleHashB(buf)
}

// SHA256 returns the single SHA-256 digest of data.
func SHA256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Hash160 is RIPEMD160(SHA256(data)), the digest used for key hashes.
func Hash160(data []byte) []byte {
	return btcutil.Hash160(data)
}
