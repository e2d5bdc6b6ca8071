/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package crypto

import (
	"crypto/rand"

	"github.com/pkg/errors"
)

// EntropySize is the number of random bytes mixed into generated ids.
const EntropySize = 32

// GetRandomBytes returns len random looking bytes
func GetRandomBytes(len int) ([]byte, error) {
	key := make([]byte, len)

	_, err := rand.Read(key)
	if err != nil {
		return nil, errors.Wrap(err, "error getting random bytes")
	}

	return key, nil
}

// GetRandomEntropy returns EntropySize random bytes for id generation.
func GetRandomEntropy() ([]byte, error) {
	return GetRandomBytes(EntropySize)
}
