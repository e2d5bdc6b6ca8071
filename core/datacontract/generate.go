/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"github.com/dashpay/platform-drive/common/crypto"
	"github.com/dashpay/platform-drive/core/identifier"
)

// GenerateDataContractID derives a contract id from its owner and entropy.
func GenerateDataContractID(ownerID identifier.Identifier, entropy []byte) identifier.Identifier {
	return identifier.MustFromBytes(crypto.DoubleSHA256(ownerID.Bytes(), entropy))
}
