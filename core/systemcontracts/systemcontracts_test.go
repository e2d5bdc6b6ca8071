/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package systemcontracts

import (
	"testing"

	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/stretchr/testify/assert"
)

func TestIsSystemContract(t *testing.T) {
	for _, id := range []identifier.Identifier{
		DPNSContractID, DashPayContractID, MasternodeRewardSharesContractID, FeatureFlagsContractID, WithdrawalsContractID,
	} {
		assert.True(t, IsSystemContract(id), id.String())
		assert.False(t, id.IsZero())
	}
	assert.False(t, IsSystemContract(identifier.Identifier{1}))
	assert.Equal(t, "QUEUED", WithdrawalQueued.String())
	assert.Equal(t, "UNKNOWN", WithdrawalStatusValue(9).String())
}
