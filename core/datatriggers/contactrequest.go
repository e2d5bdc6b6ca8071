/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datatriggers

import (
	"context"
	"math"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/systemcontracts"
)

// contactRequestTriggerV0 checks that a contact request targets another
// existing identity and, when it carries a core height, that the height is
// close to the current chain lock.
func contactRequestTriggerV0(ctx context.Context, t statetransition.DocumentTransition, tc *Context) (*consensus.SimpleValidationResult, error) {
	result := consensus.NewSimpleValidationResult()
	if _, ok := t.(*statetransition.DocumentCreateTransition); !ok {
		return result, nil
	}
	ec := tc.ExecutionContext
	data := statetransition.DocumentData(t)

	toUserID, err := identifierProperty(data, systemcontracts.ContactRequestToUserID)
	if err != nil {
		return nil, err
	}

	if !ec.IsDryRun() {
		if toUserID == tc.OwnerID {
			result.AddError(conditionError(t, "Identity %s must not be equal to owner id", toUserID))
			return result, nil
		}
		if _, ok := data[systemcontracts.ContactRequestCoreHeightCreatedAt]; ok {
			height, err := integerProperty(data, systemcontracts.ContactRequestCoreHeightCreatedAt)
			if err != nil {
				return nil, err
			}
			start, end := heightWindow(tc.CoreChainLockedHeight, systemcontracts.ContactRequestCoreHeightBlockWindow)
			if height < uint64(start) || height > uint64(end) {
				result.AddError(conditionError(t, "Core height %d is out of block height window from %d to %d", height, start, end))
				return result, nil
			}
		}
	}

	recipient, err := tc.Repository.FetchIdentity(ctx, toUserID, ec)
	if err != nil {
		return nil, err
	}
	if !ec.IsDryRun() && recipient == nil {
		result.AddError(conditionError(t, "Identity %s doesn't exist", toUserID))
	}
	return result, nil
}

// heightWindow saturates at both ends.
func heightWindow(current, size uint32) (start, end uint32) {
	if current > size {
		start = current - size
	}
	end = math.MaxUint32
	if current < math.MaxUint32-size {
		end = current + size
	}
	return start, end
}
