/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datatriggers

import (
	"context"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/systemcontracts"
)

func featureFlagsTriggerV0(_ context.Context, t statetransition.DocumentTransition, tc *Context) (*consensus.SimpleValidationResult, error) {
	result := consensus.NewSimpleValidationResult()
	enableAt, err := integerProperty(statetransition.DocumentData(t), systemcontracts.FeatureFlagEnableAtHeight)
	if err != nil {
		return nil, err
	}
	if tc.ExecutionContext.IsDryRun() {
		return result, nil
	}
	if enableAt < tc.BlockHeight {
		result.AddError(conditionError(t, "Feature flag cannot be enabled in the past"))
		return result, nil
	}
	if tc.OwnerID != tc.TopLevelIdentity {
		result.AddError(conditionError(t, "This identity can't activate selected feature flag"))
	}
	return result, nil
}
