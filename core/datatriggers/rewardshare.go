/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datatriggers

import (
	"context"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/systemcontracts"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/pkg/errors"
)

// rewardShareTriggerV0 limits the reward shares of a masternode owner to
// existing identities, a bounded count and at most 100% in total.
func rewardShareTriggerV0(ctx context.Context, t statetransition.DocumentTransition, tc *Context) (*consensus.SimpleValidationResult, error) {
	result := consensus.NewSimpleValidationResult()
	ec := tc.ExecutionContext
	dryRun := ec.IsDryRun()
	data := statetransition.DocumentData(t)

	isMasternode, err := tc.Repository.IsInTheValidMasterNodesList(ctx, tc.OwnerID, ec)
	if err != nil {
		return nil, err
	}
	if !dryRun && !isMasternode {
		result.AddError(conditionError(t, "Only masternode identities can share rewards"))
	}

	payToID, err := identifierProperty(data, systemcontracts.RewardSharePayToID)
	if err != nil {
		return nil, err
	}
	percentage, err := integerProperty(data, systemcontracts.RewardSharePercentage)
	if err != nil {
		return nil, err
	}

	payee, err := tc.Repository.FetchIdentity(ctx, payToID, ec)
	if err != nil {
		return nil, err
	}
	if !dryRun && payee == nil {
		result.AddError(conditionError(t, "Identity '%s' doesn't exist", payToID))
		return result, nil
	}

	base := t.BaseTransition()
	shares, err := tc.Repository.FetchDocuments(ctx, base.DataContractID, base.DocumentType, staterepository.Query{
		Where: []staterepository.WhereClause{{
			Field:    document.PropertyOwnerID,
			Operator: staterepository.OperatorEqual,
			Value:    value.NewIdentifier(tc.OwnerID),
		}},
	}, ec)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return result, nil
	}

	if len(shares) >= systemcontracts.RewardShareMaxDocuments {
		result.AddError(conditionError(t, "Reward shares cannot contain more than %d identities", systemcontracts.RewardShareMaxDocuments))
		return result, nil
	}

	total := percentage
	for _, share := range shares {
		p, err := integerProperty(share.Properties, systemcontracts.RewardSharePercentage)
		if err != nil {
			return nil, errors.WithMessagef(err, "reward share %s", share.ID)
		}
		total += p
	}
	if total > systemcontracts.RewardShareMaxPercent {
		result.AddError(conditionError(t, "Percentage can not be more than %d", systemcontracts.RewardShareMaxPercent))
	}
	return result, nil
}

func identifierProperty(data map[string]value.Value, name string) (identifier.Identifier, error) {
	v, ok := data[name]
	if !ok {
		return identifier.Zero, errors.Errorf("property '%s' is missing", name)
	}
	id, err := v.AsIdentifier()
	if err != nil {
		return identifier.Zero, errors.WithMessagef(err, "property '%s'", name)
	}
	return id, nil
}

func integerProperty(data map[string]value.Value, name string) (uint64, error) {
	v, ok := data[name]
	if !ok {
		return 0, errors.Errorf("property '%s' is missing", name)
	}
	n, err := v.AsU64()
	if err != nil {
		return 0, errors.WithMessagef(err, "property '%s'", name)
	}
	return n, nil
}
