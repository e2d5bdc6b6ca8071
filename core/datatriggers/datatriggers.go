/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package datatriggers runs the extra state checks the platform attaches to
// document transitions of system data contracts.
package datatriggers

import (
	"context"
	"fmt"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/systemcontracts"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("datatriggers")

// Context is what a trigger sees of the batch it runs for.
type Context struct {
	DataContract     datacontract.DataContract
	OwnerID          identifier.Identifier
	Repository       staterepository.StateRepository
	ExecutionContext *staterepository.ExecutionContext
	// TopLevelIdentity is the only identity allowed to create feature flags.
	TopLevelIdentity      identifier.Identifier
	BlockHeight           uint64
	CoreChainLockedHeight uint32
}

// Trigger checks one document transition. A nil result is a broken
// trigger. Errors are system errors; rule violations go in the result.
type Trigger func(ctx context.Context, t statetransition.DocumentTransition, tc *Context) (*consensus.SimpleValidationResult, error)

// Binding attaches a trigger to one action on one document type.
type Binding struct {
	Name           string
	DataContractID identifier.Identifier
	DocumentType   string
	Action         statetransition.DocumentTransitionAction
	Trigger        Trigger
}

// Matches reports whether the binding applies to the given transition.
func (b Binding) Matches(contractID identifier.Identifier, documentType string, action statetransition.DocumentTransitionAction) bool {
	return b.DataContractID == contractID && b.DocumentType == documentType && b.Action == action
}

func pick(method string, v version.FeatureVersion, impls ...Trigger) (Trigger, error) {
	if int(v) >= len(impls) {
		known := make([]uint16, len(impls))
		for i := range impls {
			known[i] = uint16(i)
		}
		return nil, &commonerrors.UnknownVersionMismatchError{Method: method, KnownVersions: known, Received: v}
	}
	return impls[v], nil
}

// Bindings returns the trigger bindings of the system contracts.
func Bindings(pv *version.PlatformVersion) ([]Binding, error) {
	v := pv.DriveABCI.ValidationAndProcessing.DataTriggers
	switch v.Bindings {
	case 0:
		return bindingsV0(v)
	default:
		return nil, &commonerrors.UnknownVersionMismatchError{
			Method:        "data triggers: bindings",
			KnownVersions: []uint16{0},
			Received:      v.Bindings,
		}
	}
}

func bindingsV0(v version.DataTriggerVersions) ([]Binding, error) {
	rewardShare, err := pick("data triggers: reward share", v.RewardShare, rewardShareTriggerV0)
	if err != nil {
		return nil, err
	}
	contactRequest, err := pick("data triggers: dashpay contact request", v.DashPayContactRequest, contactRequestTriggerV0)
	if err != nil {
		return nil, err
	}
	featureFlags, err := pick("data triggers: feature flags", v.FeatureFlags, featureFlagsTriggerV0)
	if err != nil {
		return nil, err
	}
	reject, err := pick("data triggers: reject", v.Reject, rejectTriggerV0)
	if err != nil {
		return nil, err
	}

	var bindings []Binding
	add := func(name string, contractID identifier.Identifier, documentType string, trigger Trigger, actions ...statetransition.DocumentTransitionAction) {
		for _, a := range actions {
			bindings = append(bindings, Binding{
				Name:           name,
				DataContractID: contractID,
				DocumentType:   documentType,
				Action:         a,
				Trigger:        trigger,
			})
		}
	}

	add("reject", systemcontracts.DPNSContractID, systemcontracts.DPNSDomainDocumentType, reject,
		statetransition.ActionReplace, statetransition.ActionDelete)
	add("reject", systemcontracts.DPNSContractID, systemcontracts.DPNSPreorderDocumentType, reject,
		statetransition.ActionReplace, statetransition.ActionDelete)
	add("contact request", systemcontracts.DashPayContractID, systemcontracts.DashPayContactRequestDocumentType, contactRequest,
		statetransition.ActionCreate)
	add("reject", systemcontracts.DashPayContractID, systemcontracts.DashPayContactRequestDocumentType, reject,
		statetransition.ActionReplace, statetransition.ActionDelete)
	add("feature flags", systemcontracts.FeatureFlagsContractID, systemcontracts.FeatureFlagsUpdateConsensusParams, featureFlags,
		statetransition.ActionCreate)
	add("reject", systemcontracts.FeatureFlagsContractID, systemcontracts.FeatureFlagsUpdateConsensusParams, reject,
		statetransition.ActionReplace, statetransition.ActionDelete)
	add("reward share", systemcontracts.MasternodeRewardSharesContractID, systemcontracts.RewardShareDocumentType, rewardShare,
		statetransition.ActionCreate, statetransition.ActionReplace)
	add("reject", systemcontracts.WithdrawalsContractID, systemcontracts.WithdrawalDocumentType, reject,
		statetransition.ActionReplace, statetransition.ActionDelete)
	return bindings, nil
}

// GetTriggersForTransition returns the bindings that apply to a transition
// in declaration order.
func GetTriggersForTransition(bindings []Binding, contractID identifier.Identifier, documentType string,
	action statetransition.DocumentTransitionAction) []Binding {
	var out []Binding
	for _, b := range bindings {
		if b.Matches(contractID, documentType, action) {
			out = append(out, b)
		}
	}
	return out
}

// ExecuteTriggers runs every matching trigger for every transition and
// collects their consensus errors. Only state repository failures and
// context cancellation are returned as errors.
func ExecuteTriggers(ctx context.Context, bindings []Binding, transitions []statetransition.DocumentTransition,
	tc *Context) (*consensus.SimpleValidationResult, error) {
	result := consensus.NewSimpleValidationResult()
	for _, t := range transitions {
		base := t.BaseTransition()
		for _, b := range GetTriggersForTransition(bindings, base.DataContractID, base.DocumentType, t.Action()) {
			r, err := execute(ctx, b, t, tc)
			if err != nil {
				return nil, err
			}
			result.Merge(r)
		}
	}
	return result, nil
}

func execute(ctx context.Context, b Binding, t statetransition.DocumentTransition, tc *Context) (*consensus.SimpleValidationResult, error) {
	base := t.BaseTransition()
	logger.Debugf("Executing %s data trigger for %s of %s document %s", b.Name, t.Action(), base.DocumentType, base.ID)
	result, err := b.Trigger(ctx, t, tc)
	if err != nil {
		var fetchErr *commonerrors.StateRepositoryFetchError
		if errors.As(err, &fetchErr) || ctx.Err() != nil {
			return nil, err
		}
		return consensus.NewSimpleValidationResult(&consensus.DataTriggerExecutionError{
			DataContractID:       base.DataContractID,
			DocumentTransitionID: base.ID,
			Message:              err.Error(),
		}), nil
	}
	if result == nil {
		return consensus.NewSimpleValidationResult(&consensus.DataTriggerInvalidResultError{
			DataContractID:       base.DataContractID,
			DocumentTransitionID: base.ID,
		}), nil
	}
	return result, nil
}

func conditionError(t statetransition.DocumentTransition, format string, args ...interface{}) *consensus.DataTriggerConditionError {
	base := t.BaseTransition()
	return &consensus.DataTriggerConditionError{
		DataContractID:       base.DataContractID,
		DocumentTransitionID: base.ID,
		Message:              fmt.Sprintf(format, args...),
	}
}

func rejectTriggerV0(_ context.Context, t statetransition.DocumentTransition, _ *Context) (*consensus.SimpleValidationResult, error) {
	return consensus.NewSimpleValidationResult(conditionError(t, "Action %s is not allowed", t.Action())), nil
}
