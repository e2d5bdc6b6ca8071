/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package validation runs state transitions through the structure,
// signature and state stages and turns valid ones into actions.
package validation

import (
	"context"
	"fmt"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("validation")

// timestampWindow bounds how far document and key timestamps may be from
// the block time, in milliseconds.
const timestampWindow uint64 = 5 * 60 * 1000

// Platform is the state a state transition is validated against.
type Platform struct {
	Repository      staterepository.StateRepository
	ProtocolVersion uint32
	// BlockInfo is the header of the block being executed. When nil the
	// latest header is read from Repository.
	BlockInfo *staterepository.BlockHeader
	Config    Config
	// Metrics is optional.
	Metrics *Metrics
}

// Config holds node settings used by validation.
type Config struct {
	// TopLevelIdentity is the identity allowed to create feature flags.
	TopLevelIdentity identifier.Identifier
	// ProtocolVersionValidator checks the protocolVersion of submitted
	// data contracts. Nil means the latest protocol version.
	ProtocolVersionValidator *version.ProtocolVersionValidator
}

func (p *Platform) protocolVersionValidator() *version.ProtocolVersionValidator {
	if p.Config.ProtocolVersionValidator != nil {
		return p.Config.ProtocolVersionValidator
	}
	return version.NewProtocolVersionValidator()
}

func (p *Platform) blockHeader(ctx context.Context, ec *staterepository.ExecutionContext) (*staterepository.BlockHeader, error) {
	if p.BlockInfo != nil {
		return p.BlockInfo, nil
	}
	b, err := p.Repository.FetchLatestPlatformBlockHeader(ctx, ec)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &commonerrors.StateRepositoryFetchError{Reason: "no block header stored"}
	}
	h, err := staterepository.DecodeBlockHeader(b)
	if err != nil {
		return nil, &commonerrors.StateRepositoryFetchError{Reason: err.Error()}
	}
	return h, nil
}

// StateTransitionValidator runs the validation stages of one state
// transition. Errors are system errors; rule violations are reported in
// the results.
type StateTransitionValidator interface {
	ValidateStructure(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error)
	ValidateIdentityAndSignatures(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[*identity.PartialIdentity], error)
	// ValidateState checks the transition against stored state and, when it
	// passes, returns the action. In a dry run the consensus errors are
	// dropped after the reads were made.
	ValidateState(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error)
	// TransformIntoAction builds the action without the state checks.
	TransformIntoAction(ctx context.Context, p *Platform, pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error)
}

// ValidatorFor returns the validator of a state transition.
func ValidatorFor(st statetransition.StateTransition) (StateTransitionValidator, error) {
	switch st := st.(type) {
	case *statetransition.DataContractCreateTransitionV0:
		return &dataContractCreate{st: st}, nil
	case *statetransition.DataContractUpdateTransitionV0:
		return &dataContractUpdate{st: st}, nil
	case *statetransition.DocumentsBatchTransitionV0:
		return &documentsBatch{st: st}, nil
	case *statetransition.IdentityCreateTransitionV0:
		return &identityCreate{st: st}, nil
	case *statetransition.IdentityTopUpTransitionV0:
		return &identityTopUp{st: st}, nil
	case *statetransition.IdentityCreditWithdrawalTransitionV0:
		return &identityCreditWithdrawal{st: st}, nil
	case *statetransition.IdentityUpdateTransitionV0:
		return &identityUpdate{st: st}, nil
	case *statetransition.IdentityCreditTransferTransitionV0:
		return &identityCreditTransfer{st: st}, nil
	}
	return nil, &commonerrors.CorruptedCodeExecutionError{Reason: fmt.Sprintf("no validator for state transition %T", st)}
}

// ProcessStateTransition validates st in stage order and stops at the first
// stage that reports consensus errors.
func ProcessStateTransition(ctx context.Context, p *Platform, st statetransition.StateTransition,
	ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	pv, v, err := p.validatorFor(st)
	if err != nil {
		return nil, err
	}
	structure, err := p.validateStructure(ctx, pv, v, st, ec)
	if err != nil {
		return nil, err
	}
	if !structure.IsValid() {
		return consensus.NewValidationResultWithErrors[action.Action](structure.ErrorList()...), nil
	}
	return p.validateSignaturesAndState(ctx, pv, v, st, ec)
}

func (p *Platform) validatorFor(st statetransition.StateTransition) (*version.PlatformVersion, StateTransitionValidator, error) {
	pv, err := version.Get(p.ProtocolVersion)
	if err != nil {
		return nil, nil, err
	}
	if err := checkStage("process state transition", pv.DriveABCI.ValidationAndProcessing.ProcessStateTransition); err != nil {
		return nil, nil, err
	}
	v, err := ValidatorFor(st)
	if err != nil {
		return nil, nil, err
	}
	return pv, v, nil
}

func (p *Platform) validateStructure(ctx context.Context, pv *version.PlatformVersion, v StateTransitionValidator,
	st statetransition.StateTransition, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	structure, err := v.ValidateStructure(ctx, p, pv, ec)
	if err != nil {
		return nil, errors.WithMessagef(err, "validating structure of %s", st.Type())
	}
	if !structure.IsValid() {
		logger.Debugf("%s failed structure validation: %s", st.Type(), structure.FirstError())
		p.Metrics.transitionValidated(st.Type().String(), resultInvalidStructure)
	}
	return structure, nil
}

func (p *Platform) validateSignaturesAndState(ctx context.Context, pv *version.PlatformVersion, v StateTransitionValidator,
	st statetransition.StateTransition, ec *staterepository.ExecutionContext) (*consensus.ValidationResult[action.Action], error) {
	signatures, err := v.ValidateIdentityAndSignatures(ctx, p, pv, ec)
	if err != nil {
		return nil, errors.WithMessagef(err, "validating signatures of %s", st.Type())
	}
	if !signatures.IsValid() {
		logger.Debugf("%s failed signature validation: %s", st.Type(), signatures.FirstError())
		p.Metrics.transitionValidated(st.Type().String(), resultInvalidSignature)
		return consensus.NewValidationResultWithErrors[action.Action](signatures.ErrorList()...), nil
	}

	result, err := v.ValidateState(ctx, p, pv, ec)
	if err != nil {
		return nil, errors.WithMessagef(err, "validating state of %s", st.Type())
	}
	if !result.IsValid() {
		logger.Debugf("%s failed state validation: %s", st.Type(), result.FirstError())
		p.Metrics.transitionValidated(st.Type().String(), resultInvalidState)
		return result, nil
	}
	p.Metrics.transitionValidated(st.Type().String(), resultValid)
	return result, nil
}

func checkStage(method string, v version.FeatureVersion) error {
	if v != 0 {
		return &commonerrors.UnknownVersionMismatchError{Method: method, KnownVersions: []uint16{0}, Received: v}
	}
	return nil
}

func stages(pv *version.PlatformVersion) version.StateTransitionValidationVersions {
	return pv.DriveABCI.ValidationAndProcessing.StateTransitions
}

// stateResult drops the consensus errors of a dry run.
func stateResult(ec *staterepository.ExecutionContext, result *consensus.ValidationResult[action.Action]) *consensus.ValidationResult[action.Action] {
	if result.IsValid() || !ec.IsDryRun() {
		return result
	}
	logger.Debugf("Ignoring %d state errors in dry run", len(result.ErrorList()))
	return consensus.NewValidationResult[action.Action]()
}

func invalidAction(errs ...consensus.Error) *consensus.ValidationResult[action.Action] {
	return consensus.NewValidationResultWithErrors[action.Action](errs...)
}

func validAction(a action.Action) *consensus.ValidationResult[action.Action] {
	return consensus.NewValidationResultWithData[action.Action](a)
}

// timeWindow returns the accepted range around the block time.
func timeWindow(blockTime uint64) (start, end uint64) {
	if blockTime > timestampWindow {
		start = blockTime - timestampWindow
	}
	return start, blockTime + timestampWindow
}
