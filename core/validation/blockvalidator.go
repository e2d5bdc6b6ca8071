/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"sync"

	"code.cloudfoundry.org/clock"
	"github.com/bits-and-blooms/bitset"
	"github.com/dashpay/platform-drive/common/semaphore"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

// BlockValidator validates and applies the state transitions of a block.
// Decoding and the structure checks that do not read state run
// concurrently. Everything else runs one transition at a time in block
// order, each seeing the writes of the ones before it.
type BlockValidator struct {
	Platform *Platform
	// Semaphore bounds the concurrent structure checks. Nil runs them
	// sequentially.
	Semaphore semaphore.Semaphore
	Clock     clock.Clock
}

// BlockResult holds the outcome of every transition of a block.
type BlockResult struct {
	// Invalid has a bit set for every transition that was not applied.
	Invalid *bitset.BitSet
	Results []*consensus.ValidationResult[action.Action]
	// ExecutionContexts record the operations of each transition.
	ExecutionContexts []*staterepository.ExecutionContext
}

// ValidCount returns the number of applied transitions.
func (r *BlockResult) ValidCount() int {
	return len(r.Results) - int(r.Invalid.Count())
}

type decodedTransition struct {
	st        statetransition.StateTransition
	validator StateTransitionValidator
	// structureChecked is false for transitions whose structure stage
	// reads contracts that earlier transitions of the block may create.
	structureChecked bool
	result           *consensus.ValidationResult[action.Action]
	err              error
}

// ValidateBlock validates raw in order and applies every valid transition
// to the platform repository. A returned error aborts the block.
func (bv *BlockValidator) ValidateBlock(ctx context.Context, raw [][]byte) (*BlockResult, error) {
	clk := bv.Clock
	if clk == nil {
		clk = clock.NewClock()
	}
	sem := bv.Semaphore
	if sem == nil {
		sem = semaphore.Disabled
	}
	p := bv.Platform
	startTime := clk.Now()
	logger.Debugf("Validating block of %d state transitions", len(raw))

	result := &BlockResult{
		Invalid:           bitset.New(uint(len(raw))),
		Results:           make([]*consensus.ValidationResult[action.Action], len(raw)),
		ExecutionContexts: make([]*staterepository.ExecutionContext, len(raw)),
	}
	for i := range raw {
		result.ExecutionContexts[i] = staterepository.NewExecutionContext()
	}

	decoded := make([]decodedTransition, len(raw))
	var wg sync.WaitGroup
	for i := range raw {
		if err := sem.Acquire(ctx); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int) {
			defer sem.Release()
			defer wg.Done()
			decoded[i] = bv.decode(ctx, raw[i], result.ExecutionContexts[i])
		}(i)
	}
	wg.Wait()

	for i, d := range decoded {
		if d.err != nil {
			return nil, errors.WithMessagef(d.err, "state transition %d", i)
		}
		if d.result != nil {
			result.Invalid.Set(uint(i))
			result.Results[i] = d.result
			continue
		}

		pv, _, err := p.validatorFor(d.st)
		if err != nil {
			return nil, err
		}
		ec := result.ExecutionContexts[i]
		if !d.structureChecked {
			structure, err := p.validateStructure(ctx, pv, d.validator, d.st, ec)
			if err != nil {
				return nil, errors.WithMessagef(err, "state transition %d", i)
			}
			if !structure.IsValid() {
				result.Invalid.Set(uint(i))
				result.Results[i] = consensus.NewValidationResultWithErrors[action.Action](structure.ErrorList()...)
				continue
			}
		}
		r, err := p.validateSignaturesAndState(ctx, pv, d.validator, d.st, ec)
		if err != nil {
			return nil, errors.WithMessagef(err, "state transition %d", i)
		}
		result.Results[i] = r
		if !r.IsValid() || !r.HasData() {
			result.Invalid.Set(uint(i))
			continue
		}
		if err := Apply(ctx, p.Repository, r.Data(), ec); err != nil {
			return nil, errors.WithMessagef(err, "applying state transition %d", i)
		}
	}

	elapsed := clk.Since(startTime)
	if m := p.Metrics; m != nil {
		m.BlockValidationDuration.Observe(elapsed.Seconds())
		m.BlockTransitions.With("result", "valid").Set(float64(result.ValidCount()))
		m.BlockTransitions.With("result", "invalid").Set(float64(result.Invalid.Count()))
	}
	logger.Infof("Validated block of %d state transitions in %s, %d invalid", len(raw), elapsed, result.Invalid.Count())
	return result, nil
}

// decode deserializes one transition and runs its structure stage. A
// non-nil result marks the transition invalid.
func (bv *BlockValidator) decode(ctx context.Context, raw []byte, ec *staterepository.ExecutionContext) decodedTransition {
	p := bv.Platform
	pv, err := version.Get(p.ProtocolVersion)
	if err != nil {
		return decodedTransition{err: err}
	}
	created, err := statetransition.NewFactory(pv).CreateFromBuffer(raw)
	if err != nil {
		return decodedTransition{err: err}
	}
	if !created.IsValid() {
		return decodedTransition{result: consensus.NewValidationResultWithErrors[action.Action](created.ErrorList()...)}
	}

	st := created.Data()
	pv, v, err := p.validatorFor(st)
	if err != nil {
		return decodedTransition{err: err}
	}
	if _, ok := v.(*documentsBatch); ok {
		return decodedTransition{st: st, validator: v}
	}
	structure, err := p.validateStructure(ctx, pv, v, st, ec)
	if err != nil {
		return decodedTransition{err: err}
	}
	if !structure.IsValid() {
		return decodedTransition{st: st, result: consensus.NewValidationResultWithErrors[action.Action](structure.ErrorList()...)}
	}
	return decodedTransition{st: st, validator: v, structureChecked: true}
}
