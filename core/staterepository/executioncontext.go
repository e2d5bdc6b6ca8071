/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package staterepository

import (
	"sync"
)

// Operation is an access to state made while executing a transition.
type Operation interface {
	isOperation()
}

// ReadOperation records a read of Size bytes stored under Key.
type ReadOperation struct {
	Key  string
	Size int
}

// WriteOperation records a write of Size bytes under Key.
type WriteOperation struct {
	Key  string
	Size int
}

func (ReadOperation) isOperation()  {}
func (WriteOperation) isOperation() {}

// ExecutionContext accompanies one state transition through validation.
// In dry run the repository still reads but writes nothing, and
// consensus checks that depend on the read results are skipped.
type ExecutionContext struct {
	mutex      sync.Mutex
	dryRun     bool
	operations []Operation
}

func NewExecutionContext() *ExecutionContext {
	return &ExecutionContext{}
}

func (ec *ExecutionContext) EnableDryRun() {
	ec.mutex.Lock()
	ec.dryRun = true
	ec.mutex.Unlock()
}

func (ec *ExecutionContext) DisableDryRun() {
	ec.mutex.Lock()
	ec.dryRun = false
	ec.mutex.Unlock()
}

// IsDryRun is safe to call on a nil context.
func (ec *ExecutionContext) IsDryRun() bool {
	if ec == nil {
		return false
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	return ec.dryRun
}

// AddOperation is a no-op on a nil context.
func (ec *ExecutionContext) AddOperation(ops ...Operation) {
	if ec == nil {
		return
	}
	ec.mutex.Lock()
	ec.operations = append(ec.operations, ops...)
	ec.mutex.Unlock()
}

// Operations returns a copy of the recorded operations.
func (ec *ExecutionContext) Operations() []Operation {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	return append([]Operation(nil), ec.operations...)
}

// ReadOperations returns the recorded reads.
func (ec *ExecutionContext) ReadOperations() []ReadOperation {
	var reads []ReadOperation
	for _, op := range ec.Operations() {
		if r, ok := op.(ReadOperation); ok {
			reads = append(reads, r)
		}
	}
	return reads
}

func (ec *ExecutionContext) ClearOperations() {
	ec.mutex.Lock()
	ec.operations = nil
	ec.mutex.Unlock()
}
