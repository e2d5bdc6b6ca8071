/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package consensus

import (
	"fmt"

	"github.com/dashpay/platform-drive/core/identifier"
)

func init() {
	register(
		&DataContractAlreadyPresentError{},
		&DataContractIsReadonlyError{},
		&DataContractConfigUpdateError{},

		&DocumentAlreadyPresentError{},
		&DocumentNotFoundError{},
		&DocumentOwnerIDMismatchError{},
		&DocumentTimestampsMismatchError{},
		&DocumentTimestampWindowViolationError{},
		&DocumentTimestampsAreEqualError{},
		&DuplicateUniqueIndexError{},
		&InvalidDocumentRevisionError{},
		&DocumentNotMutableError{},

		&IdentityAlreadyExistsError{},
		&IdentityPublicKeyIsReadOnlyError{},
		&InvalidIdentityPublicKeyIDError{},
		&InvalidIdentityRevisionError{},
		&MaxIdentityPublicKeyLimitReachedError{},
		&DuplicatedIdentityPublicKeyStateError{},
		&DuplicatedIdentityPublicKeyIDStateError{},
		&IdentityPublicKeyIsDisabledError{},
		&IdentityPublicKeyDisabledAtWindowViolationError{},
		&IdentityInsufficientBalanceError{},
		&IdentityAssetLockTransactionOutPointAlreadyExistsError{},

		&DataTriggerConditionError{},
		&DataTriggerExecutionError{},
		&DataTriggerInvalidResultError{},
	)
}

type DataContractAlreadyPresentError struct {
	DataContractID identifier.Identifier
}

func (e *DataContractAlreadyPresentError) Code() uint32 { return CodeDataContractAlreadyPresent }
func (e *DataContractAlreadyPresentError) Error() string {
	return fmt.Sprintf("Data Contract %s is already present", e.DataContractID)
}

type DataContractIsReadonlyError struct {
	DataContractID identifier.Identifier
}

func (e *DataContractIsReadonlyError) Code() uint32 { return CodeDataContractIsReadonly }
func (e *DataContractIsReadonlyError) Error() string {
	return fmt.Sprintf("Data Contract %s is readonly", e.DataContractID)
}

type DataContractConfigUpdateError struct {
	DataContractID identifier.Identifier
	Message        string
}

func (e *DataContractConfigUpdateError) Code() uint32 { return CodeDataContractConfigUpdate }
func (e *DataContractConfigUpdateError) Error() string {
	return fmt.Sprintf("Data Contract %s update error: %s", e.DataContractID, e.Message)
}

type DocumentAlreadyPresentError struct {
	DocumentID identifier.Identifier
}

func (e *DocumentAlreadyPresentError) Code() uint32 { return CodeDocumentAlreadyPresent }
func (e *DocumentAlreadyPresentError) Error() string {
	return fmt.Sprintf("Document %s is already present", e.DocumentID)
}

type DocumentNotFoundError struct {
	DocumentID identifier.Identifier
}

func (e *DocumentNotFoundError) Code() uint32 { return CodeDocumentNotFound }
func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("Document %s not found", e.DocumentID)
}

type DocumentOwnerIDMismatchError struct {
	DocumentID              identifier.Identifier
	DocumentOwnerID         identifier.Identifier
	ExistingDocumentOwnerID identifier.Identifier
}

func (e *DocumentOwnerIDMismatchError) Code() uint32 { return CodeDocumentOwnerIDMismatch }
func (e *DocumentOwnerIDMismatchError) Error() string {
	return fmt.Sprintf("Provided document %s owner ID %s mismatch with existing %s",
		e.DocumentID, e.DocumentOwnerID, e.ExistingDocumentOwnerID)
}

type DocumentTimestampsMismatchError struct {
	DocumentID identifier.Identifier
}

func (e *DocumentTimestampsMismatchError) Code() uint32 { return CodeDocumentTimestampsMismatch }
func (e *DocumentTimestampsMismatchError) Error() string {
	return fmt.Sprintf("Document %s createdAt and updatedAt timestamps are not equal", e.DocumentID)
}

// DocumentTimestampWindowViolationError is reported when a document
// timestamp is too far from the block time.
type DocumentTimestampWindowViolationError struct {
	TimestampName   string
	DocumentID      identifier.Identifier
	Timestamp       int64
	TimeWindowStart int64
	TimeWindowEnd   int64
}

func (e *DocumentTimestampWindowViolationError) Code() uint32 {
	return CodeDocumentTimestampWindowViolation
}
func (e *DocumentTimestampWindowViolationError) Error() string {
	return fmt.Sprintf("Document %s %s timestamp (%d) are out of block time window from %d and %d",
		e.DocumentID, e.TimestampName, e.Timestamp, e.TimeWindowStart, e.TimeWindowEnd)
}

type DocumentTimestampsAreEqualError struct {
	DocumentID identifier.Identifier
}

func (e *DocumentTimestampsAreEqualError) Code() uint32 { return CodeDocumentTimestampsAreEqual }
func (e *DocumentTimestampsAreEqualError) Error() string {
	return fmt.Sprintf("Document %s was updated at the time it was created", e.DocumentID)
}

// DuplicateUniqueIndexError is reported once per unique index whose values
// are already taken by another document.
type DuplicateUniqueIndexError struct {
	DocumentID            identifier.Identifier
	DuplicatingProperties []string
}

func (e *DuplicateUniqueIndexError) Code() uint32 { return CodeDuplicateUniqueIndex }
func (e *DuplicateUniqueIndexError) Error() string {
	return fmt.Sprintf("Document %s has duplicate unique properties %s with other documents",
		e.DocumentID, debugList(e.DuplicatingProperties))
}

type InvalidDocumentRevisionError struct {
	DocumentID      identifier.Identifier
	CurrentRevision uint64
}

func (e *InvalidDocumentRevisionError) Code() uint32 { return CodeInvalidDocumentRevision }
func (e *InvalidDocumentRevisionError) Error() string {
	return fmt.Sprintf("Document %s has invalid revision. The current one is %d", e.DocumentID, e.CurrentRevision)
}

type DocumentNotMutableError struct {
	DocumentID   identifier.Identifier
	DocumentType string
}

func (e *DocumentNotMutableError) Code() uint32 { return CodeDocumentNotMutable }
func (e *DocumentNotMutableError) Error() string {
	return fmt.Sprintf("Document %s of type %s can not be updated because the type is not mutable",
		e.DocumentID, e.DocumentType)
}

type IdentityAlreadyExistsError struct {
	IdentityID identifier.Identifier
}

func (e *IdentityAlreadyExistsError) Code() uint32 { return CodeIdentityAlreadyExists }
func (e *IdentityAlreadyExistsError) Error() string {
	return fmt.Sprintf("Identity %s already exists", e.IdentityID)
}

type IdentityPublicKeyIsReadOnlyError struct {
	PublicKeyIndex uint32
}

func (e *IdentityPublicKeyIsReadOnlyError) Code() uint32 { return CodeIdentityPublicKeyIsReadOnly }
func (e *IdentityPublicKeyIsReadOnlyError) Error() string {
	return fmt.Sprintf("Identity Public Key #%d is read only", e.PublicKeyIndex)
}

type InvalidIdentityPublicKeyIDError struct {
	ID uint32
}

func (e *InvalidIdentityPublicKeyIDError) Code() uint32 { return CodeInvalidIdentityPublicKeyID }
func (e *InvalidIdentityPublicKeyIDError) Error() string {
	return fmt.Sprintf("Identity Public Key with Id %d does not exist", e.ID)
}

type InvalidIdentityRevisionError struct {
	IdentityID      identifier.Identifier
	CurrentRevision uint64
}

func (e *InvalidIdentityRevisionError) Code() uint32 { return CodeInvalidIdentityRevision }
func (e *InvalidIdentityRevisionError) Error() string {
	return fmt.Sprintf("Identity %s has invalid revision. The current revision is %d", e.IdentityID, e.CurrentRevision)
}

type MaxIdentityPublicKeyLimitReachedError struct {
	MaxItems uint32
}

func (e *MaxIdentityPublicKeyLimitReachedError) Code() uint32 {
	return CodeMaxIdentityPublicKeyLimitReached
}
func (e *MaxIdentityPublicKeyLimitReachedError) Error() string {
	return fmt.Sprintf("Identity cannot contain more than %d public keys", e.MaxItems)
}

type DuplicatedIdentityPublicKeyStateError struct {
	DuplicatedPublicKeyIDs []uint32
}

func (e *DuplicatedIdentityPublicKeyStateError) Code() uint32 {
	return CodeDuplicatedIdentityPublicKeyState
}
func (e *DuplicatedIdentityPublicKeyStateError) Error() string {
	return fmt.Sprintf("Duplicated public keys %s found", uintList(e.DuplicatedPublicKeyIDs))
}

type DuplicatedIdentityPublicKeyIDStateError struct {
	DuplicatedIDs []uint32
}

func (e *DuplicatedIdentityPublicKeyIDStateError) Code() uint32 {
	return CodeDuplicatedIdentityPublicKeyIDState
}
func (e *DuplicatedIdentityPublicKeyIDStateError) Error() string {
	return fmt.Sprintf("Duplicated public key ids %s found", uintList(e.DuplicatedIDs))
}

type IdentityPublicKeyIsDisabledError struct {
	PublicKeyIndex uint32
}

func (e *IdentityPublicKeyIsDisabledError) Code() uint32 { return CodeIdentityPublicKeyIsDisabled }
func (e *IdentityPublicKeyIsDisabledError) Error() string {
	return fmt.Sprintf("Identity Public Key #%d is disabled", e.PublicKeyIndex)
}

type IdentityPublicKeyDisabledAtWindowViolationError struct {
	DisabledAt      uint64
	TimeWindowStart uint64
	TimeWindowEnd   uint64
}

func (e *IdentityPublicKeyDisabledAtWindowViolationError) Code() uint32 {
	return CodeIdentityPublicKeyDisabledAtWindowViolation
}
func (e *IdentityPublicKeyDisabledAtWindowViolationError) Error() string {
	return fmt.Sprintf("Identity public keys disabled time (%d) is out of block time window from %d and %d",
		e.DisabledAt, e.TimeWindowStart, e.TimeWindowEnd)
}

// IdentityInsufficientBalanceError carries the balance the identity has,
// not the amount that was requested.
type IdentityInsufficientBalanceError struct {
	IdentityID identifier.Identifier
	Balance    uint64
}

func (e *IdentityInsufficientBalanceError) Code() uint32 { return CodeIdentityInsufficientBalance }
func (e *IdentityInsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient identity %s balance %d", e.IdentityID, e.Balance)
}

type IdentityAssetLockTransactionOutPointAlreadyExistsError struct {
	TransactionID []byte
	OutputIndex   uint32
}

func (e *IdentityAssetLockTransactionOutPointAlreadyExistsError) Code() uint32 {
	return CodeIdentityAssetLockTransactionOutPointAlreadyExists
}
func (e *IdentityAssetLockTransactionOutPointAlreadyExistsError) Error() string {
	return fmt.Sprintf("Asset lock transaction %x output %d already used", e.TransactionID, e.OutputIndex)
}

// DataTriggerConditionError is the verdict of a data trigger on a single
// document transition.
type DataTriggerConditionError struct {
	DataContractID       identifier.Identifier
	DocumentTransitionID identifier.Identifier
	Message              string
}

func (e *DataTriggerConditionError) Code() uint32 { return CodeDataTriggerCondition }
func (e *DataTriggerConditionError) Error() string {
	return e.Message
}

type DataTriggerExecutionError struct {
	DataContractID       identifier.Identifier
	DocumentTransitionID identifier.Identifier
	Message              string
}

func (e *DataTriggerExecutionError) Code() uint32 { return CodeDataTriggerExecution }
func (e *DataTriggerExecutionError) Error() string {
	return e.Message
}

type DataTriggerInvalidResultError struct {
	DataContractID       identifier.Identifier
	DocumentTransitionID identifier.Identifier
}

func (e *DataTriggerInvalidResultError) Code() uint32 { return CodeDataTriggerInvalidResult }
func (e *DataTriggerInvalidResultError) Error() string {
	return "Data trigger have not returned any result"
}
