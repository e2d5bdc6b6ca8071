/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package action holds the validated, state-checked forms of state
// transitions. Actions are what gets applied to drive.
package action

import (
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/value"
)

// Action is implemented by the action types of this package.
type Action interface {
	// Name is the transition type the action was derived from.
	Name() string
	isAction()
}

type DataContractCreateAction struct {
	DataContract datacontract.DataContract
}

type DataContractUpdateAction struct {
	DataContract datacontract.DataContract
}

// DocumentAction is one of *DocumentCreateAction, *DocumentReplaceAction
// and *DocumentDeleteAction.
type DocumentAction interface {
	DocumentID() identifier.Identifier
	isDocumentAction()
}

// DocumentBaseAction holds what every document action refers to.
type DocumentBaseAction struct {
	ID               identifier.Identifier
	DocumentTypeName string
	DataContract     datacontract.DataContract
}

func (a *DocumentBaseAction) DocumentID() identifier.Identifier { return a.ID }

type DocumentCreateAction struct {
	DocumentBaseAction
	CreatedAt *uint64
	UpdatedAt *uint64
	Data      map[string]value.Value
}

type DocumentReplaceAction struct {
	DocumentBaseAction
	Revision  uint64
	CreatedAt *uint64
	UpdatedAt *uint64
	Data      map[string]value.Value
}

type DocumentDeleteAction struct {
	DocumentBaseAction
}

func (*DocumentCreateAction) isDocumentAction()  {}
func (*DocumentReplaceAction) isDocumentAction() {}
func (*DocumentDeleteAction) isDocumentAction()  {}

// Document returns the document a create or replace action stores.
func Document(a DocumentAction, ownerID identifier.Identifier) *document.Document {
	switch a := a.(type) {
	case *DocumentCreateAction:
		revision := document.InitialRevision
		return &document.Document{
			ID:         a.ID,
			OwnerID:    ownerID,
			Properties: a.Data,
			Revision:   &revision,
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
		}
	case *DocumentReplaceAction:
		revision := a.Revision
		return &document.Document{
			ID:         a.ID,
			OwnerID:    ownerID,
			Properties: a.Data,
			Revision:   &revision,
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
		}
	}
	return nil
}

type DocumentsBatchAction struct {
	OwnerID     identifier.Identifier
	Transitions []DocumentAction
}

type IdentityCreateAction struct {
	IdentityID        identifier.Identifier
	PublicKeys        []identity.PublicKey
	InitialBalance    uint64
	AssetLockOutPoint identity.OutPoint
}

// Identity returns the identity the action registers.
func (a *IdentityCreateAction) Identity() *identity.Identity {
	keys := make(map[identity.KeyID]identity.PublicKey, len(a.PublicKeys))
	for _, k := range a.PublicKeys {
		keys[k.ID] = k
	}
	return &identity.Identity{
		ID:         a.IdentityID,
		PublicKeys: keys,
		Balance:    a.InitialBalance,
		Revision:   0,
	}
}

type IdentityTopUpAction struct {
	IdentityID        identifier.Identifier
	TopUpBalance      uint64
	AssetLockOutPoint identity.OutPoint
}

// IdentityCreditWithdrawalActionV0 carries the withdrawal document queued
// in the withdrawals contract.
type IdentityCreditWithdrawalActionV0 struct {
	IdentityID                 identifier.Identifier
	Revision                   uint64
	PreparedWithdrawalDocument *document.Document
}

type IdentityUpdateAction struct {
	IdentityID           identifier.Identifier
	Revision             uint64
	AddPublicKeys        []identity.PublicKey
	DisablePublicKeys    []identity.KeyID
	PublicKeysDisabledAt *uint64
}

type IdentityCreditTransferActionV0 struct {
	IdentityID     identifier.Identifier
	RecipientID    identifier.Identifier
	TransferAmount uint64
}

func (*DataContractCreateAction) isAction()         {}
func (*DataContractUpdateAction) isAction()         {}
func (*DocumentsBatchAction) isAction()             {}
func (*IdentityCreateAction) isAction()             {}
func (*IdentityTopUpAction) isAction()              {}
func (*IdentityCreditWithdrawalActionV0) isAction() {}
func (*IdentityUpdateAction) isAction()             {}
func (*IdentityCreditTransferActionV0) isAction()   {}

func (*DataContractCreateAction) Name() string         { return "DataContractCreate" }
func (*DataContractUpdateAction) Name() string         { return "DataContractUpdate" }
func (*DocumentsBatchAction) Name() string             { return "DocumentsBatch" }
func (*IdentityCreateAction) Name() string             { return "IdentityCreate" }
func (*IdentityTopUpAction) Name() string              { return "IdentityTopUp" }
func (*IdentityCreditWithdrawalActionV0) Name() string { return "IdentityCreditWithdrawal" }
func (*IdentityUpdateAction) Name() string             { return "IdentityUpdate" }
func (*IdentityCreditTransferActionV0) Name() string   { return "IdentityCreditTransfer" }
