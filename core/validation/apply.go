/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"fmt"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/systemcontracts"
	"github.com/pkg/errors"
)

// Apply writes the effects of a validated action to repo.
func Apply(ctx context.Context, repo staterepository.StateRepository, a action.Action, ec *staterepository.ExecutionContext) error {
	switch a := a.(type) {
	case *action.DataContractCreateAction:
		return repo.StoreDataContract(ctx, a.DataContract, ec)
	case *action.DataContractUpdateAction:
		return repo.StoreDataContract(ctx, a.DataContract, ec)
	case *action.DocumentsBatchAction:
		return applyDocumentsBatch(ctx, repo, a, ec)
	case *action.IdentityCreateAction:
		return applyIdentityCreate(ctx, repo, a, ec)
	case *action.IdentityTopUpAction:
		return ApplyIdentityTopUp(ctx, repo, a, ec)
	case *action.IdentityCreditWithdrawalActionV0:
		return applyIdentityCreditWithdrawal(ctx, repo, a, ec)
	case *action.IdentityUpdateAction:
		return applyIdentityUpdate(ctx, repo, a, ec)
	case *action.IdentityCreditTransferActionV0:
		if err := repo.RemoveFromIdentityBalance(ctx, a.IdentityID, a.TransferAmount, ec); err != nil {
			return err
		}
		return repo.AddToIdentityBalance(ctx, a.RecipientID, a.TransferAmount, ec)
	}
	return &commonerrors.CorruptedCodeExecutionError{Reason: fmt.Sprintf("cannot apply action %T", a)}
}

func applyDocumentsBatch(ctx context.Context, repo staterepository.StateRepository, a *action.DocumentsBatchAction, ec *staterepository.ExecutionContext) error {
	for _, t := range a.Transitions {
		var err error
		switch t := t.(type) {
		case *action.DocumentCreateAction:
			err = repo.CreateDocument(ctx, t.DataContract.ID(), t.DocumentTypeName, action.Document(t, a.OwnerID), ec)
		case *action.DocumentReplaceAction:
			err = repo.UpdateDocument(ctx, t.DataContract.ID(), t.DocumentTypeName, action.Document(t, a.OwnerID), ec)
		case *action.DocumentDeleteAction:
			err = repo.RemoveDocument(ctx, t.DataContract.ID(), t.DocumentTypeName, t.ID, ec)
		}
		if err != nil {
			return errors.WithMessagef(err, "applying document %s", t.DocumentID())
		}
	}
	return nil
}

func applyIdentityCreate(ctx context.Context, repo staterepository.StateRepository, a *action.IdentityCreateAction, ec *staterepository.ExecutionContext) error {
	if err := repo.CreateIdentity(ctx, a.Identity(), ec); err != nil {
		return err
	}
	if err := repo.AddToSystemCredits(ctx, a.InitialBalance, ec); err != nil {
		return err
	}
	return repo.MarkAssetLockTransactionOutPointAsUsed(ctx, a.AssetLockOutPoint, ec)
}

// ApplyIdentityTopUp credits the identity and the system, then marks the
// asset lock outpoint as used.
func ApplyIdentityTopUp(ctx context.Context, repo staterepository.StateRepository, a *action.IdentityTopUpAction, ec *staterepository.ExecutionContext) error {
	if err := repo.AddToIdentityBalance(ctx, a.IdentityID, a.TopUpBalance, ec); err != nil {
		return err
	}
	if err := repo.AddToSystemCredits(ctx, a.TopUpBalance, ec); err != nil {
		return err
	}
	return repo.MarkAssetLockTransactionOutPointAsUsed(ctx, a.AssetLockOutPoint, ec)
}

func fetchExistingIdentity(ctx context.Context, repo staterepository.StateRepository, id identifier.Identifier, ec *staterepository.ExecutionContext) (*identity.Identity, error) {
	i, err := repo.FetchIdentity(ctx, id, ec)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, &commonerrors.StateRepositoryFetchError{Reason: fmt.Sprintf("identity %s not found", id)}
	}
	return i, nil
}

func applyIdentityCreditWithdrawal(ctx context.Context, repo staterepository.StateRepository, a *action.IdentityCreditWithdrawalActionV0, ec *staterepository.ExecutionContext) error {
	doc := a.PreparedWithdrawalDocument
	amountValue, ok := doc.Properties[systemcontracts.WithdrawalAmount]
	if !ok {
		return &commonerrors.CorruptedCodeExecutionError{Reason: "withdrawal document has no amount"}
	}
	amount, err := amountValue.AsU64()
	if err != nil {
		return &commonerrors.CorruptedCodeExecutionError{Reason: err.Error()}
	}

	i, err := fetchExistingIdentity(ctx, repo, a.IdentityID, ec)
	if err != nil {
		return err
	}
	if i.Balance < amount {
		return &commonerrors.CorruptedCodeExecutionError{
			Reason: fmt.Sprintf("identity %s balance %d is lower than withdrawal %d", a.IdentityID, i.Balance, amount),
		}
	}
	i.Balance -= amount
	i.Revision = a.Revision
	if err := repo.UpdateIdentity(ctx, i, ec); err != nil {
		return err
	}
	return repo.CreateDocument(ctx, systemcontracts.WithdrawalsContractID, systemcontracts.WithdrawalDocumentType, doc, ec)
}

func applyIdentityUpdate(ctx context.Context, repo staterepository.StateRepository, a *action.IdentityUpdateAction, ec *staterepository.ExecutionContext) error {
	i, err := fetchExistingIdentity(ctx, repo, a.IdentityID, ec)
	if err != nil {
		return err
	}
	for _, id := range a.DisablePublicKeys {
		k, ok := i.PublicKeys[id]
		if !ok {
			return &commonerrors.CorruptedCodeExecutionError{Reason: fmt.Sprintf("key %d of identity %s not found", id, a.IdentityID)}
		}
		if a.PublicKeysDisabledAt != nil {
			at := *a.PublicKeysDisabledAt
			k.DisabledAt = &at
		}
		i.PublicKeys[id] = k
	}
	for _, k := range a.AddPublicKeys {
		i.PublicKeys[k.ID] = k
	}
	i.Revision = a.Revision
	return repo.UpdateIdentity(ctx, i, ec)
}
