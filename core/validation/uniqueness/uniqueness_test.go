/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package uniqueness

import (
	"context"
	"testing"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/staterepository/mock"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contractID = identifier.Identifier{1}
	ownerID    = identifier.Identifier{2}
	documentID = identifier.Identifier{3}
)

func profileType() *datacontract.DocumentType {
	return &datacontract.DocumentType{
		Name:           "profile",
		DataContractID: contractID,
		Indices: []datacontract.Index{
			{Name: "byOwner", Unique: true, Properties: []datacontract.IndexProperty{{Name: "$ownerId", Ascending: true}}},
			{Name: "byLabel", Properties: []datacontract.IndexProperty{{Name: "label", Ascending: true}}},
			{Name: "byHandle", Unique: true, Properties: []datacontract.IndexProperty{
				{Name: "handle.name", Ascending: true},
				{Name: "$createdAt", Ascending: true},
			}},
		},
	}
}

func query(field string, v value.Value, more ...staterepository.WhereClause) staterepository.Query {
	return staterepository.Query{Where: append([]staterepository.WhereClause{{Field: field, Operator: staterepository.OperatorEqual, Value: v}}, more...)}
}

func TestValidateDocumentUniqueness(t *testing.T) {
	ctx := context.Background()
	createdAt := uint64(1000)
	handle := value.NewText("alice")
	req := Request{
		DocumentType: profileType(),
		DocumentID:   documentID,
		OwnerID:      ownerID,
		CreatedAt:    &createdAt,
		Data: map[string]value.Value{
			"label":  value.NewText("x"),
			"handle": value.NewMap(map[string]value.Value{"name": handle}),
		},
	}

	byOwner := query("$ownerId", value.NewIdentifier(ownerID))
	byOwner.Limit = 1
	byHandle := query("handle.name", handle, staterepository.WhereClause{
		Field: "$createdAt", Operator: staterepository.OperatorEqual, Value: value.NewU64(createdAt),
	})
	byHandle.Limit = 1

	repo := &mock.StateRepository{}
	repo.On("FetchDocuments", contractID, "profile", byOwner).Return([]*document.Document{{ID: identifier.Identifier{9}}}, nil)
	repo.On("FetchDocuments", contractID, "profile", byHandle).Return(nil, nil)

	result, err := ValidateDocumentUniqueness(ctx, repo, req, version.Latest(), nil)
	require.NoError(t, err)
	assert.Equal(t, []consensus.Error{&consensus.DuplicateUniqueIndexError{
		DocumentID:            documentID,
		DuplicatingProperties: []string{"$ownerId"},
	}}, result.ErrorList())
	repo.AssertExpectations(t)
}

func TestAllowOriginal(t *testing.T) {
	ctx := context.Background()
	req := Request{DocumentType: profileType(), DocumentID: documentID, OwnerID: ownerID, AllowOriginal: true}

	byOwner := query("$ownerId", value.NewIdentifier(ownerID))
	byOwner.Limit = 2
	repo := &mock.StateRepository{}
	repo.On("FetchDocuments", contractID, "profile", byOwner).Return([]*document.Document{{ID: documentID}}, nil)

	result, err := ValidateDocumentUniqueness(ctx, repo, req, version.Latest(), nil)
	require.NoError(t, err)
	assert.True(t, result.IsValid())
	// the handle index has no values and is not queried
	repo.AssertNumberOfCalls(t, "FetchDocuments", 1)
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	req := Request{DocumentType: profileType(), OwnerID: ownerID}

	repo := &mock.StateRepository{}
	repo.On("FetchDocuments", contractID, "profile", staterepository.Query{
		Where: []staterepository.WhereClause{{Field: "$ownerId", Operator: staterepository.OperatorEqual, Value: value.NewIdentifier(ownerID)}},
		Limit: 1,
	}).Return(nil, &commonerrors.StateRepositoryFetchError{Reason: "closed"})
	_, err := ValidateDocumentUniqueness(ctx, repo, req, version.Latest(), nil)
	assert.EqualError(t, err, "state repository fetch error: closed")

	pv := *version.Latest()
	pv.Drive.Methods.Document.ValidateDocumentUniqueness = 4
	_, err = ValidateDocumentUniqueness(ctx, repo, req, &pv, nil)
	assert.IsType(t, &commonerrors.UnknownVersionMismatchError{}, err)
}
