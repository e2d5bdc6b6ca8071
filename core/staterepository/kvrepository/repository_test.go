/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package kvrepository

import (
	"context"
	"testing"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statestore"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) *Repository {
	store, err := statestore.Open(statestore.Config{Backend: statestore.BackendMemory})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return New(store, version.Latest())
}

func note(id byte, label string) *document.Document {
	rev := document.InitialRevision
	return &document.Document{
		ID:         identifier.Identifier{id},
		OwnerID:    identifier.Identifier{9},
		Properties: map[string]value.Value{"label": value.NewText(label)},
		Revision:   &rev,
	}
}

func TestMissingObjects(t *testing.T) {
	r := newRepository(t)
	ctx := context.Background()
	ec := staterepository.NewExecutionContext()

	c, err := r.FetchDataContract(ctx, identifier.Identifier{1}, ec)
	require.NoError(t, err)
	assert.Nil(t, c)

	i, err := r.FetchIdentity(ctx, identifier.Identifier{1}, ec)
	require.NoError(t, err)
	assert.Nil(t, i)

	used, err := r.IsAssetLockTransactionOutPointAlreadyUsed(ctx, identity.OutPoint{}, ec)
	require.NoError(t, err)
	assert.False(t, used)

	height, err := r.FetchLatestPlatformCoreChainLockedHeight(ctx, ec)
	require.NoError(t, err)
	assert.Zero(t, height)

	header, err := r.FetchLatestPlatformBlockHeader(ctx, ec)
	require.NoError(t, err)
	assert.Nil(t, header)

	assert.Len(t, ec.ReadOperations(), 5)
}

func TestIdentityBalance(t *testing.T) {
	r := newRepository(t)
	ctx := context.Background()
	id := identifier.Identifier{3}

	require.NoError(t, r.CreateIdentity(ctx, &identity.Identity{ID: id, Balance: 100}, nil))
	require.NoError(t, r.AddToIdentityBalance(ctx, id, 50, nil))
	require.NoError(t, r.RemoveFromIdentityBalance(ctx, id, 30, nil))

	i, err := r.FetchIdentity(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), i.Balance)

	err = r.RemoveFromIdentityBalance(ctx, id, 500, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "balance 120 is lower than 500")

	err = r.AddToIdentityBalance(ctx, identifier.Identifier{4}, 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDryRunSkipsWrites(t *testing.T) {
	r := newRepository(t)
	ctx := context.Background()
	ec := staterepository.NewExecutionContext()
	ec.EnableDryRun()

	require.NoError(t, r.AddToSystemCredits(ctx, 10, ec))
	require.NoError(t, r.MarkAssetLockTransactionOutPointAsUsed(ctx, identity.OutPoint{1}, ec))
	require.NoError(t, r.CreateDocument(ctx, identifier.Identifier{1}, "note", note(1, "a"), ec))

	credits, err := r.SystemCredits()
	require.NoError(t, err)
	assert.Zero(t, credits)

	ec.DisableDryRun()
	used, err := r.IsAssetLockTransactionOutPointAlreadyUsed(ctx, identity.OutPoint{1}, ec)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, r.AddToSystemCredits(ctx, 10, ec))
	require.NoError(t, r.AddToSystemCredits(ctx, 5, ec))
	credits, err = r.SystemCredits()
	require.NoError(t, err)
	assert.Equal(t, uint64(15), credits)

	var writes int
	for _, op := range ec.Operations() {
		if _, ok := op.(staterepository.WriteOperation); ok {
			writes++
		}
	}
	assert.Equal(t, 2, writes)
}

func TestDocuments(t *testing.T) {
	r := newRepository(t)
	ctx := context.Background()
	contractID := identifier.Identifier{1}

	require.NoError(t, r.CreateDocument(ctx, contractID, "note", note(1, "a"), nil))
	require.NoError(t, r.CreateDocument(ctx, contractID, "note", note(2, "b"), nil))
	require.NoError(t, r.CreateDocument(ctx, contractID, "note", note(3, "a"), nil))
	require.NoError(t, r.CreateDocument(ctx, contractID, "notebook", note(4, "a"), nil))

	docs, err := r.FetchDocuments(ctx, contractID, "note", staterepository.Query{}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, identifier.Identifier{1}, docs[0].ID)

	q := staterepository.Query{Where: []staterepository.WhereClause{
		{Field: "label", Operator: staterepository.OperatorEqual, Value: value.NewText("a")},
	}}
	docs, err = r.FetchDocuments(ctx, contractID, "note", q, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, identifier.Identifier{3}, docs[1].ID)

	q.Limit = 1
	docs, err = r.FetchDocuments(ctx, contractID, "note", q, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	updated := note(2, "a")
	rev := uint64(2)
	updated.Revision = &rev
	require.NoError(t, r.UpdateDocument(ctx, contractID, "note", updated, nil))
	require.NoError(t, r.RemoveDocument(ctx, contractID, "note", identifier.Identifier{1}, nil))

	q.Limit = 0
	docs, err = r.FetchDocuments(ctx, contractID, "note", q, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, uint64(2), *docs[0].Revision)

	_, err = r.FetchDocuments(ctx, contractID, "note", staterepository.Query{
		Where: []staterepository.WhereClause{{Field: "label", Operator: ">", Value: value.NewText("a")}},
	}, nil)
	require.Error(t, err)
	assert.IsType(t, &commonerrors.StateRepositoryFetchError{}, err)
}

func TestDataContract(t *testing.T) {
	r := newRepository(t)
	ctx := context.Background()

	c, err := datacontract.NewV0(identifier.Identifier{7}, identifier.Identifier{8}, 1, datacontract.SchemaURIV0, datacontract.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, r.StoreDataContract(ctx, c, nil))

	fetched, err := r.FetchDataContract(ctx, c.ID(), nil)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, c.OwnerID(), fetched.OwnerID())
	assert.Equal(t, uint32(1), fetched.Version())
}

func TestChainState(t *testing.T) {
	r := newRepository(t)
	ctx := context.Background()

	require.NoError(t, r.StoreTransaction([]byte{0xaa}, []byte("raw tx")))
	tx, err := r.FetchTransaction(ctx, []byte{0xaa}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw tx"), tx)

	require.NoError(t, r.AddMasternode(identifier.Identifier{5}))
	ok, err := r.IsInTheValidMasterNodesList(ctx, identifier.Identifier{5}, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.IsInTheValidMasterNodesList(ctx, identifier.Identifier{6}, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	h := &staterepository.BlockHeader{
		Height:                12,
		Time:                  staterepository.BlockTime{Seconds: 1700000000},
		CoreChainLockedHeight: 42,
	}
	require.NoError(t, r.SetBlockInfo(h))

	b, err := r.FetchLatestPlatformBlockHeader(ctx, nil)
	require.NoError(t, err)
	decoded, err := staterepository.DecodeBlockHeader(b)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)

	height, err := r.FetchLatestPlatformCoreChainLockedHeight(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), height)
}
