/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mock

import (
	"context"

	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/stretchr/testify/mock"
)

// StateRepository is a testify mock of staterepository.StateRepository.
type StateRepository struct {
	mock.Mock
}

var _ staterepository.StateRepository = (*StateRepository)(nil)

func (m *StateRepository) FetchDataContract(ctx context.Context, id identifier.Identifier, ec *staterepository.ExecutionContext) (datacontract.DataContract, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(datacontract.DataContract)
	return c, args.Error(1)
}

func (m *StateRepository) FetchIdentity(ctx context.Context, id identifier.Identifier, ec *staterepository.ExecutionContext) (*identity.Identity, error) {
	args := m.Called(id)
	i, _ := args.Get(0).(*identity.Identity)
	return i, args.Error(1)
}

func (m *StateRepository) FetchDocuments(ctx context.Context, contractID identifier.Identifier, documentType string, query staterepository.Query, ec *staterepository.ExecutionContext) ([]*document.Document, error) {
	args := m.Called(contractID, documentType, query)
	docs, _ := args.Get(0).([]*document.Document)
	return docs, args.Error(1)
}

func (m *StateRepository) FetchTransaction(ctx context.Context, txid []byte, ec *staterepository.ExecutionContext) ([]byte, error) {
	args := m.Called(txid)
	tx, _ := args.Get(0).([]byte)
	return tx, args.Error(1)
}

func (m *StateRepository) IsInTheValidMasterNodesList(ctx context.Context, id identifier.Identifier, ec *staterepository.ExecutionContext) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *StateRepository) IsAssetLockTransactionOutPointAlreadyUsed(ctx context.Context, outPoint identity.OutPoint, ec *staterepository.ExecutionContext) (bool, error) {
	args := m.Called(outPoint)
	return args.Bool(0), args.Error(1)
}

func (m *StateRepository) FetchLatestPlatformBlockHeader(ctx context.Context, ec *staterepository.ExecutionContext) ([]byte, error) {
	args := m.Called()
	h, _ := args.Get(0).([]byte)
	return h, args.Error(1)
}

func (m *StateRepository) FetchLatestPlatformCoreChainLockedHeight(ctx context.Context, ec *staterepository.ExecutionContext) (uint32, error) {
	args := m.Called()
	h, _ := args.Get(0).(uint32)
	return h, args.Error(1)
}

func (m *StateRepository) AddToIdentityBalance(ctx context.Context, id identifier.Identifier, amount uint64, ec *staterepository.ExecutionContext) error {
	return m.Called(id, amount).Error(0)
}

func (m *StateRepository) RemoveFromIdentityBalance(ctx context.Context, id identifier.Identifier, amount uint64, ec *staterepository.ExecutionContext) error {
	return m.Called(id, amount).Error(0)
}

func (m *StateRepository) AddToSystemCredits(ctx context.Context, amount uint64, ec *staterepository.ExecutionContext) error {
	return m.Called(amount).Error(0)
}

func (m *StateRepository) MarkAssetLockTransactionOutPointAsUsed(ctx context.Context, outPoint identity.OutPoint, ec *staterepository.ExecutionContext) error {
	return m.Called(outPoint).Error(0)
}

func (m *StateRepository) CreateIdentity(ctx context.Context, i *identity.Identity, ec *staterepository.ExecutionContext) error {
	return m.Called(i).Error(0)
}

func (m *StateRepository) UpdateIdentity(ctx context.Context, i *identity.Identity, ec *staterepository.ExecutionContext) error {
	return m.Called(i).Error(0)
}

func (m *StateRepository) StoreDataContract(ctx context.Context, c datacontract.DataContract, ec *staterepository.ExecutionContext) error {
	return m.Called(c).Error(0)
}

func (m *StateRepository) CreateDocument(ctx context.Context, contractID identifier.Identifier, documentType string, d *document.Document, ec *staterepository.ExecutionContext) error {
	return m.Called(contractID, documentType, d).Error(0)
}

func (m *StateRepository) UpdateDocument(ctx context.Context, contractID identifier.Identifier, documentType string, d *document.Document, ec *staterepository.ExecutionContext) error {
	return m.Called(contractID, documentType, d).Error(0)
}

func (m *StateRepository) RemoveDocument(ctx context.Context, contractID identifier.Identifier, documentType string, id identifier.Identifier, ec *staterepository.ExecutionContext) error {
	return m.Called(contractID, documentType, id).Error(0)
}
