/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package kvrepository implements the state repository over a key-value
// state store.
package kvrepository

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/statestore"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("staterepository.kv")

// key prefixes
var (
	contractPrefix   = []byte("c/")
	identityPrefix   = []byte("i/")
	documentPrefix   = []byte("d/")
	outPointPrefix   = []byte("a/")
	transactionKey   = []byte("t/")
	masternodePrefix = []byte("m/")
	systemCreditsKey = []byte("s/credits")
	blockHeaderKey   = []byte("h/header")
	coreHeightKey    = []byte("h/coreChainLockedHeight")
)

// Repository stores platform objects in their platform serialized form.
type Repository struct {
	store statestore.KVStore
	pv    *version.PlatformVersion
}

var _ staterepository.StateRepository = (*Repository)(nil)

// New returns a repository over store that serializes objects with pv.
func New(store statestore.KVStore, pv *version.PlatformVersion) *Repository {
	return &Repository{store: store, pv: pv}
}

func key(prefix []byte, parts ...[]byte) []byte {
	k := append([]byte(nil), prefix...)
	for i, p := range parts {
		if i > 0 {
			k = append(k, '/')
		}
		k = append(k, p...)
	}
	return k
}

func documentTypePrefix(contractID identifier.Identifier, documentType string) []byte {
	return append(key(documentPrefix, contractID.Bytes(), []byte(documentType)), '/')
}

func fetchError(format string, args ...interface{}) error {
	return &commonerrors.StateRepositoryFetchError{Reason: fmt.Sprintf(format, args...)}
}

func (r *Repository) get(k []byte, ec *staterepository.ExecutionContext) ([]byte, error) {
	v, err := r.store.Get(k)
	if err != nil {
		return nil, fetchError("reading %x: %s", k, err)
	}
	ec.AddOperation(staterepository.ReadOperation{Key: hex.EncodeToString(k), Size: len(v)})
	return v, nil
}

func (r *Repository) put(k, v []byte, ec *staterepository.ExecutionContext) error {
	if ec.IsDryRun() {
		return nil
	}
	if err := r.store.Put(k, v); err != nil {
		return fetchError("writing %x: %s", k, err)
	}
	ec.AddOperation(staterepository.WriteOperation{Key: hex.EncodeToString(k), Size: len(v)})
	return nil
}

func (r *Repository) FetchDataContract(ctx context.Context, id identifier.Identifier, ec *staterepository.ExecutionContext) (datacontract.DataContract, error) {
	b, err := r.get(key(contractPrefix, id.Bytes()), ec)
	if err != nil || b == nil {
		return nil, err
	}
	c, err := datacontract.Deserialize(b, r.pv)
	if err != nil {
		return nil, fetchError("decoding data contract %s: %s", id, err)
	}
	return c, nil
}

func (r *Repository) FetchIdentity(ctx context.Context, id identifier.Identifier, ec *staterepository.ExecutionContext) (*identity.Identity, error) {
	b, err := r.get(key(identityPrefix, id.Bytes()), ec)
	if err != nil || b == nil {
		return nil, err
	}
	i, err := identity.Deserialize(b, r.pv)
	if err != nil {
		return nil, fetchError("decoding identity %s: %s", id, err)
	}
	return i, nil
}

// FetchDocuments scans the documents of the type in id order and filters
// them with the query.
func (r *Repository) FetchDocuments(ctx context.Context, contractID identifier.Identifier, documentType string, query staterepository.Query, ec *staterepository.ExecutionContext) ([]*document.Document, error) {
	if err := query.Validate(); err != nil {
		return nil, fetchError("invalid query on %s: %s", documentType, err)
	}
	var docs []*document.Document
	prefix := documentTypePrefix(contractID, documentType)
	errStop := errors.New("limit reached")
	err := r.store.Iterate(prefix, func(k, v []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		ec.AddOperation(staterepository.ReadOperation{Key: hex.EncodeToString(k), Size: len(v)})
		d, err := document.Deserialize(v, r.pv)
		if err != nil {
			return fetchError("decoding document %x: %s", k, err)
		}
		if !query.Matches(d) {
			return nil
		}
		docs = append(docs, d)
		if query.Limit > 0 && len(docs) >= query.Limit {
			return errStop
		}
		return nil
	})
	if err != nil && err != errStop {
		var fe *commonerrors.StateRepositoryFetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, fetchError("querying %s documents %s: %s", documentType, query, err)
	}
	logger.Debugf("Fetched %d %s documents of contract %s %s", len(docs), documentType, contractID, query)
	return docs, nil
}

func (r *Repository) FetchTransaction(ctx context.Context, txid []byte, ec *staterepository.ExecutionContext) ([]byte, error) {
	return r.get(key(transactionKey, txid), ec)
}

func (r *Repository) IsInTheValidMasterNodesList(ctx context.Context, id identifier.Identifier, ec *staterepository.ExecutionContext) (bool, error) {
	b, err := r.get(key(masternodePrefix, id.Bytes()), ec)
	return b != nil, err
}

func (r *Repository) IsAssetLockTransactionOutPointAlreadyUsed(ctx context.Context, outPoint identity.OutPoint, ec *staterepository.ExecutionContext) (bool, error) {
	b, err := r.get(key(outPointPrefix, outPoint[:]), ec)
	return b != nil, err
}

func (r *Repository) FetchLatestPlatformBlockHeader(ctx context.Context, ec *staterepository.ExecutionContext) ([]byte, error) {
	return r.get(blockHeaderKey, ec)
}

func (r *Repository) FetchLatestPlatformCoreChainLockedHeight(ctx context.Context, ec *staterepository.ExecutionContext) (uint32, error) {
	b, err := r.get(coreHeightKey, ec)
	if err != nil || b == nil {
		return 0, err
	}
	if len(b) != 4 {
		return 0, fetchError("core chain locked height has %d bytes", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Repository) AddToIdentityBalance(ctx context.Context, id identifier.Identifier, amount uint64, ec *staterepository.ExecutionContext) error {
	i, err := r.FetchIdentity(ctx, id, ec)
	if err != nil {
		return err
	}
	if i == nil {
		return fetchError("identity %s not found", id)
	}
	i.Balance += amount
	return r.UpdateIdentity(ctx, i, ec)
}

func (r *Repository) RemoveFromIdentityBalance(ctx context.Context, id identifier.Identifier, amount uint64, ec *staterepository.ExecutionContext) error {
	i, err := r.FetchIdentity(ctx, id, ec)
	if err != nil {
		return err
	}
	if i == nil {
		return fetchError("identity %s not found", id)
	}
	if i.Balance < amount {
		return fetchError("identity %s balance %d is lower than %d", id, i.Balance, amount)
	}
	i.Balance -= amount
	return r.UpdateIdentity(ctx, i, ec)
}

func (r *Repository) AddToSystemCredits(ctx context.Context, amount uint64, ec *staterepository.ExecutionContext) error {
	b, err := r.get(systemCreditsKey, ec)
	if err != nil {
		return err
	}
	var credits uint64
	if len(b) == 8 {
		credits = binary.BigEndian.Uint64(b)
	}
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, credits+amount)
	return r.put(systemCreditsKey, out, ec)
}

// SystemCredits returns the total credits added to the system.
func (r *Repository) SystemCredits() (uint64, error) {
	b, err := r.get(systemCreditsKey, nil)
	if err != nil || len(b) != 8 {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Repository) MarkAssetLockTransactionOutPointAsUsed(ctx context.Context, outPoint identity.OutPoint, ec *staterepository.ExecutionContext) error {
	return r.put(key(outPointPrefix, outPoint[:]), []byte{1}, ec)
}

func (r *Repository) CreateIdentity(ctx context.Context, i *identity.Identity, ec *staterepository.ExecutionContext) error {
	return r.storeIdentity(i, ec)
}

func (r *Repository) UpdateIdentity(ctx context.Context, i *identity.Identity, ec *staterepository.ExecutionContext) error {
	return r.storeIdentity(i, ec)
}

func (r *Repository) storeIdentity(i *identity.Identity, ec *staterepository.ExecutionContext) error {
	b, err := identity.Serialize(i, r.pv)
	if err != nil {
		return fetchError("encoding identity %s: %s", i.ID, err)
	}
	return r.put(key(identityPrefix, i.ID.Bytes()), b, ec)
}

func (r *Repository) StoreDataContract(ctx context.Context, c datacontract.DataContract, ec *staterepository.ExecutionContext) error {
	b, err := datacontract.Serialize(c, r.pv)
	if err != nil {
		return fetchError("encoding data contract %s: %s", c.ID(), err)
	}
	return r.put(key(contractPrefix, c.ID().Bytes()), b, ec)
}

func (r *Repository) CreateDocument(ctx context.Context, contractID identifier.Identifier, documentType string, d *document.Document, ec *staterepository.ExecutionContext) error {
	return r.storeDocument(contractID, documentType, d, ec)
}

func (r *Repository) UpdateDocument(ctx context.Context, contractID identifier.Identifier, documentType string, d *document.Document, ec *staterepository.ExecutionContext) error {
	return r.storeDocument(contractID, documentType, d, ec)
}

func (r *Repository) storeDocument(contractID identifier.Identifier, documentType string, d *document.Document, ec *staterepository.ExecutionContext) error {
	b, err := document.Serialize(d, r.pv)
	if err != nil {
		return fetchError("encoding document %s: %s", d.ID, err)
	}
	return r.put(append(documentTypePrefix(contractID, documentType), d.ID.Bytes()...), b, ec)
}

func (r *Repository) RemoveDocument(ctx context.Context, contractID identifier.Identifier, documentType string, id identifier.Identifier, ec *staterepository.ExecutionContext) error {
	if ec.IsDryRun() {
		return nil
	}
	k := append(documentTypePrefix(contractID, documentType), id.Bytes()...)
	if err := r.store.Delete(k); err != nil {
		return fetchError("deleting %x: %s", k, err)
	}
	ec.AddOperation(staterepository.WriteOperation{Key: hex.EncodeToString(k)})
	return nil
}

// StoreTransaction makes a core transaction available to
// FetchTransaction.
func (r *Repository) StoreTransaction(txid, raw []byte) error {
	return r.put(key(transactionKey, txid), raw, nil)
}

// AddMasternode registers id in the valid masternode list.
func (r *Repository) AddMasternode(id identifier.Identifier) error {
	return r.put(key(masternodePrefix, id.Bytes()), []byte{1}, nil)
}

// SetBlockInfo stores the header of the block being executed.
func (r *Repository) SetBlockInfo(h *staterepository.BlockHeader) error {
	b, err := staterepository.EncodeBlockHeader(h)
	if err != nil {
		return err
	}
	if err := r.put(blockHeaderKey, b, nil); err != nil {
		return err
	}
	height := make([]byte, 4)
	binary.BigEndian.PutUint32(height, h.CoreChainLockedHeight)
	return r.put(coreHeightKey, height, nil)
}
