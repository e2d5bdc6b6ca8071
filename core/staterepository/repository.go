/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package staterepository defines the access to platform state that state
// transition validation depends on.
package staterepository

import (
	"context"

	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// StateRepository reads and writes platform state. Fetches of missing
// objects return nil and no error. Every read is recorded on the execution
// context when one is given; writes are skipped in dry run.
type StateRepository interface {
	FetchDataContract(ctx context.Context, id identifier.Identifier, ec *ExecutionContext) (datacontract.DataContract, error)
	FetchIdentity(ctx context.Context, id identifier.Identifier, ec *ExecutionContext) (*identity.Identity, error)
	FetchDocuments(ctx context.Context, contractID identifier.Identifier, documentType string, query Query, ec *ExecutionContext) ([]*document.Document, error)
	// FetchTransaction returns the raw core transaction with the given id
	// in display byte order.
	FetchTransaction(ctx context.Context, txid []byte, ec *ExecutionContext) ([]byte, error)
	IsInTheValidMasterNodesList(ctx context.Context, id identifier.Identifier, ec *ExecutionContext) (bool, error)
	IsAssetLockTransactionOutPointAlreadyUsed(ctx context.Context, outPoint identity.OutPoint, ec *ExecutionContext) (bool, error)
	// FetchLatestPlatformBlockHeader returns the CBOR encoded header of the
	// block being executed, or nil when no block has been stored yet.
	FetchLatestPlatformBlockHeader(ctx context.Context, ec *ExecutionContext) ([]byte, error)
	FetchLatestPlatformCoreChainLockedHeight(ctx context.Context, ec *ExecutionContext) (uint32, error)

	AddToIdentityBalance(ctx context.Context, id identifier.Identifier, amount uint64, ec *ExecutionContext) error
	RemoveFromIdentityBalance(ctx context.Context, id identifier.Identifier, amount uint64, ec *ExecutionContext) error
	AddToSystemCredits(ctx context.Context, amount uint64, ec *ExecutionContext) error
	MarkAssetLockTransactionOutPointAsUsed(ctx context.Context, outPoint identity.OutPoint, ec *ExecutionContext) error
	CreateIdentity(ctx context.Context, i *identity.Identity, ec *ExecutionContext) error
	UpdateIdentity(ctx context.Context, i *identity.Identity, ec *ExecutionContext) error
	StoreDataContract(ctx context.Context, c datacontract.DataContract, ec *ExecutionContext) error
	CreateDocument(ctx context.Context, contractID identifier.Identifier, documentType string, d *document.Document, ec *ExecutionContext) error
	UpdateDocument(ctx context.Context, contractID identifier.Identifier, documentType string, d *document.Document, ec *ExecutionContext) error
	RemoveDocument(ctx context.Context, contractID identifier.Identifier, documentType string, id identifier.Identifier, ec *ExecutionContext) error
}

// BlockTime is a protobuf style timestamp.
type BlockTime struct {
	Seconds int64 `mapstructure:"seconds"`
	Nanos   int32 `mapstructure:"nanos"`
}

// BlockHeader is the part of the platform block header validation reads.
type BlockHeader struct {
	Height                uint64    `mapstructure:"height"`
	Time                  BlockTime `mapstructure:"time"`
	CoreChainLockedHeight uint32    `mapstructure:"coreChainLockedHeight"`
}

// TimeMillis returns the block time in milliseconds.
func (h *BlockHeader) TimeMillis() uint64 {
	if h.Time.Seconds < 0 {
		return 0
	}
	return uint64(h.Time.Seconds) * 1000
}

// DecodeBlockHeader decodes a CBOR encoded header.
func DecodeBlockHeader(b []byte) (*BlockHeader, error) {
	v, err := value.FromCBOR(b)
	if err != nil {
		return nil, errors.WithMessage(err, "failed decoding block header")
	}
	h := &BlockHeader{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           h,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed creating block header decoder")
	}
	if err := dec.Decode(v.ToInterface()); err != nil {
		return nil, errors.Wrap(err, "failed decoding block header")
	}
	return h, nil
}

// EncodeBlockHeader is the inverse of DecodeBlockHeader.
func EncodeBlockHeader(h *BlockHeader) ([]byte, error) {
	v, err := value.FromInterface(map[string]interface{}{
		"height": h.Height,
		"time": map[string]interface{}{
			"seconds": h.Time.Seconds,
			"nanos":   h.Time.Nanos,
		},
		"coreChainLockedHeight": h.CoreChainLockedHeight,
	})
	if err != nil {
		return nil, err
	}
	return v.ToCBOR()
}
