/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package uniqueness checks documents against the unique indices of their
// document type.
package uniqueness

import (
	"context"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/datacontract"
	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/staterepository"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
)

// Request is a document about to be written. AllowOriginal lets the stored
// document with DocumentID match its own indices, as a replace does.
type Request struct {
	DocumentType  *datacontract.DocumentType
	DocumentID    identifier.Identifier
	OwnerID       identifier.Identifier
	CreatedAt     *uint64
	UpdatedAt     *uint64
	Data          map[string]value.Value
	AllowOriginal bool
}

// ValidateDocumentUniqueness adds a DuplicateUniqueIndexError for every
// unique index another stored document already holds the same values for.
func ValidateDocumentUniqueness(ctx context.Context, repo staterepository.StateRepository, req Request,
	pv *version.PlatformVersion, ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	switch v := pv.Drive.Methods.Document.ValidateDocumentUniqueness; v {
	case 0:
		return validateV0(ctx, repo, req, ec)
	default:
		return nil, &commonerrors.UnknownVersionMismatchError{
			Method:        "validate document uniqueness",
			KnownVersions: []uint16{0},
			Received:      v,
		}
	}
}

func validateV0(ctx context.Context, repo staterepository.StateRepository, req Request,
	ec *staterepository.ExecutionContext) (*consensus.SimpleValidationResult, error) {
	result := consensus.NewSimpleValidationResult()
	limit := 1
	if req.AllowOriginal {
		limit = 2
	}
	for _, index := range req.DocumentType.UniqueIndices() {
		where, ok := req.whereClauses(index)
		if !ok {
			continue
		}
		docs, err := repo.FetchDocuments(ctx, req.DocumentType.DataContractID, req.DocumentType.Name,
			staterepository.Query{Where: where, Limit: limit}, ec)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			if req.AllowOriginal && d.ID == req.DocumentID {
				continue
			}
			result.AddError(&consensus.DuplicateUniqueIndexError{
				DocumentID:            req.DocumentID,
				DuplicatingProperties: index.PropertyNames(),
			})
			break
		}
	}
	return result, nil
}

// whereClauses is false when the document lacks a value for one of the
// index properties; such documents are not constrained by the index.
func (req Request) whereClauses(index datacontract.Index) ([]staterepository.WhereClause, bool) {
	data := value.NewMap(req.Data)
	where := make([]staterepository.WhereClause, 0, len(index.Properties))
	for _, name := range index.PropertyNames() {
		var v value.Value
		var ok bool
		switch name {
		case document.PropertyOwnerID:
			v, ok = value.NewIdentifier(req.OwnerID), true
		case document.PropertyCreatedAt:
			v, ok = optional(req.CreatedAt)
		case document.PropertyUpdatedAt:
			v, ok = optional(req.UpdatedAt)
		default:
			v, ok = data.GetAtPath(name)
		}
		if !ok || v.IsNull() {
			return nil, false
		}
		where = append(where, staterepository.WhereClause{Field: name, Operator: staterepository.OperatorEqual, Value: v})
	}
	return where, true
}

func optional(v *uint64) (value.Value, bool) {
	if v == nil {
		return value.Null(), false
	}
	return value.NewU64(*v), true
}
