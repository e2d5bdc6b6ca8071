/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package action

import (
	"testing"

	"github.com/dashpay/platform-drive/core/document"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	owner := identifier.Identifier{1}
	at := uint64(1000)
	create := &DocumentCreateAction{
		DocumentBaseAction: DocumentBaseAction{ID: identifier.Identifier{2}, DocumentTypeName: "note"},
		CreatedAt:          &at,
		UpdatedAt:          &at,
		Data:               map[string]value.Value{"text": value.NewText("hi")},
	}
	doc := Document(create, owner)
	require.NotNil(t, doc)
	assert.Equal(t, owner, doc.OwnerID)
	assert.Equal(t, document.InitialRevision, *doc.Revision)
	assert.Equal(t, create.DocumentID(), doc.ID)

	replace := &DocumentReplaceAction{
		DocumentBaseAction: DocumentBaseAction{ID: identifier.Identifier{2}, DocumentTypeName: "note"},
		Revision:           3,
	}
	assert.Equal(t, uint64(3), *Document(replace, owner).Revision)

	assert.Nil(t, Document(&DocumentDeleteAction{}, owner))
}

func TestIdentityCreateActionIdentity(t *testing.T) {
	a := &IdentityCreateAction{
		IdentityID:     identifier.Identifier{4},
		PublicKeys:     []identity.PublicKey{{ID: 0}, {ID: 3}},
		InitialBalance: 5000,
	}
	i := a.Identity()
	assert.Equal(t, a.IdentityID, i.ID)
	assert.Equal(t, uint64(5000), i.Balance)
	assert.Equal(t, []identity.KeyID{0, 3}, i.PublicKeyIDs())
	assert.Equal(t, "IdentityCreate", a.Name())
}
