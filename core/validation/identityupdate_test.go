/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"testing"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/identity"
	"github.com/dashpay/platform-drive/core/staterepository/mock"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/dashpay/platform-drive/core/statetransition/action"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T, id identity.KeyID, level identity.SecurityLevel) statetransition.IdentityPublicKeyInCreation {
	return statetransition.IdentityPublicKeyInCreation{
		ID:            id,
		Type:          identity.KeyTypeECDSASecp256k1,
		Purpose:       identity.PurposeAuthentication,
		SecurityLevel: level,
		Data:          publicKeyData(t, byte(id+1)),
	}
}

func TestIdentityUpdateStructure(t *testing.T) {
	ctx := context.Background()
	pv := version.Latest()
	owner := testID("owner")
	disabledAt := uint64(blockSeconds * 1000)

	tests := []struct {
		name     string
		st       *statetransition.IdentityUpdateTransitionV0
		expected []consensus.Error
	}{
		{
			"nothing to update",
			&statetransition.IdentityUpdateTransitionV0{IdentityID: owner, Revision: 2},
			[]consensus.Error{&consensus.InvalidIdentityUpdateTransitionEmptyError{}},
		},
		{
			"disabled keys without time",
			&statetransition.IdentityUpdateTransitionV0{IdentityID: owner, Revision: 2, DisablePublicKeys: []identity.KeyID{3}},
			[]consensus.Error{&consensus.InvalidIdentityUpdateTransitionDisableKeysError{}},
		},
		{
			"time without disabled keys",
			&statetransition.IdentityUpdateTransitionV0{
				IdentityID:           owner,
				Revision:             2,
				AddPublicKeys:        []statetransition.IdentityPublicKeyInCreation{newKey(t, 5, identity.SecurityLevelHigh)},
				PublicKeysDisabledAt: &disabledAt,
			},
			[]consensus.Error{&consensus.InvalidIdentityUpdateTransitionDisableKeysError{}},
		},
		{
			"valid",
			&statetransition.IdentityUpdateTransitionV0{
				IdentityID:           owner,
				Revision:             2,
				AddPublicKeys:        []statetransition.IdentityPublicKeyInCreation{newKey(t, 5, identity.SecurityLevelHigh)},
				DisablePublicKeys:    []identity.KeyID{3},
				PublicKeysDisabledAt: &disabledAt,
			},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.st.AddPublicKeys) > 0 {
				require.NoError(t, tt.st.SignPublicKeys(map[identity.KeyID][]byte{5: privateKey(6)}))
			}
			signWith(t, tt.st, 0)
			v := &identityUpdate{st: tt.st}
			result, err := v.ValidateStructure(ctx, &Platform{}, pv, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.ErrorList())
		})
	}
}

func TestIdentityUpdateState(t *testing.T) {
	ctx := context.Background()
	pv := version.Latest()
	blockTime := uint64(blockSeconds * 1000)
	inWindow := blockTime - 1000
	tooLate := blockTime + timestampWindow + 1

	readOnly := func(i *identity.Identity) {
		k := i.PublicKeys[2]
		k.ReadOnly = true
		i.PublicKeys[2] = k
	}
	disabled := func(i *identity.Identity) {
		at := uint64(1)
		k := i.PublicKeys[3]
		k.DisabledAt = &at
		i.PublicKeys[3] = k
	}

	tests := []struct {
		name       string
		prepare    func(*identity.Identity)
		revision   uint64
		add        []statetransition.IdentityPublicKeyInCreation
		disable    []identity.KeyID
		disabledAt *uint64
		expected   []consensus.Error
	}{
		{
			name:     "stale revision",
			revision: 3,
			add:      []statetransition.IdentityPublicKeyInCreation{newKey(t, 5, identity.SecurityLevelHigh)},
			expected: []consensus.Error{&consensus.InvalidIdentityRevisionError{IdentityID: testID("owner"), CurrentRevision: 1}},
		},
		{
			name:       "unknown key",
			revision:   2,
			disable:    []identity.KeyID{9},
			disabledAt: &inWindow,
			expected:   []consensus.Error{&consensus.InvalidIdentityPublicKeyIDError{ID: 9}},
		},
		{
			name:       "read only key",
			prepare:    readOnly,
			revision:   2,
			disable:    []identity.KeyID{2},
			disabledAt: &inWindow,
			expected:   []consensus.Error{&consensus.IdentityPublicKeyIsReadOnlyError{PublicKeyIndex: 2}},
		},
		{
			name:       "already disabled",
			prepare:    disabled,
			revision:   2,
			disable:    []identity.KeyID{3},
			disabledAt: &inWindow,
			expected:   []consensus.Error{&consensus.IdentityPublicKeyIsDisabledError{PublicKeyIndex: 3}},
		},
		{
			name:       "disabled at outside the window",
			revision:   2,
			disable:    []identity.KeyID{3},
			disabledAt: &tooLate,
			expected: []consensus.Error{&consensus.IdentityPublicKeyDisabledAtWindowViolationError{
				DisabledAt:      tooLate,
				TimeWindowStart: blockTime - timestampWindow,
				TimeWindowEnd:   blockTime + timestampWindow,
			}},
		},
		{
			name:     "key id taken",
			revision: 2,
			add:      []statetransition.IdentityPublicKeyInCreation{newKey(t, 1, identity.SecurityLevelHigh)},
			expected: []consensus.Error{
				&consensus.DuplicatedIdentityPublicKeyIDStateError{DuplicatedIDs: []uint32{1}},
				&consensus.DuplicatedIdentityPublicKeyStateError{DuplicatedPublicKeyIDs: []uint32{1}},
			},
		},
		{
			name:       "last master key disabled",
			revision:   2,
			disable:    []identity.KeyID{0},
			disabledAt: &inWindow,
			expected:   []consensus.Error{&consensus.MissingMasterPublicKeyError{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := testIdentity(t, "owner")
			if tt.prepare != nil {
				tt.prepare(stored)
			}
			repo := &mock.StateRepository{}
			repo.On("FetchIdentity", stored.ID).Return(stored, nil)
			p := &Platform{Repository: repo, BlockInfo: testBlock}

			v := &identityUpdate{st: &statetransition.IdentityUpdateTransitionV0{
				IdentityID:           stored.ID,
				Revision:             tt.revision,
				AddPublicKeys:        tt.add,
				DisablePublicKeys:    tt.disable,
				PublicKeysDisabledAt: tt.disabledAt,
			}}
			result, err := v.ValidateState(ctx, p, pv, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.ErrorList())
		})
	}

	t.Run("too many enabled keys", func(t *testing.T) {
		stored := testIdentity(t, "owner")
		repo := &mock.StateRepository{}
		repo.On("FetchIdentity", stored.ID).Return(stored, nil)

		var add []statetransition.IdentityPublicKeyInCreation
		for id := identity.KeyID(4); id < identity.MaxPublicKeys+1; id++ {
			add = append(add, newKey(t, id, identity.SecurityLevelHigh))
		}
		v := &identityUpdate{st: &statetransition.IdentityUpdateTransitionV0{IdentityID: stored.ID, Revision: 2, AddPublicKeys: add}}
		result, err := v.ValidateState(ctx, &Platform{Repository: repo, BlockInfo: testBlock}, pv, nil)
		require.NoError(t, err)
		assert.Equal(t, []consensus.Error{&consensus.MaxIdentityPublicKeyLimitReachedError{MaxItems: identity.MaxPublicKeys}}, result.ErrorList())
	})

	t.Run("valid", func(t *testing.T) {
		stored := testIdentity(t, "owner")
		repo := &mock.StateRepository{}
		repo.On("FetchIdentity", stored.ID).Return(stored, nil)
		v := &identityUpdate{st: &statetransition.IdentityUpdateTransitionV0{
			IdentityID:           stored.ID,
			Revision:             2,
			AddPublicKeys:        []statetransition.IdentityPublicKeyInCreation{newKey(t, 5, identity.SecurityLevelHigh)},
			DisablePublicKeys:    []identity.KeyID{3},
			PublicKeysDisabledAt: &inWindow,
		}}
		result, err := v.ValidateState(ctx, &Platform{Repository: repo, BlockInfo: testBlock}, pv, nil)
		require.NoError(t, err)
		require.True(t, result.IsValid(), "%v", result.ErrorList())

		a, ok := result.Data().(*action.IdentityUpdateAction)
		require.True(t, ok)
		assert.Equal(t, uint64(2), a.Revision)
		assert.Equal(t, []identity.KeyID{3}, a.DisablePublicKeys)
		require.Len(t, a.AddPublicKeys, 1)
		assert.Equal(t, identity.KeyID(5), a.AddPublicKeys[0].ID)

		repo.On("UpdateIdentity", stored).Return(nil)
		require.NoError(t, Apply(ctx, repo, a, nil))
		assert.Equal(t, uint64(2), stored.Revision)
		assert.Equal(t, inWindow, *stored.PublicKeys[3].DisabledAt)
		assert.Contains(t, stored.PublicKeys, identity.KeyID(5))
	})
}
