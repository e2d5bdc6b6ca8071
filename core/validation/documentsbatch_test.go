/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"testing"

	"github.com/dashpay/platform-drive/core/consensus"
	"github.com/dashpay/platform-drive/core/statetransition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateTransitions(t *testing.T) {
	contractID := testID("contract")
	base := func(documentType, seed string) statetransition.DocumentBaseTransition {
		return statetransition.DocumentBaseTransition{ID: testID(seed), DocumentType: documentType, DataContractID: contractID}
	}

	transitions := statetransition.DocumentTransitions{
		&statetransition.DocumentCreateTransition{DocumentBaseTransition: base("note", "a")},
		&statetransition.DocumentReplaceTransition{DocumentBaseTransition: base("note", "b"), Revision: 2},
		&statetransition.DocumentDeleteTransition{DocumentBaseTransition: base("label", "a")},
	}
	assert.Empty(t, duplicateTransitions(transitions))

	transitions = append(transitions,
		&statetransition.DocumentDeleteTransition{DocumentBaseTransition: base("note", "a")},
		&statetransition.DocumentDeleteTransition{DocumentBaseTransition: base("note", "a")},
	)
	assert.Equal(t, []consensus.DocumentTypeAndID{{DocumentType: "note", DocumentID: testID("a")}}, duplicateTransitions(transitions))
}

func TestTimeWindow(t *testing.T) {
	start, end := timeWindow(1000)
	assert.Zero(t, start)
	assert.Equal(t, 1000+timestampWindow, end)

	start, end = timeWindow(10 * timestampWindow)
	assert.Equal(t, 9*timestampWindow, start)
	assert.Equal(t, 11*timestampWindow, end)
}

func TestTimestampErrors(t *testing.T) {
	id := testID("doc")
	blockTime := uint64(blockSeconds * 1000)

	assert.Empty(t, timestampErrors(id, blockTime, "createdAt", nil))
	inWindow := blockTime + timestampWindow
	assert.Empty(t, timestampErrors(id, blockTime, "createdAt", &inWindow))

	early := blockTime - timestampWindow - 1
	assert.Equal(t, []consensus.Error{&consensus.DocumentTimestampWindowViolationError{
		TimestampName:   "updatedAt",
		DocumentID:      id,
		Timestamp:       int64(early),
		TimeWindowStart: int64(blockTime - timestampWindow),
		TimeWindowEnd:   int64(blockTime + timestampWindow),
	}}, timestampErrors(id, blockTime, "updatedAt", &early))
}

func TestSchemaCache(t *testing.T) {
	sc := newSchemaCache(4)
	v1 := contractWith(t, 1, map[string]string{"note": noteSchema}, nil)

	first, result, err := sc.get(v1, "note")
	require.NoError(t, err)
	require.True(t, result.IsValid())
	again, _, err := sc.get(v1, "note")
	require.NoError(t, err)
	assert.Same(t, first, again)

	v2 := contractWith(t, 2, map[string]string{"note": noteSchema}, nil)
	updated, _, err := sc.get(v2, "note")
	require.NoError(t, err)
	assert.NotSame(t, first, updated)
}
