/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/dashpay/platform-drive/core/version"
	"github.com/stretchr/testify/require"
)

const profileContractJSON = `{
	"$id": "5wpZAEWndYcTeuwZpkmSa8s49cHXU5q2DhdibesxFSu8",
	"$schema": "https://schema.dash.org/dpp-0-4-0/meta/data-contract",
	"version": 1,
	"ownerId": "AcYUCSvAmUwryNsQqkqqD1o3BnFuzepGtR3Mhh2swLk6",
	"documents": {
		"profile": {
			"type": "object",
			"indices": [
				{"name": "ownerId", "properties": [{"$ownerId": "asc"}], "unique": true},
				{"name": "ownerIdUpdatedAt", "properties": [{"$ownerId": "asc"}, {"$updatedAt": "asc"}]}
			],
			"properties": {
				"displayName": {"type": "string", "maxLength": 25},
				"avatarHash": {"type": "array", "byteArray": true, "minItems": 32, "maxItems": 32},
				"home": {"$ref": "#/$defs/address"}
			},
			"required": ["$createdAt", "$updatedAt"],
			"additionalProperties": false
		},
		"note": {
			"type": "object",
			"documentsMutable": false,
			"properties": {
				"text": {"type": "string", "maxLength": 63}
			},
			"additionalProperties": false
		}
	},
	"$defs": {
		"address": {
			"type": "object",
			"properties": {
				"city": {"type": "string", "maxLength": 63},
				"zip": {"type": "array", "byteArray": true, "maxItems": 8}
			},
			"additionalProperties": false
		}
	}
}`

func latest(t *testing.T) *version.PlatformVersion {
	pv, err := version.Get(version.LatestProtocolVersion)
	require.NoError(t, err)
	return pv
}

// fixtureCBOR returns a contract written by an earlier node release,
// prefixed with protocol version 1.
func fixtureCBOR(t *testing.T) []byte {
	raw, err := os.ReadFile(filepath.Join("testdata", "reference_contract.hex"))
	require.NoError(t, err)
	b, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	return b
}

func profileContract(t *testing.T) *V0 {
	c, err := FromJSON([]byte(profileContractJSON), latest(t))
	require.NoError(t, err)
	v0, err := AsV0(c)
	require.NoError(t, err)
	return v0
}

func mustIdentifier(t *testing.T, b []byte) identifier.Identifier {
	id, err := identifier.FromBytes(b)
	require.NoError(t, err)
	return id
}

func mustValue(t *testing.T, js string) value.Value {
	v, err := value.FromJSON([]byte(js))
	require.NoError(t, err)
	return v
}
