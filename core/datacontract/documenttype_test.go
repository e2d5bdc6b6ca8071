/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datacontract

import (
	"math/rand"
	"testing"

	commonerrors "github.com/dashpay/platform-drive/common/errors"
	"github.com/dashpay/platform-drive/core/identifier"
	"github.com/dashpay/platform-drive/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentTypeFields(t *testing.T) {
	c := profileContract(t)

	profile, err := c.DocumentType("profile")
	require.NoError(t, err)
	assert.Equal(t, []string{"avatarHash", "displayName", "home"}, profile.FieldNames())
	assert.Equal(t, []string{"$createdAt", "$updatedAt"}, profile.Required)

	display := profile.Properties["displayName"]
	assert.Equal(t, FieldString, display.Type.Kind)
	require.NotNil(t, display.Type.Max)
	assert.Equal(t, uint64(25), *display.Type.Max)
	assert.Nil(t, display.Type.Min)

	avatar := profile.Properties["avatarHash"]
	assert.Equal(t, FieldByteArray, avatar.Type.Kind)
	assert.Equal(t, uint64(32), *avatar.Type.Min)

	city, ok := profile.Field("home.city")
	require.True(t, ok)
	assert.Equal(t, FieldString, city.Type.Kind)
	_, ok = profile.Field("home.street")
	assert.False(t, ok)
	_, ok = profile.Field("displayName.length")
	assert.False(t, ok)

	assert.Equal(t, []string{"avatarHash"}, keysOf(c.BinaryProperties("profile")))
	assert.True(t, profile.DocumentsMutable)

	note, err := c.DocumentType("note")
	require.NoError(t, err)
	assert.False(t, note.DocumentsMutable)
	assert.False(t, note.DocumentsKeepHistory)
}

func TestFieldTypeKinds(t *testing.T) {
	schema := mustValue(t, `{
		"type": "object",
		"properties": {
			"$createdAt": {"type": "integer"},
			"count": {"type": "integer"},
			"ratio": {"type": "number"},
			"flag": {"type": "boolean"},
			"owner": {"type": "array", "byteArray": true, "minItems": 32, "maxItems": 32,
				"contentMediaType": "application/x.dash.dpp.identifier"},
			"tags": {"type": "array", "items": {"type": "string"}}
		}
	}`)
	dt, err := NewDocumentType(identifier.Zero, "kinds", schema, nil, DefaultConfig())
	require.NoError(t, err)

	expected := map[string]FieldKind{
		"$createdAt": FieldDate,
		"count":      FieldInteger,
		"ratio":      FieldNumber,
		"flag":       FieldBoolean,
		"owner":      FieldIdentifier,
		"tags":       FieldArray,
	}
	for name, kind := range expected {
		assert.Equal(t, kind, dt.Properties[name].Type.Kind, name)
	}
	require.NotNil(t, dt.Properties["tags"].Type.Item)
	assert.Equal(t, FieldString, dt.Properties["tags"].Type.Item.Kind)
	assert.Equal(t, "identifier", FieldIdentifier.String())
}

func TestNewDocumentTypeErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		defs   map[string]value.Value
	}{
		{
			name:   "unknown type",
			schema: `{"type": "object", "properties": {"a": {"type": "tuple"}}}`,
		},
		{
			name:   "missing ref",
			schema: `{"type": "object", "properties": {"a": {"$ref": "#/$defs/nope"}}}`,
		},
		{
			name:   "external ref",
			schema: `{"type": "object", "properties": {"a": {"$ref": "https://example.com/a"}}}`,
		},
		{
			name:   "bad index direction",
			schema: `{"type": "object", "properties": {"a": {"type": "string"}}, "indices": [{"name": "i", "properties": [{"a": "up"}]}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocumentType(identifier.Zero, "doc", mustValue(t, tt.schema), tt.defs, DefaultConfig())
			require.Error(t, err)
		})
	}
}

func TestResolveRefCycle(t *testing.T) {
	defs := map[string]value.Value{
		"a": mustValue(t, `{"$ref": "#/$defs/b"}`),
		"b": mustValue(t, `{"$ref": "#/$defs/a"}`),
	}
	_, err := ResolveRef(mustValue(t, `{"$ref": "#/$defs/a"}`), defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestIndicesAndFingerprint(t *testing.T) {
	c := profileContract(t)
	profile, err := c.DocumentType("profile")
	require.NoError(t, err)

	require.Len(t, profile.Indices, 2)
	assert.Equal(t, "ownerId", profile.Indices[0].Name)
	assert.True(t, profile.Indices[0].Unique)
	assert.Equal(t, []string{"$ownerId", "$updatedAt"}, profile.Indices[1].PropertyNames())
	assert.Equal(t, `[{"$ownerId":"asc"},{"$updatedAt":"asc"}]`, profile.Indices[1].Fingerprint())

	parsed, err := indexFromValue(profile.Indices[1].ToValue())
	require.NoError(t, err)
	assert.Equal(t, profile.Indices[1], parsed)
}

func TestIndexLevel(t *testing.T) {
	indices := []Index{
		{Name: "ab", Properties: []IndexProperty{{Name: "a", Ascending: true}, {Name: "b", Ascending: true}}, Unique: true},
		{Name: "a", Properties: []IndexProperty{{Name: "a", Ascending: true}}},
		{Name: "c", Properties: []IndexProperty{{Name: "c"}}},
	}
	root := IndexLevelFromIndices(indices)

	assert.Nil(t, root.HasIndexWithUniqueness)
	assert.Equal(t, []string{"a", "c"}, root.SubLevelNames())
	assert.Equal(t, [][]string{{"a"}, {"a", "b"}, {"c"}}, root.Paths())

	a, ok := root.SubLevel("a")
	require.True(t, ok)
	require.NotNil(t, a.HasIndexWithUniqueness)
	assert.False(t, *a.HasIndexWithUniqueness)

	b, ok := a.SubLevel("b")
	require.True(t, ok)
	assert.True(t, *b.HasIndexWithUniqueness)

	_, ok = root.SubLevel("b")
	assert.False(t, ok)
}

func TestIndexLevelUniqueWins(t *testing.T) {
	props := []IndexProperty{{Name: "x", Ascending: true}}
	root := IndexLevelFromIndices([]Index{
		{Name: "unique", Properties: props, Unique: true},
		{Name: "plain", Properties: props},
	})
	x, ok := root.SubLevel("x")
	require.True(t, ok)
	assert.True(t, *x.HasIndexWithUniqueness)
}

func TestRandomIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	fields := []string{"a", "b", "c"}

	var existing []Index
	for i := 0; i < 5; i++ {
		index, err := RandomIndex(fields, existing, rng)
		require.NoError(t, err)
		assert.Regexp(t, `^index_\d+$`, index.Name)
		for _, e := range existing {
			assert.False(t, e.samePropertiesAs(index))
		}
		existing = append(existing, index)
	}
}

func TestRandomIndexExhausted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	existing := []Index{
		{Name: "asc", Properties: []IndexProperty{{Name: "a", Ascending: true}}},
		{Name: "desc", Properties: []IndexProperty{{Name: "a"}}},
	}
	_, err := RandomIndex([]string{"a"}, existing, rng)
	require.Error(t, err)
	assert.IsType(t, &commonerrors.GenericError{}, err)
	assert.Equal(t, "Unable to generate a unique index after maximum attempts", err.Error())

	_, err = RandomIndex(nil, nil, rng)
	require.Error(t, err)
}

func TestRandomDocumentType(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		dt, err := RandomDocumentType(identifier.Zero, "random", rng)
		require.NoError(t, err, "seed %d", seed)
		assert.LessOrEqual(t, len(dt.Indices), UniqueIndexLimit)
		assert.NotEmpty(t, dt.Properties)

		names := map[string]bool{}
		for _, index := range dt.Indices {
			assert.False(t, names[index.Name])
			names[index.Name] = true
			for _, p := range index.Properties {
				assert.Contains(t, dt.Properties, p.Name)
			}
		}
	}
}

func TestEnrichWithBaseSchema(t *testing.T) {
	c := profileContract(t)
	base := mustValue(t, `{
		"properties": {
			"$id": {"type": "array", "byteArray": true, "minItems": 32, "maxItems": 32,
				"contentMediaType": "application/x.dash.dpp.identifier"},
			"$revision": {"type": "integer"},
			"$ownerId": {"type": "array", "byteArray": true, "minItems": 32, "maxItems": 32,
				"contentMediaType": "application/x.dash.dpp.identifier"}
		},
		"required": ["$id", "$revision", "$ownerId"]
	}`)

	enriched, err := c.EnrichWithBaseSchema(base, PrefixByte0, []string{"$revision"})
	require.NoError(t, err)

	profile, err := enriched.DocumentType("profile")
	require.NoError(t, err)
	assert.Equal(t, FieldIdentifier, profile.Properties["$id"].Type.Kind)
	assert.NotContains(t, profile.Properties, "$revision")
	assert.Equal(t, []string{"$createdAt", "$updatedAt", "$id", "$ownerId"}, profile.Required)
	assert.Contains(t, enriched.BinaryProperties("profile"), "$ownerId")

	original, err := c.DocumentType("profile")
	require.NoError(t, err)
	assert.NotContains(t, original.Properties, "$id")

	assert.Equal(t, c.ID().String(), c.JSONSchemaID())
	assert.NotEqual(t, c.JSONSchemaID(), enriched.JSONSchemaID())

	other, err := c.EnrichWithBaseSchema(base, PrefixByte1, nil)
	require.NoError(t, err)
	assert.NotEqual(t, enriched.JSONSchemaID(), other.JSONSchemaID())
}

func keysOf(m map[string]value.Value) []string {
	return value.NewMap(m).Keys()
}
