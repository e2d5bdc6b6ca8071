/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package badgerdbhelper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBadgerDBHelper(t *testing.T) {
	db := CreateDB(&Conf{DBPath: filepath.Join(t.TempDir(), "state")})
	db.Open()
	db.Open()

	empty, err := db.IsEmpty()
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, db.Put([]byte("key1"), []byte("value1"), false))
	require.NoError(t, db.Put([]byte("key2"), []byte("value2"), true))

	val, err := db.Get([]byte("key2"))
	require.NoError(t, err)
	require.Equal(t, "value2", string(val))

	require.NoError(t, db.Delete([]byte("key2"), false))
	val, err = db.Get([]byte("key2"))
	require.NoError(t, err)
	require.Nil(t, val)

	batch := db.NewWriteBatch()
	require.NoError(t, batch.Set([]byte("key3"), []byte("value3")))
	require.NoError(t, batch.Delete([]byte("key1")))
	require.NoError(t, db.WriteBatch(batch, true))

	val, err = db.Get([]byte("key3"))
	require.NoError(t, err)
	require.Equal(t, "value3", string(val))
	val, err = db.Get([]byte("key1"))
	require.NoError(t, err)
	require.Nil(t, val)

	db.Close()
	db.Close()

	db.Open()
	defer db.Close()
	val, err = db.Get([]byte("key3"))
	require.NoError(t, err)
	require.Equal(t, "value3", string(val))
}

func TestInMemoryIteratePrefix(t *testing.T) {
	db := CreateInMemoryDB()
	defer db.Close()

	require.NoError(t, db.Put([]byte("doc/a/2"), []byte("2"), false))
	require.NoError(t, db.Put([]byte("doc/a/1"), []byte("1"), false))
	require.NoError(t, db.Put([]byte("doc/b/1"), []byte("3"), false))

	var keys []string
	err := db.IteratePrefix([]byte("doc/a/"), func(key, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"doc/a/1", "doc/a/2"}, keys)

	stop := errors.New("stop")
	count := 0
	err = db.IteratePrefix([]byte("doc/"), func(key, value []byte) error {
		count++
		return stop
	})
	require.Equal(t, stop, err)
	require.Equal(t, 1, count)
}

func TestOpenNonEmptyDirWithoutManifest(t *testing.T) {
	dbPath := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dbPath, "dummyfile.txt"), []byte("x"), 0o644))
	db := CreateDB(&Conf{DBPath: dbPath})
	require.Panics(t, db.Open)
}
