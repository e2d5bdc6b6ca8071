/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirEmpty(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "empty")
	withFile := filepath.Join(root, "with-file")
	withDir := filepath.Join(root, "with-dir")
	require.NoError(t, os.MkdirAll(empty, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(withDir, "000001.ldb"), 0o755))
	require.NoError(t, os.MkdirAll(withFile, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(withFile, "MANIFEST"), []byte("state"), 0o644))

	tests := []struct {
		dir   string
		empty bool
	}{
		{dir: empty, empty: true},
		{dir: withFile},
		{dir: withDir},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.dir), func(t *testing.T) {
			isEmpty, err := DirEmpty(tt.dir)
			require.NoError(t, err)
			require.Equal(t, tt.empty, isEmpty)
		})
	}

	missing := filepath.Join(root, "missing")
	_, err := DirEmpty(missing)
	require.EqualError(t, err, fmt.Sprintf("error opening dir [%s]: open %s: no such file or directory", missing, missing))
}

func TestCreateDirIfMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state", "leveldb")
	empty, err := CreateDirIfMissing(dir)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "CURRENT"), []byte("MANIFEST-000001"), 0o644))
	empty, err = CreateDirIfMissing(dir)
	require.NoError(t, err)
	require.False(t, empty)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = CreateDirIfMissing(file)
	require.EqualError(t, err, fmt.Sprintf("error while creating dir: %s: mkdir %s: not a directory", file, file))
}

func TestSyncDir(t *testing.T) {
	require.NoError(t, SyncDir(t.TempDir()))
	require.EqualError(t, SyncDir("missing-dir"), "error while opening dir:missing-dir: open missing-dir: no such file or directory")
}
