/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fileutil prepares the directories of the on-disk state stores.
package fileutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CreateDirIfMissing creates a store directory with its parents and
// reports whether it holds no entries. The parent is synced so that the new
// directory survives a crash.
func CreateDirIfMissing(dirPath string) (bool, error) {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return false, errors.Wrapf(err, "error while creating dir: %s", dirPath)
	}
	if err := SyncDir(filepath.Dir(dirPath)); err != nil {
		return false, err
	}
	return DirEmpty(dirPath)
}

// DirEmpty reports whether dirPath has no entries.
func DirEmpty(dirPath string) (bool, error) {
	f, err := os.Open(dirPath)
	if err != nil {
		return false, errors.Wrapf(err, "error opening dir [%s]", dirPath)
	}
	defer f.Close()

	if _, err = f.Readdirnames(1); err == io.EOF {
		return true, nil
	}
	return false, errors.Wrapf(err, "error checking if dir [%s] is empty", dirPath)
}
