/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package badgerdbhelper

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/internal/fileutil"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("badgerdbhelper")

type dbState int32

const (
	// ManifestFilename is the filename for the manifest file.
	ManifestFilename = "MANIFEST"

	closed dbState = iota
	opened
)

// Conf configuration for `DB`. An empty DBPath opens badger in memory.
type Conf struct {
	DBPath string
}

// DB - a wrapper on an actual store
type DB struct {
	conf    *Conf
	db      *badger.DB
	dbState dbState
	mutex   sync.RWMutex
}

// CreateDB constructs a `DB`
func CreateDB(conf *Conf) *DB {
	return &DB{
		conf:    conf,
		dbState: closed,
	}
}

// CreateInMemoryDB constructs an opened in-memory `DB`.
func CreateInMemoryDB() *DB {
	dbInst := CreateDB(&Conf{})
	dbInst.Open()
	return dbInst
}

// Open opens the underlying db
func (dbInst *DB) Open() {
	dbInst.mutex.Lock()
	defer dbInst.mutex.Unlock()
	if dbInst.dbState == opened {
		return
	}
	var err error
	dbPath := dbInst.conf.DBPath
	opts := badger.DefaultOptions(dbPath).WithLogger(logger)
	if dbPath == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(logger)
	} else {
		var dirEmpty bool
		if dirEmpty, err = fileutil.CreateDirIfMissing(dbPath); err != nil {
			panic(fmt.Sprintf("Error creating dir if missing: %s", err))
		}
		if !dirEmpty {
			if _, err := os.Stat(filepath.Join(dbPath, ManifestFilename)); err != nil {
				panic(fmt.Sprintf("Error opening badgerdb: %s", err))
			}
		}
	}
	if dbInst.db, err = badger.Open(opts); err != nil {
		panic(fmt.Sprintf("Error opening badgerdb: %s", err))
	}
	dbInst.dbState = opened
}

// IsEmpty returns whether or not a database is empty
func (dbInst *DB) IsEmpty() (bool, error) {
	dbInst.mutex.RLock()
	defer dbInst.mutex.RUnlock()
	var hasItems bool
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	err := dbInst.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(opts)
		defer it.Close()
		it.Rewind()
		hasItems = it.Valid()
		return nil
	})
	return !hasItems,
		errors.Wrapf(err, "error while trying to see if the badgerdb at path [%s] is empty", dbInst.conf.DBPath)
}

// Close closes the underlying db
func (dbInst *DB) Close() {
	dbInst.mutex.Lock()
	defer dbInst.mutex.Unlock()
	if dbInst.dbState == closed {
		return
	}
	if err := dbInst.db.Close(); err != nil {
		logger.Errorf("Error closing badgerdb: %s", err)
	}
	dbInst.dbState = closed
}

// Get returns the value for the given key
func (dbInst *DB) Get(key []byte) ([]byte, error) {
	dbInst.mutex.RLock()
	defer dbInst.mutex.RUnlock()
	var value []byte
	err := dbInst.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		value = nil
		err = nil
	}
	if err != nil {
		logger.Errorf("Error retrieving badgerdb key [%#v]: %s", key, err)
		return nil, errors.Wrapf(err, "error retrieving badgerdb key [%#v]", key)
	}
	return value, nil
}

// Put saves the key/value. Last arg is sync on/off flag. It is unused as
// badger persists through its value log regardless.
func (dbInst *DB) Put(key []byte, value []byte, _ bool) error {
	dbInst.mutex.RLock()
	defer dbInst.mutex.RUnlock()
	err := dbInst.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		logger.Errorf("Error writing badgerdb key [%#v]", key)
		return errors.Wrapf(err, "error writing badgerdb key [%#v]", key)
	}
	return nil
}

// Delete deletes the given key. Last arg is sync on/off flag and is unused.
func (dbInst *DB) Delete(key []byte, _ bool) error {
	dbInst.mutex.RLock()
	defer dbInst.mutex.RUnlock()
	err := dbInst.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		logger.Errorf("Error deleting badgerdb key [%#v]", key)
		return errors.Wrapf(err, "error deleting badgerdb key [%#v]", key)
	}
	return nil
}

// IteratePrefix calls fn for every key starting with prefix, in key order.
// Key and value slices are copies and may be retained. Iteration stops at the
// first error returned by fn.
func (dbInst *DB) IteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	dbInst.mutex.RLock()
	defer dbInst.mutex.RUnlock()
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	return dbInst.db.View(func(txn *badger.Txn) error {
		itr := txn.NewIterator(opts)
		defer itr.Close()
		for itr.Seek(prefix); itr.ValidForPrefix(prefix); itr.Next() {
			item := itr.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return errors.Wrapf(err, "error reading badgerdb value for key [%#v]", item.Key())
			}
			if err := fn(item.KeyCopy(nil), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// NewWriteBatch returns a batch to be passed to WriteBatch.
func (dbInst *DB) NewWriteBatch() *badger.WriteBatch {
	dbInst.mutex.RLock()
	defer dbInst.mutex.RUnlock()
	return dbInst.db.NewWriteBatch()
}

// WriteBatch writes a batch. Last arg is sync on/off flag and is unused.
func (dbInst *DB) WriteBatch(batch *badger.WriteBatch, _ bool) error {
	dbInst.mutex.RLock()
	defer dbInst.mutex.RUnlock()
	if err := batch.Flush(); err != nil {
		return errors.Wrap(err, "error writing batch to badgerdb")
	}
	return nil
}
