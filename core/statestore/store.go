/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package statestore provides the key-value backends the platform state is
// persisted in.
package statestore

import (
	"github.com/dashpay/platform-drive/common/flogging"
	"github.com/dashpay/platform-drive/common/ledger/util/badgerdbhelper"
	"github.com/dashpay/platform-drive/common/ledger/util/leveldbhelper"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("statestore")

// Backend names accepted by Open.
const (
	BackendLevelDB = "leveldb"
	BackendBadger  = "badger"
	BackendMemory  = "memory"
)

// KVStore is an ordered byte key-value store. Get of a missing key returns
// nil and no error.
type KVStore interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	// Iterate calls fn for every key with the given prefix in ascending key
	// order and stops at the first error fn returns.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
	Close()
}

// Config selects and sizes the backend.
type Config struct {
	Backend string
	Path    string
	// CacheSize is the read cache size in bytes. Zero disables the cache.
	CacheSize int
	// Sync makes every write durable before returning.
	Sync bool
}

// Open opens the configured backend.
func Open(cfg Config) (KVStore, error) {
	var store KVStore
	switch cfg.Backend {
	case BackendMemory, "":
		store = &levelStore{db: leveldbhelper.CreateInMemoryDB()}
	case BackendLevelDB:
		if cfg.Path == "" {
			return nil, errors.New("leveldb backend requires a path")
		}
		db := leveldbhelper.CreateDB(&leveldbhelper.Conf{DBPath: cfg.Path})
		if err := openSafely(db.Open); err != nil {
			return nil, err
		}
		store = &levelStore{db: db, sync: cfg.Sync}
	case BackendBadger:
		db := badgerdbhelper.CreateDB(&badgerdbhelper.Conf{DBPath: cfg.Path})
		if err := openSafely(db.Open); err != nil {
			return nil, err
		}
		store = &badgerStore{db: db}
	default:
		return nil, errors.Errorf("unknown storage backend '%s'", cfg.Backend)
	}
	logger.Infof("Opened %s state store at [%s]", backendName(cfg.Backend), cfg.Path)

	if cfg.CacheSize > 0 {
		return NewCachedStore(store, cfg.CacheSize), nil
	}
	return store, nil
}

func backendName(b string) string {
	if b == "" {
		return BackendMemory
	}
	return b
}

// the helpers panic on open failures
func openSafely(open func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("failed to open state store: %v", r)
		}
	}()
	open()
	return nil
}

type levelStore struct {
	db   *leveldbhelper.DB
	sync bool
}

func (s *levelStore) Get(key []byte) ([]byte, error) { return s.db.Get(key) }
func (s *levelStore) Put(key, value []byte) error    { return s.db.Put(key, value, s.sync) }
func (s *levelStore) Delete(key []byte) error        { return s.db.Delete(key, s.sync) }
func (s *levelStore) Close()                         { s.db.Close() }

func (s *levelStore) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	itr := s.db.GetPrefixIterator(prefix)
	defer itr.Release()
	for itr.Next() {
		key := append([]byte(nil), itr.Key()...)
		value := append([]byte(nil), itr.Value()...)
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return errors.Wrap(itr.Error(), "error iterating leveldb")
}

type badgerStore struct {
	db *badgerdbhelper.DB
}

func (s *badgerStore) Get(key []byte) ([]byte, error) { return s.db.Get(key) }
func (s *badgerStore) Put(key, value []byte) error    { return s.db.Put(key, value, false) }
func (s *badgerStore) Delete(key []byte) error        { return s.db.Delete(key, false) }
func (s *badgerStore) Close()                         { s.db.Close() }

func (s *badgerStore) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return s.db.IteratePrefix(prefix, fn)
}
