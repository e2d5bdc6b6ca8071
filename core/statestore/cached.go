/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statestore

import (
	"github.com/VictoriaMetrics/fastcache"
)

// CachedStore is a read-through cache in front of a KVStore. Writes go to the
// backing store and drop the cached entry. Entries larger than the cache
// chunk size are never cached.
type CachedStore struct {
	store KVStore
	cache *fastcache.Cache
}

// NewCachedStore wraps store with a cache of maxBytes.
func NewCachedStore(store KVStore, maxBytes int) *CachedStore {
	return &CachedStore{
		store: store,
		cache: fastcache.New(maxBytes),
	}
}

func (c *CachedStore) Get(key []byte) ([]byte, error) {
	if v, ok := c.cache.HasGet(nil, key); ok {
		return v, nil
	}
	v, err := c.store.Get(key)
	if err != nil || v == nil {
		return v, err
	}
	c.cache.Set(key, v)
	return v, nil
}

func (c *CachedStore) Put(key, value []byte) error {
	c.cache.Del(key)
	return c.store.Put(key, value)
}

func (c *CachedStore) Delete(key []byte) error {
	c.cache.Del(key)
	return c.store.Delete(key)
}

// Iterate bypasses the cache.
func (c *CachedStore) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return c.store.Iterate(prefix, fn)
}

// Stats returns a snapshot of the cache counters.
func (c *CachedStore) Stats() fastcache.Stats {
	var s fastcache.Stats
	c.cache.UpdateStats(&s)
	return s
}

func (c *CachedStore) Close() {
	c.cache.Reset()
	c.store.Close()
}
