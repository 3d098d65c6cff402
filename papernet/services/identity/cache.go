/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	// ZeroCost with this ristretto uses the Cost function defined in its configuration
	ZeroCost = 0

	DefaultBufferItems = 64
)

// CachingStore keeps the entries returned by the backing store so that repeated sessions
// for the same identity do not hit the wallet again.
type CachingStore struct {
	backend Store
	cache   *ristretto.Cache[string, *Entry]
	sfg     singleflight.Group
}

// NewCachingStore caches up to size entries of the passed store
func NewCachingStore(backend Store, size int64) (*CachingStore, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid cache size [%d]", size)
	}
	c, err := ristretto.NewCache[string, *Entry](&ristretto.Config[string, *Entry]{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: DefaultBufferItems,
		Cost: func(value *Entry) int64 {
			return 1
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed creating identity cache")
	}
	return &CachingStore{backend: backend, cache: c}, nil
}

func (s *CachingStore) Get(label string) (*Entry, error) {
	if e, found := s.cache.Get(label); found {
		logger.Debugf("identity [%s] found in cache", label)
		return e, nil
	}

	res, err, _ := s.sfg.Do(label, func() (interface{}, error) {
		e, err := s.backend.Get(label)
		if err != nil {
			return nil, err
		}
		s.cache.Set(label, e, ZeroCost)
		s.cache.Wait()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Entry), nil
}

// Close stops the cache. Lookups keep working and go straight to the backing store.
// Calling Close more than once is a no-op.
func (s *CachingStore) Close() {
	s.cache.Close()
}
