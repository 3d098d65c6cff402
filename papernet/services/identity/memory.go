/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"sync"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
)

// MemoryStore keeps identities in memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]*Entry{}}
}

func (s *MemoryStore) Put(entry *Entry) error {
	if err := entry.validate(); err != nil {
		return driver.NewError(driver.ErrInvalidArgument, err, "cannot store identity")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *entry
	s.entries[entry.Label] = &e
	return nil
}

func (s *MemoryStore) Get(label string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[label]
	if !ok {
		return nil, driver.Errorf(driver.ErrConnection, "identity [%s] not found in memory store", label)
	}
	c := *e
	return &c, nil
}
