/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package network

import (
	"sync"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/config"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/network/profile"
	"github.com/pkg/errors"
)

// Options tunes how a session is opened
type Options struct {
	Discovery config.Discovery
	Timeouts  driver.Timeouts
}

// Session is an authenticated connection to the ledger network acting as a single identity.
// A session must be closed exactly once.
type Session struct {
	// ID identifies the session in logs and traces
	ID string
	// Identity is the label the credentials were resolved from
	Identity string
	MSPID    string
	Profile  *profile.Profile
	// Endpoint is the gateway peer the session is connected to
	Endpoint driver.Endpoint
	Options  Options

	logger  logging.Logger
	lock    sync.RWMutex
	gateway driver.Gateway
	closed  bool
}

// Close disconnects the session. Any further use of the session, or of a contract handle
// resolved from it, fails with driver.ErrSessionClosed.
func (s *Session) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return driver.Errorf(driver.ErrSessionClosed, "session [%s] already released", s.ID)
	}
	s.closed = true
	gw := s.gateway
	s.gateway = nil

	s.logger.Debugf("releasing session [%s] at [%s]", s.ID, s.Endpoint.Address)
	if err := gw.Close(); err != nil {
		return errors.Wrapf(err, "failed releasing session [%s]", s.ID)
	}
	return nil
}

// IsClosed returns true once Close has been called
func (s *Session) IsClosed() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.closed
}

func (s *Session) network(channel string) (driver.Network, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return nil, driver.Errorf(driver.ErrSessionClosed, "session [%s] released", s.ID)
	}
	return s.gateway.GetNetwork(channel), nil
}
