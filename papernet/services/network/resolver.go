/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package network

import (
	"context"
	"fmt"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
)

const contractLoggerPrefix = "papernet.network.contract"

// ContractHandle addresses a contract on a channel of an open session.
// It becomes unusable when its session is closed.
type ContractHandle struct {
	channel   string
	chaincode string
	contract  string

	session *Session
	target  driver.Contract
	logger  logging.Logger
}

// Contract resolves the passed contract. An empty contract name selects the chaincode
// default contract. It fails with driver.ErrNotFound if the channel or the chaincode
// is not part of the session profile.
func (s *Session) Contract(channel, chaincode, contract string) (*ContractHandle, error) {
	if len(channel) == 0 || len(chaincode) == 0 {
		return nil, driver.Errorf(driver.ErrInvalidArgument, "channel and chaincode must be set, got [%s:%s]", channel, chaincode)
	}
	if !s.Profile.HasChannel(channel) {
		return nil, driver.Errorf(driver.ErrNotFound, "channel [%s] not in network profile [%s]", channel, s.Profile.Name)
	}
	if !s.Profile.HasChaincode(channel, chaincode) {
		return nil, driver.Errorf(driver.ErrNotFound, "chaincode [%s] not deployed on channel [%s]", chaincode, channel)
	}
	n, err := s.network(channel)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("session [%s] resolved contract [%s:%s:%s]", s.ID, channel, chaincode, contract)
	return &ContractHandle{
		channel:   channel,
		chaincode: chaincode,
		contract:  contract,
		session:   s,
		target:    n.GetContract(chaincode),
		logger:    logging.SessionLogger(contractLoggerPrefix, channel, chaincode, contract),
	}, nil
}

func (h *ContractHandle) Channel() string { return h.channel }

func (h *ContractHandle) Chaincode() string { return h.chaincode }

func (h *ContractHandle) Contract() string { return h.contract }

// SessionID returns the id of the session the handle belongs to
func (h *ContractHandle) SessionID() string { return h.session.ID }

// TransactionName qualifies the passed operation name with the contract name, if any
func (h *ContractHandle) TransactionName(name string) string {
	if len(h.contract) == 0 {
		return name
	}
	return h.contract + ":" + name
}

// Submit sends a write transaction and waits for its commit.
// Callers should go through the invoker, which enforces operation paths.
func (h *ContractHandle) Submit(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	txName := h.TransactionName(name)
	h.logger.Debugf("session [%s] submitting [%s]", h.session.ID, txName)
	res, err := h.target.Submit(ctx, txName, args...)
	if err != nil {
		h.logger.Debugf("session [%s] submit [%s] failed: %s", h.session.ID, txName, err)
		return nil, err
	}
	return res, nil
}

// Evaluate runs a read-only query.
// Callers should go through the invoker, which enforces operation paths.
func (h *ContractHandle) Evaluate(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	txName := h.TransactionName(name)
	h.logger.Debugf("session [%s] evaluating [%s]", h.session.ID, txName)
	res, err := h.target.Evaluate(ctx, txName, args...)
	if err != nil {
		h.logger.Debugf("session [%s] evaluate [%s] failed: %s", h.session.ID, txName, err)
		return nil, err
	}
	return res, nil
}

func (h *ContractHandle) String() string {
	return fmt.Sprintf("%s:%s:%s", h.channel, h.chaincode, h.contract)
}

func (h *ContractHandle) check() error {
	if h.session.IsClosed() {
		return driver.Errorf(driver.ErrSessionClosed, "contract [%s] belongs to released session [%s]", h, h.session.ID)
	}
	return nil
}
