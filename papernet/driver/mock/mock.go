/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mock provides testify mocks of the ledger RPC boundary.
package mock

import (
	"context"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/stretchr/testify/mock"
)

type Driver struct {
	mock.Mock
}

func (m *Driver) Connect(ctx context.Context, credentials *driver.Credentials, endpoint driver.Endpoint, timeouts driver.Timeouts) (driver.Gateway, error) {
	args := m.Called(ctx, credentials, endpoint, timeouts)
	gw, _ := args.Get(0).(driver.Gateway)
	return gw, args.Error(1)
}

type Gateway struct {
	mock.Mock
}

func (m *Gateway) GetNetwork(channel string) driver.Network {
	args := m.Called(channel)
	n, _ := args.Get(0).(driver.Network)
	return n
}

func (m *Gateway) Close() error {
	return m.Called().Error(0)
}

type Network struct {
	mock.Mock
}

func (m *Network) GetContract(chaincode string) driver.Contract {
	args := m.Called(chaincode)
	c, _ := args.Get(0).(driver.Contract)
	return c
}

type Contract struct {
	mock.Mock
}

func (m *Contract) Submit(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	res := m.Called(ctx, name, args)
	raw, _ := res.Get(0).([]byte)
	return raw, res.Error(1)
}

func (m *Contract) Evaluate(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	res := m.Called(ctx, name, args)
	raw, _ := res.Get(0).([]byte)
	return raw, res.Error(1)
}

// NewGateway returns a gateway serving the passed contract on every channel and chaincode
func NewGateway(contract *Contract) *Gateway {
	n := &Network{}
	n.On("GetContract", mock.Anything).Return(contract)
	gw := &Gateway{}
	gw.On("GetNetwork", mock.Anything).Return(n)
	return gw
}
