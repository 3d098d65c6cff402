/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabric

import (
	"context"
	"crypto/x509"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

var logger = logging.MustGetLogger("papernet.network.fabric")

// Driver opens fabric-gateway connections
type Driver struct{}

func NewDriver() *Driver {
	return &Driver{}
}

func (d *Driver) Connect(ctx context.Context, creds *driver.Credentials, endpoint driver.Endpoint, timeouts driver.Timeouts) (driver.Gateway, error) {
	id, err := identity.NewX509Identity(creds.MSPID, creds.Certificate)
	if err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "invalid identity for msp [%s]", creds.MSPID)
	}
	sign, err := identity.NewPrivateKeySign(creds.PrivateKey)
	if err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "invalid signing key for msp [%s]", creds.MSPID)
	}

	conn, err := dial(endpoint)
	if err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "failed dialing [%s]", endpoint.Address)
	}
	if err := waitForReady(ctx, conn, timeouts); err != nil {
		closeConn(conn)
		return nil, driver.NewError(driver.ErrConnection, err, "peer [%s] at [%s] unreachable", endpoint.Name, endpoint.Address)
	}

	opts := []client.ConnectOption{
		client.WithSign(sign),
		client.WithClientConnection(conn),
	}
	if timeouts.Evaluate > 0 {
		opts = append(opts, client.WithEvaluateTimeout(timeouts.Evaluate))
	}
	if timeouts.Endorse > 0 {
		opts = append(opts, client.WithEndorseTimeout(timeouts.Endorse))
	}
	if timeouts.Submit > 0 {
		opts = append(opts, client.WithSubmitTimeout(timeouts.Submit))
	}
	if timeouts.CommitStatus > 0 {
		opts = append(opts, client.WithCommitStatusTimeout(timeouts.CommitStatus))
	}
	gw, err := client.Connect(id, opts...)
	if err != nil {
		closeConn(conn)
		return nil, driver.NewError(driver.ErrConnection, err, "failed connecting gateway at [%s]", endpoint.Address)
	}
	logger.Debugf("gateway connected at [%s] as [%s]", endpoint.Address, creds.MSPID)
	return &Gateway{gateway: gw, conn: conn}, nil
}

func dial(endpoint driver.Endpoint) (*grpc.ClientConn, error) {
	tc := insecure.NewCredentials()
	if len(endpoint.TLSCACert) != 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(endpoint.TLSCACert) {
			return nil, errors.Errorf("no valid tls ca certificate for [%s]", endpoint.Name)
		}
		tc = credentials.NewClientTLSFromCert(pool, endpoint.ServerNameOverride)
	}
	return grpc.NewClient(endpoint.Address, grpc.WithTransportCredentials(tc))
}

// waitForReady blocks until the connection is usable or the connect timeout expires
func waitForReady(ctx context.Context, conn *grpc.ClientConn, timeouts driver.Timeouts) error {
	if timeouts.Connect > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeouts.Connect)
		defer cancel()
	}
	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return nil
		}
		if !conn.WaitForStateChange(ctx, state) {
			return errors.Wrapf(ctx.Err(), "connection stuck in state [%s]", state)
		}
	}
}

func closeConn(conn *grpc.ClientConn) {
	if err := conn.Close(); err != nil {
		logger.Warnf("failed closing connection to [%s]: %s", conn.Target(), err)
	}
}

// Gateway owns both the gateway and its grpc connection
type Gateway struct {
	gateway *client.Gateway
	conn    *grpc.ClientConn
}

func (g *Gateway) GetNetwork(channel string) driver.Network {
	return &Network{network: g.gateway.GetNetwork(channel)}
}

func (g *Gateway) Close() error {
	gwErr := g.gateway.Close()
	connErr := g.conn.Close()
	if gwErr != nil {
		return errors.Wrap(gwErr, "failed closing gateway")
	}
	if connErr != nil {
		return errors.Wrap(connErr, "failed closing connection")
	}
	return nil
}

type Network struct {
	network *client.Network
}

func (n *Network) GetContract(chaincode string) driver.Contract {
	return &Contract{contract: n.network.GetContract(chaincode)}
}

type Contract struct {
	contract *client.Contract
}

func (c *Contract) Submit(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	res, err := c.contract.SubmitWithContext(ctx, name, client.WithBytesArguments(args...))
	if err != nil {
		return nil, classify(true, name, err)
	}
	return res, nil
}

func (c *Contract) Evaluate(ctx context.Context, name string, args ...[]byte) ([]byte, error) {
	res, err := c.contract.EvaluateWithContext(ctx, name, client.WithBytesArguments(args...))
	if err != nil {
		return nil, classify(false, name, err)
	}
	return res, nil
}
