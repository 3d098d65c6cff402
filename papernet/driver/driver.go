/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package driver

import (
	"context"
	"crypto"
	"crypto/x509"
	"time"
)

// Credentials is the signing material of the identity a session acts as.
type Credentials struct {
	MSPID       string
	Certificate *x509.Certificate
	PrivateKey  crypto.PrivateKey
}

// Endpoint is a gateway peer the driver can dial.
type Endpoint struct {
	// Name is the peer name as it appears in the network profile
	Name string
	// Address is host:port
	Address string
	// TLSCACert is the PEM encoded CA used to verify the peer. Empty means plaintext.
	TLSCACert []byte
	// ServerNameOverride replaces the host name during TLS verification
	ServerNameOverride string
}

// Timeouts bounds each phase of a gateway call.
type Timeouts struct {
	Connect      time.Duration
	Evaluate     time.Duration
	Endorse      time.Duration
	Submit       time.Duration
	CommitStatus time.Duration
}

// Driver opens gateways to a ledger network.
type Driver interface {
	// Connect dials the passed endpoint acting as the passed identity.
	// The returned Gateway must be closed by the caller.
	Connect(ctx context.Context, credentials *Credentials, endpoint Endpoint, timeouts Timeouts) (Gateway, error)
}

// Gateway is an open connection to the ledger network.
type Gateway interface {
	// GetNetwork returns the network bound to the passed channel
	GetNetwork(channel string) Network
	// Close releases every resource held by the gateway
	Close() error
}

// Network is a channel of the ledger network.
type Network interface {
	// GetContract returns the passed chaincode. Transaction names are passed to the
	// contract already qualified with the contract name, if any.
	GetContract(chaincode string) Contract
}

// Contract is the ledger RPC boundary: an operation name plus an ordered list of byte-string
// arguments in, opaque bytes out.
type Contract interface {
	// Submit endorses the transaction, sends it to ordering and waits for it to be committed.
	// It returns the result of the endorsed transaction.
	Submit(ctx context.Context, name string, args ...[]byte) ([]byte, error)
	// Evaluate queries a single peer. Nothing is sent to ordering.
	Evaluate(ctx context.Context, name string, args ...[]byte) ([]byte, error)
}
