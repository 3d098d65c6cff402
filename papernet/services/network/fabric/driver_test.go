/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabric

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/identity/identitytest"
	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-protos-go-apiv2/gateway"
	"github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var timeouts = driver.Timeouts{
	Connect:      2 * time.Second,
	Evaluate:     2 * time.Second,
	Endorse:      2 * time.Second,
	Submit:       2 * time.Second,
	CommitStatus: 2 * time.Second,
}

func newCredentials(t *testing.T) *driver.Credentials {
	t.Helper()
	entry, err := identitytest.NewEntry("User1", "Org1MSP")
	require.NoError(t, err)
	c, err := entry.Credentials()
	require.NoError(t, err)
	return c
}

func TestConnectUnreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := lis.Addr().String()
	require.NoError(t, lis.Close())

	d := NewDriver()
	_, err = d.Connect(context.Background(), newCredentials(t), driver.Endpoint{Name: "peer0", Address: address}, driver.Timeouts{Connect: 200 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrConnection))
	assert.Contains(t, err.Error(), address)
}

func TestConnectInvalidTLSCertificate(t *testing.T) {
	d := NewDriver()
	_, err := d.Connect(context.Background(), newCredentials(t), driver.Endpoint{
		Name:      "peer0",
		Address:   "localhost:7051",
		TLSCACert: []byte("not a certificate"),
	}, timeouts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrConnection))
}

func TestGatewayCallsAreClassified(t *testing.T) {
	// a grpc server without the gateway service answers every call with Unimplemented
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	d := NewDriver()
	gw, err := d.Connect(context.Background(), newCredentials(t), driver.Endpoint{Name: "peer0", Address: lis.Addr().String()}, timeouts)
	require.NoError(t, err)

	contract := gw.GetNetwork("mychannel").GetContract("papercontract")

	_, err = contract.Evaluate(context.Background(), "org.papernet.commercialpaper:query", []byte("MagnetoCorp"), []byte("00001"))
	require.Error(t, err)
	assert.Equal(t, driver.ErrEvaluation, driver.KindOf(err))

	_, err = contract.Submit(context.Background(), "org.papernet.commercialpaper:issue", []byte("MagnetoCorp"))
	require.Error(t, err)
	assert.Equal(t, driver.ErrEndorsement, driver.KindOf(err))

	require.NoError(t, gw.Close())
}

func TestClassify(t *testing.T) {
	withDetails, err := status.New(codes.Aborted, "failed to evaluate transaction").WithDetails(&gateway.ErrorDetail{
		Address: "peer0.org1.example.com:7051",
		MspId:   "Org1MSP",
		Message: "chaincode response 500, paper not found",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		submit  bool
		err     error
		kind    error
		txID    string
		details []driver.ErrorDetail
	}{
		{
			name:   "commit failure",
			submit: true,
			err:    &client.CommitError{TransactionID: "tx1", Code: peer.TxValidationCode_MVCC_READ_CONFLICT},
			kind:   driver.ErrOrdering,
			txID:   "tx1",
		},
		{
			name: "peer unavailable",
			err:  status.Error(codes.Unavailable, "connection refused"),
			kind: driver.ErrConnection,
		},
		{
			name: "evaluate failure with details",
			err:  withDetails.Err(),
			kind: driver.ErrEvaluation,
			details: []driver.ErrorDetail{{
				Address: "peer0.org1.example.com:7051",
				MSPID:   "Org1MSP",
				Message: "chaincode response 500, paper not found",
			}},
		},
		{
			name:   "submit deadline",
			submit: true,
			err:    errors.Wrap(context.DeadlineExceeded, "waiting for commit"),
			kind:   driver.ErrOrdering,
		},
		{
			name:   "submit rejected",
			submit: true,
			err:    status.Error(codes.Aborted, "rejected"),
			kind:   driver.ErrEndorsement,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.submit, "op", tt.err)
			var e *driver.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.txID, e.TxID)
			assert.Equal(t, tt.details, e.Details)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestClassifyCommitMessage(t *testing.T) {
	err := classify(true, "issue", &client.CommitError{TransactionID: "tx1", Code: peer.TxValidationCode_MVCC_READ_CONFLICT})
	assert.Contains(t, err.Error(), "failed to submit [issue] (validation code MVCC_READ_CONFLICT): ordering error [txID tx1]")
}
