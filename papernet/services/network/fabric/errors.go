/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fabric

import (
	"context"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-protos-go-apiv2/gateway"
	"github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify maps a fabric-gateway failure to the error taxonomy
func classify(submit bool, name string, err error) error {
	e := &driver.Error{Cause: err}
	if submit {
		e.Message = "failed to submit [" + name + "]"
	} else {
		e.Message = "failed to evaluate [" + name + "]"
	}

	var (
		endorseErr      *client.EndorseError
		submitErr       *client.SubmitError
		commitStatusErr *client.CommitStatusError
		commitErr       *client.CommitError
	)
	switch {
	case errors.As(err, &commitErr):
		e.Kind = driver.ErrOrdering
		e.TxID = commitErr.TransactionID
		e.Message = e.Message + " (" + validationCode(commitErr.Code) + ")"
	case errors.As(err, &submitErr):
		e.Kind = driver.ErrOrdering
		e.TxID = submitErr.TransactionID
	case errors.As(err, &commitStatusErr):
		e.Kind = driver.ErrOrdering
		e.TxID = commitStatusErr.TransactionID
	case errors.As(err, &endorseErr):
		e.Kind = driver.ErrEndorsement
		e.TxID = endorseErr.TransactionID
	case status.Code(err) == codes.Unavailable:
		e.Kind = driver.ErrConnection
	case !submit:
		e.Kind = driver.ErrEvaluation
	case errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded:
		e.Kind = driver.ErrOrdering
	default:
		e.Kind = driver.ErrEndorsement
	}
	e.Details = details(err)
	return errors.WithStack(e)
}

func validationCode(code peer.TxValidationCode) string {
	return "validation code " + code.String()
}

// details extracts the per-node errors the gateway attaches to its grpc status
func details(err error) []driver.ErrorDetail {
	s, ok := status.FromError(err)
	if !ok {
		return nil
	}
	var res []driver.ErrorDetail
	for _, d := range s.Details() {
		if ed, ok := d.(*gateway.ErrorDetail); ok {
			res = append(res, driver.ErrorDetail{
				Address: ed.GetAddress(),
				MSPID:   ed.GetMspId(),
				Message: ed.GetMessage(),
			})
		}
	}
	return res
}
