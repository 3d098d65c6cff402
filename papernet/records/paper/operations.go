/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package paper

import (
	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/records/codec"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/invoker"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
)

const (
	CreateFunction = "create"
	IssueFunction  = "issue"
	BuyFunction    = "buy"
	RedeemFunction = "redeem"
	QueryFunction  = "query"
)

// Create records a new paper passing its terms as a single JSON document
type Create struct {
	invoker.Submitting
	Issuer           string
	PaperNumber      string
	IssueDateTime    string
	MaturityDateTime string
	FaceValue        Amount
}

type createRequest struct {
	Issuer           string `json:"issuer"`
	PaperNumber      string `json:"paperNumber"`
	IssueDateTime    string `json:"issueDateTime"`
	MaturityDateTime string `json:"maturityDateTime"`
	FaceValue        Amount `json:"faceValue"`
}

func (c Create) Name() string { return CreateFunction }

func (c Create) Args() ([][]byte, error) {
	if err := checkTerms(c.Issuer, c.PaperNumber, c.FaceValue); err != nil {
		return nil, err
	}
	raw, err := codec.Encode(createRequest{
		Issuer:           c.Issuer,
		PaperNumber:      c.PaperNumber,
		IssueDateTime:    c.IssueDateTime,
		MaturityDateTime: c.MaturityDateTime,
		FaceValue:        c.FaceValue,
	})
	if err != nil {
		return nil, err
	}
	return [][]byte{raw}, nil
}

func (c Create) Decode(raw []byte) (*CommercialPaper, error) {
	return decodeFor(raw, c.Issuer, c.PaperNumber)
}

// Issue issues a new paper owned by its issuer
type Issue struct {
	invoker.Submitting
	Issuer           string
	PaperNumber      string
	IssueDateTime    string
	MaturityDateTime string
	FaceValue        Amount
}

func (i Issue) Name() string { return IssueFunction }

func (i Issue) Args() ([][]byte, error) {
	if err := checkTerms(i.Issuer, i.PaperNumber, i.FaceValue); err != nil {
		return nil, err
	}
	return byteArgs(i.Issuer, i.PaperNumber, i.IssueDateTime, i.MaturityDateTime, string(i.FaceValue)), nil
}

func (i Issue) Decode(raw []byte) (*CommercialPaper, error) {
	return decodeFor(raw, i.Issuer, i.PaperNumber)
}

// Buy moves a paper from its current owner to a new owner
type Buy struct {
	invoker.Submitting
	Issuer           string
	PaperNumber      string
	CurrentOwner     string
	NewOwner         string
	Price            Amount
	PurchaseDateTime string
}

func (b Buy) Name() string { return BuyFunction }

func (b Buy) Args() ([][]byte, error) {
	if err := checkTerms(b.Issuer, b.PaperNumber, b.Price); err != nil {
		return nil, err
	}
	if len(b.CurrentOwner) == 0 || len(b.NewOwner) == 0 {
		return nil, driver.Errorf(driver.ErrInvalidArgument, "buy requires the current and the new owner")
	}
	return byteArgs(b.Issuer, b.PaperNumber, b.CurrentOwner, b.NewOwner, string(b.Price), b.PurchaseDateTime), nil
}

func (b Buy) Decode(raw []byte) (*CommercialPaper, error) {
	return decodeFor(raw, b.Issuer, b.PaperNumber)
}

// Redeem returns a paper to its issuer at maturity
type Redeem struct {
	invoker.Submitting
	Issuer         string
	PaperNumber    string
	RedeemingOwner string
	RedeemDateTime string
}

func (r Redeem) Name() string { return RedeemFunction }

func (r Redeem) Args() ([][]byte, error) {
	if err := checkTerms(r.Issuer, r.PaperNumber, ""); err != nil {
		return nil, err
	}
	if len(r.RedeemingOwner) == 0 {
		return nil, driver.Errorf(driver.ErrInvalidArgument, "redeem requires the redeeming owner")
	}
	return byteArgs(r.Issuer, r.PaperNumber, r.RedeemingOwner, r.RedeemDateTime), nil
}

func (r Redeem) Decode(raw []byte) (*CommercialPaper, error) {
	return decodeFor(raw, r.Issuer, r.PaperNumber)
}

// Query reads the current snapshot of a paper
type Query struct {
	invoker.Evaluating
	Issuer      string
	PaperNumber string
}

func (q Query) Name() string { return QueryFunction }

func (q Query) Args() ([][]byte, error) {
	if err := checkTerms(q.Issuer, q.PaperNumber, ""); err != nil {
		return nil, err
	}
	return byteArgs(q.Issuer, q.PaperNumber), nil
}

func (q Query) Decode(raw []byte) (*CommercialPaper, error) {
	return decodeFor(raw, q.Issuer, q.PaperNumber)
}

func checkTerms(issuer, paperNumber string, amount Amount) error {
	if len(issuer) == 0 || len(paperNumber) == 0 {
		return driver.Errorf(driver.ErrInvalidArgument, "issuer and paper number are required")
	}
	if err := amount.Validate(); err != nil {
		return driver.NewError(driver.ErrInvalidArgument, err, "invalid terms for [%s]", MakeKey(issuer, paperNumber))
	}
	return nil
}

// decodeFor decodes a paper and checks it is the one the operation addressed
func decodeFor(raw []byte, issuer, paperNumber string) (*CommercialPaper, error) {
	p, err := FromBytes(raw)
	if err != nil {
		return nil, err
	}
	if p.Issuer != issuer || p.PaperNumber != paperNumber {
		return nil, driver.Errorf(driver.ErrDecode, "ledger returned paper [%s], expected [%s]", logging.Printable(p.ID()), MakeKey(issuer, paperNumber))
	}
	return p, nil
}

func byteArgs(args ...string) [][]byte {
	res := make([][]byte, len(args))
	for i, a := range args {
		res[i] = []byte(a)
	}
	return res
}
