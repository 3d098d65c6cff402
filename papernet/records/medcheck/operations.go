/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package medcheck

import (
	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/records/codec"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/invoker"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
)

const (
	CreateFunction = "create"
	UpdateFunction = "update"
	QueryFunction  = "query"
)

// Create records a new check
type Create struct {
	invoker.Submitting
	Doctor       string
	CheckID      string
	Person       Person
	DrugExposure DrugExposure
}

func (c Create) Name() string { return CreateFunction }

func (c Create) Args() ([][]byte, error) {
	return checkArgs(c.Doctor, c.CheckID, c.Person, c.DrugExposure)
}

func (c Create) Decode(raw []byte) (*MedicalCheck, error) {
	return decodeFor(raw, c.Doctor, c.CheckID)
}

// Update replaces the person and drug exposure of an existing check.
// The ledger rejects updates of unknown checks.
type Update struct {
	invoker.Submitting
	Doctor       string
	CheckID      string
	Person       Person
	DrugExposure DrugExposure
}

func (u Update) Name() string { return UpdateFunction }

func (u Update) Args() ([][]byte, error) {
	return checkArgs(u.Doctor, u.CheckID, u.Person, u.DrugExposure)
}

func (u Update) Decode(raw []byte) (*MedicalCheck, error) {
	return decodeFor(raw, u.Doctor, u.CheckID)
}

type Query struct {
	invoker.Evaluating
	Doctor  string
	CheckID string
}

func (q Query) Name() string { return QueryFunction }

func (q Query) Args() ([][]byte, error) {
	if err := checkKey(q.Doctor, q.CheckID); err != nil {
		return nil, err
	}
	return [][]byte{[]byte(q.Doctor), []byte(q.CheckID)}, nil
}

func (q Query) Decode(raw []byte) (*MedicalCheck, error) {
	return decodeFor(raw, q.Doctor, q.CheckID)
}

func checkKey(doctor, checkID string) error {
	if len(doctor) == 0 || len(checkID) == 0 {
		return driver.Errorf(driver.ErrInvalidArgument, "doctor and check id are required")
	}
	return nil
}

func checkArgs(doctor, checkID string, person Person, exposure DrugExposure) ([][]byte, error) {
	if err := checkKey(doctor, checkID); err != nil {
		return nil, err
	}
	p, err := codec.Encode(person)
	if err != nil {
		return nil, err
	}
	e, err := codec.Encode(exposure)
	if err != nil {
		return nil, err
	}
	return [][]byte{[]byte(doctor), []byte(checkID), p, e}, nil
}

func decodeFor(raw []byte, doctor, checkID string) (*MedicalCheck, error) {
	m, err := FromBytes(raw)
	if err != nil {
		return nil, err
	}
	if m.Doctor != doctor || m.CheckID != checkID {
		return nil, driver.Errorf(driver.ErrDecode, "ledger returned check [%s], expected [%s]", logging.Printable(m.ID()), MakeKey(doctor, checkID))
	}
	return m, nil
}
