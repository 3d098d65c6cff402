/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package medcheck

import (
	"github.com/hyperledger-labs/fabric-papernet/papernet/records/codec"
	"github.com/pkg/errors"
)

type Person struct {
	Name      string `json:"name"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Ethnicity string `json:"ethnicity"`
	Gender    string `json:"gender"`
	// DeathDate is empty while the person is alive
	DeathDate string `json:"deathDate"`
}

type DrugExposure struct {
	DrugName  string `json:"drugName"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	// Dosage is a free text description
	Dosage    string `json:"dosis"`
	Quantity  uint64 `json:"quantity"`
	Diagnosis string `json:"diagnosis"`
}

// MedicalCheck is the ledger snapshot of a check performed by a doctor
type MedicalCheck struct {
	Doctor       string       `json:"doctor"`
	CheckID      string       `json:"checkId"`
	Date         string       `json:"date"`
	Person       Person       `json:"person"`
	DrugExposure DrugExposure `json:"drugExposure"`
}

func MakeKey(doctor, checkID string) string {
	return codec.KeyParts(doctor, checkID)
}

func (m *MedicalCheck) ID() string {
	return MakeKey(m.Doctor, m.CheckID)
}

func (m *MedicalCheck) Validate() error {
	if len(m.Doctor) == 0 || len(m.CheckID) == 0 {
		return errors.New("doctor and check id are required")
	}
	return nil
}

func (m *MedicalCheck) Bytes() ([]byte, error) {
	return codec.Encode(m)
}

func FromBytes(raw []byte) (*MedicalCheck, error) {
	return codec.Decode[MedicalCheck](raw)
}
