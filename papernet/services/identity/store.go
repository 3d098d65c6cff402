/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	fid "github.com/hyperledger/fabric-gateway/pkg/identity"
	"github.com/pkg/errors"
)

// X509Type is the only identity type the gateway understands
const X509Type = "X.509"

// Store resolves identity labels to credential material.
type Store interface {
	// Get returns the entry for the passed label.
	// It fails with driver.ErrConnection if the label is unknown.
	Get(label string) (*Entry, error)
}

// Entry is the credential material stored under a label
type Entry struct {
	Label       string
	MSPID       string
	Certificate []byte
	PrivateKey  []byte
}

// Credentials parses the PEM material of the entry
func (e *Entry) Credentials() (*driver.Credentials, error) {
	if len(e.MSPID) == 0 {
		return nil, driver.Errorf(driver.ErrConnection, "identity [%s] has no msp id", e.Label)
	}
	cert, err := fid.CertificateFromPEM(e.Certificate)
	if err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "invalid certificate for identity [%s]", e.Label)
	}
	key, err := fid.PrivateKeyFromPEM(e.PrivateKey)
	if err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "invalid private key for identity [%s]", e.Label)
	}
	return &driver.Credentials{
		MSPID:       e.MSPID,
		Certificate: cert,
		PrivateKey:  key,
	}, nil
}

func (e *Entry) validate() error {
	if len(e.Label) == 0 {
		return errors.New("empty label")
	}
	if len(e.MSPID) == 0 {
		return errors.Errorf("identity [%s] has no msp id", e.Label)
	}
	if len(e.Certificate) == 0 || len(e.PrivateKey) == 0 {
		return errors.Errorf("identity [%s] has incomplete credentials", e.Label)
	}
	return nil
}
