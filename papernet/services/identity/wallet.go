/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/pkg/errors"
)

var logger = logging.MustGetLogger("papernet.identity")

const walletEntrySuffix = ".id"

// walletEntry is the on-disk format shared with the other Fabric SDKs
type walletEntry struct {
	Credentials struct {
		Certificate string `json:"certificate"`
		PrivateKey  string `json:"privateKey"`
	} `json:"credentials"`
	MSPID   string `json:"mspId"`
	Type    string `json:"type"`
	Version int    `json:"version"`
}

// Wallet is a directory holding one <label>.id file per identity
type Wallet struct {
	path string
}

func NewWallet(path string) *Wallet {
	return &Wallet{path: path}
}

func (w *Wallet) Get(label string) (*Entry, error) {
	if err := checkLabel(label); err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "invalid identity label")
	}
	file := filepath.Join(w.path, label+walletEntrySuffix)
	logger.Debugf("loading identity [%s] from [%s]", label, file)
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "identity [%s] not found in wallet [%s]", label, w.path)
	}
	we := &walletEntry{}
	if err := json.Unmarshal(raw, we); err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "malformed wallet entry [%s]", file)
	}
	if we.Type != X509Type {
		return nil, driver.Errorf(driver.ErrConnection, "unsupported identity type [%s] for [%s]", we.Type, label)
	}
	return &Entry{
		Label:       label,
		MSPID:       we.MSPID,
		Certificate: []byte(we.Credentials.Certificate),
		PrivateKey:  []byte(we.Credentials.PrivateKey),
	}, nil
}

// Put stores the passed entry, replacing any entry with the same label
func (w *Wallet) Put(entry *Entry) error {
	if err := entry.validate(); err != nil {
		return driver.NewError(driver.ErrInvalidArgument, err, "cannot store identity")
	}
	if err := checkLabel(entry.Label); err != nil {
		return driver.NewError(driver.ErrInvalidArgument, err, "cannot store identity")
	}
	we := &walletEntry{MSPID: entry.MSPID, Type: X509Type, Version: 1}
	we.Credentials.Certificate = string(entry.Certificate)
	we.Credentials.PrivateKey = string(entry.PrivateKey)
	raw, err := json.Marshal(we)
	if err != nil {
		return errors.Wrapf(err, "failed marshalling identity [%s]", entry.Label)
	}
	if err := os.MkdirAll(w.path, 0o700); err != nil {
		return errors.Wrapf(err, "failed creating wallet [%s]", w.path)
	}
	return errors.Wrapf(
		os.WriteFile(filepath.Join(w.path, entry.Label+walletEntrySuffix), raw, 0o600),
		"failed writing identity [%s]", entry.Label,
	)
}

// List returns the labels stored in the wallet
func (w *Wallet) List() ([]string, error) {
	files, err := os.ReadDir(w.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading wallet [%s]", w.path)
	}
	var labels []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), walletEntrySuffix) {
			continue
		}
		labels = append(labels, strings.TrimSuffix(f.Name(), walletEntrySuffix))
	}
	return labels, nil
}

func checkLabel(label string) error {
	if len(label) == 0 {
		return errors.New("empty label")
	}
	if strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return errors.Errorf("label [%s] is not a valid file name", label)
	}
	return nil
}
