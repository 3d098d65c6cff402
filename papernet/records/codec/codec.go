/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package codec converts records to and from the JSON documents exchanged with the ledger.
package codec

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
)

// Validator checks a decoded record is well formed
type Validator interface {
	Validate() error
}

// KeyParts joins key parts the way the ledger composes record keys
func KeyParts(parts ...string) string {
	b := bytes.Buffer{}
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Encode serializes v as a single JSON document
func Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, driver.NewError(driver.ErrInvalidArgument, err, "cannot encode [%T]", v)
	}
	return raw, nil
}

// Decode parses raw as exactly one JSON object and validates the result.
// Unknown fields are ignored. On failure no record is returned.
func Decode[T any, P interface {
	*T
	Validator
}](raw []byte) (*T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, driver.Errorf(driver.ErrDecode, "empty result, expected a [%T]", (*T)(nil))
	}
	if trimmed[0] != '{' {
		return nil, driver.Errorf(driver.ErrDecode, "result is not a json object, expected a [%T]", (*T)(nil))
	}

	v := new(T)
	d := json.NewDecoder(bytes.NewReader(trimmed))
	if err := d.Decode(v); err != nil {
		return nil, driver.NewError(driver.ErrDecode, err, "malformed [%T]", v)
	}
	if _, err := d.Token(); err != io.EOF {
		return nil, driver.Errorf(driver.ErrDecode, "trailing data after [%T]", v)
	}
	if err := P(v).Validate(); err != nil {
		return nil, driver.NewError(driver.ErrDecode, err, "invalid [%T]", v)
	}
	return v, nil
}
