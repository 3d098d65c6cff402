/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package codec

import (
	"testing"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func (i *item) Validate() error {
	if len(i.ID) == 0 {
		return errors.New("missing id")
	}
	return nil
}

func TestKeyParts(t *testing.T) {
	assert.Equal(t, "MagnetoCorp:00001", KeyParts("MagnetoCorp", "00001"))
	assert.Equal(t, "a", KeyParts("a"))
	assert.Equal(t, "", KeyParts())
}

func TestDecode(t *testing.T) {
	v, err := Decode[item]([]byte(" {\"id\":\"a\",\"count\":3,\"extra\":true}\n"))
	require.NoError(t, err)
	assert.Equal(t, &item{ID: "a", Count: 3}, v)
}

func TestDecodeFailures(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":          "",
		"blank":          "  ",
		"null":           "null",
		"array":          `[{"id":"a"}]`,
		"string":         `"a"`,
		"truncated":      `{"id":"a","cou`,
		"trailing":       `{"id":"a"}{"id":"b"}`,
		"trailing junk":  `{"id":"a"} x`,
		"wrong type":     `{"id":"a","count":"3"}`,
		"invalid record": `{"count":3}`,
		"not json":       "\x00\x01\x02",
	} {
		t.Run(name, func(t *testing.T) {
			v, err := Decode[item]([]byte(raw))
			require.Error(t, err)
			assert.Nil(t, v)
			assert.True(t, errors.Is(err, driver.ErrDecode))
		})
	}
}

func TestEncode(t *testing.T) {
	raw, err := Encode(&item{ID: "a", Count: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","count":1}`, string(raw))

	_, err = Encode(make(chan int))
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrInvalidArgument))
}
