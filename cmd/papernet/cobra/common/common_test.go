/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type check struct {
	Doctor   string `json:"doctor"`
	Exposure struct {
		Drug     string `json:"drugName"`
		Quantity uint64 `json:"quantity"`
	} `json:"drugExposure"`
}

func TestPrint(t *testing.T) {
	c := check{Doctor: "Garcia"}
	c.Exposure.Drug = "Amoxicillin"
	c.Exposure.Quantity = 12

	tests := []struct {
		name     string
		field    string
		expected string
		err      string
	}{
		{name: "whole record", expected: "{\n  \"doctor\": \"Garcia\",\n  \"drugExposure\": {\n    \"drugName\": \"Amoxicillin\",\n    \"quantity\": 12\n  }\n}\n"},
		{name: "string field", field: "doctor", expected: "Garcia\n"},
		{name: "nested number", field: "drugExposure.quantity", expected: "12\n"},
		{name: "nested object", field: "drugExposure", expected: "{\"drugName\":\"Amoxicillin\",\"quantity\":12}\n"},
		{name: "missing field", field: "drugExposure.dosis", err: "field [drugExposure.dosis] not found in result"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			err := Print(buf, c, tt.field)
			if len(tt.err) != 0 {
				assert.EqualError(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestPrintLargeNumbers(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Print(buf, map[string]int{"faceValue": 5000000}, "faceValue"))
	assert.Equal(t, "5000000\n", buf.String())
}

func TestNoArgs(t *testing.T) {
	assert.NoError(t, NoArgs(nil, nil))
	assert.EqualError(t, NoArgs(nil, []string{"extra"}), "trailing args detected")
}
