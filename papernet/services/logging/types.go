/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"fmt"
	"strings"
	"unicode"
)

// Printable renders values coming from the ledger safely in log lines and error messages.
// Invalid UTF-8 and control characters are replaced so that a record cannot forge log lines.
func Printable(id string) fmt.Stringer {
	return printable(id)
}

type printable string

func (w printable) String() string {
	s := strings.ToValidUTF8(string(w), "X")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return 'X'
		}
		return r
	}, s)
}
