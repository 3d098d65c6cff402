/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package paper

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperledger-labs/fabric-papernet/papernet/records/codec"
	"github.com/pkg/errors"
)

// Class is the ledger class of commercial papers
const Class = "org.papernet.commercialpaper"

// State is the lifecycle state of a commercial paper. The zero value means the ledger
// did not report a state.
type State int

const (
	Unset State = iota
	Issued
	Trading
	Redeemed
)

var stateNames = map[State]string{
	Issued:   "ISSUED",
	Trading:  "TRADING",
	Redeemed: "REDEEMED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	if s == Unset {
		return "UNSET"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

func (s State) Valid() bool {
	return s >= Unset && s <= Redeemed
}

// MarshalJSON writes the numeric form used by the ledger
func (s State) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Errorf("invalid state [%d]", int(s))
	}
	return []byte(strconv.Itoa(int(s))), nil
}

// UnmarshalJSON accepts the numeric form and the name form
func (s *State) UnmarshalJSON(raw []byte) error {
	if len(raw) > 0 && raw[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return err
		}
		for state, n := range stateNames {
			if strings.EqualFold(n, name) {
				*s = state
				return nil
			}
		}
		return errors.Errorf("unknown state [%s]", name)
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrapf(err, "invalid state [%s]", raw)
	}
	if !State(v).Valid() {
		return errors.Errorf("unknown state [%d]", v)
	}
	*s = State(v)
	return nil
}

// Amount is a decimal amount. The ledger may report it as a JSON string or number;
// it is always written as a string.
type Amount string

// amountPattern is the JSON number grammar, which leaves out NaN, Inf and hex floats
var amountPattern = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)

func (a Amount) Validate() error {
	if len(a) == 0 {
		return nil
	}
	if !amountPattern.MatchString(string(a)) {
		return errors.Errorf("invalid amount [%s]", string(a))
	}
	v, err := strconv.ParseFloat(string(a), 64)
	if err != nil || math.IsInf(v, 0) {
		return errors.Errorf("amount [%s] out of range", string(a))
	}
	if v < 0 {
		return errors.Errorf("negative amount [%s]", string(a))
	}
	return nil
}

func (a *Amount) UnmarshalJSON(raw []byte) error {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var n json.Number
	if err := d.Decode(&n); err != nil {
		return errors.Wrapf(err, "invalid amount [%s]", raw)
	}
	*a = Amount(n.String())
	return nil
}

// CommercialPaper is the ledger snapshot of a commercial paper
type CommercialPaper struct {
	Class            string `json:"class,omitempty"`
	Key              string `json:"key,omitempty"`
	CurrentState     State  `json:"currentState,omitempty"`
	Issuer           string `json:"issuer"`
	PaperNumber      string `json:"paperNumber"`
	IssueDateTime    string `json:"issueDateTime,omitempty"`
	MaturityDateTime string `json:"maturityDateTime,omitempty"`
	FaceValue        Amount `json:"faceValue,omitempty"`
	Owner            string `json:"owner,omitempty"`
}

// MakeKey returns the ledger key of the paper issued by issuer with the passed number
func MakeKey(issuer, paperNumber string) string {
	return codec.KeyParts(issuer, paperNumber)
}

func (p *CommercialPaper) ID() string {
	return MakeKey(p.Issuer, p.PaperNumber)
}

func (p *CommercialPaper) Validate() error {
	if len(p.Issuer) == 0 || len(p.PaperNumber) == 0 {
		return errors.New("issuer and paper number are required")
	}
	if len(p.Key) != 0 && p.Key != p.ID() {
		return errors.Errorf("key [%s] does not match [%s]", p.Key, p.ID())
	}
	if !p.CurrentState.Valid() {
		return errors.Errorf("invalid state [%d]", int(p.CurrentState))
	}
	return p.FaceValue.Validate()
}

func (p *CommercialPaper) IsIssued() bool { return p.CurrentState == Issued }

func (p *CommercialPaper) IsTrading() bool { return p.CurrentState == Trading }

func (p *CommercialPaper) IsRedeemed() bool { return p.CurrentState == Redeemed }

func (p *CommercialPaper) Bytes() ([]byte, error) {
	return codec.Encode(p)
}

// FromBytes decodes a commercial paper returned by the ledger
func FromBytes(raw []byte) (*CommercialPaper, error) {
	return codec.Decode[CommercialPaper](raw)
}
