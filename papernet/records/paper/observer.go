/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package paper

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrStateRegression signals a snapshot whose state precedes one already observed
	ErrStateRegression = errors.New("state regression")
	// ErrUnexpectedOwnerChange signals an owner change outside of a trade or a redemption
	ErrUnexpectedOwnerChange = errors.New("unexpected owner change")
)

// Observer tracks successive snapshots of papers and checks that their lifecycle only moves
// forward: ISSUED, then TRADING, then REDEEMED. The owner may change only when the paper is
// traded, or when redemption returns it to its issuer.
type Observer struct {
	lock sync.Mutex
	last map[string]*CommercialPaper
}

func NewObserver() *Observer {
	return &Observer{last: map[string]*CommercialPaper{}}
}

// Observe records the passed snapshot. A snapshot breaking the lifecycle is rejected and
// not recorded. A snapshot without state keeps the last known one.
func (o *Observer) Observe(p *CommercialPaper) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	id := p.ID()
	prev, ok := o.last[id]
	if ok {
		if err := checkTransition(prev, p); err != nil {
			return errors.WithMessagef(err, "paper [%s]", id)
		}
	}
	c := *p
	if ok && c.CurrentState == Unset {
		c.CurrentState = prev.CurrentState
	}
	o.last[id] = &c
	return nil
}

// Last returns the last snapshot observed for the passed key
func (o *Observer) Last(issuer, paperNumber string) (*CommercialPaper, bool) {
	o.lock.Lock()
	defer o.lock.Unlock()
	p, ok := o.last[MakeKey(issuer, paperNumber)]
	if !ok {
		return nil, false
	}
	c := *p
	return &c, true
}

func checkTransition(prev, next *CommercialPaper) error {
	// a snapshot without state carries no lifecycle information
	if prev.CurrentState != Unset && next.CurrentState != Unset && next.CurrentState < prev.CurrentState {
		return errors.Wrapf(ErrStateRegression, "from [%s] to [%s]", prev.CurrentState, next.CurrentState)
	}
	if prev.Owner == next.Owner || len(prev.Owner) == 0 {
		return nil
	}
	switch {
	case next.CurrentState == Trading:
		return nil
	case next.CurrentState == Redeemed && prev.CurrentState != Redeemed && next.Owner == next.Issuer:
		return nil
	}
	return errors.Wrapf(ErrUnexpectedOwnerChange, "from [%s] to [%s] in state [%s]", prev.Owner, next.Owner, next.CurrentState)
}
