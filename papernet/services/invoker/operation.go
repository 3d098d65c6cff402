/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package invoker

import (
	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
)

// Path is the way a transaction reaches the ledger
type Path int

const (
	// SubmitPath endorses, orders and commits the transaction
	SubmitPath Path = iota + 1
	// EvaluatePath queries a single peer without touching the ledger
	EvaluatePath
)

func (p Path) String() string {
	switch p {
	case SubmitPath:
		return "submit"
	case EvaluatePath:
		return "evaluate"
	default:
		return "unknown"
	}
}

// Valid returns true for SubmitPath and EvaluatePath
func (p Path) Valid() bool {
	return p == SubmitPath || p == EvaluatePath
}

// Catalog binds every operation name to exactly one path
type Catalog map[string]Path

// DefaultCatalog returns the operations of the commercial paper and medical check contracts
func DefaultCatalog() Catalog {
	return Catalog{
		"create": SubmitPath,
		"update": SubmitPath,
		"issue":  SubmitPath,
		"buy":    SubmitPath,
		"redeem": SubmitPath,
		"query":  EvaluatePath,
	}
}

// Check returns nil if the named operation is bound to the passed path
func (c Catalog) Check(name string, path Path) error {
	if !path.Valid() {
		return driver.Errorf(driver.ErrWrongPath, "operation [%s] invoked on unknown path [%d]", name, path)
	}
	bound, ok := c[name]
	if !ok {
		return driver.Errorf(driver.ErrInvalidArgument, "unknown operation [%s]", name)
	}
	if bound != path {
		return driver.Errorf(driver.ErrWrongPath, "operation [%s] is bound to [%s], invoked as [%s]", name, bound, path)
	}
	return nil
}

// Operation is a typed ledger operation producing a result of type R
type Operation[R any] interface {
	// Name is the transaction name, unqualified
	Name() string
	// Args returns the ordered wire arguments
	Args() ([][]byte, error)
	// Decode turns the transaction result into R
	Decode(raw []byte) (R, error)
}

// SubmitOperation is an operation that can only be submitted
type SubmitOperation[R any] interface {
	Operation[R]
	submitPath()
}

// EvaluateOperation is an operation that can only be evaluated
type EvaluateOperation[R any] interface {
	Operation[R]
	evaluatePath()
}

// Submitting marks an operation as a SubmitOperation when embedded
type Submitting struct{}

func (Submitting) submitPath() {}

// Evaluating marks an operation as an EvaluateOperation when embedded
type Evaluating struct{}

func (Evaluating) evaluatePath() {}
