/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package driver

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrConnection signals that a session could not be opened: malformed profile,
	// unresolvable identity or unreachable network
	ErrConnection = errors.New("connection error")
	// ErrNotFound signals that a channel or a contract is not part of the network topology
	ErrNotFound = errors.New("not found")
	// ErrEndorsement signals that the endorsing peers rejected a proposal
	ErrEndorsement = errors.New("endorsement error")
	// ErrOrdering signals that a transaction was not ordered or not committed
	ErrOrdering = errors.New("ordering error")
	// ErrEvaluation signals that the peer rejected a read-only query
	ErrEvaluation = errors.New("evaluation error")
	// ErrDecode signals that a transaction result is not a well-formed record
	ErrDecode = errors.New("decode error")
	// ErrWrongPath signals that an operation was invoked on a path it is not bound to
	ErrWrongPath = errors.New("wrong invocation path")
	// ErrSessionClosed signals the use of a session after its release
	ErrSessionClosed = errors.New("session closed")
	// ErrInvalidArgument signals that an operation cannot be built from its arguments
	ErrInvalidArgument = errors.New("invalid argument")
)

var kinds = []error{
	ErrConnection,
	ErrNotFound,
	ErrEndorsement,
	ErrOrdering,
	ErrEvaluation,
	ErrDecode,
	ErrWrongPath,
	ErrSessionClosed,
	ErrInvalidArgument,
}

// ErrorDetail is the failure reported by a single peer or orderer
type ErrorDetail struct {
	Address string
	MSPID   string
	Message string
}

// Error tags a failure with its kind and keeps the underlying cause reachable
// through errors.Is and errors.As.
type Error struct {
	Kind    error
	Cause   error
	Message string
	TxID    string
	Details []ErrorDetail
}

func (e *Error) Error() string {
	b := strings.Builder{}
	if len(e.Message) != 0 {
		b.WriteString(e.Message)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if len(e.TxID) != 0 {
		b.WriteString(fmt.Sprintf(" [txID %s]", e.TxID))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	for _, d := range e.Details {
		b.WriteString(fmt.Sprintf("\n  - %s (%s): %s", d.Address, d.MSPID, d.Message))
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// NewError returns an error of the passed kind wrapping cause, annotated with a stack trace.
func NewError(kind error, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&Error{
		Kind:    kind,
		Cause:   cause,
		Message: fmt.Sprintf(format, args...),
	})
}

// Errorf returns an error of the passed kind without an underlying cause.
func Errorf(kind error, format string, args ...interface{}) error {
	return NewError(kind, nil, format, args...)
}

// KindOf returns the kind of the passed error, nil if the error is not classified.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
