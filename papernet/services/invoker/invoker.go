/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package invoker

import (
	"context"
	"time"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// Contract is a resolved contract, see network.ContractHandle
type Contract interface {
	Submit(ctx context.Context, name string, args ...[]byte) ([]byte, error)
	Evaluate(ctx context.Context, name string, args ...[]byte) ([]byte, error)
	TransactionName(name string) string
	String() string
}

// Invoker routes operations to the ledger along the path their name is bound to
type Invoker struct {
	catalog Catalog
	logger  logging.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

func New(catalog Catalog, logger logging.Logger, tracerProvider trace.TracerProvider, metricsProvider metrics.Provider) *Invoker {
	return &Invoker{
		catalog: catalog,
		logger:  logger,
		tracer:  tracerProvider.Tracer("invoker"),
		metrics: NewMetrics(metricsProvider),
	}
}

// Invoke runs the named operation on the passed contract. The catalog is checked before
// anything reaches the network. Submit blocks until the transaction is committed.
// No retries are attempted.
func (i *Invoker) Invoke(ctx context.Context, c Contract, path Path, name string, args [][]byte) ([]byte, error) {
	if err := i.catalog.Check(name, path); err != nil {
		return nil, err
	}
	txName := c.TransactionName(name)
	ctx, span := i.tracer.Start(ctx, path.String(), trace.WithAttributes(
		attribute.String("contract", c.String()),
		attribute.String("transaction", txName),
	))
	defer span.End()

	if i.logger.IsEnabledFor(zapcore.DebugLevel) {
		i.logger.Debugf("%s [%s] on [%s] with [%d] arguments", path, txName, c, len(args))
	}
	start := time.Now()
	var (
		res []byte
		err error
	)
	switch path {
	case SubmitPath:
		res, err = c.Submit(ctx, name, args...)
	case EvaluatePath:
		res, err = c.Evaluate(ctx, name, args...)
	default:
		err = driver.Errorf(driver.ErrWrongPath, "no route for path [%d]", path)
	}
	i.metrics.Observe(path, name, time.Since(start), err == nil)
	if err != nil {
		span.RecordError(err)
		i.logger.Debugf("%s [%s] failed: %s", path, txName, err)
		return nil, err
	}
	span.AddEvent("result", trace.WithAttributes(attribute.Int("size", len(res))))
	return res, nil
}

// Submit sends a write operation and decodes its result
func Submit[R any](ctx context.Context, i *Invoker, c Contract, op SubmitOperation[R]) (R, error) {
	return run[R](ctx, i, c, SubmitPath, op)
}

// Evaluate runs a read-only operation and decodes its result
func Evaluate[R any](ctx context.Context, i *Invoker, c Contract, op EvaluateOperation[R]) (R, error) {
	return run[R](ctx, i, c, EvaluatePath, op)
}

func run[R any](ctx context.Context, i *Invoker, c Contract, path Path, op Operation[R]) (R, error) {
	var zero R
	args, err := op.Args()
	if err != nil {
		if driver.KindOf(err) == nil {
			return zero, driver.NewError(driver.ErrInvalidArgument, err, "cannot build arguments of [%s]", op.Name())
		}
		return zero, err
	}
	raw, err := i.Invoke(ctx, c, path, op.Name(), args)
	if err != nil {
		return zero, err
	}
	res, err := op.Decode(raw)
	if err != nil {
		if driver.KindOf(err) == nil {
			return zero, driver.NewError(driver.ErrDecode, err, "cannot decode result of [%s]", op.Name())
		}
		return zero, err
	}
	return res, nil
}
