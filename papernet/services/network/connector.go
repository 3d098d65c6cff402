/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package network

import (
	"context"

	"github.com/hashicorp/go-uuid"
	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/identity"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/network/profile"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Connector opens sessions to the ledger network
type Connector struct {
	store  identity.Store
	driver driver.Driver
	logger logging.Logger
	tracer trace.Tracer
}

func NewConnector(store identity.Store, d driver.Driver, logger logging.Logger, tracerProvider trace.TracerProvider) *Connector {
	return &Connector{
		store:  store,
		driver: d,
		logger: logger,
		tracer: tracerProvider.Tracer("session_connector"),
	}
}

// Connect opens a session acting as the identity stored under the passed label.
// Gateway candidates are tried in order; if none can be reached the last failure is returned
// as a driver.ErrConnection.
func (c *Connector) Connect(ctx context.Context, label string, p *profile.Profile, opts Options) (*Session, error) {
	ctx, span := c.tracer.Start(ctx, "connect", trace.WithAttributes(attribute.String("identity", label)))
	defer span.End()

	s, err := c.connect(ctx, label, p, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("session", s.ID), attribute.String("endpoint", s.Endpoint.Address))
	return s, nil
}

func (c *Connector) connect(ctx context.Context, label string, p *profile.Profile, opts Options) (*Session, error) {
	if p == nil {
		return nil, driver.Errorf(driver.ErrConnection, "no network profile")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	entry, err := c.store.Get(label)
	if err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "identity [%s] not available", label)
	}
	credentials, err := entry.Credentials()
	if err != nil {
		return nil, err
	}
	if entry.MSPID != p.MSPID() {
		c.logger.Warnf("identity [%s] belongs to [%s] while the client organization is [%s]", label, entry.MSPID, p.MSPID())
	}

	if opts.Discovery.AsLocalhost {
		p = p.AsLocalhost()
	}
	endpoints, err := p.Endpoints(opts.Discovery.Enabled)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, endpoint := range endpoints {
		if ctx.Err() != nil {
			break
		}
		c.logger.Debugf("connecting [%s] to [%s] at [%s]", label, endpoint.Name, endpoint.Address)
		gw, err := c.driver.Connect(ctx, credentials, endpoint, opts.Timeouts)
		if err != nil {
			c.logger.Warnf("failed connecting to [%s]: %s", endpoint.Name, err)
			lastErr = err
			continue
		}
		id, err := uuid.GenerateUUID()
		if err != nil {
			if cerr := gw.Close(); cerr != nil {
				c.logger.Errorf("failed closing gateway [%s]: %s", endpoint.Name, cerr)
			}
			return nil, driver.NewError(driver.ErrConnection, err, "failed generating session id")
		}
		c.logger.Infof("session [%s] opened for [%s] at [%s]", id, label, endpoint.Address)
		return &Session{
			ID:       id,
			Identity: label,
			MSPID:    entry.MSPID,
			Profile:  p,
			Endpoint: endpoint,
			Options:  opts,
			logger:   c.logger,
			gateway:  gw,
		}, nil
	}
	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return nil, driver.NewError(driver.ErrConnection, lastErr, "no gateway peer reachable for [%s]", label)
}

// WithSession opens a session, runs f and releases the session on every exit path,
// including a panic in f, which is returned as an error.
// A release failure is logged and never replaces the error returned by f.
func (c *Connector) WithSession(ctx context.Context, label string, p *profile.Profile, opts Options, f func(*Session) error) (err error) {
	s, err := c.Connect(ctx, label, p, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			if err == nil {
				c.logger.Warnf("operation succeeded but session [%s] release failed: %s", s.ID, cerr)
				return
			}
			c.logger.Errorf("failed releasing session [%s]: %s", s.ID, cerr)
		}
	}()

	var pc panics.Catcher
	pc.Try(func() { err = f(s) })
	if r := pc.Recovered(); r != nil {
		return errors.Wrapf(r.AsError(), "operation on session [%s] panicked", s.ID)
	}
	return err
}
