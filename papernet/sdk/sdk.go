/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sdk

import (
	"context"
	"errors"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/config"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/identity"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/invoker"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/metrics"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/network"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/network/fabric"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/network/profile"
	errors2 "github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/dig"
)

// SDK builds the gateway services out of a configuration
type SDK struct {
	C *dig.Container // Allow for overwriting dependencies
}

func New(cp config.Provider) (*SDK, error) {
	c := dig.New()

	err := errors.Join(
		c.Provide(func() config.Provider { return cp }),
		c.Provide(config.NewService),
		c.Provide(func() logging.Logger { return logging.MustGetLogger("papernet") }),
		c.Provide(func() trace.TracerProvider { return noop.NewTracerProvider() }),
		c.Provide(func(s *config.Service) (metrics.Provider, error) { return metrics.NewProvider(s.MetricsProvider()) }),
		c.Provide(func() driver.Driver { return fabric.NewDriver() }),
		c.Provide(newIdentityStore),
		c.Provide(network.NewConnector),
		c.Provide(invoker.DefaultCatalog),
		c.Provide(invoker.New),
		c.Provide(func(s *config.Service) (*profile.Profile, error) { return profile.Load(s.ProfilePath()) }),
		c.Provide(newOptions),
	)
	if err != nil {
		return nil, errors2.Wrap(err, "failed building the service graph")
	}
	return &SDK{C: c}, nil
}

// Install validates the configuration and initializes logging
func (s *SDK) Install() error {
	return s.C.Invoke(func(cs *config.Service) error {
		if err := cs.Validate(); err != nil {
			return err
		}
		logging.Init(logging.Config{Spec: cs.LoggingSpec(), Format: cs.LoggingFormat()})
		return nil
	})
}

// Execute opens a session as the configured identity, resolves the configured contract and
// passes it to f. The session is released before Execute returns.
func (s *SDK) Execute(ctx context.Context, f func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) error) error {
	return s.C.Invoke(func(cs *config.Service, connector *network.Connector, inv *invoker.Invoker, p *profile.Profile, opts network.Options) error {
		return connector.WithSession(ctx, cs.Identity(), p, opts, func(session *network.Session) error {
			h, err := session.Contract(cs.Channel(), cs.Chaincode(), cs.Contract())
			if err != nil {
				return err
			}
			return f(ctx, inv, h)
		})
	})
}

// Close releases the resources held by the services built so far, e.g. the identity cache
func (s *SDK) Close() error {
	return s.C.Invoke(func(store identity.Store) {
		if c, ok := store.(interface{ Close() }); ok {
			c.Close()
		}
	})
}

func newIdentityStore(cs *config.Service) (identity.Store, error) {
	if len(cs.WalletPath()) == 0 {
		return nil, driver.Errorf(driver.ErrConnection, "no wallet configured")
	}
	return identity.NewCachingStore(identity.NewWallet(cs.WalletPath()), int64(cs.IdentityCacheSize()))
}

func newOptions(cs *config.Service) (network.Options, error) {
	d, err := cs.Discovery()
	if err != nil {
		return network.Options{}, err
	}
	return network.Options{
		Discovery: *d,
		Timeouts:  cs.Timeouts(),
	}, nil
}
