/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"io"

	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger/fabric-lib-go/common/metrics"
	"github.com/hyperledger/fabric-lib-go/common/metrics/disabled"
	fprom "github.com/hyperledger/fabric-lib-go/common/metrics/prometheus"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	Prometheus = "prometheus"
	Disabled   = "disabled"
)

type (
	CounterOpts   = metrics.CounterOpts
	Counter       = metrics.Counter
	GaugeOpts     = metrics.GaugeOpts
	Gauge         = metrics.Gauge
	HistogramOpts = metrics.HistogramOpts
	Histogram     = metrics.Histogram
	Provider      = metrics.Provider
)

var logger = logging.MustGetLogger("papernet.metrics")

// NewProvider returns the metrics provider with the passed name
func NewProvider(name string) (Provider, error) {
	switch name {
	case Prometheus:
		return &provider{Provider: &fprom.Provider{}}, nil
	case Disabled, "":
		return &disabled.Provider{}, nil
	default:
		return nil, errors.Errorf("unknown metrics provider [%s]", name)
	}
}

// provider tolerates the registration of the same metric twice, which happens when
// more than one component is built in the same process. The second registration
// gets a metric that discards its observations.
type provider struct {
	Provider
}

func (p *provider) NewCounter(o CounterOpts) (c Counter) {
	defer func() {
		if recoverFromDuplicate(o.Namespace, o.Name, recover()) {
			c = (&disabled.Provider{}).NewCounter(o)
		}
	}()
	return p.Provider.NewCounter(o)
}

func (p *provider) NewGauge(o GaugeOpts) (g Gauge) {
	defer func() {
		if recoverFromDuplicate(o.Namespace, o.Name, recover()) {
			g = (&disabled.Provider{}).NewGauge(o)
		}
	}()
	return p.Provider.NewGauge(o)
}

func (p *provider) NewHistogram(o HistogramOpts) (h Histogram) {
	defer func() {
		if recoverFromDuplicate(o.Namespace, o.Name, recover()) {
			h = (&disabled.Provider{}).NewHistogram(o)
		}
	}()
	return p.Provider.NewHistogram(o)
}

func recoverFromDuplicate(namespace, name string, recovered any) bool {
	if recovered == nil {
		return false
	}
	if err, ok := recovered.(error); ok && errors.As(err, &prometheus.AlreadyRegisteredError{}) {
		logger.Warnf("metric [%s_%s] already registered: %s", namespace, name, err)
		return true
	}
	panic(recovered)
}

// Dump writes every metric registered with the prometheus provider in the text exposition format
func Dump(w io.Writer) error {
	return DumpFrom(w, prometheus.DefaultGatherer)
}

func DumpFrom(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "failed gathering metrics")
	}
	for _, f := range families {
		if _, err := expfmt.MetricFamilyToText(w, f); err != nil {
			return errors.Wrapf(err, "failed writing metric family [%s]", f.GetName())
		}
	}
	return nil
}
