/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package invoker

import (
	"time"

	"github.com/hyperledger-labs/fabric-papernet/papernet/services/metrics"
)

const (
	PathLabel      = "path"
	OperationLabel = "operation"
	SuccessLabel   = "success"
)

var (
	invocationsOpts = metrics.CounterOpts{
		Namespace:    "papernet",
		Name:         "invocations",
		Help:         "The number of ledger invocations",
		LabelNames:   []string{PathLabel, OperationLabel, SuccessLabel},
		StatsdFormat: "%{#fqname}.%{path}.%{operation}.%{success}",
	}
	durationOpts = metrics.HistogramOpts{
		Namespace:    "papernet",
		Name:         "invocation_duration",
		Help:         "Duration of ledger invocations in seconds",
		LabelNames:   []string{PathLabel, OperationLabel, SuccessLabel},
		StatsdFormat: "%{#fqname}.%{path}.%{operation}.%{success}",
		Buckets:      []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
)

var successValues = map[bool]string{
	true:  "true",
	false: "false",
}

type Metrics struct {
	Invocations metrics.Counter
	Duration    metrics.Histogram
}

func NewMetrics(p metrics.Provider) *Metrics {
	return &Metrics{
		Invocations: p.NewCounter(invocationsOpts),
		Duration:    p.NewHistogram(durationOpts),
	}
}

func (m *Metrics) Observe(path Path, operation string, duration time.Duration, success bool) {
	labels := []string{
		PathLabel, path.String(),
		OperationLabel, operation,
		SuccessLabel, successValues[success],
	}
	m.Invocations.With(labels...).Add(1)
	m.Duration.With(labels...).Observe(duration.Seconds())
}
