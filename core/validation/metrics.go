/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package validation

import "github.com/dashpay/platform-drive/common/metrics"

var (
	transitionsValidatedCounterOpts = metrics.CounterOpts{
		Namespace:    "drive",
		Subsystem:    "validation",
		Name:         "transitions_validated",
		Help:         "The number of state transitions validated, by type and outcome.",
		LabelNames:   []string{"type", "result"},
		StatsdFormat: "%{#fqname}.%{type}.%{result}",
	}

	blockValidationDurationHistogramOpts = metrics.HistogramOpts{
		Namespace: "drive",
		Subsystem: "validation",
		Name:      "block_duration",
		Help:      "The time to validate and apply the state transitions of a block, in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}

	blockTransitionsGaugeOpts = metrics.GaugeOpts{
		Namespace:    "drive",
		Subsystem:    "validation",
		Name:         "block_transitions",
		Help:         "The number of state transitions of the last validated block, by outcome.",
		LabelNames:   []string{"result"},
		StatsdFormat: "%{#fqname}.%{result}",
	}
)

// Metrics are the validation meters.
type Metrics struct {
	TransitionsValidated    metrics.Counter
	BlockValidationDuration metrics.Histogram
	BlockTransitions        metrics.Gauge
}

func NewMetrics(p metrics.Provider) *Metrics {
	return &Metrics{
		TransitionsValidated:    p.NewCounter(transitionsValidatedCounterOpts),
		BlockValidationDuration: p.NewHistogram(blockValidationDurationHistogramOpts),
		BlockTransitions:        p.NewGauge(blockTransitionsGaugeOpts),
	}
}

// Outcome labels of TransitionsValidated.
const (
	resultValid            = "valid"
	resultInvalidStructure = "invalid_structure"
	resultInvalidSignature = "invalid_signature"
	resultInvalidState     = "invalid_state"
)

func (m *Metrics) transitionValidated(transitionType, result string) {
	if m == nil {
		return
	}
	m.TransitionsValidated.With("type", transitionType, "result", result).Add(1)
}
