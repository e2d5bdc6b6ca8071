/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus_test

import (
	"testing"

	"github.com/dashpay/platform-drive/common/metrics"
	promprovider "github.com/dashpay/platform-drive/common/metrics/prometheus"
	. "github.com/onsi/gomega"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounter(t *testing.T) {
	gt := NewGomegaWithT(t)
	registry := prom.NewRegistry()
	p := &promprovider.Provider{Registerer: registry}

	c := p.NewCounter(metrics.CounterOpts{
		Namespace:  "drive",
		Subsystem:  "validation",
		Name:       "transitions",
		Help:       "transitions validated",
		LabelNames: []string{"type", "result"},
	})
	c.With("type", "documentsBatch", "result", "valid").Add(2)
	c.With("type", "documentsBatch", "result", "invalid").Add(1)

	count, err := testutil.GatherAndCount(registry, "drive_validation_transitions")
	gt.Expect(err).NotTo(HaveOccurred())
	gt.Expect(count).To(Equal(2))

	families, err := registry.Gather()
	gt.Expect(err).NotTo(HaveOccurred())
	gt.Expect(families).To(HaveLen(1))
	gt.Expect(families[0].GetName()).To(Equal("drive_validation_transitions"))
}

func TestGaugeAndHistogram(t *testing.T) {
	gt := NewGomegaWithT(t)
	registry := prom.NewRegistry()
	p := &promprovider.Provider{Registerer: registry}

	g := p.NewGauge(metrics.GaugeOpts{Namespace: "drive", Name: "queue_depth", Help: "depth", LabelNames: []string{"stage"}})
	g.With("stage", "state").Set(4)
	g.With("stage", "state").Add(1)

	h := p.NewHistogram(metrics.HistogramOpts{Namespace: "drive", Name: "duration", Help: "duration", Buckets: []float64{0.1, 1}})
	h.Observe(0.05)
	h.With().Observe(0.5)

	count, err := testutil.GatherAndCount(registry, "drive_queue_depth", "drive_duration")
	gt.Expect(err).NotTo(HaveOccurred())
	gt.Expect(count).To(Equal(2))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	gt := NewGomegaWithT(t)
	p := &promprovider.Provider{Registerer: prom.NewRegistry()}
	opts := metrics.CounterOpts{Name: "dup", Help: "dup"}
	p.NewCounter(opts)
	gt.Expect(func() { p.NewCounter(opts) }).To(Panic())
}
