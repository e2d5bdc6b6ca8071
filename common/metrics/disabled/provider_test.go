/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package disabled_test

import (
	"github.com/dashpay/platform-drive/common/metrics"
	"github.com/dashpay/platform-drive/common/metrics/disabled"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Provider", func() {
	var p metrics.Provider

	BeforeEach(func() {
		p = &disabled.Provider{}
	})

	It("hands out counters that ignore their labels", func() {
		c := p.NewCounter(metrics.CounterOpts{
			Namespace:  "drive",
			Subsystem:  "validation",
			Name:       "transitions_validated",
			LabelNames: []string{"type", "result"},
		})
		Expect(c).NotTo(BeNil())
		Expect(c.With("type", "documentsBatch", "result", "valid")).To(BeIdenticalTo(c))
		c.With("type", "identityCreate").Add(1)
	})

	It("hands out gauges that ignore their labels", func() {
		g := p.NewGauge(metrics.GaugeOpts{Name: "block_transitions", LabelNames: []string{"result"}})
		Expect(g).NotTo(BeNil())
		Expect(g.With("result", "invalid")).To(BeIdenticalTo(g))
		g.Set(3)
		g.Add(-1)
	})

	It("hands out histograms", func() {
		h := p.NewHistogram(metrics.HistogramOpts{Name: "block_duration", Buckets: []float64{0.1, 1}})
		Expect(h).NotTo(BeNil())
		h.Observe(0.5)
		h.With().Observe(2)
	})
})
