// Copyright 2024 The ddc Authors
// This file is part of the ddc library.
//
// The ddc library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ddc library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ddc library. If not, see <http://www.gnu.org/licenses/>.

// Package metrics exposes the process counters through a prometheus registry.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ddc"

// DefaultRegistry collects every meter registered with a nil registerer.
var DefaultRegistry = prometheus.NewRegistry()

// metricName turns a slash separated meter path such as "state/update/storage"
// into a prometheus metric name.
func metricName(name string) string {
	return strings.NewReplacer("/", "_", ".", "_", "-", "_").Replace(name)
}

// NewRegisteredMeter constructs and registers a monotonically increasing
// counter. A nil registerer means DefaultRegistry.
func NewRegisteredMeter(name string, r prometheus.Registerer) prometheus.Counter {
	if r == nil {
		r = DefaultRegistry
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      metricName(name) + "_total",
		Help:      "Number of " + strings.ReplaceAll(name, "/", " ") + " events.",
	})
	r.MustRegister(c)
	return c
}

// NewRegisteredMeterVec constructs and registers a counter partitioned by the
// given labels.
func NewRegisteredMeterVec(name string, labels []string, r prometheus.Registerer) *prometheus.CounterVec {
	if r == nil {
		r = DefaultRegistry
	}
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      metricName(name) + "_total",
		Help:      "Number of " + strings.ReplaceAll(name, "/", " ") + " events.",
	}, labels)
	r.MustRegister(c)
	return c
}

// NewRegisteredTimer constructs and registers a latency histogram in seconds.
func NewRegisteredTimer(name string, r prometheus.Registerer) prometheus.Histogram {
	if r == nil {
		r = DefaultRegistry
	}
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      metricName(name) + "_seconds",
		Help:      "Duration of " + strings.ReplaceAll(name, "/", " ") + ".",
		Buckets:   prometheus.DefBuckets,
	})
	r.MustRegister(h)
	return h
}
