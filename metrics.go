//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Trinity Search. All rights reserved.
//
//  CONTACT: hello@trinitysearch.dev
//

package mergecore

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the prometheus collectors the coordinator updates while
// merging. A nil *Metrics is valid everywhere it's used -- every method
// guards against it, the way usecases/monitoring.PrometheusMetrics does for
// shard-lifecycle counters, so callers that don't care about observability
// can pass nil.
type Metrics struct {
	FastPathTerms   prometheus.Counter
	SlowPathTerms   prometheus.Counter
	ZeroDocTerms    prometheus.Counter
	MergedDocuments prometheus.Counter
	MaskedDocuments prometheus.Counter
	MergeDuration   prometheus.Histogram
}

// NewMetrics builds and registers a Metrics against reg. Pass a
// prometheus.Registerer such as prometheus.NewRegistry(), or
// prometheus.DefaultRegisterer for process-global metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FastPathTerms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mergecore_fast_path_terms_total",
			Help: "Terms emitted via a same-codec fast path (byte-level chunk copy or codec-native bulk merge).",
		}),
		SlowPathTerms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mergecore_slow_path_terms_total",
			Help: "Terms emitted via the decode/re-encode path.",
		}),
		ZeroDocTerms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mergecore_zero_document_terms_total",
			Help: "Single-candidate terms skipped because their input postings reported zero documents.",
		}),
		MergedDocuments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mergecore_merged_documents_total",
			Help: "Documents written into the output segment by the decode/re-encode path.",
		}),
		MaskedDocuments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mergecore_masked_documents_total",
			Help: "Documents suppressed by a newer generation's mask on the decode/re-encode path.",
		}),
		MergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mergecore_merge_duration_seconds",
			Help:    "Wall-clock duration of a single Merge invocation.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.FastPathTerms, m.SlowPathTerms, m.ZeroDocTerms,
		m.MergedDocuments, m.MaskedDocuments, m.MergeDuration)

	return m
}

func (m *Metrics) observeFastPathTerm() {
	if m == nil {
		return
	}
	m.FastPathTerms.Inc()
}

func (m *Metrics) observeSlowPathTerm() {
	if m == nil {
		return
	}
	m.SlowPathTerms.Inc()
}

func (m *Metrics) observeZeroDocTerm() {
	if m == nil {
		return
	}
	m.ZeroDocTerms.Inc()
}

func (m *Metrics) observeMergedDocument() {
	if m == nil {
		return
	}
	m.MergedDocuments.Inc()
}

func (m *Metrics) observeMaskedDocument() {
	if m == nil {
		return
	}
	m.MaskedDocuments.Inc()
}
