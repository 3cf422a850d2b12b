package idtoken

import (
	"errors"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signin-tools/go-idtoken/core"
)

var metricHelp = map[string]string{
	core.MetricKeySetFetches:       "Number of key set fetches from Google, by result.",
	core.MetricKeySetFetchDuration: "Duration of key set fetches in seconds.",
	core.MetricKeySetCacheHits:     "Number of key set reads served from the cache.",
	core.MetricKeySetKeys:          "Number of keys in the current key set.",
	core.MetricVerifications:       "Number of ID token verifications, by method and result.",
}

// PrometheusMetrics implements core.Metrics using Prometheus. Collectors are
// created and registered on first use; the label names of a metric are fixed
// by the tags of its first observation.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
}

// NewPrometheusMetrics returns a PrometheusMetrics registering with reg, or
// with prometheus.DefaultRegisterer if reg is nil.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

func (m *PrometheusMetrics) IncCounter(name string, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = register(m.registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: name, Help: help(name)}, keys(tags)))
		m.counters[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Inc()
}

func (m *PrometheusMetrics) ObserveHistogram(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.histograms[name]
	if !ok {
		vec = register(m.registerer, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: name, Help: help(name), Buckets: prometheus.DefBuckets}, keys(tags)))
		m.histograms[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Observe(value)
}

func (m *PrometheusMetrics) SetGauge(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	vec, ok := m.gauges[name]
	if !ok {
		vec = register(m.registerer, prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: name, Help: help(name)}, keys(tags)))
		m.gauges[name] = vec
	}
	m.mu.Unlock()

	vec.With(tags).Set(value)
}

// register registers c, reusing the collector already registered under the
// same descriptor so two PrometheusMetrics can share a registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func help(name string) string {
	if h, ok := metricHelp[name]; ok {
		return h
	}
	return name
}

func keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
