package core

// Metrics is a generic metrics interface.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
	SetGauge(name string, value float64, tags map[string]string)
}

// NopMetrics is a default metrics implementation that does nothing.
type NopMetrics struct{}

func (NopMetrics) IncCounter(string, map[string]string)                {}
func (NopMetrics) ObserveHistogram(string, float64, map[string]string) {}
func (NopMetrics) SetGauge(string, float64, map[string]string)         {}

// Metric names emitted by this module.
const (
	MetricKeySetFetches       = "idtoken_keyset_fetches_total"
	MetricKeySetFetchDuration = "idtoken_keyset_fetch_duration_seconds"
	MetricKeySetCacheHits     = "idtoken_keyset_cache_hits_total"
	MetricKeySetKeys          = "idtoken_keyset_keys"
	MetricVerifications       = "idtoken_verifications_total"
)
