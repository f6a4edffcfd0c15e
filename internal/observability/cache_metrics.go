package observability

// CacheMetrics satisfies the cache package's Metrics interface without
// the cache package needing to know about prometheus.
type CacheMetrics struct {
	p *Prom
}

func (p *Prom) Cache() CacheMetrics {
	return CacheMetrics{p: p}
}

func (m CacheMetrics) Hit(key string) {
	m.p.CacheHits.WithLabelValues(key).Inc()
}

func (m CacheMetrics) Miss(key string) {
	m.p.CacheMisses.WithLabelValues(key).Inc()
}
