package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors enqueue themselves from each file's init and only hit the
// default registry when main calls MustRegister, so tests can import
// this package without polluting the global registry.
var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every enqueued collector. Subsequent calls are
// no-ops.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pending...)
		pending = nil
	})
}
