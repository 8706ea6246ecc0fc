package metrics

import (
	"go.opencensus.io/stats/view"
)

// Option defines some options to the metrics initialization
type Option func(*settings)

// WithBasePath defines the root for the registered metrics tree
func WithBasePath(location string) Option {
	return func(m *settings) {
		m.basePath = location
	}
}

// WithExporter configures the exporter to convey metrics to some backend
// collector. Exporters that cannot flush are wrapped so that Flush may
// run concurrently with the opencensus background worker.
func WithExporter(exporter view.Exporter) Option {
	return func(m *settings) {
		if exporter == nil {
			return
		}
		if f, ok := exporter.(FlushExporter); ok {
			m.exporter = f
			return
		}
		m.exporter = flusher(exporter)
	}
}
