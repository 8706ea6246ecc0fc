package cmd

import (
	"sync"
	"time"

	"go.opencensus.io/stats/view"

	"github.com/stevedipaola/f-kamu-cli/pkg/metrics"
	"github.com/stevedipaola/f-kamu-cli/pkg/metrics/exporters/influxdb"
)

type metricsFlags struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"` // pointer because we want to distinguish unset from false
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	m       *M
}

func (m metricsFlags) IsEnabled() bool {
	return m.Enabled != nil && *m.Enabled
}

// M describes metrics for the cmd package
type M struct {
	// Usage reports about CLI command usage
	Usage *metrics.UsageMetrics
}

func newM(location string) *M {
	return &M{
		Usage: metrics.NewUsageMetrics(location),
	}
}

// DefaultViews lists the collected views for this package
func (m *M) DefaultViews() []*view.View {
	return m.Usage.DefaultViews()
}

var onceCliMetrics sync.Once

// initMetrics wires the metrics exporter and registers the CLI metric set.
// It does nothing unless metrics collection was enabled.
func initMetrics() {
	flags := &bootstrapFlags.root.metrics
	if !flags.IsEnabled() {
		return
	}
	onceCliMetrics.Do(func() {
		if flags.URL != "" {
			store, err := influxdb.NewStore(
				influxdb.WithURL(flags.URL),
				influxdb.WithDatabase("kamu-bootstrap"),
				influxdb.WithNameAsTag("metrics"),
			)
			if err != nil {
				wrapFatalln("invalid metrics collector URL", err)
				return
			}
			metrics.Init(metrics.WithExporter(metrics.DefaultExporter(influxdb.WithStore(store))))
		}
		flags.m = metrics.EnsureMetrics("cli", newM("cli")).(*M)
	})
}

// cliUsage records a usage metric in the CLI context in a single go.
// This is intended to be used in some defer statement.
//
// Metrics are flushed as soon as the command is done.
func cliUsage(t0 time.Time, command string, err error) {
	if bootstrapFlags.root.metrics.IsEnabled() && bootstrapFlags.root.metrics.m != nil {
		bootstrapFlags.root.metrics.m.Usage.UsedAll(t0, command)(err)
		metrics.Flush()
	}
}
