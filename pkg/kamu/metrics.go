package kamu

import (
	"sync"

	"go.opencensus.io/stats/view"

	"github.com/stevedipaola/f-kamu-cli/pkg/metrics"
)

// M describes metrics for the dataset tool wrapper
type M struct {
	// Usage reports about calls to the wrapper entry points
	Usage *metrics.UsageMetrics

	// Tool reports about the underlying tool invocations
	Tool *metrics.InvocationMetrics
}

func newM(location string) *M {
	return &M{
		Usage: metrics.NewUsageMetrics(location),
		Tool:  metrics.NewInvocationMetrics(location),
	}
}

// DefaultViews lists the collected views for this package
func (m *M) DefaultViews() []*view.View {
	return append(m.Usage.DefaultViews(), m.Tool.DefaultViews()...)
}

var (
	onceKamuMetrics sync.Once
	kamuMetrics     *M
)

func ensureMetrics() *M {
	onceKamuMetrics.Do(func() {
		kamuMetrics = metrics.EnsureMetrics("kamu", newM("kamu")).(*M)
	})
	return kamuMetrics
}
