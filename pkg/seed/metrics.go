package seed

import (
	"sync"

	"go.opencensus.io/stats/view"

	"github.com/stevedipaola/f-kamu-cli/pkg/metrics"
)

// M describes metrics for the bootstrap builder
type M struct {
	// Usage reports about bootstrap runs
	Usage *metrics.UsageMetrics

	// Workspace reports about workspace resets
	Workspace *metrics.WorkspaceMetrics
}

func newM(location string) *M {
	return &M{
		Usage:     metrics.NewUsageMetrics(location),
		Workspace: metrics.NewWorkspaceMetrics(location),
	}
}

// DefaultViews lists the collected views for this package
func (m *M) DefaultViews() []*view.View {
	return append(m.Usage.DefaultViews(), m.Workspace.DefaultViews()...)
}

var (
	onceSeedMetrics sync.Once
	seedMetrics     *M
)

func ensureMetrics() *M {
	onceSeedMetrics.Do(func() {
		seedMetrics = metrics.EnsureMetrics("seed", newM("seed")).(*M)
	})
	return seedMetrics
}
