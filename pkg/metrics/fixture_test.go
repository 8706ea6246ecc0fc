package metrics

import "go.opencensus.io/stats/view"

// exampleMetrics aggregates the shared metric sets the way an
// instrumented package would
type exampleMetrics struct {
	Usage     *UsageMetrics
	Tool      *InvocationMetrics
	Workspace *WorkspaceMetrics
}

func newExampleMetrics(location string) *exampleMetrics {
	return &exampleMetrics{
		Usage:     NewUsageMetrics(location),
		Tool:      NewInvocationMetrics(location),
		Workspace: NewWorkspaceMetrics(location),
	}
}

func (e *exampleMetrics) DefaultViews() []*view.View {
	views := e.Usage.DefaultViews()
	views = append(views, e.Tool.DefaultViews()...)
	views = append(views, e.Workspace.DefaultViews()...)
	return views
}
