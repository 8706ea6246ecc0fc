package metrics

import (
	"path"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
)

// UsageMetrics is a common set of metrics reporting about the usage of
// instrumented entry points
type UsageMetrics struct {
	Count    *stats.Int64Measure
	Failures *stats.Int64Measure
	Timing   *stats.Float64Measure
}

// NewUsageMetrics builds the usage metric set under some location in the
// metrics tree
func NewUsageMetrics(location string) *UsageMetrics {
	return &UsageMetrics{
		Count:    NewCounter(path.Join(location, "telemetry", "usageCount"), "number of calls"),
		Failures: NewCounter(path.Join(location, "telemetry", "usageFailures"), "number of failed calls"),
		Timing:   NewTiming(path.Join(location, "telemetry", "timing"), "duration of a call"),
	}
}

// DefaultViews lists the collected views on usage
func (u *UsageMetrics) DefaultViews() []*view.View {
	return []*view.View{
		CountView(u.Count, "kind", "method"),
		CountView(u.Failures, "kind", "method"),
		TimingView(u.Timing, "kind", "method"),
	}
}

func (u *UsageMetrics) tags(method string) map[string]string {
	return map[string]string{"kind": "usage", "method": method}
}

// Inc records the usage of some method, without timings or failure reporting
func (u *UsageMetrics) Inc(method string) {
	Inc(u.Count, u.tags(method))
}

// Used records usage of some instrumented entry point.
func (u *UsageMetrics) Used(start time.Time, method string) {
	Since(start, u.Timing, u.tags(method))
	Inc(u.Count, u.tags(method))
}

// UsedAll records usage of some instrumented entry point with failures, in
// one go.
//
// Example:
//
//	func (m *myType) MyInstrumentedFunc() (err error) {
//	  defer func(t0 time.Time) {
//	    myUsageMetrics.UsedAll(t0, "MyInstrumentedFunc")(err)
//	  }(time.Now())
//	  ...
func (u *UsageMetrics) UsedAll(start time.Time, method string) func(error) {
	return func(err error) {
		u.Used(start, method)
		if err != nil {
			u.Failed(method)
		}
	}
}

// Failed records a failure on some method
func (u *UsageMetrics) Failed(method string) {
	Inc(u.Failures, u.tags(method))
}

// InvocationMetrics is a common set of metrics reporting about invocations
// of an external tool
type InvocationMetrics struct {
	Count    *stats.Int64Measure
	Failures *stats.Int64Measure
	Timing   *stats.Float64Measure
}

// NewInvocationMetrics builds the invocation metric set under some location
// in the metrics tree
func NewInvocationMetrics(location string) *InvocationMetrics {
	return &InvocationMetrics{
		Count:    NewCounter(path.Join(location, "tool", "invocationCount"), "number of tool invocations"),
		Failures: NewCounter(path.Join(location, "tool", "invocationFailures"), "number of failed tool invocations"),
		Timing:   NewTiming(path.Join(location, "tool", "timing"), "duration of a tool invocation"),
	}
}

// DefaultViews lists the collected views on invocations
func (n *InvocationMetrics) DefaultViews() []*view.View {
	return []*view.View{
		CountView(n.Count, "kind", "subcommand"),
		CountView(n.Failures, "kind", "subcommand"),
		TimingView(n.Timing, "kind", "subcommand"),
	}
}

func (n *InvocationMetrics) tags(subcommand string) map[string]string {
	return map[string]string{"kind": "invocation", "subcommand": subcommand}
}

// Invoked records one tool invocation with its timing and outcome, in one
// go.
//
// Example:
//
//	func run(cmd Command) (err error) {
//	  defer func(t0 time.Time) {
//	    myInvocationMetrics.Invoked(t0, cmd.Args[0])(err)
//	  }(time.Now())
//	  ...
func (n *InvocationMetrics) Invoked(start time.Time, subcommand string) func(error) {
	return func(err error) {
		Since(start, n.Timing, n.tags(subcommand))
		Inc(n.Count, n.tags(subcommand))
		if err != nil {
			Inc(n.Failures, n.tags(subcommand))
		}
	}
}

// WorkspaceMetrics is a common set of metrics reporting about workspace
// lifecycle
type WorkspaceMetrics struct {
	Resets    *stats.Int64Measure
	Reclaimed *stats.Int64Measure
}

// NewWorkspaceMetrics builds the workspace metric set under some location
// in the metrics tree
func NewWorkspaceMetrics(location string) *WorkspaceMetrics {
	return &WorkspaceMetrics{
		Resets:    NewCounter(path.Join(location, "workspace", "resetCount"), "number of workspace resets"),
		Reclaimed: NewBytes(path.Join(location, "workspace", "reclaimedBytes"), "bytes reclaimed by workspace resets"),
	}
}

// DefaultViews lists the collected views on workspace lifecycle
func (w *WorkspaceMetrics) DefaultViews() []*view.View {
	return []*view.View{
		CountView(w.Resets, "kind"),
		BytesView(w.Reclaimed, "kind"),
		SumView(w.Reclaimed, "kind"),
	}
}

func (w *WorkspaceMetrics) tags() map[string]string {
	return map[string]string{"kind": "workspace"}
}

// Reset records one workspace reset reclaiming some bytes
func (w *WorkspaceMetrics) Reset(size int64) {
	Inc(w.Resets, w.tags())
	if size > 0 {
		Int64(w.Reclaimed, size, w.tags())
	}
}
