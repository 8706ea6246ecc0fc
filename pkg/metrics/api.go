// Package metrics collects usage telemetry with opencensus and ships it to
// an influxdb backend.
//
// Collection is opt-in: nothing is recorded until a caller enables it.
// Metric sets are plain structs of opencensus measures implementing
// Descriptor, registered once per location with EnsureMetrics.
package metrics

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
)

// Init global settings for metrics collection, such as global tags and
// exporter setup.
//
// Init is used by a top-level package (such as the CLI driver) to define
// global settings such as the exporter.
//
// Init may be called multiple times: only the first time matters.
//
// Metric sets may be registered at init time or later on.
func Init(opts ...Option) {
	initOnce.Do(func() {
		mp = newSettings(opts...)
	})
}

// Flush all collected metrics to the backend
func Flush() {
	active().Flush()
}

// EnsureMetrics allows for lazy registration of metric sets.
//
// It may safely be called several times, and only the first registration
// for a given unique location will be retained.
//
// When called again on the same location, it ensures that the same metrics
// type is specified, otherwise it panics.
func EnsureMetrics(location string, m Descriptor) Descriptor {
	return active().EnsureMetrics(location, m)
}

// Inc increments a counter-like metric
func Inc(counter *stats.Int64Measure, tags ...map[string]string) {
	record(mergeTags(tags), counter.M(1))
}

// Int64 sets a value to a measurement
func Int64(measure *stats.Int64Measure, value int64, tags ...map[string]string) {
	record(mergeTags(tags), measure.M(value))
}

// Float64 sets a value to a measurement
func Float64(measure *stats.Float64Measure, value float64, tags ...map[string]string) {
	record(mergeTags(tags), measure.M(value))
}

// Since feeds a millisecs timing measurement from some start time
func Since(start time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	record(mergeTags(tags), measure.M(ms))
}

// Duration feeds a millisecs timing measurement from some start to end timings
func Duration(start, end time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	ms := float64(end.Sub(start).Nanoseconds()) / 1e6
	record(mergeTags(tags), measure.M(ms))
}

func record(mutators []tag.Mutator, m stats.Measurement) {
	_ = stats.RecordWithTags(context.Background(), mutators, m)
}

// mergeTags adds some dynamically defined tags to a single measurement
func mergeTags(extras []map[string]string) []tag.Mutator {
	mutators := make([]tag.Mutator, 0, 10)
	for _, extra := range extras {
		for k, v := range extra {
			mutators = append(mutators, tag.Upsert(tag.MustNewKey(k), v))
		}
	}
	return mutators
}

// Enable equips any type with the capability to collect metrics.
//
// Sample usage:
//
//	type myType struct{
//	  metrics.Enable
//	  m *myMetrics // m points to the globally registered metric set
//	}
//
//	func NewMyType() *myType {
//	  t := &myType{}
//	  t.EnableMetrics(true)
//	  t.m = t.EnsureMetrics("myType", newMyMetrics("myType")).(*myMetrics)
//	  return t
//	}
type Enable struct {
	metricsEnabled bool
}

// MetricsEnabled tells whether metrics are enabled or not
func (e Enable) MetricsEnabled() bool {
	return e.metricsEnabled
}

// EnableMetrics toggles metrics collection
func (e *Enable) EnableMetrics(enabled bool) {
	e.metricsEnabled = enabled
}

// EnsureMetrics registers a metric set to the global metrics collection.
// The location argument constructs a new path in the metrics tree.
func (e *Enable) EnsureMetrics(location string, m Descriptor) Descriptor {
	return EnsureMetrics(location, m)
}
