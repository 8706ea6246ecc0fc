package metrics

import (
	"path"
	"reflect"
	"sync"
	"time"

	"github.com/docker/go-units"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/stevedipaola/f-kamu-cli/pkg/metrics/exporters/influxdb"
)

const (
	// KB stands for kilo bytes (1024 bytes)
	KB = units.KiB

	// MB stands for mega bytes (1024 kilo bytes)
	MB = units.MiB

	// GB stands for giga bytes (1024 mega bytes)
	GB = units.GiB
)

// Descriptor is a set of measures with the views to collect them.
//
// Concrete metric sets build their measures explicitly (see NewCounter and
// friends) and list their views in DefaultViews.
type Descriptor interface {
	DefaultViews() []*view.View
}

var (
	// global settings for metrics
	mp       *settings
	initOnce sync.Once
)

// active returns the global settings, building defaults when Init was
// never called.
func active() *settings {
	initOnce.Do(func() {
		mp = newSettings()
	})
	return mp
}

type settings struct {
	basePath string
	exporter view.Exporter

	allViews []*view.View

	// a map of all registered metric sets
	modules   map[string]Descriptor
	exclusive sync.Mutex
}

// defaultSettings define an exporter to a local influxdb backend store
func defaultSettings() *settings {
	return &settings{
		modules: make(map[string]Descriptor),
	}
}

func defaultStore() influxdb.Store {
	sink, _ := influxdb.NewStore(
		influxdb.WithDatabase("kamu-bootstrap"),
		influxdb.WithNameAsTag("metrics"), // use metric name as an influxdb tag, with unique time series "metrics"
	)
	return sink
}

// DefaultExporter returns a metrics exporter for an influxdb backend, with
// db "kamu-bootstrap" and time series "metrics"
func DefaultExporter(opts ...influxdb.Option) view.Exporter {
	return flusher(influxdb.NewExporter(
		append([]influxdb.Option{
			influxdb.WithStore(defaultStore()),
			influxdb.WithTags(map[string]string{"service": "kamu-bootstrap"}),
		}, opts...)...,
	))
}

func newSettings(opts ...Option) *settings {
	s := defaultSettings()
	for _, apply := range opts {
		apply(s)
	}

	if s.exporter == nil {
		s.exporter = DefaultExporter()
	}

	s.RegisterExporter()
	return s
}

func (s *settings) EnsureMetrics(location string, m Descriptor) Descriptor {
	s.exclusive.Lock()
	defer s.exclusive.Unlock()
	location = path.Join(s.basePath, location)

	if existing, ok := s.modules[location]; ok {
		if reflect.TypeOf(existing) != reflect.TypeOf(m) {
			panic("trying to re-register existing metric set with a different type")
		}
		return existing
	}
	for _, v := range m.DefaultViews() {
		s.allViews = append(s.allViews, v)
		_ = view.Register(v)
	}
	s.modules[location] = m
	return m
}

// Flush collects all remaining data for registered views and exports them
func (s *settings) Flush() {
	for _, v := range s.allViews {
		rows, err := view.RetrieveData(v.Name)
		if err != nil {
			continue // ignore errors when pushing metrics
		}
		data := &view.Data{
			View:  v,
			Start: time.Now(), // cannot figure out last snapshot time from the background worker
			End:   time.Now(),
			Rows:  rows,
		}
		s.exporter.ExportView(data)
	}
}

// RegisterExporter registers the current exporter to the opencensus library.
//
// The opencensus background worker keeps its default reporting period: runs
// are short-lived and Flush pushes whatever remains when a command is done.
func (s *settings) RegisterExporter() {
	if s.exporter != nil {
		view.RegisterExporter(s.exporter)
	}
}

// NewCounter builds a dimensionless int64 measure
func NewCounter(name, description string) *stats.Int64Measure {
	return stats.Int64(name, description, stats.UnitDimensionless)
}

// NewTiming builds a milliseconds float64 measure
func NewTiming(name, description string) *stats.Float64Measure {
	return stats.Float64(name, description, stats.UnitMilliseconds)
}

// NewBytes builds a bytes int64 measure
func NewBytes(name, description string) *stats.Int64Measure {
	return stats.Int64(name, description, stats.UnitBytes)
}

func keysOf(groupings []string) []tag.Key {
	keys := make([]tag.Key, 0, len(groupings))
	for _, g := range groupings {
		if g != "" {
			keys = append(keys, tag.MustNewKey(g))
		}
	}
	return keys
}

// CountView counts occurrences of a measure, grouped by some tags
func CountView(m stats.Measure, groupings ...string) *view.View {
	return &view.View{
		Name:        m.Name(),
		Description: m.Description() + " [count]",
		Measure:     m,
		Aggregation: view.Count(),
		TagKeys:     keysOf(groupings),
	}
}

// SumView cumulates values of a measure, grouped by some tags
func SumView(m stats.Measure, groupings ...string) *view.View {
	return &view.View{
		Name:        m.Name() + "/sum",
		Description: m.Description() + " [cumulated]",
		Measure:     m,
		Aggregation: view.Sum(),
		TagKeys:     keysOf(groupings),
	}
}

// LastValueView retains the last recorded value of a measure
func LastValueView(m stats.Measure, groupings ...string) *view.View {
	return &view.View{
		Name:        m.Name() + "/last",
		Description: m.Description() + " [last]",
		Measure:     m,
		Aggregation: view.LastValue(),
		TagKeys:     keysOf(groupings),
	}
}

// TimingView distributes a milliseconds measure over duration buckets
func TimingView(m stats.Measure, groupings ...string) *view.View {
	return &view.View{
		Name:        m.Name(),
		Description: m.Description() + " [distribution]",
		Measure:     m,
		Aggregation: durationDistribution(),
		TagKeys:     keysOf(groupings),
	}
}

// BytesView distributes a bytes measure over size buckets
func BytesView(m stats.Measure, groupings ...string) *view.View {
	return &view.View{
		Name:        m.Name(),
		Description: m.Description() + " [distribution]",
		Measure:     m,
		Aggregation: bytesDistribution(),
		TagKeys:     keysOf(groupings),
	}
}

func durationDistribution() *view.Aggregation {
	// buckets in milliseconds, with a coarse tail for long-running pulls
	return view.Distribution(
		10, 50,
		100, 300, 500, 700, 900,
		1000, 3000, 5000, 7000, 9000,
		10000, 30000, 50000, 70000, 90000,
		100000, 300000, 600000,
	)
}

func bytesDistribution() *view.Aggregation {
	// buckets in bytes
	return view.Distribution(
		500,
		1*KB, 5*KB, 10*KB, 50*KB,
		100*KB, 500*KB,
		1*MB, 10*MB, 100*MB, 500*MB,
		1*GB, 5*GB, 10*GB,
	)
}

// FlushExporter is a view exporter that knows how to flush metrics.
//
// This basically means that we may export views concurrently with the
// default background exporter.
type FlushExporter interface {
	view.Exporter
	Flush(*view.Data)
}

// flusher makes a FlushExporter of view.Exporter
func flusher(e view.Exporter) FlushExporter {
	return &simpleFlusher{
		e: e,
	}
}

type simpleFlusher struct {
	e view.Exporter
	m sync.RWMutex
}

func (f *simpleFlusher) ExportView(viewData *view.Data) {
	f.m.RLock() // we don't want to lock out the view background worker
	f.e.ExportView(viewData)
	f.m.RUnlock()
}

func (f *simpleFlusher) Flush(viewData *view.Data) {
	f.m.Lock()
	f.e.ExportView(viewData)
	f.m.Unlock()
}
