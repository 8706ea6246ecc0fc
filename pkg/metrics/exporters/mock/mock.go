// Package mocks provides an opencensus exporter for tests: it logs view
// data and records it for later inspection.
package mocks

import (
	"sync"

	"go.opencensus.io/stats/view"
	"go.uber.org/zap"
)

var _ view.Exporter = &Exporter{}

// NewExporter builds a new mock opencensus exporter
func NewExporter() *Exporter {
	l, _ := zap.NewDevelopment()
	return &Exporter{
		l: l,
	}
}

// Exporter is a mocked up opencensus exporter retaining exported views
type Exporter struct {
	l        *zap.Logger
	mx       sync.Mutex
	exported []*view.Data
}

// ExportView logs and records the view data
func (e *Exporter) ExportView(viewData *view.Data) {
	e.l.Debug("MockExporter", zap.Any("data", viewData))
	e.mx.Lock()
	e.exported = append(e.exported, viewData)
	e.mx.Unlock()
}

// Exported returns a snapshot of the views received so far
func (e *Exporter) Exported() []*view.Data {
	e.mx.Lock()
	defer e.mx.Unlock()
	out := make([]*view.Data, len(e.exported))
	copy(out, e.exported)
	return out
}
