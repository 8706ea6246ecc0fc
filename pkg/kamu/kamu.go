// Package kamu drives the external kamu dataset tool through its command
// line. The wrapper knows how to initialize a workspace, register dataset
// manifests and pull datasets; everything behind those commands (ingestion,
// transforms, storage layout) belongs to the tool and stays opaque here.
package kamu

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stevedipaola/f-kamu-cli/pkg/kamu/status"
	"github.com/stevedipaola/f-kamu-cli/pkg/metrics"
)

// DefaultBinary is the executable name of the dataset tool, resolved
// through PATH.
const DefaultBinary = "kamu"

// CLI wraps invocations of the dataset tool.
type CLI struct {
	metrics.Enable

	binary string
	dir    string
	runner Runner
	l      *zap.Logger
	m      *M
}

// Option is a functor to build a CLI wrapper with some options
type Option func(*CLI)

// Binary overrides the tool executable name
func Binary(bin string) Option {
	return func(c *CLI) {
		if bin != "" {
			c.binary = bin
		}
	}
}

// WorkDir sets the directory tool invocations run in, so the tool resolves
// the workspace located there
func WorkDir(dir string) Option {
	return func(c *CLI) {
		c.dir = dir
	}
}

// WithRunner overrides how invocations are executed (used by tests)
func WithRunner(r Runner) Option {
	return func(c *CLI) {
		if r != nil {
			c.runner = r
		}
	}
}

// Logger overrides the zap logger used by the wrapper
func Logger(l *zap.Logger) Option {
	return func(c *CLI) {
		if l != nil {
			c.l = l
		}
	}
}

// WithMetrics toggles telemetry collection on tool invocations
func WithMetrics(enabled bool) Option {
	return func(c *CLI) {
		c.EnableMetrics(enabled)
	}
}

// New builds a wrapper around the dataset tool.
func New(opts ...Option) *CLI {
	c := &CLI{
		binary: DefaultBinary,
		runner: NewRunner(),
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	if c.MetricsEnabled() {
		c.m = ensureMetrics()
	}
	return c
}

func (c *CLI) run(ctx context.Context, args ...string) (err error) {
	defer func(t0 time.Time) {
		if c.MetricsEnabled() {
			c.m.Tool.Invoked(t0, args[0])(err)
		}
	}(time.Now())

	cmd := Command{Binary: c.binary, Args: args, Dir: c.dir}
	c.l.Debug("invoking dataset tool", zap.Stringer("cmd", cmd))
	err = c.runner.Run(ctx, cmd)
	return
}

// Init creates a fresh workspace in the working directory.
func (c *CLI) Init(ctx context.Context) (err error) {
	defer func(t0 time.Time) {
		if c.MetricsEnabled() {
			c.m.Usage.UsedAll(t0, "Init")(err)
		}
	}(time.Now())

	c.l.Info("initializing workspace", zap.String("dir", c.dir))
	err = c.run(ctx, "init")
	return
}

// Add registers dataset manifests with the workspace.
func (c *CLI) Add(ctx context.Context, manifests ...string) (err error) {
	defer func(t0 time.Time) {
		if c.MetricsEnabled() {
			c.m.Usage.UsedAll(t0, "Add")(err)
		}
	}(time.Now())

	if len(manifests) == 0 {
		err = status.ErrNoManifests
		return
	}
	c.l.Info("adding datasets", zap.Strings("manifests", manifests))
	err = c.run(ctx, append([]string{"add"}, manifests...)...)
	return
}

type pullParams struct {
	all       bool
	watermark *time.Time
}

// PullOption tunes a pull invocation
type PullOption func(*pullParams)

// All pulls every dataset known to the workspace instead of explicit
// references
func All() PullOption {
	return func(p *pullParams) {
		p.all = true
	}
}

// SetWatermark advances the dataset watermark to the given instant instead
// of ingesting new data. The instant is rendered in RFC 3339, normalized
// to UTC.
func SetWatermark(instant time.Time) PullOption {
	return func(p *pullParams) {
		p.watermark = &instant
	}
}

// Pull updates datasets: remote datasets are referenced by URL, local ones
// by name. A pull either names its targets or pulls everything with All.
func (c *CLI) Pull(ctx context.Context, refs []string, opts ...PullOption) (err error) {
	defer func(t0 time.Time) {
		if c.MetricsEnabled() {
			c.m.Usage.UsedAll(t0, "Pull")(err)
		}
	}(time.Now())

	var params pullParams
	for _, apply := range opts {
		apply(&params)
	}

	switch {
	case params.all && len(refs) > 0:
		err = status.ErrAmbiguousPull
		return
	case !params.all && len(refs) == 0:
		err = status.ErrNoRefs
		return
	case params.watermark != nil && (params.all || len(refs) != 1):
		err = status.ErrWatermarkTarget
		return
	}

	args := []string{"pull"}
	if params.all {
		args = append(args, "--all")
	} else {
		args = append(args, refs...)
	}
	if params.watermark != nil {
		args = append(args, "--set-watermark", params.watermark.UTC().Format(time.RFC3339))
	}

	c.l.Info("pulling datasets",
		zap.Strings("refs", refs),
		zap.Bool("all", params.all),
		zap.Bool("watermark", params.watermark != nil),
	)
	err = c.run(ctx, args...)
	return
}

// PullAll updates every dataset known to the workspace.
func (c *CLI) PullAll(ctx context.Context) error {
	return c.Pull(ctx, nil, All())
}
