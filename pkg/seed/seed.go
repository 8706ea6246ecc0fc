// Package seed turns a bootstrap plan into the runnable step sequence that
// recreates a demo workspace from scratch: destroy the previous workspace,
// initialize a fresh one, pull remote datasets, register local dataset
// manifests, run the staged pulls and finish with a pull of everything.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stevedipaola/f-kamu-cli/pkg/bootstrap"
	"github.com/stevedipaola/f-kamu-cli/pkg/kamu"
	"github.com/stevedipaola/f-kamu-cli/pkg/metrics"
	"github.com/stevedipaola/f-kamu-cli/pkg/model"
	"github.com/stevedipaola/f-kamu-cli/pkg/workspace"
)

// Clock yields the current instant.
//
// Watermark stages read the clock once each, at execution time: two
// watermark stages observe two distinct readings, taken moments apart.
type Clock func() time.Time

// Builder assembles the bootstrap sequence for a plan.
type Builder struct {
	metrics.Enable

	plan  model.Plan
	ws    *workspace.Workspace
	cli   *kamu.CLI
	clock Clock
	l     *zap.Logger
	m     *M
}

// Option is a functional option for a builder
type Option func(*Builder)

// WithClock overrides the clock read by watermark stages (used by tests)
func WithClock(c Clock) Option {
	return func(b *Builder) {
		if c != nil {
			b.clock = c
		}
	}
}

// Logger overrides the zap logger used by the builder and its sequence
func Logger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.l = l
		}
	}
}

// WithMetrics toggles telemetry collection on bootstrap runs
func WithMetrics(enabled bool) Option {
	return func(b *Builder) {
		b.EnableMetrics(enabled)
	}
}

// NewBuilder creates a builder for the given plan, acting on a workspace
// through the dataset tool wrapper.
func NewBuilder(plan model.Plan, ws *workspace.Workspace, cli *kamu.CLI, opts ...Option) *Builder {
	b := &Builder{
		plan:  plan,
		ws:    ws,
		cli:   cli,
		clock: time.Now,
		l:     zap.NewNop(),
	}
	for _, apply := range opts {
		apply(b)
	}
	if b.MetricsEnabled() {
		b.m = ensureMetrics()
	}
	return b
}

// Plan returns the plan this builder was created for.
func (b *Builder) Plan() model.Plan {
	return b.plan
}

// Sequence builds the bootstrap sequence for the plan. The steps run
// strictly in order and stop at the first failure.
func (b *Builder) Sequence(opts ...bootstrap.Option) (*bootstrap.Sequence, error) {
	if err := model.ValidatePlan(b.plan); err != nil {
		return nil, err
	}

	seq := bootstrap.New("bootstrap",
		append([]bootstrap.Option{bootstrap.Logger(b.l)}, opts...)...,
	)

	seq.Append("reset",
		fmt.Sprintf("rm -rf %s", b.ws.Path()),
		b.resetStep(),
	)
	seq.Append("init", "kamu init", func(ctx context.Context) error {
		return b.cli.Init(ctx)
	})

	for i, remote := range b.plan.Remotes {
		remote := remote
		seq.Append(
			fmt.Sprintf("pull-remote-%d", i+1),
			"kamu pull "+remote.URL,
			func(ctx context.Context) error {
				return b.cli.Pull(ctx, []string{remote.URL})
			},
		)
	}

	if len(b.plan.Manifests) > 0 {
		manifests := b.plan.Manifests
		seq.Append("add",
			"kamu add "+strings.Join(manifests, " "),
			func(ctx context.Context) error {
				return b.cli.Add(ctx, manifests...)
			},
		)
	}

	for i, stage := range b.plan.Stages {
		stage := stage
		seq.Append(
			fmt.Sprintf("pull-stage-%d", i+1),
			stageSummary(stage),
			b.stageStep(stage),
		)
	}

	if b.plan.PullAll {
		seq.Append("pull-all", "kamu pull --all", func(ctx context.Context) error {
			return b.cli.PullAll(ctx)
		})
	}

	return seq, nil
}

// Up builds the sequence and runs it to completion.
func (b *Builder) Up(ctx context.Context, opts ...bootstrap.Option) (err error) {
	defer func(t0 time.Time) {
		if b.MetricsEnabled() {
			b.m.Usage.UsedAll(t0, "Up")(err)
		}
	}(time.Now())

	seq, err := b.Sequence(opts...)
	if err != nil {
		return err
	}
	b.l.Info("bootstrapping workspace",
		zap.String("workspace", b.ws.Path()),
		zap.Int("steps", seq.Len()),
	)
	err = seq.Run(ctx)
	return
}

// resetStep destroys the previous workspace. A missing workspace is fine,
// so a fresh environment bootstraps the same way as a stale one.
func (b *Builder) resetStep() bootstrap.Func {
	return func(_ context.Context) error {
		var size int64
		if b.MetricsEnabled() {
			size, _ = b.ws.Size()
		}
		if err := b.ws.Reset(); err != nil {
			return err
		}
		if b.MetricsEnabled() {
			b.m.Workspace.Reset(size)
		}
		return nil
	}
}

// stageStep pulls the datasets of one stage. A watermark stage reads the
// clock when it runs, not when the sequence is built.
func (b *Builder) stageStep(stage model.PullStage) bootstrap.Func {
	return func(ctx context.Context) error {
		if !stage.SetWatermark {
			return b.cli.Pull(ctx, stage.Datasets)
		}
		return b.cli.Pull(ctx, stage.Datasets, kamu.SetWatermark(b.clock()))
	}
}

func stageSummary(stage model.PullStage) string {
	summary := "kamu pull " + strings.Join(stage.Datasets, " ")
	if stage.SetWatermark {
		summary += " --set-watermark <now>"
	}
	return summary
}
