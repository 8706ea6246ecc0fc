package kamu

import (
	"context"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// Instrument decorates a Runner with an opentracing span and a log entry
// per tool invocation.
func Instrument(tr opentracing.Tracer, l *zap.Logger, r Runner) Runner {
	return &instrumentedRunner{
		tr:     tr,
		l:      l,
		runner: r,
	}
}

type instrumentedRunner struct {
	runner Runner
	tr     opentracing.Tracer
	l      *zap.Logger
}

func (i *instrumentedRunner) opName(cmd Command) string {
	name := cmd.Binary
	if len(cmd.Args) > 0 {
		name = cmd.Args[0]
	}
	return strings.Join([]string{"tool", name}, ".")
}

func (i *instrumentedRunner) spanFromContext(ctx context.Context, name string) opentracing.Span {
	parent := opentracing.SpanFromContext(ctx)
	var span opentracing.Span
	if parent != nil {
		span = i.tr.StartSpan(name, opentracing.ChildOf(parent.Context()))
	} else {
		span = i.tr.StartSpan(name)
	}
	return span
}

func (i *instrumentedRunner) Run(ctx context.Context, cmd Command) error {
	span := i.spanFromContext(ctx, i.opName(cmd))
	defer span.Finish()
	i.l.Info("tool invocation", zap.Stringer("cmd", cmd))

	err := i.runner.Run(opentracing.ContextWithSpan(ctx, span), cmd)
	if err != nil {
		span.SetTag("error", true)
	}
	return err
}
