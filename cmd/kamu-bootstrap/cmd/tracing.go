package cmd

import (
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
)

// initTracer creates a jaeger tracer configured from JAEGER_* environment
// variables. When the tracer cannot be built, tracing degrades to a noop
// tracer rather than failing the command. The returned closer flushes
// buffered spans and may be nil.
func initTracer(logger *zap.Logger) (opentracing.Tracer, io.Closer) {
	cfg, err := jaegercfg.FromEnv()
	if err == nil {
		if cfg.ServiceName == "" {
			cfg.ServiceName = "kamu-bootstrap"
		}
		tracer, closer, terr := cfg.NewTracer(
			jaegercfg.Logger(jaegerLoggerAdapter{logger: logger}),
		)
		if terr == nil {
			return tracer, closer
		}
		err = terr
	}
	logger.Info("failed to initialize tracing, falling back to noop tracer", zap.Error(err))
	return &opentracing.NoopTracer{}, nil
}

type jaegerLoggerAdapter struct {
	logger *zap.Logger
}

func (l jaegerLoggerAdapter) Error(msg string) {
	l.logger.Error(msg)
}

func (l jaegerLoggerAdapter) Infof(msg string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(msg, args...))
}
