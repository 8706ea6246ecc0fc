package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stevedipaola/f-kamu-cli/pkg/kamu"
	"github.com/stevedipaola/f-kamu-cli/pkg/logging"
	"github.com/stevedipaola/f-kamu-cli/pkg/model"
	"github.com/stevedipaola/f-kamu-cli/pkg/seed"
	"github.com/stevedipaola/f-kamu-cli/pkg/workspace"
)

type flagsT struct {
	tool struct {
		Binary string
	}
	workspace struct {
		Path string
	}
	plan struct {
		File string
	}
	root struct {
		logLevel string
		cpuProf  bool
		trace    bool
		metrics  metricsFlags
	}
	doc struct {
		docTarget string
	}
	format string
}

var bootstrapFlags = flagsT{}

func addBinaryFlag(cmd *cobra.Command) string {
	binary := "binary"
	cmd.PersistentFlags().StringVar(&bootstrapFlags.tool.Binary, binary, "",
		"Name or path of the kamu executable. Defaults to the kamu found on PATH")
	return binary
}

func addWorkspaceFlag(cmd *cobra.Command) string {
	ws := "workspace"
	cmd.PersistentFlags().StringVar(&bootstrapFlags.workspace.Path, ws, "",
		"Path of the workspace metadata directory to bootstrap. Overrides the plan (default \""+model.DefaultWorkspace+"\")")
	return ws
}

func addPlanFileFlag(cmd *cobra.Command) string {
	plan := "plan"
	cmd.PersistentFlags().StringVar(&bootstrapFlags.plan.File, plan, "",
		"Path to a yaml bootstrap plan. Defaults to the built-in demo plan")
	return plan
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&bootstrapFlags.root.logLevel, loglevel, "info",
		"The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

func addCPUProfFlag(cmd *cobra.Command) string {
	c := "cpuprof"
	cmd.Flags().BoolVar(&bootstrapFlags.root.cpuProf, c, false, "Toggle runtime profiling")
	return c
}

func addTraceFlag(cmd *cobra.Command) string {
	c := "trace"
	cmd.PersistentFlags().BoolVar(&bootstrapFlags.root.trace, c, false,
		"Toggle tracing of tool invocations, reported to the jaeger agent configured by JAEGER_* environment variables")
	return c
}

func addMetricsFlag(cmd *cobra.Command) string {
	c := "metrics"
	defaultMetrics := false
	bootstrapFlags.root.metrics.Enabled = &defaultMetrics
	cmd.PersistentFlags().BoolVar(bootstrapFlags.root.metrics.Enabled, c, defaultMetrics,
		`Toggle telemetry and metrics collection`)
	return c
}

func addMetricsURLFlag(cmd *cobra.Command) string {
	c := "metrics-url"
	cmd.PersistentFlags().StringVar(&bootstrapFlags.root.metrics.URL, c, "",
		`Fully qualified URL to an influxdb metrics collector, with optional user and password`)
	return c
}

func addTargetFlag(cmd *cobra.Command) string {
	c := "target-dir"
	cmd.Flags().StringVar(&bootstrapFlags.doc.docTarget, c, ".",
		"The target directory where to generate the markdown documentation")
	return c
}

/** combined config (file + env var) and parameters (pflags) */

type cliOptionInputs struct {
	config *CLIConfig
	params *flagsT

	onceLogger sync.Once
	logger     *zap.Logger
}

func newCliOptionInputs(config *CLIConfig, params *flagsT) *cliOptionInputs {
	return &cliOptionInputs{
		config: config,
		params: params,
	}
}

func (in *cliOptionInputs) getLogger() (*zap.Logger, error) {
	var err error
	in.onceLogger.Do(func() {
		in.logger, err = logging.GetLogger(in.params.root.logLevel, logging.Console())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set log level: %v", err)
	}
	return in.logger, nil
}

// loadPlan resolves the bootstrap plan: a plan file when one was given,
// the built-in demo plan otherwise.
func (in *cliOptionInputs) loadPlan() (model.Plan, error) {
	if in.params.plan.File == "" {
		return model.DefaultPlan(), nil
	}
	b, err := os.ReadFile(in.params.plan.File)
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to read plan %s: %w", in.params.plan.File, err)
	}
	plan, err := model.UnmarshalPlan(b)
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to parse plan %s: %w", in.params.plan.File, err)
	}
	return *plan, nil
}

/** combined config and parameters to internal objects */

// seedBuilder assembles the workspace handle, the tool wrapper and the
// sequence builder from config and flags. The returned closer flushes the
// tracer when tracing is on and may be nil.
func (in *cliOptionInputs) seedBuilder() (*seed.Builder, io.Closer, error) {
	logger, err := in.getLogger()
	if err != nil {
		return nil, nil, err
	}

	plan, err := in.loadPlan()
	if err != nil {
		return nil, nil, err
	}
	if in.params.workspace.Path != "" {
		plan.Workspace = in.params.workspace.Path
	}
	ws := workspace.New(plan.Workspace, workspace.Logger(logger))

	runner := toolRunner
	if runner == nil {
		runner = kamu.NewRunner()
	}
	var closer io.Closer
	if in.params.root.trace {
		var tr opentracing.Tracer
		tr, closer = initTracer(logger)
		runner = kamu.Instrument(tr, logger, runner)
	}

	cli := kamu.New(
		kamu.Binary(in.params.tool.Binary),
		kamu.WorkDir(ws.Dir()),
		kamu.WithRunner(runner),
		kamu.Logger(logger),
		kamu.WithMetrics(in.params.root.metrics.IsEnabled()),
	)
	builder := seed.NewBuilder(plan, ws, cli,
		seed.Logger(logger),
		seed.WithMetrics(in.params.root.metrics.IsEnabled()),
	)
	return builder, closer, nil
}
