package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stevedipaola/f-kamu-cli/pkg/bootstrap"
	"github.com/stevedipaola/f-kamu-cli/pkg/kamu"
)

// upCmd runs the full bootstrap sequence.
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run the full bootstrap sequence",
	Long: `Run the full bootstrap sequence against the kamu CLI.

The sequence destroys the workspace metadata directory, then recreates it
from scratch: init, pull the remote datasets, add the local dataset
manifests, run the staged pulls (advancing watermarks to the current
instant) and finish by pulling everything.

Steps run strictly in order and the first failure stops the run: the exit
status is the failing tool invocation's exit status.

This is also what a bare invocation of kamu-bootstrap runs.
`,
	Example: `% kamu-bootstrap up
% kamu-bootstrap up --workspace /tmp/demo/.kamu --loglevel debug`,
	Run: func(cmd *cobra.Command, args []string) {
		runBootstrap()
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
}

func runBootstrap() {
	var err error
	defer func(t0 time.Time) {
		cliUsage(t0, "up", err)
	}(time.Now())

	optionInputs := newCliOptionInputs(config, &bootstrapFlags)
	builder, closer, err := optionInputs.seedBuilder()
	if err != nil {
		wrapFatalln("configure bootstrap", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = builder.Up(ctx, bootstrap.WithObserver(printProgress))
	if err != nil {
		wrapFatalWithCodef(kamu.ExitCode(err), "%v", err)
		return
	}
}

// printProgress renders one line per completed step.
func printProgress(p bootstrap.Progress) {
	mark := color.GreenString("ok")
	if p.Err != nil {
		mark = color.RedString("failed")
	}
	infoLogger.Printf("[%d/%d] %s %s (%s)",
		p.Index+1, p.Total, p.Step, mark, p.Elapsed.Round(time.Millisecond))
}
