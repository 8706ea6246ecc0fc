package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

type stepView struct {
	Step    string `json:"step" yaml:"step"`
	Command string `json:"command" yaml:"command"`
}

type planView struct {
	Workspace string     `json:"workspace" yaml:"workspace"`
	Steps     []stepView `json:"steps" yaml:"steps"`
}

// planCmd renders the bootstrap sequence without executing anything.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the bootstrap sequence without running it",
	Long: `Show the steps the bootstrap sequence would run, in execution order.

Nothing is executed and nothing is removed: the plan is assembled and
rendered, with the command each step issues. Watermark pulls display the
placeholder <now> where a fresh timestamp will be computed at run time.
`,
	Example: `% kamu-bootstrap plan
% kamu-bootstrap plan --format yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "plan", err)
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

		seq, err := builder.Sequence()
		if err != nil {
			wrapFatalln("assemble sequence", err)
			return
		}

		view := planView{Workspace: builder.Plan().Workspace}
		for _, step := range seq.Steps() {
			view.Steps = append(view.Steps, stepView{Step: step.Name, Command: step.Summary})
		}
		err = formatted(cmd, cmd.OutOrStdout(), view)
		if err != nil {
			wrapFatalln("render plan", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addFormatFlag(planCmd, "table", map[string]Formatter{
		"table": planTableFormatter(),
		"text":  planTextFormatter(),
	})
}

func planTableFormatter() FormatterFunc {
	return func(w io.Writer, data interface{}) error {
		v := data.(planView)
		table := uitable.New()
		table.MaxColWidth = 100
		table.Wrap = true
		table.AddRow("", "STEP", "COMMAND")
		for i, step := range v.Steps {
			table.AddRow(strconv.Itoa(i+1), step.Step, color.HiBlackString(step.Command))
		}
		_, err := fmt.Fprintln(w, table)
		return err
	}
}

func planTextFormatter() FormatterFunc {
	return func(w io.Writer, data interface{}) error {
		v := data.(planView)
		for _, step := range v.Steps {
			if _, err := fmt.Fprintf(w, "%-14s %s\n", step.Step, step.Command); err != nil {
				return err
			}
		}
		return nil
	}
}
