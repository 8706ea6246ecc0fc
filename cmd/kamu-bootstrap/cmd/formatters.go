package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// Formatter renders a command result to some output format.
type Formatter interface {
	Format(w io.Writer, data interface{}) error
}

// FormatterFunc is the function adapter for Formatter.
type FormatterFunc func(w io.Writer, data interface{}) error

// Format calls f.
func (f FormatterFunc) Format(w io.Writer, data interface{}) error {
	return f(w, data)
}

var formatters = make(map[*cobra.Command]map[string]Formatter)

// addFormatFlag registers the --format flag on a command, supporting the
// builtin json and yaml formatters plus any extra command-specific ones.
func addFormatFlag(cmd *cobra.Command, defaultFormat string, extra ...map[string]Formatter) string {
	c := "format"
	known := map[string]Formatter{
		"json": FormatterFunc(func(w io.Writer, data interface{}) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		}),
		"yaml": FormatterFunc(func(w io.Writer, data interface{}) error {
			b, err := yaml.Marshal(data)
			if err != nil {
				return err
			}
			_, err = w.Write(b)
			return err
		}),
	}
	for _, m := range extra {
		for name, f := range m {
			known[name] = f
		}
	}
	formatters[cmd] = known

	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	cmd.Flags().StringVar(&bootstrapFlags.format, c, defaultFormat,
		"Output format. One of: "+strings.Join(names, "|"))
	return c
}

// formatted renders data with the format selected on the command line.
func formatted(cmd *cobra.Command, w io.Writer, data interface{}) error {
	f, ok := formatters[cmd][bootstrapFlags.format]
	if !ok {
		return fmt.Errorf("unsupported format: %q", bootstrapFlags.format)
	}
	return f.Format(w, data)
}
