package cmd

import (
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// viper quirk: field names must match the serialized names for Unmarshal to fill them
	Binary    string       `json:"binary,omitempty" yaml:"binary,omitempty"`       // Name or path of the kamu executable
	Workspace string       `json:"workspace,omitempty" yaml:"workspace,omitempty"` // Workspace metadata directory
	Plan      string       `json:"plan,omitempty" yaml:"plan,omitempty"`           // Path to a yaml bootstrap plan
	Metrics   metricsFlags `json:"metrics,omitempty" yaml:"metrics,omitempty"`     // Telemetry settings
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// setBootstrapParams merges config file settings into flags. Flags set on
// the command line win.
func (c *CLIConfig) setBootstrapParams(flags *flagsT) {
	if flags.tool.Binary == "" {
		flags.tool.Binary = c.Binary
	}
	if flags.workspace.Path == "" {
		flags.workspace.Path = c.Workspace
	}
	if flags.plan.File == "" {
		flags.plan.File = c.Plan
	}
	if flags.root.metrics.URL == "" {
		flags.root.metrics.URL = c.Metrics.URL
	}
	// the flag helper presets Enabled, so only an untouched flag yields to config
	if c.Metrics.Enabled != nil && !rootCmd.PersistentFlags().Changed("metrics") {
		flags.root.metrics.Enabled = c.Metrics.Enabled
	}
}
