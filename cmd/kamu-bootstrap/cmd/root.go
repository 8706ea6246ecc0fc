package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/spf13/viper"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// A bare invocation runs the full bootstrap sequence, like `up`.
var rootCmd = &cobra.Command{
	Use:   "kamu-bootstrap",
	Short: "Provision a demo kamu workspace",
	Long: `kamu-bootstrap provisions a local kamu workspace for demos.

It wipes the previous workspace metadata directory, initializes a fresh one,
pulls remote datasets, registers local dataset manifests and runs the staged
pulls that seed the demo. All dataset work is delegated to the kamu CLI: this
tool only sequences invocations, strictly in order, and stops at the first
failure.

Invoked without a subcommand, it runs the full bootstrap sequence.
`,
	Run: func(cmd *cobra.Command, args []string) {
		runBootstrap()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initMetrics()
		if bootstrapFlags.root.cpuProf {
			f, err := os.Create("cpu.prof")
			if err != nil {
				log.Fatal(err)
			}
			_ = pprof.StartCPUProfile(f)
		}
	},
	// upstream api note:  *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if bootstrapFlags.root.cpuProf {
			pprof.StopCPUProfile()
		}
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevel(rootCmd)
	addCPUProfFlag(rootCmd)
	addTraceFlag(rootCmd)
	addMetricsFlag(rootCmd)
	addMetricsURLFlag(rootCmd)
	addBinaryFlag(rootCmd)
	addWorkspaceFlag(rootCmd)
	addPlanFileFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if os.Getenv("KAMU_BOOTSTRAP_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("KAMU_BOOTSTRAP_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.kamu-bootstrap")
		viper.AddConfigPath("/etc/kamu-bootstrap")
		viper.SetConfigName("kamu-bootstrap")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setBootstrapParams(&bootstrapFlags)
}
