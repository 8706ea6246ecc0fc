package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// Populated at build time via -ldflags.
var (
	Version   string
	BuildDate string
	GitCommit string
	GitState  string
)

// VersionInfo describes the build of this binary.
type VersionInfo struct {
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	BuildDate string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`
	GitCommit string `json:"gitCommit,omitempty" yaml:"gitCommit,omitempty"`
	GitState  string `json:"gitState,omitempty" yaml:"gitState,omitempty"`
}

// NewVersionInfo reports the build information stamped on this binary,
// defaulting to a dev build when none was stamped.
func NewVersionInfo() VersionInfo {
	ver := VersionInfo{
		Version:   "dev",
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GitState:  "",
	}
	if Version != "" {
		ver.Version = Version
		ver.GitState = "clean"
	}
	if GitState != "" {
		ver.GitState = GitState
	}
	return ver
}

func (v VersionInfo) String() string {
	var b strings.Builder
	b.WriteString("Version: " + v.Version + "\n")
	b.WriteString("Build date: " + v.BuildDate + "\n")
	b.WriteString("Commit: " + v.GitCommit + "\n")
	b.WriteString("Working tree: " + v.GitState + "\n")
	return b.String()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints the version of kamu-bootstrap",
	Long: `Prints the version of kamu-bootstrap. It includes the following components:
	* Semver (output of git describe --tags)
	* Build Date (date at which the binary was built)
	* Git Commit (the git commit hash this binary was built from)
	* Git State (when dirty there were uncommitted changes during the build)
`,
	Run: func(cmd *cobra.Command, args []string) {
		logStdOut(NewVersionInfo().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
