// =============================================================================
// Sheet Cleaner - Version Command
// =============================================================================
//
// This file defines the 'version' command. Besides the release it prints
// what this build can read, so a support request shows at a glance which
// file types and CSV encodings the installed binary accepts.
//
// COMMAND USAGE:
//   sheet-cleaner version
//
// Version and BuildDate are stamped by the release build:
//   -ldflags "-X '<module>/cmd.Version=...' -X '<module>/cmd.BuildDate=...'"
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ginjaninja78/sheet-cleaner/internal/config"
	"github.com/ginjaninja78/sheet-cleaner/pkg/utils"
	"github.com/spf13/cobra"
)

// Version is the release of this build.
var Version = "1.0.0"

// BuildDate is when this build was made.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the release and the formats this build reads",
	Long: `Show the release, build details, and the input file types and CSV
encodings this build accepts. No configuration is loaded.`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// writeVersion prints one "label: value" line per build fact.
func writeVersion(w io.Writer) {
	facts := [][2]string{
		{"Version", Version},
		{"Built", BuildDate},
		{"Revision", vcsRevision()},
		{"Runtime", runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH},
		{"Inputs", strings.Join(utils.SupportedExtensions, ", ")},
		{"Encodings", strings.Join(config.SupportedEncodings, ", ")},
	}

	fmt.Fprintln(w, "Sheet Cleaner")
	for _, f := range facts {
		fmt.Fprintf(w, "  %-10s %s\n", f[0]+":", f[1])
	}
}

// vcsRevision reads the commit the binary was built from, if recorded.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return "unknown"
}
