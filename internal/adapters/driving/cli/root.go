// Package cli provides the command-line interface for spindraft.
// It implements a driving adapter following hexagonal architecture
// principles: commands translate arguments and flags into calls on the
// driving ports and format the results for the terminal.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "spindraft",
	Short: "Simulate and fit solid-state NMR spectra from the terminal",
	Long: `Spindraft manages NMR simulation sessions: spin systems, methods,
signal processors, and fit parameters.

Open a session file to inspect or edit it, import examples or remote
sessions, and launch the interactive TUI for full editing. The mcp
subcommand exposes the session to AI assistants over the Model Context
Protocol.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
