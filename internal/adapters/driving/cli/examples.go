package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List bundled example sessions",
	Long: `List the example sessions shipped with spindraft.

Load one with: spindraft import --example <label>`,
	RunE: runExamples,
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}

func runExamples(cmd *cobra.Command, _ []string) error {
	if exampleLibrary == nil {
		return errors.New("example library not configured")
	}

	for _, ex := range exampleLibrary.List() {
		cmd.Printf("  %-24s %s\n", ex.Label, ex.Description)
	}
	return nil
}
