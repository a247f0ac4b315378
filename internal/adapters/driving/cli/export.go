package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a session in canonical JSON form",
	Long: `Export the session as canonical JSON: normalised, with every
optional key filled in and every quantity in its tagged string form.

With a file argument the session is loaded first, so export doubles as
a normaliser for hand-written session files. Writes to stdout unless
--output is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if len(args) == 1 {
		if err := importFromPath(cmd, args[0]); err != nil {
			return err
		}
	}

	data, err := sessionService.Export()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutput == "" {
		cmd.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	cmd.Printf("Wrote %s\n", exportOutput)
	return nil
}
