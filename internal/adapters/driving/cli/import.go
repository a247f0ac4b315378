package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

var (
	importURL     string
	importExample string
	importAdd     bool
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a session file, URL, or bundled example",
	Long: `Import a session into the workspace.

The source is a local .mrsim/.json file, a URL (--url), or a bundled
example (--example). By default the imported session replaces the
current one; --add appends its spin systems instead and keeps the
current methods.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importURL, "url", "", "import from a URL")
	importCmd.Flags().StringVar(&importExample, "example", "", "import a bundled example by label")
	importCmd.Flags().BoolVar(&importAdd, "add", false, "append spin systems instead of replacing the session")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	ev, err := importEvent(args)
	if err != nil {
		return err
	}

	outcome, err := sessionService.Dispatch(cmd.Context(), ev)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if outcome.Failed() {
		return errors.New(outcome.Message)
	}

	printSample(cmd, sessionService.Views())
	return nil
}

// importEvent picks the event kind from the flag/argument combination.
// Exactly one source must be given.
func importEvent(args []string) (domain.Event, error) {
	sources := 0
	if len(args) == 1 {
		sources++
	}
	if importURL != "" {
		sources++
	}
	if importExample != "" {
		sources++
	}
	if sources != 1 {
		return nil, errors.New("specify exactly one of: a file argument, --url, or --example")
	}

	switch {
	case importURL != "":
		if importAdd {
			return nil, errors.New("--add only applies to file imports")
		}
		return domain.ImportURL{URL: importURL}, nil
	case importExample != "":
		if importAdd {
			return nil, errors.New("--add only applies to file imports")
		}
		return domain.ImportExample{Label: importExample}, nil
	default:
		contents, err := uploadPayload(args[0])
		if err != nil {
			return nil, err
		}
		if importAdd {
			return domain.ImportAddSystems{Contents: contents}, nil
		}
		return domain.ImportFile{Contents: contents}, nil
	}
}

// importFromPath loads a session file into the session service,
// replacing the current document.
func importFromPath(cmd *cobra.Command, path string) error {
	contents, err := uploadPayload(path)
	if err != nil {
		return err
	}
	outcome, err := sessionService.Dispatch(cmd.Context(), domain.ImportFile{Contents: contents})
	if err != nil {
		return err
	}
	if outcome.Failed() {
		return errors.New(outcome.Message)
	}
	return nil
}

// uploadPayload reads a file and wraps it in the upload form the import
// path expects: a content-type prefix, a comma, then base64 data.
func uploadPayload(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(data), nil
}
