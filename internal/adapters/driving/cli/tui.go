package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for spindraft.

The TUI shows the session overview and provides editors for spin
systems, methods, signal processors, and fit parameters.

Controls:
  tab        - Next panel
  ↑/k, ↓/j   - Navigate
  Enter      - Select / Apply
  Esc        - Back / Cancel
  q          - Quit

With a file argument the session is loaded before the UI starts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Panic recovery keeps the stack trace readable after the alternate
	// screen is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the TUI requires an interactive terminal")
	}

	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if len(args) == 1 {
		if err := importFromPath(cmd, args[0]); err != nil {
			return err
		}
	}

	ports := &tui.Ports{
		Session:   sessionService,
		FieldSync: fieldSyncService,
		Fit:       fitService,
		Pipeline:  pipelineService,
		Examples:  exampleLibrary,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
