package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/watch"
	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

var openWatch bool

var openCmd = &cobra.Command{
	Use:   "open [file]",
	Short: "Open a session file",
	Long: `Open a session file and show its overview.

With --watch the file is re-imported whenever it changes on disk, so an
external editor and spindraft can work on the same session. Press
Ctrl+C to stop watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVarP(&openWatch, "watch", "w", false, "reload the file when it changes")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	path := args[0]
	if err := importFromPath(cmd, path); err != nil {
		return err
	}
	printSample(cmd, sessionService.Views())

	if !openWatch {
		return nil
	}
	return watchAndReload(cmd, path)
}

// watchAndReload re-imports the file on every debounced change until the
// context is cancelled. A broken edit leaves the last good session in
// place and reports the parse error.
func watchAndReload(cmd *cobra.Command, path string) error {
	watcher, err := watch.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("watcher stopped: %v", err)
		}
	}()

	cmd.Printf("Watching %s for changes...\n", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-watcher.Changed():
			if err := importFromPath(cmd, changed); err != nil {
				cmd.Printf("Reload failed: %v\n", err)
				continue
			}
			cmd.Printf("Reloaded %s\n", changed)
			printSample(cmd, sessionService.Views())
		}
	}
}
