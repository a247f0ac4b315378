package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored sessions",
	Long:  `List, save, and delete sessions in the local session store.`,
	RunE:  runSessionsList,
}

var sessionsSaveCmd = &cobra.Command{
	Use:   "save [file] [name]",
	Short: "Store a session file under a name",
	Args:  cobra.ExactArgs(2),
	RunE:  runSessionsSave,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsSaveCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	summaries, err := sessionService.Sessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No stored sessions.")
		return nil
	}

	for _, s := range summaries {
		cmd.Printf("  %s  %-24s %d system(s), %d method(s)\n",
			s.ID, s.Name, s.SystemCount, s.MethodCount)
	}
	return nil
}

func runSessionsSave(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := importFromPath(cmd, args[0]); err != nil {
		return err
	}

	id, err := sessionService.SaveAs(cmd.Context(), args[1])
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	cmd.Printf("Saved %q as %s\n", args[1], id)
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	if err := sessionStore.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
