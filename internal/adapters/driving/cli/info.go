package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Show a session overview",
	Long: `Show the sample header, spin systems, and methods of a session.

With a file argument the session is loaded first; without one the
current in-memory session is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if len(args) == 1 {
		if err := importFromPath(cmd, args[0]); err != nil {
			return err
		}
	}

	if sessionService.Document() == nil {
		return domain.ErrNoDocument
	}

	views := sessionService.Views()
	if infoJSON {
		return outputInfoJSON(cmd, views)
	}
	printSample(cmd, views)
	printSystems(cmd, views)
	printMethods(cmd, views)
	return nil
}

type infoOutput struct {
	Sample  domain.SampleInfo  `json:"sample"`
	Systems []domain.SystemRow `json:"spin_systems"`
	Methods []domain.MethodRow `json:"methods"`
}

func outputInfoJSON(cmd *cobra.Command, views domain.DerivedViews) error {
	out := infoOutput{
		Sample:  views.Sample.Value(),
		Systems: views.Systems.Value(),
		Methods: views.Methods.Value(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal overview: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printSample(cmd *cobra.Command, views domain.DerivedViews) {
	sample := views.Sample.Value()
	cmd.Printf("%s\n", sample.Name)
	if sample.Description != "" {
		cmd.Printf("  %s\n", sample.Description)
	}
	cmd.Printf("  %d spin system(s), %d method(s)\n", sample.SystemCount, sample.MethodCount)
}

func printSystems(cmd *cobra.Command, views domain.DerivedViews) {
	rows := views.Systems.Value()
	if len(rows) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Spin systems:")
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("System %d", r.Index)
		}
		cmd.Printf("  [%d] %s  %s  %d site(s)  %.3f%%\n",
			r.Index, name, r.Isotopes, r.SiteCount, r.Abundance)
	}
}

func printMethods(cmd *cobra.Command, views domain.DerivedViews) {
	rows := views.Methods.Value()
	if len(rows) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Methods:")
	for _, r := range rows {
		cmd.Printf("  [%d] %s  %s  %.1f T  %.1f kHz\n",
			r.Index, r.Name, r.Channels, r.FluxDensity, r.RotorFrequency)
	}
}
