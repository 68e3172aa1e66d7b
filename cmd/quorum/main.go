// Command quorum reconciles disagreements among human annotators who each
// assigned an intent/urgency label pair to a ticket. It detects conflicts,
// explains why annotators likely disagreed, and suggests a resolved label
// with a confidence rating.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quorum",
		Short: "Multi-annotator conflict detection and resolution",
		Long: `quorum analyzes multi-annotator ticket datasets.

For each ticket it detects label disagreements, diagnoses the likely cause
from textual and statistical cues, and derives a single resolved label via
majority vote with keyword tie-breaks and severity escalation.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAnalyzeCmd(),
		newReportCmd(),
		newMCPServerCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "quorum version %s\n", version)
			}
		},
	}
}
