package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/annolab/quorum/internal/config"
	"github.com/annolab/quorum/internal/dataset"
	"github.com/annolab/quorum/internal/pipeline"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a ticket dataset for annotator conflicts",
		Long: `Read tickets from a JSONL file, run conflict detection, cause analysis,
and resolution on each, and write the analysis records as JSONL.

Dataset counters always reflect the full input, even with --conflicts-only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			conflictsOnly, _ := cmd.Flags().GetBool("conflicts-only")
			details, _ := cmd.Flags().GetBool("details")
			rulesPath, _ := cmd.Flags().GetString("rules")
			jsonOut, _ := cmd.Flags().GetBool("json")

			rules := config.Default()
			if rulesPath != "" {
				var err error
				if rules, err = config.Load(rulesPath); err != nil {
					return err
				}
			}

			tickets, err := dataset.LoadTickets(input)
			if err != nil {
				return err
			}

			p := pipeline.New(rules, pipeline.Options{
				ConflictsOnly:     conflictsOnly,
				IncludeResolution: details,
			})
			records, stats := p.Run(tickets)

			if err := dataset.SaveRecords(output, records); err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
			}
			writeStatsSummary(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Input tickets JSONL file (required)")
	cmd.Flags().StringP("output", "o", "", "Output analysis JSONL file (required)")
	cmd.Flags().Bool("conflicts-only", false, "Only emit tickets with conflicts")
	cmd.Flags().Bool("details", false, "Attach the resolution detail object to each record")
	cmd.Flags().String("rules", "", "Rulebook yaml overlaying the built-in lexicons and thresholds")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

// writeStatsSummary prints the dataset counters in the human-readable form.
func writeStatsSummary(w io.Writer, stats pipeline.Stats) {
	sep := strings.Repeat("=", 60)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "CONFLICT DETECTION STATISTICS")
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "Total tickets:        %d\n", stats.Total)
	fmt.Fprintf(w, "With conflicts:       %d (%.1f%%)\n", stats.Conflicts, percent(stats.Conflicts, stats.Total))
	fmt.Fprintf(w, "Without conflicts:    %d (%.1f%%)\n", stats.NoConflicts, percent(stats.NoConflicts, stats.Total))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conflict breakdown:")
	fmt.Fprintf(w, "  Intent only:        %d\n", stats.IntentConflicts-stats.BothConflicts)
	fmt.Fprintf(w, "  Urgency only:       %d\n", stats.UrgencyConflicts-stats.BothConflicts)
	fmt.Fprintf(w, "  Both dimensions:    %d\n", stats.BothConflicts)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records written:      %d\n", stats.Output)
	fmt.Fprintln(w, sep)
}

func percent(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
