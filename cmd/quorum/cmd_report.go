package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/annolab/quorum/internal/dataset"
	"github.com/annolab/quorum/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a markdown report from analysis results",
		Long: `Read analysis records produced by 'quorum analyze' and render a markdown
report with conflict statistics, cause breakdown, examples, and
recommendations. Optionally also render an HTML chart page.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			chartsPath, _ := cmd.Flags().GetString("charts")
			maxExamples, _ := cmd.Flags().GetInt("max-examples")
			jsonOut, _ := cmd.Flags().GetBool("json")

			records, err := dataset.LoadRecords(input)
			if err != nil {
				return err
			}

			gen := report.NewGenerator(records, report.StatsFromRecords(records))
			if err := gen.WriteMarkdown(output, maxExamples); err != nil {
				return err
			}
			if chartsPath != "" {
				if err := gen.WriteCharts(chartsPath); err != nil {
					return err
				}
			}

			if jsonOut {
				out := map[string]string{"run_id": gen.RunID(), "report": output}
				if chartsPath != "" {
					out["charts"] = chartsPath
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (run %s)\n", output, gen.RunID())
			if chartsPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Charts written to %s\n", chartsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Analysis results JSONL file (required)")
	cmd.Flags().StringP("output", "o", "", "Markdown report file (required)")
	cmd.Flags().String("charts", "", "Also render an HTML chart page to this path")
	cmd.Flags().Int("max-examples", 5, "Maximum example tickets per report section")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
