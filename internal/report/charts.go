package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteCharts renders a standalone HTML page with a conflict-distribution
// pie and a cause-category bar chart, as a visual companion to the
// markdown report.
func (g *Generator) WriteCharts(path string) error {
	intentOnly := g.stats.IntentConflicts - g.stats.BothConflicts
	urgencyOnly := g.stats.UrgencyConflicts - g.stats.BothConflicts

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Conflict Distribution",
			Subtitle: fmt.Sprintf("run %s", g.runID),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("tickets", []opts.PieData{
		{Name: "No conflict", Value: g.stats.NoConflicts},
		{Name: "Intent only", Value: intentOnly},
		{Name: "Urgency only", Value: urgencyOnly},
		{Name: "Both dimensions", Value: g.stats.BothConflicts},
	})

	categories, counts := g.CauseBreakdown()
	barData := make([]opts.BarData, len(categories))
	for i, c := range categories {
		barData[i] = opts.BarData{Value: counts[c]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Disagreement Causes"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(categories).AddSeries("conflicts", barData)

	page := components.NewPage()
	page.AddCharts(pie, bar)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating charts file: %w", err)
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("rendering charts: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing charts file: %w", err)
	}
	return nil
}
