// Package report renders dataset-level analysis results as a markdown
// report, with an optional HTML chart page.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/annolab/quorum/internal/models"
	"github.com/annolab/quorum/internal/pipeline"
)

// Cause categories used to bucket conflict reasons for reporting. The
// bucket is derived from the leading diagnostic clause.
const (
	CategoryAmbiguousText      = "Ambiguous Text"
	CategoryMixedAspects       = "Mixed Aspects"
	CategoryUrgencyVariance    = "Urgency Assessment Variance"
	CategoryIntentDisagreement = "Intent Classification Ambiguity"
	CategoryLimitedContext     = "Limited Context"
	CategorySubjective         = "Subjective Interpretation"
)

// CauseCategory buckets a conflict reason by its leading clause. An empty
// reason means the ticket had no conflict.
func CauseCategory(reason string) string {
	first := reason
	if i := strings.Index(reason, " | "); i >= 0 {
		first = reason[:i]
	}
	switch {
	case strings.HasPrefix(first, "Ambiguous text"):
		return CategoryAmbiguousText
	case strings.HasPrefix(first, "Mixed aspects"):
		return CategoryMixedAspects
	case strings.HasPrefix(first, "Urgency assessment"):
		return CategoryUrgencyVariance
	case strings.HasPrefix(first, "Intent"):
		return CategoryIntentDisagreement
	case strings.HasPrefix(first, "Brief text"):
		return CategoryLimitedContext
	default:
		return CategorySubjective
	}
}

// Generator renders reports over a finished analysis run.
type Generator struct {
	records []models.OutputRecord
	stats   pipeline.Stats

	runID       string
	generatedAt time.Time
}

// NewGenerator creates a report generator. Each generator gets a fresh run
// identifier so reports from separate runs are distinguishable.
func NewGenerator(records []models.OutputRecord, stats pipeline.Stats) *Generator {
	return &Generator{
		records:     records,
		stats:       stats,
		runID:       uuid.NewString(),
		generatedAt: time.Now(),
	}
}

// RunID returns the identifier stamped into the report header.
func (g *Generator) RunID() string { return g.runID }

// WriteMarkdown renders the markdown report to a file.
func (g *Generator) WriteMarkdown(path string, maxExamples int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := g.Markdown(f, maxExamples); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report: %w", err)
	}
	return nil
}

// Markdown renders the full report. maxExamples caps each example section.
func (g *Generator) Markdown(w io.Writer, maxExamples int) error {
	sections := []string{
		g.header(),
		g.summary(),
		g.statistics(),
		g.causeAnalysis(),
		g.examples(maxExamples),
		g.recommendations(),
		g.footer(),
	}
	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func (g *Generator) conflicts() []models.OutputRecord {
	var out []models.OutputRecord
	for _, r := range g.records {
		if r.IsConflict {
			out = append(out, r)
		}
	}
	return out
}

func (g *Generator) agreements() []models.OutputRecord {
	var out []models.OutputRecord
	for _, r := range g.records {
		if !r.IsConflict {
			out = append(out, r)
		}
	}
	return out
}

func (g *Generator) header() string {
	return fmt.Sprintf(`# Multi-Annotator Conflict Report

**Run:** %s
**Generated:** %s

---`, g.runID, g.generatedAt.Format(time.RFC3339))
}

func (g *Generator) summary() string {
	primary := "Intent classification"
	if g.stats.UrgencyConflicts > g.stats.IntentConflicts {
		primary = "Urgency assessment"
	}
	return fmt.Sprintf(`## Summary

- **Total tickets:** %d
- **Conflict rate:** %.1f%% (%d tickets)
- **Agreement rate:** %.1f%% (%d tickets)
- **Primary conflict dimension:** %s`,
		g.stats.Total,
		percentage(g.stats.Conflicts, g.stats.Total), g.stats.Conflicts,
		percentage(g.stats.NoConflicts, g.stats.Total), g.stats.NoConflicts,
		primary)
}

func (g *Generator) statistics() string {
	intentOnly := g.stats.IntentConflicts - g.stats.BothConflicts
	urgencyOnly := g.stats.UrgencyConflicts - g.stats.BothConflicts

	return fmt.Sprintf(`## Conflict Distribution

| Conflict Type | Count | Share of Conflicts |
|---------------|-------|--------------------|
| Intent only | %d | %.1f%% |
| Urgency only | %d | %.1f%% |
| Both dimensions | %d | %.1f%% |
| **Total** | **%d** | **100%%** |`,
		intentOnly, percentage(intentOnly, g.stats.Conflicts),
		urgencyOnly, percentage(urgencyOnly, g.stats.Conflicts),
		g.stats.BothConflicts, percentage(g.stats.BothConflicts, g.stats.Conflicts),
		g.stats.Conflicts)
}

// CauseBreakdown tallies conflicting records by cause category, most
// frequent first.
func (g *Generator) CauseBreakdown() ([]string, map[string]int) {
	counts := make(map[string]int)
	for _, r := range g.conflicts() {
		reason := ""
		if r.ConflictReason != nil {
			reason = *r.ConflictReason
		}
		counts[CauseCategory(reason)]++
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	return categories, counts
}

func (g *Generator) causeAnalysis() string {
	categories, counts := g.CauseBreakdown()

	var rows []string
	for _, c := range categories {
		rows = append(rows, fmt.Sprintf("| %s | %d | %.1f%% |", c, counts[c], percentage(counts[c], g.stats.Conflicts)))
	}
	if len(rows) == 0 {
		rows = append(rows, "| — | 0 | 0% |")
	}

	return fmt.Sprintf(`## Root Causes of Disagreement

| Cause Category | Count | Share |
|----------------|-------|-------|
%s`, strings.Join(rows, "\n"))
}

func (g *Generator) examples(maxExamples int) string {
	var b strings.Builder
	b.WriteString("## Example Cases\n\n### Conflicts\n")

	for i, r := range g.conflicts() {
		if i >= maxExamples {
			break
		}
		reason := "—"
		if r.ConflictReason != nil {
			reason = *r.ConflictReason
		}
		fmt.Fprintf(&b, `
#### %s

**Text:** %s

**Annotator labels:**
%s

**Conflict reason:** %s

**Suggested resolution:** `+"`%s`"+`
`, r.ID, r.Text, formatLabels(r.Labels), reason, r.SuggestedLabel)
	}

	agreements := g.agreements()
	if len(agreements) > 0 {
		b.WriteString("\n### Agreements\n")
		limit := maxExamples
		if limit > 3 {
			limit = 3
		}
		for i, r := range agreements {
			if i >= limit {
				break
			}
			fmt.Fprintf(&b, "\n#### %s\n\n**Text:** %s\n\n**Unanimous label:** `%s`\n", r.ID, r.Text, r.SuggestedLabel)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (g *Generator) recommendations() string {
	var recs []string

	if percentage(g.stats.Conflicts, g.stats.Total) > 30 {
		recs = append(recs, "- **Conflict rate exceeds 30%.** Review the annotation guidelines, in particular the intent category definitions and urgency criteria.")
	}
	if g.stats.IntentConflicts >= g.stats.UrgencyConflicts {
		recs = append(recs, "- **Intent classification is the primary source of disagreement.** Provide category definitions with worked examples, especially for tickets describing multiple issues at once.")
	} else {
		recs = append(recs, "- **Urgency assessment shows significant variance.** Establish objective severity criteria (impact scope, time sensitivity) to reduce subjective calls.")
	}

	_, counts := g.CauseBreakdown()
	if ambiguous := counts[CategoryAmbiguousText]; g.stats.Conflicts > 0 && ambiguous*10 > g.stats.Conflicts*3 {
		recs = append(recs, fmt.Sprintf("- **%d conflicts involve ambiguous phrasing.** Add decision rules for texts whose wording maps to several categories.", ambiguous))
	}

	recs = append(recs,
		"- **Run calibration sessions** where annotators discuss disagreement cases until their readings converge.",
		"- **Adjudicate high-conflict tickets** through expert review to establish ground truth.")

	return "## Recommendations\n\n" + strings.Join(recs, "\n")
}

func (g *Generator) footer() string {
	return fmt.Sprintf(`---

## Methodology

1. **Detection** — flag tickets whose annotators assigned differing intent or urgency values.
2. **Cause analysis** — diagnose disagreement from keyword lexicons, vote distributions, and text statistics.
3. **Resolution** — majority vote per dimension with keyword tie-break, fixed priority ordering, and severity escalation.

Run %s, generated %s.`, g.runID, g.generatedAt.Format(time.RFC3339))
}

func formatLabels(labels []models.LabelEntry) string {
	lines := make([]string, len(labels))
	for i, l := range labels {
		lines[i] = fmt.Sprintf("- %s: `%s`", l.Annotator, l.Label)
	}
	return strings.Join(lines, "\n")
}

func percentage(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
