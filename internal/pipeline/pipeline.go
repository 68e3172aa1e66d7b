// Package pipeline sequences detection, cause analysis, and resolution for
// each ticket and aggregates dataset-level statistics.
package pipeline

import (
	"github.com/annolab/quorum/internal/cause"
	"github.com/annolab/quorum/internal/conflict"
	"github.com/annolab/quorum/internal/config"
	"github.com/annolab/quorum/internal/models"
	"github.com/annolab/quorum/internal/resolve"
)

// Options controls the output shape. Neither option changes what is
// computed or counted, only which records and fields are emitted.
type Options struct {
	// ConflictsOnly drops non-conflicting records from the output.
	ConflictsOnly bool

	// IncludeResolution attaches the full resolution detail object to each
	// record; the composite suggested_label is always present regardless.
	IncludeResolution bool
}

// Stats are the dataset-level counters. They always reflect the full input
// set; the conflicts-only filter affects Output only.
type Stats struct {
	Total            int `json:"total_tickets"`
	Conflicts        int `json:"conflict_tickets"`
	NoConflicts      int `json:"no_conflict_tickets"`
	IntentConflicts  int `json:"intent_conflicts"`
	UrgencyConflicts int `json:"urgency_conflicts"`
	BothConflicts    int `json:"both_conflicts"`
	Output           int `json:"output_tickets"`
}

// Pipeline runs tickets through the conflict engine. Each ticket is a pure
// function of itself, so the pipeline holds no per-run state.
type Pipeline struct {
	analyzer *cause.Analyzer
	resolver *resolve.Resolver
	opts     Options
}

// New builds a pipeline over the given rulebook.
func New(rules config.Rules, opts Options) *Pipeline {
	return &Pipeline{
		analyzer: cause.NewAnalyzer(rules),
		resolver: resolve.NewResolver(rules),
		opts:     opts,
	}
}

// Run processes tickets sequentially and returns the emitted records plus
// the dataset counters.
func (p *Pipeline) Run(tickets []models.Ticket) ([]models.OutputRecord, Stats) {
	records := make([]models.OutputRecord, 0, len(tickets))
	var stats Stats

	for _, t := range tickets {
		record, report := p.Process(t)

		stats.Total++
		if report.HasConflict {
			stats.Conflicts++
			if report.IntentConflict {
				stats.IntentConflicts++
			}
			if report.UrgencyConflict {
				stats.UrgencyConflicts++
			}
			if report.IntentConflict && report.UrgencyConflict {
				stats.BothConflicts++
			}
		} else {
			stats.NoConflicts++
		}

		if p.opts.ConflictsOnly && !report.HasConflict {
			continue
		}
		records = append(records, record)
	}

	stats.Output = len(records)
	return records, stats
}

// Process analyzes a single ticket: detect, explain when conflicting,
// resolve, assemble the output record.
func (p *Pipeline) Process(t models.Ticket) (models.OutputRecord, models.ConflictReport) {
	report := conflict.Detect(t)

	var reason *string
	if report.HasConflict {
		explanation := p.analyzer.Explain(t, report)
		reason = &explanation
	}

	resolution := p.resolver.Resolve(t)

	labels := make([]models.LabelEntry, len(t.Annotations))
	for i, a := range t.Annotations {
		labels[i] = models.LabelEntry{Annotator: a.Annotator, Label: a.Label()}
	}

	record := models.OutputRecord{
		ID:             t.ID,
		Text:           t.Text,
		Labels:         labels,
		IsConflict:     report.HasConflict,
		ConflictReason: reason,
		SuggestedLabel: resolution.Label(),
	}
	if p.opts.IncludeResolution {
		record.Resolution = &resolution
	}
	return record, report
}
