package report

import (
	"strings"

	"github.com/annolab/quorum/internal/models"
	"github.com/annolab/quorum/internal/pipeline"
)

// StatsFromRecords reconstructs dataset counters from previously written
// analysis records, so a report can be generated from a results file
// without re-running the pipeline. The per-dimension split is recovered by
// re-reading the composite annotator labels. For a conflicts-only results
// file the counters necessarily describe only the emitted records.
func StatsFromRecords(records []models.OutputRecord) pipeline.Stats {
	var stats pipeline.Stats
	stats.Total = len(records)
	stats.Output = len(records)

	for _, r := range records {
		if !r.IsConflict {
			stats.NoConflicts++
			continue
		}
		stats.Conflicts++

		intents := make(map[string]bool)
		urgencies := make(map[string]bool)
		for _, l := range r.Labels {
			intent, urgency, ok := strings.Cut(l.Label, "|")
			if !ok {
				continue
			}
			intents[intent] = true
			urgencies[urgency] = true
		}

		intentConflict := len(intents) > 1
		urgencyConflict := len(urgencies) > 1
		if intentConflict {
			stats.IntentConflicts++
		}
		if urgencyConflict {
			stats.UrgencyConflicts++
		}
		if intentConflict && urgencyConflict {
			stats.BothConflicts++
		}
	}
	return stats
}
