// Package conflict decides whether a ticket's annotators disagree, and on
// which label dimension.
package conflict

import "github.com/annolab/quorum/internal/models"

// Detect computes the conflict report for a ticket. It is a pure function
// of the annotation list: a dimension conflicts when more than one distinct
// value appears, and the ticket conflicts when either dimension does.
// Tickets with fewer than two annotations can never conflict. Empty or
// unknown category values count as their own group; Detect never fails.
func Detect(t models.Ticket) models.ConflictReport {
	intents := make(map[string]int, len(t.Annotations))
	urgencies := make(map[string]int, len(t.Annotations))
	for _, a := range t.Annotations {
		intents[a.Intent]++
		urgencies[a.Urgency]++
	}

	report := models.ConflictReport{
		IntentConflict:      len(intents) > 1,
		UrgencyConflict:     len(urgencies) > 1,
		IntentDistribution:  intents,
		UrgencyDistribution: urgencies,
	}
	report.HasConflict = report.IntentConflict || report.UrgencyConflict
	return report
}
