// Package cause diagnoses why annotators likely disagreed on a ticket.
//
// The diagnosis is a fixed, ordered set of independent boolean rules over
// the ticket text and the already-computed label distributions. Rules are
// deliberately not a learned classifier: every clause in the output can be
// traced to a lexicon entry or a distribution fact.
package cause

import (
	"fmt"
	"sort"
	"strings"

	"github.com/annolab/quorum/internal/config"
	"github.com/annolab/quorum/internal/models"
)

// Separator joins independently triggered diagnostic clauses.
const Separator = " | "

// Analyzer produces human-readable explanations for conflicting tickets.
// It owns its lexicons, so instances with different rulebooks can coexist.
type Analyzer struct {
	rules config.Rules
}

// NewAnalyzer creates an analyzer over the given rulebook.
func NewAnalyzer(rules config.Rules) *Analyzer {
	return &Analyzer{rules: rules}
}

// Explain returns the diagnostic clause list for a conflicting ticket,
// joined by Separator. Callers only invoke it when report.HasConflict is
// true; it never returns an empty string in that case because a generic
// subjective-interpretation clause backstops the specific rules. Clauses
// are independent and may co-fire.
func (a *Analyzer) Explain(t models.Ticket, report models.ConflictReport) string {
	var clauses []string
	text := strings.ToLower(t.Text)

	if c := a.ambiguousKeywordClause(text, t); c != "" {
		clauses = append(clauses, c)
	}
	if c := a.mixedAspectClause(text); c != "" {
		clauses = append(clauses, c)
	}
	if report.UrgencyConflict && !report.IntentConflict {
		clauses = append(clauses, fmt.Sprintf(
			"Urgency assessment varies: annotators disagreed on severity (%s), suggesting subjective urgency interpretation",
			formatDistribution(report.UrgencyDistribution)))
	}
	if report.IntentConflict {
		clauses = append(clauses, a.intentDisagreementClause(t, report))
	}
	if words := len(strings.Fields(t.Text)); words < a.rules.Thresholds.BrevityWords {
		clauses = append(clauses, fmt.Sprintf(
			"Brief text (%d words): limited context may lead to varying interpretations", words))
	}

	if len(clauses) == 0 {
		clauses = append(clauses,
			"Subjective interpretation: annotators applied different judgment criteria without clear textual ambiguity")
	}
	return strings.Join(clauses, Separator)
}

// ambiguousKeywordClause fires when the text contains a lexicon phrase
// known to span multiple intents AND at least one of the phrase's mapped
// intents actually appears among the ticket's annotations.
func (a *Analyzer) ambiguousKeywordClause(text string, t models.Ticket) string {
	annotated := make(map[string]bool, len(t.Annotations))
	for _, ann := range t.Annotations {
		annotated[ann.Intent] = true
	}

	var found []string
	for phrase, mapped := range a.rules.AmbiguousKeywords {
		if !strings.Contains(text, phrase) {
			continue
		}
		for _, intent := range mapped {
			if annotated[intent] {
				found = append(found, phrase)
				break
			}
		}
	}
	if len(found) == 0 {
		return ""
	}
	sort.Strings(found)
	return fmt.Sprintf("Ambiguous text: contains '%s', which can be read as more than one intent category",
		strings.Join(found, "', '"))
}

// mixedAspectClause fires when the text contains a contrastive or
// compounding connective, matched on word boundaries so that "and" inside
// "standard" does not trigger it.
func (a *Analyzer) mixedAspectClause(text string) string {
	words := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		words[strings.Trim(w, ".,;:!?'\"()")] = true
	}

	var found []string
	for _, ind := range a.rules.MixedIndicators {
		if words[ind.Connective] {
			found = append(found, fmt.Sprintf("'%s' (%s)", ind.Connective, ind.Description))
		}
	}
	if len(found) == 0 {
		return ""
	}
	return fmt.Sprintf("Mixed aspects: text contains %s, indicating multiple simultaneous issues",
		strings.Join(found, ", "))
}

func (a *Analyzer) intentDisagreementClause(t models.Ticket, report models.ConflictReport) string {
	dist := formatDistribution(report.IntentDistribution)

	hasTechnical := a.anyIntentIn(t, a.rules.TechnicalIntents)
	hasBusiness := a.anyIntentIn(t, a.rules.BusinessIntents)
	if hasTechnical && hasBusiness {
		return fmt.Sprintf(
			"Intent classification ambiguity: mixed technical and business aspects (%s); guidelines should state which issue takes precedence",
			dist)
	}
	return fmt.Sprintf(
		"Intent disagreement: annotators categorized differently (%s); intent definitions may need sharper boundaries",
		dist)
}

func (a *Analyzer) anyIntentIn(t models.Ticket, group []string) bool {
	for _, ann := range t.Annotations {
		for _, g := range group {
			if ann.Intent == g {
				return true
			}
		}
	}
	return false
}

// formatDistribution renders a vote tally deterministically: highest count
// first, ties in lexicographic value order.
func formatDistribution(dist map[string]int) string {
	type entry struct {
		value string
		count int
	}
	entries := make([]entry, 0, len(dist))
	for v, c := range dist {
		entries = append(entries, entry{v, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].value < entries[j].value
	})

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s: %d", e.value, e.count)
	}
	return strings.Join(parts, ", ")
}
