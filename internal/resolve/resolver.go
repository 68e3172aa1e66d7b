// Package resolve derives a single resolved label per ticket from its
// annotator votes: majority vote per dimension, keyword-inference fallback
// for ties and weak majorities, a fixed priority order as the last-resort
// tie-break, and a severity escalation rule layered on top. Every
// adjustment is recorded in the resolution explanation; nothing is
// overridden silently.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/annolab/quorum/internal/config"
	"github.com/annolab/quorum/internal/models"
)

// Resolver resolves annotator disagreements into a final label. It owns
// its rulebook, so resolvers with different lexicons can coexist.
type Resolver struct {
	rules       config.Rules
	intentRank  map[string]int
	urgencyRank map[string]int
}

// NewResolver creates a resolver over the given rulebook.
func NewResolver(rules config.Rules) *Resolver {
	return &Resolver{
		rules:       rules,
		intentRank:  rankIndex(rules.IntentPriority),
		urgencyRank: rankIndex(rules.UrgencyPriority),
	}
}

func rankIndex(priority []string) map[string]int {
	idx := make(map[string]int, len(priority))
	for i, v := range priority {
		idx[v] = i
	}
	return idx
}

// Resolve computes the resolution for a ticket. It is deterministic: the
// same ticket always yields the same resolution. A ticket with no
// annotations gets the sentinel resolution (empty labels, confidence 0);
// the pipeline avoids calling Resolve in that case but the result is still
// defined.
func (r *Resolver) Resolve(t models.Ticket) models.Resolution {
	if len(t.Annotations) == 0 {
		return models.Resolution{
			Confidence:  0,
			Band:        models.BandLow,
			Explanation: "No annotations present; nothing to resolve",
		}
	}

	text := strings.ToLower(t.Text)
	intent := r.resolveDimension("intent", text, t.Intents(), r.rules.IntentKeywords, r.intentRank)
	urgency := r.resolveDimension("urgency", text, t.Urgencies(), r.rules.UrgencyKeywords, r.urgencyRank)

	notes := append(intent.notes, urgency.notes...)

	// Severity escalation: a crash on the payment path is always treated as
	// maximally urgent, independent of the vote outcome.
	if containsAny(text, r.rules.Escalation.CrashKeywords) && containsAny(text, r.rules.Escalation.PaymentKeywords) {
		forced := r.rules.Escalation.ForceUrgency
		if urgency.value != forced {
			notes = append(notes, fmt.Sprintf(
				"Urgency escalated to '%s': crash and payment indicators co-occur in the text", forced))
			urgency.value = forced
		} else {
			notes = append(notes, fmt.Sprintf(
				"Escalation rule confirms urgency '%s': crash and payment indicators co-occur in the text", forced))
		}
	}

	confidence := (intent.confidence + urgency.confidence) / 2

	return models.Resolution{
		Intent:          intent.value,
		Urgency:         urgency.value,
		MajorityIntent:  intent.majority,
		MajorityUrgency: urgency.majority,
		Confidence:      confidence,
		Band:            r.band(confidence),
		Explanation:     strings.Join(notes, ". ") + ".",
	}
}

func (r *Resolver) band(confidence float64) string {
	switch {
	case confidence >= r.rules.Thresholds.HighBand:
		return models.BandHigh
	case confidence >= r.rules.Thresholds.MediumBand:
		return models.BandMedium
	default:
		return models.BandLow
	}
}

// dimensionOutcome is the per-dimension resolution before composition.
type dimensionOutcome struct {
	value      string
	majority   string
	confidence float64
	notes      []string
}

// resolveDimension runs the vote for one label dimension.
//
// The raw majority is made deterministic up front (count, then priority
// order, then lexicographic) and recorded for auditability. The keyword
// fallback is consulted on a genuine tie for the mode or when the majority
// is weak; with no keyword hits the priority-ordered raw majority stands.
func (r *Resolver) resolveDimension(name, text string, values []string, keywords map[string][]string, rank map[string]int) dimensionOutcome {
	tally := make(map[string]int, len(values))
	for _, v := range values {
		tally[v]++
	}
	total := len(values)

	majority := r.mode(tally, rank)
	topCount := tally[majority]
	tied := countAtMax(tally, topCount) > 1
	confidence := float64(topCount) / float64(total)

	out := dimensionOutcome{value: majority, majority: majority, confidence: confidence}

	if topCount == total {
		out.notes = append(out.notes, fmt.Sprintf("%s '%s' has unanimous agreement", title(name), majority))
		return out
	}

	out.notes = append(out.notes, fmt.Sprintf("%s '%s' selected by majority vote (%.0f%% agreement; votes: %s)",
		title(name), majority, confidence*100, formatTally(tally, rank)))

	if !tied && confidence >= r.rules.Thresholds.WeakMajority {
		return out
	}

	// Tie or weak majority: consult the keyword lexicon.
	candidate, hits := r.keywordCandidate(text, keywords, rank)
	switch {
	case hits == 0 && tied:
		out.notes = append(out.notes, fmt.Sprintf(
			"%s tie broken by fixed priority order (no keyword cues in text)", title(name)))
	case hits == 0:
		out.notes = append(out.notes, fmt.Sprintf(
			"Weak %s majority kept (no keyword cues in text)", name))
	case candidate != majority:
		out.value = candidate
		out.notes = append(out.notes, fmt.Sprintf(
			"Keyword override: text cues favor %s '%s' over raw majority '%s' (%d keyword hit(s))",
			name, candidate, majority, hits))
	case tied:
		out.notes = append(out.notes, fmt.Sprintf(
			"%s tie resolved by keyword inference, confirming '%s' (%d keyword hit(s))",
			title(name), candidate, hits))
	default:
		out.notes = append(out.notes, fmt.Sprintf(
			"Keyword cues confirm weak %s majority '%s' (%d keyword hit(s))", name, candidate, hits))
	}
	return out
}

// mode returns the deterministic vote winner: highest count, then earliest
// in the priority order, then lexicographic. Unknown categories rank after
// every known one.
func (r *Resolver) mode(tally map[string]int, rank map[string]int) string {
	best := ""
	bestCount := -1
	for v, c := range tally {
		if best == "" || c > bestCount || (c == bestCount && lessByRank(v, best, rank)) {
			best = v
			bestCount = c
		}
	}
	return best
}

// keywordCandidate scans the text against the per-dimension lexicon and
// returns the category with the most keyword hits, along with that hit
// count. Ties between candidates fall back to the priority order. A zero
// hit count means the scan found nothing.
func (r *Resolver) keywordCandidate(text string, keywords map[string][]string, rank map[string]int) (string, int) {
	votes := make(map[string]int)
	for category, kws := range keywords {
		for _, kw := range kws {
			if strings.Contains(text, kw) {
				votes[category]++
			}
		}
	}
	if len(votes) == 0 {
		return "", 0
	}

	best := ""
	bestVotes := -1
	for v, c := range votes {
		if best == "" || c > bestVotes || (c == bestVotes && lessByRank(v, best, rank)) {
			best = v
			bestVotes = c
		}
	}
	return best, bestVotes
}

// lessByRank orders categories by the fixed priority list; values missing
// from the list sort after every listed value, lexicographically among
// themselves, so unknown categories still break ties deterministically.
func lessByRank(a, b string, rank map[string]int) bool {
	ra, okA := rank[a]
	rb, okB := rank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// title capitalizes a dimension name for explanation text.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func countAtMax(tally map[string]int, max int) int {
	n := 0
	for _, c := range tally {
		if c == max {
			n++
		}
	}
	return n
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// formatTally renders a vote distribution deterministically for
// explanations: count descending, then priority order.
func formatTally(tally map[string]int, rank map[string]int) string {
	values := make([]string, 0, len(tally))
	for v := range tally {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if tally[values[i]] != tally[values[j]] {
			return tally[values[i]] > tally[values[j]]
		}
		return lessByRank(values[i], values[j], rank)
	})

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%s: %d", v, tally[v])
	}
	return strings.Join(parts, ", ")
}
