// Package models defines the data types shared across the conflict
// detection and resolution pipeline: tickets as they arrive from the
// loader, and the analysis records the pipeline emits.
package models

import "fmt"

// Annotation is a single annotator's judgment of a ticket. Values are
// taken verbatim from the input; the category vocabulary is configuration,
// not a structural invariant, so unknown values pass through untouched.
type Annotation struct {
	Annotator string `json:"annotator"`
	Intent    string `json:"intent"`
	Urgency   string `json:"urgency"`
}

// Label returns the composite label used for distribution counting and
// output, serialized as "intent|urgency".
func (a Annotation) Label() string {
	return a.Intent + "|" + a.Urgency
}

// Ticket is the unit of analysis: one text record plus the labels each
// annotator assigned to it. Tickets are never mutated after parsing.
type Ticket struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations"`
}

// Intents returns the intent value of every annotation, in input order.
func (t Ticket) Intents() []string {
	out := make([]string, len(t.Annotations))
	for i, a := range t.Annotations {
		out[i] = a.Intent
	}
	return out
}

// Urgencies returns the urgency value of every annotation, in input order.
func (t Ticket) Urgencies() []string {
	out := make([]string, len(t.Annotations))
	for i, a := range t.Annotations {
		out[i] = a.Urgency
	}
	return out
}

// Validate checks the boundary contract for a parsed ticket: id and text
// must be present, and every annotation must carry a non-empty
// annotator/intent/urgency triple. Enum membership is deliberately not
// checked here.
func (t Ticket) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("ticket missing id")
	}
	if t.Text == "" {
		return fmt.Errorf("ticket %s: missing text", t.ID)
	}
	for i, a := range t.Annotations {
		if a.Annotator == "" {
			return fmt.Errorf("ticket %s: annotation %d missing annotator", t.ID, i)
		}
		if a.Intent == "" {
			return fmt.Errorf("ticket %s: annotation %d missing intent", t.ID, i)
		}
		if a.Urgency == "" {
			return fmt.Errorf("ticket %s: annotation %d missing urgency", t.ID, i)
		}
	}
	return nil
}
