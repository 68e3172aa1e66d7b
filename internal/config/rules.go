// Package config holds the rulebook for conflict analysis and resolution:
// keyword lexicons, category priority orders, and numeric thresholds. The
// rulebook is plain data so it can be tuned without touching the engines,
// and engines receive it at construction rather than reading globals.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MixedIndicator is a connective that signals the text plausibly describes
// more than one issue, with the description used in diagnostics.
type MixedIndicator struct {
	Connective  string `yaml:"connective" json:"connective"`
	Description string `yaml:"description" json:"description"`
}

// Escalation configures the severity escalation rule: when a crash-class
// and a payment-class keyword co-occur in the text, urgency is forced to
// ForceUrgency regardless of the vote outcome.
type Escalation struct {
	CrashKeywords   []string `yaml:"crash_keywords" json:"crash_keywords"`
	PaymentKeywords []string `yaml:"payment_keywords" json:"payment_keywords"`
	ForceUrgency    string   `yaml:"force_urgency" json:"force_urgency"`
}

// Thresholds are the numeric cutoffs used by the analyzer and resolver.
type Thresholds struct {
	// WeakMajority is the per-dimension confidence below which the
	// keyword-inference fallback is consulted.
	WeakMajority float64 `yaml:"weak_majority" json:"weak_majority"`

	// HighBand and MediumBand split the overall confidence score into
	// high / medium / low.
	HighBand   float64 `yaml:"high_band" json:"high_band"`
	MediumBand float64 `yaml:"medium_band" json:"medium_band"`

	// BrevityWords is the word count below which a ticket is considered
	// too short to disambiguate.
	BrevityWords int `yaml:"brevity_words" json:"brevity_words"`
}

// Rules is the complete rulebook consumed by the cause analyzer and the
// resolution engine.
type Rules struct {
	// AmbiguousKeywords maps phrases to the intent categories they are
	// known to span.
	AmbiguousKeywords map[string][]string `yaml:"ambiguous_keywords" json:"ambiguous_keywords"`

	// MixedIndicators are contrastive or compounding connectives.
	MixedIndicators []MixedIndicator `yaml:"mixed_indicators" json:"mixed_indicators"`

	// TechnicalIntents and BusinessIntents partition the intent vocabulary
	// for the cross-domain disagreement diagnostic.
	TechnicalIntents []string `yaml:"technical_intents" json:"technical_intents"`
	BusinessIntents  []string `yaml:"business_intents" json:"business_intents"`

	// IntentKeywords and UrgencyKeywords back the keyword-inference
	// fallback: each text hit counts one vote for the mapped category.
	IntentKeywords  map[string][]string `yaml:"intent_keywords" json:"intent_keywords"`
	UrgencyKeywords map[string][]string `yaml:"urgency_keywords" json:"urgency_keywords"`

	// IntentPriority and UrgencyPriority are the fixed tie-break orders.
	// Values not listed sort after every listed value.
	IntentPriority  []string `yaml:"intent_priority" json:"intent_priority"`
	UrgencyPriority []string `yaml:"urgency_priority" json:"urgency_priority"`

	Escalation Escalation `yaml:"escalation" json:"escalation"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// Default returns the shipped rulebook.
func Default() Rules {
	return Rules{
		AmbiguousKeywords: map[string][]string{
			"network error":   {"billing_issue", "bug_report"},
			"payment failed":  {"billing_issue", "bug_report"},
			"app crashed":     {"bug_report", "billing_issue"},
			"app shows error": {"bug_report", "account_issue"},
			"subscription":    {"subscription_issue", "billing_issue"},
			"cancel":          {"subscription_issue", "account_issue"},
			"locked":          {"account_issue", "bug_report"},
		},
		MixedIndicators: []MixedIndicator{
			{Connective: "but", Description: "contrasting elements"},
			{Connective: "and", Description: "multiple aspects"},
			{Connective: "however", Description: "contrasting elements"},
			{Connective: "while", Description: "simultaneous issues"},
		},
		TechnicalIntents: []string{"bug_report", "account_issue"},
		BusinessIntents:  []string{"billing_issue", "subscription_issue"},
		IntentKeywords: map[string][]string{
			"bug_report":         {"crash", "error", "bug", "fail", "failed", "blank", "won't open", "wont open", "can't open", "cannot open", "won't load", "blank screen"},
			"billing_issue":      {"payment", "refund", "charged", "billing", "invoice"},
			"subscription_issue": {"subscription", "renew", "auto-renew", "cancel", "activated"},
			"account_issue":      {"account", "login", "password", "verification", "locked", "recover"},
			"general_inquiry":    {"how", "what", "policy", "inquire", "plan", "features", "promotions", "return"},
		},
		UrgencyKeywords: map[string][]string{
			"critical": {"crash", "blank screen", "won't open", "wont open", "can't open", "data loss"},
			"high":     {"urgent", "immediately", "asap", "cannot", "can't", "failed", "locked"},
		},
		IntentPriority:  []string{"bug_report", "billing_issue", "subscription_issue", "account_issue", "general_inquiry"},
		UrgencyPriority: []string{"critical", "high", "medium", "low"},
		Escalation: Escalation{
			CrashKeywords:   []string{"crash"},
			PaymentKeywords: []string{"payment", "billing"},
			ForceUrgency:    "critical",
		},
		Thresholds: Thresholds{
			WeakMajority: 0.6,
			HighBand:     0.66,
			MediumBand:   0.5,
			BrevityWords: 8,
		},
	}
}

// Load reads a yaml rulebook and overlays it on the defaults. Fields absent
// from the file keep their default values; maps are merged key-wise, lists
// are replaced wholesale.
func Load(path string) (Rules, error) {
	rules := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks the structural constraints the engines rely on.
func (r Rules) Validate() error {
	if len(r.IntentPriority) == 0 {
		return fmt.Errorf("intent_priority must not be empty")
	}
	if len(r.UrgencyPriority) == 0 {
		return fmt.Errorf("urgency_priority must not be empty")
	}
	if r.Escalation.ForceUrgency == "" {
		return fmt.Errorf("escalation.force_urgency must not be empty")
	}
	t := r.Thresholds
	if t.WeakMajority <= 0 || t.WeakMajority > 1 {
		return fmt.Errorf("thresholds.weak_majority must be in (0,1], got %v", t.WeakMajority)
	}
	if t.MediumBand < 0 || t.HighBand > 1 || t.MediumBand >= t.HighBand {
		return fmt.Errorf("thresholds bands must satisfy 0 <= medium < high <= 1, got medium=%v high=%v", t.MediumBand, t.HighBand)
	}
	if t.BrevityWords <= 0 {
		return fmt.Errorf("thresholds.brevity_words must be positive, got %d", t.BrevityWords)
	}
	return nil
}
