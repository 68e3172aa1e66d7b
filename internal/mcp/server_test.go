package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/annolab/quorum/internal/config"
	"github.com/annolab/quorum/internal/models"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(&Config{Name: "quorum", Version: "test"})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func TestNewServer(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		if _, err := NewServer(nil); err == nil {
			t.Fatal("NewServer(nil) error = nil, want error")
		}
	})

	t.Run("invalid rules", func(t *testing.T) {
		rules := config.Default()
		rules.IntentPriority = nil
		_, err := NewServer(&Config{Name: "quorum", Version: "test", Rules: &rules})
		if err == nil || !strings.Contains(err.Error(), "intent_priority") {
			t.Errorf("NewServer() error = %v, want rules validation error", err)
		}
	})

	t.Run("default rules", func(t *testing.T) {
		testServer(t)
	})
}

func TestHandleDetect(t *testing.T) {
	s := testServer(t)

	ticket := models.Ticket{
		ID:   "t1",
		Text: "Payment failed on checkout",
		Annotations: []models.Annotation{
			{Annotator: "a", Intent: "billing_issue", Urgency: "high"},
			{Annotator: "b", Intent: "bug_report", Urgency: "high"},
		},
	}

	_, result, err := s.handleDetect(context.Background(), nil, ticket)
	if err != nil {
		t.Fatalf("handleDetect() error = %v", err)
	}
	if result.ID != "t1" {
		t.Errorf("result.ID = %q, want t1", result.ID)
	}
	if !result.Report.HasConflict || !result.Report.IntentConflict || result.Report.UrgencyConflict {
		t.Errorf("report = %+v, want intent-only conflict", result.Report)
	}
	if result.Report.IntentDistribution["billing_issue"] != 1 {
		t.Errorf("IntentDistribution = %v, want one billing_issue vote", result.Report.IntentDistribution)
	}
}

func TestHandleDetectRejectsInvalidTicket(t *testing.T) {
	s := testServer(t)

	_, _, err := s.handleDetect(context.Background(), nil, models.Ticket{Text: "no id"})
	if err == nil || !strings.Contains(err.Error(), "missing id") {
		t.Errorf("handleDetect() error = %v, want validation error", err)
	}
}

func TestHandleResolve(t *testing.T) {
	s := testServer(t)

	ticket := models.Ticket{
		ID:   "t1",
		Text: "I want a refund but the app crashed.",
		Annotations: []models.Annotation{
			{Annotator: "a", Intent: "billing_issue", Urgency: "high"},
			{Annotator: "b", Intent: "bug_report", Urgency: "critical"},
			{Annotator: "c", Intent: "billing_issue", Urgency: "high"},
		},
	}

	_, record, err := s.handleResolve(context.Background(), nil, ticket)
	if err != nil {
		t.Fatalf("handleResolve() error = %v", err)
	}
	if !record.IsConflict {
		t.Error("record.IsConflict = false, want conflict")
	}
	if record.ConflictReason == nil || *record.ConflictReason == "" {
		t.Error("record.ConflictReason missing")
	}
	if record.SuggestedLabel != "billing_issue|high" {
		t.Errorf("SuggestedLabel = %q, want billing_issue|high", record.SuggestedLabel)
	}
	if record.Resolution == nil {
		t.Fatal("record.Resolution missing; the server always includes resolution detail")
	}
	if record.Resolution.Band != models.BandHigh {
		t.Errorf("Band = %q, want %q", record.Resolution.Band, models.BandHigh)
	}
}

func TestHandleResolveCustomRules(t *testing.T) {
	rules := config.Default()
	rules.Escalation.CrashKeywords = []string{"meltdown"}

	s, err := NewServer(&Config{Name: "quorum", Version: "test", Rules: &rules})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	ticket := models.Ticket{
		ID:   "t1",
		Text: "Billing page meltdown, charges applied twice",
		Annotations: []models.Annotation{
			{Annotator: "a", Intent: "billing_issue", Urgency: "low"},
			{Annotator: "b", Intent: "billing_issue", Urgency: "low"},
		},
	}

	_, record, err := s.handleResolve(context.Background(), nil, ticket)
	if err != nil {
		t.Fatalf("handleResolve() error = %v", err)
	}
	if record.Resolution == nil || record.Resolution.Urgency != "critical" {
		t.Errorf("Resolution = %+v, want escalated critical urgency", record.Resolution)
	}
}
