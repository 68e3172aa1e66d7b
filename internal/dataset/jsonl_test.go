package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/annolab/quorum/internal/models"
)

const sampleInput = `{"id":"t1","text":"App crashes on startup","annotations":[{"annotator":"ann_1","intent":"bug_report","urgency":"high"},{"annotator":"ann_2","intent":"bug_report","urgency":"critical"}]}

{"id":"t2","text":"How do I change my plan","annotations":[{"annotator":"ann_1","intent":"general_inquiry","urgency":"low"}]}
`

func TestReadTickets(t *testing.T) {
	tickets, err := ReadTickets(strings.NewReader(sampleInput))
	if err != nil {
		t.Fatalf("ReadTickets() error = %v", err)
	}

	want := []models.Ticket{
		{
			ID:   "t1",
			Text: "App crashes on startup",
			Annotations: []models.Annotation{
				{Annotator: "ann_1", Intent: "bug_report", Urgency: "high"},
				{Annotator: "ann_2", Intent: "bug_report", Urgency: "critical"},
			},
		},
		{
			ID:   "t2",
			Text: "How do I change my plan",
			Annotations: []models.Annotation{
				{Annotator: "ann_1", Intent: "general_inquiry", Urgency: "low"},
			},
		},
	}
	if diff := cmp.Diff(want, tickets); diff != "" {
		t.Errorf("tickets mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTicketsErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "malformed json reports line number",
			input:   "{\"id\":\"t1\",\"text\":\"ok\",\"annotations\":[]}\n{not json}\n",
			wantErr: "line 2",
		},
		{
			name:    "missing id fails validation",
			input:   `{"text":"no id here","annotations":[]}` + "\n",
			wantErr: "missing id",
		},
		{
			name:    "missing intent fails validation",
			input:   `{"id":"t1","text":"ok","annotations":[{"annotator":"a","urgency":"low"}]}` + "\n",
			wantErr: "missing intent",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTickets(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadTickets() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoadRecords(t *testing.T) {
	reason := "Ambiguous text: contains 'payment failed'"
	records := []models.OutputRecord{
		{
			ID:   "t1",
			Text: "Payment failed again",
			Labels: []models.LabelEntry{
				{Annotator: "ann_1", Label: "billing_issue|high"},
				{Annotator: "ann_2", Label: "bug_report|high"},
			},
			IsConflict:     true,
			ConflictReason: &reason,
			SuggestedLabel: "billing_issue|high",
			Resolution: &models.Resolution{
				Intent:          "billing_issue",
				Urgency:         "high",
				MajorityIntent:  "billing_issue",
				MajorityUrgency: "high",
				Confidence:      0.75,
				Band:            models.BandHigh,
				Explanation:     "Intent 'billing_issue' selected by majority vote",
			},
		},
		{
			ID:   "t2",
			Text: "All good",
			Labels: []models.LabelEntry{
				{Annotator: "ann_1", Label: "general_inquiry|low"},
			},
			IsConflict:     false,
			SuggestedLabel: "general_inquiry|low",
		},
	}

	path := filepath.Join(t.TempDir(), "results.jsonl")
	if err := SaveRecords(path, records); err != nil {
		t.Fatalf("SaveRecords() error = %v", err)
	}

	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if diff := cmp.Diff(records, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// conflict_reason must serialize as an explicit null for non-conflicts
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("written lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[1], `"conflict_reason":null`) {
		t.Errorf("second record = %s, want explicit null conflict_reason", lines[1])
	}
}

func TestLoadTicketsMissingFile(t *testing.T) {
	_, err := LoadTickets(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err == nil {
		t.Fatal("LoadTickets() error = nil, want error for missing file")
	}
}
