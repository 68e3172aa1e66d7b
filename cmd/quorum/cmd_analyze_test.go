package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annolab/quorum/internal/dataset"
	"github.com/annolab/quorum/internal/pipeline"
)

const analyzeInput = `{"id":"t1","text":"I want a refund but the app crashed.","annotations":[{"annotator":"a","intent":"billing_issue","urgency":"high"},{"annotator":"b","intent":"bug_report","urgency":"critical"},{"annotator":"c","intent":"billing_issue","urgency":"high"}]}
{"id":"t2","text":"Where can I see the current subscription plans","annotations":[{"annotator":"a","intent":"general_inquiry","urgency":"low"},{"annotator":"b","intent":"general_inquiry","urgency":"low"}]}
`

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tickets.jsonl")
	if err := os.WriteFile(path, []byte(analyzeInput), 0o644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	return path
}

func TestNewAnalyzeCmd(t *testing.T) {
	cmd := newAnalyzeCmd()
	if cmd.Use != "analyze" {
		t.Errorf("Use = %q, want %q", cmd.Use, "analyze")
	}
	for _, name := range []string{"input", "output", "conflicts-only", "details", "rules"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
}

func TestAnalyzeCmdEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	output := filepath.Join(dir, "results.jsonl")

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"analyze", "-i", input, "-o", output, "--details", "--json"})
	var outBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stats pipeline.Stats
	if err := json.Unmarshal(outBuf.Bytes(), &stats); err != nil {
		t.Fatalf("stats output is not JSON: %v\n%s", err, outBuf.String())
	}
	if stats.Total != 2 || stats.Conflicts != 1 || stats.Output != 2 {
		t.Errorf("stats = %+v, want 2 tickets with 1 conflict", stats)
	}

	records, err := dataset.LoadRecords(output)
	if err != nil {
		t.Fatalf("loading results: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].SuggestedLabel != "billing_issue|high" {
		t.Errorf("SuggestedLabel = %q, want billing_issue|high", records[0].SuggestedLabel)
	}
	if records[0].Resolution == nil || records[1].Resolution == nil {
		t.Error("Resolution missing despite --details")
	}
	if records[1].IsConflict {
		t.Error("unanimous ticket flagged as conflict")
	}
}

func TestAnalyzeCmdConflictsOnly(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	output := filepath.Join(dir, "results.jsonl")

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"analyze", "-i", input, "-o", output, "--conflicts-only"})
	var outBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(outBuf.String(), "CONFLICT DETECTION STATISTICS") {
		t.Errorf("output = %q, want text summary", outBuf.String())
	}

	records, err := dataset.LoadRecords(output)
	if err != nil {
		t.Fatalf("loading results: %v", err)
	}
	if len(records) != 1 || !records[0].IsConflict {
		t.Errorf("records = %+v, want only the conflicting ticket", records)
	}
}

func TestAnalyzeCmdCustomRules(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	output := filepath.Join(dir, "results.jsonl")
	rulesPath := filepath.Join(dir, "rules.yaml")

	// Push the high band above the worked example's 2/3 confidence.
	if err := os.WriteFile(rulesPath, []byte("thresholds:\n  high_band: 0.9\n"), 0o644); err != nil {
		t.Fatalf("writing rules: %v", err)
	}

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"analyze", "-i", input, "-o", output, "--details", "--rules", rulesPath})
	rootCmd.SetOut(new(bytes.Buffer))

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := dataset.LoadRecords(output)
	if err != nil {
		t.Fatalf("loading results: %v", err)
	}
	if records[0].Resolution == nil || records[0].Resolution.Band != "medium" {
		t.Errorf("Resolution = %+v, want medium band under raised threshold", records[0].Resolution)
	}
}

func TestAnalyzeCmdMissingInput(t *testing.T) {
	dir := t.TempDir()

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"analyze", "-i", filepath.Join(dir, "nope.jsonl"), "-o", filepath.Join(dir, "out.jsonl")})
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for missing input file")
	}
}
