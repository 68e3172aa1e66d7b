// Package dataset reads and writes line-delimited JSON at the pipeline
// boundary. All I/O lives here; the engine packages never touch files.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/annolab/quorum/internal/models"
)

// maxLineBytes bounds a single JSONL record.
const maxLineBytes = 4 * 1024 * 1024

// ReadTickets parses tickets from a JSONL stream, skipping blank lines.
// Every record is validated against the boundary contract before it is
// returned; a malformed record fails the whole read with its line number.
func ReadTickets(r io.Reader) ([]models.Ticket, error) {
	var tickets []models.Ticket

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var t models.Ticket
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("line %d: parsing ticket: %w", line, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tickets = append(tickets, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading tickets: %w", err)
	}
	return tickets, nil
}

// LoadTickets reads tickets from a JSONL file.
func LoadTickets(path string) ([]models.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	tickets, err := ReadTickets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tickets, nil
}

// WriteRecords writes output records as one JSON object per line.
func WriteRecords(w io.Writer, records []models.OutputRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.ID, err)
		}
	}
	return nil
}

// SaveRecords writes output records to a JSONL file.
func SaveRecords(path string, records []models.OutputRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := WriteRecords(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// LoadRecords reads previously written analysis records back from a JSONL
// file, for report generation.
func LoadRecords(path string) ([]models.OutputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results: %w", err)
	}
	defer f.Close()

	var records []models.OutputRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec models.OutputRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%s: line %d: parsing record: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading results %s: %w", path, err)
	}
	return records, nil
}
