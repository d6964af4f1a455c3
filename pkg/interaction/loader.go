package interaction

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Expected header of the cleaned interaction table
var expectedHeader = []string{"sender", "recipient", "timestamp", "content_valid"}

// LoadCSV reads a cleaned interaction table from a CSV file.
// Rows with content_valid=false are dropped here; the rest of the pipeline
// never sees them.
func LoadCSV(path string) ([]Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open interaction table: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a cleaned interaction table from a reader.
func ReadCSV(r io.Reader) ([]Interaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(expectedHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataError{Msg: "empty interaction table"}
	}
	if err != nil {
		return nil, &DataError{Line: 1, Msg: "unreadable header", Err: err}
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	records := make([]Interaction, 0, 1024)
	line := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &DataError{Line: line, Msg: "malformed row", Err: err}
		}

		rec, err := parseRow(row, line)
		if err != nil {
			return nil, err
		}
		if !rec.ContentValid {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, &DataError{Msg: "interaction table contains no valid rows"}
	}

	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return &DataError{Line: 1, Msg: fmt.Sprintf("expected %d columns, got %d", len(expectedHeader), len(header))}
	}
	for i, want := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return &DataError{Line: 1, Msg: fmt.Sprintf("expected column %q, got %q", want, header[i])}
		}
	}
	return nil
}

func parseRow(row []string, line int) (Interaction, error) {
	sender := strings.TrimSpace(strings.ToLower(row[0]))
	recipient := strings.TrimSpace(strings.ToLower(row[1]))
	if sender == "" {
		return Interaction{}, &DataError{Line: line, Msg: "missing sender"}
	}
	if recipient == "" {
		return Interaction{}, &DataError{Line: line, Msg: "missing recipient"}
	}

	ts, err := parseTimestamp(strings.TrimSpace(row[2]))
	if err != nil {
		return Interaction{}, &DataError{Line: line, Msg: "bad timestamp", Err: err}
	}

	valid, err := strconv.ParseBool(strings.TrimSpace(row[3]))
	if err != nil {
		return Interaction{}, &DataError{Line: line, Msg: "bad content_valid flag", Err: err}
	}

	return Interaction{
		SenderID:     sender,
		RecipientID:  recipient,
		Timestamp:    ts,
		ContentValid: valid,
	}, nil
}

// parseTimestamp accepts RFC3339 or unix seconds
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is neither RFC3339 nor unix seconds", s)
	}
	return time.Unix(secs, 0).UTC(), nil
}
