package interaction

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestReadCSV_ValidTable(t *testing.T) {
	input := strings.Join([]string{
		"sender,recipient,timestamp,content_valid",
		"alice@corp.com,bob@corp.com,2001-05-01T10:00:00Z,true",
		"bob@corp.com,alice@corp.com,2001-05-01T12:30:00Z,true",
		"carol@corp.com,alice@corp.com,988718400,true",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	if records[0].SenderID != "alice@corp.com" {
		t.Errorf("Expected sender alice@corp.com, got %s", records[0].SenderID)
	}
	if !records[0].Timestamp.Equal(time.Date(2001, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected timestamp: %v", records[0].Timestamp)
	}
}

func TestReadCSV_DropsInvalidContent(t *testing.T) {
	input := strings.Join([]string{
		"sender,recipient,timestamp,content_valid",
		"alice@corp.com,bob@corp.com,2001-05-01T10:00:00Z,true",
		"spam@corp.com,bob@corp.com,2001-05-01T11:00:00Z,false",
	}, "\n")

	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record after filtering, got %d", len(records))
	}
}

func TestReadCSV_EmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))

	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("Expected DataError for empty input, got %v", err)
	}
}

func TestReadCSV_OnlyInvalidRows(t *testing.T) {
	input := strings.Join([]string{
		"sender,recipient,timestamp,content_valid",
		"alice@corp.com,bob@corp.com,2001-05-01T10:00:00Z,false",
	}, "\n")

	_, err := ReadCSV(strings.NewReader(input))

	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("Expected DataError when no valid rows remain, got %v", err)
	}
}

func TestReadCSV_MalformedRows(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"missing sender", ",bob@corp.com,2001-05-01T10:00:00Z,true"},
		{"missing recipient", "alice@corp.com,,2001-05-01T10:00:00Z,true"},
		{"bad timestamp", "alice@corp.com,bob@corp.com,yesterday,true"},
		{"bad flag", "alice@corp.com,bob@corp.com,2001-05-01T10:00:00Z,maybe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := "sender,recipient,timestamp,content_valid\n" + tc.row

			_, err := ReadCSV(strings.NewReader(input))

			var dataErr *DataError
			if !errors.As(err, &dataErr) {
				t.Fatalf("Expected DataError, got %v", err)
			}
			if dataErr.Line != 2 {
				t.Errorf("Expected error at line 2, got line %d", dataErr.Line)
			}
		})
	}
}

func TestReadCSV_WrongHeader(t *testing.T) {
	input := "from,to,when,ok\na,b,2001-05-01T10:00:00Z,true"

	_, err := ReadCSV(strings.NewReader(input))

	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("Expected DataError for wrong header, got %v", err)
	}
}
