// Package interaction defines the cleaned interaction table the pipeline
// consumes. Records are produced by an upstream ETL stage; this package only
// validates the contract and loads the table into memory.
package interaction

import (
	"fmt"
	"time"
)

// Interaction is a single directed message event between two people.
// Records are immutable once loaded.
type Interaction struct {
	SenderID     string
	RecipientID  string
	Timestamp    time.Time
	ContentValid bool
}

// DataError reports empty or malformed interaction input. The pipeline aborts
// on a DataError rather than producing metrics from a broken table.
type DataError struct {
	Line int // 1-based input line, 0 when not tied to a specific row
	Msg  string
	Err  error
}

func (e *DataError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("interaction data error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("interaction data error: %s", e.Msg)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a DataError not tied to a specific input row
func NewDataError(msg string) *DataError {
	return &DataError{Msg: msg}
}
