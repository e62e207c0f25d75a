// Package history keeps the ordered log of conversions made during a session.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/measure/internal/convert"
)

// DisplayLimit is how many of the most recent records the UI shows.
const DisplayLimit = 5

// EmptyMessage is shown in place of the list when nothing was converted yet.
const EmptyMessage = "No history available."

// Record is a single completed conversion. Records are values and are never
// modified after creation.
type Record struct {
	Category   convert.Category
	InputValue float64
	FromUnit   string
	ToValue    float64
	ToUnit     string
	CreatedAt  time.Time
}

// NewRecord runs the conversion and captures its result.
func NewRecord(c convert.Category, value float64, from, to string) Record {
	return Record{
		Category:   c,
		InputValue: value,
		FromUnit:   from,
		ToValue:    convert.Convert(c, value, from, to),
		ToUnit:     to,
		CreatedAt:  time.Now(),
	}
}

// String renders the record as a history line, e.g. "1 Meters = 3.28 Feet".
func (r Record) String() string {
	return fmt.Sprintf("%s %s = %s %s",
		convert.FormatValue(r.InputValue), r.FromUnit,
		convert.FormatResult(r.ToValue), r.ToUnit)
}

// Sentence is the full sentence announced for the record.
func (r Record) Sentence() string {
	return convert.Sentence(r.InputValue, r.FromUnit, r.ToValue, r.ToUnit)
}

// Log is an append-only list of records in insertion order. It is not safe
// for concurrent use; the session owning it is driven by a single UI loop.
type Log struct {
	records []Record
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds r to the end of the log.
func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
}

// Recent returns up to n of the newest records, oldest first.
func (l *Log) Recent(n int) []Record {
	if n <= 0 || len(l.records) == 0 {
		return nil
	}
	start := len(l.records) - n
	if start < 0 {
		start = 0
	}
	out := make([]Record, len(l.records)-start)
	copy(out, l.records[start:])
	return out
}

// Len returns the number of records ever appended since the last Clear.
func (l *Log) Len() int {
	return len(l.records)
}

// Clear drops every record.
func (l *Log) Clear() {
	l.records = nil
}
