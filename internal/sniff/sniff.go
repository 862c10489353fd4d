// Package sniff performs a cheap streaming inspection of CSV files at
// staging time: it reports the data row count and the column count taken
// from the header row without materializing the file in memory.
package sniff

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Shape is the result of sniffing a CSV file. Rows counts data rows only;
// the header row defines Columns and is not counted.
type Shape struct {
	Rows    int `json:"rowCount"`
	Columns int `json:"columnCount"`
}

// ParseError indicates the file is not structurally valid CSV. Files that
// fail the sniff are never staged.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed CSV at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed CSV: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Sniff scans r as CSV and returns its shape. The scan is restartable per
// call: each invocation reads the whole stream from the current position.
// Ragged rows are tolerated; only structural errors (bare quotes, unclosed
// quoted fields) produce a ParseError. An empty stream yields Shape{0, 0}.
func Sniff(r io.Reader) (Shape, error) {
	cr := csv.NewReader(newBOMSkippingReader(r))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var shape Shape
	first := true
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return shape, nil
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return Shape{}, &ParseError{Line: perr.Line, Err: perr.Err}
			}
			return Shape{}, &ParseError{Line: line, Err: err}
		}
		if first {
			shape.Columns = len(record)
			first = false
			continue
		}
		shape.Rows++
	}
}
