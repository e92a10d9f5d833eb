package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/meteofetch/internal/latin1"
)

// ErrNoColumns is returned when a file holds no header row.
var ErrNoColumns = errors.New("no columns to parse from file")

// ReadFile parses an ISO-8859-1, ';'-delimited file with a header row.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// LoadMaster reads the master dataset, returning an empty table when the
// file is empty.
func LoadMaster(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat master file: %w", err)
	}
	if info.Size() == 0 {
		return &Table{}, nil
	}
	return ReadFile(path)
}

// Parse decodes table bytes. Blank lines are skipped. Rows shorter than
// the header are padded with empty cells; longer rows are an error.
// A quote inside an unquoted field is kept as part of the value.
func Parse(data []byte) (*Table, error) {
	r := csv.NewReader(latin1.NewReader(bytes.NewReader(data)))
	r.Comma = Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}

	t := &Table{Columns: dedupeColumns(header)}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err)
		}

		if len(record) > len(t.Columns) {
			line, _ := r.FieldPos(0)
			return nil, &ParseError{
				Line:    line,
				Message: fmt.Sprintf("expected %d fields, saw %d", len(t.Columns), len(record)),
			}
		}
		for len(record) < len(t.Columns) {
			record = append(record, "")
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Message: pe.Err.Error()}
	}
	return err
}
