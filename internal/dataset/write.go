package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/meteofetch/internal/latin1"
)

// Encode renders t as ISO-8859-1, ';'-delimited bytes with a header row.
// A table without columns renders as empty content.
func Encode(t *Table) ([]byte, error) {
	if t.Empty() {
		return nil, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = Delimiter

	if err := writeRecord(w, &buf, t.Columns); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writeRecord(w, &buf, row); err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	return latin1.Encode(buf.String())
}

// writeRecord writes one record through w. A record holding a single
// empty field is written as "" so it does not read back as a blank line.
func writeRecord(w *csv.Writer, buf *bytes.Buffer, record []string) error {
	if len(record) == 1 && record[0] == "" {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		buf.WriteString("\"\"\n")
		return nil
	}
	return w.Write(record)
}

// WriteFile replaces path with the rendering of t. The content is fully
// encoded before the old file is touched, then swapped in with a rename,
// so a failure leaves the previous content intact.
func WriteFile(path string, t *Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
