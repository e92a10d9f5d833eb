// Package snapshot persists the raw remote snapshot of a cycle and derives
// the cleaned snapshot by stripping the non-tabular trailer.
//
// Both files are kept forever under the input directory; nothing here ever
// deletes or rewrites a snapshot once written.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/meteofetch/internal/latin1"
)

// TimestampLayout formats the cycle timestamp embedded in snapshot filenames.
const TimestampLayout = "2006-01-02_15:04:05"

// Paths names the two files a cycle produces.
type Paths struct {
	Raw     string
	Cleaned string
}

// PathsFor derives the snapshot paths for a cycle started at t.
//
//	<dir>/<prefix>2024-10-16_10:20:00.csv
//	<dir>/<prefix>2024-10-16_10:20:00_cleaned.csv
func PathsFor(dir, prefix string, t time.Time) Paths {
	base := prefix + t.Format(TimestampLayout)
	return Paths{
		Raw:     filepath.Join(dir, base+".csv"),
		Cleaned: filepath.Join(dir, base+"_cleaned.csv"),
	}
}

// WriteRaw writes body verbatim to path.
func WriteRaw(path string, body []byte) error {
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("write raw snapshot: %w", err)
	}
	return nil
}

// TrailerError reports a trailer that does not look like a trailer.
type TrailerError struct {
	Line   int    // 1-based line number within the raw snapshot
	Text   string // offending line
	Fields int
}

func (e *TrailerError) Error() string {
	return fmt.Sprintf("trailer line %d looks like a data row (%d fields): %q", e.Line, e.Fields, e.Text)
}

// IsTrailerError reports whether err is, or wraps, a *TrailerError.
func IsTrailerError(err error) bool {
	var te *TrailerError
	return errors.As(err, &te)
}

// CleanOptions controls trailer stripping.
type CleanOptions struct {
	// TrailerLines is the number of lines dropped from the end.
	TrailerLines int

	// Validate rejects the snapshot when a trailer line has as many
	// ';'-separated fields as the header row.
	Validate bool

	// Delimiter used by Validate. Zero means ';'.
	Delimiter rune
}

// Clean reads the raw snapshot as ISO-8859-1 lines, drops the trailer, and
// writes the remainder to cleanedPath in the same encoding. Line endings
// are normalized to "\n". It returns the number of lines kept.
//
// A snapshot shorter than the trailer produces an empty cleaned file.
func Clean(rawPath, cleanedPath string, opts CleanOptions) (int, error) {
	raw, err := os.ReadFile(rawPath)
	if err != nil {
		return 0, fmt.Errorf("read raw snapshot: %w", err)
	}

	text, err := latin1.Decode(raw)
	if err != nil {
		return 0, err
	}
	lines := SplitLines(text)

	keep := len(lines) - opts.TrailerLines
	if keep < 0 {
		keep = 0
	}

	if opts.Validate {
		if err := checkTrailer(lines, keep, opts.Delimiter); err != nil {
			return 0, err
		}
	}

	out, err := latin1.Encode(strings.Join(lines[:keep], ""))
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(cleanedPath, out, 0644); err != nil {
		return 0, fmt.Errorf("write cleaned snapshot: %w", err)
	}
	return keep, nil
}

// SplitLines splits text into lines, keeping each line's terminator.
// "\r\n" and lone "\r" are normalized to "\n". A final line without a
// terminator is still a line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}

func checkTrailer(lines []string, keep int, delim rune) error {
	if delim == 0 {
		delim = ';'
	}
	if len(lines) == 0 || keep == 0 {
		return nil
	}

	headerFields := countFields(lines[0], delim)
	for i := keep; i < len(lines); i++ {
		n := countFields(lines[i], delim)
		if headerFields > 1 && n == headerFields {
			return &TrailerError{
				Line:   i + 1,
				Text:   strings.TrimRight(lines[i], "\n"),
				Fields: n,
			}
		}
	}
	return nil
}

func countFields(line string, delim rune) int {
	line = strings.TrimRight(line, "\n")
	if line == "" {
		return 0
	}
	return strings.Count(line, string(delim)) + 1
}
