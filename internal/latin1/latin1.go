// Package latin1 wraps the ISO-8859-1 codec used for every text file the
// ingestion pipeline reads or writes. The upstream source and downstream
// tooling both assume this encoding.
package latin1

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding is the codec shared by snapshots and the master dataset.
var Encoding encoding.Encoding = charmap.ISO8859_1

// Decode converts ISO-8859-1 bytes to a UTF-8 string.
// Every byte maps to a code point, so decoding never fails.
func Decode(b []byte) (string, error) {
	s, err := Encoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode ISO-8859-1: %w", err)
	}
	return string(s), nil
}

// Encode converts a UTF-8 string to ISO-8859-1 bytes.
// Runes outside U+0000..U+00FF are an error.
func Encode(s string) ([]byte, error) {
	b, err := Encoding.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("encode ISO-8859-1: %w", err)
	}
	return []byte(b), nil
}

// NewReader returns a reader yielding UTF-8 from ISO-8859-1 input.
func NewReader(r io.Reader) io.Reader {
	return Encoding.NewDecoder().Reader(r)
}
