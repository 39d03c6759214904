package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Delimiter separates cells within a line. Quoting is not supported.
	Delimiter = ","
	// SampleRows is how many leading rows are sent to the completion service.
	SampleRows = 5
)

// ErrUnreadable indicates an upload or file could not be read.
var ErrUnreadable = errors.New("error reading file")

// Dataset is an ordered sequence of rows of string cells. The first row
// conventionally holds column headers. Rows may be ragged.
type Dataset [][]string

// Parse splits raw text on newlines and each line on the delimiter.
// It never fails; malformed input simply yields odd row shapes.
func Parse(text string) Dataset {
	lines := strings.Split(text, "\n")
	rows := make(Dataset, len(lines))
	for i, line := range lines {
		// Drops the \r of a CRLF ending; quotes get no special treatment.
		line = strings.TrimSuffix(line, "\r")
		rows[i] = strings.Split(line, Delimiter)
	}
	return rows
}

// Read parses everything readable from r.
func Read(r io.Reader) (Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return Parse(string(b)), nil
}

// ReadFile reads a file as plain text regardless of its extension.
func ReadFile(path string) (Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return Parse(string(b)), nil
}

// AcceptedFile reports whether a file name carries an extension the
// upload surfaces accept (.csv or .tsv). Parsing ignores extensions.
func AcceptedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		return true
	}
	return false
}

// Empty reports whether the dataset has no rows.
func (d Dataset) Empty() bool { return len(d) == 0 }

// Headers returns the first row, or nil for an empty dataset.
func (d Dataset) Headers() []string {
	if len(d) == 0 {
		return nil
	}
	return d[0]
}

// Sample returns at most the first SampleRows rows. The result shares
// backing arrays with d and must be treated as read-only.
func (d Dataset) Sample() Dataset {
	if len(d) <= SampleRows {
		return d
	}
	return d[:SampleRows]
}

// Join renders rows joined by the delimiter, one row per line.
func (d Dataset) Join() string {
	lines := make([]string, len(d))
	for i, row := range d {
		lines[i] = strings.Join(row, Delimiter)
	}
	return strings.Join(lines, "\n")
}

// Clone returns a deep copy.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	for i, row := range d {
		out[i] = append([]string(nil), row...)
	}
	return out
}
