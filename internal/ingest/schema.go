package ingest

import (
	"fmt"
	"sort"
	"strings"
)

// Column names after normalization (lower-cased, whitespace removed).
const (
	colStudentCode = "studentcode"
	colName        = "name"
	colAssignment  = "assignment"
	colScore       = "score"
	colComments    = "comments"
	colDate        = "date"
	colLevel       = "level"
	colLink        = "link"
)

var requiredColumns = []string{
	colStudentCode,
	colName,
	colAssignment,
	colScore,
	colComments,
	colDate,
	colLevel,
	colLink,
}

// HeaderError aborts the whole run: ingesting with a partial or guessed
// column mapping would write garbage under stable document keys.
type HeaderError struct {
	Missing []string
	Found   []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("sheet header missing required columns %v (found %v)", e.Missing, e.Found)
}

// columnMap resolves a normalized column name to its index in the header row.
type columnMap map[string]int

// mapHeaders validates the full required set up front. Matching is
// case-insensitive and whitespace-collapsing: "Student Code" == "studentcode".
// Extra columns are ignored.
func mapHeaders(header []string) (columnMap, error) {
	cols := columnMap{}
	found := make([]string, 0, len(header))
	for i, raw := range header {
		name := normalizeHeader(raw)
		if name == "" {
			continue
		}
		found = append(found, name)
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &HeaderError{Missing: missing, Found: found}
	}
	return cols, nil
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

func (m columnMap) cell(row []string, col string) string {
	idx, ok := m[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
