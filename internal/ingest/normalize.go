package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
)

// Assignment identifiers are digit groups optionally joined by "." or "_",
// not preceded by a letter or digit: "A1 Assignment 9_10" yields "9_10",
// "8.21 Ein Wochenende planen" yields "8.21".
var assignmentIDPattern = regexp.MustCompile(`(?:^|[^\p{L}\d])(\d+(?:[._]\d+)*)`)

// Date formats seen in the score sheet over time. Parsing failure is never
// fatal; the raw text is kept for display.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// NormalizeResult carries the typed candidates plus the tally of rows
// discarded for missing mandatory fields. Skips are counted, never silent.
type NormalizeResult struct {
	Candidates []*domain.AttemptCandidate
	Skipped    int
}

// NormalizeMatrix turns the raw sheet matrix into attempt candidates. Row 1
// is always the header; data starts at row 2, which is why source row
// numbers carry a +2 offset.
func NormalizeMatrix(matrix [][]string) (NormalizeResult, error) {
	res := NormalizeResult{}
	if len(matrix) == 0 {
		return res, &HeaderError{Missing: requiredColumns}
	}
	cols, err := mapHeaders(matrix[0])
	if err != nil {
		return res, err
	}

	for i, row := range matrix[1:] {
		candidate := normalizeRow(cols, row, i+2)
		if candidate == nil {
			res.Skipped++
			continue
		}
		res.Candidates = append(res.Candidates, candidate)
	}
	return res, nil
}

// normalizeRow returns nil when the row must be skipped: studentCode,
// assignment text and level are mandatory.
func normalizeRow(cols columnMap, row []string, sourceRow int) *domain.AttemptCandidate {
	studentCode := strings.TrimSpace(cols.cell(row, colStudentCode))
	assignmentText := strings.TrimSpace(cols.cell(row, colAssignment))
	level := strings.TrimSpace(cols.cell(row, colLevel))
	if studentCode == "" || assignmentText == "" || level == "" {
		return nil
	}

	c := &domain.AttemptCandidate{
		StudentCode:    studentCode,
		Name:           strings.TrimSpace(cols.cell(row, colName)),
		AssignmentText: assignmentText,
		AssignmentID:   ExtractAssignmentID(assignmentText),
		Comments:       strings.TrimSpace(cols.cell(row, colComments)),
		DateRaw:        strings.TrimSpace(cols.cell(row, colDate)),
		Level:          level,
		Link:           strings.TrimSpace(cols.cell(row, colLink)),
		PassMark:       domain.PassMark,
		SourceRow:      sourceRow,
	}
	c.Score = parseScore(cols.cell(row, colScore))
	if c.Score != nil {
		passed := *c.Score >= domain.PassMark
		c.Passed = &passed
	}
	c.DateISO = parseDateISO(c.DateRaw)
	return c
}

// ExtractAssignmentID pulls the normalized identifier out of a free-text
// assignment label. Empty when no identifier is present; such rows are kept
// for display but excluded from identifier-keyed analytics.
func ExtractAssignmentID(label string) string {
	m := assignmentIDPattern.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	return m[1]
}

// parseScore coerces to a finite number. Anything else is null, never 0:
// a missing score must stay distinguishable from a real zero.
func parseScore(raw string) *float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseDateISO(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

// ContentHash is a short deterministic digest over the fields that make an
// attempt distinct. Identical sheet state always produces the same hash;
// corrections (any field change) produce a new one.
func ContentHash(c *domain.AttemptCandidate) string {
	score := ""
	if c.Score != nil {
		score = strconv.FormatFloat(*c.Score, 'f', -1, 64)
	}
	parts := []string{
		c.StudentCode,
		c.Level,
		c.AssignmentID,
		c.DateRaw,
		score,
		c.Comments,
		c.Link,
		c.Name,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:12]
}

// DocKey builds the stable document identifier
// {studentCode}__{level}__{assignmentId|"na"}__{hash12}. The format is an
// external contract; re-running ingestion on identical input must land on
// the same key.
func DocKey(c *domain.AttemptCandidate) string {
	id := c.AssignmentID
	if id == "" {
		id = "na"
	}
	return c.StudentCode + "__" + c.Level + "__" + id + "__" + ContentHash(c)
}

// Stored converts a candidate into its persisted form.
func Stored(c *domain.AttemptCandidate) *domain.StoredAttempt {
	return &domain.StoredAttempt{
		Key:            DocKey(c),
		StudentCode:    c.StudentCode,
		Name:           c.Name,
		AssignmentText: c.AssignmentText,
		AssignmentID:   c.AssignmentID,
		Score:          c.Score,
		Comments:       c.Comments,
		DateRaw:        c.DateRaw,
		DateISO:        c.DateISO,
		Level:          c.Level,
		Link:           c.Link,
		PassMark:       c.PassMark,
		Passed:         c.Passed,
		SourceRow:      c.SourceRow,
	}
}
