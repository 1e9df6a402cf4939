package domain

// PassMark is the fixed threshold separating completed from failed
// assignments. A best score of exactly 60 passes.
const PassMark = 60.0

// AttemptCandidate is one normalized sheet row before persistence. Score and
// Passed are pointers on purpose: a missing score is not a zero score, and
// nothing downstream may use truthiness to test "has a score".
type AttemptCandidate struct {
	StudentCode    string
	Name           string
	AssignmentText string
	AssignmentID   string
	Score          *float64
	Comments       string
	DateRaw        string
	DateISO        string
	Level          string
	Link           string
	PassMark       float64
	Passed         *bool
	SourceRow      int
}

// StoredAttempt is the persisted form of a candidate. Key is the stable
// document identifier {studentCode}__{level}__{assignmentId|"na"}__{hash12};
// it is an external contract and must survive ingestion-engine swaps.
// Attempts are created once and never mutated: corrections arrive as new
// rows with a different content hash.
type StoredAttempt struct {
	Key            string   `firestore:"-"`
	StudentCode    string   `firestore:"studentCode"`
	Name           string   `firestore:"name"`
	AssignmentText string   `firestore:"assignment"`
	AssignmentID   string   `firestore:"assignmentId"`
	Score          *float64 `firestore:"score"`
	Comments       string   `firestore:"comments"`
	DateRaw        string   `firestore:"dateRaw"`
	DateISO        string   `firestore:"dateIso"`
	Level          string   `firestore:"level"`
	Link           string   `firestore:"link"`
	PassMark       float64  `firestore:"passMark"`
	Passed         *bool    `firestore:"passed"`
	SourceRow      int      `firestore:"sourceRowNumber"`
}
