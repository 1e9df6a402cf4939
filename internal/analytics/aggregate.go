package analytics

import (
	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
)

// BestAttempt is the winning attempt for one identifier after the best-of-N
// reduction.
type BestAttempt struct {
	Score float64
	Date  string
	Label string
}

// Reduce collapses a student's attempts to one best score per assignment
// identifier. Null scores and rows without an identifier contribute nothing.
// The reduction is monotonic: more attempts can only raise a best score.
func Reduce(attempts []*domain.StoredAttempt) map[string]BestAttempt {
	best := map[string]BestAttempt{}
	for _, a := range attempts {
		if a == nil || a.AssignmentID == "" || a.Score == nil {
			continue
		}
		current, seen := best[a.AssignmentID]
		if !seen || *a.Score > current.Score {
			best[a.AssignmentID] = BestAttempt{
				Score: *a.Score,
				Date:  attemptDate(a),
				Label: a.AssignmentText,
			}
		}
	}
	return best
}

// BestScores is the plain identifier→score view of Reduce.
func BestScores(attempts []*domain.StoredAttempt) map[string]float64 {
	best := Reduce(attempts)
	out := make(map[string]float64, len(best))
	for id, b := range best {
		out[id] = b.Score
	}
	return out
}

func attemptDate(a *domain.StoredAttempt) string {
	if a.DateISO != "" {
		return a.DateISO
	}
	return a.DateRaw
}
