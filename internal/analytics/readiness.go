package analytics

import (
	"fmt"
	"math"

	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
)

// Pass rate inside the readiness classification uses a stricter bar than
// the pass mark: only scores of 70+ count as solid evidence.
const readinessPassScore = 70.0

type ReadinessInput struct {
	AttendanceSessions int
	Completed          []domain.AssignmentResult
	TotalAssignments   *int
}

// Classify assigns one of three readiness tiers, first match wins. Absent
// or malformed input yields the most conservative answer, never an error.
func Classify(in ReadinessInput) domain.ReadinessResult {
	completed := len(in.Completed)
	scored := 0
	sum := 0.0
	passing := 0
	for _, item := range in.Completed {
		if item.Score == nil {
			continue
		}
		scored++
		sum += *item.Score
		if *item.Score >= readinessPassScore {
			passing++
		}
	}

	var avg *float64
	var passRate *float64
	if scored > 0 {
		a := sum / float64(scored)
		avg = &a
		p := float64(passing) / float64(scored) * 100
		passRate = &p
	}

	readyTarget := 5
	almostTarget := 3
	evidenceTarget := 3
	if in.TotalAssignments != nil && *in.TotalAssignments > 0 {
		total := float64(*in.TotalAssignments)
		readyTarget = int(math.Ceil(total * 0.7))
		almostTarget = maxInt(3, int(math.Ceil(total*0.5)))
		evidenceTarget = maxInt(3, int(math.Ceil(total*0.3)))
	}

	result := domain.ReadinessResult{
		AttendanceSessions: in.AttendanceSessions,
		CompletedCount:     completed,
		ScoredCount:        scored,
		AverageScore:       avg,
		PassRate:           passRate,
	}

	switch {
	case completed >= readyTarget && scored >= readyTarget &&
		avg != nil && *avg >= 75 && passRate != nil && *passRate >= 70 &&
		in.AttendanceSessions >= 5:
		result.Tier = domain.TierReady
		result.Icon = "✅"
		result.Tone = "success"
		result.Label = "Ready"
		result.Detail = fmt.Sprintf(
			"%d assignments completed with an average of %.0f and %d attended sessions. Keep this pace until exam day.",
			completed, *avg, in.AttendanceSessions)

	case completed >= almostTarget && scored >= evidenceTarget &&
		avg != nil && *avg >= 60 && passRate != nil && *passRate >= 50 &&
		in.AttendanceSessions >= 3:
		result.Tier = domain.TierAlmost
		result.Icon = "🟡"
		result.Tone = "warning"
		result.Label = "Almost ready"
		result.Detail = fmt.Sprintf(
			"%d assignments completed averaging %.0f. Aim for %d completed with strong scores and keep attending sessions.",
			completed, *avg, readyTarget)

	default:
		result.Tier = domain.TierNotReady
		result.Icon = "🔴"
		result.Tone = "danger"
		result.Label = "Not ready yet"
		result.Detail = fmt.Sprintf(
			"Complete at least %d assignments with %d scored results to build evidence of readiness.",
			almostTarget, evidenceTarget)
	}
	return result
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
