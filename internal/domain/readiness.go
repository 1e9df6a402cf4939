package domain

type ReadinessTier string

const (
	TierReady    ReadinessTier = "ready"
	TierAlmost   ReadinessTier = "almost"
	TierNotReady ReadinessTier = "not_ready"
)

// ReadinessResult is the exam-preparedness classification shown to students
// and teachers. Icon, tone, label and detail text are part of the UI
// contract, not decoration.
type ReadinessResult struct {
	Tier               ReadinessTier `json:"tier"`
	Icon               string        `json:"icon"`
	Tone               string        `json:"tone"`
	Label              string        `json:"label"`
	Detail             string        `json:"detail"`
	AttendanceSessions int           `json:"attendanceSessions"`
	CompletedCount     int           `json:"completedCount"`
	ScoredCount        int           `json:"scoredCount"`
	AverageScore       *float64      `json:"averageScore"`
	PassRate           *float64      `json:"passRate"`
}
