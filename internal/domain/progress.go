package domain

// AssignmentResult is one identifier's outcome after the best-of-N
// reduction: the highest score seen and the date of the attempt that
// produced it.
type AssignmentResult struct {
	Identifier string   `json:"identifier"`
	Label      string   `json:"label"`
	Score      *float64 `json:"score"`
	Date       string   `json:"date,omitempty"`
}

// StudentProgress is derived per request and never persisted.
type StudentProgress struct {
	BestScoreByIdentifier map[string]float64
	Completed             []AssignmentResult
	Failed                []AssignmentResult
	Missed                []CurriculumEntry
	NextRecommendation    *CurriculumEntry
	RecommendationBlocked bool
	StreakDays            int
	LastAssignment        string
	WeekAssignments       int
	WeekAttempts          int
	RetriesThisWeek       int
}

// ProgressReport is the JSON shape handed to UI callers.
type ProgressReport struct {
	CompletedAssignments  []AssignmentResult `json:"completedAssignments"`
	FailedAssignments     []AssignmentResult `json:"failedAssignments"`
	MissedAssignments     []CurriculumEntry  `json:"missedAssignments"`
	NextRecommendation    *CurriculumEntry   `json:"nextRecommendation"`
	RecommendationBlocked bool               `json:"recommendationBlocked"`
	LastAssignment        *string            `json:"lastAssignment"`
	StreakDays            int                `json:"streakDays"`
	WeekAssignments       int                `json:"weekAssignments"`
	WeekAttempts          int                `json:"weekAttempts"`
	RetriesThisWeek       int                `json:"retriesThisWeek"`
}

func (p *StudentProgress) Report() *ProgressReport {
	report := &ProgressReport{
		CompletedAssignments:  p.Completed,
		FailedAssignments:     p.Failed,
		MissedAssignments:     p.Missed,
		NextRecommendation:    p.NextRecommendation,
		RecommendationBlocked: p.RecommendationBlocked,
		StreakDays:            p.StreakDays,
		WeekAssignments:       p.WeekAssignments,
		WeekAttempts:          p.WeekAttempts,
		RetriesThisWeek:       p.RetriesThisWeek,
	}
	if report.CompletedAssignments == nil {
		report.CompletedAssignments = []AssignmentResult{}
	}
	if report.FailedAssignments == nil {
		report.FailedAssignments = []AssignmentResult{}
	}
	if report.MissedAssignments == nil {
		report.MissedAssignments = []CurriculumEntry{}
	}
	if p.LastAssignment != "" {
		last := p.LastAssignment
		report.LastAssignment = &last
	}
	return report
}
