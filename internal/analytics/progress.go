package analytics

import (
	"sort"
	"time"

	"github.com/sprachhaus/sprachhaus-backend/internal/curriculum"
	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
)

// ProgressInput is everything BuildProgress needs; it is a pure function
// over already-fetched data and safe to call concurrently.
type ProgressInput struct {
	Attempts []*domain.StoredAttempt
	Catalog  []domain.CurriculumEntry
	Now      time.Time
}

// BuildProgress derives the full progress state for one student and level.
// An unknown level (empty catalog) degrades to attempt-only analytics
// rather than failing: this path backs interactive pages.
func BuildProgress(in ProgressInput) *domain.StudentProgress {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	best := Reduce(in.Attempts)

	entryByID := make(map[string]domain.CurriculumEntry, len(in.Catalog))
	for _, e := range in.Catalog {
		entryByID[e.Identifier] = e
	}

	progress := &domain.StudentProgress{
		BestScoreByIdentifier: make(map[string]float64, len(best)),
	}

	completedIDs := map[string]bool{}
	failedIDs := map[string]bool{}
	for id, b := range best {
		progress.BestScoreByIdentifier[id] = b.Score
		result := domain.AssignmentResult{
			Identifier: id,
			Label:      labelFor(id, b, entryByID),
			Score:      scorePtr(b.Score),
			Date:       b.Date,
		}
		if b.Score >= domain.PassMark {
			completedIDs[id] = true
			progress.Completed = append(progress.Completed, result)
		} else {
			failedIDs[id] = true
			progress.Failed = append(progress.Failed, result)
		}
	}
	sortResults(progress.Completed)
	sortResults(progress.Failed)

	highestDay := highestCompletedDay(in.Catalog, completedIDs)

	// Gaps: curriculum items at or before the furthest completed day that
	// were neither completed nor attempted-and-failed. A failed identifier
	// is not a gap.
	if highestDay != nil {
		for _, e := range in.Catalog {
			if e.Day == nil || *e.Day > *highestDay {
				continue
			}
			if completedIDs[e.Identifier] || failedIDs[e.Identifier] {
				continue
			}
			progress.Missed = append(progress.Missed, e)
		}
	}

	// Any outstanding failed assignment blocks new work. Hard gate.
	progress.RecommendationBlocked = len(failedIDs) > 0
	if !progress.RecommendationBlocked {
		progress.NextRecommendation = nextRecommendation(in.Catalog, completedIDs, failedIDs, highestDay)
	}

	progress.StreakDays = StreakDays(attemptDates(in.Attempts), now)
	progress.LastAssignment = lastAssignment(in.Attempts)
	progress.WeekAssignments, progress.WeekAttempts, progress.RetriesThisWeek = weekStats(in.Attempts, now)

	return progress
}

func labelFor(id string, b BestAttempt, entryByID map[string]domain.CurriculumEntry) string {
	if e, ok := entryByID[id]; ok && e.Label != "" {
		return e.Label
	}
	return b.Label
}

func scorePtr(v float64) *float64 { return &v }

func sortResults(results []domain.AssignmentResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return curriculum.CompareIdentifiers(results[i].Identifier, results[j].Identifier) < 0
	})
}

func highestCompletedDay(catalog []domain.CurriculumEntry, completedIDs map[string]bool) *int {
	var highest *int
	for _, e := range catalog {
		if e.Day == nil || !completedIDs[e.Identifier] {
			continue
		}
		if highest == nil || *e.Day > *highest {
			day := *e.Day
			highest = &day
		}
	}
	return highest
}

// nextRecommendation picks the first unattempted entry in day order,
// preferring entries past the furthest completed day.
func nextRecommendation(catalog []domain.CurriculumEntry, completedIDs, failedIDs map[string]bool, highestDay *int) *domain.CurriculumEntry {
	var fallback *domain.CurriculumEntry
	for i := range catalog {
		e := catalog[i]
		if completedIDs[e.Identifier] || failedIDs[e.Identifier] {
			continue
		}
		if fallback == nil {
			fallback = &e
		}
		if highestDay == nil || (e.Day != nil && *e.Day > *highestDay) {
			return &e
		}
	}
	return fallback
}

func attemptDates(attempts []*domain.StoredAttempt) []time.Time {
	var dates []time.Time
	for _, a := range attempts {
		if t, ok := parseAttemptDate(a); ok {
			dates = append(dates, t)
		}
	}
	return dates
}

func parseAttemptDate(a *domain.StoredAttempt) (time.Time, bool) {
	if a == nil || a.DateISO == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, a.DateISO)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func lastAssignment(attempts []*domain.StoredAttempt) string {
	var last *domain.StoredAttempt
	var lastTime time.Time
	for _, a := range attempts {
		t, ok := parseAttemptDate(a)
		if !ok {
			continue
		}
		if last == nil || t.After(lastTime) {
			last = a
			lastTime = t
		}
	}
	if last == nil {
		return ""
	}
	return last.AssignmentText
}

// weekStats covers the trailing seven days: distinct identifiers attempted,
// raw attempt rows, and retries (attempts beyond the first per identifier).
func weekStats(attempts []*domain.StoredAttempt, now time.Time) (assignments, total, retries int) {
	cutoff := now.AddDate(0, 0, -7)
	ids := map[string]int{}
	for _, a := range attempts {
		t, ok := parseAttemptDate(a)
		if !ok || t.Before(cutoff) {
			continue
		}
		total++
		if a.AssignmentID != "" {
			ids[a.AssignmentID]++
		}
	}
	assignments = len(ids)
	for _, n := range ids {
		retries += n - 1
	}
	return assignments, total, retries
}
