package analytics

import (
	"sort"
	"strings"

	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
)

// Students need at least this many distinct scored assignments to appear on
// the board at all.
const leaderboardMinCompletions = 3

// BuildLeaderboard ranks a level's cohort from its raw attempt rows. Each
// student gets the same best-of-N reduction as the progress path; ranking is
// totalScore desc, then completions desc, then name asc. Ranks are
// sequential 1-based positions, ties share nothing.
func BuildLeaderboard(attempts []*domain.StoredAttempt) []domain.LeaderboardRow {
	type entry struct {
		code string
		name string
		best map[string]float64
	}
	byStudent := map[string]*entry{}
	for _, a := range attempts {
		if a == nil || a.StudentCode == "" {
			continue
		}
		e, ok := byStudent[a.StudentCode]
		if !ok {
			e = &entry{code: a.StudentCode, best: map[string]float64{}}
			byStudent[a.StudentCode] = e
		}
		if a.Name != "" {
			e.name = a.Name
		}
		if a.AssignmentID == "" || a.Score == nil {
			continue
		}
		if current, seen := e.best[a.AssignmentID]; !seen || *a.Score > current {
			e.best[a.AssignmentID] = *a.Score
		}
	}

	rows := make([]domain.LeaderboardRow, 0, len(byStudent))
	for _, e := range byStudent {
		if len(e.best) < leaderboardMinCompletions {
			continue
		}
		total := 0.0
		for _, score := range e.best {
			total += score
		}
		rows = append(rows, domain.LeaderboardRow{
			StudentCode: e.code,
			Name:        e.name,
			Completions: len(e.best),
			TotalScore:  total,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		if rows[i].Completions != rows[j].Completions {
			return rows[i].Completions > rows[j].Completions
		}
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
