package domain

// LeaderboardRow is one ranked student within a level. Rank is the 1-based
// position after sorting; ties in both score and completions still get
// distinct sequential ranks.
type LeaderboardRow struct {
	Rank        int     `json:"rank"`
	StudentCode string  `json:"studentCode"`
	Name        string  `json:"name"`
	Completions int     `json:"completions"`
	TotalScore  float64 `json:"totalScore"`
}
