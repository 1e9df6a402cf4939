package domain

// CurriculumEntry is one assignment in a level's ordered schedule. Day is the
// ordinal position in the level plan; entries imported from older schedules
// may not carry one, in which case ordering falls back to the numeric
// identifier.
type CurriculumEntry struct {
	Identifier string `yaml:"identifier" json:"identifier"`
	Day        *int   `yaml:"day" json:"day,omitempty"`
	Label      string `yaml:"label" json:"label"`
}
