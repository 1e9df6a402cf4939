package curriculum

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

// Catalog holds the static per-level assignment schedules. It is loaded once
// at startup and immutable afterwards, so lookups are safe from any
// goroutine.
type Catalog struct {
	levels map[string][]domain.CurriculumEntry
	log    *logger.Logger
}

type scheduleFile struct {
	Level   string                   `yaml:"level"`
	Entries []domain.CurriculumEntry `yaml:"entries"`
}

// LoadDir reads every *.yaml schedule in dir. A directory with no schedules
// is a configuration error: gap detection and recommendations cannot work
// without a catalog.
func LoadDir(dir string, log *logger.Logger) (*Catalog, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan schedule dir: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no schedule files in %s", dir)
	}

	c := &Catalog{levels: map[string][]domain.CurriculumEntry{}, log: log.With("service", "CurriculumCatalog")}
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schedule %s: %w", path, err)
		}
		var sf scheduleFile
		if err := yaml.Unmarshal(raw, &sf); err != nil {
			return nil, fmt.Errorf("parse schedule %s: %w", path, err)
		}
		level := normalizeLevel(sf.Level)
		if level == "" {
			return nil, fmt.Errorf("schedule %s has no level", path)
		}
		entries := make([]domain.CurriculumEntry, 0, len(sf.Entries))
		for _, e := range sf.Entries {
			e.Identifier = strings.TrimSpace(e.Identifier)
			if e.Identifier == "" {
				continue
			}
			entries = append(entries, e)
		}
		sortEntries(entries)
		c.levels[level] = entries
	}
	c.log.Info("Curriculum catalog loaded", "levels", len(c.levels))
	return c, nil
}

// NewFromEntries builds a catalog directly from per-level entry lists.
func NewFromEntries(levels map[string][]domain.CurriculumEntry, log *logger.Logger) *Catalog {
	c := &Catalog{levels: map[string][]domain.CurriculumEntry{}, log: log.With("service", "CurriculumCatalog")}
	for level, entries := range levels {
		sorted := append([]domain.CurriculumEntry(nil), entries...)
		sortEntries(sorted)
		c.levels[normalizeLevel(level)] = sorted
	}
	return c
}

// ForLevel returns the ordered schedule for a level, or nil when the level is
// unknown. Callers degrade to empty analytics rather than failing a render.
func (c *Catalog) ForLevel(level string) []domain.CurriculumEntry {
	return c.levels[normalizeLevel(level)]
}

func (c *Catalog) Levels() []string {
	out := make([]string, 0, len(c.levels))
	for level := range c.levels {
		out = append(out, level)
	}
	sort.Strings(out)
	return out
}

func normalizeLevel(level string) string {
	return strings.ToUpper(strings.TrimSpace(level))
}

// Entries are ordered by day; entries without a day sort after dayed ones,
// by numeric identifier.
func sortEntries(entries []domain.CurriculumEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Day, entries[j].Day
		switch {
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}
		return CompareIdentifiers(entries[i].Identifier, entries[j].Identifier) < 0
	})
}

// CompareIdentifiers orders assignment identifiers segment-wise and
// numerically, so "8.9" sorts before "8.21" and "10" after "9".
func CompareIdentifiers(a, b string) int {
	as := splitSegments(a)
	bs := splitSegments(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		av, _ := strconv.Atoi(as[i])
		bv, _ := strconv.Atoi(bs[i])
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func splitSegments(id string) []string {
	return strings.FieldsFunc(id, func(r rune) bool { return r == '.' || r == '_' })
}
