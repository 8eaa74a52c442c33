// Package scoring holds the pure scoring functions: ordinal risk and aspect
// scoring over three 1..5 factors, and occupational safety rates.
package scoring

import (
	"fmt"
)

const (
	MinFactor = 1
	MaxFactor = 5
	MinScore  = MinFactor * MinFactor * MinFactor
	MaxScore  = MaxFactor * MaxFactor * MaxFactor
)

// Band maps an inclusive score range to a level.
type Band struct {
	Level string `yaml:"level" json:"level"`
	Min   int    `yaml:"min" json:"min"`
	Max   int    `yaml:"max" json:"max"`
}

// Table is an ordered set of bands that must partition [MinScore, MaxScore].
type Table struct {
	Name  string `yaml:"name" json:"name"`
	Bands []Band `yaml:"bands" json:"bands"`
}

// Validate checks the bands are ascending, contiguous and cover the whole
// score range exactly once.
func (t Table) Validate() error {
	if len(t.Bands) == 0 {
		return fmt.Errorf("table %q: no bands", t.Name)
	}
	seen := make(map[string]bool, len(t.Bands))
	next := MinScore
	for i, b := range t.Bands {
		if b.Level == "" {
			return fmt.Errorf("table %q: band %d has no level", t.Name, i)
		}
		if seen[b.Level] {
			return fmt.Errorf("table %q: duplicate level %s", t.Name, b.Level)
		}
		seen[b.Level] = true
		if b.Min != next {
			return fmt.Errorf("table %q: band %s starts at %d, want %d", t.Name, b.Level, b.Min, next)
		}
		if b.Max < b.Min {
			return fmt.Errorf("table %q: band %s is empty (%d..%d)", t.Name, b.Level, b.Min, b.Max)
		}
		next = b.Max + 1
	}
	if next != MaxScore+1 {
		return fmt.Errorf("table %q: bands end at %d, want %d", t.Name, next-1, MaxScore)
	}
	return nil
}

// Levels returns the level names from lowest to highest.
func (t Table) Levels() []string {
	out := make([]string, len(t.Bands))
	for i, b := range t.Bands {
		out[i] = b.Level
	}
	return out
}

// Result is a computed score and its level.
type Result struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

// OrdinalScorer multiplies three ordinal factors and classifies the product
// against a threshold table. It holds no mutable state.
type OrdinalScorer struct {
	table Table
}

func NewOrdinalScorer(t Table) (*OrdinalScorer, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	bands := make([]Band, len(t.Bands))
	copy(bands, t.Bands)
	return &OrdinalScorer{table: Table{Name: t.Name, Bands: bands}}, nil
}

// MustOrdinalScorer is NewOrdinalScorer for tables known to be valid.
func MustOrdinalScorer(t Table) *OrdinalScorer {
	s, err := NewOrdinalScorer(t)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *OrdinalScorer) Table() Table { return s.table }

// Score computes a*b*c and its level. Factors outside [1,5] are a caller
// defect and panic; callers validate before scoring.
func (s *OrdinalScorer) Score(a, b, c int) Result {
	mustFactor(s.table.Name, a)
	mustFactor(s.table.Name, b)
	mustFactor(s.table.Name, c)
	score := a * b * c
	return Result{Score: score, Level: s.Level(score)}
}

// Level classifies a score already known to be in [1,125].
func (s *OrdinalScorer) Level(score int) string {
	for _, b := range s.table.Bands {
		if score >= b.Min && score <= b.Max {
			return b.Level
		}
	}
	panic(fmt.Sprintf("scoring: %s score %d outside [%d,%d]", s.table.Name, score, MinScore, MaxScore))
}

func mustFactor(table string, v int) {
	if v < MinFactor || v > MaxFactor {
		panic(fmt.Sprintf("scoring: %s factor %d outside [%d,%d]", table, v, MinFactor, MaxFactor))
	}
}
