package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ims/internal/engine"
	"ims/internal/scoring"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ims")
	t.Setenv("STORE", "")
	t.Setenv("CACHE_TTL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Zero(t, cfg.CacheTTL)
	assert.Equal(t, "@hourly", cfg.SnapshotSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MAX_CONNECTIONS", "64")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.DBMaxConns)
}

func TestLoadReportsMissingDatabase(t *testing.T) {
	t.Setenv("STORE", "postgres")
	t.Setenv("DATABASE_URL", "")
	cfg, err := Load()
	assert.EqualError(t, err, "DATABASE_URL not set")
	assert.Equal(t, ":8080", cfg.ListenAddr)

	t.Setenv("STORE", "sqlite")
	_, err = Load()
	assert.ErrorContains(t, err, "STORE must be")
}

const customRisk = `
risk:
  name: risk
  bands:
    - {level: LOW, min: 1, max: 20}
    - {level: HIGH, min: 21, max: 125}
exposure:
  HIGH: 0.25
`

func TestParseScoring(t *testing.T) {
	e, err := ParseScoring(strings.NewReader(customRisk))
	require.NoError(t, err)
	assert.Equal(t, scoring.LevelLow, e.Scorers.Risk.Score(4, 5, 1).Level)
	assert.Equal(t, scoring.LevelHigh, e.Scorers.Risk.Score(3, 3, 3).Level)
	assert.Equal(t, 0.25, e.Tables.Exposure[scoring.LevelHigh])
	assert.Equal(t, 1.0, e.Tables.Exposure[scoring.LevelCritical])
	// aspect table untouched
	assert.Equal(t, scoring.DefaultAspectTable(), e.Tables.Aspect)
}

func TestParseScoringEmptyIsDefault(t *testing.T) {
	e, err := ParseScoring(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultTables(), e.Tables)
}

func TestParseScoringRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"gap":           "risk:\n  bands:\n    - {level: LOW, min: 1, max: 10}\n    - {level: HIGH, min: 12, max: 125}\n",
		"unknown field": "risk:\n  colour: red\n",
		"bad weight":    "exposure:\n  CRITICAL: 3\n",
		"not yaml":      "risk: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScoring(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadScoringEmptyPath(t *testing.T) {
	e, err := LoadScoring("")
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultTables(), e.Tables)
}

func TestScoringWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customRisk), 0o600))

	holder := engine.NewHolder(engine.Default())
	w, err := NewScoringWatcher(path, holder, nil)
	require.NoError(t, err)

	assert.True(t, w.Reload())
	assert.Equal(t, scoring.LevelLow, holder.Current().Scorers.Risk.Score(4, 5, 1).Level)

	before := holder.Current()
	require.NoError(t, os.WriteFile(path, []byte("risk: ["), 0o600))
	assert.False(t, w.Reload())
	assert.Same(t, before, holder.Current())
}

func TestScoringWatcherPicksUpWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	holder := engine.NewHolder(engine.Default())
	w, err := NewScoringWatcher(path, holder, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte(customRisk), 0o600))
	assert.Eventually(t, func() bool {
		return holder.Current().Scorers.Risk.Score(4, 5, 1).Level == scoring.LevelLow
	}, 5*time.Second, 50*time.Millisecond)
}
