package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreRisk(t *testing.T) {
	out, err := run(t, "score", "risk", "4", "5", "3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":60,"level":"HIGH"}`, out)
}

func TestScoreAspect(t *testing.T) {
	out, err := run(t, "score", "aspect", "4", "4", "4")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":64,"level":"SIGNIFICANT"}`, out)
}

func TestScoreRejectsBadFactors(t *testing.T) {
	_, err := run(t, "score", "risk", "0", "x", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "likelihood")
	assert.Contains(t, err.Error(), "severity")
}

func TestScoreRates(t *testing.T) {
	out, err := run(t, "score", "rates", "--hours", "200000", "--lti", "2", "--tri", "3", "--days-lost", "10")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ltifr":2,"trir":3,"severityRate":10}`, out)

	_, err = run(t, "score", "rates", "--lti", "-1")
	assert.Error(t, err)
}

func TestScoreRatesRejectsNonFiniteHours(t *testing.T) {
	for _, hours := range []string{"+Inf", "Inf", "NaN"} {
		t.Run(hours, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() {
				_, err = run(t, "score", "rates", "--hours", hours, "--lti", "1")
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "hours")
		})
	}
}

func TestScoreWithCustomTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`risk:
  bands:
    - {level: LOW, min: 1, max: 50}
    - {level: HIGH, min: 51, max: 125}
`), 0o600))

	out, err := run(t, "score", "--scoring", path, "risk", "4", "5", "3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":60,"level":"HIGH"}`, out)

	out, err = run(t, "score", "--scoring", path, "risk", "3", "3", "3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":27,"level":"LOW"}`, out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, appName)
}
