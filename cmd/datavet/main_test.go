package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validateTestConfig = `mode: collect-all
checks:
  - type: within_bounds
    column: dmc
    min: 0
    max: 800
`

func writeInputs(t *testing.T, csvBody string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "checks.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(validateTestConfig), 0o644))
	data := filepath.Join(dir, "specimens.csv")
	require.NoError(t, os.WriteFile(data, []byte(csvBody), 0o644))
	return cfg, data
}

func TestValidateCmdReturnsSentinelOnViolations(t *testing.T) {
	cfg, data := writeInputs(t, "dmc\n150\n999\n")

	root := newRootCmd()
	root.SetArgs([]string{"validate", "-c", cfg, "-i", data, "--format", "json"})
	err := root.Execute()
	// the failed-validation error must survive RunE so deferred cleanup runs
	require.ErrorIs(t, err, errValidationFailed)
}

func TestValidateCmdSucceedsOnCleanData(t *testing.T) {
	cfg, data := writeInputs(t, "dmc\n150\n300\n")

	root := newRootCmd()
	root.SetArgs([]string{"validate", "-c", cfg, "-i", data, "--format", "json"})
	require.NoError(t, root.Execute())
}

func TestValidateCmdRejectsMultiRuneDelimiter(t *testing.T) {
	cfg, data := writeInputs(t, "dmc\n150\n")

	root := newRootCmd()
	root.SetArgs([]string{"validate", "-c", cfg, "-i", data, "--delimiter", "ab"})
	err := root.Execute()
	require.Error(t, err)
	require.NotErrorIs(t, err, errValidationFailed)
}
