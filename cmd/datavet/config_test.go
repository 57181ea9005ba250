package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

const yamlConfig = `mode: collect-all
checks:
  - type: in_set
    column: height_category
    values: ["<20cm", "20-40cm", ">40cm"]
  - type: within_bounds
    columns: [dry_matter_content_mg_per_g]
    min: 0
    max: 800
  - type: outliers
    column: dry_matter_content_mg_per_g
    method: mad
    multiplier: 3
  - type: compare
    left: min_height
    op: "<="
    right: max_height
`

const tomlConfig = `mode = "fail-fast"

[[checks]]
type = "not_null"
columns = ["plot_id"]

[[checks]]
type = "max_missing"
columns = ["a", "b"]
max_missing = 1
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfigYAML(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "checks.yaml", yamlConfig))
	require.NoError(t, err)

	mode, err := cfg.mode()
	require.NoError(t, err)
	require.Equal(t, dv.CollectAll, mode)

	rules, err := buildRules(cfg)
	require.NoError(t, err)
	require.Len(t, rules, 4)
	require.Equal(t, "in_set", rules[0].Name())
	require.Equal(t, "within_bounds", rules[1].Name())
	require.Equal(t, "outliers_mad", rules[2].Name())
	require.Equal(t, "compare", rules[3].Name())
}

func TestLoadConfigTOML(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "checks.toml", tomlConfig))
	require.NoError(t, err)

	mode, err := cfg.mode()
	require.NoError(t, err)
	require.Equal(t, dv.FailFast, mode)

	rules, err := buildRules(cfg)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, []string{"plot_id"}, rules[0].Columns())
}

func TestLoadConfigJSON(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "checks.json",
		`{"mode":"failfast","checks":[{"type":"within_bounds","column":"x","min":0,"max":1}]}`))
	require.NoError(t, err)
	rules, err := buildRules(cfg)
	require.NoError(t, err)
	require.Len(t, rules, 1)
}

func TestBuildRulesRejectsUnknownType(t *testing.T) {
	cfg := &Config{Checks: []CheckSpec{{Type: "fix_everything"}}}
	_, err := buildRules(cfg)
	require.Error(t, err)
}

func TestBuildRulesRejectsBadPattern(t *testing.T) {
	cfg := &Config{Checks: []CheckSpec{{Type: "matches", Column: "s", Pattern: "("}}}
	_, err := buildRules(cfg)
	require.Error(t, err)
}
