package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/extract"
)

func TestLoadRouterRules_Defaults(t *testing.T) {
	rules, err := loadRouterRules("")
	require.NoError(t, err)
	assert.Equal(t, extract.DefaultRules(), rules)
}

func TestLoadRouterRules_FilePrepended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := `rules:
  - host_suffix: internal-directory.example.com
    extractor: staff_roster
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	rules, err := loadRouterRules(path)
	require.NoError(t, err)
	require.Greater(t, len(rules), len(extract.DefaultRules()))

	// File rules are evaluated before the built-in table.
	assert.Equal(t, "internal-directory.example.com", rules[0].HostSuffix)
	assert.Equal(t, extract.ExtractorRoster, rules[0].Extractor)
}

func TestLoadRouterRules_MissingFile(t *testing.T) {
	_, err := loadRouterRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
