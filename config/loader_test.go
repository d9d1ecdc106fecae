package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	isolateHome(t)

	cfg, err := Load("", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, DefaultImportsPath, cfg.Output.Imports)
	assert.Equal(t, DefaultTestPath, cfg.Output.Test)
	assert.Equal(t, DefaultSourcePrefix, cfg.Discovery.SourcePrefix)
	assert.Equal(t, ParserScanner, cfg.Parser)
	assert.Empty(t, cfg.Discovery.Ignore)
}

func TestLoad_ReadsConfigFileFromRepoRoot(t *testing.T) {
	isolateHome(t)
	repo := t.TempDir()
	content := `output:
  imports: ci/imports.txt
  test: ci/test_imports.py
discovery:
  ignore: [scripts, notebooks_old]
  source_prefix: lib
parser: tree-sitter
`
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".importsmoke.yaml"), []byte(content), 0o644))

	cfg, err := Load("", repo)

	require.NoError(t, err)
	assert.Equal(t, "ci/imports.txt", cfg.Output.Imports)
	assert.Equal(t, "ci/test_imports.py", cfg.Output.Test)
	assert.Equal(t, []string{"scripts", "notebooks_old"}, cfg.Discovery.Ignore)
	assert.Equal(t, "lib", cfg.Discovery.SourcePrefix)
	assert.Equal(t, ParserTreeSitter, cfg.Parser)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	isolateHome(t)
	t.Setenv("IMPORTSMOKE_OUTPUT_TEST", "checks/test_smoke.py")

	cfg, err := Load("", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "checks/test_smoke.py", cfg.Output.Test)
}

func TestLoad_ExplicitMissingFileIsAnError(t *testing.T) {
	isolateHome(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")

	assert.ErrorContains(t, err, "read config")
}

func TestLoad_RejectsUnknownParser(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parser: regex\n"), 0o644))

	_, err := Load(path, "")

	assert.ErrorContains(t, err, `unknown parser "regex"`)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Output: OutputConfig{Imports: "a.txt", Test: "test_a.py"},
		Parser: ParserScanner,
	}
	assert.NoError(t, valid.Validate())

	same := valid
	same.Output.Test = "a.txt"
	assert.ErrorIs(t, same.Validate(), errSameOutputPaths)

	missing := valid
	missing.Output.Imports = ""
	assert.ErrorIs(t, missing.Validate(), errEmptyImportsPath)
}
