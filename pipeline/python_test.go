package pipeline

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/importsmoke/coderoot"
	"github.com/LegacyCodeHQ/importsmoke/starimport"
)

// runGeneratedTest loads the generated module from a file path and calls its
// test function, reporting which star-imported modules were loaded.
const runGeneratedTest = `
import importlib.util
import sys

spec = importlib.util.spec_from_file_location("generated_imports", sys.argv[1])
module = importlib.util.module_from_spec(spec)
spec.loader.exec_module(module)
try:
    module.test_all_imports()
except AssertionError as exc:
    print("FAIL:", exc)
    sys.exit(1)
print("PASS", "mypkg.sub" in sys.modules, "tools" in sys.modules, "vendored_thing" in sys.modules)
`

func osFixture(t *testing.T, files map[string]string) (afero.Fs, Options) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 is not installed")
	}

	root := t.TempDir()
	fs := afero.NewOsFs()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	return fs, Options{
		RepoRoot:     root,
		ImportsPath:  "tests/all_imports.txt",
		TestPath:     "tests/test_all_imports.py",
		Ignore:       coderoot.DefaultIgnore(),
		SourcePrefix: starimport.DefaultSourcePrefix,
	}
}

func runPython(t *testing.T, testFile string) (string, error) {
	t.Helper()
	cmd := exec.Command("python3", "-c", runGeneratedTest, testFile)
	cmd.Dir = filepath.Dir(testFile)
	cmd.Env = append(os.Environ(), "PYTHONDONTWRITEBYTECODE=1")
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

func pythonRepo() map[string]string {
	return map[string]string{
		"src/app.py": `import os
import json as j
from mypkg.sub import *
from src.tools import *
from vendored_thing import *
from helpers import (
    slugify,  # local
)
`,
		"src/helpers.py":        "def slugify(text):\n    return text\n",
		"src/tools.py":          "TOOL = 1\n",
		"lib/mypkg/__init__.py": "",
		"lib/mypkg/sub.py":      "VALUE = 1\n",
		"venv/lib/site.py":      "import only_in_venv\n",
	}
}

func TestRun_GeneratedModuleImportsLocalStarModules(t *testing.T) {
	fs, opts := osFixture(t, pythonRepo())

	result, err := Run(fs, opts)
	require.NoError(t, err)

	out, err := runPython(t, result.TestFile)
	require.NoError(t, err, out)
	assert.Equal(t, "PASS True True False", out)
}

func TestRun_GeneratedModuleNamesBrokenImport(t *testing.T) {
	files := pythonRepo()
	files["src/bad.py"] = "import definitely_not_a_real_module_xyz\n"
	fs, opts := osFixture(t, files)

	result, err := Run(fs, opts)
	require.NoError(t, err)

	out, err := runPython(t, result.TestFile)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL: Import failed: ModuleNotFoundError(")
	assert.Contains(t, out, "'definitely_not_a_real_module_xyz'")
}
