package pipeline

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/importsmoke/coderoot"
	"github.com/LegacyCodeHQ/importsmoke/starimport"
)

const repoRoot = "/repo"

const notebook = `{
 "cells": [
  {"cell_type": "markdown", "source": "import from_markdown"},
  {"cell_type": "code", "source": ["import pandas as pd\n", "from src.data_cleaning import *\n"]}
 ]
}`

func fixture(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/repo/src/data_cleaning.py": "import pandas as pd\nimport numpy as np\n",
		"/repo/src/pipeline.py": `import pandas as pd
from sklearn.pipeline import Pipeline, FunctionTransformer
from src.data_cleaning import clean_data  # local
from pkg import (
    foo,  # used later
    bar as b,
)
`,
		"/repo/src/legacy.py":          "from mypkg.sub import *\nfrom vendored_thing import *\n",
		"/repo/lib/mypkg/__init__.py":  "",
		"/repo/lib/mypkg/sub.py":       "# import commented\n\n",
		"/repo/notebooks/eda.ipynb":    notebook,
		"/repo/.venv/lib/site.py":      "import only_in_venv\n",
		"/repo/build/lib/src/x.py":     "import only_in_build\n",
		"/repo/src/__pycache__/c.py":   "import only_in_cache\n",
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func options() Options {
	return Options{
		RepoRoot:     repoRoot,
		ImportsPath:  "tests/all_imports.txt",
		TestPath:     "tests/test_all_imports.py",
		Ignore:       coderoot.DefaultIgnore(),
		SourcePrefix: starimport.DefaultSourcePrefix,
	}
}

func TestExtract_BuildsSortedDeduplicatedImports(t *testing.T) {
	fs := fixture(t)

	extraction, err := Extract(fs, options())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"from mypkg.sub import *",
		"from pkg import (foo, bar as b,)",
		"from sklearn.pipeline import Pipeline, FunctionTransformer",
		"from src.data_cleaning import *",
		"from src.data_cleaning import clean_data",
		"from vendored_thing import *",
		"import numpy as np",
		"import pandas as pd",
	}, extraction.Imports)
	assert.Equal(t, 6, extraction.Files)

	sources, err := extraction.Provenance.Sources("import pandas as pd")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/repo/notebooks/eda.ipynb",
		"/repo/src/data_cleaning.py",
		"/repo/src/pipeline.py",
	}, sources)
}

func TestRun_WritesArtifactsAndResolvesStars(t *testing.T) {
	fs := fixture(t)

	result, err := Run(fs, options())
	require.NoError(t, err)

	list, err := afero.ReadFile(fs, "/repo/tests/all_imports.txt")
	require.NoError(t, err)
	assert.NotContains(t, string(list), "#")
	assert.NotContains(t, string(list), "\n\n")
	assert.NotContains(t, string(list), "only_in_")

	module, err := afero.ReadFile(fs, "/repo/tests/test_all_imports.py")
	require.NoError(t, err)
	assert.Contains(t, string(module), `REPO_ROOT = os.path.normpath(os.path.join(os.path.dirname(os.path.abspath(__file__)), ".."))`)
	assert.Contains(t, string(module), `        _import_star_if_local("mypkg.sub")`)
	assert.Contains(t, string(module), `        _import_star_if_local("src.data_cleaning")`)
	assert.Contains(t, string(module), "        from pkg import (foo, bar as b,)\n")
	assert.NotContains(t, string(module), "import *")

	assert.Equal(t, []coderoot.Root{{Path: "/repo/lib"}, {Path: "/repo/src"}}, result.Roots)

	outcomes := map[string]starimport.Outcome{}
	for _, star := range result.Stars {
		outcomes[star.Line] = star.Resolution.Outcome
	}
	assert.Equal(t, map[string]starimport.Outcome{
		"from mypkg.sub import *":         starimport.Found,
		"from src.data_cleaning import *": starimport.Found,
		"from vendored_thing import *":    starimport.NotLocal,
	}, outcomes)
}

func TestRun_IsIdempotent(t *testing.T) {
	fs := fixture(t)

	_, err := Run(fs, options())
	require.NoError(t, err)
	firstList, _ := afero.ReadFile(fs, "/repo/tests/all_imports.txt")
	firstModule, _ := afero.ReadFile(fs, "/repo/tests/test_all_imports.py")

	_, err = Run(fs, options())
	require.NoError(t, err)
	secondList, _ := afero.ReadFile(fs, "/repo/tests/all_imports.txt")
	secondModule, _ := afero.ReadFile(fs, "/repo/tests/test_all_imports.py")

	assert.Equal(t, string(firstList), string(secondList))
	assert.Equal(t, string(firstModule), string(secondModule))
}

func TestRun_BrokenImportReachesTestBody(t *testing.T) {
	fs := fixture(t)
	require.NoError(t, afero.WriteFile(fs, "/repo/src/bad.py", []byte("import definitely_not_a_real_module_xyz\n"), 0o644))

	_, err := Run(fs, options())
	require.NoError(t, err)

	module, err := afero.ReadFile(fs, "/repo/tests/test_all_imports.py")
	require.NoError(t, err)
	assert.Contains(t, string(module), "        import definitely_not_a_real_module_xyz\n")
}

func TestRun_MissingRepositoryFails(t *testing.T) {
	opts := options()
	opts.RepoRoot = "/nowhere"

	_, err := Run(afero.NewMemMapFs(), opts)

	assert.Error(t, err)
}

func TestOptions_ResolvesArtifactPaths(t *testing.T) {
	opts := options()
	opts.TestPath = "/abs/test_x.py"

	assert.Equal(t, "/repo/tests/all_imports.txt", opts.ImportsFile())
	assert.Equal(t, "/abs/test_x.py", opts.TestFile())
}
