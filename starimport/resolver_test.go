package starimport

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/importsmoke/coderoot"
)

func TestParseStar(t *testing.T) {
	ref, ok := ParseStar("from mypkg.sub import *")
	require.True(t, ok)
	assert.Equal(t, "mypkg.sub", ref.Name)

	_, ok = ParseStar("from mypkg.sub import name")
	assert.False(t, ok)
	_, ok = ParseStar("import mypkg")
	assert.False(t, ok)
	_, ok = ParseStar("from mypkg import *, x")
	assert.False(t, ok)
}

func TestModuleRef_Candidates(t *testing.T) {
	tests := []struct {
		name   string
		module string
		prefix string
		want   []string
	}{
		{name: "adds prefix", module: "mypkg.sub", prefix: "src", want: []string{"mypkg.sub", "src.mypkg.sub"}},
		{name: "removes prefix", module: "src.data_cleaning", prefix: "src", want: []string{"src.data_cleaning", "data_cleaning"}},
		{name: "bare prefix", module: "src", prefix: "src", want: []string{"src"}},
		{name: "prefix-like name", module: "srcutils.x", prefix: "src", want: []string{"srcutils.x", "src.srcutils.x"}},
		{name: "no prefix configured", module: "mypkg", prefix: "", want: []string{"mypkg"}},
		{name: "relative", module: ".sibling", prefix: "src", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModuleRef{Name: tt.module}.Candidates(tt.prefix))
		})
	}
}

func TestResolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, f := range []string{
		"/repo/lib/mypkg/__init__.py",
		"/repo/lib/mypkg/sub.py",
		"/repo/lib/nspkg/inner/mod.py",
		"/repo/src/data_cleaning.py",
	} {
		require.NoError(t, afero.WriteFile(fs, f, []byte(""), 0o644))
	}
	roots := []coderoot.Root{{Path: "/repo/lib"}, {Path: "/repo/src"}}

	t.Run("module file", func(t *testing.T) {
		res := Resolve(fs, ModuleRef{Name: "mypkg.sub"}, roots, DefaultSourcePrefix)

		assert.Equal(t, Found, res.Outcome)
		assert.Equal(t, "mypkg.sub", res.Module)
		assert.Equal(t, "/repo/lib", res.Root.Path)
		assert.Equal(t, filepath.FromSlash("/repo/lib/mypkg/sub.py"), res.Path)
	})

	t.Run("package init", func(t *testing.T) {
		res := Resolve(fs, ModuleRef{Name: "mypkg"}, roots, DefaultSourcePrefix)

		assert.Equal(t, Found, res.Outcome)
		assert.Equal(t, filepath.FromSlash("/repo/lib/mypkg/__init__.py"), res.Path)
	})

	t.Run("namespace directory", func(t *testing.T) {
		res := Resolve(fs, ModuleRef{Name: "nspkg.inner"}, roots, DefaultSourcePrefix)

		assert.Equal(t, Found, res.Outcome)
		assert.Equal(t, filepath.FromSlash("/repo/lib/nspkg/inner"), res.Path)
	})

	t.Run("src-prefixed name in flat layout", func(t *testing.T) {
		res := Resolve(fs, ModuleRef{Name: "src.data_cleaning"}, roots, DefaultSourcePrefix)

		assert.Equal(t, Found, res.Outcome)
		assert.Equal(t, "data_cleaning", res.Module)
		assert.Equal(t, "/repo/src", res.Root.Path)
	})

	t.Run("third-party module", func(t *testing.T) {
		res := Resolve(fs, ModuleRef{Name: "numpy"}, roots, DefaultSourcePrefix)

		assert.Equal(t, NotLocal, res.Outcome)
		assert.Equal(t, "numpy", res.Module)
		assert.Equal(t, "not-local", res.Outcome.String())
	})

	t.Run("relative module", func(t *testing.T) {
		res := Resolve(fs, ModuleRef{Name: ".sub"}, roots, DefaultSourcePrefix)

		assert.Equal(t, NotLocal, res.Outcome)
	})
}
