package shaders

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"chess-scene/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessDefinesAndIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"main.frag":       {Data: []byte("#include \"lib/common.glsl\"\nvoid main() {}\n")},
		"lib/common.glsl": {Data: []byte("  #include \"more.glsl\"\nfloat a;\n")},
		"lib/more.glsl":   {Data: []byte("float b;\n")},
	}
	out, err := Preprocess(fsys, "main.frag", []Define{{"MAX_BONES", "64"}, {Name: "HORIZONTAL"}})
	require.NoError(t, err)
	assert.Equal(t, "#version 410 core\n#define MAX_BONES 64\n#define HORIZONTAL\nfloat b;\nfloat a;\nvoid main() {}\n", out)
}

func TestPreprocessIncludeCycle(t *testing.T) {
	fsys := fstest.MapFS{
		"a.glsl": {Data: []byte("#include \"b.glsl\"\n")},
		"b.glsl": {Data: []byte("#include \"a.glsl\"\n")},
	}
	_, err := Preprocess(fsys, "a.glsl", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestPreprocessMissingFile(t *testing.T) {
	_, err := Preprocess(fstest.MapFS{}, "nope.frag", nil)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestEveryProgramResolves(t *testing.T) {
	descs := Programs(config.Default())
	names := make(map[string]bool)
	for _, d := range descs {
		assert.False(t, names[d.Name], "duplicate program %s", d.Name)
		names[d.Name] = true

		src, err := Source(Embedded(), d)
		require.NoError(t, err, d.Name)
		assert.True(t, strings.HasPrefix(src.Vertex, Version), d.Name)
		assert.NotContains(t, src.Vertex, "#include", d.Name)
		assert.NotContains(t, src.Fragment, "#include", d.Name)
		assert.Equal(t, d.Geometry != "", src.Geometry != "", d.Name)
	}
	assert.Len(t, names, 14)
}

func TestBlurDefinesFollowKernelConfig(t *testing.T) {
	s := config.Default()
	s.Post.CocKernel.Radius = 3
	for _, d := range Programs(s) {
		if d.Name != CocBlurHor {
			continue
		}
		assert.Contains(t, d.Defines, Define{"KERNEL_RADIUS", "3"})
		assert.Contains(t, d.Defines, Define{Name: "HORIZONTAL"})
		assert.Contains(t, d.Defines, Define{"BLUR_TYPE", "float"})
		return
	}
	t.Fatal("CocBlur.hor not found")
}

func TestOverlayPrefersDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.vert"), []byte("override\n"), 0o644))

	fsys := Overlay(dir)
	data, err := fs.ReadFile(fsys, "quad.vert")
	require.NoError(t, err)
	assert.Equal(t, "override\n", string(data))

	data, err = fs.ReadFile(fsys, "blend.frag")
	require.NoError(t, err)
	assert.Contains(t, string(data), "exposure")
}

func TestWatcherReportsShaderWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blend.frag"), []byte("x"), 0o644))

	select {
	case name := <-w.Changed():
		assert.Equal(t, "blend.frag", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
