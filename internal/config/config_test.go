package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	assert.Equal(t, 1024, s.Lights.ShadowMapResolution)
	assert.Equal(t, Kernel{Radius: 15, Sigma: 16}, s.Post.BloomKernel)
	assert.Equal(t, Kernel{Radius: 2, Sigma: 4}, s.Post.DofKernel)
	assert.Equal(t, Kernel{Radius: 2, Sigma: 6}, s.Post.CocKernel)
	assert.Equal(t, time.Millisecond, s.Animation.LampTick.D())
}

func TestDecodeOverridesOnlyGivenKeys(t *testing.T) {
	in := `
[post]
bloom_k = 0.25
focus_pull_duration = "1s"

[camera]
position = [1.0, 2.0, 3.0]
`
	s, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, float32(0.25), s.Post.BloomK)
	assert.Equal(t, time.Second, s.Post.FocusPullDuration.D())
	assert.Equal(t, [3]float32{1, 2, 3}, s.Camera.Position)

	// untouched
	assert.Equal(t, float32(0.5), s.Post.DofK)
	assert.Equal(t, 1366, s.Window.Width)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[post]\nbloom_strength = 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")

	_, err = Decode(strings.NewReader("[bones]\nmax_attribs_per_vertex = 2\n"))
	assert.ErrorContains(t, err, "unknown keys")
}

func TestShadowUnitsFitTextureUnits(t *testing.T) {
	s := Default()
	s.Lights.PointLimit, s.Lights.DirLimit = 5, 5
	assert.NoError(t, s.Validate())

	s.Lights.DirLimit = 6
	assert.ErrorContains(t, s.Validate(), "shadow maps need units 6..16")
}

func TestDecodeRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"scale factor":  "[post]\ndof_k = 1.5\n",
		"light count":   "[lights]\npoint_count = 5\n",
		"shadow units":  "[lights]\npoint_limit = 8\ndir_limit = 8\n",
		"shadow slot":   "[lights]\nshadow_map_initial_slot = 2\n",
		"kernel radius": "[post.bloom_kernel]\nradius = 0\n",
		"camera planes": "[camera]\nnear = 10.0\nfar = 5.0\n",
		"duration":      "[animation]\nlamp_tick = \"soon\"\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"chess\"\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "chess", s.Window.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestGetSet(t *testing.T) {
	orig := Get()
	t.Cleanup(func() { Set(orig) })

	s := Default()
	s.Post.Exposure = 2
	Set(s)
	assert.Equal(t, float32(2), Get().Post.Exposure)
}
