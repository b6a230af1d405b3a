package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFormatsAgree(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "c.json", `{"scene_list": "s.xml", "render_size": 256, "workers": 3, "yaw": 10, "arrow_length": 0.2}`),
		writeFile(t, dir, "c.toml", "scene_list = \"s.xml\"\nrender_size = 256\nworkers = 3\nyaw = 10.0\narrow_length = 0.2\n"),
		writeFile(t, dir, "c.yaml", "scene_list: s.xml\nrender_size: 256\nworkers: 3\nyaw: 10\narrow_length: 0.2\n"),
	}

	var first Config
	for i, path := range files {
		cfg, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, "s.xml", cfg.SceneList)
		assert.Equal(t, 256, cfg.RenderSize)
		assert.Equal(t, 3, cfg.Workers)
		require.NotNil(t, cfg.Yaw)
		assert.Equal(t, 10.0, *cfg.Yaw)
		assert.Nil(t, cfg.Pitch)
		if i == 0 {
			first = cfg
			continue
		}
		assert.Equal(t, first, cfg, path)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "c.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(writeFile(t, dir, "bad.json", "{"))
	assert.ErrorContains(t, err, "parse")
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{BaseDir: "/data", OutputDir: "out"}
	cfg.Resolve(Flags{})

	assert.Equal(t, filepath.Join("/data", "scenes.xml"), cfg.SceneList)
	assert.Equal(t, filepath.Join("/data", "textures"), cfg.TextureDir)
	assert.Equal(t, filepath.Join("/data", "out"), cfg.OutputDir)
	assert.Equal(t, 512, cfg.RenderSize)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, DefaultYaw, *cfg.Yaw)
	assert.Equal(t, DefaultPitch, *cfg.Pitch)
	assert.Equal(t, 0.01, cfg.EdgeThickness)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestResolveFlagsOverride(t *testing.T) {
	zero := 0.0
	cfg := Config{BaseDir: "/data", RenderSize: 128, Workers: 2, Yaw: &zero}
	cfg.Resolve(Flags{OutputDir: "/tmp/r", Size: 64, Workers: 7, LogLevel: "debug"})

	assert.Equal(t, "/tmp/r", cfg.OutputDir)
	assert.Equal(t, 64, cfg.RenderSize)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	// an explicit zero yaw survives
	assert.Equal(t, 0.0, *cfg.Yaw)
}
