package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1600, cfg.Window.Width)
	assert.Equal(t, 900, cfg.Window.Height)
	assert.Equal(t, float32(70), cfg.Camera.Fov)
	assert.Equal(t, [3]float32{0, 5, 30}, cfg.Camera.Position)
	assert.Equal(t, filepath.Join("assets", "bunny.obj"), cfg.MeshPath())
	assert.Equal(t, filepath.Join("assets", "Cubemap"), cfg.SkyboxPath())
	assert.Len(t, cfg.Assets.SkyboxFaces, 6)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "oxy-sky.toml", `
[window]
width = 800

[camera]
fov = 60.0
position = [0.0, 2.0, 10.0]

[renderer]
present_mode = "uncapped"
profile = true

[log]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 900, cfg.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, float32(60), cfg.Camera.Fov)
	assert.Equal(t, [3]float32{0, 2, 10}, cfg.Camera.Position)
	assert.Equal(t, "uncapped", cfg.Renderer.PresentMode)
	assert.True(t, cfg.Renderer.Profile)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "oxy-sky.yml", `
assets:
  dir: /srv/assets
  mesh: teapot.glb
  skybox_faces: [a.png, b.png, c.png, d.png, e.png, f.png]
shader:
  path: custom.wgsl
  validate: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/assets", "teapot.glb"), cfg.MeshPath())
	assert.Equal(t, []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"}, cfg.Assets.SkyboxFaces)
	assert.Equal(t, "custom.wgsl", cfg.Shader.Path)
	assert.True(t, cfg.Shader.Validate)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown.toml":  "[window]\ncolour = 3\n",
		"unknown.yaml":  "window:\n  colour: 3\n",
		"invalid.toml":  "[camera]\nfov = 200.0\n",
		"malformed.yml": "window: [\n",
		"settings.json": "{}",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, name, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero width":       func(c *Config) { c.Window.Width = 0 },
		"negative height":  func(c *Config) { c.Window.Height = -1 },
		"zero fov":         func(c *Config) { c.Camera.Fov = 0 },
		"straight fov":     func(c *Config) { c.Camera.Fov = 180 },
		"zero near":        func(c *Config) { c.Camera.Near = 0 },
		"far before near":  func(c *Config) { c.Camera.Far = c.Camera.Near },
		"five faces":       func(c *Config) { c.Assets.SkyboxFaces = c.Assets.SkyboxFaces[:5] },
		"no mesh":          func(c *Config) { c.Assets.Mesh = "" },
		"present mode":     func(c *Config) { c.Renderer.PresentMode = "mailbox-ish" },
		"log level":        func(c *Config) { c.Log.Level = "loud" },
		"negative fps cap": func(c *Config) { c.Renderer.FrameLimit = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestUncappedIgnoresCase(t *testing.T) {
	cases := map[string]bool{
		"":            false,
		"vsync":       false,
		"FIFO":        false,
		"Uncapped":    true,
		" immediate ": true,
	}
	for mode, want := range cases {
		t.Run(mode, func(t *testing.T) {
			cfg := Default()
			cfg.Renderer.PresentMode = mode
			require.NoError(t, cfg.Validate())
			got, err := cfg.Renderer.Uncapped()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	cfg := Default()
	cfg.Renderer.PresentMode = "mailbox"
	_, err := cfg.Renderer.Uncapped()
	assert.Error(t, err)
}

func TestAbsoluteAssetPathsIgnoreDir(t *testing.T) {
	cfg := Default()
	abs, err := filepath.Abs("bunny.obj")
	require.NoError(t, err)
	cfg.Assets.Mesh = abs
	assert.Equal(t, abs, cfg.MeshPath())
}
