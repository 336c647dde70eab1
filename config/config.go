// Package config loads the oxy-sky settings from a TOML or YAML file layered over built-in defaults.
package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Assets   AssetsConfig   `toml:"assets" yaml:"assets"`
	Camera   CameraConfig   `toml:"camera" yaml:"camera"`
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Shader   ShaderConfig   `toml:"shader" yaml:"shader"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// WindowConfig sizes and names the window.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

// AssetsConfig locates the mesh and the six skybox faces. Relative paths resolve against Dir.
type AssetsConfig struct {
	Dir         string   `toml:"dir" yaml:"dir"`
	Mesh        string   `toml:"mesh" yaml:"mesh"`
	SkyboxDir   string   `toml:"skybox_dir" yaml:"skybox_dir"`
	SkyboxFaces []string `toml:"skybox_faces" yaml:"skybox_faces"`
}

// CameraConfig holds the initial camera parameters.
type CameraConfig struct {
	Fov        float32    `toml:"fov" yaml:"fov"`
	Near       float32    `toml:"near" yaml:"near"`
	Far        float32    `toml:"far" yaml:"far"`
	Position   [3]float32 `toml:"position" yaml:"position"`
	OrbitSpeed float32    `toml:"orbit_speed" yaml:"orbit_speed"`
}

// RendererConfig selects presentation and diagnostics behavior.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode   string     `toml:"present_mode" yaml:"present_mode"`
	ForceSoftware bool       `toml:"force_software" yaml:"force_software"`
	ClearColor    [4]float64 `toml:"clear_color" yaml:"clear_color"`
	MeshColor     [4]float32 `toml:"mesh_color" yaml:"mesh_color"`
	// FrameLimit caps redraws per second; 0 leaves the loop uncapped.
	FrameLimit float64 `toml:"frame_limit" yaml:"frame_limit"`
	Profile    bool    `toml:"profile" yaml:"profile"`
}

// ShaderConfig points at an optional shader override.
type ShaderConfig struct {
	// Path replaces the embedded scene shader when set.
	Path     string `toml:"path" yaml:"path"`
	Validate bool   `toml:"validate" yaml:"validate"`
}

// LogConfig sets the log verbosity.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-sky",
			Width:  1600,
			Height: 900,
		},
		Assets: AssetsConfig{
			Dir:       "assets",
			Mesh:      "bunny.obj",
			SkyboxDir: "Cubemap",
			SkyboxFaces: []string{
				"yellowcloud_lf.jpg",
				"yellowcloud_rt.jpg",
				"yellowcloud_up.jpg",
				"yellowcloud_dn.jpg",
				"yellowcloud_ft.jpg",
				"yellowcloud_bk.jpg",
			},
		},
		Camera: CameraConfig{
			Fov:        70,
			Near:       0.01,
			Far:        1000,
			Position:   [3]float32{0, 5, 30},
			OrbitSpeed: 0.5,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			ClearColor:  [4]float64{0, 0, 0, 1},
			MeshColor:   [4]float32{1, 1, 1, 1},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the file at path over the defaults. The decoder is chosen by extension: .toml, .yaml or .yml.
// Unknown keys are rejected. An empty path returns the defaults.
//
// Parameters:
//   - path: the configuration file, or ""
//
// Returns:
//   - Config: the validated configuration
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to decode %s", path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to decode %s", path)
		}
	default:
		return Config{}, errors.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate checks the ranges the rest of the program relies on.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return errors.Errorf("camera fov must be in (0, 180), got %v", c.Camera.Fov)
	case c.Camera.Near <= 0:
		return errors.Errorf("camera near plane must be positive, got %v", c.Camera.Near)
	case c.Camera.Far <= c.Camera.Near:
		return errors.Errorf("camera far plane %v must exceed near plane %v", c.Camera.Far, c.Camera.Near)
	case len(c.Assets.SkyboxFaces) != 6:
		return errors.Errorf("skybox needs exactly 6 faces, got %d", len(c.Assets.SkyboxFaces))
	case c.Assets.Mesh == "":
		return errors.New("assets.mesh must be set")
	case c.Renderer.FrameLimit < 0:
		return errors.Errorf("frame limit must not be negative, got %v", c.Renderer.FrameLimit)
	}

	if _, err := c.Renderer.Uncapped(); err != nil {
		return err
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Uncapped reports whether PresentMode asks for immediate presentation. Case and surrounding
// spaces are ignored; an empty mode means vsync.
func (r RendererConfig) Uncapped() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(r.PresentMode)) {
	case "", "vsync", "fifo":
		return false, nil
	case "uncapped", "immediate":
		return true, nil
	default:
		return false, errors.Errorf("unknown present mode %q", r.PresentMode)
	}
}

// MeshPath returns the mesh file path.
func (c Config) MeshPath() string {
	return resolve(c.Assets.Dir, c.Assets.Mesh)
}

// SkyboxPath returns the directory holding the skybox faces.
func (c Config) SkyboxPath() string {
	return resolve(c.Assets.Dir, c.Assets.SkyboxDir)
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// SlogLevel parses Level. An empty level means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errors.Wrapf(err, "invalid log level %q", l.Level)
	}
	return level, nil
}
