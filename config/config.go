// Package config loads the YAML configuration of the scene viewer and the
// defaults it pushes into the scene graph.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/scenegraph"
	"github.com/gekko3d/scenegraph/logging"
	"github.com/gekko3d/scenegraph/render/projector"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

type Config struct {
	Log         Log         `yaml:"log"`
	Scene       Scene       `yaml:"scene"`
	RenderLists RenderLists `yaml:"renderLists"`
	Projector   Projector   `yaml:"projector"`
	Viewer      Viewer      `yaml:"viewer"`
}

type Log struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

type Scene struct {
	DefaultUp               [3]float64 `yaml:"defaultUp"`
	DefaultMatrixAutoUpdate bool       `yaml:"defaultMatrixAutoUpdate"`
}

type RenderLists struct {
	InitialCapacity int `yaml:"initialCapacity"`
}

type Projector struct {
	SortObjects    bool `yaml:"sortObjects"`
	FrustumCulling bool `yaml:"frustumCulling"`
}

type Viewer struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Title      string     `yaml:"title"`
	ClearColor [4]float64 `yaml:"clearColor"`
	Fov        float64    `yaml:"fov"`
}

func Default() Config {
	return Config{
		Log: Log{Prefix: "sceneview"},
		Scene: Scene{
			DefaultUp:               [3]float64{0, 1, 0},
			DefaultMatrixAutoUpdate: true,
		},
		RenderLists: RenderLists{InitialCapacity: 64},
		Projector:   Projector{SortObjects: true, FrustumCulling: true},
		Viewer: Viewer{
			Width:      1280,
			Height:     720,
			Title:      "sceneview",
			ClearColor: [4]float64{0.1, 0.1, 0.12, 1},
			Fov:        60,
		},
	}
}

// Load reads path on top of Default. A missing path is not an error when
// path is empty.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if mgl64.Vec3(c.Scene.DefaultUp).Len() == 0 {
		errs = append(errs, errors.New("scene.defaultUp must not be zero"))
	}
	if c.RenderLists.InitialCapacity < 0 {
		errs = append(errs, fmt.Errorf("renderLists.initialCapacity %d is negative", c.RenderLists.InitialCapacity))
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewer size %dx%d must be positive", c.Viewer.Width, c.Viewer.Height))
	}
	if c.Viewer.Fov <= 0 || c.Viewer.Fov >= 180 {
		errs = append(errs, fmt.Errorf("viewer.fov %g out of (0, 180)", c.Viewer.Fov))
	}
	for i, v := range c.Viewer.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("viewer.clearColor[%d] %g out of [0, 1]", i, v))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// Apply pushes the scene defaults into the scene graph package. Nodes
// created afterwards pick them up.
func (c Config) Apply() {
	scenegraph.DefaultUp = mgl64.Vec3(c.Scene.DefaultUp).Normalize()
	scenegraph.DefaultMatrixAutoUpdate = c.Scene.DefaultMatrixAutoUpdate
}

func (c Config) Logger() *logging.DefaultLogger {
	return logging.NewDefaultLogger(c.Log.Prefix, c.Log.Debug)
}

func (c Config) RenderListOptions(logger logging.Logger) renderlist.Options {
	return renderlist.Options{InitialCapacity: c.RenderLists.InitialCapacity, Logger: logging.Named(logger, "renderlist")}
}

func (c Config) ProjectorOptions(logger logging.Logger) projector.Options {
	return projector.Options{
		SortObjects:    c.Projector.SortObjects,
		FrustumCulling: c.Projector.FrustumCulling,
		AutoUpdate:     true,
		Logger:         logging.Named(logger, "projector"),
	}
}
