package engine

import (
	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/config"
	"github.com/Carmen-Shannon/oxy-sky/engine/camera"
	"github.com/Carmen-Shannon/oxy-sky/engine/loader"
	"github.com/Carmen-Shannon/oxy-sky/engine/model"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sky/engine/skybox"
	"github.com/Carmen-Shannon/oxy-sky/engine/uniform"
	"github.com/Carmen-Shannon/oxy-sky/engine/window"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// NewEngineFromConfig opens the window and builds every GPU resource the scene needs:
// graphics context, scene shader, both pipelines, camera, uniform block, mesh geometry,
// skybox cubemap and the frame renderer. Anything built before a failure is released.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - Engine: the ready-to-run engine; the caller owns Release
//   - error: an *renderer.InitializationError for device and pipeline failures, or a *common.AssetError for unreadable assets
func NewEngineFromConfig(cfg config.Config) (_ Engine, err error) {
	var releasers []func()
	defer func() {
		if err != nil {
			for i := len(releasers) - 1; i >= 0; i-- {
				releasers[i]()
			}
		}
	}()

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return nil, &renderer.InitializationError{Stage: "window", Err: err}
	}
	releasers = append(releasers, func() {
		if cerr := win.Close(); cerr != nil {
			common.Logger().Debug("window close", "error", cerr)
		}
	})

	uncapped, err := cfg.Renderer.Uncapped()
	if err != nil {
		return nil, &renderer.InitializationError{Stage: "config", Err: err}
	}
	presentMode := renderer.PresentModeVSync
	if uncapped {
		presentMode = renderer.PresentModeUncapped
	}

	ctx, err := renderer.NewGraphicsContext(win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	)
	if err != nil {
		return nil, err
	}
	releasers = append(releasers, ctx.Release)

	shaderOpts := []shader.ShaderBuilderOption{shader.WithValidation(cfg.Shader.Validate)}
	if cfg.Shader.Path != "" {
		shaderOpts = append(shaderOpts, shader.WithSourceFromPath(cfg.Shader.Path))
	}
	program, err := shader.NewShader("scene", shaderOpts...)
	if err != nil {
		return nil, &renderer.InitializationError{Stage: "shader", Err: err}
	}

	pipelines, err := renderer.NewRenderPipelines(ctx, program)
	if err != nil {
		return nil, err
	}

	width, height := ctx.Size()
	pos := cfg.Camera.Position
	cam, err := camera.NewCamera(
		camera.WithFov(cfg.Camera.Fov),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithAspect(aspect(width, height)),
		camera.WithPosition(mgl32.Vec3{pos[0], pos[1], pos[2]}),
		camera.WithOrbitSpeed(cfg.Camera.OrbitSpeed),
	)
	if err != nil {
		return nil, errors.Wrap(err, "camera")
	}

	uniforms, err := uniform.NewUniformBuffer(ctx, cam)
	if err != nil {
		return nil, &renderer.InitializationError{Stage: "uniforms", Err: err}
	}
	releasers = append(releasers, uniforms.Release)

	mesh, err := loader.NewLoader().Load(cfg.MeshPath())
	if err != nil {
		return nil, err
	}
	geometry, err := model.NewGeometryBuffer(ctx, mesh, model.WithColor(cfg.Renderer.MeshColor))
	if err != nil {
		return nil, &renderer.InitializationError{Stage: "geometry", Err: err}
	}
	releasers = append(releasers, geometry.Release)

	faces, err := skybox.LoadFaces(cfg.SkyboxPath(), cfg.Assets.SkyboxFaces)
	if err != nil {
		return nil, err
	}
	sky, err := skybox.NewSkyboxTexture(ctx, faces)
	if err != nil {
		return nil, &renderer.InitializationError{Stage: "skybox", Err: err}
	}
	releasers = append(releasers, sky.Release)

	c := cfg.Renderer.ClearColor
	frame, err := renderer.NewFrameRenderer(ctx, uniforms, geometry, sky, pipelines,
		renderer.WithClearColor(wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}),
	)
	if err != nil {
		return nil, err
	}

	common.Logger().Info("scene ready",
		"mesh", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", len(mesh.Indices)/3,
		"skybox", faces.Width,
	)

	// The window is closed by Engine.Release itself, so it is not handed over as a releaser.
	options := []EngineBuilderOption{
		WithWindow(win),
		WithGraphicsContext(ctx),
		WithCamera(cam),
		WithFrameRenderer(frame),
		WithProfiling(cfg.Renderer.Profile),
		WithRenderFrameLimit(cfg.Renderer.FrameLimit),
	}
	for _, release := range releasers[1:] {
		options = append(options, WithReleaser(release))
	}
	return NewEngine(options...)
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
