// Command voxelview opens a window and flies a camera through the streamed
// terrain. Left click removes the voxel under the crosshair.
package main

import (
	"context"
	_ "embed"
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/assets"
	"voxelterrain/internal/config"
	"voxelterrain/internal/engine"
	"voxelterrain/internal/graphics"
	"voxelterrain/internal/input"
	"voxelterrain/internal/physics"
	"voxelterrain/internal/profiling"
	"voxelterrain/internal/session"
)

//go:embed shaders/chunk.vert
var chunkVert string

//go:embed shaders/chunk.frag
var chunkFrag string

const (
	winW = 1280
	winH = 720

	flySpeed         = 12.0 // voxels per second
	mouseSensitivity = 0.1
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file or URL")
		atlasPath  = flag.String("atlas", "", "atlas PNG path or URL; a placeholder grid is drawn when empty")
		fps        = flag.Int("fps", 120, "frame cap, 0 for uncapped")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fetcher, err := assets.NewFetcher("")
	if err != nil {
		log.Error("asset cache", "err", err)
		os.Exit(1)
	}
	ctx := context.Background()
	cfgPath, err := fetcher.Local(ctx, *configPath)
	if err != nil {
		log.Error("fetch config", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Resolve(cfgPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	log.Info("config loaded", "source", config.Source(cfgPath))
	atlas, err := fetcher.Local(ctx, *atlasPath)
	if err != nil {
		log.Error("fetch atlas", "err", err)
		os.Exit(1)
	}
	if err := run(cfg, atlas, *fps, log); err != nil {
		log.Error("voxelview", "err", err)
		os.Exit(1)
	}
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(winW, winH, "voxelview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Frame pacing is done by the limiter
	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	return window, nil
}

func run(cfg config.Config, atlasPath string, fps int, log *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		return err
	}

	shader, err := graphics.NewShader(chunkVert, chunkFrag)
	if err != nil {
		return err
	}
	defer shader.Delete()

	atlas, err := loadAtlas(cfg, atlasPath)
	if err != nil {
		return err
	}

	sink := graphics.NewMeshSink(log)
	defer sink.Dispose()

	s, err := session.New(cfg, sink, log)
	if err != nil {
		return err
	}
	defer s.Close()

	fbW, fbH := window.GetFramebufferSize()
	cam := graphics.NewCamera(fbW, fbH)
	cam.Eye = spawn(s)

	im := input.NewManager()
	im.Attach(window)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gl.Viewport(0, 0, int32(w), int32(h))
		if h > 0 {
			cam.AspectRatio = float32(w) / float32(h)
		}
	})

	// Workers run in the background; ticks and uploads stay on this thread.
	e := s.Engine(cam, engine.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	workers := make(chan error, 1)
	go func() { workers <- e.RunWorkers(ctx) }()
	defer func() {
		cancel()
		if err := <-workers; err != nil {
			log.Error("workers stopped", "err", err)
		}
		log.Info("profile", "top", profiling.TopN(8))
	}()

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.ClearColor(0.53, 0.72, 0.9, 1)

	shader.Use()
	shader.SetInt("atlas", 0)
	shader.SetVector3("lightDir", mgl32.Vec3{-0.4, -1, -0.3}.Normalize())

	limiter := engine.NewLimiter(fps)
	last := time.Now()
	for !window.ShouldClose() {
		glfw.PollEvents()
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if im.JustPressed(input.ActionReleaseCursor) {
			window.SetShouldClose(true)
		}
		fly(cam, im, dt*flySpeed*cfg.VoxelSize)
		if im.JustPressed(input.ActionDestroy) {
			destroy(s, cam, log)
		}
		if im.JustPressed(input.ActionReport) {
			log.Info("stats", "window", s.Streaming.Stats(), "meshes", sink.Len(), "eye", cam.Eye)
		}

		e.Step()

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		shader.Use()
		view := cam.ViewMatrix()
		proj := cam.ProjectionMatrix()
		shader.SetMatrix4("view", &view[0])
		shader.SetMatrix4("proj", &proj[0])
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, atlas)
		sink.Draw(shader, graphics.NewFrustum(proj.Mul4(view)))

		window.SwapBuffers()
		im.PostUpdate()
		if err := limiter.Wait(ctx); err != nil {
			break
		}
	}
	return nil
}

func loadAtlas(cfg config.Config, path string) (uint32, error) {
	if path != "" {
		return graphics.GetTexture(path)
	}
	return graphics.UploadTexture(graphics.PlaceholderAtlas(cfg.Atlas.Columns, cfg.Atlas.Rows, 16)), nil
}

// spawn places the camera a few voxels above the surface at the origin.
func spawn(s *session.Session) mgl32.Vec3 {
	h := s.Generator.HeightAt(0, 0)
	voxel := s.Config.VoxelSize
	y := float32(h-s.Config.Chunk.Height/2+4) * voxel
	return mgl32.Vec3{0.5 * voxel, y, 0.5 * voxel}
}

func fly(cam *graphics.Camera, im *input.Manager, step float32) {
	dx, dy := im.CursorDelta()
	cam.Look(float32(dx)*mouseSensitivity, -float32(dy)*mouseSensitivity)

	if im.IsActive(input.ActionFast) {
		step *= 4
	}
	var forward, right, up float32
	if im.IsActive(input.ActionMoveForward) {
		forward += step
	}
	if im.IsActive(input.ActionMoveBackward) {
		forward -= step
	}
	if im.IsActive(input.ActionMoveRight) {
		right += step
	}
	if im.IsActive(input.ActionMoveLeft) {
		right -= step
	}
	if im.IsActive(input.ActionAscend) {
		up += step
	}
	if im.IsActive(input.ActionDescend) {
		up -= step
	}
	cam.Move(forward, right, up)
}

func destroy(s *session.Session, cam *graphics.Camera, log *slog.Logger) {
	hit := s.Raycast(cam.Eye, cam.Front(), physics.MaxReachDistance*s.Config.VoxelSize)
	if !hit.Hit {
		return
	}
	remeshed, err := s.Destroy(hit)
	if err != nil {
		log.Warn("destroy failed", "cell", hit.Cell, "err", err)
		return
	}
	log.Debug("voxel destroyed", "cell", hit.Cell, "remeshed", remeshed)
}
