// Command voxelstream walks a reference point through the world without a
// window and logs how the streaming window keeps up.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/assets"
	"voxelterrain/internal/config"
	"voxelterrain/internal/engine"
	"voxelterrain/internal/meshing"
	"voxelterrain/internal/profiling"
	"voxelterrain/internal/session"
	"voxelterrain/internal/terrain"
	"voxelterrain/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file or URL")
		ticks      = flag.Int("ticks", 600, "ticks to run before stopping")
		rate       = flag.Int("rate", 60, "ticks per second, 0 for unpaced")
		speed      = flag.Float64("speed", 0.5, "distance travelled along +X per tick")
		radius     = flag.Int("radius", 0, "override the configured radius")
		heightmap  = flag.String("heightmap", "", "write a PNG preview of the first layer and exit")
		previewW   = flag.Int("preview-size", 256, "preview width and height in columns")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(ctx, *configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	log.Info("config loaded", "source", config.Source(*configPath))
	if *radius > 0 {
		cfg.Radius = *radius
	}

	if *heightmap != "" {
		if err := writePreview(cfg, *heightmap, *previewW); err != nil {
			log.Error("heightmap preview", "err", err)
			os.Exit(1)
		}
		log.Info("heightmap written", "path", *heightmap)
		return
	}

	if err := run(ctx, cfg, *ticks, *rate, float32(*speed), log); err != nil {
		log.Error("voxelstream", "err", err)
		os.Exit(1)
	}
}

// resolveConfig accepts a local path or any fetchable URL.
func resolveConfig(ctx context.Context, src string) (config.Config, error) {
	fetcher, err := assets.NewFetcher("")
	if err != nil {
		return config.Config{}, err
	}
	path, err := fetcher.Local(ctx, src)
	if err != nil {
		return config.Config{}, err
	}
	return config.Resolve(path)
}

func run(ctx context.Context, cfg config.Config, ticks, rate int, speed float32, log *slog.Logger) error {
	sink := &logSink{log: log}
	s, err := session.New(cfg, sink, log)
	if err != nil {
		return err
	}
	defer s.Close()

	path := &walk{step: mgl32.Vec3{speed, 0, 0}}
	e := s.Engine(path, engine.Options{
		TickRate: rate,
		Until: func(n uint64) bool {
			if n%60 == 0 {
				report(log, s)
			}
			return n >= uint64(ticks)
		},
	})

	log.Info("streaming", "seed", cfg.Seed, "radius", cfg.Radius, "ticks", ticks, "strategy", cfg.Generator.Strategy)
	if err := e.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	report(log, s)
	log.Info("sink totals", "applied", sink.applied, "released", sink.released, "vertices", sink.vertices)
	log.Info("profile", "top", profiling.TopN(6))
	return nil
}

func report(log *slog.Logger, s *session.Session) {
	st := s.Streaming.Stats()
	log.Info("window",
		"center", st.Center,
		"active", st.Active,
		"applied", st.Applied,
		"pendingGeneration", st.PendingGeneration,
		"pendingMesh", st.PendingMesh,
		"stored", st.StoredChunks,
		"generated", s.Generation.Generated(),
		"built", s.Meshing.Built(),
		"failed", s.Generation.Failed()+s.Meshing.Failed(),
	)
}

// walk moves the reference point by step on every call.
type walk struct {
	pos  mgl32.Vec3
	step mgl32.Vec3
}

func (w *walk) Position() mgl32.Vec3 {
	p := w.pos
	w.pos = w.pos.Add(w.step)
	return p
}

// logSink stands in for a renderer and only counts uploads.
type logSink struct {
	log      *slog.Logger
	applied  int
	released int
	vertices int
}

func (s *logSink) Apply(coord world.ChunkCoord, origin mgl32.Vec3, p *meshing.Payload) {
	s.applied++
	s.vertices += len(p.Vertices)
	s.log.Debug("mesh applied", "chunk", coord, "origin", origin, "faces", p.Faces())
}

func (s *logSink) Release(coord world.ChunkCoord) {
	s.released++
	s.log.Debug("mesh released", "chunk", coord)
}

func writePreview(cfg config.Config, path string, size int) error {
	layers, err := terrain.BuildLayers(cfg.Terrain().Layers)
	if err != nil {
		return err
	}
	if len(layers) == 0 {
		return fmt.Errorf("no heightmap layers configured")
	}
	return terrain.SaveHeightmap(path, layers[0], size, size, 2)
}
