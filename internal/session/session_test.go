package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/config"
	"voxelterrain/internal/engine"
	"voxelterrain/internal/meshing"
	"voxelterrain/internal/physics"
	"voxelterrain/internal/world"
)

type recordingSink struct {
	applied  map[world.ChunkCoord]int
	released []world.ChunkCoord
}

func newRecordingSink() *recordingSink {
	return &recordingSink{applied: make(map[world.ChunkCoord]int)}
}

func (s *recordingSink) Apply(coord world.ChunkCoord, _ mgl32.Vec3, _ *meshing.Payload) {
	s.applied[coord]++
}

func (s *recordingSink) Release(coord world.ChunkCoord) {
	s.released = append(s.released, coord)
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Radius = 1
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Radius = 0
	if _, err := New(cfg, newRecordingSink(), testLogger()); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New = %v, want ErrInvalid", err)
	}
}

func TestSettleAppliesWindow(t *testing.T) {
	sink := newRecordingSink()
	s, err := New(testConfig(), sink, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Settle(context.Background(), mgl32.Vec3{}, 10)

	st := s.Streaming.Stats()
	if st.Active != 4 || st.Applied != 4 {
		t.Fatalf("stats = %+v, want 4 applied", st)
	}
	if len(sink.applied) != 4 {
		t.Errorf("sink saw %d chunks, want 4", len(sink.applied))
	}
}

func TestRaycastAndDestroy(t *testing.T) {
	sink := newRecordingSink()
	s, err := New(testConfig(), sink, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.Settle(context.Background(), mgl32.Vec3{}, 10)

	hit := s.Raycast(mgl32.Vec3{0.5, 200, 0.5}, mgl32.Vec3{0, -1, 0}, 400)
	if !hit.Hit {
		t.Fatalf("ray straight down missed the terrain")
	}
	if hit.Normal != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("normal = %v, want up", hit.Normal)
	}

	q := physics.StoreQuery{Store: s.Store}
	cell := hit.Cell
	if !q.Solid(cell[0], cell[1], cell[2]) {
		t.Fatalf("hit cell %v is not solid", cell)
	}

	affected, err := s.Destroy(hit)
	if err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if len(affected) == 0 || affected[0] != (world.ChunkCoord{}) {
		t.Errorf("affected = %v, want the origin chunk first", affected)
	}
	if q.Solid(cell[0], cell[1], cell[2]) {
		t.Errorf("cell %v still solid after destroy", cell)
	}

	s.Settle(context.Background(), mgl32.Vec3{}, 10)
	if sink.applied[world.ChunkCoord{}] != 2 {
		t.Errorf("origin chunk applied %d times, want 2", sink.applied[world.ChunkCoord{}])
	}
}

func TestDestroyMissIsNoop(t *testing.T) {
	s, err := New(testConfig(), newRecordingSink(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	affected, err := s.Destroy(physics.RaycastResult{})
	if err != nil || affected != nil {
		t.Errorf("Destroy(miss) = %v, %v", affected, err)
	}
}

func TestEngineStreamsWindow(t *testing.T) {
	s, err := New(testConfig(), newRecordingSink(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	e := s.Engine(engine.Fixed{}, engine.Options{
		TickRate: 500,
		Until: func(n uint64) bool {
			return s.Streaming.Stats().Applied == 4 || n > 5000
		},
	})
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st := s.Streaming.Stats(); st.Applied != 4 {
		t.Errorf("stats = %+v after engine run", st)
	}
}

func TestEditsWhileMeshWorkerRuns(t *testing.T) {
	sink := newRecordingSink()
	s, err := New(testConfig(), sink, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.Settle(context.Background(), mgl32.Vec3{}, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Meshing.Run(ctx) }()

	origin := world.ChunkCoord{}
	height := s.Config.Chunk.Height
	for y := range height {
		if _, err := s.Edit.DestroyVoxel(origin, 1, y, 1); err != nil {
			t.Fatalf("DestroyVoxel y=%d: %v", y, err)
		}
		s.Streaming.Tick(mgl32.Vec3{})
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run = %v, want nil after cancel", err)
	}
	s.Settle(context.Background(), mgl32.Vec3{}, 10)

	ch := s.Store.Get(origin)
	for y := range height {
		if ch.Block(1, y, 1) != world.BlockAir {
			t.Fatalf("y=%d not cleared", y)
		}
	}
	if sink.applied[origin] < 2 {
		t.Errorf("origin chunk applied %d times, want a rebuild", sink.applied[origin])
	}
}
