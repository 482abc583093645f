package thicket

import (
	"errors"
	"testing"
)

func newTestScheduler(t *testing.T, r *RecordingRenderer, mutate func(*Config)) *BatchScheduler {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewBatchScheduler(r, cfg)
	if err != nil {
		t.Fatalf("NewBatchScheduler: %v", err)
	}
	t.Cleanup(func() {
		SetFaceCulling(false)
		globalDebug = false
	})
	return s
}

func mustBegin(t *testing.T, s *BatchScheduler) {
	t.Helper()
	if err := s.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
}

func mustSubmit(t *testing.T, s *BatchScheduler, p Primitive) {
	t.Helper()
	if err := s.Submit(p); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

// --- Frame lifecycle ---

func TestSubmitOutsideFrame(t *testing.T) {
	s := newTestScheduler(t, NewRecordingRenderer(8, 1024), nil)
	if err := s.Submit(trianglePrim()); !errors.Is(err, ErrNotInFrame) {
		t.Errorf("err = %v, want ErrNotInFrame", err)
	}
}

func TestBeginFrameTwice(t *testing.T) {
	s := newTestScheduler(t, NewRecordingRenderer(8, 1024), nil)
	mustBegin(t, s)
	if err := s.BeginFrame(); !errors.Is(err, ErrFrameInProgress) {
		t.Errorf("err = %v, want ErrFrameInProgress", err)
	}
	if !s.InFrame() {
		t.Error("InFrame should be true")
	}
	s.EndFrame()
	if s.InFrame() {
		t.Error("InFrame should be false after EndFrame")
	}
}

func TestEndFrameWithoutBegin(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	if stats := s.EndFrame(); stats != (FrameStats{}) {
		t.Errorf("stats = %+v, want zero", stats)
	}
	if len(r.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(r.Draws))
	}
}

func TestSingleBatchFrame(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	mustBegin(t, s)
	for range 10 {
		mustSubmit(t, s, quadPrim(nil))
	}
	if len(r.Draws) != 0 {
		t.Fatal("nothing should be drawn before EndFrame")
	}
	stats := s.EndFrame()
	if len(r.Draws) != 1 || stats.DrawCalls != 1 {
		t.Fatalf("draws = %d, DrawCalls = %d, want 1", len(r.Draws), stats.DrawCalls)
	}
	if stats.Submitted != 10 || stats.Vertices != 40 || stats.Indices != 60 {
		t.Errorf("stats = %+v", stats)
	}
}

// --- Overflow ---

func TestOverflowFlushesAndRetries(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, func(c *Config) { c.MaxVertices = 8 })
	mustBegin(t, s)
	mustSubmit(t, s, quadPrim(nil))
	mustSubmit(t, s, quadPrim(nil))
	if len(r.Draws) != 0 {
		t.Fatal("batch filled exactly; no flush expected yet")
	}
	mustSubmit(t, s, quadPrim(nil))
	if len(r.Draws) != 1 {
		t.Fatalf("draws after overflow = %d, want 1", len(r.Draws))
	}
	if len(r.Draws[0].Indices) != 12 {
		t.Errorf("first draw indices = %d, want 12", len(r.Draws[0].Indices))
	}

	stats := s.EndFrame()
	if len(r.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(r.Draws))
	}
	if !equalIndices(r.Draws[1].Indices, []uint32{0, 1, 2, 0, 2, 3}) {
		t.Errorf("retried primitive indices = %v", r.Draws[1].Indices)
	}
	if stats.Overflows != 1 || stats.DrawCalls != 2 {
		t.Errorf("Overflows = %d, DrawCalls = %d", stats.Overflows, stats.DrawCalls)
	}
}

func TestOverflowOnTextureSlots(t *testing.T) {
	r := NewRecordingRenderer(2, 1024)
	s := newTestScheduler(t, r, nil)
	mustBegin(t, s)
	for range 5 {
		mustSubmit(t, s, quadPrim(newFakeTexture(1, 1)))
	}
	s.EndFrame()
	if len(r.Draws) != 3 {
		t.Fatalf("draws = %d, want 3 for 5 textures in 2 slots", len(r.Draws))
	}
	for i, d := range r.Draws {
		if len(d.Textures) > 2 {
			t.Errorf("draw %d bound %d textures", i, len(d.Textures))
		}
	}
}

func TestPrimitiveTooLarge(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, func(c *Config) { c.MaxVertices = 3 })
	mustBegin(t, s)
	mustSubmit(t, s, trianglePrim())
	if err := s.Submit(quadPrim(nil)); !errors.Is(err, ErrPrimitiveTooLarge) {
		t.Fatalf("err = %v, want ErrPrimitiveTooLarge", err)
	}
	stats := s.EndFrame()
	if stats.Overflows != 0 {
		t.Errorf("oversized primitive must not flush, Overflows = %d", stats.Overflows)
	}
	if len(r.Draws) != 1 || len(r.Draws[0].Indices) != 3 {
		t.Error("pending triangle should still be drawn once")
	}
}

// --- Culling and skipping ---

func TestSubmitCullsOutsideCamera(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	cam := NewCamera2D(10, 10)
	cam.CullEnabled = true
	s.SetCamera(cam)

	near := NewRectangle(1, 1)
	far := NewRectangle(1, 1)
	far.Transform().SetPosition(100, 100)

	mustBegin(t, s)
	mustSubmit(t, s, near)
	mustSubmit(t, s, far)
	stats := s.EndFrame()
	if stats.Culled != 1 || stats.Submitted != 2 {
		t.Errorf("Culled = %d, Submitted = %d", stats.Culled, stats.Submitted)
	}
	if len(r.Draws) != 1 || len(r.Draws[0].Vertices) != 4 {
		t.Error("only the visible rectangle should be drawn")
	}
}

func TestCullingDisabledByDefault(t *testing.T) {
	s := newTestScheduler(t, NewRecordingRenderer(8, 1024), nil)
	s.SetCamera(NewCamera2D(10, 10))
	far := NewRectangle(1, 1)
	far.Transform().SetPosition(100, 100)
	mustBegin(t, s)
	mustSubmit(t, s, far)
	if stats := s.EndFrame(); stats.Culled != 0 {
		t.Errorf("Culled = %d, want 0", stats.Culled)
	}
}

func TestSubmitSkipsPrimitivesWithoutTriangles(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	bowtie := NewPolygon([]Vec2{{0, 0}, {2, 2}, {2, 0}, {0, 2}})

	mustBegin(t, s)
	mustSubmit(t, s, bowtie)
	mustSubmit(t, s, &testPrim{verts: make([]Vertex, 2)})
	stats := s.EndFrame()
	if stats.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", stats.Skipped)
	}
	if len(r.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(r.Draws))
	}
}

func TestDisposedCameraDrawsWithIdentity(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	cam := NewCamera2D(4, 4)
	cam.SetZoom(2)
	s.SetCamera(cam)
	cam.Dispose()
	if s.Camera() != nil {
		t.Error("Camera() should be nil after dispose")
	}

	mustBegin(t, s)
	mustSubmit(t, s, trianglePrim())
	s.EndFrame()
	assertMatrix(t, "vp", r.Draws[0].Matrix, IdentityMatrix)
}

// --- Static pool ---

func TestStaticPoolDrawnInBeginFrame(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	if err := s.SubmitStatic(NewRectangle(1, 1)); err != nil {
		t.Fatalf("SubmitStatic: %v", err)
	}
	if err := s.SubmitStatic(NewCircle(1, 8)); err != nil {
		t.Fatalf("SubmitStatic: %v", err)
	}
	if s.StaticBatches() != 1 {
		t.Fatalf("StaticBatches = %d, want 1", s.StaticBatches())
	}

	for frame := 1; frame <= 2; frame++ {
		mustBegin(t, s)
		if len(r.Draws) != frame {
			t.Fatalf("frame %d: static pool not drawn in BeginFrame", frame)
		}
		stats := s.EndFrame()
		if stats.StaticBatches != 1 || stats.DrawCalls != 1 {
			t.Errorf("frame %d stats = %+v", frame, stats)
		}
	}
	if len(r.Draws[0].Vertices) != 12 {
		t.Errorf("static vertices = %d, want 12", len(r.Draws[0].Vertices))
	}
}

func TestStaticPoolGrows(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, func(c *Config) { c.MaxVertices = 4 })
	for range 3 {
		if err := s.SubmitStatic(quadPrim(nil)); err != nil {
			t.Fatalf("SubmitStatic: %v", err)
		}
	}
	if s.StaticBatches() != 3 {
		t.Fatalf("StaticBatches = %d, want 3", s.StaticBatches())
	}
	mustBegin(t, s)
	if stats := s.EndFrame(); stats.StaticBatches != 3 || stats.Overflows != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStaticTooLarge(t *testing.T) {
	s := newTestScheduler(t, NewRecordingRenderer(8, 1024), func(c *Config) { c.MaxVertices = 3 })
	if err := s.SubmitStatic(quadPrim(nil)); !errors.Is(err, ErrPrimitiveTooLarge) {
		t.Errorf("err = %v, want ErrPrimitiveTooLarge", err)
	}
	if s.StaticBatches() != 0 {
		t.Errorf("StaticBatches = %d, want 0", s.StaticBatches())
	}
}

func TestClearStatic(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	s.SubmitStatic(quadPrim(nil))
	s.ClearStatic()
	if s.StaticBatches() != 0 {
		t.Errorf("StaticBatches = %d, want 0", s.StaticBatches())
	}
	if !r.Buffers[1].Released {
		t.Error("static buffer should be released")
	}
	mustBegin(t, s)
	s.EndFrame()
	if len(r.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(r.Draws))
	}
}

func TestClearStaticAdvancesGeneration(t *testing.T) {
	s := newTestScheduler(t, NewRecordingRenderer(8, 1024), nil)
	gen := s.StaticGeneration()
	s.ClearStatic()
	if s.StaticGeneration() == gen {
		t.Error("ClearStatic should advance the static generation")
	}
}

func TestRemoveStatic(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	keep, drop := quadPrim(nil), trianglePrim()
	s.SubmitStatic(keep)
	s.SubmitStatic(drop)

	if n := s.RemoveStatic(drop, quadPrim(nil)); n != 1 {
		t.Fatalf("RemoveStatic = %d, want 1", n)
	}
	mustBegin(t, s)
	stats := s.EndFrame()
	if stats.DrawCalls != 1 || stats.Vertices != 4 {
		t.Errorf("draws = %d, vertices = %d, want 1 draw of 4", stats.DrawCalls, stats.Vertices)
	}

	if n := s.RemoveStatic(keep); n != 1 {
		t.Fatalf("RemoveStatic = %d, want 1", n)
	}
	if s.StaticBatches() != 0 {
		t.Errorf("StaticBatches = %d, want 0", s.StaticBatches())
	}
	mustBegin(t, s)
	if stats := s.EndFrame(); stats.DrawCalls != 0 {
		t.Errorf("draws = %d, want 0 after removing everything", stats.DrawCalls)
	}
}

func TestDestroyedStaticStopsDrawing(t *testing.T) {
	s := newTestScheduler(t, NewRecordingRenderer(8, 1024), nil)
	rect := NewRectangle(1, 1)
	s.SubmitStatic(rect)
	s.SubmitStatic(NewCircle(1, 8))

	rect.Destroy()
	mustBegin(t, s)
	stats := s.EndFrame()
	if stats.DrawCalls != 1 || stats.Vertices != 8 {
		t.Errorf("draws = %d, vertices = %d, want only the circle", stats.DrawCalls, stats.Vertices)
	}
}

// --- Config ---

func TestApplyConfigRebuildsBatches(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	s.SubmitStatic(quadPrim(nil))
	s.SubmitStatic(quadPrim(nil))
	if s.StaticBatches() != 1 {
		t.Fatalf("StaticBatches = %d, want 1", s.StaticBatches())
	}

	cfg := DefaultConfig()
	cfg.MaxVertices = 4
	cfg.FaceCulling = true
	if err := s.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if s.StaticBatches() != 2 {
		t.Errorf("StaticBatches = %d, want 2 after shrinking capacity", s.StaticBatches())
	}
	if !FaceCulling() {
		t.Error("face culling should follow the applied config")
	}
	if s.Config().MaxVertices != 4 {
		t.Errorf("Config().MaxVertices = %d", s.Config().MaxVertices)
	}
	if !r.Buffers[0].Released {
		t.Error("old dynamic buffer should be released")
	}
}

func TestApplyConfigRejected(t *testing.T) {
	s := newTestScheduler(t, NewRecordingRenderer(8, 1024), nil)
	bad := DefaultConfig()
	bad.MaxIndices = 1
	if err := s.ApplyConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if s.Config().MaxIndices != DefaultMaxIndices {
		t.Error("rejected config must not be applied")
	}

	mustBegin(t, s)
	if err := s.ApplyConfig(DefaultConfig()); !errors.Is(err, ErrFrameInProgress) {
		t.Errorf("err = %v, want ErrFrameInProgress", err)
	}
	s.EndFrame()
}

func TestNewBatchSchedulerInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTextures = -1
	if _, err := NewBatchScheduler(NewRecordingRenderer(8, 1024), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

// --- Observer ---

func TestFlushObserver(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, func(c *Config) { c.MaxVertices = 4 })
	s.SubmitStatic(quadPrim(nil))

	var infos []FlushInfo
	s.SetFlushObserver(FlushObserverFunc(func(info FlushInfo) {
		infos = append(infos, info)
	}))
	mustBegin(t, s)
	mustSubmit(t, s, quadPrim(nil))
	mustSubmit(t, s, quadPrim(nil))
	s.EndFrame()

	if len(infos) != 3 {
		t.Fatalf("flushes = %d, want 3", len(infos))
	}
	if infos[0].Pool != PoolStatic || infos[1].Pool != PoolDynamic {
		t.Errorf("pools = %v, %v", infos[0].Pool, infos[1].Pool)
	}
	if infos[1].Primitives != 1 || infos[1].Vertices != 4 || infos[1].Indices != 6 {
		t.Errorf("info = %+v", infos[1])
	}
	if infos[1].BatchID != infos[2].BatchID {
		t.Error("dynamic flushes should come from the same batch")
	}

	s.SetFlushObserver(nil)
	mustBegin(t, s)
	s.EndFrame()
	if len(infos) != 3 {
		t.Error("removed observer still notified")
	}
}

// --- Destroy ---

func TestSchedulerDestroy(t *testing.T) {
	r := NewRecordingRenderer(8, 1024)
	s := newTestScheduler(t, r, nil)
	s.SubmitStatic(quadPrim(nil))
	s.Destroy()
	s.Destroy()

	for i, b := range r.Buffers {
		if !b.Released {
			t.Errorf("buffer %d not released", i)
		}
	}
	if err := s.BeginFrame(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("BeginFrame err = %v, want ErrDestroyed", err)
	}
	if err := s.SubmitStatic(quadPrim(nil)); !errors.Is(err, ErrDestroyed) {
		t.Errorf("SubmitStatic err = %v, want ErrDestroyed", err)
	}
	if err := s.Submit(quadPrim(nil)); !errors.Is(err, ErrNotInFrame) {
		t.Errorf("Submit err = %v, want ErrNotInFrame", err)
	}
}

func BenchmarkSchedulerFrame(b *testing.B) {
	r := NewRecordingRenderer(16, 4096)
	s, _ := NewBatchScheduler(r, DefaultConfig())
	rects := make([]*Rectangle, 1000)
	for i := range rects {
		rects[i] = NewRectangle(1, 1)
		rects[i].Transform().SetPosition(float64(i), 0)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset()
		_ = s.BeginFrame()
		for _, rc := range rects {
			_ = s.Submit(rc)
		}
		s.EndFrame()
	}
}
