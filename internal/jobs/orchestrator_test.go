package jobs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"arda/internal/assets"
	"arda/internal/config"
	"arda/internal/render"
	"arda/internal/services"
	"arda/internal/testsupport"
	"arda/internal/users"
)

type stubEncoder struct {
	mu           sync.Mutex
	compositeErr error
	frameErr     error
	gate         chan struct{}
	composited   []string
}

func (s *stubEncoder) ProbeDimensions(context.Context, string) (int, int, error) {
	return 320, 240, nil
}

func (s *stubEncoder) Composite(_ context.Context, _, _, outputPath string, onProgress func(float64)) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	s.composited = append(s.composited, outputPath)
	s.mu.Unlock()
	if s.compositeErr != nil {
		return s.compositeErr
	}
	if onProgress != nil {
		onProgress(50)
		onProgress(100)
	}
	return os.WriteFile(outputPath, []byte("mp4"), 0o644)
}

func (s *stubEncoder) ExtractFirstFrame(_ context.Context, _, framePath string) error {
	if s.frameErr != nil {
		return s.frameErr
	}
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return os.WriteFile(framePath, buf.Bytes(), 0o644)
}

type stubNames struct {
	byID map[string]string
}

func (s *stubNames) GetByID(_ context.Context, id string) (*users.User, error) {
	name, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &users.User{ID: id, Name: name}, nil
}

func newTestOrchestrator(t *testing.T, encoder *stubEncoder) (*Orchestrator, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Render.FontPaths = nil
	cfg.Jobs.MinFreeSpaceMiB = 0

	var buf bytes.Buffer
	base := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			base.SetRGBA(x, y, color.RGBA{R: 30, G: 30, B: 30, A: 255})
		}
	}
	if err := png.Encode(&buf, base); err != nil {
		t.Fatalf("encode base fixture: %v", err)
	}
	testsupport.WriteFile(t, cfg.OverlayImagePath(), buf.Bytes())
	testsupport.WriteFile(t, cfg.TemplateVideoPath(), []byte("not really a video"))

	resolver, err := assets.NewResolver(cfg)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	names := &stubNames{byID: map[string]string{"user-1": "Frodo"}}
	o := NewOrchestrator(context.Background(), cfg, NewRegistry(), encoder, render.NewRenderer(cfg), resolver, names, nil)
	t.Cleanup(o.Close)
	return o, cfg
}

func waitTerminal(t *testing.T, o *Orchestrator, key string) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := o.Registry().Get(key)
		if !ok {
			t.Fatalf("job %s vanished", key)
		}
		if job.Status.IsTerminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", key)
	return Job{}
}

func TestSubmitByUsernameProducesVideo(t *testing.T) {
	encoder := &stubEncoder{}
	o, _ := newTestOrchestrator(t, encoder)

	job, err := o.Submit(context.Background(), SubmitRequest{Username: "Frodo"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.Status != StatusPending {
		t.Fatalf("expected pending snapshot, got %s", job.Status)
	}

	done := waitTerminal(t, o, job.Key)
	if done.Status != StatusReady || !done.Ready {
		t.Fatalf("expected ready, got %+v", done)
	}
	if done.IsImage {
		t.Fatal("expected video artifact")
	}
	if done.Progress != 100 {
		t.Fatalf("expected progress 100, got %v", done.Progress)
	}
	if filepath.Base(done.OutputPath) != "overlay_Frodo.mp4" {
		t.Fatalf("unexpected artifact name %s", done.OutputPath)
	}
	if _, err := os.Stat(done.OutputPath); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(done.WorkspaceDir, "overlay.png")); err != nil {
		t.Fatalf("overlay PNG missing: %v", err)
	}
}

func TestSubmitByUserID(t *testing.T) {
	encoder := &stubEncoder{}
	o, _ := newTestOrchestrator(t, encoder)

	job, err := o.Submit(context.Background(), SubmitRequest{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.Username != "Frodo" {
		t.Fatalf("expected resolved name, got %q", job.Username)
	}
	waitTerminal(t, o, job.Key)
}

func TestSubmitUnknownUserID(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEncoder{})

	_, err := o.Submit(context.Background(), SubmitRequest{UserID: "nope"})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSubmitRequiresIdentity(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEncoder{})

	_, err := o.Submit(context.Background(), SubmitRequest{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitDuplicateIdentityConflicts(t *testing.T) {
	encoder := &stubEncoder{gate: make(chan struct{})}
	o, _ := newTestOrchestrator(t, encoder)

	first, err := o.Submit(context.Background(), SubmitRequest{Username: "Frodo"})
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	// Identity matching is case-insensitive.
	if _, err := o.Submit(context.Background(), SubmitRequest{Username: "frodo"}); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	close(encoder.gate)
	waitTerminal(t, o, first.Key)

	// After the first job finishes, the identity is free again.
	second, err := o.Submit(context.Background(), SubmitRequest{Username: "Frodo"})
	if err != nil {
		t.Fatalf("resubmit after terminal: %v", err)
	}
	waitTerminal(t, o, second.Key)
}

func TestRenderFailureFailsJob(t *testing.T) {
	encoder := &stubEncoder{}
	o, cfg := newTestOrchestrator(t, encoder)

	// Replace the base overlay image with bytes no decoder accepts so the
	// render stage fails before the compositor ever runs.
	testsupport.WriteFile(t, cfg.OverlayImagePath(), []byte("not an image"))

	job, err := o.Submit(context.Background(), SubmitRequest{Username: "Frodo"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	done := waitTerminal(t, o, job.Key)
	if done.Status != StatusFailed || done.Ready {
		t.Fatalf("expected failed job, got %+v", done)
	}
	if done.IsImage {
		t.Fatal("render failures must not produce a fallback artifact")
	}
	if done.ErrorMessage == "" {
		t.Fatal("expected the render error to be recorded")
	}
	if _, err := os.Stat(done.WorkspaceDir); !os.IsNotExist(err) {
		t.Fatal("workspace should be removed immediately on failure")
	}

	encoder.mu.Lock()
	defer encoder.mu.Unlock()
	if len(encoder.composited) != 0 {
		t.Fatal("compositor must not run when rendering fails")
	}
}

func TestCompositeFailureFallsBackToImage(t *testing.T) {
	encoder := &stubEncoder{compositeErr: errors.New("encoder exploded")}
	o, _ := newTestOrchestrator(t, encoder)

	job, err := o.Submit(context.Background(), SubmitRequest{Username: "Frodo"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	done := waitTerminal(t, o, job.Key)
	if done.Status != StatusReady || !done.Ready || !done.IsImage {
		t.Fatalf("expected ready image fallback, got %+v", done)
	}
	if !strings.HasSuffix(done.OutputPath, "fallback_Frodo.jpg") {
		t.Fatalf("unexpected fallback name %s", done.OutputPath)
	}
	if done.ErrorMessage == "" {
		t.Fatal("expected the compositing error to be recorded")
	}
	if _, err := os.Stat(done.OutputPath); err != nil {
		t.Fatalf("fallback artifact missing: %v", err)
	}
}

func TestFallbackWithoutFrameStillProduces(t *testing.T) {
	encoder := &stubEncoder{compositeErr: errors.New("boom"), frameErr: errors.New("no frame")}
	o, _ := newTestOrchestrator(t, encoder)

	job, err := o.Submit(context.Background(), SubmitRequest{Username: "Frodo"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	done := waitTerminal(t, o, job.Key)
	if !done.IsImage || done.Status != StatusReady {
		t.Fatalf("expected blank-canvas fallback, got %+v", done)
	}
}

func TestFailRemovesWorkspaceKeepsEntry(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEncoder{})

	workspace := filepath.Join(t.TempDir(), "job-x")
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	o.Registry().Put(Job{Key: "x", Identity: "frodo", WorkspaceDir: workspace})

	o.fail(Job{Key: "x", Identity: "frodo", WorkspaceDir: workspace}, errors.New("total failure"))

	job, ok := o.Registry().Get("x")
	if !ok {
		t.Fatal("failed jobs must stay visible to polls")
	}
	if job.Status != StatusFailed || job.ErrorMessage == "" {
		t.Fatalf("unexpected state %+v", job)
	}
	if _, err := os.Stat(workspace); !os.IsNotExist(err) {
		t.Fatal("workspace should be removed immediately on failure")
	}
}

func TestMarkServedAndCleanup(t *testing.T) {
	encoder := &stubEncoder{}
	o, _ := newTestOrchestrator(t, encoder)

	job, err := o.Submit(context.Background(), SubmitRequest{Username: "Frodo"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	done := waitTerminal(t, o, job.Key)

	o.MarkServed(job.Key)
	served, _ := o.Registry().Get(job.Key)
	if !served.Served {
		t.Fatal("expected served flag")
	}

	o.cleanup(job.Key)
	if _, ok := o.Registry().Get(job.Key); ok {
		t.Fatal("expected registry entry removed after cleanup")
	}
	if _, err := os.Stat(done.WorkspaceDir); !os.IsNotExist(err) {
		t.Fatal("expected workspace removed after cleanup")
	}

	// Cleanup of a vanished key is a no-op.
	o.cleanup(job.Key)
}
