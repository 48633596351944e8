package jobs

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"arda/internal/assets"
	"arda/internal/config"
	"arda/internal/fileutil"
	"arda/internal/logging"
	"arda/internal/render"
	"arda/internal/services"
	"arda/internal/staging"
	"arda/internal/textutil"
	"arda/internal/users"
)

// Encoder is the slice of the media compositor the pipeline needs. Tests
// substitute a stub.
type Encoder interface {
	ProbeDimensions(ctx context.Context, path string) (int, int, error)
	Composite(ctx context.Context, videoPath, overlayPath, outputPath string, onProgress func(float64)) error
	ExtractFirstFrame(ctx context.Context, videoPath, framePath string) error
}

// NameResolver resolves a stored user id to its record.
type NameResolver interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// SubmitRequest carries the two accepted job identities: a stored user id or
// a raw display name.
type SubmitRequest struct {
	UserID   string
	Username string
}

// Orchestrator accepts submissions, runs the pipeline in the background, and
// reclaims workspaces after artifacts are served.
type Orchestrator struct {
	cfg       *config.Config
	registry  *Registry
	scheduler *Scheduler
	encoder   Encoder
	renderer  *render.Renderer
	assets    *assets.Resolver
	resolver  NameResolver
	logger    *slog.Logger

	// baseCtx outlives the submitting request; pipelines stop on daemon
	// shutdown, not on client disconnect.
	baseCtx context.Context
}

// NewOrchestrator wires the pipeline collaborators together.
func NewOrchestrator(
	baseCtx context.Context,
	cfg *config.Config,
	registry *Registry,
	encoder Encoder,
	renderer *render.Renderer,
	resolver *assets.Resolver,
	names NameResolver,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		cfg:      cfg,
		registry: registry,
		encoder:  encoder,
		renderer: renderer,
		assets:   resolver,
		resolver: names,
		logger:   logger,
		baseCtx:  baseCtx,
	}
	o.scheduler = NewScheduler(time.Duration(cfg.CleanupDelay())*time.Second, o.cleanup)
	return o
}

// Registry exposes the job state service for the HTTP handlers.
func (o *Orchestrator) Registry() *Registry { return o.registry }

// Close disarms all pending cleanup timers.
func (o *Orchestrator) Close() {
	o.scheduler.StopAll()
}

// Submit validates the request, claims the identity, and starts the pipeline.
// It returns a snapshot of the freshly created job without waiting for any
// pipeline work.
func (o *Orchestrator) Submit(ctx context.Context, req SubmitRequest) (Job, error) {
	username, err := o.resolveName(ctx, req)
	if err != nil {
		return Job{}, err
	}

	identity := strings.ToLower(username)
	key := uuid.NewString()

	if !o.registry.AcquireIdentity(identity, key) {
		return Job{}, services.Wrap(services.ErrConflict, "submit", "single-flight",
			fmt.Sprintf("a job for %q is already in flight", username), nil)
	}

	if err := o.checkDiskSpace(); err != nil {
		o.registry.ReleaseIdentity(identity, key)
		return Job{}, err
	}

	workspace, err := staging.CreateWorkspace(o.cfg.Paths.StagingDir, key)
	if err != nil {
		o.registry.ReleaseIdentity(identity, key)
		return Job{}, services.Wrap(services.ErrResource, "submit", "create workspace", "could not create job workspace", err)
	}

	job := Job{
		Key:           key,
		Username:      username,
		Identity:      identity,
		Status:        StatusPending,
		StatusMessage: "queued",
		WorkspaceDir:  workspace,
		CreatedAt:     time.Now(),
	}
	o.registry.Put(job)

	pipelineCtx := services.WithJobKey(o.baseCtx, key)
	go o.run(pipelineCtx, job)

	return job, nil
}

func (o *Orchestrator) resolveName(ctx context.Context, req SubmitRequest) (string, error) {
	if id := strings.TrimSpace(req.UserID); id != "" {
		user, err := o.resolver.GetByID(ctx, id)
		if err != nil {
			return "", services.Wrap(services.ErrTransient, "submit", "lookup user", "user lookup failed", err)
		}
		if user == nil {
			return "", services.Wrap(services.ErrNotFound, "submit", "lookup user",
				fmt.Sprintf("no user with id %q", id), nil)
		}
		return user.Name, nil
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return "", services.Wrap(services.ErrValidation, "submit", "validate", "user_id or username is required", nil)
	}
	return username, nil
}

func (o *Orchestrator) checkDiskSpace() error {
	minimum := uint64(o.cfg.Jobs.MinFreeSpaceMiB) * 1024 * 1024
	if minimum == 0 {
		return nil
	}
	free, err := fileutil.FreeSpace(o.cfg.Paths.StagingDir)
	if err != nil || free == 0 {
		// Unknown free space is not a reason to refuse work.
		return nil
	}
	if free < minimum {
		return services.Wrap(services.ErrResource, "submit", "disk preflight",
			fmt.Sprintf("free space %d MiB below the %d MiB floor", free/(1024*1024), o.cfg.Jobs.MinFreeSpaceMiB), nil)
	}
	return nil
}

// run drives the state machine. Every exit path leaves the job terminal and
// releases the identity slot.
func (o *Orchestrator) run(ctx context.Context, job Job) {
	logger := logging.WithContext(ctx, o.logger)
	defer o.registry.ReleaseIdentity(job.Identity, job.Key)

	overlayPath, err := o.renderOverlay(ctx, job)
	if err != nil {
		// Render failures are input/configuration problems; the static-image
		// fallback exists only for compositing failures.
		logger.Error("overlay rendering failed", logging.Error(err))
		o.fail(job, err)
		return
	}

	outputPath := filepath.Join(job.WorkspaceDir, fmt.Sprintf("overlay_%s.mp4", textutil.FileToken(job.Username)))
	o.registry.Update(job.Key, func(j *Job) {
		j.Status = StatusCompositing
		j.StatusMessage = "compositing video"
	})

	err = o.encoder.Composite(ctx, o.assets.TemplateVideo(), overlayPath, outputPath, func(percent float64) {
		o.registry.Update(job.Key, func(j *Job) {
			j.Progress = percent
		})
	})
	if err != nil {
		logger.Warn("compositing failed, producing fallback artifact", logging.Error(err))
		o.fallback(ctx, job, logger, err)
		return
	}

	o.registry.Update(job.Key, func(j *Job) {
		j.Status = StatusReady
		j.StatusMessage = "ready"
		j.Progress = 100
		j.Ready = true
		j.OutputPath = outputPath
	})
	logger.Info("job ready", logging.String("output", outputPath))
}

// renderOverlay produces the name-card PNG inside the workspace.
func (o *Orchestrator) renderOverlay(ctx context.Context, job Job) (string, error) {
	o.registry.Update(job.Key, func(j *Job) {
		j.Status = StatusRenderingOverlay
		j.StatusMessage = "rendering overlay"
		j.Progress = 5
	})

	baseFile, err := os.Open(o.assets.OverlayImage())
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "render", "open base", "overlay base image unavailable", err)
	}
	defer baseFile.Close()

	base, err := render.DecodeBase(baseFile)
	if err != nil {
		return "", err
	}

	target := image.Point{}
	if width, height, probeErr := o.encoder.ProbeDimensions(ctx, o.assets.TemplateVideo()); probeErr == nil {
		target = image.Pt(width, height)
	}

	composed := o.renderer.Compose(base, job.Username, target)

	overlayPath := filepath.Join(job.WorkspaceDir, "overlay.png")
	out, err := os.Create(overlayPath)
	if err != nil {
		return "", services.Wrap(services.ErrResource, "render", "create overlay file", "could not write overlay", err)
	}
	defer out.Close()

	if err := render.EncodePNG(out, composed); err != nil {
		return "", services.Wrap(services.ErrResource, "render", "encode overlay", "could not encode overlay", err)
	}
	return overlayPath, nil
}

// fallback produces the static apology JPEG. When even that fails, the job
// goes to FAILED, its workspace is removed immediately, and the registry
// entry stays so polls keep seeing the error.
func (o *Orchestrator) fallback(ctx context.Context, job Job, logger *slog.Logger, cause error) {
	framePath := filepath.Join(job.WorkspaceDir, "frame.png")
	var frame image.Image
	if err := o.encoder.ExtractFirstFrame(ctx, o.assets.TemplateVideo(), framePath); err == nil {
		if f, openErr := os.Open(framePath); openErr == nil {
			frame, _, _ = image.Decode(f)
			f.Close()
		}
	}

	card := o.renderer.NoticeCard(frame, job.Username)
	outputPath := filepath.Join(job.WorkspaceDir, fmt.Sprintf("fallback_%s.jpg", textutil.FileToken(job.Username)))

	if err := o.writeJPEG(outputPath, card); err != nil {
		logger.Error("fallback artifact failed", logging.Error(err), logging.Error(cause))
		o.fail(job, cause)
		return
	}

	o.registry.Update(job.Key, func(j *Job) {
		j.Status = StatusReady
		j.StatusMessage = "ready (static image fallback)"
		j.Progress = 100
		j.Ready = true
		j.IsImage = true
		j.OutputPath = outputPath
		j.ErrorMessage = cause.Error()
	})
	logger.Info("job ready with fallback image", logging.String("output", outputPath))
}

func (o *Orchestrator) writeJPEG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fallback file: %w", err)
	}
	defer out.Close()
	return render.EncodeJPEG(out, img)
}

// fail marks the job terminal-failed and reclaims its workspace immediately.
func (o *Orchestrator) fail(job Job, cause error) {
	o.registry.Update(job.Key, func(j *Job) {
		j.Status = StatusFailed
		j.StatusMessage = "failed"
		j.Ready = false
		j.ErrorMessage = cause.Error()
	})
	if err := staging.RemoveWorkspace(job.WorkspaceDir); err != nil {
		o.logger.Warn("failed to remove workspace", logging.String("path", job.WorkspaceDir), logging.Error(err))
	}
}

// MarkServed records that the artifact went out and arms delayed cleanup.
func (o *Orchestrator) MarkServed(key string) {
	o.registry.Update(key, func(j *Job) {
		j.Served = true
	})
	o.scheduler.Schedule(key)
}

// cleanup removes the workspace and forgets the job. Runs on the scheduler
// goroutine; safe to invoke for keys that already vanished.
func (o *Orchestrator) cleanup(key string) {
	job, ok := o.registry.Get(key)
	if !ok {
		return
	}
	if err := staging.RemoveWorkspace(job.WorkspaceDir); err != nil {
		o.logger.Warn("cleanup could not remove workspace",
			logging.String("path", job.WorkspaceDir),
			logging.Error(err),
		)
	}
	o.registry.Remove(key)
	o.logger.Info("job reclaimed",
		logging.String(logging.FieldJobKey, key),
		logging.String("path", job.WorkspaceDir),
	)
}
