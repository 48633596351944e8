// Package daemonrun boots the serve runtime: logging, single-instance lock,
// stale workspace sweep, collaborator wiring, and the HTTP server lifecycle.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"arda/internal/api"
	"arda/internal/assets"
	"arda/internal/config"
	"arda/internal/deps"
	"arda/internal/jobs"
	"arda/internal/logging"
	"arda/internal/media"
	"arda/internal/render"
	"arda/internal/staging"
	"arda/internal/users"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the daemon and blocks until the context is cancelled or a
// termination signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "arda.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another arda daemon instance is already running")
	}
	defer func() { _ = lock.Unlock() }()

	pidPath := filepath.Join(cfg.Paths.LogDir, "arda.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	logDependencySnapshot(logger, cfg)

	sweep := staging.CleanStale(cfg.Paths.StagingDir,
		time.Duration(cfg.Jobs.StaleWorkspaceHours)*time.Hour, logger)
	if len(sweep.Removed) > 0 {
		logger.Info("stale workspace sweep complete",
			logging.Int("removed", len(sweep.Removed)),
			logging.Int("errors", len(sweep.Errors)),
		)
	}

	store, err := users.Open(cfg)
	if err != nil {
		logger.Error("open user store", logging.Error(err))
		return err
	}
	defer store.Close()

	resolver, err := assets.NewResolver(cfg)
	if err != nil {
		logger.Error("resolve assets", logging.Error(err),
			logging.String(logging.FieldErrorHint, "check asset_dir, template_video, and overlay_image settings"),
		)
		return err
	}

	renderer := render.NewRenderer(cfg)
	logger.Info("overlay renderer ready", logging.String("font", renderer.FaceSource()))

	compositor := media.NewCompositor(cfg, logging.NewComponentLogger(logger, "media"))
	orchestrator := jobs.NewOrchestrator(
		signalCtx, cfg, jobs.NewRegistry(), compositor, renderer, resolver, store,
		logging.NewComponentLogger(logger, "jobs"),
	)
	defer orchestrator.Close()

	server := api.NewServer(orchestrator, store,
		func() []deps.Status { return deps.Check(cfg) },
		logging.NewComponentLogger(logger, "api"),
	)

	logger.Info("daemon started", logging.String("bind", cfg.Paths.APIBind))
	if err := server.Serve(signalCtx, cfg.Paths.APIBind); err != nil {
		logger.Error("http server", logging.Error(err))
		return err
	}

	logger.Info("daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	statuses := deps.Check(cfg)
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "dependency_snapshot"),
	}
	for _, status := range statuses {
		attrs = append(attrs,
			logging.Bool(status.Name+"_available", status.Available),
			logging.String(status.Name+"_binary", status.Command),
		)
	}
	if !deps.Ready(statuses) {
		attrs = append(attrs, logging.String(logging.FieldErrorHint, "install ffmpeg and ffprobe or adjust the encode settings"))
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}
