package media

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"arda/internal/config"
	"arda/internal/fileutil"
	"arda/internal/logging"
	"arda/internal/services"
)

var commandContext = exec.CommandContext

// overlayFilter centers the overlay on the video, preserving its alpha
// channel, and normalizes the output pixel format for broad player support.
const overlayFilter = "[1:v]format=rgba[ovr];[0:v][ovr]overlay=(W-w)/2:(H-h)/2:format=auto,format=yuv420p[vout]"

// Compositor runs ffmpeg to burn the rendered overlay into the template
// video. It treats a zero exit status plus a non-empty output file as the
// only success condition.
type Compositor struct {
	ffmpeg       string
	ffprobe      string
	videoCodec   string
	videoBitrate string
	logger       *slog.Logger
}

// NewCompositor builds a compositor from the encode configuration.
func NewCompositor(cfg *config.Config, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Compositor{
		ffmpeg:       cfg.Encode.FFmpegBinary,
		ffprobe:      cfg.Encode.FFprobeBinary,
		videoCodec:   cfg.Encode.VideoCodec,
		videoBitrate: cfg.Encode.VideoBitrate,
		logger:       logger,
	}
}

func (c *Compositor) compositeArgs(videoPath, overlayPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", overlayPath,
		"-filter_complex", overlayFilter,
		"-map", "[vout]",
		"-map", "0:a?",
		"-c:v", c.videoCodec,
		"-b:v", c.videoBitrate,
		"-c:a", "copy",
		"-movflags", "+faststart",
		outputPath,
	}
}

// Composite overlays overlayPath onto videoPath, writing outputPath. Progress
// percentages parsed from ffmpeg's stderr are delivered through onProgress.
func (c *Compositor) Composite(ctx context.Context, videoPath, overlayPath, outputPath string, onProgress func(float64)) error {
	duration, err := c.ProbeDuration(ctx, videoPath)
	if err != nil {
		c.logger.Warn("could not probe source duration, degrading to milestone progress",
			logging.String("video", videoPath),
			logging.Error(err),
		)
		duration = 0
	}

	monitor := NewMonitor(duration, onProgress)
	cmd := commandContext(ctx, c.ffmpeg, c.compositeArgs(videoPath, overlayPath, outputPath)...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "composite", "stderr pipe", "could not attach to ffmpeg diagnostics", err)
	}
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "composite", "start", "could not launch ffmpeg", err)
	}

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanStatsLines)
	for scanner.Scan() {
		monitor.Observe(scanner.Text())
	}

	if err := cmd.Wait(); err != nil {
		return services.Wrap(services.ErrExternalTool, "composite", "ffmpeg", "ffmpeg exited with an error", err)
	}
	if !fileutil.NonEmptyFile(outputPath) {
		return services.Wrap(services.ErrExternalTool, "composite", "verify output",
			fmt.Sprintf("ffmpeg reported success but %s is missing or empty", outputPath), nil)
	}

	monitor.Finish()
	return nil
}

// ExtractFirstFrame writes the first decodable frame of videoPath to
// framePath. Used as the backdrop for the fallback artifact.
func (c *Compositor) ExtractFirstFrame(ctx context.Context, videoPath, framePath string) error {
	args := []string{"-y", "-i", videoPath, "-frames:v", "1", "-q:v", "2", framePath}
	cmd := commandContext(ctx, c.ffmpeg, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return services.Wrap(services.ErrExternalTool, "fallback", "extract frame",
			fmt.Sprintf("ffmpeg frame extraction failed: %s", bytes.TrimSpace(output)), err)
	}
	if !fileutil.NonEmptyFile(framePath) {
		return services.Wrap(services.ErrExternalTool, "fallback", "verify frame", "extracted frame is missing or empty", nil)
	}
	return nil
}

// ffmpeg ends stats lines with carriage returns, so split on either.
func scanStatsLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
