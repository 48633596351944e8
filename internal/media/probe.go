package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"arda/internal/services"
)

// ProbeDuration returns the container duration of path in seconds.
func (c *Compositor) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	cmd := commandContext(ctx, c.ffprobe, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration", "ffprobe duration query failed", err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration",
			fmt.Sprintf("unexpected ffprobe output %q", strings.TrimSpace(string(output))), err)
	}
	if value <= 0 {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration", "ffprobe reported a non-positive duration", nil)
	}
	return value, nil
}

// ProbeDimensions returns the pixel size of the first video stream. The
// renderer sizes the overlay canvas to match.
func (c *Compositor) ProbeDimensions(ctx context.Context, path string) (int, int, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	}
	cmd := commandContext(ctx, c.ffprobe, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, 0, services.Wrap(services.ErrExternalTool, "probe", "dimensions", "ffprobe dimension query failed", err)
	}

	fields := strings.SplitN(strings.TrimSpace(string(output)), "x", 2)
	if len(fields) != 2 {
		return 0, 0, services.Wrap(services.ErrExternalTool, "probe", "dimensions",
			fmt.Sprintf("unexpected ffprobe output %q", strings.TrimSpace(string(output))), nil)
	}
	width, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, services.Wrap(services.ErrExternalTool, "probe", "dimensions", "unparsable width", err)
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, services.Wrap(services.ErrExternalTool, "probe", "dimensions", "unparsable height", err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, services.Wrap(services.ErrExternalTool, "probe", "dimensions", "ffprobe reported non-positive dimensions", nil)
	}
	return width, height, nil
}
