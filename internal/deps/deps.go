package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"arda/internal/config"
)

// Status describes the availability of one external dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// Check resolves every external binary the pipeline shells out to.
func Check(cfg *config.Config) []Status {
	if cfg == nil {
		return nil
	}
	return []Status{
		checkBinary("FFmpeg", cfg.Encode.FFmpegBinary, "Composites the overlay onto the template video"),
		checkBinary("FFprobe", cfg.Encode.FFprobeBinary, "Reads template video duration and dimensions"),
	}
}

// Ready reports whether every required dependency resolved.
func Ready(statuses []Status) bool {
	for _, status := range statuses {
		if !status.Available {
			return false
		}
	}
	return true
}

func checkBinary(name, command, description string) Status {
	status := Status{
		Name:        name,
		Command:     command,
		Description: description,
	}
	command = strings.TrimSpace(command)
	if command == "" {
		status.Detail = "binary not configured"
		return status
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}
