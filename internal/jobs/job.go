package jobs

import "time"

// Status tracks a job through the pipeline state machine.
type Status string

const (
	StatusPending          Status = "pending"
	StatusRenderingOverlay Status = "rendering_overlay"
	StatusCompositing      Status = "compositing"
	StatusReady            Status = "ready"
	StatusFailed           Status = "failed"
)

// IsTerminal reports whether no further transitions can occur.
func (s Status) IsTerminal() bool {
	return s == StatusReady || s == StatusFailed
}

// Job is one personalization request. The registry hands out copies; only the
// pipeline goroutine that owns a key mutates it, through Registry.Update.
type Job struct {
	Key           string
	Username      string
	Identity      string
	Status        Status
	StatusMessage string
	Progress      float64
	Ready         bool
	IsImage       bool
	ErrorMessage  string
	OutputPath    string
	WorkspaceDir  string
	Served        bool
	CreatedAt     time.Time
}
