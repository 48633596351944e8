// Package jobs owns the personalization pipeline: the in-memory job
// registry, the submission orchestrator and its state machine, and the
// delayed cleanup scheduler.
package jobs
