// Package staging owns per-job workspace directories: creation, best-effort
// removal, and the stale sweep performed at daemon start.
package staging
