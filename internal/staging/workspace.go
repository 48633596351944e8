package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const workspacePrefix = "job-"

// WorkspaceDir returns the workspace path for a job key under stagingDir.
func WorkspaceDir(stagingDir, jobKey string) string {
	return filepath.Join(stagingDir, workspacePrefix+jobKey)
}

// CreateWorkspace makes the per-job workspace directory and returns its path.
func CreateWorkspace(stagingDir, jobKey string) (string, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return "", fmt.Errorf("staging directory is not configured")
	}
	dir := WorkspaceDir(stagingDir, jobKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace %q: %w", dir, err)
	}
	return dir, nil
}

// RemoveWorkspace deletes a workspace directory recursively. Missing paths are
// not an error; cleanup is best-effort.
func RemoveWorkspace(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
