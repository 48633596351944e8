//go:build !linux && !darwin

package fileutil

// FreeSpace is unsupported on this platform; callers treat zero with a nil
// error as "unknown" and skip the preflight.
func FreeSpace(path string) (uint64, error) {
	return 0, nil
}
