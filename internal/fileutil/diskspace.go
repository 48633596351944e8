//go:build linux || darwin

package fileutil

import "golang.org/x/sys/unix"

// FreeSpace returns the bytes available to unprivileged callers on the
// filesystem holding path.
func FreeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}
