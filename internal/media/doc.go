// Package media wraps the external ffmpeg/ffprobe binaries: the overlay
// compositing invocation, duration and dimension probes, first-frame
// extraction for the fallback artifact, and the stderr progress monitor.
package media
