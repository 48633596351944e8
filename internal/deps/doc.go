// Package deps verifies the external binaries the pipeline depends on and
// reports their resolved paths for health output.
package deps
