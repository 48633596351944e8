// Package textutil sanitizes user-supplied names for filesystem and
// Content-Disposition use: accent folding to ASCII plus removal of unsafe
// characters.
package textutil
