// Package assets resolves the template video and overlay image once at
// startup. Pipeline components receive final paths and never search for
// assets themselves.
package assets
