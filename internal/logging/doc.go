// Package logging wires log/slog into Arda: console and JSON handlers,
// attribute helpers, standardized field keys, and context-derived loggers so
// every record produced while a job is in flight carries its job key and
// stage.
package logging
