// Package services holds cross-cutting helpers shared by pipeline components:
// sentinel error markers with a wrap helper for status classification, and
// context annotations carried through the job pipeline for logging.
package services
