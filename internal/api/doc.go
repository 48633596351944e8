// Package api exposes the HTTP surface: user registration, job submission,
// progress polling, artifact download, and health.
package api
