// Package users persists registered viewers in SQLite. The pipeline consumes
// only the id-to-name lookup; the rest of the record (mood, genre) is carried
// for the registration API.
package users
