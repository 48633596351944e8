package users

import (
	"crypto/rand"
	"fmt"
	"time"
)

// User is one registered viewer record.
type User struct {
	ID        string
	Name      string
	Mood      string
	Genre     string
	CreatedAt time.Time
}

const idLength = 28

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewID returns a 28-character alphanumeric identifier.
func NewID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate user id: %w", err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}
