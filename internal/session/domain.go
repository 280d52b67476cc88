// Package session manages registered users and live sessions. A session is
// proof of a prior successful authentication, scoped to one username; every
// catalog mutation is validated against the live-session set held here.
package session

import (
	"strings"

	"github.com/google/uuid"
)

// User is a registered account. The password is stored only as a salted
// Argon2id digest. Usernames are unique case-insensitively.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
}

// Session holds a username and the generated key that authenticates it.
// Two sessions are the same session only if both fields match exactly.
type Session struct {
	Username string `json:"username"`
	Key      string `json:"session_key"`
}

// Event types appended to the journal by this package.
type UserRegisteredEvent struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SessionOpenedEvent struct {
	Username string `json:"username"`
}

type SessionsDestroyedEvent struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// canonical folds a username to its case-insensitive identity. Names are
// stored as typed but always compared through this form.
func canonical(name string) string {
	return strings.ToLower(name)
}
