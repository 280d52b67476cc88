package session

import (
	"sync"

	"bookery/internal/platform/errors"
)

// UserStore is the in-memory registry of user accounts. A single exclusive
// lock keeps the duplicate check and the insert atomic together.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]User // keyed by canonical name
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]User)}
}

// Add inserts a user. The name must be unique case-insensitively.
func (s *UserStore) Add(user User) error {
	if user.Name == "" || user.PasswordHash == "" {
		return errors.InvalidArgument("user name and password hash must be non-empty")
	}

	key := canonical(user.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return errors.DuplicateUser(user.Name)
	}
	s.users[key] = user
	return nil
}

// Lookup returns the user with the given name, compared case-insensitively.
func (s *UserStore) Lookup(name string) (User, error) {
	s.mu.RLock()
	user, ok := s.users[canonical(name)]
	s.mu.RUnlock()

	if !ok {
		return User{}, errors.UserNotFound(name)
	}
	return user, nil
}

// Remove deletes the user with the given name. Removing an absent user is a
// no-op.
func (s *UserStore) Remove(name string) {
	s.mu.Lock()
	delete(s.users, canonical(name))
	s.mu.Unlock()
}

// Users returns a snapshot of all registered users in no particular order.
func (s *UserStore) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users
}
