package session

import (
	"context"
)

// Service defines the interface for the session service.
type Service interface {
	Register(ctx context.Context, name, password string) (User, error)
	Authenticate(ctx context.Context, username, password string) (Session, error)
	IsAuthenticated(ctx context.Context, sess Session) bool
	DestroySession(ctx context.Context, username string)
}
