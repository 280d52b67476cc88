package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"bookery/internal/journal"
	"bookery/internal/platform/errors"
)

// service implements the Service interface.
type service struct {
	users       *UserStore
	sessions    *Sessions
	journal     *journal.Journal
	rateLimiter *rate.Limiter
	tracer      trace.Tracer
}

// NewService creates a new session service instance.
func NewService(users *UserStore, sessions *Sessions, jnl *journal.Journal) Service {
	return &service{
		users:       users,
		sessions:    sessions,
		journal:     jnl,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 attempts per minute
		tracer:      otel.Tracer("bookery/session"),
	}
}

// Register creates a new user with a salted Argon2id password digest.
func (s *service) Register(ctx context.Context, name, password string) (User, error) {
	ctx, span := s.tracer.Start(ctx, "session.register",
		trace.WithAttributes(attribute.String("user.name", name)),
	)
	defer span.End()

	if name == "" || password == "" {
		return User{}, errors.InvalidArgument("name and password must be non-empty")
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return User{}, errors.Internal("failed to hash password", err)
	}

	user := User{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: passwordHash,
		Salt:         salt,
	}
	if err := s.users.Add(user); err != nil {
		return User{}, err
	}

	s.record(ctx, user.ID, "UserRegistered", UserRegisteredEvent{ID: user.ID, Name: user.Name})
	return user, nil
}

// Authenticate verifies the credentials and opens a new session. A missing
// user and a wrong password fail identically so the error kind does not leak
// whether the username exists.
func (s *service) Authenticate(ctx context.Context, username, password string) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.authenticate",
		trace.WithAttributes(attribute.String("user.name", username)),
	)
	defer span.End()

	if !s.rateLimiter.Allow() {
		return Session{}, errors.RateLimited("too many authentication attempts")
	}

	user, err := s.users.Lookup(username)
	if err != nil {
		return Session{}, errors.AuthenticationFailed(username)
	}

	ok, err := verifyPassword(password, user.Salt, user.PasswordHash)
	if err != nil || !ok {
		return Session{}, errors.AuthenticationFailed(username)
	}

	key, err := newSessionKey()
	if err != nil {
		return Session{}, errors.Internal("failed to generate session key", err)
	}

	sess := Session{Username: user.Name, Key: key}
	s.sessions.Add(sess)
	span.SetAttributes(attribute.Bool("session.opened", true))

	s.record(ctx, user.ID, "SessionOpened", SessionOpenedEvent{Username: user.Name})
	return sess, nil
}

// IsAuthenticated reports whether the exact (username, key) pair is live.
func (s *service) IsAuthenticated(ctx context.Context, sess Session) bool {
	_, span := s.tracer.Start(ctx, "session.is_authenticated",
		trace.WithAttributes(attribute.String("user.name", sess.Username)),
	)
	defer span.End()

	ok := s.sessions.Contains(sess)
	span.SetAttributes(attribute.Bool("session.valid", ok))
	return ok
}

// DestroySession removes every live session for the username. Destroying a
// user with no sessions is a no-op, not an error.
func (s *service) DestroySession(ctx context.Context, username string) {
	ctx, span := s.tracer.Start(ctx, "session.destroy",
		trace.WithAttributes(attribute.String("user.name", username)),
	)
	defer span.End()

	count := s.sessions.Destroy(username)
	span.SetAttributes(attribute.Int("sessions.destroyed", count))
	if count == 0 {
		return
	}

	if user, err := s.users.Lookup(username); err == nil {
		s.record(ctx, user.ID, "SessionsDestroyed", SessionsDestroyedEvent{Username: user.Name, Count: count})
	}
}

// record appends a journal event for the user aggregate. Journal failures are
// logged, never surfaced: the mutation has already happened.
func (s *service) record(ctx context.Context, aggregateID uuid.UUID, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Warn("failed to marshal journal event", "event_type", eventType, "error", err)
		return
	}

	version, err := s.journal.CurrentVersion(ctx, aggregateID)
	if err != nil {
		slog.Warn("failed to read journal version", "event_type", eventType, "error", err)
		return
	}

	event := journal.Event{EventType: eventType, EventData: payload}
	if err := s.journal.Append(ctx, aggregateID, "user", version, []journal.Event{event}); err != nil {
		slog.Warn("failed to append journal event", "event_type", eventType, "error", err)
	}
}
