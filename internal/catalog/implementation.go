package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bookery/internal/journal"
	"bookery/internal/platform/errors"
	"bookery/internal/session"
)

// bookNamespace derives stable journal aggregate IDs from (isbn, owner) keys.
var bookNamespace = uuid.MustParse("8f1d6d9e-3b5a-4c3e-9a1f-04c2d3b7a5e1")

// service implements the Service interface. It is stateless apart from its
// collaborators: every mutation consults the session service before touching
// the store.
type service struct {
	store    *Store
	sessions Authorizer
	journal  *journal.Journal
	tracer   trace.Tracer
}

// NewService creates a new catalog service instance.
func NewService(store *Store, sessions Authorizer, jnl *journal.Journal) Service {
	return &service{
		store:    store,
		sessions: sessions,
		journal:  jnl,
		tracer:   otel.Tracer("bookery/catalog"),
	}
}

// AddBook inserts a book for the session's user. The declared owner must
// match the session's username, compared case-insensitively.
func (s *service) AddBook(ctx context.Context, book Book, sess session.Session) error {
	ctx, span := s.tracer.Start(ctx, "catalog.add_book",
		trace.WithAttributes(
			attribute.String("book.isbn", book.ISBN),
			attribute.String("book.owner", book.Owner),
		),
	)
	defer span.End()

	if !s.sessions.IsAuthenticated(ctx, sess) {
		return errors.Unauthorized("the session is not authenticated")
	}
	if !strings.EqualFold(book.Owner, sess.Username) {
		return errors.Unauthorized("the book's owner does not match the session's user")
	}

	if err := s.store.Add(book); err != nil {
		return err
	}

	s.record(ctx, book, "BookAdded", BookAddedEvent{ISBN: book.ISBN, Owner: book.Owner, Title: book.Title})
	return nil
}

// RemoveBook removes the exact (isbn, owner) record, provided the session's
// user is its declared owner.
func (s *service) RemoveBook(ctx context.Context, book Book, sess session.Session) error {
	ctx, span := s.tracer.Start(ctx, "catalog.remove_book",
		trace.WithAttributes(
			attribute.String("book.isbn", book.ISBN),
			attribute.String("book.owner", book.Owner),
		),
	)
	defer span.End()

	if !s.sessions.IsAuthenticated(ctx, sess) {
		return errors.Unauthorized("the session is not authenticated")
	}
	if !strings.EqualFold(book.Owner, sess.Username) {
		return errors.Unauthorized("the book's owner does not match the session's user")
	}

	if s.store.Remove(book) {
		s.record(ctx, book, "BookRemoved", BookRemovedEvent{ISBN: book.ISBN, Owner: book.Owner})
	}
	return nil
}

// RemoveBookByISBN removes the session user's own copy with the given ISBN.
// A copy that does not exist and a copy owned by someone else both fail as
// unauthorized, so the call does not leak other owners' holdings.
func (s *service) RemoveBookByISBN(ctx context.Context, isbn string, sess session.Session) error {
	ctx, span := s.tracer.Start(ctx, "catalog.remove_book_by_isbn",
		trace.WithAttributes(attribute.String("book.isbn", isbn)),
	)
	defer span.End()

	if !s.sessions.IsAuthenticated(ctx, sess) {
		return errors.Unauthorized("the session is not authenticated")
	}

	book, err := s.store.Lookup(isbn, sess.Username)
	if err != nil {
		return errors.Unauthorized("no such book for the session's user")
	}

	if s.store.Remove(book) {
		s.record(ctx, book, "BookRemoved", BookRemovedEvent{ISBN: book.ISBN, Owner: book.Owner})
	}
	return nil
}

// LookupBook finds the unique book with the given ISBN and owner. Reads need
// no session.
func (s *service) LookupBook(ctx context.Context, isbn, owner string) (Book, error) {
	_, span := s.tracer.Start(ctx, "catalog.lookup_book",
		trace.WithAttributes(
			attribute.String("book.isbn", isbn),
			attribute.String("book.owner", owner),
		),
	)
	defer span.End()

	return s.store.Lookup(isbn, owner)
}

// Books returns a snapshot of the whole catalog.
func (s *service) Books(ctx context.Context) []Book {
	_, span := s.tracer.Start(ctx, "catalog.books")
	defer span.End()

	books := s.store.Books()
	span.SetAttributes(attribute.Int("books.count", len(books)))
	return books
}

// OwnersForBook returns the owners holding a copy with the given ISBN.
func (s *service) OwnersForBook(ctx context.Context, isbn string) []string {
	_, span := s.tracer.Start(ctx, "catalog.owners_for_book",
		trace.WithAttributes(attribute.String("book.isbn", isbn)),
	)
	defer span.End()

	return s.store.OwnersForISBN(isbn)
}

// BooksForOwner returns all books owned by owner.
func (s *service) BooksForOwner(ctx context.Context, owner string) []Book {
	_, span := s.tracer.Start(ctx, "catalog.books_for_owner",
		trace.WithAttributes(attribute.String("book.owner", owner)),
	)
	defer span.End()

	return s.store.BooksForOwner(owner)
}

// record appends a journal event for the book aggregate. Journal failures are
// logged, never surfaced: the catalog mutation has already happened.
func (s *service) record(ctx context.Context, book Book, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Warn("failed to marshal journal event", "event_type", eventType, "error", err)
		return
	}

	k := book.key()
	aggregateID := uuid.NewSHA1(bookNamespace, []byte(k.isbn+"/"+k.owner))

	version, err := s.journal.CurrentVersion(ctx, aggregateID)
	if err != nil {
		slog.Warn("failed to read journal version", "event_type", eventType, "error", err)
		return
	}

	event := journal.Event{EventType: eventType, EventData: payload}
	if err := s.journal.Append(ctx, aggregateID, "book", version, []journal.Event{event}); err != nil {
		slog.Warn("failed to append journal event", "event_type", eventType, "error", err)
	}
}
