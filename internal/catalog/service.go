package catalog

import (
	"context"

	"bookery/internal/session"
)

// Service defines the interface for the catalog service. Mutations require a
// live session whose username matches the record's owner; reads do not.
type Service interface {
	AddBook(ctx context.Context, book Book, sess session.Session) error
	RemoveBook(ctx context.Context, book Book, sess session.Session) error
	RemoveBookByISBN(ctx context.Context, isbn string, sess session.Session) error
	LookupBook(ctx context.Context, isbn, owner string) (Book, error)
	Books(ctx context.Context) []Book
	OwnersForBook(ctx context.Context, isbn string) []string
	BooksForOwner(ctx context.Context, owner string) []Book
}

// Authorizer is the slice of the session service the catalog depends on.
type Authorizer interface {
	IsAuthenticated(ctx context.Context, sess session.Session) bool
}
