package catalog

import (
	"sync"

	"bookery/internal/platform/errors"
)

// Store is the in-memory book collection, keyed by (isbn, owner). A single
// exclusive lock serializes mutations so the duplicate check and the insert
// are atomic together; reads copy under a shared lock.
type Store struct {
	mu    sync.RWMutex
	books map[key]Book
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{books: make(map[key]Book)}
}

// Add inserts a book after validating it. No ownership check happens here;
// that lives in the service in front of this store.
func (s *Store) Add(book Book) error {
	if err := book.Validate(); err != nil {
		return err
	}

	k := book.key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.books[k]; exists {
		return errors.DuplicateBook(book.ISBN, book.Owner)
	}
	s.books[k] = book
	return nil
}

// Remove deletes the book matching the given record's (isbn, owner) identity
// and reports whether it was present. Removing an absent book is a no-op.
func (s *Store) Remove(book Book) bool {
	k := book.key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[k]; !ok {
		return false
	}
	delete(s.books, k)
	return true
}

// RemoveByISBN deletes every book with the given ISBN regardless of owner and
// returns how many were removed. This is a broad-match primitive: callers
// must have authorized the removal against a specific owner first. Matches
// are collected before deletion so the map is never mutated mid-iteration.
func (s *Store) RemoveByISBN(isbn string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []key
	for k := range s.books {
		if k.isbn == isbn {
			matched = append(matched, k)
		}
	}
	for _, k := range matched {
		delete(s.books, k)
	}
	return len(matched)
}

// Lookup returns the unique book matching both the ISBN and the owner, with
// the owner compared case-insensitively.
func (s *Store) Lookup(isbn, owner string) (Book, error) {
	s.mu.RLock()
	book, ok := s.books[Book{ISBN: isbn, Owner: owner}.key()]
	s.mu.RUnlock()

	if !ok {
		return Book{}, errors.BookNotFound(isbn, owner)
	}
	return book, nil
}

// Books returns a snapshot of the whole catalog in no particular order.
func (s *Store) Books() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]Book, 0, len(s.books))
	for _, book := range s.books {
		books = append(books, book)
	}
	return books
}

// OwnersForISBN returns the owner names holding a copy with the given ISBN.
func (s *Store) OwnersForISBN(isbn string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make([]string, 0)
	for k, book := range s.books {
		if k.isbn == isbn {
			owners = append(owners, book.Owner)
		}
	}
	return owners
}

// BooksForOwner returns all books owned by owner, compared case-insensitively.
func (s *Store) BooksForOwner(owner string) []Book {
	folded := Book{Owner: owner}.key().owner

	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]Book, 0)
	for k, book := range s.books {
		if k.owner == folded {
			books = append(books, book)
		}
	}
	return books
}

// Len returns the number of books in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}
