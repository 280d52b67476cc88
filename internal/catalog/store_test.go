package catalog

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookery/internal/platform/errors"
)

func testBook(isbn, owner string) Book {
	return Book{
		Title:  "Some Title",
		Author: "Some Author",
		Year:   2001,
		Rating: RatingGood,
		ISBN:   isbn,
		Owner:  owner,
	}
}

func TestStoreAddAndLookup(t *testing.T) {
	store := NewStore()
	book := testBook("0123456789", "alice")

	require.NoError(t, store.Add(book))

	got, err := store.Lookup("0123456789", "alice")
	require.NoError(t, err)
	assert.Equal(t, book, got)

	// Owner comparison is case-insensitive.
	got, err = store.Lookup("0123456789", "ALICE")
	require.NoError(t, err)
	assert.Equal(t, book, got)

	_, err = store.Lookup("9999999999", "alice")
	assert.Equal(t, errors.KindBookNotFound, errors.KindOf(err))
}

func TestStoreRejectsDuplicates(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add(testBook("0123456789", "alice")))

	err := store.Add(testBook("0123456789", "Alice"))
	assert.Equal(t, errors.KindDuplicateBook, errors.KindOf(err))

	// Same ISBN under a different owner is a distinct record.
	assert.NoError(t, store.Add(testBook("0123456789", "bob")))
	assert.Equal(t, 2, store.Len())
}

func TestStoreRejectsInvalidBooks(t *testing.T) {
	store := NewStore()
	err := store.Add(Book{})
	assert.Equal(t, errors.KindInvalidArgument, errors.KindOf(err))
	assert.Equal(t, 0, store.Len())
}

func TestStoreRemove(t *testing.T) {
	store := NewStore()
	book := testBook("0123456789", "alice")
	require.NoError(t, store.Add(book))

	store.Remove(book)
	_, err := store.Lookup("0123456789", "alice")
	assert.Equal(t, errors.KindBookNotFound, errors.KindOf(err))

	// Removing an absent book is a no-op.
	store.Remove(book)
}

func TestStoreRemoveByISBNRemovesAllOwners(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add(testBook("0123456789", "alice")))
	require.NoError(t, store.Add(testBook("0123456789", "bob")))
	require.NoError(t, store.Add(testBook("123-0123456789", "alice")))

	removed := store.RemoveByISBN("0123456789")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Len())
}

func TestStoreQueries(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add(testBook("0123456789", "Alice")))
	require.NoError(t, store.Add(testBook("0123456789", "bob")))
	require.NoError(t, store.Add(testBook("123-0123456789", "alice")))

	owners := store.OwnersForISBN("0123456789")
	assert.ElementsMatch(t, []string{"Alice", "bob"}, owners)

	books := store.BooksForOwner("ALICE")
	require.Len(t, books, 2)
	for _, b := range books {
		assert.True(t, strings.EqualFold("alice", b.Owner))
	}

	assert.Empty(t, store.BooksForOwner("carol"))
	assert.Empty(t, store.OwnersForISBN("9999999999"))
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add(testBook("0123456789", "alice")))

	snapshot := store.Books()
	require.Len(t, snapshot, 1)
	snapshot[0].Title = "mutated"

	got, err := store.Lookup("0123456789", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Some Title", got.Title)
}

func TestStoreConcurrentAddSingleWinner(t *testing.T) {
	store := NewStore()

	const n = 32
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Add(testBook("0123456789", "alice"))
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, errors.KindDuplicateBook, errors.KindOf(err))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent add should win")
	assert.Equal(t, 1, store.Len())
}

func TestStoreConcurrentReadsAndWrites(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Add(testBook(fmt.Sprintf("%010d", i), "alice"))
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Books()
			_ = store.BooksForOwner("alice")
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, store.Len())
}
