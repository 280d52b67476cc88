package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookery/internal/platform/errors"
)

func TestUserStoreAddLookupRemove(t *testing.T) {
	store := NewUserStore()
	user := User{ID: uuid.New(), Name: "Alice", PasswordHash: "h", Salt: "s"}
	require.NoError(t, store.Add(user))

	got, err := store.Lookup("alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	err = store.Add(User{ID: uuid.New(), Name: "ALICE", PasswordHash: "h", Salt: "s"})
	assert.Equal(t, errors.KindDuplicateUser, errors.KindOf(err))

	store.Remove("ALICE")
	_, err = store.Lookup("alice")
	assert.Equal(t, errors.KindUserNotFound, errors.KindOf(err))

	// Removing an absent user is a no-op.
	store.Remove("alice")
}

func TestUserStoreRejectsEmptyFields(t *testing.T) {
	store := NewUserStore()
	assert.Equal(t, errors.KindInvalidArgument, errors.KindOf(store.Add(User{Name: "", PasswordHash: "h"})))
	assert.Equal(t, errors.KindInvalidArgument, errors.KindOf(store.Add(User{Name: "alice", PasswordHash: ""})))
}

func TestUserStoreSnapshot(t *testing.T) {
	store := NewUserStore()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Add(User{ID: uuid.New(), Name: fmt.Sprintf("user%d", i), PasswordHash: "h", Salt: "s"}))
	}
	assert.Len(t, store.Users(), 3)
}

func TestUserStoreConcurrentAddSingleWinner(t *testing.T) {
	store := NewUserStore()

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Add(User{ID: uuid.New(), Name: "alice", PasswordHash: "h", Salt: "s"})
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestSessionsDestroyMatchesCaseInsensitively(t *testing.T) {
	live := NewSessions()
	live.Add(Session{Username: "Alice", Key: "k1"})
	live.Add(Session{Username: "alice", Key: "k2"})
	live.Add(Session{Username: "bob", Key: "k3"})

	removed := live.Destroy("ALICE")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, live.Len())
	assert.True(t, live.Contains(Session{Username: "bob", Key: "k3"}))
}

func TestSessionsContainsIsExact(t *testing.T) {
	live := NewSessions()
	live.Add(Session{Username: "alice", Key: "k1"})

	assert.True(t, live.Contains(Session{Username: "alice", Key: "k1"}))
	assert.False(t, live.Contains(Session{Username: "alice", Key: "k2"}))
	assert.False(t, live.Contains(Session{Username: "Alice", Key: "k1"}))
}
