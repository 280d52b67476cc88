package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookery/internal/platform/errors"
	"bookery/internal/session"
)

// newTestServer runs the catalog handler over a real router with an
// authenticated alice session.
func newTestServer(t *testing.T) (*httptest.Server, session.Session) {
	t.Helper()
	f := newFixture(t)

	router := chi.NewRouter()
	NewHandler(f.catalog).Routes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, f.login(t, "alice")
}

func postBook(t *testing.T, url string, book Book, sess session.Session) *http.Response {
	t.Helper()
	body, err := json.Marshal(bookRequest{Book: book, Session: sess})
	require.NoError(t, err)
	resp, err := http.Post(url+"/books", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandlerAddAndListBooks(t *testing.T) {
	server, sess := newTestServer(t)

	resp := postBook(t, server.URL, testBook("0123456789", "alice"), sess)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	listResp, err := http.Get(server.URL + "/books")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var books []Book
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&books))
	require.Len(t, books, 1)
	assert.Equal(t, "0123456789", books[0].ISBN)
}

func TestHandlerDuplicateBookConflicts(t *testing.T) {
	server, sess := newTestServer(t)

	resp := postBook(t, server.URL, testBook("0123456789", "alice"), sess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postBook(t, server.URL, testBook("0123456789", "alice"), sess)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body errors.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, errors.KindDuplicateBook, body.Kind)
}

func TestHandlerRejectsForgedSession(t *testing.T) {
	server, _ := newTestServer(t)

	forged := session.Session{Username: "alice", Key: "not-a-real-key!!"}
	resp := postBook(t, server.URL, testBook("0123456789", "alice"), forged)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body errors.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, errors.KindUnauthorized, body.Kind)
}

func TestHandlerRejectsMalformedBody(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/books", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerLookupAndQueries(t *testing.T) {
	server, sess := newTestServer(t)

	resp := postBook(t, server.URL, testBook("0123456789", "alice"), sess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	lookupResp, err := http.Get(server.URL + "/books/0123456789?owner=ALICE")
	require.NoError(t, err)
	defer lookupResp.Body.Close()
	require.Equal(t, http.StatusOK, lookupResp.StatusCode)

	var book Book
	require.NoError(t, json.NewDecoder(lookupResp.Body).Decode(&book))
	assert.Equal(t, "alice", book.Owner)

	missingResp, err := http.Get(server.URL + "/books/9999999999?owner=alice")
	require.NoError(t, err)
	defer missingResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)

	ownersResp, err := http.Get(server.URL + "/books/0123456789/owners")
	require.NoError(t, err)
	defer ownersResp.Body.Close()
	var owners []string
	require.NoError(t, json.NewDecoder(ownersResp.Body).Decode(&owners))
	assert.Equal(t, []string{"alice"}, owners)
}

func TestHandlerRemoveByISBN(t *testing.T) {
	server, sess := newTestServer(t)

	resp := postBook(t, server.URL, testBook("0123456789", "alice"), sess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body, err := json.Marshal(struct {
		Session session.Session `json:"session"`
	}{sess})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete,
		server.URL+"/books/0123456789", bytes.NewReader(body))
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	lookupResp, err := http.Get(server.URL + "/books/0123456789?owner=alice")
	require.NoError(t, err)
	defer lookupResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, lookupResp.StatusCode)
}
