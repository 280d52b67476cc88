package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookery/internal/journal"
	"bookery/internal/platform/errors"
)

func newHandlerServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := NewService(NewUserStore(), NewSessions(), journal.New())

	router := chi.NewRouter()
	NewHandler(svc).Routes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandlerRegisterAndAuthenticate(t *testing.T) {
	server := newHandlerServer(t)

	resp := post(t, server.URL+"/users", map[string]string{"name": "alice", "password": "s3cret"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "alice", user.Name)
	// Credentials never leave the service.
	assert.Empty(t, user.PasswordHash)

	resp = post(t, server.URL+"/sessions", map[string]string{"username": "alice", "password": "s3cret"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sess Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	assert.Equal(t, "alice", sess.Username)
	assert.Len(t, sess.Key, sessionKeyLength)
}

func TestHandlerAuthenticateFailure(t *testing.T) {
	server := newHandlerServer(t)

	post(t, server.URL+"/users", map[string]string{"name": "alice", "password": "s3cret"})

	resp := post(t, server.URL+"/sessions", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body errors.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, errors.KindAuthenticationFailed, body.Kind)
}

func TestHandlerValidateAndDestroy(t *testing.T) {
	server := newHandlerServer(t)

	post(t, server.URL+"/users", map[string]string{"name": "alice", "password": "s3cret"})
	resp := post(t, server.URL+"/sessions", map[string]string{"username": "alice", "password": "s3cret"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))

	validate := func() bool {
		t.Helper()
		resp := post(t, server.URL+"/sessions/validate", sess)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Authenticated bool `json:"authenticated"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out.Authenticated
	}
	assert.True(t, validate())

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/sessions/alice", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	assert.False(t, validate())
}

func TestHandlerDuplicateUserConflict(t *testing.T) {
	server := newHandlerServer(t)

	resp := post(t, server.URL+"/users", map[string]string{"name": "alice", "password": "pw"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = post(t, server.URL+"/users", map[string]string{"name": "ALICE", "password": "pw"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
