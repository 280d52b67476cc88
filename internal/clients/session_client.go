// Package clients provides HTTP clients for the session and catalog
// services, used by the console front-end. Failure kinds raised by the
// services are reconstructed from the error responses.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bookery/internal/platform/errors"
	"bookery/internal/session"
)

type SessionClient struct {
	baseURL string
}

func NewSessionClient(baseURL string) *SessionClient {
	return &SessionClient{baseURL: baseURL}
}

func (c *SessionClient) Register(ctx context.Context, name, password string) (session.User, error) {
	var user session.User
	err := postJSON(ctx, c.baseURL+"/users",
		map[string]string{"name": name, "password": password}, &user)
	return user, err
}

func (c *SessionClient) Authenticate(ctx context.Context, username, password string) (session.Session, error) {
	var sess session.Session
	err := postJSON(ctx, c.baseURL+"/sessions",
		map[string]string{"username": username, "password": password}, &sess)
	return sess, err
}

func (c *SessionClient) IsAuthenticated(ctx context.Context, sess session.Session) (bool, error) {
	var resp struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := postJSON(ctx, c.baseURL+"/sessions/validate", sess, &resp); err != nil {
		return false, err
	}
	return resp.Authenticated, nil
}

func (c *SessionClient) DestroySession(ctx context.Context, username string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/sessions/%s", c.baseURL, username), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// postJSON posts body as JSON and decodes the response into out when out is
// non-nil.
func postJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// deleteJSON issues a DELETE with a JSON body, which is how mutating catalog
// requests carry the acting session.
func deleteJSON(ctx context.Context, url string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func decodeBody(resp *http.Response, out any) error {
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// checkStatus turns an error response back into the failure the service
// raised.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	var body errors.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return errors.FromResponse(body)
}
