package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookery/internal/platform/errors"
)

// Handler exposes the session service over HTTP.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the session endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/users", h.handleRegister)
	r.Post("/sessions", h.handleAuthenticate)
	r.Post("/sessions/validate", h.handleValidate)
	r.Delete("/sessions/{username}", h.handleDestroy)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidArgument("malformed request body"))
		return
	}

	user, err := h.service.Register(r.Context(), req.Name, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

func (h *Handler) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidArgument("malformed request body"))
		return
	}

	sess, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sess)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var sess Session
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		writeError(w, errors.InvalidArgument("malformed request body"))
		return
	}

	resp := struct {
		Authenticated bool `json:"authenticated"`
	}{h.service.IsAuthenticated(r.Context(), sess)}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleDestroy(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	h.service.DestroySession(r.Context(), username)
	w.WriteHeader(http.StatusNoContent)
}

// writeError serializes a failure as JSON with its mapped status code.
func writeError(w http.ResponseWriter, err error) {
	e := errors.AsError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus())
	json.NewEncoder(w).Encode(e.ToResponse())
}
