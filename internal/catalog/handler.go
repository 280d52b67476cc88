package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookery/internal/platform/errors"
	"bookery/internal/session"
)

// Handler exposes the catalog service over HTTP. Mutating requests carry the
// acting session in the JSON body, the way the RPC surface passes it as an
// argument.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the catalog endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/books", h.handleAddBook)
	r.Delete("/books", h.handleRemoveBook)
	r.Delete("/books/{isbn}", h.handleRemoveBookByISBN)
	r.Get("/books", h.handleBooks)
	r.Get("/books/{isbn}", h.handleLookupBook)
	r.Get("/books/{isbn}/owners", h.handleOwnersForBook)
	r.Get("/owners/{owner}/books", h.handleBooksForOwner)
}

type bookRequest struct {
	Book    Book            `json:"book"`
	Session session.Session `json:"session"`
}

func (h *Handler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidArgument("malformed request body"))
		return
	}

	if err := h.service.AddBook(r.Context(), req.Book, req.Session); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidArgument("malformed request body"))
		return
	}

	if err := h.service.RemoveBook(r.Context(), req.Book, req.Session); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveBookByISBN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Session session.Session `json:"session"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidArgument("malformed request body"))
		return
	}

	if err := h.service.RemoveBookByISBN(r.Context(), chi.URLParam(r, "isbn"), req.Session); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLookupBook(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	book, err := h.service.LookupBook(r.Context(), chi.URLParam(r, "isbn"), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, book)
}

func (h *Handler) handleBooks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.service.Books(r.Context()))
}

func (h *Handler) handleOwnersForBook(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.service.OwnersForBook(r.Context(), chi.URLParam(r, "isbn")))
}

func (h *Handler) handleBooksForOwner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.service.BooksForOwner(r.Context(), chi.URLParam(r, "owner")))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError serializes a failure as JSON with its mapped status code.
func writeError(w http.ResponseWriter, err error) {
	e := errors.AsError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus())
	json.NewEncoder(w).Encode(e.ToResponse())
}
