package favorites

import (
	"net/http"

	"uilibs/internal/httpx"
)

type HTTPHandler struct {
	secureCookie bool
}

func NewHTTPHandler(secureCookie bool) *HTTPHandler {
	return &HTTPHandler{secureCookie: secureCookie}
}

// List handles GET /v1/favorites
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, IDs(Read(r)), nil)
}

// Add handles PUT /v1/favorites/{id}
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validID(id) {
		httpx.BadRequest(w, r, "invalid library id")
		return
	}

	set := Read(r)
	set[id] = struct{}{}
	Write(w, set, h.secureCookie)
	httpx.JSONSuccess(w, r, IDs(set), nil)
}

// Remove handles DELETE /v1/favorites/{id}
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !validID(id) {
		httpx.BadRequest(w, r, "invalid library id")
		return
	}

	set := Read(r)
	delete(set, id)
	Write(w, set, h.secureCookie)
	httpx.JSONSuccess(w, r, IDs(set), nil)
}
