// ABOUTME: RFC 7807 problem responses and storage error mapping.
// ABOUTME: Sentinel storage errors become 404/409/400, everything else 500.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harperreed/energy/internal/storage"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

var problemTypes = map[int]string{
	http.StatusBadRequest:          "bad-request",
	http.StatusNotFound:            "not-found",
	http.StatusConflict:            "conflict",
	http.StatusInternalServerError: "internal-error",
}

func (h *Handler) writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	slug, ok := problemTypes[status]
	if !ok {
		slug = "unknown"
	}

	p := Problem{
		Type:     "about:blank#" + slug,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.log.Error("failed to encode problem response", "error", err)
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.writeProblem(w, r, http.StatusBadRequest, err.Error())
}

// storeError converts storage errors to problem responses. Internal details
// are logged, never returned.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.writeProblem(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrDuplicateName):
		h.writeProblem(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrAmbiguous):
		h.writeProblem(w, r, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", "path", r.URL.Path, "error", err)
		h.writeProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
