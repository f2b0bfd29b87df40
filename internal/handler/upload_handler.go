package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"primariaPortal/internal/logger"
)

// ServeUpload streams a stored attachment or image. Names are validated by
// the storage backend, so staging files and traversal attempts end in 404.
func (h *Handlers) ServeUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	body, contentType, err := h.Storage.Open(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, body); err != nil {
		logger.Debugf("transfer întrerupt pentru %s: %v", r.URL.Path, err)
	}
}
