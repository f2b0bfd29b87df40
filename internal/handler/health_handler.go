package handlers

import (
	"net/http"

	"primariaPortal/internal/logger"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Metodă nepermisă", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.HealthService.Check(r.Context())
	if err != nil {
		logger.Errorf("verificarea stării a eșuat: %v", err)
		WriteSuccess(w, report, http.StatusServiceUnavailable)
		return
	}

	WriteSuccess(w, report, http.StatusOK)
}
