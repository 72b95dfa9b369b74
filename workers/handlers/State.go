package handlers

import (
	"net/http"
)

// State reports the current user-visible bridge state
// (idle/processing/success/error).
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	responseJSON(w, &APIStateResponse{
		Status: string(h.orch.State()),
	}, http.StatusOK)
}
