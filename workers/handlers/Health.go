package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Health passes the bridge coordination service's health through.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	healthy, err := h.api.GetHealth(r.Context())
	if err != nil {
		log.Printf("error checking bridge service health: %s", err.Error())
		responseJSON(w, &APIHealthResponse{
			Status:  "error",
			Healthy: false,
		}, http.StatusServiceUnavailable)
		return
	}

	code := http.StatusOK
	status := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		status = "error"
	}
	responseJSON(w, &APIHealthResponse{
		Status:  status,
		Healthy: healthy,
	}, code)
}
