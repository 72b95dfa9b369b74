package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"golunesbridge/bridge"
	"golunesbridge/types"
)

type SubmitRequest struct {
	Direction          string `json:"direction"`
	Amount             string `json:"amount"`
	SourceAddress      string `json:"sourceAddress"`
	DestinationAddress string `json:"destinationAddress"`
}

// Submit drives one bridge attempt end to end: orchestrator, then tracking
// in the background. The response carries the allocated transaction id.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("error reading request body: %s", err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Error reading request body",
		}, http.StatusBadRequest)
		return
	}

	var req SubmitRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		log.Printf("error unmarshalling request body: %s", err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Cannot unmarshal input JSON",
		}, http.StatusBadRequest)
		return
	}

	direction, ok := types.ParseDirection(req.Direction)
	if !ok {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   "direction",
			Message: "Direction must be deposit or redemption",
		}, http.StatusBadRequest)
		return
	}

	tx, err := h.orch.Execute(r.Context(), direction, req.Amount, req.SourceAddress, req.DestinationAddress)
	if err != nil {
		h.submitError(w, err)
		return
	}

	responseJSON(w, &APISubmitResponse{
		Status:        "ok",
		TransactionID: tx.ID,
		State:         string(bridge.UIStateProcessing),
	}, http.StatusOK)
}

// submitError maps the error taxonomy onto HTTP codes. ApprovalRequired is
// an action for the caller, not a failure, hence 409 rather than 4xx input
// or 5xx server classes.
func (h *Handler) submitError(w http.ResponseWriter, err error) {
	be := types.AsBridgeError(err)
	if be == nil {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: bridge.UserMessage(err, h.devMode),
		}, http.StatusInternalServerError)
		return
	}

	message := bridge.UserMessage(be, h.devMode)

	switch be.Kind {
	case types.ErrInvalidAmount, types.ErrInvalidAddress:
		responseJSON(w, &APIResponse{
			Status:  "error",
			Field:   be.Field,
			Message: message,
		}, http.StatusBadRequest)
	case types.ErrRateLimited:
		responseJSON(w, &APISubmitResponse{
			Status:            "error",
			State:             string(bridge.UIStateError),
			RetryAfterSeconds: int64(be.RetryAfter.Seconds()) + 1,
		}, http.StatusTooManyRequests)
	case types.ErrApprovalRequired:
		responseJSON(w, &APIResponse{
			Status:  "approval_required",
			Field:   be.Field,
			Message: message,
		}, http.StatusConflict)
	case types.ErrContractPaused, types.ErrBridgeUnavailable:
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: message,
		}, http.StatusServiceUnavailable)
	case types.ErrRegistrationFailed:
		// keep the signature visible so the on-chain leg is never repeated
		responseJSON(w, &APISubmitResponse{
			Status:          "error",
			State:           string(bridge.UIStateError),
			SourceSignature: be.Signature,
		}, http.StatusBadGateway)
	default:
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: message,
		}, http.StatusInternalServerError)
	}
}
