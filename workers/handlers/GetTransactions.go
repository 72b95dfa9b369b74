package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"golunesbridge/types"
)

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tx, err := h.store.FindTransactionByID(id)
	if err != nil {
		responseJSON(w, nil, http.StatusInternalServerError)
		return
	}
	if tx == nil {
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Unknown transaction id",
		}, http.StatusNotFound)
		return
	}

	responseJSON(w, tx, http.StatusOK)
}

func (h *Handler) GetFailedTransactions(w http.ResponseWriter, r *http.Request) {
	failedTxs, err := h.store.FindAllTransactionsByStatus(types.StatusFailed)
	if err != nil {
		responseJSON(w, nil, http.StatusInternalServerError)
		return
	}

	responseJSON(w, failedTxs, http.StatusOK)
}

func (h *Handler) GetCompletedTransactions(w http.ResponseWriter, r *http.Request) {
	completedTxs, err := h.store.FindAllTransactionsByStatus(types.StatusCompleted)
	if err != nil {
		responseJSON(w, nil, http.StatusInternalServerError)
		return
	}

	responseJSON(w, completedTxs, http.StatusOK)
}
