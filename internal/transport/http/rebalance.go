package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/shopspring/decimal"
)

// sessionResponse is the dialog state the frontend renders: the line
// items plus whether the buy and sell totals currently match.
type sessionResponse struct {
	Session model.RebalanceSession `json:"session"`
	Status  model.BalanceStatus    `json:"status"`
}

func (c *Controller) CreateRebalanceSession(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathInt64(r, "walletID")
	if err != nil {
		respondBadRequest(w, "invalid wallet id")
		return
	}

	sess, status, err := c.service.CreateRebalanceSession(r.Context(), walletID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse{Session: sess, Status: status})
}

func (c *Controller) GetRebalanceSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, status, err := c.service.GetRebalanceSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Session: sess, Status: status})
}

type editAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (c *Controller) EditSessionAmount(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	assetName := chi.URLParam(r, "assetName")

	var req editAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	sess, status, err := c.service.EditSessionAmount(r.Context(), sessionID, assetName, req.Amount)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Session: sess, Status: status})
}

func (c *Controller) ToggleSessionItem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	assetName := chi.URLParam(r, "assetName")

	sess, status, err := c.service.ToggleSessionItem(r.Context(), sessionID, assetName)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Session: sess, Status: status})
}

func (c *Controller) ResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, status, err := c.service.ResetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{Session: sess, Status: status})
}

func (c *Controller) ConfirmRebalanceSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	status, err := c.service.ConfirmRebalanceSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (c *Controller) CancelSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := c.service.CancelSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
