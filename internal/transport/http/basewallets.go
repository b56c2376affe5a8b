package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/shopspring/decimal"
)

type createBaseWalletRequest struct {
	Name        string              `json:"name"`
	RiskProfile string              `json:"riskProfile"`
	Targets     []model.TargetAsset `json:"targets"`
}

func (c *Controller) CreateBaseWallet(w http.ResponseWriter, r *http.Request) {
	var req createBaseWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		respondBadRequest(w, "name is required")
		return
	}

	baseWalletID, err := c.service.CreateBaseWallet(r.Context(), req.Name, req.RiskProfile, req.Targets)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"baseWalletID": baseWalletID})
}

func (c *Controller) GetBaseWallets(w http.ResponseWriter, r *http.Request) {
	baseWallets, err := c.service.GetBaseWallets(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, baseWallets)
}

func (c *Controller) GetBaseWallet(w http.ResponseWriter, r *http.Request) {
	baseWalletID, err := pathInt64(r, "baseWalletID")
	if err != nil {
		respondBadRequest(w, "invalid base wallet id")
		return
	}

	baseWallet, err := c.service.GetBaseWallet(r.Context(), baseWalletID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, baseWallet)
}

type setTargetsRequest struct {
	Targets []model.TargetAsset `json:"targets"`
}

func (c *Controller) SetBaseWalletTargets(w http.ResponseWriter, r *http.Request) {
	baseWalletID, err := pathInt64(r, "baseWalletID")
	if err != nil {
		respondBadRequest(w, "invalid base wallet id")
		return
	}

	var req setTargetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	if err := c.service.SetBaseWalletTargets(r.Context(), baseWalletID, req.Targets); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type editTargetAllocationRequest struct {
	IdealAllocation decimal.Decimal `json:"idealAllocation"`
}

func (c *Controller) EditBaseWalletTargetAllocation(w http.ResponseWriter, r *http.Request) {
	baseWalletID, err := pathInt64(r, "baseWalletID")
	if err != nil {
		respondBadRequest(w, "invalid base wallet id")
		return
	}

	assetUUID := chi.URLParam(r, "assetUUID")

	var req editTargetAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	if err := c.service.EditBaseWalletTargetAllocation(r.Context(), baseWalletID, assetUUID, req.IdealAllocation); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) PreviewStandardization(w http.ResponseWriter, r *http.Request) {
	baseWalletID, err := pathInt64(r, "baseWalletID")
	if err != nil {
		respondBadRequest(w, "invalid base wallet id")
		return
	}

	year, month, err := yearMonth(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	preview, err := c.service.PreviewStandardization(r.Context(), baseWalletID, year, month)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

func (c *Controller) ApplyStandardization(w http.ResponseWriter, r *http.Request) {
	baseWalletID, err := pathInt64(r, "baseWalletID")
	if err != nil {
		respondBadRequest(w, "invalid base wallet id")
		return
	}

	year, month, err := yearMonth(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	report, err := c.service.ApplyStandardization(r.Context(), baseWalletID, year, month)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}
