package http

import (
	"net/http"
)

func (c *Controller) GetWalletClosings(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	closings, err := c.service.GetWalletClosings(r.Context(), year, month)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, closings)
}

func (c *Controller) GetManagerPerformance(w http.ResponseWriter, r *http.Request) {
	performance, err := c.service.GetManagerPerformance(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, performance)
}

func (c *Controller) GetOverdueWallets(w http.ResponseWriter, r *http.Request) {
	overdue, err := c.service.GetOverdueWallets(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, overdue)
}

func (c *Controller) GenerateCashflowReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	downloadLink, err := c.service.GenerateCashflowReport(r.Context(), year, month)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"downloadLink": downloadLink})
}
