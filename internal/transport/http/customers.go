package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/shopspring/decimal"
)

type createCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ManagerName string `json:"managerName"`
}

func (c *Controller) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		respondBadRequest(w, "name is required")
		return
	}

	customerID, err := c.service.CreateCustomer(r.Context(), model.Customer{
		Name:        req.Name,
		Email:       req.Email,
		ManagerName: req.ManagerName,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"customerID": customerID})
}

func (c *Controller) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.service.GetCustomers(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, customers)
}

type createWalletRequest struct {
	CustomerID   int64            `json:"customerID"`
	BaseWalletID *int64           `json:"baseWalletID,omitempty"`
	StartDate    *time.Time       `json:"startDate,omitempty"`
	CurrentValue *decimal.Decimal `json:"currentValue,omitempty"`
}

func (c *Controller) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	if req.CustomerID == 0 {
		respondBadRequest(w, "customerID is required")
		return
	}

	wallet := model.Wallet{
		CustomerID:   req.CustomerID,
		BaseWalletID: req.BaseWalletID,
	}
	if req.StartDate != nil {
		wallet.StartDate = *req.StartDate
	}
	if req.CurrentValue != nil {
		wallet.CurrentValue = *req.CurrentValue
	}

	walletID, err := c.service.CreateWallet(r.Context(), wallet)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"walletID": walletID})
}

func (c *Controller) GetWallet(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathInt64(r, "walletID")
	if err != nil {
		respondBadRequest(w, "invalid wallet id")
		return
	}

	wallet, err := c.service.GetWallet(r.Context(), walletID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, wallet)
}

func (c *Controller) GetWalletAssets(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathInt64(r, "walletID")
	if err != nil {
		respondBadRequest(w, "invalid wallet id")
		return
	}

	holdings, err := c.service.GetWalletAssets(r.Context(), walletID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, holdings)
}
