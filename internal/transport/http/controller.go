// Package http is the REST transport of the back office: thin handlers
// that decode requests, call the service and map service errors onto
// status codes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/shopspring/decimal"
)

type walletService interface {
	CreateCustomer(ctx context.Context, customer model.Customer) (int64, error)
	GetCustomers(ctx context.Context) ([]model.Customer, error)
	CreateWallet(ctx context.Context, wallet model.Wallet) (int64, error)
	GetWallet(ctx context.Context, walletID int64) (model.Wallet, error)
	GetWalletAssets(ctx context.Context, walletID int64) ([]model.AssetHolding, error)
	CreateBaseWallet(ctx context.Context, name, riskProfile string, targets []model.TargetAsset) (int64, error)
	GetBaseWallet(ctx context.Context, baseWalletID int64) (model.BaseWallet, error)
	GetBaseWallets(ctx context.Context) ([]model.BaseWallet, error)
	SetBaseWalletTargets(ctx context.Context, baseWalletID int64, targets []model.TargetAsset) error
	EditBaseWalletTargetAllocation(ctx context.Context, baseWalletID int64, assetUUID string, value decimal.Decimal) error
	PreviewStandardization(ctx context.Context, baseWalletID int64, year int, month time.Month) (model.StandardizationPreview, error)
	ApplyStandardization(ctx context.Context, baseWalletID int64, year int, month time.Month) (model.StandardizationReport, error)
	CreateRebalanceSession(ctx context.Context, walletID int64) (model.RebalanceSession, model.BalanceStatus, error)
	GetRebalanceSession(ctx context.Context, sessionID string) (model.RebalanceSession, model.BalanceStatus, error)
	EditSessionAmount(ctx context.Context, sessionID, assetName string, amount decimal.Decimal) (model.RebalanceSession, model.BalanceStatus, error)
	ToggleSessionItem(ctx context.Context, sessionID, assetName string) (model.RebalanceSession, model.BalanceStatus, error)
	ResetSession(ctx context.Context, sessionID string) (model.RebalanceSession, model.BalanceStatus, error)
	ConfirmRebalanceSession(ctx context.Context, sessionID string) (model.BalanceStatus, error)
	CancelSession(ctx context.Context, sessionID string) error
	GetWalletClosings(ctx context.Context, year int, month time.Month) ([]model.WalletClosing, error)
	GetManagerPerformance(ctx context.Context) ([]model.ManagerPerformance, error)
	GetOverdueWallets(ctx context.Context) ([]model.OverdueWallet, error)
	GenerateCashflowReport(ctx context.Context, year int, month time.Month) (downloadLink string, err error)
}

type Controller struct {
	service walletService
}

func NewController(service walletService) *Controller {
	return &Controller{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed on encoding response", slog.String("err", err.Error()))
	}
}

// respondServiceError maps service sentinels to statuses. Anything not
// recognized is a failed call to a collaborator service, surfaced as 502
// so the frontend can distinguish "we broke" from "upstream broke".
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	rqID := utils.GetRequestIDFromCtx(r.Context())

	switch {
	case errors.Is(err, service.ErrValidation):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrSessionNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAlreadyExists):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", slog.String("rqID", rqID), slog.String("path", r.URL.Path), slog.String("err", err.Error()))
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream service call failed"})
	}
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

func pathInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// yearMonth reads the year/month query pair, defaulting to the current
// month when absent.
func yearMonth(r *http.Request) (int, time.Month, error) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errors.New("invalid year")
		}
		year = parsed
	}

	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, errors.New("invalid month")
		}
		month = time.Month(parsed)
	}

	return year, month, nil
}
