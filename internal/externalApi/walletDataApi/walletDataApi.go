// Package walletDataApi is the client of the external wallet data
// service: the source of truth for per-wallet asset holdings and the
// update collaborator for allocation changes.
package walletDataApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/novortex/wallet-backoffice/config"
	"github.com/novortex/wallet-backoffice/internal/externalApi"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/shopspring/decimal"
)

type WalletDataApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *WalletDataApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.WalletDataUrl)
	return &WalletDataApi{client: client}
}

func (a *WalletDataApi) GetWalletAssets(ctx context.Context, walletID int64) ([]model.AssetHolding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := fmt.Sprintf("/wallets/%d/assets", walletID)

	slog.Debug("start WalletDataApi.GetWalletAssets request", slog.String("rqID", rqID), slog.Int64("walletID", walletID))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)

	if err != nil {
		slog.Error("error while dialing WalletDataApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, externalApi.ErrNotFound
	}

	if resp.IsError() {
		slog.Error("WalletDataApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return nil, fmt.Errorf("wallet data api status %d", resp.StatusCode())
	}

	var holdings []model.AssetHolding
	err = json.Unmarshal(resp.Body(), &holdings)
	if err != nil {
		slog.Error("can't unmarshall response into []model.AssetHolding", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	slog.Debug("WalletDataApi.GetWalletAssets request complete", slog.String("rqID", rqID))

	return holdings, nil
}

// UpdateAssetAllocation sets the ideal allocation of one asset the wallet
// already holds.
func (a *WalletDataApi) UpdateAssetAllocation(ctx context.Context, walletID int64, assetUUID string, idealAllocation decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := fmt.Sprintf("/wallets/%d/assets/%s", walletID, assetUUID)
	body := map[string]any{
		"idealAllocation": idealAllocation,
	}

	slog.Debug("start WalletDataApi.UpdateAssetAllocation request", slog.String("rqID", rqID), slog.Int64("walletID", walletID), slog.String("assetUUID", assetUUID))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put(url)

	if err != nil {
		slog.Error("error while dialing WalletDataApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return err
	}

	if resp.IsError() {
		slog.Error("WalletDataApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return fmt.Errorf("wallet data api status %d", resp.StatusCode())
	}

	slog.Debug("WalletDataApi.UpdateAssetAllocation request complete", slog.String("rqID", rqID))

	return nil
}

// AddAssetToWallet adds an asset the wallet does not hold yet: zero
// quantity, target ideal allocation.
func (a *WalletDataApi) AddAssetToWallet(ctx context.Context, walletID int64, assetUUID string, idealAllocation decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := fmt.Sprintf("/wallets/%d/assets", walletID)
	body := map[string]any{
		"assetUuid":       assetUUID,
		"quantity":        0,
		"idealAllocation": idealAllocation,
	}

	slog.Debug("start WalletDataApi.AddAssetToWallet request", slog.String("rqID", rqID), slog.Int64("walletID", walletID), slog.String("assetUUID", assetUUID))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)

	if err != nil {
		slog.Error("error while dialing WalletDataApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return err
	}

	if resp.IsError() {
		slog.Error("WalletDataApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return fmt.Errorf("wallet data api status %d", resp.StatusCode())
	}

	slog.Debug("WalletDataApi.AddAssetToWallet request complete", slog.String("rqID", rqID))

	return nil
}
