// Package rebalanceCalcApi is the client of the external rebalance
// calculation service: it owns deciding WHICH assets to buy or sell given
// allocation drift, we only reconcile and confirm its proposal.
package rebalanceCalcApi

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
)

type RebalanceCalcApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *RebalanceCalcApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.RebalanceCalcUrl)
	return &RebalanceCalcApi{client: client}
}

func (a *RebalanceCalcApi) GetProposal(ctx context.Context, walletID int64) ([]model.ProposedOperation, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := fmt.Sprintf("/wallets/%d/rebalance/proposal", walletID)

	slog.Debug("start RebalanceCalcApi.GetProposal request", slog.String("rqID", rqID), slog.Int64("walletID", walletID))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)

	if err != nil {
		slog.Error("error while dialing RebalanceCalcApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, externalApi.ErrNotFound
	}

	if resp.IsError() {
		slog.Error("RebalanceCalcApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return nil, fmt.Errorf("rebalance calc api status %d", resp.StatusCode())
	}

	var operations []model.ProposedOperation
	err = json.Unmarshal(resp.Body(), &operations)
	if err != nil {
		slog.Error("can't unmarshall response into []model.ProposedOperation", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	slog.Debug("RebalanceCalcApi.GetProposal request complete", slog.String("rqID", rqID))

	return operations, nil
}
