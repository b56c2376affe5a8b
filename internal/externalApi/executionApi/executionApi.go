// Package executionApi submits confirmed rebalance operations to the
// external trade execution service.
package executionApi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/novortex/wallet-backoffice/config"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/utils"
)

type ExecutionApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *ExecutionApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.ExecutionUrl)
	return &ExecutionApi{client: client}
}

func (a *ExecutionApi) SubmitOperations(ctx context.Context, walletID int64, operations []model.ConfirmedOperation) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := fmt.Sprintf("/wallets/%d/operations", walletID)

	slog.Debug(
		"start ExecutionApi.SubmitOperations request",
		slog.String("rqID", rqID),
		slog.Int64("walletID", walletID),
		slog.Int("operations", len(operations)),
	)

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(operations).
		Post(url)

	if err != nil {
		slog.Error("error while dialing ExecutionApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return err
	}

	if resp.IsError() {
		slog.Error("ExecutionApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return fmt.Errorf("execution api status %d", resp.StatusCode())
	}

	slog.Debug("ExecutionApi.SubmitOperations request complete", slog.String("rqID", rqID))

	return nil
}
