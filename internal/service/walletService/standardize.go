package walletService

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/novortex/wallet-backoffice/internal/service/allocation"
	"github.com/novortex/wallet-backoffice/utils"
)

// PreviewStandardization computes the material allocation changes every
// wallet linked to the template would receive, without writing anything.
// The month filter narrows the batch to wallets opened in that month.
func (s *WalletService) PreviewStandardization(ctx context.Context, baseWalletID int64, year int, month time.Month) (model.StandardizationPreview, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.PreviewStandardization"

	slog.Debug(
		"PreviewStandardization start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int64("baseWalletID", baseWalletID),
		slog.Int("year", year),
		slog.Int("month", int(month)),
	)

	baseWallet, wallets, err := s.standardizationScope(ctx, baseWalletID, year, month)
	if err != nil {
		return model.StandardizationPreview{}, err
	}

	preview := model.StandardizationPreview{
		BaseWalletID: baseWalletID,
		Wallets:      make([]model.WalletStandardization, 0, len(wallets)),
	}

	for _, wallet := range wallets {
		holdings, err := s.GetWalletAssets(ctx, wallet.WalletID)
		if err != nil {
			slog.Error("failed on getting wallet assets for preview", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("walletID", wallet.WalletID), slog.String("err", err.Error()))
			return model.StandardizationPreview{}, err
		}

		changes := allocation.ComputeChanges(holdings, baseWallet.Targets)
		preview.Wallets = append(preview.Wallets, model.WalletStandardization{
			WalletID:            wallet.WalletID,
			AlreadyStandardized: len(changes) == 0,
			Changes:             changes,
		})
	}

	slog.Debug("PreviewStandardization completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("wallets", len(preview.Wallets)))

	return preview, nil
}

// ApplyStandardization pushes the template's target allocations to every
// wallet in scope, concurrently, one goroutine per wallet. Failures are
// isolated: one wallet erroring never stops the others, the report
// aggregates how many wallets were updated and how many errors occurred.
func (s *WalletService) ApplyStandardization(ctx context.Context, baseWalletID int64, year int, month time.Month) (model.StandardizationReport, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.ApplyStandardization"

	slog.Debug(
		"ApplyStandardization start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int64("baseWalletID", baseWalletID),
		slog.Int("year", year),
		slog.Int("month", int(month)),
	)

	baseWallet, wallets, err := s.standardizationScope(ctx, baseWalletID, year, month)
	if err != nil {
		return model.StandardizationReport{}, err
	}

	var walletsUpdated, errorsCount atomic.Int64

	var wg sync.WaitGroup
	for _, wallet := range wallets {
		wg.Add(1)
		go func(wallet model.Wallet) {
			defer wg.Done()

			changed, walletErrors := s.standardizeWallet(ctx, wallet.WalletID, baseWallet.Targets)
			if walletErrors > 0 {
				errorsCount.Add(int64(walletErrors))
				return
			}
			if changed {
				walletsUpdated.Add(1)
			}
		}(wallet)
	}
	wg.Wait()

	report := model.StandardizationReport{
		WalletsUpdated: int(walletsUpdated.Load()),
		Errors:         int(errorsCount.Load()),
	}

	slog.Info(
		"ApplyStandardization completed",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int64("baseWalletID", baseWalletID),
		slog.Int("walletsUpdated", report.WalletsUpdated),
		slog.Int("errors", report.Errors),
	)

	return report, nil
}

// standardizeWallet applies the template to one wallet and returns
// whether anything material was applied plus the number of failed steps.
// Holdings are re-read from the source of truth rather than the cache so
// a stale snapshot never drives updates.
func (s *WalletService) standardizeWallet(ctx context.Context, walletID int64, targets []model.TargetAsset) (changed bool, walletErrors int) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.standardizeWallet"

	holdings, err := s.walletDataApi.GetWalletAssets(ctx, walletID)
	if err != nil {
		slog.Error("failed on walletDataApi.GetWalletAssets", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("walletID", walletID), slog.String("err", err.Error()))
		return false, 1
	}

	changes := allocation.ComputeChanges(holdings, targets)
	if len(changes) == 0 {
		return false, 0
	}

	held := make(map[string]struct{}, len(holdings))
	for _, holding := range holdings {
		held[holding.AssetUUID] = struct{}{}
	}

	for _, change := range changes {
		if _, ok := held[change.AssetUUID]; ok {
			err = s.walletDataApi.UpdateAssetAllocation(ctx, walletID, change.AssetUUID, change.ToPercent)
		} else {
			// never push an absent asset to a zero target
			if change.ToPercent.IsZero() {
				continue
			}
			err = s.walletDataApi.AddAssetToWallet(ctx, walletID, change.AssetUUID, change.ToPercent)
		}
		if err != nil {
			slog.Error(
				"failed on applying allocation change",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.Int64("walletID", walletID),
				slog.String("assetUUID", change.AssetUUID),
				slog.String("err", err.Error()),
			)
			walletErrors++
		}
	}

	if err := s.cache.FlushWalletAssets(ctx, walletID); err != nil {
		slog.Error("failed on cache.FlushWalletAssets", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("walletID", walletID), slog.String("err", err.Error()))
	}

	return true, walletErrors
}

// standardizationScope validates the template and selects the wallets the
// batch runs over: wallets opened in the given month and linked to the
// template.
func (s *WalletService) standardizationScope(ctx context.Context, baseWalletID int64, year int, month time.Month) (model.BaseWallet, []model.Wallet, error) {
	baseWallet, err := s.GetBaseWallet(ctx, baseWalletID)
	if err != nil {
		return model.BaseWallet{}, nil, err
	}

	if err := allocation.ValidateTemplate(baseWallet.Targets); err != nil {
		return model.BaseWallet{}, nil, fmt.Errorf("%w: %s", service.ErrValidation, err)
	}

	monthWallets, err := s.repo.GetWalletsStartedInMonth(ctx, year, month)
	if err != nil {
		return model.BaseWallet{}, nil, err
	}

	wallets := make([]model.Wallet, 0, len(monthWallets))
	for _, wallet := range monthWallets {
		if wallet.BaseWalletID != nil && *wallet.BaseWalletID == baseWalletID {
			wallets = append(wallets, wallet)
		}
	}

	return baseWallet, wallets, nil
}
