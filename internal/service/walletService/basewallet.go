package walletService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/novortex/wallet-backoffice/data/repository"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/novortex/wallet-backoffice/internal/service/allocation"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/shopspring/decimal"
)

func (s *WalletService) CreateBaseWallet(ctx context.Context, name, riskProfile string, targets []model.TargetAsset) (int64, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.CreateBaseWallet"

	slog.Debug("CreateBaseWallet start", slog.String("rqID", rqID), slog.String("op", op))

	if len(targets) > 0 {
		if err := allocation.ValidateTemplate(targets); err != nil {
			return 0, fmt.Errorf("%w: %s", service.ErrValidation, err)
		}
	}

	var baseWalletID int64
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := s.repo.InsertBaseWallet(ctx, name, riskProfile)
		if err != nil {
			return err
		}
		baseWalletID = id

		if len(targets) == 0 {
			return nil
		}
		return s.repo.ReplaceBaseWalletTargets(ctx, baseWalletID, targets)
	})

	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return 0, service.ErrAlreadyExists
		}
		slog.Error("failed on creating base wallet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	slog.Debug("CreateBaseWallet completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("baseWalletID", baseWalletID))

	return baseWalletID, nil
}

func (s *WalletService) GetBaseWallet(ctx context.Context, baseWalletID int64) (model.BaseWallet, error) {
	baseWallet, err := s.repo.GetBaseWallet(ctx, baseWalletID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.BaseWallet{}, service.ErrNotFound
		}
		return model.BaseWallet{}, err
	}
	return baseWallet, nil
}

func (s *WalletService) GetBaseWallets(ctx context.Context) ([]model.BaseWallet, error) {
	return s.repo.GetBaseWallets(ctx)
}

// SetBaseWalletTargets replaces the whole target list of a template. The
// new list must pass the sum-to-100 check before anything is written.
func (s *WalletService) SetBaseWalletTargets(ctx context.Context, baseWalletID int64, targets []model.TargetAsset) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.SetBaseWalletTargets"

	slog.Debug("SetBaseWalletTargets start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("baseWalletID", baseWalletID))

	if err := allocation.ValidateTemplate(targets); err != nil {
		return fmt.Errorf("%w: %s", service.ErrValidation, err)
	}

	_, err := s.repo.GetBaseWallet(ctx, baseWalletID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		return err
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.ReplaceBaseWalletTargets(ctx, baseWalletID, targets)
	})
	if err != nil {
		slog.Error("failed on repo.ReplaceBaseWalletTargets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetBaseWalletTargets completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

// EditBaseWalletTargetAllocation changes the ideal allocation of one asset
// inside a template. Only the single value is bounds-checked here; the
// template sum may be temporarily off while an operator edits asset by
// asset, the sum invariant is enforced again before any standardization.
func (s *WalletService) EditBaseWalletTargetAllocation(ctx context.Context, baseWalletID int64, assetUUID string, value decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.EditBaseWalletTargetAllocation"

	slog.Debug(
		"EditBaseWalletTargetAllocation start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int64("baseWalletID", baseWalletID),
		slog.String("assetUUID", assetUUID),
	)

	if err := allocation.ValidateAllocation(value); err != nil {
		return fmt.Errorf("%w: %s", service.ErrValidation, err)
	}

	targets, err := s.repo.GetBaseWalletTargets(ctx, baseWalletID)
	if err != nil {
		return err
	}

	found := false
	for i := range targets {
		if targets[i].AssetUUID == assetUUID {
			targets[i].IdealAllocation = value
			found = true
			break
		}
	}
	if !found {
		return service.ErrNotFound
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.ReplaceBaseWalletTargets(ctx, baseWalletID, targets)
	})
	if err != nil {
		slog.Error("failed on repo.ReplaceBaseWalletTargets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("EditBaseWalletTargetAllocation completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}
