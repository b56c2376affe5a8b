package walletService

import (
	"context"
	"log/slog"
	"time"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/utils"
)

func (s *WalletService) GetWalletClosings(ctx context.Context, year int, month time.Month) ([]model.WalletClosing, error) {
	return s.repo.GetWalletClosings(ctx, year, month)
}

func (s *WalletService) GetManagerPerformance(ctx context.Context) ([]model.ManagerPerformance, error) {
	return s.repo.GetManagerPerformance(ctx)
}

func (s *WalletService) GetOverdueWallets(ctx context.Context) ([]model.OverdueWallet, error) {
	return s.repo.GetOverdueWallets(ctx, s.cfg.Rebalance.CadenceDays)
}

// NotifyMonthClosings pushes the current month's wallet closings to the
// ops chat. Scheduled job.
func (s *WalletService) NotifyMonthClosings(ctx context.Context) error {
	ctx = utils.CtxWithRqID(ctx, "")
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.NotifyMonthClosings"

	now := time.Now()
	closings, err := s.repo.GetWalletClosings(ctx, now.Year(), now.Month())
	if err != nil {
		return err
	}

	slog.Debug("NotifyMonthClosings", slog.String("rqID", rqID), slog.String("op", op), slog.Int("closings", len(closings)))

	return s.notifier.NotifyClosings(ctx, now.Year(), now.Month(), closings)
}

// NotifyOverdueRebalances pushes wallets past the rebalance cadence to
// the ops chat. Scheduled job.
func (s *WalletService) NotifyOverdueRebalances(ctx context.Context) error {
	ctx = utils.CtxWithRqID(ctx, "")
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.NotifyOverdueRebalances"

	overdue, err := s.repo.GetOverdueWallets(ctx, s.cfg.Rebalance.CadenceDays)
	if err != nil {
		return err
	}

	slog.Debug("NotifyOverdueRebalances", slog.String("rqID", rqID), slog.String("op", op), slog.Int("overdue", len(overdue)))

	return s.notifier.NotifyOverdueRebalances(ctx, overdue)
}
