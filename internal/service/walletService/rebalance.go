package walletService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/novortex/wallet-backoffice/data/session"
	"github.com/novortex/wallet-backoffice/internal/externalApi"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/novortex/wallet-backoffice/internal/service/rebalance"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/shopspring/decimal"
)

// CreateRebalanceSession pulls a fresh proposal batch for the wallet,
// auto-balances it and opens a reconciliation session. The session holds
// all dialog state; nothing is executed until confirm.
func (s *WalletService) CreateRebalanceSession(ctx context.Context, walletID int64) (model.RebalanceSession, model.BalanceStatus, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.CreateRebalanceSession"

	slog.Debug("CreateRebalanceSession start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("walletID", walletID))

	_, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return model.RebalanceSession{}, model.BalanceStatus{}, err
	}

	operations, err := s.rebalanceCalcApi.GetProposal(ctx, walletID)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return model.RebalanceSession{}, model.BalanceStatus{}, service.ErrNotFound
		}
		slog.Error("failed on rebalanceCalcApi.GetProposal", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.RebalanceSession{}, model.BalanceStatus{}, err
	}

	rec := rebalance.New(operations)

	sess := model.RebalanceSession{
		SessionID: uuid.NewString(),
		WalletID:  walletID,
		Items:     rec.Items,
	}

	err = s.sessionStore.SaveSession(ctx, sess)
	if err != nil {
		return model.RebalanceSession{}, model.BalanceStatus{}, err
	}

	slog.Debug("CreateRebalanceSession completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("sessionID", sess.SessionID))

	return sess, rec.Status(), nil
}

func (s *WalletService) GetRebalanceSession(ctx context.Context, sessionID string) (model.RebalanceSession, model.BalanceStatus, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return model.RebalanceSession{}, model.BalanceStatus{}, err
	}

	return sess, rebalance.Restore(sess.Items).Status(), nil
}

// EditSessionAmount overwrites one item's amount with an operator-entered
// value and marks it customized. Other items keep their amounts.
func (s *WalletService) EditSessionAmount(ctx context.Context, sessionID, assetName string, amount decimal.Decimal) (model.RebalanceSession, model.BalanceStatus, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.EditSessionAmount"

	slog.Debug("EditSessionAmount start", slog.String("rqID", rqID), slog.String("op", op), slog.String("sessionID", sessionID), slog.String("assetName", assetName))

	if amount.IsNegative() {
		return model.RebalanceSession{}, model.BalanceStatus{}, fmt.Errorf("%w: amount must not be negative", service.ErrValidation)
	}

	return s.mutateSession(ctx, sessionID, func(rec *rebalance.Reconciliation) error {
		return rec.EditAmount(assetName, amount)
	})
}

// ToggleSessionItem flips one item's inclusion in the confirmed batch.
func (s *WalletService) ToggleSessionItem(ctx context.Context, sessionID, assetName string) (model.RebalanceSession, model.BalanceStatus, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.ToggleSessionItem"

	slog.Debug("ToggleSessionItem start", slog.String("rqID", rqID), slog.String("op", op), slog.String("sessionID", sessionID), slog.String("assetName", assetName))

	return s.mutateSession(ctx, sessionID, func(rec *rebalance.Reconciliation) error {
		return rec.ToggleSelected(assetName)
	})
}

// ResetSession discards all customizations and re-balances from the
// original proposal.
func (s *WalletService) ResetSession(ctx context.Context, sessionID string) (model.RebalanceSession, model.BalanceStatus, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.ResetSession"

	slog.Debug("ResetSession start", slog.String("rqID", rqID), slog.String("op", op), slog.String("sessionID", sessionID))

	return s.mutateSession(ctx, sessionID, func(rec *rebalance.Reconciliation) error {
		rec.Reset()
		return nil
	})
}

// ConfirmRebalanceSession submits the final operation batch to the
// execution service, records it in the operations history and closes the
// session. Confirming an unbalanced session is allowed; the returned
// status carries the residual delta for the caller to surface.
func (s *WalletService) ConfirmRebalanceSession(ctx context.Context, sessionID string) (model.BalanceStatus, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.ConfirmRebalanceSession"

	slog.Debug("ConfirmRebalanceSession start", slog.String("rqID", rqID), slog.String("op", op), slog.String("sessionID", sessionID))

	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return model.BalanceStatus{}, err
	}

	rec := rebalance.Restore(sess.Items)
	status := rec.Status()
	operations := rec.Confirm()

	err = s.executionApi.SubmitOperations(ctx, sess.WalletID, operations)
	if err != nil {
		slog.Error("failed on executionApi.SubmitOperations", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.BalanceStatus{}, err
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertWalletOperations(ctx, sess.WalletID, operations); err != nil {
			return err
		}
		return s.repo.SetWalletRebalancedAt(ctx, sess.WalletID, time.Now())
	})
	if err != nil {
		slog.Error("failed on recording confirmed operations", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.BalanceStatus{}, err
	}

	if err := s.cache.FlushWalletAssets(ctx, sess.WalletID); err != nil {
		slog.Error("failed on cache.FlushWalletAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	if err := s.sessionStore.DeleteSession(ctx, sessionID); err != nil {
		slog.Error("failed on sessionStore.DeleteSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	slog.Debug("ConfirmRebalanceSession completed", slog.String("rqID", rqID), slog.String("op", op))

	return status, nil
}

// CancelSession drops the session entry. Nothing was written anywhere
// else, so deleting it is the whole cancel path.
func (s *WalletService) CancelSession(ctx context.Context, sessionID string) error {
	return s.sessionStore.DeleteSession(ctx, sessionID)
}

func (s *WalletService) getSession(ctx context.Context, sessionID string) (model.RebalanceSession, error) {
	sess, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return model.RebalanceSession{}, service.ErrSessionNotFound
		}
		return model.RebalanceSession{}, err
	}
	return sess, nil
}

func (s *WalletService) mutateSession(ctx context.Context, sessionID string, mutate func(rec *rebalance.Reconciliation) error) (model.RebalanceSession, model.BalanceStatus, error) {
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return model.RebalanceSession{}, model.BalanceStatus{}, err
	}

	rec := rebalance.Restore(sess.Items)
	err = mutate(rec)
	if err != nil {
		if errors.Is(err, rebalance.ErrItemNotFound) {
			return model.RebalanceSession{}, model.BalanceStatus{}, service.ErrNotFound
		}
		return model.RebalanceSession{}, model.BalanceStatus{}, err
	}

	sess.Items = rec.Items
	err = s.sessionStore.SaveSession(ctx, sess)
	if err != nil {
		return model.RebalanceSession{}, model.BalanceStatus{}, err
	}

	return sess, rec.Status(), nil
}
