// Package telegramNotifier pushes operational alerts (upcoming wallet
// closings, wallets overdue for rebalance) to the ops Telegram chat.
package telegramNotifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/novortex/wallet-backoffice/config"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/utils"
	tele "gopkg.in/telebot.v4"
)

type TelegramNotifier struct {
	bot *tele.Bot
	cfg *config.Config
}

func New(cfg *config.Config) *TelegramNotifier {
	bot, err := tele.NewBot(tele.Settings{
		Token: cfg.Telegram.Token,
	})
	if err != nil {
		slog.Error("failed on tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}
	return &TelegramNotifier{bot: bot, cfg: cfg}
}

func (n *TelegramNotifier) NotifyClosings(ctx context.Context, year int, month time.Month, closings []model.WalletClosing) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TelegramNotifier.NotifyClosings"

	if len(closings) == 0 {
		slog.Debug("no closings to notify", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wallet closings %04d-%02d:\n", year, int(month))
	for _, closing := range closings {
		fmt.Fprintf(&b, "• wallet %d (%s) closes %s, value %s\n",
			closing.WalletID,
			closing.CustomerName,
			closing.CloseDate.Format("2006-01-02"),
			closing.CurrentValue.StringFixed(2),
		)
	}

	return n.send(ctx, b.String())
}

func (n *TelegramNotifier) NotifyOverdueRebalances(ctx context.Context, overdue []model.OverdueWallet) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TelegramNotifier.NotifyOverdueRebalances"

	if len(overdue) == 0 {
		slog.Debug("no overdue wallets to notify", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wallets overdue for rebalance: %d\n", len(overdue))
	for _, wallet := range overdue {
		fmt.Fprintf(&b, "• wallet %d (%s): %d days since last rebalance\n",
			wallet.WalletID,
			wallet.CustomerName,
			wallet.DaysSinceRebalance,
		)
	}

	return n.send(ctx, b.String())
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	_, err := n.bot.Send(tele.ChatID(n.cfg.Telegram.OpsChatID), text)
	if err != nil {
		slog.Error("failed on bot.Send", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("ops alert sent", slog.String("rqID", rqID))

	return nil
}
