package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/novortex/wallet-backoffice/internal/converter/dbConverter"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/model/dbModel"
	"github.com/novortex/wallet-backoffice/utils"
)

func (r *Postgres) GetWalletClosings(ctx context.Context, year int, month time.Month) (closings []model.WalletClosing, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetWalletClosings"
	params := map[string]any{
		"year":  year,
		"month": int(month),
	}
	query := `
		select w.wallet_id, c.name as customer_name, w.close_date, w.current_value
		from wallets w
		join customers c using(customer_id)
		where extract(year from w.close_date) = $1
		and extract(month from w.close_date) = $2
		order by w.close_date
		`

	slog.Debug("GetWalletClosings start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetWalletClosings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetWalletClosings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, year, int(month))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var closing dbModel.WalletClosing
		err = rows.StructScan(&closing)
		if err != nil {
			return nil, err
		}
		closings = append(closings, dbConverter.ConvertWalletClosing(closing))
	}

	return closings, nil
}

func (r *Postgres) GetManagerPerformance(ctx context.Context) (performance []model.ManagerPerformance, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetManagerPerformance"
	query := `
		select c.manager_name, count(w.wallet_id) as wallets_count, coalesce(sum(w.current_value), 0) as total_value
		from customers c
		left join wallets w on w.customer_id = c.customer_id and w.close_date is null
		group by c.manager_name
		order by total_value desc
		`

	slog.Debug("GetManagerPerformance start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetManagerPerformance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetManagerPerformance completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var perf dbModel.ManagerPerformance
		err = rows.StructScan(&perf)
		if err != nil {
			return nil, err
		}
		performance = append(performance, dbConverter.ConvertManagerPerformance(perf))
	}

	return performance, nil
}

// GetOverdueWallets selects open wallets whose last rebalance is older
// than the cadence, never-rebalanced wallets included.
func (r *Postgres) GetOverdueWallets(ctx context.Context, cadenceDays int) (overdue []model.OverdueWallet, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetOverdueWallets"
	params := map[string]any{
		"cadenceDays": cadenceDays,
	}
	query := `
		select
			w.wallet_id,
			c.name as customer_name,
			w.last_rebalance_at,
			extract(day from now() - coalesce(w.last_rebalance_at, w.start_date))::int as days_since_rebalance
		from wallets w
		join customers c using(customer_id)
		where w.close_date is null
		and coalesce(w.last_rebalance_at, w.start_date) < now() - make_interval(days => $1)
		order by days_since_rebalance desc
		`

	slog.Debug("GetOverdueWallets start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetOverdueWallets failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetOverdueWallets completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, cadenceDays)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var wallet dbModel.OverdueWallet
		err = rows.StructScan(&wallet)
		if err != nil {
			return nil, err
		}
		overdue = append(overdue, dbConverter.ConvertOverdueWallet(wallet))
	}

	return overdue, nil
}

// GetCashflowRows aggregates the operations history per wallet for one
// calendar month: deposits, withdrawals and traded volume per side.
func (r *Postgres) GetCashflowRows(ctx context.Context, year int, month time.Month) (cashflow []model.CashflowRow, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetCashflowRows"
	params := map[string]any{
		"year":  year,
		"month": int(month),
	}
	query := `
		select
			w.wallet_id,
			c.name as customer_name,
			coalesce(sum(h.amount) filter (where h.operation_type = 'deposit'), 0) as deposits,
			coalesce(sum(h.amount) filter (where h.operation_type = 'withdrawal'), 0) as withdrawals,
			coalesce(sum(h.amount) filter (where h.operation_type = 'buy' and h.selected), 0) as buy_volume,
			coalesce(sum(h.amount) filter (where h.operation_type = 'sell' and h.selected), 0) as sell_volume
		from wallets w
		join customers c using(customer_id)
		join wallet_operations_history h using(wallet_id)
		where extract(year from h.dt_create) = $1
		and extract(month from h.dt_create) = $2
		group by w.wallet_id, c.name
		order by w.wallet_id
		`

	slog.Debug("GetCashflowRows start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetCashflowRows failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetCashflowRows completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, year, int(month))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var row dbModel.CashflowRow
		err = rows.StructScan(&row)
		if err != nil {
			return nil, err
		}
		cashflow = append(cashflow, dbConverter.ConvertCashflowRow(row))
	}

	return cashflow, nil
}
