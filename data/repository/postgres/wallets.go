package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/novortex/wallet-backoffice/data/repository"
	"github.com/novortex/wallet-backoffice/internal/converter/dbConverter"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/model/dbModel"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/shopspring/decimal"
)

func (r *Postgres) InsertCustomer(ctx context.Context, customer model.Customer) (customerID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO customers(name, email, manager_name) VALUES($1, $2, $3) RETURNING customer_id`

	slog.Debug("InsertCustomer start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertCustomer failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertCustomer completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query, customer.Name, customer.Email, customer.ManagerName).Scan(&customerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return 0, repository.ErrAlreadyExists
			}
		}
		return 0, err
	}

	return customerID, nil
}

func (r *Postgres) GetCustomers(ctx context.Context) (customers []model.Customer, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT customer_id, name, email, manager_name FROM customers ORDER BY name`

	slog.Debug("GetCustomers start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetCustomers failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetCustomers completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var customer dbModel.Customer
		err = rows.StructScan(&customer)
		if err != nil {
			return nil, err
		}
		customers = append(customers, dbConverter.ConvertCustomer(customer))
	}

	return customers, nil
}

func (r *Postgres) InsertWallet(ctx context.Context, wallet model.Wallet) (walletID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO wallets(customer_id, base_wallet_id, start_date, current_value)
		VALUES($1, $2, $3, $4)
		RETURNING wallet_id
		`

	slog.Debug("InsertWallet start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertWallet failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertWallet completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).
		QueryRowContext(ctx, query, wallet.CustomerID, wallet.BaseWalletID, wallet.StartDate, wallet.CurrentValue).
		Scan(&walletID)
	if err != nil {
		return 0, err
	}

	return walletID, nil
}

func (r *Postgres) GetWallet(ctx context.Context, walletID int64) (wallet model.Wallet, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT wallet_id, customer_id, base_wallet_id, start_date, close_date, current_value, last_rebalance_at
		FROM wallets
		WHERE wallet_id = $1
		`

	slog.Debug("GetWallet start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetWallet failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetWallet completed", slog.String("rqID", rqID))
		}
	}()

	dbWallet := dbModel.Wallet{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, walletID).StructScan(&dbWallet)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Wallet{}, repository.ErrNotFound
		}
		return model.Wallet{}, err
	}

	return dbConverter.ConvertWallet(dbWallet), nil
}

// GetWalletsStartedInMonth selects open wallets whose start date falls in
// the given calendar month. Used by the standardization month filter.
func (r *Postgres) GetWalletsStartedInMonth(ctx context.Context, year int, month time.Month) (wallets []model.Wallet, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetWalletsStartedInMonth"
	params := map[string]any{
		"year":  year,
		"month": int(month),
	}
	query := `
		SELECT wallet_id, customer_id, base_wallet_id, start_date, close_date, current_value, last_rebalance_at
		FROM wallets
		WHERE EXTRACT(YEAR FROM start_date) = $1
		AND EXTRACT(MONTH FROM start_date) = $2
		AND close_date IS NULL
		ORDER BY wallet_id
		`

	slog.Debug("GetWalletsStartedInMonth start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("GetWalletsStartedInMonth failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetWalletsStartedInMonth completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, year, int(month))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var wallet dbModel.Wallet
		err = rows.StructScan(&wallet)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, dbConverter.ConvertWallet(wallet))
	}

	return wallets, nil
}

func (r *Postgres) SetWalletRebalancedAt(ctx context.Context, walletID int64, rebalancedAt time.Time) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `UPDATE wallets SET last_rebalance_at = $1 WHERE wallet_id = $2`

	slog.Debug("SetWalletRebalancedAt start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("SetWalletRebalancedAt failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("SetWalletRebalancedAt completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, rebalancedAt, walletID)
	if err != nil {
		return err
	}

	return nil
}

// InsertWalletOperations writes a confirmed rebalance batch to the
// operations history in one statement.
func (r *Postgres) InsertWalletOperations(ctx context.Context, walletID int64, operations []model.ConfirmedOperation) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertWalletOperations"
	query := `
        INSERT INTO wallet_operations_history(
            wallet_id, asset_name, operation_type, amount, selected, dt_create
        )
        SELECT
            $1, -- wallet_id
            u.asset_name,
            u.operation_type,
            u.amount,
            u.selected,
            $2  -- dt_create
        FROM UNNEST(
            $3::text[],
            $4::text[],
            $5::decimal[],
            $6::boolean[]
        ) AS u(asset_name, operation_type, amount, selected)`

	assetNames := make([]string, 0, len(operations))
	operationTypes := make([]string, 0, len(operations))
	amounts := make([]decimal.Decimal, 0, len(operations))
	selected := make([]bool, 0, len(operations))

	for _, operation := range operations {
		assetNames = append(assetNames, operation.AssetName)
		operationTypes = append(operationTypes, string(operation.Action))
		amounts = append(amounts, operation.Amount)
		selected = append(selected, operation.Selected)
	}

	slog.Debug(
		"InsertWalletOperations start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int64("walletID", walletID),
		slog.String("query", query),
	)
	defer func() {
		if err != nil {
			slog.Error("InsertWalletOperations failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertWalletOperations completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(
		ctx,
		query,
		walletID,
		time.Now(),
		assetNames,
		operationTypes,
		amounts,
		selected,
	)

	if err != nil {
		return err
	}
	return nil
}
