package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/novortex/wallet-backoffice/data/repository"
	"github.com/novortex/wallet-backoffice/internal/converter/dbConverter"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/model/dbModel"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/shopspring/decimal"
)

func (r *Postgres) InsertBaseWallet(ctx context.Context, name, riskProfile string) (baseWalletID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO base_wallets(name, risk_profile) VALUES($1, $2) RETURNING base_wallet_id`

	slog.Debug("InsertBaseWallet start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertBaseWallet failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertBaseWallet completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query, name, riskProfile).Scan(&baseWalletID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return 0, repository.ErrAlreadyExists
			}
		}
		return 0, err
	}

	return baseWalletID, nil
}

func (r *Postgres) GetBaseWallet(ctx context.Context, baseWalletID int64) (baseWallet model.BaseWallet, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT base_wallet_id, name, risk_profile FROM base_wallets WHERE base_wallet_id = $1`

	slog.Debug("GetBaseWallet start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetBaseWallet failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetBaseWallet completed", slog.String("rqID", rqID))
		}
	}()

	dbBaseWallet := dbModel.BaseWallet{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, baseWalletID).StructScan(&dbBaseWallet)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BaseWallet{}, repository.ErrNotFound
		}
		return model.BaseWallet{}, err
	}

	baseWallet = dbConverter.ConvertBaseWallet(dbBaseWallet)

	baseWallet.Targets, err = r.GetBaseWalletTargets(ctx, baseWalletID)
	if err != nil {
		return model.BaseWallet{}, err
	}

	return baseWallet, nil
}

func (r *Postgres) GetBaseWallets(ctx context.Context) (baseWallets []model.BaseWallet, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT base_wallet_id, name, risk_profile FROM base_wallets ORDER BY name`

	slog.Debug("GetBaseWallets start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetBaseWallets failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetBaseWallets completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var baseWallet dbModel.BaseWallet
		err = rows.StructScan(&baseWallet)
		if err != nil {
			return nil, err
		}
		baseWallets = append(baseWallets, dbConverter.ConvertBaseWallet(baseWallet))
	}

	return baseWallets, nil
}

func (r *Postgres) GetBaseWalletTargets(ctx context.Context, baseWalletID int64) (targets []model.TargetAsset, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT base_wallet_id, asset_uuid, asset_name, ideal_allocation
		FROM base_wallet_targets
		WHERE base_wallet_id = $1
		ORDER BY asset_name
		`

	slog.Debug("GetBaseWalletTargets start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetBaseWalletTargets failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetBaseWalletTargets completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, baseWalletID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var target dbModel.TargetAsset
		err = rows.StructScan(&target)
		if err != nil {
			return nil, err
		}
		targets = append(targets, dbConverter.ConvertTargetAsset(target))
	}

	return targets, nil
}

// ReplaceBaseWalletTargets swaps the whole target list of a template. The
// external contract takes the full list rather than a patch, so callers
// run this inside WithinTransaction to keep delete+insert atomic.
func (r *Postgres) ReplaceBaseWalletTargets(ctx context.Context, baseWalletID int64, targets []model.TargetAsset) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.ReplaceBaseWalletTargets"

	deleteQuery := `DELETE FROM base_wallet_targets WHERE base_wallet_id = $1`
	insertQuery := `
        INSERT INTO base_wallet_targets(base_wallet_id, asset_uuid, asset_name, ideal_allocation)
        SELECT
            $1, -- base_wallet_id
            u.asset_uuid,
            u.asset_name,
            u.ideal_allocation
        FROM UNNEST(
            $2::text[],
            $3::text[],
            $4::decimal[]
        ) AS u(asset_uuid, asset_name, ideal_allocation)`

	assetUUIDs := make([]string, 0, len(targets))
	assetNames := make([]string, 0, len(targets))
	allocations := make([]decimal.Decimal, 0, len(targets))
	for _, target := range targets {
		assetUUIDs = append(assetUUIDs, target.AssetUUID)
		assetNames = append(assetNames, target.AssetName)
		allocations = append(allocations, target.IdealAllocation)
	}

	slog.Debug("ReplaceBaseWalletTargets start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("baseWalletID", baseWalletID))
	defer func() {
		if err != nil {
			slog.Error("ReplaceBaseWalletTargets failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("ReplaceBaseWalletTargets completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, deleteQuery, baseWalletID)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		return nil
	}

	_, err = r.txOrDb(ctx).ExecContext(ctx, insertQuery, baseWalletID, assetUUIDs, assetNames, allocations)
	if err != nil {
		return err
	}

	return nil
}
