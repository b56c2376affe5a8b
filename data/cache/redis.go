package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/novortex/wallet-backoffice/config"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func walletAssetsKey(walletID int64) string {
	return fmt.Sprintf("wallet:%d:assets", walletID)
}

func (r *RedisCache) SetWalletAssets(ctx context.Context, walletID int64, holdings []model.AssetHolding) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetWalletAssets start", slog.String("rqID", rqID), slog.Int64("walletID", walletID))

	holdingsJson, err := json.Marshal(holdings)
	if err != nil {
		slog.Error(
			"can't marshall holdings in SetWalletAssets",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
		)
		return errors.New("can't marshall holdings")
	}

	_, err = r.redis.Set(ctx, walletAssetsKey(walletID), holdingsJson, r.cfg.Cache.WalletAssetsExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetWalletAssets completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetWalletAssets(ctx context.Context, walletID int64) ([]model.AssetHolding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetWalletAssets start", slog.String("rqID", rqID), slog.Int64("walletID", walletID))

	res, err := r.redis.Get(ctx, walletAssetsKey(walletID)).Result()
	if err != nil {
		return nil, err
	}

	var holdings []model.AssetHolding
	err = json.Unmarshal([]byte(res), &holdings)
	if err != nil {
		slog.Error(
			"can't unmarshall holdings in GetWalletAssets",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return nil, errors.New("can't unmarshall holdings")
	}

	slog.Debug("GetWalletAssets finished", slog.String("rqID", rqID))

	return holdings, nil
}

func (r *RedisCache) FlushWalletAssets(ctx context.Context, walletID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("FlushWalletAssets start", slog.String("rqID", rqID), slog.Int64("walletID", walletID))

	_, err := r.redis.Del(ctx, walletAssetsKey(walletID)).Result()
	if err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	return nil
}
