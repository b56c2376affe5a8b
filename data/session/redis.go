// Package session stores reconciliation sessions in Redis: one entry per
// open confirmation dialog, expiring with the dialog's TTL. Dropping the
// entry is the whole cancel path, nothing else was written anywhere.
package session

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

var ErrSessionNotFound = errors.New("session not found")

type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("rebalance:session:%s", sessionID)
}

func (s *RedisSession) SaveSession(ctx context.Context, sess model.RebalanceSession) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SaveSession start", slog.String("rqID", rqID), slog.String("sessionID", sess.SessionID))

	sessJson, err := json.Marshal(sess)
	if err != nil {
		slog.Error("can't marshall session in SaveSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshall session")
	}

	_, err = s.redis.Set(ctx, sessionKey(sess.SessionID), sessJson, s.cfg.SessionExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SaveSession completed", slog.String("rqID", rqID))

	return nil
}

func (s *RedisSession) GetSession(ctx context.Context, sessionID string) (model.RebalanceSession, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetSession start", slog.String("rqID", rqID), slog.String("sessionID", sessionID))

	res, err := s.redis.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.RebalanceSession{}, ErrSessionNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.RebalanceSession{}, err
	}

	sess := model.RebalanceSession{}
	err = json.Unmarshal([]byte(res), &sess)
	if err != nil {
		slog.Error(
			"can't unmarshall session in GetSession",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.RebalanceSession{}, errors.New("can't unmarshall session")
	}

	slog.Debug("GetSession finished", slog.String("rqID", rqID))

	return sess, nil
}

func (s *RedisSession) DeleteSession(ctx context.Context, sessionID string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("DeleteSession start", slog.String("rqID", rqID), slog.String("sessionID", sessionID))

	_, err := s.redis.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	return nil
}
