package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"claim-system/internal/repositories"
	apperrors "claim-system/pkg/errors"
)

const importLockKey = "claim-system:import-lock"

// ImportLocker не даёт двум загрузкам идти одновременно.
// Lock возвращает функцию освобождения или ErrImportInProgress.
type ImportLocker interface {
	Lock(ctx context.Context) (func(), error)
}

// RedisImportLocker - блокировка через SETNX с TTL, общая для всех экземпляров сервиса.
type RedisImportLocker struct {
	cache  repositories.CacheRepositoryInterface
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisImportLocker(cache repositories.CacheRepositoryInterface, ttl time.Duration, logger *zap.Logger) ImportLocker {
	return &RedisImportLocker{cache: cache, ttl: ttl, logger: logger}
}

func (l *RedisImportLocker) Lock(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := l.cache.SetNX(ctx, importLockKey, token, l.ttl)
	if err != nil {
		return nil, fmt.Errorf("не удалось взять блокировку импорта: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrImportInProgress
	}

	return func() {
		// освобождаем только свою блокировку: по TTL её мог забрать другой импорт
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		current, err := l.cache.Get(releaseCtx, importLockKey)
		if err != nil || current != token {
			return
		}
		if err := l.cache.Del(releaseCtx, importLockKey); err != nil {
			l.logger.Warn("Не удалось снять блокировку импорта", zap.Error(err))
		}
	}, nil
}

// LocalImportLocker - блокировка в памяти процесса, когда Redis не настроен.
type LocalImportLocker struct {
	mu sync.Mutex
}

func NewLocalImportLocker() ImportLocker {
	return &LocalImportLocker{}
}

func (l *LocalImportLocker) Lock(_ context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, apperrors.ErrImportInProgress
	}
	return l.mu.Unlock, nil
}
