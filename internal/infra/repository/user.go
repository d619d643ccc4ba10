package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"gorm.io/gorm"

	"github.com/sahara-community/pulse/internal/infra/database/models"
	"github.com/sahara-community/pulse/internal/usecase"
)

const activeUsersCacheKey = "pulse:active-users"

var _ usecase.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db  *gorm.DB
	mc  *memcache.Client
	ttl time.Duration
}

// NewUserRepository caches the active user list in memcached for ttl.
// A nil client disables the cache.
func NewUserRepository(db *gorm.DB, mc *memcache.Client, ttl time.Duration) *UserRepository {
	return &UserRepository{db: db, mc: mc, ttl: ttl}
}

func (r *UserRepository) ActiveUserIDs(ctx context.Context) ([]string, error) {
	if r.mc != nil {
		item, err := r.mc.Get(activeUsersCacheKey)
		if err == nil {
			var ids []string
			if err := json.Unmarshal(item.Value, &ids); err == nil {
				return ids, nil
			}
		} else if err != memcache.ErrCacheMiss {
			slog.WarnContext(
				ctx, "memcached lookup failed",
				slog.String("error", err.Error()),
				slog.String("module", "repository"),
			)
		}
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ?", true).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	if r.mc != nil && r.ttl > 0 {
		value, err := json.Marshal(ids)
		if err == nil {
			err = r.mc.Set(&memcache.Item{
				Key:        activeUsersCacheKey,
				Value:      value,
				Expiration: int32(r.ttl.Seconds()),
			})
		}
		if err != nil {
			slog.WarnContext(
				ctx, "memcached store failed",
				slog.String("error", err.Error()),
				slog.String("module", "repository"),
			)
		}
	}

	return ids, nil
}
