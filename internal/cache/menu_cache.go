package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const menuAllKey = "menu:all"

// CachedMenuRepository serves the full menu listing from Redis and drops the
// cached copy on every write. Redis failures fall through to the database.
type CachedMenuRepository struct {
	realRepo repository.MenuRepository
	redis    *redis.Client
	ttl      time.Duration
	log      *logrus.Logger
}

func NewCachedMenuRepository(realRepo repository.MenuRepository, rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *CachedMenuRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedMenuRepository{realRepo: realRepo, redis: rdb, ttl: ttl, log: log}
}

func (c *CachedMenuRepository) FindAll(ctx context.Context) ([]models.MenuItem, error) {
	data, err := c.redis.Get(ctx, menuAllKey).Bytes()
	switch {
	case err == nil:
		var items []models.MenuItem
		jsonErr := json.Unmarshal(data, &items)
		if jsonErr == nil {
			return items, nil
		}
		c.log.WithError(jsonErr).Warn("discarding unreadable menu cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.log.WithError(err).Warn("redis read failed, continuing with database")
	}

	items, err := c.realRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := c.redis.Set(ctx, menuAllKey, payload, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("failed to cache menu")
		}
	}
	return items, nil
}

func (c *CachedMenuRepository) FindByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	return c.realRepo.FindByID(ctx, id)
}

func (c *CachedMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if err := c.realRepo.Create(ctx, item); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedMenuRepository) Update(ctx context.Context, id uint, fields map[string]any) (int64, error) {
	n, err := c.realRepo.Update(ctx, id, fields)
	if err == nil && n > 0 && len(fields) > 0 {
		c.invalidate(ctx)
	}
	return n, err
}

func (c *CachedMenuRepository) Delete(ctx context.Context, id uint) (int64, error) {
	n, err := c.realRepo.Delete(ctx, id)
	if err == nil && n > 0 {
		c.invalidate(ctx)
	}
	return n, err
}

func (c *CachedMenuRepository) invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, menuAllKey).Err(); err != nil {
		c.log.WithError(err).WithField("key", menuAllKey).Warn("failed to drop menu cache")
	}
}
