package carts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ViewCache 會員購物車內容的快取，讀取失敗時一律回到資料庫
type ViewCache interface {
	Get(ctx context.Context, memberID uint) (View, bool)
	Set(ctx context.Context, view View)
	Invalidate(ctx context.Context, memberID uint)
}

type noCache struct{}

func (noCache) Get(context.Context, uint) (View, bool) { return View{}, false }
func (noCache) Set(context.Context, View)              {}
func (noCache) Invalidate(context.Context, uint)       {}

type RedisViewCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedisViewCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisViewCache {
	return &RedisViewCache{rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(memberID uint) string {
	return fmt.Sprintf("carts:member:%d", memberID)
}

func (c *RedisViewCache) Get(ctx context.Context, memberID uint) (View, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(memberID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("read cart cache", zap.Uint("member_id", memberID), zap.Error(err))
		}
		return View{}, false
	}

	var view View
	if err := json.Unmarshal(raw, &view); err != nil {
		c.log.Warn("decode cart cache", zap.Uint("member_id", memberID), zap.Error(err))
		return View{}, false
	}
	return view, true
}

func (c *RedisViewCache) Set(ctx context.Context, view View) {
	raw, err := json.Marshal(view)
	if err != nil {
		c.log.Warn("encode cart cache", zap.Uint("member_id", view.MemberID), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(view.MemberID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("write cart cache", zap.Uint("member_id", view.MemberID), zap.Error(err))
	}
}

func (c *RedisViewCache) Invalidate(ctx context.Context, memberID uint) {
	if err := c.rdb.Del(ctx, cacheKey(memberID)).Err(); err != nil {
		c.log.Warn("invalidate cart cache", zap.Uint("member_id", memberID), zap.Error(err))
	}
}
