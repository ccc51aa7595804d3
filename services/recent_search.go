package services

import (
	"context"
	"fmt"
	"time"

	"discounts/constants"
	"discounts/dto"

	"github.com/redis/go-redis/v9"
)

// RecentSearches remembers the searches executed in a session
type RecentSearches interface {
	Remember(ctx context.Context, sessionKey string, entry dto.RecentQuery) error
	Recent(ctx context.Context, sessionKey string) ([]dto.RecentQuery, error)
}

const recentSearchTTL = 7 * 24 * time.Hour

// RedisRecentSearches keeps the history as one JSON list per session
type RedisRecentSearches struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisRecentSearches(rdb redis.Cmdable) *RedisRecentSearches {
	return &RedisRecentSearches{rdb: rdb, ttl: recentSearchTTL}
}

func recentSearchKey(sessionKey string) string {
	return fmt.Sprintf("search:recent:%s", sessionKey)
}

func (r *RedisRecentSearches) Recent(ctx context.Context, sessionKey string) ([]dto.RecentQuery, error) {
	var entries []dto.RecentQuery
	if _, err := GetFromRedis(ctx, r.rdb, recentSearchKey(sessionKey), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Remember puts entry first. A repeated query moves to the front instead of
// appearing twice.
func (r *RedisRecentSearches) Remember(ctx context.Context, sessionKey string, entry dto.RecentQuery) error {
	entries, err := r.Recent(ctx, sessionKey)
	if err != nil {
		return err
	}
	return SetToRedis(ctx, r.rdb, recentSearchKey(sessionKey), PushRecent(entries, entry), r.ttl)
}

// PushRecent returns history with entry at the front, duplicates of the same
// query and sort removed, capped at the history size
func PushRecent(history []dto.RecentQuery, entry dto.RecentQuery) []dto.RecentQuery {
	out := make([]dto.RecentQuery, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h.Query == entry.Query && h.Sort == entry.Sort {
			continue
		}
		out = append(out, h)
	}
	if len(out) > constants.RecentQueriesLimit {
		out = out[:constants.RecentQueriesLimit]
	}
	return out
}
