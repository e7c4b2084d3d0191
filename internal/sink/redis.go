package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultBaselineTTL = 30 * 24 * time.Hour

// Redis keeps the per-user baseline (primary device, off-hours logons per
// day) and the latest feature rows where online scorers can read them.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultBaselineTTL
	}
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Name() string { return "redis" }

func primaryKey(user string) string {
	return fmt.Sprintf("user:%s:primary_pc", user)
}

func offHoursKey(user string) string {
	return fmt.Sprintf("user:%s:off_hours_logons", user)
}

func featureKey(domain, user string) string {
	return fmt.Sprintf("user:%s:%s", user, domain)
}

func (r *Redis) Publish(ctx context.Context, b Batch) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		return r.queue(ctx, pipe, b)
	})
	if err != nil {
		return fmt.Errorf("Redis baseline write failed: %w", err)
	}
	return nil
}

func (r *Redis) queue(ctx context.Context, pipe redis.Pipeliner, b Batch) error {
	users := make([]string, 0, len(b.Primary))
	for u := range b.Primary {
		users = append(users, u)
	}
	sort.Strings(users)
	for _, u := range users {
		pipe.Set(ctx, primaryKey(u), b.Primary[u], r.ttl)
	}

	for _, c := range b.OffHours {
		pipe.HSet(ctx, offHoursKey(c.User), string(c.Date), c.Count)
		pipe.Expire(ctx, offHoursKey(c.User), r.ttl)
	}

	for _, row := range b.Rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("Could not serialize %s row: %w", row.Domain(), err)
		}
		user, date := row.Owner()
		key := featureKey(row.Domain(), user)
		pipe.HSet(ctx, key, date, data)
		pipe.Expire(ctx, key, r.ttl)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
