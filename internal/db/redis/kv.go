package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/prodex/internal/db"
)

// Counter reads an integer counter.
func (s *Store) Counter(ctx context.Context, key string) (int64, error) {
	res := s.client.Do(ctx, s.client.B().Get().Key(key).Build())
	if err := res.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, db.ErrKeyNotFound
		}
		return 0, &db.Error{Op: db.OpGet, Err: err}
	}
	val, err := res.AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpGet, Err: fmt.Errorf("%w: %w", db.ErrNotCounter, err)}
	}
	return val, nil
}

// IncrByWithTTL pipelines INCRBY and EXPIRE NX.
func (s *Store) IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error) {
	b := s.client.B()
	results := s.client.DoMulti(ctx,
		b.Incrby().Key(key).Increment(val).Build(),
		b.Expire().Key(key).Seconds(int64(ttl.Seconds())).Nx().Build(),
	)

	n, err := results[0].AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncrBy, Err: err}
	}
	if err := results[1].Error(); err != nil {
		return n, &db.Error{Op: db.OpExpire, Err: err}
	}
	return n, nil
}
