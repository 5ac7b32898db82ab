package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis server, for deployments running more
// than one API instance.
type Redis struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedis connects and verifies the connection with a ping.
func NewRedis(addr, password string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{rdb: rdb, ctx: ctx}, nil
}

func (r *Redis) Get(key string, dest interface{}) bool {
	val, err := r.rdb.Get(r.ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (r *Redis) Put(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.rdb.Set(r.ctx, key, data, ttl).Err()
}

// Invalidate scans for keys under prefix and deletes them in batches.
// SCAN is used instead of KEYS to avoid blocking the server.
func (r *Redis) Invalidate(prefix string) error {
	iter := r.rdb.Scan(r.ctx, 0, prefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(r.ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := r.rdb.Del(r.ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.rdb.Del(r.ctx, batch...).Err()
	}
	return nil
}

func (r *Redis) Flush() error {
	return r.rdb.FlushDB(r.ctx).Err()
}
