package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	jobKeyPrefix    = "streamlink:job:"
	cancelKeyPrefix = "streamlink:job:cancel:"
	queueKey        = "streamlink:queue"
	activeSetKey    = "streamlink:active"

	// dequeuePoll bounds BRPOP so a stopping worker notices ctx promptly.
	dequeuePoll = 1 * time.Second
)

// RedisBackend stores job records as JSON values and uses a Redis list as
// the task queue. Terminal records expire after the configured result TTL.
type RedisBackend struct {
	client    *redis.Client
	resultTTL time.Duration
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, addr, password string, db int, resultTTL time.Duration) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisBackend{client: client, resultTTL: resultTTL}, nil
}

func (b *RedisBackend) Enqueue(ctx context.Context, job *Job) error {
	if err := b.write(ctx, job); err != nil {
		return err
	}
	if err := b.client.LPush(ctx, queueKey, job.ID).Err(); err != nil {
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	return nil
}

func (b *RedisBackend) Dequeue(ctx context.Context) (*Job, error) {
	for {
		res, err := b.client.BRPop(ctx, dequeuePoll, queueKey).Result()
		if err == redis.Nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("dequeue: %w", err)
		}
		// BRPOP returns [key, value].
		job, err := b.Get(ctx, res[1])
		if err == ErrJobNotFound {
			// Record expired while queued; skip it.
			continue
		}
		return job, err
	}
}

func (b *RedisBackend) Save(ctx context.Context, job *Job) error {
	if err := b.write(ctx, job); err != nil {
		return err
	}
	if job.State == StateProcessing {
		return b.client.SAdd(ctx, activeSetKey, job.ID).Err()
	}
	return b.client.SRem(ctx, activeSetKey, job.ID).Err()
}

func (b *RedisBackend) Get(ctx context.Context, id string) (*Job, error) {
	raw, err := b.client.Get(ctx, jobKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (b *RedisBackend) ListActive(ctx context.Context) ([]*Job, error) {
	ids, err := b.client.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list active: %w", err)
	}
	jobs := make([]*Job, 0, len(ids))
	for _, id := range ids {
		job, err := b.Get(ctx, id)
		if err == ErrJobNotFound {
			// Stale membership; clean it up.
			b.client.SRem(ctx, activeSetKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (b *RedisBackend) RequestCancel(ctx context.Context, id string) error {
	exists, err := b.client.Exists(ctx, jobKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("check job %s: %w", id, err)
	}
	if exists == 0 {
		return ErrJobNotFound
	}
	// Cancel flags outlive the job record by at most the result TTL.
	return b.client.Set(ctx, cancelKeyPrefix+id, "1", b.resultTTL).Err()
}

func (b *RedisBackend) CancelRequested(ctx context.Context, id string) (bool, error) {
	exists, err := b.client.Exists(ctx, cancelKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("check cancel %s: %w", id, err)
	}
	return exists > 0, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func (b *RedisBackend) write(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	var ttl time.Duration
	if job.State.Terminal() {
		ttl = b.resultTTL
	}
	if err := b.client.Set(ctx, jobKeyPrefix+job.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}
