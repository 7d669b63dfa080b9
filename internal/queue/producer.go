package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const QueueKey = "raabta:jobs"
const DLQKey = "raabta:jobs:dlq"

type Producer interface {
	Enqueue(ctx context.Context, job Job) error
}

type RedisProducer struct {
	Redis *redis.Client
}

func NewProducer(redis *redis.Client) Producer {
	return &RedisProducer{Redis: redis}
}

func (p *RedisProducer) Enqueue(ctx context.Context, job Job) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return err
	}

	// score is the unix time the job becomes ready; the worker pool only
	// pops members whose score is in the past, which is also how delayed
	// retries are scheduled
	return p.Redis.ZAdd(ctx, QueueKey, redis.Z{
		Score:  float64(job.CreatedAt),
		Member: jobBytes,
	}).Err()
}
