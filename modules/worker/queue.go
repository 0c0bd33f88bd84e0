package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"image-studio-server/modules/common/model"
	redisutil "image-studio-server/modules/common/redis"
)

const (
	// QueueKey - 배치 Job 대기열 (LPUSH / BRPOP)
	QueueKey        = "studio:batch:queue"
	resultKeyPrefix = "studio:batch:result:"

	// ResultTTL - 결과 보관 시간
	ResultTTL = time.Hour
)

// ErrJobNotFound - 결과 키가 없음 (만료 또는 존재하지 않는 Job)
var ErrJobNotFound = errors.New("batch job not found")

// Queue - 배치 Job 저장소
type Queue interface {
	Enqueue(ctx context.Context, job model.BatchJob) (int64, error)
	// Dequeue - timeout 동안 대기, 비어 있으면 (nil, nil)
	Dequeue(ctx context.Context, timeout time.Duration) (*model.BatchJob, error)
	SaveResult(ctx context.Context, result model.BatchResult) error
	LoadResult(ctx context.Context, jobID string) (*model.BatchResult, error)
	Cancel(ctx context.Context, jobID string) error
	IsCancelled(ctx context.Context, jobID string) bool
}

// ResultKey - 결과 저장 키
func ResultKey(jobID string) string {
	return resultKeyPrefix + jobID
}

// RedisQueue - go-redis 기반 Queue
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

// Enqueue - Job 본문을 LPUSH하고 대기열 길이를 반환
func (q *RedisQueue) Enqueue(ctx context.Context, job model.BatchJob) (int64, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal job: %w", err)
	}
	n, err := q.rdb.LPush(ctx, QueueKey, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis LPUSH failed: %w", err)
	}
	return n, nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*model.BatchJob, error) {
	result, err := q.rdb.BRPop(ctx, timeout, QueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis BRPOP failed: %w", err)
	}

	// result[0]은 큐 이름, result[1]이 Job 본문
	var job model.BatchJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("invalid job payload: %w", err)
	}
	return &job, nil
}

func (q *RedisQueue) SaveResult(ctx context.Context, result model.BatchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := q.rdb.Set(ctx, ResultKey(result.JobID), payload, ResultTTL).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	return nil
}

func (q *RedisQueue) LoadResult(ctx context.Context, jobID string) (*model.BatchResult, error) {
	raw, err := q.rdb.Get(ctx, ResultKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}

	var result model.BatchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("invalid result payload: %w", err)
	}
	return &result, nil
}

func (q *RedisQueue) Cancel(ctx context.Context, jobID string) error {
	return redisutil.SetJobCancelled(ctx, q.rdb, jobID)
}

func (q *RedisQueue) IsCancelled(ctx context.Context, jobID string) bool {
	return redisutil.IsJobCancelled(ctx, q.rdb, jobID)
}
