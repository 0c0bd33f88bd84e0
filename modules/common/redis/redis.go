package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"image-studio-server/modules/common/config"
)

// Connect - Redis 연결 생성 (REDIS_HOST 미설정 또는 ping 실패 시 nil)
func Connect(cfg *config.Config) *redis.Client {
	if !cfg.RedisEnabled() {
		log.Info().Msg("ℹ️  Redis disabled (REDIS_HOST empty), batch queue off")
		return nil
	}

	log.Info().Msgf("🔌 Connecting to Redis: %s", cfg.GetRedisAddr())

	var tlsConfig *tls.Config
	if cfg.RedisUseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // 매니지드 Redis 인증서
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		TLSConfig:    tlsConfig,
		DB:           0,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// 연결 테스트
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("❌ Redis ping failed")
		rdb.Close()
		return nil
	}

	log.Info().Msg("✅ Redis connected")
	return rdb
}

const cancelKeyPrefix = "studio:batch:cancel:"

// CancelTTL - 취소 플래그 유지 시간 (배치 결과 TTL과 동일)
const CancelTTL = time.Hour

// CancelKey - 배치 Job 취소 플래그 키
func CancelKey(jobID string) string {
	return cancelKeyPrefix + jobID
}

// SetJobCancelled - 취소 플래그 설정 (워커가 다음 프롬프트 전에 확인)
func SetJobCancelled(ctx context.Context, rdb *redis.Client, jobID string) error {
	if err := rdb.Set(ctx, CancelKey(jobID), "1", CancelTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cancel flag: %w", err)
	}
	return nil
}

// IsJobCancelled - 취소 플래그 확인 (조회 실패는 취소 아님으로 처리)
func IsJobCancelled(ctx context.Context, rdb *redis.Client, jobID string) bool {
	n, err := rdb.Exists(ctx, CancelKey(jobID)).Result()
	if err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("⚠️  Failed to check cancel flag")
		return false
	}
	return n > 0
}
