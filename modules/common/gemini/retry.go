package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const maxRetriesPerKey = 3

var retryDelay = 2 * time.Second

// generateWithRetry - 429 에러 시 여러 API 키로 재시도
// 각 키당 최대 maxRetries번, 429가 아닌 에러는 즉시 반환
func generateWithRetry(
	ctx context.Context,
	apiKeys []string,
	maxRetries int,
	newModels modelsFactory,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {

	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys provided")
	}

	var lastErr error

	for keyIndex, apiKey := range apiKeys {
		log.Debug().Msgf("🔑 [Gemini Retry] Trying API key #%d/%d", keyIndex+1, len(apiKeys))

		models, err := newModels(ctx, apiKey)
		if err != nil {
			log.Warn().Err(err).Msgf("⚠️  [Gemini Retry] Failed to create client with key #%d", keyIndex+1)
			lastErr = err
			continue
		}

		for attempt := 1; attempt <= maxRetries; attempt++ {
			if attempt > 1 {
				log.Info().Msgf("   🔄 Retry attempt %d/%d for key #%d", attempt, maxRetries, keyIndex+1)
			}

			result, err := models.GenerateContent(ctx, model, contents, config)
			if err == nil {
				log.Debug().Msgf("✅ [Gemini Retry] Success with API key #%d (attempt %d/%d)", keyIndex+1, attempt, maxRetries)
				return result, nil
			}

			lastErr = err

			if !is429Error(err) {
				log.Error().Err(err).Msgf("❌ [Gemini Retry] Key #%d failed with non-429 error", keyIndex+1)
				return nil, err
			}

			log.Warn().Msgf("⚠️  [Gemini Retry] Key #%d hit rate limit (429) on attempt %d/%d", keyIndex+1, attempt, maxRetries)

			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(retryDelay):
				}
			}
		}

		log.Warn().Msgf("⚠️  [Gemini Retry] Key #%d exhausted all %d attempts, trying next key...", keyIndex+1, maxRetries)
	}

	return nil, fmt.Errorf("all %d API keys exhausted (%d attempts each), last error: %w", len(apiKeys), maxRetries, lastErr)
}

// is429Error - 429 Rate Limit 에러인지 확인
func is429Error(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "resource_exhausted")
}
