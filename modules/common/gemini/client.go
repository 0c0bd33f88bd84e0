package gemini

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"image-studio-server/modules/common/config"
)

// ContentGenerator - Gemini GenerateContent 호출 인터페이스
// *genai.Models 와 *Client 모두 만족
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// modelsFactory - API 키별 genai 클라이언트 생성 (테스트에서 교체)
type modelsFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

// Client - 여러 API 키를 순서대로 사용하는 Gemini 클라이언트
type Client struct {
	apiKeys    []string
	newModels  modelsFactory
	maxRetries int
}

// NewClient - 설정에 맞는 Gemini 클라이언트 생성
// GEMINI_USE_VERTEX 이면 Vertex AI 백엔드 (Application Default Credentials)
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.GeminiUseVertex {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Project:  cfg.GoogleCloudProject,
			Location: cfg.GoogleCloudLocation,
			Backend:  genai.BackendVertexAI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
		}
		log.Info().Msgf("✅ [Gemini] Vertex AI client initialized for project=%s, location=%s", cfg.GoogleCloudProject, cfg.GoogleCloudLocation)

		return &Client{
			apiKeys: []string{"vertex"},
			newModels: func(ctx context.Context, _ string) (ContentGenerator, error) {
				return client.Models, nil
			},
			maxRetries: maxRetriesPerKey,
		}, nil
	}

	if len(cfg.GeminiAPIKeys) == 0 {
		return nil, fmt.Errorf("no API keys provided")
	}

	log.Info().Msgf("✅ [Gemini] API client initialized with %d key(s)", len(cfg.GeminiAPIKeys))
	return &Client{
		apiKeys:    cfg.GeminiAPIKeys,
		newModels:  newAPIKeyModels,
		maxRetries: maxRetriesPerKey,
	}, nil
}

func newAPIKeyModels(ctx context.Context, apiKey string) (ContentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// GenerateContent - 429 시 재시도 및 키 교체
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return generateWithRetry(ctx, c.apiKeys, c.maxRetries, c.newModels, model, contents, config)
}
