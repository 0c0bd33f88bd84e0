package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"image-studio-server/modules/common/fallback"
	"image-studio-server/modules/common/gemini"
	"image-studio-server/modules/options"
	"image-studio-server/modules/prompt"
)

type Service struct {
	generator gemini.ContentGenerator
	model     string
}

func NewService(generator gemini.ContentGenerator, model string) *Service {
	return &Service{generator: generator, model: model}
}

// Settings - 프롬프트 조합 설정 (기본값 적용 완료 상태)
type Settings struct {
	Style        string
	AspectRatio  string
	Variants     int
	QualityBoost bool
	AutoEnhance  bool
	BatchMode    bool
}

// SettingsFrom - 요청에서 설정 추출 (빈 값은 sentinel/기본값으로)
func SettingsFrom(req *GenerateRequest) Settings {
	s := Settings{
		Style:        fallback.SafeString(req.Style, options.StyleNone),
		AspectRatio:  fallback.SafeString(req.AspectRatio, options.RatioDefault),
		Variants:     fallback.ClampInt(req.Variants, DefaultVariants, 1, MaxVariants),
		QualityBoost: true,
		AutoEnhance:  true,
		BatchMode:    req.BatchMode,
	}
	if req.QualityBoost != nil {
		s.QualityBoost = *req.QualityBoost
	}
	if req.AutoEnhance != nil {
		s.AutoEnhance = *req.AutoEnhance
	}
	return s
}

// BuildPrompts - 모델에 보낼 프롬프트 목록
// 배치 모드에 배치 프롬프트가 있으면 그대로 사용, 아니면 단일 프롬프트 (autoEnhance 시 조합)
func BuildPrompts(basePrompt string, batchPrompts []string, s Settings) ([]string, error) {
	if s.BatchMode {
		batch := fallback.SafeStringSlice(batchPrompts)
		if len(batch) > 0 {
			return batch, nil
		}
	}

	if !s.AutoEnhance {
		return []string{basePrompt}, nil
	}

	enhanced, err := prompt.Compose(basePrompt, s.Style, s.AspectRatio, s.QualityBoost)
	if err != nil {
		return nil, err
	}
	return []string{enhanced}, nil
}

// Generate - 프롬프트 하나로 variants번 호출, 호출마다 첫 번째 이미지만 사용
// 호출 실패 시 그때까지 받은 이미지와 에러 반환
func (s *Service) Generate(ctx context.Context, text string, variants int, ratioKey string) ([]gemini.Image, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		SafetySettings:     gemini.SafetySettings(),
	}
	if ratio, ok := options.AspectRatioValues[ratioKey]; ok {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: ratio}
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(text)}, genai.RoleUser),
	}

	images := []gemini.Image{}
	for i := 0; i < variants; i++ {
		if err := ctx.Err(); err != nil {
			return images, err
		}

		log.Debug().Msgf("📤 [Generate] Calling Gemini (%d/%d): %s", i+1, variants, truncate(text, 50))
		resp, err := s.generator.GenerateContent(ctx, s.model, contents, config)
		if err != nil {
			return images, fmt.Errorf("generation error: %w", err)
		}

		img, ok := gemini.FirstImage(resp)
		if !ok {
			log.Warn().Msgf("⚠️  [Generate] Variant %d returned no image", i+1)
			continue
		}
		images = append(images, img)
	}

	return images, nil
}

// GenerateAll - 모든 프롬프트 처리 (프롬프트 하나가 실패해도 나머지는 계속)
func (s *Service) GenerateAll(ctx context.Context, prompts []string, variants int, ratioKey string) ([]gemini.Image, error) {
	all := []gemini.Image{}
	var lastErr error
	for i, p := range prompts {
		images, err := s.Generate(ctx, p, variants, ratioKey)
		all = append(all, images...)
		if err != nil {
			log.Error().Err(err).Msgf("❌ [Generate] Prompt %d/%d failed", i+1, len(prompts))
			lastErr = err
			if ctx.Err() != nil {
				break
			}
		}
	}
	return all, lastErr
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
