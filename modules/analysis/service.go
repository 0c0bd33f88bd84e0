package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"image-studio-server/modules/common/gemini"
	"image-studio-server/modules/common/utils"
)

// ErrEmptyReport - 모델이 텍스트를 반환하지 않음
var ErrEmptyReport = errors.New("empty analysis report")

type Service struct {
	generator gemini.ContentGenerator
	model     string
	now       func() time.Time
}

func NewService(generator gemini.ContentGenerator, model string) *Service {
	return &Service{generator: generator, model: model, now: time.Now}
}

// Analyze - 이미지 분석 리포트 (텍스트 파트를 이어 붙인 결과)
func (s *Service) Analyze(ctx context.Context, analysisType AnalysisType, image []byte) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(Prompt(analysisType)),
		genai.NewPartFromBytes(image, utils.DetectMIMEType(image)),
	}

	log.Debug().Msgf("📤 [Analysis] Calling Gemini for %s (%d bytes)", analysisType, len(image))
	resp, err := s.generator.GenerateContent(ctx, s.model, []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		Temperature: floatPtr(0.3), // 분석은 일관성 있게
	})
	if err != nil {
		return "", fmt.Errorf("analysis error: %w", err)
	}

	report := gemini.Text(resp)
	if report == "" {
		return "", ErrEmptyReport
	}
	return report, nil
}

// AnalyzeBatch - 이미지를 순서대로 분석 (이미지 하나의 실패는 해당 결과에만 기록)
func (s *Service) AnalyzeBatch(ctx context.Context, analysisType AnalysisType, images []BatchImage) BatchReport {
	report := BatchReport{
		AnalysisType: string(analysisType),
		Timestamp:    s.now().Format(time.RFC3339),
		Results:      make([]BatchItemResult, 0, len(images)),
	}

	for i, img := range images {
		item := BatchItemResult{Filename: img.Filename}
		if item.Filename == "" {
			item.Filename = fmt.Sprintf("image_%d", i+1)
		}

		if err := ctx.Err(); err != nil {
			item.Error = err.Error()
			report.Results = append(report.Results, item)
			continue
		}

		data, err := utils.DecodeBase64Image(img.Image)
		if err != nil {
			item.Error = err.Error()
		} else if text, err := s.Analyze(ctx, analysisType, data); err != nil {
			log.Error().Err(err).Msgf("❌ [Analysis] Batch image %d/%d (%s) failed", i+1, len(images), item.Filename)
			item.Error = err.Error()
		} else {
			item.Analysis = text
		}
		report.Results = append(report.Results, item)
	}
	return report
}

func floatPtr(f float64) *float32 {
	v := float32(f)
	return &v
}
