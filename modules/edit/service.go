package edit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"image-studio-server/modules/common/gemini"
	"image-studio-server/modules/common/utils"
)

type Service struct {
	generator gemini.ContentGenerator
	model     string
}

func NewService(generator gemini.ContentGenerator, model string) *Service {
	return &Service{generator: generator, model: model}
}

// Result - 편집 결과 (이미지가 없으면 Image.Data 비어 있음)
type Result struct {
	Image   gemini.Image
	Message string
}

func (s *Service) call(ctx context.Context, prompt string, images ...[]byte) (*genai.GenerateContentResponse, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img, utils.DetectMIMEType(img)))
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		SafetySettings:     gemini.SafetySettings(),
	}

	return s.generator.GenerateContent(ctx, s.model, []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}, config)
}

// Edit - 이미지 한 장 편집
func (s *Service) Edit(ctx context.Context, editType EditType, image []byte, opts map[string]interface{}) (Result, error) {
	prompt := BuildPrompt(editType, opts)
	log.Debug().Msgf("📤 [Edit] Calling Gemini for %s (%d bytes)", editType, len(image))

	resp, err := s.call(ctx, prompt, image)
	if err != nil {
		return Result{Message: fmt.Sprintf("Editing error: %v", err)}, fmt.Errorf("edit %s: %w", editType, err)
	}

	img, ok := gemini.FirstImage(resp)
	if !ok {
		return Result{Message: "No edited image generated"}, nil
	}
	return Result{Image: img, Message: "Image transformation completed successfully!"}, nil
}

// SwapFace - source 얼굴을 target 인물에 합성 (프롬프트, source, target 순서)
func (s *Service) SwapFace(ctx context.Context, source, target []byte, opts map[string]interface{}) (Result, error) {
	log.Debug().Msgf("📤 [Edit] Calling Gemini for face swap (source %d bytes, target %d bytes)", len(source), len(target))

	resp, err := s.call(ctx, BuildFaceSwapPrompt(opts), source, target)
	if err != nil {
		return Result{Message: fmt.Sprintf("Face swap error: %v", err)}, fmt.Errorf("face swap: %w", err)
	}

	img, ok := gemini.FirstImage(resp)
	if !ok {
		return Result{Message: "Face swap failed to generate result"}, nil
	}
	return Result{Image: img, Message: "Face swap completed successfully!"}, nil
}
