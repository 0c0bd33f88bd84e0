package generate

import "image-studio-server/modules/common/model"

const (
	DefaultVariants = 2
	MaxVariants     = 4
)

// GenerateRequest - POST /api/generate 요청
type GenerateRequest struct {
	SessionID    string   `json:"sessionId"`
	Prompt       string   `json:"prompt"`
	Style        string   `json:"style"`       // "None" 또는 StylePresets 키
	AspectRatio  string   `json:"aspectRatio"` // "Default" 또는 AspectRatios 키
	Variants     int      `json:"variants"`    // 1~4, 기본 2
	QualityBoost *bool    `json:"qualityBoost,omitempty"`
	AutoEnhance  *bool    `json:"autoEnhance,omitempty"`
	BatchMode    bool     `json:"batchMode"`
	BatchPrompts []string `json:"batchPrompts,omitempty"`
}

// GenerateResponse - POST /api/generate 응답
type GenerateResponse struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message,omitempty"`
	Prompts      []string            `json:"prompts,omitempty"` // 실제 모델에 보낸 프롬프트
	Images       []model.ImageResult `json:"images"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
	ErrorCode    string              `json:"errorCode,omitempty"`
}
