package model

import "time"

// 에러 코드
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnknownOption  = "UNKNOWN_OPTION"
	ErrCodeUnavailable    = "SERVICE_UNAVAILABLE"
	ErrCodeTooLarge       = "PAYLOAD_TOO_LARGE"
)

// 배치 Job 상태
const (
	StatusPending       = "pending"
	StatusProcessing    = "processing"
	StatusCompleted     = "completed"
	StatusFailed        = "failed"
	StatusUserCancelled = "user_cancelled"
)

// ErrorResponse - 모든 API 공통 에러 응답
type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode"`
}

// ImageResult - 생성/편집된 이미지 한 장
type ImageResult struct {
	Base64   string `json:"base64"`
	MIMEType string `json:"mimeType"`
	URL      string `json:"url,omitempty"` // 스토리지 업로드 성공 시에만
}

// Asset - studio_assets 테이블 구조
type Asset struct {
	AssetID   int64     `json:"asset_id,omitempty"`
	SessionID string    `json:"session_id"`
	Channel   string    `json:"channel"`
	FilePath  string    `json:"file_path"`
	FileSize  int64     `json:"file_size"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// BatchJob - Redis 큐에 들어가는 배치 생성 요청
type BatchJob struct {
	JobID        string    `json:"jobId"`
	SessionID    string    `json:"sessionId"`
	Prompts      []string  `json:"prompts"`
	Style        string    `json:"style"`
	Variants     int       `json:"variants"`
	QualityBoost bool      `json:"qualityBoost"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BatchResult - 배치 처리 결과 (studio:batch:result:<jobId>)
type BatchResult struct {
	JobID        string        `json:"jobId"`
	SessionID    string        `json:"sessionId"`
	Status       string        `json:"status"`
	TotalPrompts int           `json:"totalPrompts"`
	Completed    int           `json:"completed"`
	Images       []ImageResult `json:"images"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
