package edit

import "image-studio-server/modules/common/model"

// EditType - 편집 종류
type EditType string

const (
	OutfitChange     EditType = "outfit_change"
	PoseChange       EditType = "pose_change"
	FaceSwap         EditType = "face_swap"
	FaceEnhancement  EditType = "face_enhancement"
	BodyModification EditType = "body_modification"
	BackgroundChange EditType = "background_change"
	ObjectControl    EditType = "object_control"
	CompleteMakeover EditType = "complete_makeover"
	StyleTransfer    EditType = "style_transfer"
	CustomEdit       EditType = "custom_edit"
)

// EditTypes - 화면 표시 순서
var EditTypes = []EditType{
	OutfitChange, PoseChange, FaceSwap, FaceEnhancement, BodyModification,
	BackgroundChange, ObjectControl, CompleteMakeover, StyleTransfer, CustomEdit,
}

// 배경 작업
const (
	BackgroundRemove  = "Remove Background"
	BackgroundReplace = "Replace Background"
	BackgroundEnhance = "Enhance Background"
)

// 오브젝트 작업
const (
	ObjectAdd     = "add"
	ObjectRemove  = "remove"
	ObjectReplace = "replace"
)

// EditRequest - POST /api/edit 요청
type EditRequest struct {
	SessionID   string                 `json:"sessionId"`
	EditType    string                 `json:"editType"`
	Image       string                 `json:"image"`                 // base64 또는 data URL (대상 이미지)
	SourceImage string                 `json:"sourceImage,omitempty"` // face_swap 전용 (얼굴을 가져올 이미지)
	Options     map[string]interface{} `json:"options"`
}

// EditResponse - POST /api/edit 응답
type EditResponse struct {
	Success      bool                   `json:"success"`
	Message      string                 `json:"message,omitempty"`
	EditType     string                 `json:"editType"`
	Options      map[string]interface{} `json:"options,omitempty"` // 테이블 조회 후 실제 사용된 값
	Image        *model.ImageResult     `json:"image,omitempty"`
	ErrorMessage string                 `json:"errorMessage,omitempty"`
	ErrorCode    string                 `json:"errorCode,omitempty"`
}
