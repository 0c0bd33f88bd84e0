package generate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"image-studio-server/modules/common/gemini"
	"image-studio-server/modules/common/model"
	"image-studio-server/modules/common/storage"
	"image-studio-server/modules/common/utils"
	"image-studio-server/modules/history"
	"image-studio-server/modules/prompt"
	"image-studio-server/modules/session"
)

type Handler struct {
	service  *Service
	sessions *session.Manager
	uploader storage.Uploader
}

// NewHandler - uploader가 nil이면 스토리지 업로드 생략
func NewHandler(service *Service, sessions *session.Manager, uploader storage.Uploader) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		uploader: uploader,
	}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/generate", h.HandleGenerate).Methods("POST")
	r.HandleFunc("/api/contact-sheet", h.HandleContactSheet).Methods("POST")
}

// HandleGenerate - POST /api/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := model.DecodeJSON(w, r, &req); err != nil {
		log.Warn().Err(err).Msg("❌ [Generate] Invalid request")
		model.WriteDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "sessionId is required")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Please enter a description!")
		return
	}

	settings := SettingsFrom(&req)
	prompts, err := BuildPrompts(req.Prompt, req.BatchPrompts, settings)
	if err != nil {
		if errors.Is(err, prompt.ErrUnknownOption) {
			model.WriteError(w, http.StatusBadRequest, model.ErrCodeUnknownOption, err.Error())
			return
		}
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, err.Error())
		return
	}

	ctx := r.Context()
	sess := h.sessions.GetOrCreate(req.SessionID)

	log.Info().Str("session_id", sess.ID()).Msgf("🎨 [Generate] Processing %d prompt(s) x %d variant(s), style=%s, ratio=%s, batch=%v",
		len(prompts), settings.Variants, settings.Style, settings.AspectRatio, settings.BatchMode)

	images, genErr := h.service.GenerateAll(ctx, prompts, settings.Variants, settings.AspectRatio)

	if len(images) == 0 {
		message := "Failed to generate images. Please try again."
		if genErr != nil {
			message = genErr.Error()
		}
		model.WriteJSON(w, http.StatusOK, GenerateResponse{
			Success:      false,
			Prompts:      prompts,
			Images:       []model.ImageResult{},
			ErrorMessage: message,
			ErrorCode:    model.ErrCodeInternal,
		})
		return
	}

	results, raw := ToResults(images)
	storage.AttachURLs(ctx, h.uploader, sess.ID(), string(history.ChannelGeneration), results, raw)

	sess.Record(history.ChannelGeneration, map[string]interface{}{
		"prompt":     req.Prompt,
		"style":      settings.Style,
		"variants":   settings.Variants,
		"batch_mode": settings.BatchMode,
		"count":      len(images),
	})

	log.Info().Str("session_id", sess.ID()).Msgf("✅ [Generate] Generated %d images", len(images))

	model.WriteJSON(w, http.StatusOK, GenerateResponse{
		Success: true,
		Message: fmt.Sprintf("Generated %d images successfully!", len(images)),
		Prompts: prompts,
		Images:  results,
	})
}

// ToResults - 모델 이미지를 응답 형식으로 변환 (업로드용 원본 바이너리 함께 반환)
func ToResults(images []gemini.Image) ([]model.ImageResult, [][]byte) {
	results := make([]model.ImageResult, 0, len(images))
	raw := make([][]byte, 0, len(images))
	for _, img := range images {
		results = append(results, model.ImageResult{
			Base64:   utils.ConvertImageToBase64(img.Data),
			MIMEType: img.MIMEType,
		})
		raw = append(raw, img.Data)
	}
	return results, raw
}

// ContactSheetRequest - POST /api/contact-sheet 요청
type ContactSheetRequest struct {
	Images      []string `json:"images"`      // base64 또는 data URL
	AspectRatio string   `json:"aspectRatio"` // "1:1", "16:9" 등 (비어 있으면 그리드 크기 그대로)
}

// ContactSheetResponse - 병합된 PNG
type ContactSheetResponse struct {
	Success  bool   `json:"success"`
	Image    string `json:"image"`
	MIMEType string `json:"mimeType"`
	Count    int    `json:"count"`
}

// HandleContactSheet - POST /api/contact-sheet (여러 결과를 한 장으로 병합)
func (h *Handler) HandleContactSheet(w http.ResponseWriter, r *http.Request) {
	var req ContactSheetRequest
	if err := model.DecodeJSON(w, r, &req); err != nil {
		log.Warn().Err(err).Msg("❌ [ContactSheet] Invalid request")
		model.WriteDecodeError(w, err)
		return
	}
	if len(req.Images) == 0 {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "At least one image is required")
		return
	}

	decoded := make([][]byte, 0, len(req.Images))
	for i, s := range req.Images {
		data, err := utils.DecodeBase64Image(s)
		if err != nil {
			model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, fmt.Sprintf("image %d: %v", i+1, err))
			return
		}
		decoded = append(decoded, data)
	}

	merged, err := utils.MergeImages(decoded, req.AspectRatio)
	if err != nil {
		log.Error().Err(err).Msg("❌ [ContactSheet] Merge failed")
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}

	model.WriteJSON(w, http.StatusOK, ContactSheetResponse{
		Success:  true,
		Image:    utils.ConvertImageToBase64(merged),
		MIMEType: "image/png",
		Count:    len(decoded),
	})
}
