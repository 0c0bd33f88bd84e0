package edit

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

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

func NewHandler(service *Service, sessions *session.Manager, uploader storage.Uploader) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		uploader: uploader,
	}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/edit", h.HandleEdit).Methods("POST")
}

// HandleEdit - POST /api/edit
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := model.DecodeJSON(w, r, &req); err != nil {
		log.Warn().Err(err).Msg("❌ [Edit] Invalid request")
		model.WriteDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "sessionId is required")
		return
	}

	editType, err := ParseEditType(req.EditType)
	if err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}

	target, err := utils.DecodeBase64Image(req.Image)
	if err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Please upload an image to transform")
		return
	}

	var source []byte
	if editType == FaceSwap {
		if source, err = utils.DecodeBase64Image(req.SourceImage); err != nil {
			model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Please upload a source face image for face swap!")
			return
		}
	}

	opts, err := ResolveOptions(editType, req.Options)
	if err != nil {
		code := model.ErrCodeInvalidRequest
		if errors.Is(err, prompt.ErrUnknownOption) {
			code = model.ErrCodeUnknownOption
		}
		model.WriteError(w, http.StatusBadRequest, code, err.Error())
		return
	}

	ctx := r.Context()
	sess := h.sessions.GetOrCreate(req.SessionID)
	log.Info().Str("session_id", sess.ID()).Msgf("✏️  [Edit] Processing %s (%d bytes)", editType, len(target))

	var result Result
	if editType == FaceSwap {
		result, err = h.service.SwapFace(ctx, source, target, opts)
	} else {
		result, err = h.service.Edit(ctx, editType, target, opts)
	}
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID()).Msg("❌ [Edit] Gemini call failed")
	}

	if len(result.Image.Data) == 0 {
		model.WriteJSON(w, http.StatusOK, EditResponse{
			Success:      false,
			EditType:     string(editType),
			Options:      opts,
			ErrorMessage: result.Message,
			ErrorCode:    model.ErrCodeInternal,
		})
		return
	}

	image := model.ImageResult{
		Base64:   utils.ConvertImageToBase64(result.Image.Data),
		MIMEType: result.Image.MIMEType,
	}
	images := []model.ImageResult{image}
	storage.AttachURLs(ctx, h.uploader, sess.ID(), string(history.ChannelEdit), images, [][]byte{result.Image.Data})

	sess.Record(history.ChannelEdit, map[string]interface{}{
		"edit_type": string(editType),
		"options":   opts,
		"success":   true,
		"timestamp": time.Now().Format(time.RFC3339),
	})

	log.Info().Str("session_id", sess.ID()).Msgf("✅ [Edit] %s completed", editType)

	model.WriteJSON(w, http.StatusOK, EditResponse{
		Success:  true,
		Message:  result.Message,
		EditType: string(editType),
		Options:  opts,
		Image:    &images[0],
	})
}
