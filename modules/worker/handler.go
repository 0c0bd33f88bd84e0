package worker

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"image-studio-server/modules/common/fallback"
	"image-studio-server/modules/common/model"
	"image-studio-server/modules/options"
	"image-studio-server/modules/prompt"
)

const (
	DefaultVariants = 1
	MaxVariants     = 3
)

// BatchRequest - POST /api/batch
// prompts 배열 또는 한 줄에 하나씩 적은 text 중 하나
type BatchRequest struct {
	SessionID    string   `json:"sessionId"`
	Prompts      []string `json:"prompts"`
	Text         string   `json:"text"`
	Style        string   `json:"style"`
	Variants     int      `json:"variants"`
	QualityBoost *bool    `json:"qualityBoost"`
}

// BatchResponse - Enqueue 응답
type BatchResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	JobID         string `json:"jobId,omitempty"`
	Status        string `json:"status,omitempty"`
	TotalPrompts  int    `json:"totalPrompts,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
}

// BatchStatusResponse - GET /api/batch/{jobId}
type BatchStatusResponse struct {
	Success bool `json:"success"`
	model.BatchResult
}

// CancelResponse - DELETE /api/batch/{jobId}
type CancelResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	JobID     string `json:"jobId"`
	Status    string `json:"status"`
	Completed int    `json:"completed"`
	Total     int    `json:"totalPrompts"`
}

type Handler struct {
	queue Queue
	now   func() time.Time
}

// NewHandler - queue가 nil이면 모든 요청에 503
func NewHandler(queue Queue) *Handler {
	return &Handler{queue: queue, now: time.Now}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/batch", h.HandleEnqueue).Methods("POST")
	r.HandleFunc("/api/batch/{jobId}", h.HandleStatus).Methods("GET")
	r.HandleFunc("/api/batch/{jobId}", h.HandleCancel).Methods("DELETE")
	log.Info().Msg("✅ [Batch] Routes registered: POST /api/batch, GET|DELETE /api/batch/{jobId}")
}

func (h *Handler) unavailable(w http.ResponseWriter) bool {
	if h.queue != nil {
		return false
	}
	model.WriteError(w, http.StatusServiceUnavailable, model.ErrCodeUnavailable, "Batch processing is not configured")
	return true
}

// HandleEnqueue - POST /api/batch
func (h *Handler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	var req BatchRequest
	if err := model.DecodeJSON(w, r, &req); err != nil {
		log.Warn().Err(err).Msg("❌ [Batch] Invalid request")
		model.WriteDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "sessionId is required")
		return
	}

	prompts := fallback.SafeStringSlice(req.Prompts)
	if len(prompts) == 0 {
		prompts = fallback.NonEmptyLines(req.Text)
	}
	if len(prompts) == 0 {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Please enter at least one prompt!")
		return
	}

	style := fallback.SafeString(req.Style, options.StyleNone)
	// 스타일은 큐에 넣기 전에 검증 (워커에서 실패하지 않도록)
	if _, err := prompt.Compose("", style, options.RatioDefault, false); err != nil {
		if errors.Is(err, prompt.ErrUnknownOption) {
			model.WriteError(w, http.StatusBadRequest, model.ErrCodeUnknownOption, err.Error())
			return
		}
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, err.Error())
		return
	}

	qualityBoost := true
	if req.QualityBoost != nil {
		qualityBoost = *req.QualityBoost
	}

	job := model.BatchJob{
		JobID:        uuid.New().String(),
		SessionID:    req.SessionID,
		Prompts:      prompts,
		Style:        style,
		Variants:     fallback.ClampInt(req.Variants, DefaultVariants, 1, MaxVariants),
		QualityBoost: qualityBoost,
		CreatedAt:    h.now(),
	}

	ctx := r.Context()

	// 결과 키를 먼저 만들어 두어야 조회/취소가 바로 가능
	pending := model.BatchResult{
		JobID:        job.JobID,
		SessionID:    job.SessionID,
		Status:       model.StatusPending,
		TotalPrompts: len(prompts),
		Images:       []model.ImageResult{},
		UpdatedAt:    job.CreatedAt,
	}
	if err := h.queue.SaveResult(ctx, pending); err != nil {
		log.Error().Err(err).Msg("❌ [Batch] Failed to save pending result")
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, "Failed to enqueue batch job")
		return
	}

	position, err := h.queue.Enqueue(ctx, job)
	if err != nil {
		log.Error().Err(err).Msg("❌ [Batch] Enqueue failed")
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, "Failed to enqueue batch job")
		return
	}

	log.Info().Str("job_id", job.JobID).Str("session_id", job.SessionID).
		Msgf("📥 [Batch] Job enqueued (%d prompts x %d variants, position: %d)", len(prompts), job.Variants, position)

	model.WriteJSON(w, http.StatusOK, BatchResponse{
		Success:       true,
		Message:       "Batch job enqueued successfully",
		JobID:         job.JobID,
		Status:        model.StatusPending,
		TotalPrompts:  len(prompts),
		QueuePosition: position,
	})
}

// HandleStatus - GET /api/batch/{jobId}
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	jobID := mux.Vars(r)["jobId"]
	result, err := h.queue.LoadResult(r.Context(), jobID)
	if errors.Is(err, ErrJobNotFound) {
		model.WriteError(w, http.StatusNotFound, model.ErrCodeNotFound, "Batch job not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("❌ [Batch] Failed to load result")
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, err.Error())
		return
	}

	model.WriteJSON(w, http.StatusOK, BatchStatusResponse{Success: true, BatchResult: *result})
}

// HandleCancel - DELETE /api/batch/{jobId}
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	ctx := r.Context()
	jobID := mux.Vars(r)["jobId"]
	log.Info().Str("job_id", jobID).Msg("🛑 [Batch] Cancel requested")

	result, err := h.queue.LoadResult(ctx, jobID)
	if errors.Is(err, ErrJobNotFound) {
		model.WriteError(w, http.StatusNotFound, model.ErrCodeNotFound, "Batch job not found")
		return
	}
	if err != nil {
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, err.Error())
		return
	}

	// 이미 끝난 Job은 취소 불가
	switch result.Status {
	case model.StatusCompleted, model.StatusFailed, model.StatusUserCancelled:
		model.WriteJSON(w, http.StatusOK, CancelResponse{
			Success:   false,
			Message:   "Job already " + result.Status,
			JobID:     jobID,
			Status:    result.Status,
			Completed: result.Completed,
			Total:     result.TotalPrompts,
		})
		return
	}

	if err := h.queue.Cancel(ctx, jobID); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("❌ [Batch] Failed to set cancel flag")
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, "Failed to set cancel flag")
		return
	}

	model.WriteJSON(w, http.StatusOK, CancelResponse{
		Success:   true,
		Message:   "Cancel request sent. Job will stop after the current prompt.",
		JobID:     jobID,
		Status:    result.Status,
		Completed: result.Completed,
		Total:     result.TotalPrompts,
	})
}
