package analysis

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"image-studio-server/modules/common/model"
	"image-studio-server/modules/common/utils"
	"image-studio-server/modules/history"
	"image-studio-server/modules/session"
)

type Handler struct {
	service  *Service
	sessions *session.Manager
}

func NewHandler(service *Service, sessions *session.Manager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/analyze", h.HandleAnalyze).Methods("POST")
	r.HandleFunc("/api/analyze/batch", h.HandleAnalyzeBatch).Methods("POST")
}

// HandleAnalyze - POST /api/analyze
// 성공 여부와 관계없이 analysis 히스토리에 기록
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := model.DecodeJSON(w, r, &req); err != nil {
		log.Warn().Err(err).Msg("❌ [Analysis] Invalid request")
		model.WriteDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "sessionId is required")
		return
	}

	image, err := utils.DecodeBase64Image(req.Image)
	if err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Please upload an image to analyze")
		return
	}

	analysisType := ResolveType(req.AnalysisType)
	sess := h.sessions.GetOrCreate(req.SessionID)
	log.Info().Str("session_id", sess.ID()).Msgf("🔍 [Analysis] Processing %s (%d bytes)", analysisType, len(image))

	report, err := h.service.Analyze(r.Context(), analysisType, image)
	success := err == nil

	sess.Record(history.ChannelAnalysis, map[string]interface{}{
		"analysis_type": string(analysisType),
		"timestamp":     time.Now().Format(time.RFC3339),
		"success":       success,
	})

	if !success {
		log.Error().Err(err).Str("session_id", sess.ID()).Msg("❌ [Analysis] Gemini call failed")
		model.WriteJSON(w, http.StatusOK, AnalyzeResponse{
			Success:      false,
			AnalysisType: string(analysisType),
			ErrorMessage: err.Error(),
			ErrorCode:    model.ErrCodeInternal,
		})
		return
	}

	resp := AnalyzeResponse{
		Success:      true,
		AnalysisType: string(analysisType),
		Report:       report,
	}
	if analysisType == TextExtraction {
		detected := HasText(report)
		resp.TextDetected = &detected
	}

	log.Info().Str("session_id", sess.ID()).Msgf("✅ [Analysis] %s completed (%d chars)", analysisType, len(report))
	model.WriteJSON(w, http.StatusOK, resp)
}

// HandleAnalyzeBatch - POST /api/analyze/batch[?download=1]
// download가 켜져 있으면 batch_analysis_report.json 첨부 파일로 응답
func (h *Handler) HandleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchAnalyzeRequest
	if err := model.DecodeJSON(w, r, &req); err != nil {
		log.Warn().Err(err).Msg("❌ [Analysis] Invalid batch request")
		model.WriteDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "sessionId is required")
		return
	}
	if len(req.Images) == 0 {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Please upload images to analyze")
		return
	}
	if len(req.Images) > MaxBatchImages {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest,
			fmt.Sprintf("Up to %d images per batch", MaxBatchImages))
		return
	}

	analysisType := ResolveType(req.AnalysisType)
	sess := h.sessions.GetOrCreate(req.SessionID)
	log.Info().Str("session_id", sess.ID()).Msgf("🔍 [Analysis] Batch %s for %d images", analysisType, len(req.Images))

	report := h.service.AnalyzeBatch(r.Context(), analysisType, req.Images)
	failed := report.Failed()
	analyzed := len(report.Results) - failed

	sess.Record(history.ChannelAnalysis, map[string]interface{}{
		"analysis_type": string(analysisType),
		"timestamp":     report.Timestamp,
		"success":       analyzed > 0,
		"batch_mode":    true,
		"count":         analyzed,
		"failed":        failed,
	})

	log.Info().Str("session_id", sess.ID()).Msgf("✅ [Analysis] Batch done: %d analyzed, %d failed", analyzed, failed)

	if r.URL.Query().Get("download") != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, "Failed to build batch report")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+BatchReportFileName+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	model.WriteJSON(w, http.StatusOK, BatchAnalyzeResponse{
		Success:     analyzed > 0,
		Analyzed:    analyzed,
		Failed:      failed,
		BatchReport: report,
	})
}
