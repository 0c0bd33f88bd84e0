package session

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"image-studio-server/modules/common/model"
	"image-studio-server/modules/history"
)

// ExportFileName - 사용 내역 다운로드 파일명
const ExportFileName = "usage_report.json"

// HistoryResponse - 전체 채널 조회 응답
type HistoryResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	Capacity  int    `json:"capacity"`
	history.ExportDocument
}

// ChannelHistoryResponse - 채널 하나 조회 응답
type ChannelHistoryResponse struct {
	Success   bool            `json:"success"`
	SessionID string          `json:"sessionId"`
	Channel   history.Channel `json:"channel"`
	Capacity  int             `json:"capacity"`
	Entries   []history.Entry `json:"entries"`
}

// StatsResponse - 사이드바 카운트
type StatsResponse struct {
	Success   bool                 `json:"success"`
	SessionID string               `json:"sessionId"`
	Counts    map[string]int       `json:"counts"`
	Total     int                  `json:"total"`
	Capacity  int                  `json:"capacity"`
	Usage     []history.UsageCount `json:"usage"` // 편집 유형별 사용 횟수
}

// HandleListHistory - GET /api/history/{sessionId}[?channel=]
func (h *Handler) HandleListHistory(w http.ResponseWriter, r *http.Request) {
	session := h.manager.GetOrCreate(mux.Vars(r)["sessionId"])
	entries := session.History()

	if raw := r.URL.Query().Get("channel"); raw != "" {
		channel, err := history.ParseChannel(raw)
		if err != nil {
			model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
			return
		}
		model.WriteJSON(w, http.StatusOK, ChannelHistoryResponse{
			Success:   true,
			SessionID: session.ID(),
			Channel:   channel,
			Capacity:  entries.Capacity(),
			Entries:   entries.List(channel),
		})
		return
	}

	model.WriteJSON(w, http.StatusOK, HistoryResponse{
		Success:        true,
		SessionID:      session.ID(),
		Capacity:       entries.Capacity(),
		ExportDocument: entries.Snapshot(),
	})
}

// HandleStats - GET /api/history/{sessionId}/stats
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.writeStats(w, h.manager.GetOrCreate(mux.Vars(r)["sessionId"]))
}

// HandleExport - GET /api/history/{sessionId}/export (usage_report.json 다운로드)
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	session := h.manager.GetOrCreate(mux.Vars(r)["sessionId"])

	data, err := session.History().Export()
	if err != nil {
		log.Error().Err(err).Str("session_id", session.ID()).Msg("❌ [History] Export failed")
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, "Failed to export history")
		return
	}

	log.Info().Str("session_id", session.ID()).Msgf("📦 [History] Exported %d entries", session.History().TotalCount())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleClearAll - DELETE /api/history/{sessionId}
func (h *Handler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	session := h.manager.GetOrCreate(mux.Vars(r)["sessionId"])
	session.ClearAll()

	log.Info().Str("session_id", session.ID()).Msg("🗑️  [History] Cleared all channels")
	h.writeStats(w, session)
}

// HandleClearChannel - DELETE /api/history/{sessionId}/{channel}
func (h *Handler) HandleClearChannel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	channel, err := history.ParseChannel(vars["channel"])
	if err != nil {
		model.WriteError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error())
		return
	}

	session := h.manager.GetOrCreate(vars["sessionId"])
	session.Clear(channel)

	log.Info().Str("session_id", session.ID()).Msgf("🗑️  [History] Cleared %s channel", channel)
	h.writeStats(w, session)
}

func (h *Handler) writeStats(w http.ResponseWriter, session *Session) {
	model.WriteJSON(w, http.StatusOK, StatsResponse{
		Success:   true,
		SessionID: session.ID(),
		Counts:    session.History().Counts(),
		Total:     session.History().TotalCount(),
		Capacity:  session.History().Capacity(),
		Usage:     session.History().EditUsage(),
	})
}
