package session

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"image-studio-server/modules/common/model"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes - 세션/히스토리 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws", h.manager.HandleWebSocket)
	r.HandleFunc("/session/{sessionId}", h.HandleSessionInfo).Methods("GET")
	r.HandleFunc("/metrics", h.HandleMetrics).Methods("GET")
	r.HandleFunc("/admin/cleanup", h.HandleCleanup).Methods("POST")

	r.HandleFunc("/api/history/{sessionId}", h.HandleListHistory).Methods("GET")
	r.HandleFunc("/api/history/{sessionId}", h.HandleClearAll).Methods("DELETE")
	r.HandleFunc("/api/history/{sessionId}/stats", h.HandleStats).Methods("GET")
	r.HandleFunc("/api/history/{sessionId}/export", h.HandleExport).Methods("GET")
	r.HandleFunc("/api/history/{sessionId}/{channel}", h.HandleClearChannel).Methods("DELETE")
}

// HandleSessionInfo - GET /session/{sessionId}
func (h *Handler) HandleSessionInfo(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.manager.Get(sessionID)
	if err != nil {
		model.WriteError(w, http.StatusNotFound, model.ErrCodeNotFound, "Session not found")
		return
	}

	model.WriteJSON(w, http.StatusOK, session.Info())
}

// MetricsResponse - GET /metrics 응답
type MetricsResponse struct {
	Server   ServerStats `json:"server"`
	Sessions []Info      `json:"sessions"`
}

// ServerStats - 서버 전체 통계
type ServerStats struct {
	Uptime           string    `json:"uptime"`
	StartTime        time.Time `json:"startTime"`
	TotalSessions    int       `json:"totalSessions"`
	ActiveSessions   int       `json:"activeSessions"`
	TotalConnections int       `json:"totalConnections"`
	CurrentClients   int       `json:"currentClients"`
	HistoryEntries   int       `json:"historyEntries"`
}

// HandleMetrics - GET /metrics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.manager.Metrics()
	sessions := h.manager.Sessions()

	stats := ServerStats{
		Uptime:           time.Since(metrics.StartTime).String(),
		StartTime:        metrics.StartTime,
		TotalSessions:    metrics.TotalSessions,
		ActiveSessions:   metrics.ActiveSessions,
		TotalConnections: metrics.TotalConnections,
	}
	for _, s := range sessions {
		stats.CurrentClients += s.ClientCount
		stats.HistoryEntries += s.Total
	}

	model.WriteJSON(w, http.StatusOK, MetricsResponse{Server: stats, Sessions: sessions})
}

// HandleCleanup - POST /admin/cleanup (만료 세션 즉시 정리)
func (h *Handler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	cleaned := h.manager.CleanupExpired()
	log.Info().Msgf("🧹 Admin cleanup removed %d sessions", cleaned)

	model.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "Cleanup completed",
		"cleaned": cleaned,
	})
}
