package storage

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"image-studio-server/modules/common/model"
)

// AssetsResponse - GET /api/assets/{sessionId} 응답
type AssetsResponse struct {
	Success bool        `json:"success"`
	Assets  []AssetView `json:"assets"`
}

// AssetView - 에셋 + 공개 URL
type AssetView struct {
	model.Asset
	URL string `json:"url"`
}

type Handler struct {
	lister AssetLister
	client *Client
}

// NewHandler - 에셋 조회 핸들러 생성 (lister가 nil이면 503)
func NewHandler(lister AssetLister, client *Client) *Handler {
	return &Handler{lister: lister, client: client}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/assets/{sessionId}", h.HandleListAssets).Methods("GET")
}

// HandleListAssets - 세션이 업로드한 에셋 목록
func (h *Handler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if h.lister == nil || h.client == nil {
		model.WriteError(w, http.StatusServiceUnavailable, model.ErrCodeUnavailable, "Storage is not configured")
		return
	}

	assets, err := h.lister.ListSessionAssets(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("❌ [Assets] Failed to list assets")
		model.WriteError(w, http.StatusInternalServerError, model.ErrCodeInternal, "Failed to list assets")
		return
	}

	views := make([]AssetView, 0, len(assets))
	for _, a := range assets {
		views = append(views, AssetView{Asset: a, URL: h.client.PublicURL(a.FilePath)})
	}

	model.WriteJSON(w, http.StatusOK, AssetsResponse{Success: true, Assets: views})
}
