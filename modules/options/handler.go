package options

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Handler - 정적 옵션 테이블 조회 핸들러
type Handler struct{}

// OptionsResponse - GET /api/options 응답
type OptionsResponse struct {
	Success   bool                         `json:"success"`
	Tables    map[string]map[string]string `json:"tables"`
	Selectors map[string][]string          `json:"selectors"`
	Templates map[string][]string          `json:"templates"`
}

func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/options", h.HandleOptions).Methods("GET", "OPTIONS")
	log.Info().Msg("✅ Options routes registered: /api/options")
}

// HandleOptions - GET /api/options
// selectors는 화면의 드롭다운 순서 그대로 (style/ratio는 sentinel이 맨 앞)
func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	selectors := make(map[string][]string, len(Tables))
	for name, table := range Tables {
		selectors[name] = Names(table)
	}
	selectors["styles"] = append([]string{StyleNone}, selectors["styles"]...)
	selectors["aspectRatios"] = append([]string{RatioDefault}, selectors["aspectRatios"]...)

	json.NewEncoder(w).Encode(OptionsResponse{
		Success:   true,
		Tables:    Tables,
		Selectors: selectors,
		Templates: PromptTemplates,
	})
}
