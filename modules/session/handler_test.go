package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"image-studio-server/modules/history"
)

func newTestRouter(m *Manager) *mux.Router {
	r := mux.NewRouter()
	NewHandler(m).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func seed(m *Manager) *Session {
	s := m.GetOrCreate("s1")
	s.Record(history.ChannelGeneration, map[string]interface{}{"prompt": "a cat", "count": 2})
	s.Record(history.ChannelGeneration, map[string]interface{}{"prompt": "a dog", "count": 1})
	s.Record(history.ChannelEdit, map[string]interface{}{"edit_type": "pose_change"})
	return s
}

func TestHandleListHistory(t *testing.T) {
	m := NewManager(20, time.Hour, time.Hour)
	seed(m)
	r := newTestRouter(m)

	rec := do(t, r, http.MethodGet, "/api/history/s1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Success     bool `json:"success"`
		Capacity    int  `json:"capacity"`
		Generations []struct {
			Type string                 `json:"type"`
			Data map[string]interface{} `json:"data"`
		} `json:"generations"`
		Edits    []json.RawMessage `json:"edits"`
		Analyses []json.RawMessage `json:"analyses"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Capacity != 20 {
		t.Fatalf("body = %+v", body)
	}
	if len(body.Generations) != 2 || body.Generations[0].Data["prompt"] != "a dog" {
		t.Fatalf("generations should be newest first: %+v", body.Generations)
	}
	if len(body.Edits) != 1 || body.Analyses == nil || len(body.Analyses) != 0 {
		t.Fatalf("edits = %d analyses = %v", len(body.Edits), body.Analyses)
	}
}

func TestHandleListHistoryChannelFilter(t *testing.T) {
	m := NewManager(20, time.Hour, time.Hour)
	seed(m)
	r := newTestRouter(m)

	rec := do(t, r, http.MethodGet, "/api/history/s1?channel=edit")
	var body ChannelHistoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Channel != history.ChannelEdit {
		t.Fatalf("channel = %q", body.Channel)
	}

	rec = do(t, r, http.MethodGet, "/api/history/s1?channel=bogus")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "INVALID_REQUEST") {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
}

func TestHandleStatsAndClear(t *testing.T) {
	m := NewManager(20, time.Hour, time.Hour)
	seed(m)
	r := newTestRouter(m)

	var stats StatsResponse
	json.NewDecoder(do(t, r, http.MethodGet, "/api/history/s1/stats").Body).Decode(&stats)
	if stats.Total != 3 || stats.Counts["generation"] != 2 || stats.Counts["edit"] != 1 || stats.Counts["analysis"] != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(stats.Usage) != 1 || stats.Usage[0] != (history.UsageCount{EditType: "pose_change", Count: 1}) {
		t.Fatalf("usage = %+v", stats.Usage)
	}

	json.NewDecoder(do(t, r, http.MethodDelete, "/api/history/s1/generation").Body).Decode(&stats)
	if stats.Total != 1 || stats.Counts["generation"] != 0 {
		t.Fatalf("after clear generation = %+v", stats)
	}

	if rec := do(t, r, http.MethodDelete, "/api/history/s1/nope"); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown channel status = %d", rec.Code)
	}

	json.NewDecoder(do(t, r, http.MethodDelete, "/api/history/s1").Body).Decode(&stats)
	if stats.Total != 0 || len(stats.Usage) != 0 {
		t.Fatalf("after clear all = %+v", stats)
	}
}

func TestHandleExport(t *testing.T) {
	m := NewManager(20, time.Hour, time.Hour)
	seed(m)
	r := newTestRouter(m)

	rec := do(t, r, http.MethodGet, "/api/history/s1/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "usage_report.json") {
		t.Fatalf("Content-Disposition = %q", cd)
	}

	var doc map[string][]map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc) != 3 || len(doc["generations"]) != 2 || len(doc["edits"]) != 1 || len(doc["analyses"]) != 0 {
		t.Fatalf("export = %v", doc)
	}
	if doc["edits"][0]["type"] != "edit" {
		t.Fatalf("entry type = %v", doc["edits"][0]["type"])
	}
}

func TestHandleSessionInfoAndMetrics(t *testing.T) {
	m := NewManager(20, time.Hour, time.Hour)
	seed(m)
	r := newTestRouter(m)

	if rec := do(t, r, http.MethodGet, "/session/missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing session status = %d", rec.Code)
	}

	var info Info
	json.NewDecoder(do(t, r, http.MethodGet, "/session/s1").Body).Decode(&info)
	if info.SessionID != "s1" || info.Total != 3 {
		t.Fatalf("info = %+v", info)
	}

	var metrics MetricsResponse
	json.NewDecoder(do(t, r, http.MethodGet, "/metrics").Body).Decode(&metrics)
	if metrics.Server.ActiveSessions != 1 || metrics.Server.HistoryEntries != 3 || len(metrics.Sessions) != 1 {
		t.Fatalf("metrics = %+v", metrics)
	}

	if rec := do(t, r, http.MethodPost, "/admin/cleanup"); rec.Code != http.StatusOK {
		t.Fatalf("cleanup status = %d", rec.Code)
	}
}

func TestWebSocketReceivesHistoryEvents(t *testing.T) {
	m := NewManager(20, time.Hour, time.Hour)
	srv := httptest.NewServer(newTestRouter(m))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=s1&client=tab1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read connected: %v", err)
	}
	if ev.Type != EventConnected || ev.ClientID == "" || ev.ClientID == "tab1" {
		t.Fatalf("first event = %+v, want a server-issued client id", ev)
	}

	s, err := m.Get("s1")
	if err != nil {
		t.Fatalf("session not created: %v", err)
	}
	s.Record(history.ChannelAnalysis, map[string]interface{}{"analysis_type": "complete"})

	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read history event: %v", err)
	}
	if ev.Type != EventHistoryUpdated || ev.Channel != "analysis" || ev.Total != 1 {
		t.Fatalf("history event = %+v", ev)
	}

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if ev.Type != EventPong {
		t.Fatalf("event = %+v, want pong", ev)
	}
}

func TestWebSocketClientIDCannotBeClaimed(t *testing.T) {
	m := NewManager(20, time.Hour, time.Hour)
	srv := httptest.NewServer(newTestRouter(m))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=s1&client=tab1"
	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial first: %v", err)
	}
	defer first.Close()
	first.SetReadDeadline(time.Now().Add(5 * time.Second))
	var firstEv Event
	if err := first.ReadJSON(&firstEv); err != nil {
		t.Fatalf("read first connected: %v", err)
	}

	// 다른 탭의 client ID를 넣어도 기존 연결을 끊지 못함
	second, _, err := websocket.DefaultDialer.Dial(strings.Replace(url, "tab1", firstEv.ClientID, 1), nil)
	if err != nil {
		t.Fatalf("dial second: %v", err)
	}
	defer second.Close()
	second.SetReadDeadline(time.Now().Add(5 * time.Second))
	var secondEv Event
	if err := second.ReadJSON(&secondEv); err != nil {
		t.Fatalf("read second connected: %v", err)
	}
	if secondEv.ClientID == firstEv.ClientID {
		t.Fatalf("both connections got client id %q", firstEv.ClientID)
	}

	s, err := m.Get("s1")
	if err != nil {
		t.Fatal(err)
	}
	if s.ClientCount() != 2 {
		t.Fatalf("client count = %d, want 2", s.ClientCount())
	}

	s.Record(history.ChannelEdit, map[string]interface{}{"edit_type": "style"})
	var ev Event
	if err := first.ReadJSON(&ev); err != nil {
		t.Fatalf("first connection was dropped: %v", err)
	}
	if ev.Type != EventHistoryUpdated {
		t.Fatalf("event = %+v", ev)
	}
}

func TestWebSocketRequiresSession(t *testing.T) {
	m := NewManager(20, time.Hour, time.Hour)
	rec := do(t, newTestRouter(m), http.MethodGet, "/ws")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
