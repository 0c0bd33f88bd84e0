package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"image-studio-server/modules/history"
)

// 이벤트 타입
const (
	EventConnected      = "connected"
	EventHistoryUpdated = "history_updated"
	EventPong           = "pong"
)

// Event - 웹소켓으로 전달되는 메시지
type Event struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId"`
	ClientID  string         `json:"clientId,omitempty"`
	Channel   string         `json:"channel,omitempty"`
	Counts    map[string]int `json:"counts,omitempty"`
	Total     int            `json:"total"`
}

// Session - 브라우저 세션 하나의 상태 (히스토리 + 연결된 탭)
type Session struct {
	id           string
	history      *history.Log
	clients      map[string]*Client
	mutex        sync.RWMutex
	createdAt    time.Time
	lastActivity time.Time
	now          func() time.Time
}

func newSession(id string, capacity int, now func() time.Time) *Session {
	t := now()
	return &Session{
		id:           id,
		history:      history.New(capacity),
		clients:      make(map[string]*Client),
		createdAt:    t,
		lastActivity: t,
		now:          now,
	}
}

// ID - 세션 ID
func (s *Session) ID() string { return s.id }

// History - 세션 히스토리 (읽기 전용으로 사용)
func (s *Session) History() *history.Log { return s.history }

// touch - 활동 시간 갱신
func (s *Session) touch() {
	s.mutex.Lock()
	s.lastActivity = s.now()
	s.mutex.Unlock()
}

// Record - 히스토리 기록 후 연결된 탭에 history_updated 전송
func (s *Session) Record(channel history.Channel, payload map[string]interface{}) history.Entry {
	entry := s.history.Record(channel, payload)
	s.touch()

	log.Debug().Str("session_id", s.id).Msgf("📝 Recorded %s entry (total: %d)", entry.Channel, s.history.TotalCount())
	s.notifyHistory(string(entry.Channel))
	return entry
}

// Clear - 채널 하나 비우기
func (s *Session) Clear(channel history.Channel) {
	s.history.Clear(channel)
	s.touch()
	s.notifyHistory(string(channel))
}

// ClearAll - 모든 채널 비우기
func (s *Session) ClearAll() {
	s.history.ClearAll()
	s.touch()
	s.notifyHistory("")
}

func (s *Session) notifyHistory(channel string) {
	s.broadcastToAll(Event{
		Type:      EventHistoryUpdated,
		SessionID: s.id,
		Channel:   channel,
		Counts:    s.history.Counts(),
		Total:     s.history.TotalCount(),
	})
}

// ClientCount - 연결된 탭 수
func (s *Session) ClientCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.clients)
}

// Info - 세션 요약
type Info struct {
	SessionID    string         `json:"sessionId"`
	ClientCount  int            `json:"clientCount"`
	Clients      []string       `json:"clients"`
	Counts       map[string]int `json:"counts"`
	Total        int            `json:"total"`
	CreatedAt    time.Time      `json:"createdAt"`
	LastActivity time.Time      `json:"lastActivity"`
	Age          string         `json:"age"`
	Inactive     string         `json:"inactive"`
}

// Info - 세션 정보 스냅샷
func (s *Session) Info() Info {
	s.mutex.RLock()
	clientIDs := make([]string, 0, len(s.clients))
	for id := range s.clients {
		clientIDs = append(clientIDs, id)
	}
	createdAt, lastActivity := s.createdAt, s.lastActivity
	s.mutex.RUnlock()

	now := s.now()
	return Info{
		SessionID:    s.id,
		ClientCount:  len(clientIDs),
		Clients:      clientIDs,
		Counts:       s.history.Counts(),
		Total:        s.history.TotalCount(),
		CreatedAt:    createdAt,
		LastActivity: lastActivity,
		Age:          now.Sub(createdAt).String(),
		Inactive:     now.Sub(lastActivity).String(),
	}
}

// addClient - 클라이언트를 세션에 추가
func (s *Session) addClient(client *Client) int {
	s.mutex.Lock()
	if old, exists := s.clients[client.id]; exists {
		// 같은 client ID로 재접속하면 이전 연결 종료
		close(old.send)
	}
	s.clients[client.id] = client
	s.lastActivity = s.now()
	clientCount := len(s.clients)
	s.mutex.Unlock()

	log.Info().Str("session_id", s.id).Msgf("👤 Client %s joined (Clients: %d)", client.id, clientCount)
	return clientCount
}

// removeClient - 클라이언트를 세션에서 제거
func (s *Session) removeClient(client *Client) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if current, exists := s.clients[client.id]; exists && current == client {
		close(client.send)
		delete(s.clients, client.id)
		s.lastActivity = s.now()

		log.Info().Str("session_id", s.id).Msgf("👋 Client %s left (Remaining: %d)", client.id, len(s.clients))
	}
}

// sendTo - 특정 클라이언트에게만 전송
func (s *Session) sendTo(clientID string, event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling event")
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if client, ok := s.clients[clientID]; ok {
		s.deliver(clientID, client, messageBytes)
	}
}

// broadcastToAll - 모든 클라이언트에게 전송
func (s *Session) broadcastToAll(event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling event")
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	for clientID, client := range s.clients {
		s.deliver(clientID, client, messageBytes)
	}
}

// deliver - 버퍼가 가득 찬 클라이언트는 끊음 (mutex 보유 상태에서 호출)
func (s *Session) deliver(clientID string, client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		log.Warn().Str("session_id", s.id).Msgf("⚠️  Client %s send buffer full, disconnecting", clientID)
		close(client.send)
		delete(s.clients, clientID)
	}
}

// disconnectAll - 만료된 세션의 모든 연결 종료
func (s *Session) disconnectAll() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for clientID, client := range s.clients {
		close(client.send)
		delete(s.clients, clientID)
		log.Info().Msgf("🔌 Disconnecting client %s from expired session %s", clientID, s.id)
	}
}
