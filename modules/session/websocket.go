package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	// 스튜디오 프론트엔드는 별도 도메인에서 접속
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client - 세션에 연결된 브라우저 탭
type Client struct {
	conn *websocket.Conn
	id   string
	send chan []byte
}

// incoming - 클라이언트가 보내는 메시지
type incoming struct {
	Type string `json:"type"`
}

// HandleWebSocket - GET /ws?session=<id>
// client ID는 서버가 발급 (connected 이벤트로 전달)
func (m *Manager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Client{
		conn: conn,
		id:   uuid.NewString(),
		send: make(chan []byte, sendBufferSize),
	}

	session := m.GetOrCreate(sessionID)
	session.addClient(client)
	m.connectionOpened()

	go client.writePump()
	go client.readPump(session)

	// 접속 직후 현재 카운트 전달 (사이드바 초기화)
	session.sendTo(client.id, Event{
		Type:      EventConnected,
		SessionID: sessionID,
		ClientID:  client.id,
		Counts:    session.history.Counts(),
		Total:     session.history.TotalCount(),
	})
}

// readPump - 클라이언트로부터 메시지 읽기
func (c *Client) readPump(session *Session) {
	defer func() {
		session.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var message incoming
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("session_id", session.id).Msg("WebSocket error")
			}
			return
		}

		session.touch()

		switch message.Type {
		case "ping":
			session.sendTo(c.id, Event{Type: EventPong, SessionID: session.id})
		case "sync":
			session.sendTo(c.id, Event{
				Type:      EventHistoryUpdated,
				SessionID: session.id,
				Counts:    session.history.Counts(),
				Total:     session.history.TotalCount(),
			})
		default:
			log.Debug().Str("session_id", session.id).Msgf("Ignoring message type '%s' from %s", message.Type, c.id)
		}
	}
}

// writePump - 클라이언트로 메시지 쓰기
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Msg("WebSocket write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
