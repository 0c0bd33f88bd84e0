package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"image-studio-server/modules/history"
)

// ErrSessionNotFound - 존재하지 않는 세션
var ErrSessionNotFound = errors.New("session not found")

// Metrics - 서버 메트릭
type Metrics struct {
	TotalSessions    int       `json:"totalSessions"`
	ActiveSessions   int       `json:"activeSessions"`
	TotalConnections int       `json:"totalConnections"`
	StartTime        time.Time `json:"startTime"`
}

// Manager - 세션 ID별 상태 관리
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex

	metrics      Metrics
	metricsMutex sync.RWMutex

	historyCapacity int
	inactiveTTL     time.Duration
	maxAge          time.Duration
	now             func() time.Time
}

// NewManager - 세션 매니저 생성
func NewManager(historyCapacity int, inactiveTTL, maxAge time.Duration) *Manager {
	if historyCapacity <= 0 {
		historyCapacity = history.DefaultCapacity
	}
	return &Manager{
		sessions:        make(map[string]*Session),
		metrics:         Metrics{StartTime: time.Now()},
		historyCapacity: historyCapacity,
		inactiveTTL:     inactiveTTL,
		maxAge:          maxAge,
		now:             time.Now,
	}
}

// GetOrCreate - 세션 가져오기 또는 생성
func (m *Manager) GetOrCreate(sessionID string) *Session {
	m.mutex.Lock()
	session, exists := m.sessions[sessionID]
	if !exists {
		session = newSession(sessionID, m.historyCapacity, m.now)
		m.sessions[sessionID] = session
	}
	m.mutex.Unlock()

	if !exists {
		m.metricsMutex.Lock()
		m.metrics.TotalSessions++
		m.metrics.ActiveSessions++
		total, active := m.metrics.TotalSessions, m.metrics.ActiveSessions
		m.metricsMutex.Unlock()

		log.Info().Msgf("✅ Created new session: %s (Total: %d, Active: %d)", sessionID, total, active)
		return session
	}

	session.touch()
	return session
}

// Get - 기존 세션 조회
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Metrics - 메트릭 스냅샷
func (m *Manager) Metrics() Metrics {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	return m.metrics
}

// Sessions - 모든 세션 정보
func (m *Manager) Sessions() []Info {
	m.mutex.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mutex.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	return infos
}

func (m *Manager) connectionOpened() {
	m.metricsMutex.Lock()
	m.metrics.TotalConnections++
	m.metricsMutex.Unlock()
}

// CleanupExpired - 최대 수명 초과 또는 연결 없이 비활성 TTL 초과 세션 정리
func (m *Manager) CleanupExpired() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	cleaned := 0
	for sessionID, session := range m.sessions {
		session.mutex.RLock()
		age := now.Sub(session.createdAt)
		idle := now.Sub(session.lastActivity)
		isExpired := m.maxAge > 0 && age > m.maxAge
		isInactive := m.inactiveTTL > 0 && idle > m.inactiveTTL && len(session.clients) == 0
		session.mutex.RUnlock()

		if !isExpired && !isInactive {
			continue
		}

		session.disconnectAll()
		delete(m.sessions, sessionID)
		cleaned++

		reason := "expired"
		if !isExpired {
			reason = "inactive"
		}
		log.Info().Msgf("⏰ Cleaned up %s session: %s (Age: %v, Inactive: %v)", reason, sessionID, age, idle)
	}

	if cleaned > 0 {
		m.metricsMutex.Lock()
		m.metrics.ActiveSessions -= cleaned
		active := m.metrics.ActiveSessions
		m.metricsMutex.Unlock()

		log.Info().Msgf("🧼 Cleaned up %d expired/inactive sessions (Active: %d)", cleaned, active)
	}
	return cleaned
}

// StartCleanupRoutine - 주기적으로 만료 세션 정리 (ctx 종료 시 중단)
func (m *Manager) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.CleanupExpired()
			}
		}
	}()

	log.Info().Msgf("🔄 Started session cleanup routine (every %s)", interval)
}
