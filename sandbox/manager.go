package sandbox

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/internal/logfields"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager keeps the open sessions in memory.
type Manager struct {
	scope  IdentityScope
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(scope IdentityScope, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		scope:    scope,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Create() *Session {
	s := NewSession(uuid.NewString(), m.scope, m.logger)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.logger.Info("session created", logfields.WithSessionID(s.ID()))

	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	s.close()

	m.logger.Info("session deleted", logfields.WithSessionID(id))

	return nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
