package quiz

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core/question"
)

var ErrSessionNotFound = errors.New("practice session not found")

// Manager owns the live practice sessions, keyed by session id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	bank     question.Service
}

func NewManager(bank question.Service) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		bank:     bank,
	}
}

func (m *Manager) Start(studentID int) (*Session, error) {
	sess, err := newSession(uuid.New().String(), studentID, m.bank)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()
	return sess, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[id]; ok {
		return sess, nil
	}
	return nil, ErrSessionNotFound
}

func (m *Manager) End(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
