package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"tableside/internal/logger"
	"tableside/internal/models"
)

// ErrNoSession is returned when a session ID is unknown or logged out
var ErrNoSession = errors.New("no active session")

// Session is the current-login context the rest of the system trusts
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Manager issues and revokes sessions. Any well-formed credentials are
// accepted; there is no credential store behind this.
type Manager struct {
	logger *logger.Logger

	mu       sync.RWMutex
	sessions map[string]Session
}

// NewManager creates a session manager
func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		logger:   log,
		sessions: make(map[string]Session),
	}
}

// Login validates the form shape and issues a session
func (m *Manager) Login(req *models.LoginRequest, requestID string) (Session, error) {
	if err := req.Validate(); err != nil {
		return Session{}, err
	}

	session := Session{
		ID:    uuid.NewString(),
		Email: req.Email,
		Name:  "Test User",
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("login", "Session issued", requestID, map[string]interface{}{
		"email": req.Email,
	})
	return session, nil
}

// Signup validates the sign-up form and then behaves as a login
func (m *Manager) Signup(req *models.SignupRequest, requestID string) (Session, error) {
	if err := req.Validate(); err != nil {
		return Session{}, err
	}

	session := Session{
		ID:    uuid.NewString(),
		Email: req.Email,
		Name:  req.Name,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("signup", "Account created and session issued", requestID, map[string]interface{}{
		"email": req.Email,
	})
	return session, nil
}

// Logout revokes a session. Revoking an unknown session is a no-op.
func (m *Manager) Logout(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Current returns the session for the given ID
func (m *Manager) Current(sessionID string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, ErrNoSession
	}
	return session, nil
}
