package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// Service implements the SessionService interface with an in-memory ledger.
// Sessions live for the process lifetime; persistence across restarts is an
// explicit non-goal.
//
// Map access is mutex-guarded, so concurrent calls on distinct sessions are
// safe. Concurrent calls on the same session id can interleave appends; that
// path is a documented limitation, not a supported one.
type Service struct {
	mu         sync.Mutex
	sessions   map[string]*models.Session
	maxHistory int
	logger     arbor.ILogger
}

// NewService creates a session ledger keeping at most maxHistory
// question/answer pairs per session
func NewService(maxHistory int, logger arbor.ILogger) *Service {
	if maxHistory <= 0 {
		maxHistory = 2
	}
	return &Service{
		sessions:   make(map[string]*models.Session),
		maxHistory: maxHistory,
		logger:     logger,
	}
}

var _ interfaces.SessionService = (*Service)(nil)

// CreateSession generates a new opaque session id with an empty exchange list
func (s *Service) CreateSession() string {
	id := common.NewSessionID()

	s.mu.Lock()
	s.sessions[id] = &models.Session{
		ID:        id,
		Exchanges: []models.Exchange{},
		CreatedAt: time.Now(),
	}
	s.mu.Unlock()

	s.logger.Debug().Str("session_id", id).Msg("Session created")
	return id
}

// AddExchange appends one question/answer pair, trimming to the most recent
// maxHistory pairs. The oldest pairs are dropped, never mutated. An unknown
// session id is initialized lazily so a caller-supplied id survives a
// process restart without erroring.
func (s *Service) AddExchange(sessionID, question, answer string) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getOrCreateLocked(sessionID)

	session.Exchanges = append(session.Exchanges, models.Exchange{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	})

	if len(session.Exchanges) > s.maxHistory {
		session.Exchanges = session.Exchanges[len(session.Exchanges)-s.maxHistory:]
	}

	return nil
}

// HistoryText renders the remaining pairs as alternating "User:"/"Assistant:"
// lines in chronological order; "" for new or unknown sessions
func (s *Service) HistoryText(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists || len(session.Exchanges) == 0 {
		return ""
	}

	lines := make([]string, 0, len(session.Exchanges)*2)
	for _, exchange := range session.Exchanges {
		lines = append(lines, "User: "+exchange.Question)
		lines = append(lines, "Assistant: "+exchange.Answer)
	}
	return strings.Join(lines, "\n")
}

// ClearSession empties a session's history but keeps the id valid for
// future appends. Clearing an unknown id initializes it empty.
func (s *Service) ClearSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.getOrCreateLocked(sessionID)
	session.Exchanges = []models.Exchange{}

	s.logger.Debug().Str("session_id", sessionID).Msg("Session history cleared")
	return nil
}

// getOrCreateLocked returns the session for id, creating it when absent.
// Caller must hold s.mu.
func (s *Service) getOrCreateLocked(sessionID string) *models.Session {
	session, exists := s.sessions[sessionID]
	if !exists {
		session = &models.Session{
			ID:        sessionID,
			Exchanges: []models.Exchange{},
			CreatedAt: time.Now(),
		}
		s.sessions[sessionID] = session
	}
	return session
}
