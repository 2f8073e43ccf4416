package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// SessionHandler handles session lifecycle HTTP requests
type SessionHandler struct {
	sessions interfaces.SessionService
	logger   arbor.ILogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions interfaces.SessionService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// ClearSessionHandler handles DELETE /api/sessions/{id} requests
func (h *SessionHandler) ClearSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID = strings.TrimSuffix(sessionID, "/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		WriteError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	if err := h.sessions.ClearSession(sessionID); err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to clear session")
		WriteError(w, http.StatusInternalServerError, "Failed to clear session")
		return
	}

	h.logger.Debug().Str("session_id", sessionID).Msg("Session cleared via API")
	WriteSuccess(w, "Session cleared")
}
