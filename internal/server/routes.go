package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Question answering
	mux.HandleFunc("/api/query", s.app.QueryHandler.QueryHandler) // POST - answer a question

	// API routes - Course catalog
	mux.HandleFunc("/api/courses", s.app.CourseHandler.StatsHandler) // GET - catalog stats

	// API routes - Sessions
	mux.HandleFunc("/api/sessions/", s.app.SessionHandler.ClearSessionHandler) // DELETE /{id}

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
