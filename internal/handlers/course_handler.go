package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// CourseStatsResponse is the GET /api/courses response body
type CourseStatsResponse struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	courses interfaces.CourseStorage
	logger  arbor.ILogger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses interfaces.CourseStorage, logger arbor.ILogger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		logger:  logger,
	}
}

// StatsHandler handles GET /api/courses requests
func (h *CourseHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	titles, err := h.courses.ListCourseTitles()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list course titles")
		WriteError(w, http.StatusInternalServerError, "Failed to load course catalog")
		return
	}
	if titles == nil {
		titles = []string{}
	}

	WriteJSON(w, http.StatusOK, CourseStatsResponse{
		TotalCourses: len(titles),
		CourseTitles: titles,
	})
}
