package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// SearchOptions narrows a content search to a course and/or lesson.
// CourseName may be a partial title; resolution happens inside the store.
type SearchOptions struct {
	CourseName   string
	LessonNumber *int
	Limit        int
}

// VectorSearchService performs semantic search over ingested course chunks.
//
// Failures are reported inside the result set (SearchResults.Error) rather
// than as a Go error so the tool boundary can pass them to the model as text.
type VectorSearchService interface {
	// Search embeds the query and returns the closest chunks under the
	// given filters
	Search(ctx context.Context, query string, opts *SearchOptions) *models.SearchResults

	// ResolveCourseName maps a partial course name to an exact catalog
	// title; returns "" when nothing matches
	ResolveCourseName(ctx context.Context, name string) string

	// GetLessonLink returns the link for a course lesson, or "" when the
	// course or lesson is unknown
	GetLessonLink(courseTitle string, lessonNumber int) string

	// GetCourseOutline returns the full catalog entry for a course
	GetCourseOutline(ctx context.Context, courseName string) (*models.Course, error)
}
