package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// CourseStorage persists the course catalog
type CourseStorage interface {
	// SaveCourse inserts or updates a catalog entry keyed by title
	SaveCourse(course *models.Course) error

	// GetCourse fetches one catalog entry by exact title
	GetCourse(title string) (*models.Course, error)

	// ListCourseTitles returns all catalog titles
	ListCourseTitles() ([]string, error)

	// CountCourses returns the catalog size
	CountCourses() (int, error)

	// CourseExists reports whether a title is already in the catalog
	CourseExists(title string) (bool, error)
}

// ChunkStorage persists embeddable course content chunks
type ChunkStorage interface {
	// SaveChunks stores a batch of chunks
	SaveChunks(chunks []*models.CourseChunk) error

	// GetChunksByCourse returns all chunks for one course title
	GetChunksByCourse(courseTitle string) ([]*models.CourseChunk, error)

	// ListChunks returns every stored chunk
	ListChunks() ([]*models.CourseChunk, error)

	// DeleteChunksByCourse removes all chunks for one course title
	DeleteChunksByCourse(courseTitle string) error

	// CountChunks returns the number of stored chunks
	CountChunks() (int, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	CourseStorage() CourseStorage
	ChunkStorage() ChunkStorage

	// Close closes the underlying database
	Close() error
}

// SessionService holds bounded conversational history per session id.
// History lives for the process lifetime only.
type SessionService interface {
	// CreateSession generates a new opaque session id
	CreateSession() string

	// AddExchange appends one question/answer pair to a session,
	// dropping the oldest pairs beyond the configured window
	AddExchange(sessionID, question, answer string) error

	// HistoryText renders the remaining pairs as alternating
	// "User:"/"Assistant:" lines; "" for new or unknown sessions
	HistoryText(sessionID string) string

	// ClearSession empties a session's history but keeps the id valid
	ClearSession(sessionID string) error
}

// AnswerResult is what one Ask call produces
type AnswerResult struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	SessionID string   `json:"session_id"`
}

// AnswerService composes session history, the tool registry and the
// response generator into a single question-answering call
type AnswerService interface {
	// Ask answers a question, using and updating the given session's
	// history. An empty sessionID creates a new session.
	Ask(ctx context.Context, question, sessionID string) (*AnswerResult, error)
}
