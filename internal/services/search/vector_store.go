package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// VectorStore implements semantic search over ingested course chunks.
// Query and chunk vectors come from the embedding service; ranking is by
// cosine distance computed in memory over the candidate set.
type VectorStore struct {
	chunks     interfaces.ChunkStorage
	courses    interfaces.CourseStorage
	embedder   interfaces.EmbeddingService
	maxResults int
	logger     arbor.ILogger
}

// NewVectorStore creates a new vector store service
func NewVectorStore(
	chunks interfaces.ChunkStorage,
	courses interfaces.CourseStorage,
	embedder interfaces.EmbeddingService,
	maxResults int,
	logger arbor.ILogger,
) *VectorStore {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &VectorStore{
		chunks:     chunks,
		courses:    courses,
		embedder:   embedder,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Search embeds the query and returns the closest chunks under the given
// filters. Failures surface in SearchResults.Error so the tool boundary can
// hand them to the model as text.
func (s *VectorStore) Search(ctx context.Context, query string, opts *interfaces.SearchOptions) *models.SearchResults {
	if opts == nil {
		opts = &interfaces.SearchOptions{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	// Resolve the course filter first so an unmatched filter is reported as
	// a distinct condition rather than as zero matches
	courseTitle := ""
	if opts.CourseName != "" {
		courseTitle = s.ResolveCourseName(ctx, opts.CourseName)
		if courseTitle == "" {
			return models.NewErrorResults(fmt.Sprintf("No course found matching '%s'", opts.CourseName))
		}
	}

	queryVector, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Query embedding failed")
		return models.NewErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	candidates, err := s.loadCandidates(courseTitle, opts.LessonNumber)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load chunk candidates")
		return models.NewErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	ranked := rankByDistance(candidates, queryVector)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := &models.SearchResults{
		Documents: make([]string, 0, len(ranked)),
		Metadata:  make([]models.ChunkMetadata, 0, len(ranked)),
		Distances: make([]float64, 0, len(ranked)),
	}
	for _, hit := range ranked {
		results.Documents = append(results.Documents, hit.chunk.Content)
		results.Metadata = append(results.Metadata, models.ChunkMetadata{
			CourseTitle:  hit.chunk.CourseTitle,
			LessonNumber: hit.chunk.LessonNumber,
			ChunkIndex:   hit.chunk.ChunkIndex,
		})
		results.Distances = append(results.Distances, hit.distance)
	}

	s.logger.Debug().
		Str("query", query).
		Str("course", courseTitle).
		Int("candidates", len(candidates)).
		Int("results", len(results.Documents)).
		Msg("Vector search completed")

	return results
}

// loadCandidates fetches chunks matching the course/lesson filters
func (s *VectorStore) loadCandidates(courseTitle string, lessonNumber *int) ([]*models.CourseChunk, error) {
	var chunks []*models.CourseChunk
	var err error

	if courseTitle != "" {
		chunks, err = s.chunks.GetChunksByCourse(courseTitle)
	} else {
		chunks, err = s.chunks.ListChunks()
	}
	if err != nil {
		return nil, err
	}

	if lessonNumber == nil {
		return chunks, nil
	}

	filtered := make([]*models.CourseChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.LessonNumber != nil && *chunk.LessonNumber == *lessonNumber {
			filtered = append(filtered, chunk)
		}
	}
	return filtered, nil
}

type scoredChunk struct {
	chunk    *models.CourseChunk
	distance float64
}

// rankByDistance orders candidates by cosine distance to the query vector,
// closest first. Chunks without embeddings are skipped.
func rankByDistance(chunks []*models.CourseChunk, queryVector []float32) []scoredChunk {
	ranked := make([]scoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(queryVector) || len(chunk.Embedding) == 0 {
			continue
		}
		ranked = append(ranked, scoredChunk{
			chunk:    chunk,
			distance: cosineDistance(queryVector, chunk.Embedding),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})
	return ranked
}

// cosineDistance returns 1 - cosine similarity of two equal-length vectors
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// ResolveCourseName maps a partial course name to an exact catalog title
// using case-insensitive matching. Exact matches win over substring matches;
// "" means nothing matched.
func (s *VectorStore) ResolveCourseName(ctx context.Context, name string) string {
	titles, err := s.courses.ListCourseTitles()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to list course titles for name resolution")
		return ""
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return ""
	}

	substringMatch := ""
	for _, title := range titles {
		lowered := strings.ToLower(title)
		if lowered == needle {
			return title
		}
		if substringMatch == "" && strings.Contains(lowered, needle) {
			substringMatch = title
		}
	}
	return substringMatch
}

// GetLessonLink returns the link for a course lesson, or "" when the course
// or lesson is unknown
func (s *VectorStore) GetLessonLink(courseTitle string, lessonNumber int) string {
	course, err := s.courses.GetCourse(courseTitle)
	if err != nil {
		return ""
	}
	lesson := course.GetLesson(lessonNumber)
	if lesson == nil {
		return ""
	}
	return lesson.LessonLink
}

// GetCourseOutline returns the full catalog entry for a course, resolving
// partial names first
func (s *VectorStore) GetCourseOutline(ctx context.Context, courseName string) (*models.Course, error) {
	title := s.ResolveCourseName(ctx, courseName)
	if title == "" {
		return nil, fmt.Errorf("no course found matching '%s'", courseName)
	}
	return s.courses.GetCourse(title)
}
