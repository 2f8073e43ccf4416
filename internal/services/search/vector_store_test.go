package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// fakeEmbedder returns a fixed vector per keyword so distances are predictable
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) GetDimension() int { return 3 }
func (f *fakeEmbedder) Close() error      { return nil }

// memChunkStorage is an in-memory ChunkStorage
type memChunkStorage struct {
	chunks  []*models.CourseChunk
	listErr error
}

func (m *memChunkStorage) SaveChunks(chunks []*models.CourseChunk) error {
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *memChunkStorage) GetChunksByCourse(courseTitle string) ([]*models.CourseChunk, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.CourseChunk
	for _, c := range m.chunks {
		if c.CourseTitle == courseTitle {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memChunkStorage) ListChunks() ([]*models.CourseChunk, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.chunks, nil
}

func (m *memChunkStorage) DeleteChunksByCourse(courseTitle string) error {
	var kept []*models.CourseChunk
	for _, c := range m.chunks {
		if c.CourseTitle != courseTitle {
			kept = append(kept, c)
		}
	}
	m.chunks = kept
	return nil
}

func (m *memChunkStorage) CountChunks() (int, error) { return len(m.chunks), nil }

// memCourseStorage is an in-memory CourseStorage
type memCourseStorage struct {
	courses []*models.Course
}

func (m *memCourseStorage) SaveCourse(course *models.Course) error {
	m.courses = append(m.courses, course)
	return nil
}

func (m *memCourseStorage) GetCourse(title string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.Title == title {
			return c, nil
		}
	}
	return nil, fmt.Errorf("course not found: %s", title)
}

func (m *memCourseStorage) ListCourseTitles() ([]string, error) {
	titles := make([]string, 0, len(m.courses))
	for _, c := range m.courses {
		titles = append(titles, c.Title)
	}
	return titles, nil
}

func (m *memCourseStorage) CountCourses() (int, error) { return len(m.courses), nil }

func (m *memCourseStorage) CourseExists(title string) (bool, error) {
	for _, c := range m.courses {
		if c.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func intPtr(n int) *int { return &n }

func chunk(course string, lesson *int, content string, embedding []float32) *models.CourseChunk {
	return &models.CourseChunk{
		ID:           "chunk_" + content,
		Content:      content,
		CourseTitle:  course,
		LessonNumber: lesson,
		Embedding:    embedding,
	}
}

func newTestStore(chunks *memChunkStorage, courses *memCourseStorage, embedder interfaces.EmbeddingService) *VectorStore {
	return NewVectorStore(chunks, courses, embedder, 5, common.GetLogger())
}

func TestSearch_RanksByCosineDistance(t *testing.T) {
	chunks := &memChunkStorage{chunks: []*models.CourseChunk{
		chunk("Go Basics", intPtr(1), "far", []float32{0, 1, 0}),
		chunk("Go Basics", intPtr(2), "near", []float32{1, 0.1, 0}),
		chunk("Go Basics", intPtr(3), "exact", []float32{1, 0, 0}),
	}}
	store := newTestStore(chunks, &memCourseStorage{}, &fakeEmbedder{})

	results := store.Search(context.Background(), "query", nil)

	require.Empty(t, results.Error)
	require.Equal(t, []string{"exact", "near", "far"}, results.Documents)
	assert.Len(t, results.Metadata, 3)
	assert.Len(t, results.Distances, 3)
	assert.Less(t, results.Distances[0], results.Distances[1])
}

func TestSearch_LimitTruncatesResults(t *testing.T) {
	chunks := &memChunkStorage{}
	for i := 0; i < 10; i++ {
		chunks.chunks = append(chunks.chunks, chunk("Go Basics", intPtr(i), fmt.Sprintf("doc%d", i), []float32{1, 0, 0}))
	}
	store := NewVectorStore(chunks, &memCourseStorage{}, &fakeEmbedder{}, 3, common.GetLogger())

	results := store.Search(context.Background(), "query", nil)
	assert.Len(t, results.Documents, 3)

	results = store.Search(context.Background(), "query", &interfaces.SearchOptions{Limit: 7})
	assert.Len(t, results.Documents, 7)
}

func TestSearch_UnmatchedCourseFilterIsError(t *testing.T) {
	courses := &memCourseStorage{courses: []*models.Course{{Title: "Go Basics"}}}
	store := newTestStore(&memChunkStorage{}, courses, &fakeEmbedder{})

	results := store.Search(context.Background(), "query", &interfaces.SearchOptions{CourseName: "Quantum"})

	assert.Equal(t, "No course found matching 'Quantum'", results.Error)
	assert.True(t, results.IsEmpty())
}

func TestSearch_EmbeddingFailureIsSearchError(t *testing.T) {
	store := newTestStore(&memChunkStorage{}, &memCourseStorage{}, &fakeEmbedder{err: errors.New("quota exceeded")})

	results := store.Search(context.Background(), "query", nil)

	assert.Equal(t, "Search error: quota exceeded", results.Error)
	assert.True(t, results.IsEmpty())
}

func TestSearch_StorageFailureIsSearchError(t *testing.T) {
	store := newTestStore(&memChunkStorage{listErr: errors.New("db closed")}, &memCourseStorage{}, &fakeEmbedder{})

	results := store.Search(context.Background(), "query", nil)
	assert.Equal(t, "Search error: db closed", results.Error)
}

func TestSearch_CourseAndLessonFilters(t *testing.T) {
	chunks := &memChunkStorage{chunks: []*models.CourseChunk{
		chunk("Go Basics", intPtr(1), "basics l1", []float32{1, 0, 0}),
		chunk("Go Basics", intPtr(2), "basics l2", []float32{1, 0, 0}),
		chunk("Advanced Go", intPtr(1), "advanced l1", []float32{1, 0, 0}),
	}}
	courses := &memCourseStorage{courses: []*models.Course{{Title: "Go Basics"}, {Title: "Advanced Go"}}}
	store := newTestStore(chunks, courses, &fakeEmbedder{})

	results := store.Search(context.Background(), "query", &interfaces.SearchOptions{CourseName: "basics"})
	assert.ElementsMatch(t, []string{"basics l1", "basics l2"}, results.Documents)

	results = store.Search(context.Background(), "query", &interfaces.SearchOptions{
		CourseName:   "basics",
		LessonNumber: intPtr(2),
	})
	assert.Equal(t, []string{"basics l2"}, results.Documents)
}

func TestSearch_NoMatchesIsEmptyNotError(t *testing.T) {
	store := newTestStore(&memChunkStorage{}, &memCourseStorage{}, &fakeEmbedder{})

	results := store.Search(context.Background(), "query", nil)
	assert.Empty(t, results.Error)
	assert.True(t, results.IsEmpty())
}

func TestSearch_SkipsChunksWithMismatchedEmbeddings(t *testing.T) {
	chunks := &memChunkStorage{chunks: []*models.CourseChunk{
		chunk("Go Basics", intPtr(1), "good", []float32{1, 0, 0}),
		chunk("Go Basics", intPtr(2), "wrong dim", []float32{1, 0}),
		chunk("Go Basics", intPtr(3), "no embedding", nil),
	}}
	store := newTestStore(chunks, &memCourseStorage{}, &fakeEmbedder{})

	results := store.Search(context.Background(), "query", nil)
	assert.Equal(t, []string{"good"}, results.Documents)
}

func TestResolveCourseName(t *testing.T) {
	courses := &memCourseStorage{courses: []*models.Course{
		{Title: "Introduction to Go"},
		{Title: "Go"},
		{Title: "MCP: Build Rich-Context AI Apps"},
	}}
	store := newTestStore(&memChunkStorage{}, courses, &fakeEmbedder{})
	ctx := context.Background()

	// Exact match wins over a substring match even when listed later
	assert.Equal(t, "Go", store.ResolveCourseName(ctx, "go"))
	assert.Equal(t, "MCP: Build Rich-Context AI Apps", store.ResolveCourseName(ctx, "mcp"))
	assert.Equal(t, "Introduction to Go", store.ResolveCourseName(ctx, "introduction"))
	assert.Equal(t, "", store.ResolveCourseName(ctx, "rust"))
	assert.Equal(t, "", store.ResolveCourseName(ctx, "  "))
}

func TestGetLessonLink(t *testing.T) {
	courses := &memCourseStorage{courses: []*models.Course{{
		Title: "Go Basics",
		Lessons: []models.Lesson{
			{LessonNumber: 1, Title: "Intro", LessonLink: "https://example.com/1"},
			{LessonNumber: 2, Title: "Types"},
		},
	}}}
	store := newTestStore(&memChunkStorage{}, courses, &fakeEmbedder{})

	assert.Equal(t, "https://example.com/1", store.GetLessonLink("Go Basics", 1))
	assert.Equal(t, "", store.GetLessonLink("Go Basics", 2))
	assert.Equal(t, "", store.GetLessonLink("Go Basics", 99))
	assert.Equal(t, "", store.GetLessonLink("Unknown", 1))
}

func TestGetCourseOutline_ResolvesPartialNames(t *testing.T) {
	courses := &memCourseStorage{courses: []*models.Course{{
		Title:   "Go Basics",
		Lessons: []models.Lesson{{LessonNumber: 0, Title: "Welcome"}},
	}}}
	store := newTestStore(&memChunkStorage{}, courses, &fakeEmbedder{})

	course, err := store.GetCourseOutline(context.Background(), "basics")
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", course.Title)

	_, err = store.GetCourseOutline(context.Background(), "unknown")
	assert.Error(t, err)
}
