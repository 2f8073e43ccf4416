package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// mockVectorStore implements interfaces.VectorSearchService for testing
type mockVectorStore struct {
	searchFunc  func(ctx context.Context, query string, opts *interfaces.SearchOptions) *models.SearchResults
	outlineFunc func(ctx context.Context, courseName string) (*models.Course, error)
	lessonLinks map[string]string
}

func (m *mockVectorStore) Search(ctx context.Context, query string, opts *interfaces.SearchOptions) *models.SearchResults {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, opts)
	}
	return &models.SearchResults{}
}

func (m *mockVectorStore) ResolveCourseName(_ context.Context, name string) string {
	return name
}

func (m *mockVectorStore) GetLessonLink(courseTitle string, lessonNumber int) string {
	if m.lessonLinks == nil {
		return ""
	}
	return m.lessonLinks[courseTitle]
}

func (m *mockVectorStore) GetCourseOutline(ctx context.Context, courseName string) (*models.Course, error) {
	if m.outlineFunc != nil {
		return m.outlineFunc(ctx, courseName)
	}
	return nil, errors.New("no course")
}

func intPtr(n int) *int { return &n }

func TestSearchTool_RequiresQuery(t *testing.T) {
	tool := NewSearchTool(&mockVectorStore{}, common.GetLogger())

	_, err := tool.Execute(context.Background(), map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query parameter is required")

	_, err = tool.Execute(context.Background(), map[string]interface{}{"query": ""})
	require.Error(t, err)
}

func TestSearchTool_PassesFiltersToStore(t *testing.T) {
	var captured *interfaces.SearchOptions
	store := &mockVectorStore{
		searchFunc: func(_ context.Context, _ string, opts *interfaces.SearchOptions) *models.SearchResults {
			captured = opts
			return &models.SearchResults{}
		},
	}
	tool := NewSearchTool(store, common.GetLogger())

	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"query":         "variables",
		"course_name":   "MCP",
		"lesson_number": float64(3),
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "MCP", captured.CourseName)
	require.NotNil(t, captured.LessonNumber)
	assert.Equal(t, 3, *captured.LessonNumber)
}

func TestSearchTool_ErrorStringReturnedVerbatim(t *testing.T) {
	store := &mockVectorStore{
		searchFunc: func(context.Context, string, *interfaces.SearchOptions) *models.SearchResults {
			return models.NewErrorResults("No course found matching 'Quantum'")
		},
	}
	tool := NewSearchTool(store, common.GetLogger())

	output, err := tool.Execute(context.Background(), map[string]interface{}{"query": "q", "course_name": "Quantum"})
	require.NoError(t, err)
	assert.Equal(t, "No course found matching 'Quantum'", output.Content)
	assert.Empty(t, output.Sources)
}

func TestSearchTool_EmptyResultsMessageReflectsFilters(t *testing.T) {
	store := &mockVectorStore{
		searchFunc: func(context.Context, string, *interfaces.SearchOptions) *models.SearchResults {
			return &models.SearchResults{}
		},
	}
	tool := NewSearchTool(store, common.GetLogger())

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "no filters",
			args: map[string]interface{}{"query": "q"},
			want: "No relevant content found.",
		},
		{
			name: "course filter",
			args: map[string]interface{}{"query": "q", "course_name": "Go Basics"},
			want: "No relevant content found in course 'Go Basics'.",
		},
		{
			name: "course and lesson filters",
			args: map[string]interface{}{"query": "q", "course_name": "Go Basics", "lesson_number": float64(2)},
			want: "No relevant content found in course 'Go Basics' in lesson 2.",
		},
		{
			name: "lesson filter only",
			args: map[string]interface{}{"query": "q", "lesson_number": float64(7)},
			want: "No relevant content found in lesson 7.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := tool.Execute(context.Background(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, output.Content)
		})
	}
}

func TestSearchTool_FormatsResultsAndSources(t *testing.T) {
	store := &mockVectorStore{
		searchFunc: func(context.Context, string, *interfaces.SearchOptions) *models.SearchResults {
			return &models.SearchResults{
				Documents: []string{"struct content", "interface content"},
				Metadata: []models.ChunkMetadata{
					{CourseTitle: "Go Basics", LessonNumber: intPtr(4)},
					{CourseTitle: "Go Basics", LessonNumber: intPtr(5)},
				},
				Distances: []float64{0.1, 0.2},
			}
		},
		lessonLinks: map[string]string{"Go Basics": "https://example.com/lesson"},
	}
	tool := NewSearchTool(store, common.GetLogger())

	output, err := tool.Execute(context.Background(), map[string]interface{}{"query": "structs"})
	require.NoError(t, err)

	assert.Equal(t,
		"[Go Basics - Lesson 4]\nstruct content\n\n[Go Basics - Lesson 5]\ninterface content",
		output.Content)
	assert.Equal(t, []string{
		"Go Basics - Lesson 4 (https://example.com/lesson)",
		"Go Basics - Lesson 5 (https://example.com/lesson)",
	}, output.Sources)
}

func TestSearchTool_MissingLessonLinkDegradesGracefully(t *testing.T) {
	store := &mockVectorStore{
		searchFunc: func(context.Context, string, *interfaces.SearchOptions) *models.SearchResults {
			return &models.SearchResults{
				Documents: []string{"content"},
				Metadata:  []models.ChunkMetadata{{CourseTitle: "Go Basics", LessonNumber: intPtr(1)}},
				Distances: []float64{0.1},
			}
		},
	}
	tool := NewSearchTool(store, common.GetLogger())

	output, err := tool.Execute(context.Background(), map[string]interface{}{"query": "q"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Basics - Lesson 1"}, output.Sources)
}

func TestSearchTool_ChunkWithoutLessonNumber(t *testing.T) {
	store := &mockVectorStore{
		searchFunc: func(context.Context, string, *interfaces.SearchOptions) *models.SearchResults {
			return &models.SearchResults{
				Documents: []string{"intro content"},
				Metadata:  []models.ChunkMetadata{{CourseTitle: "Go Basics"}},
				Distances: []float64{0.1},
			}
		},
	}
	tool := NewSearchTool(store, common.GetLogger())

	output, err := tool.Execute(context.Background(), map[string]interface{}{"query": "q"})
	require.NoError(t, err)
	assert.Equal(t, "[Go Basics]\nintro content", output.Content)
	assert.Equal(t, []string{"Go Basics"}, output.Sources)
}

func TestOutlineTool_RendersCourseOutline(t *testing.T) {
	store := &mockVectorStore{
		outlineFunc: func(context.Context, string) (*models.Course, error) {
			return &models.Course{
				Title:      "Go Basics",
				CourseLink: "https://example.com/go",
				Instructor: "Rob",
				Lessons: []models.Lesson{
					{LessonNumber: 0, Title: "Introduction"},
					{LessonNumber: 1, Title: "Types"},
				},
			}, nil
		},
	}
	tool := NewOutlineTool(store, common.GetLogger())

	output, err := tool.Execute(context.Background(), map[string]interface{}{"course_name": "go"})
	require.NoError(t, err)

	assert.Contains(t, output.Content, "Course: Go Basics")
	assert.Contains(t, output.Content, "Link: https://example.com/go")
	assert.Contains(t, output.Content, "Instructor: Rob")
	assert.Contains(t, output.Content, "Lessons (2):")
	assert.Contains(t, output.Content, "0. Introduction")
	assert.Contains(t, output.Content, "1. Types")
	assert.Equal(t, []string{"Go Basics (https://example.com/go)"}, output.Sources)
}

func TestOutlineTool_UnknownCourseIsInformational(t *testing.T) {
	tool := NewOutlineTool(&mockVectorStore{}, common.GetLogger())

	output, err := tool.Execute(context.Background(), map[string]interface{}{"course_name": "Nope"})
	require.NoError(t, err)
	assert.Equal(t, "No course found matching 'Nope'", output.Content)
	assert.Empty(t, output.Sources)
}

func TestOutlineTool_RequiresCourseName(t *testing.T) {
	tool := NewOutlineTool(&mockVectorStore{}, common.GetLogger())

	_, err := tool.Execute(context.Background(), map[string]interface{}{})
	require.Error(t, err)
}
