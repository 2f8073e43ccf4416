package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// SearchTool exposes course-content semantic search to the model
type SearchTool struct {
	store  interfaces.VectorSearchService
	logger arbor.ILogger
}

// NewSearchTool creates a new course content search tool
func NewSearchTool(store interfaces.VectorSearchService, logger arbor.ILogger) *SearchTool {
	return &SearchTool{
		store:  store,
		logger: logger,
	}
}

// Definition returns the tool schema for the model's function-calling interface
func (t *SearchTool) Definition() interfaces.ToolDefinition {
	return interfaces.ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "What to search for in the course content",
				},
				"course_name": map[string]interface{}{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": map[string]interface{}{
					"type":        "integer",
					"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Execute runs a search with the model-provided arguments and formats the
// results for the model, returning derived source citations alongside.
func (t *SearchTool) Execute(ctx context.Context, args map[string]interface{}) (*interfaces.ToolOutput, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, fmt.Errorf("query parameter is required")
	}

	opts := &interfaces.SearchOptions{}
	if courseName, ok := args["course_name"].(string); ok {
		opts.CourseName = courseName
	}
	// JSON numbers decode as float64
	if lessonNumber, ok := args["lesson_number"].(float64); ok {
		n := int(lessonNumber)
		opts.LessonNumber = &n
	}

	results := t.store.Search(ctx, query, opts)

	// A backend error string is returned verbatim and takes priority over
	// the empty-results message
	if results.Error != "" {
		return &interfaces.ToolOutput{Content: results.Error}, nil
	}

	if results.IsEmpty() {
		return &interfaces.ToolOutput{Content: emptyResultsMessage(opts)}, nil
	}

	return t.formatResults(results), nil
}

// emptyResultsMessage builds the fixed-shape no-match message with any
// active filters appended
func emptyResultsMessage(opts *interfaces.SearchOptions) string {
	msg := "No relevant content found"
	if opts.CourseName != "" {
		msg += fmt.Sprintf(" in course '%s'", opts.CourseName)
	}
	if opts.LessonNumber != nil {
		msg += fmt.Sprintf(" in lesson %d", *opts.LessonNumber)
	}
	return msg + "."
}

// formatResults renders each hit as a labeled block and rebuilds the source
// citation list, one entry per result
func (t *SearchTool) formatResults(results *models.SearchResults) *interfaces.ToolOutput {
	blocks := make([]string, 0, len(results.Documents))
	sources := make([]string, 0, len(results.Documents))

	for i, document := range results.Documents {
		meta := results.Metadata[i]

		header := meta.CourseTitle
		source := meta.CourseTitle
		if meta.LessonNumber != nil {
			header += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
			source += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)

			// Link resolution failures degrade to a linkless citation
			if link := t.store.GetLessonLink(meta.CourseTitle, *meta.LessonNumber); link != "" {
				source += " (" + link + ")"
			}
		}

		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", header, document))
		sources = append(sources, source)
	}

	return &interfaces.ToolOutput{
		Content: strings.Join(blocks, "\n\n"),
		Sources: sources,
	}
}
