package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// OutlineTool exposes the course catalog to the model: title, link and the
// numbered lesson list of one course.
type OutlineTool struct {
	store  interfaces.VectorSearchService
	logger arbor.ILogger
}

// NewOutlineTool creates a new course outline tool
func NewOutlineTool(store interfaces.VectorSearchService, logger arbor.ILogger) *OutlineTool {
	return &OutlineTool{
		store:  store,
		logger: logger,
	}
}

// Definition returns the tool schema for the model's function-calling interface
func (t *OutlineTool) Definition() interfaces.ToolDefinition {
	return interfaces.ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get the outline of a course: its title, link, and the full list of lessons",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"course_name": map[string]interface{}{
					"type":        "string",
					"description": "Course title (partial matches work)",
				},
			},
			"required": []string{"course_name"},
		},
	}
}

// Execute looks up the requested course and renders its outline
func (t *OutlineTool) Execute(ctx context.Context, args map[string]interface{}) (*interfaces.ToolOutput, error) {
	courseName, ok := args["course_name"].(string)
	if !ok || courseName == "" {
		return nil, fmt.Errorf("course_name parameter is required")
	}

	course, err := t.store.GetCourseOutline(ctx, courseName)
	if err != nil {
		// Unknown course is a normal informational result, not a failure
		return &interfaces.ToolOutput{
			Content: fmt.Sprintf("No course found matching '%s'", courseName),
		}, nil
	}

	var sb strings.Builder
	sb.WriteString("Course: " + course.Title + "\n")
	if course.CourseLink != "" {
		sb.WriteString("Link: " + course.CourseLink + "\n")
	}
	if course.Instructor != "" {
		sb.WriteString("Instructor: " + course.Instructor + "\n")
	}
	sb.WriteString(fmt.Sprintf("Lessons (%d):\n", len(course.Lessons)))
	for _, lesson := range course.Lessons {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", lesson.LessonNumber, lesson.Title))
	}

	source := course.Title
	if course.CourseLink != "" {
		source += " (" + course.CourseLink + ")"
	}

	return &interfaces.ToolOutput{
		Content: sb.String(),
		Sources: []string{source},
	}, nil
}
