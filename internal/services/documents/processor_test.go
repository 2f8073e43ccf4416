package documents

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = `Course Title: Go Basics
Course Link: https://example.com/go-basics
Course Instructor: Rob

Lesson 0: Introduction
Lesson Link: https://example.com/go-basics/lesson-0
Welcome to the course. This lesson introduces the language.

Lesson 1: Types
Lesson Link: https://example.com/go-basics/lesson-1
Go has static types. Structs group fields together.
`

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessFile_ParsesHeaderAndLessons(t *testing.T) {
	processor := NewProcessor(800, 100)

	course, chunks, err := processor.ProcessFile(writeTranscript(t, sampleTranscript))
	require.NoError(t, err)

	assert.Equal(t, "Go Basics", course.Title)
	assert.Equal(t, "https://example.com/go-basics", course.CourseLink)
	assert.Equal(t, "Rob", course.Instructor)

	require.Len(t, course.Lessons, 2)
	assert.Equal(t, 0, course.Lessons[0].LessonNumber)
	assert.Equal(t, "Introduction", course.Lessons[0].Title)
	assert.Equal(t, "https://example.com/go-basics/lesson-0", course.Lessons[0].LessonLink)
	assert.Equal(t, 1, course.Lessons[1].LessonNumber)
	assert.Equal(t, "Types", course.Lessons[1].Title)

	require.Len(t, chunks, 2)
	for i, c := range chunks {
		assert.Equal(t, "Go Basics", c.CourseTitle)
		assert.Equal(t, i, c.ChunkIndex)
		assert.NotEmpty(t, c.ID)
		require.NotNil(t, c.LessonNumber)
		assert.Equal(t, i, *c.LessonNumber)
	}

	// Chunk content carries course/lesson provenance
	assert.True(t, strings.HasPrefix(chunks[0].Content, "Course Go Basics Lesson 0 content: "))
	assert.Contains(t, chunks[0].Content, "Welcome to the course.")
	assert.NotContains(t, chunks[0].Content, "Lesson Link:")
}

func TestProcessFile_MissingTitleIsError(t *testing.T) {
	processor := NewProcessor(800, 100)

	_, _, err := processor.ProcessFile(writeTranscript(t, "Lesson 1: Orphan\nSome text.\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Course Title")
}

func TestProcessFile_TextBeforeFirstLessonBelongsToNoLesson(t *testing.T) {
	processor := NewProcessor(800, 100)

	doc := "Course Title: Go Basics\n\nGeneral preamble about the course.\n\nLesson 1: Start\nLesson content here.\n"
	course, chunks, err := processor.ProcessFile(writeTranscript(t, doc))
	require.NoError(t, err)

	require.Len(t, course.Lessons, 1)
	require.Len(t, chunks, 2)

	assert.Nil(t, chunks[0].LessonNumber)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "Course Go Basics content: "))
	require.NotNil(t, chunks[1].LessonNumber)
	assert.Equal(t, 1, *chunks[1].LessonNumber)
}

func TestProcessFile_LessonWithoutContentStillListed(t *testing.T) {
	processor := NewProcessor(800, 100)

	doc := "Course Title: Go Basics\n\nLesson 1: Empty\n\nLesson 2: Full\nActual content.\n"
	course, chunks, err := processor.ProcessFile(writeTranscript(t, doc))
	require.NoError(t, err)

	assert.Len(t, course.Lessons, 2)
	require.Len(t, chunks, 1)
	assert.Equal(t, 2, *chunks[0].LessonNumber)
}

func TestChunkText_RespectsSizeAndOverlap(t *testing.T) {
	processor := NewProcessor(100, 30)

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("This is sentence number ")
		sb.WriteString(strings.Repeat("x", 10))
		sb.WriteString(". ")
	}

	chunks := processor.chunkText(sb.String())
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		// Sentence alignment can overshoot by at most one sentence
		assert.LessOrEqual(t, len(c), 160)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestChunkText_ShortTextIsSingleChunk(t *testing.T) {
	processor := NewProcessor(800, 100)

	chunks := processor.chunkText("One short sentence.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "One short sentence.", chunks[0])
}

func TestChunkText_NormalizesWhitespace(t *testing.T) {
	processor := NewProcessor(800, 100)

	chunks := processor.chunkText("spread   across\n\nlines\tand tabs.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "spread across lines and tabs.", chunks[0])
}

func TestChunkText_EmptyTextYieldsNoChunks(t *testing.T) {
	processor := NewProcessor(800, 100)
	assert.Empty(t, processor.chunkText("   \n  "))
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First one. Second one! Third one? Trailing fragment")
	assert.Equal(t, []string{"First one.", "Second one!", "Third one?", "Trailing fragment"}, sentences)
}
