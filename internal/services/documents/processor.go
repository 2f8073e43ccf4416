package documents

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/models"
)

// Course transcript header and lesson marker formats:
//
//	Course Title: <title>
//	Course Link: <url>
//	Course Instructor: <name>
//
//	Lesson 0: Introduction
//	Lesson Link: <url>
//	<transcript text...>
var lessonMarker = regexp.MustCompile(`^Lesson (\d+): (.+)$`)

// sentenceSplit breaks on sentence-ending punctuation followed by whitespace
var sentenceSplit = regexp.MustCompile(`(?:[.!?])\s+`)

// Processor parses course transcript files into a catalog entry plus
// embeddable content chunks
type Processor struct {
	chunkSize    int
	chunkOverlap int
}

// NewProcessor creates a document processor with the given chunking bounds
func NewProcessor(chunkSize, chunkOverlap int) *Processor {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 100
	}
	return &Processor{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// ProcessFile parses one transcript file into a course and its chunks
func (p *Processor) ProcessFile(path string) (*models.Course, []*models.CourseChunk, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open course document %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read course document %s: %w", path, err)
	}

	return p.process(lines, path)
}

// process builds the course and chunk list from the document lines
func (p *Processor) process(lines []string, path string) (*models.Course, []*models.CourseChunk, error) {
	course := &models.Course{}

	// Header: title, optional link and instructor, in the leading lines
	bodyStart := 0
header:
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Course Title:"):
			course.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Title:"))
		case strings.HasPrefix(trimmed, "Course Link:"):
			course.CourseLink = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Link:"))
		case strings.HasPrefix(trimmed, "Course Instructor:"):
			course.Instructor = strings.TrimSpace(strings.TrimPrefix(trimmed, "Course Instructor:"))
		default:
			if trimmed != "" {
				bodyStart = i
				break header
			}
			continue
		}
		bodyStart = i + 1
	}

	if course.Title == "" {
		return nil, nil, fmt.Errorf("course document %s has no 'Course Title:' header", path)
	}

	// Body: split into lesson segments on "Lesson N:" markers. Text before
	// the first marker belongs to no lesson.
	type segment struct {
		lessonNumber *int
		lessonTitle  string
		lessonLink   string
		text         []string
	}

	segments := []*segment{{}}
	for _, line := range lines[bodyStart:] {
		trimmed := strings.TrimSpace(line)

		if match := lessonMarker.FindStringSubmatch(trimmed); match != nil {
			number, err := strconv.Atoi(match[1])
			if err == nil {
				segments = append(segments, &segment{
					lessonNumber: &number,
					lessonTitle:  strings.TrimSpace(match[2]),
				})
				continue
			}
		}

		current := segments[len(segments)-1]
		if strings.HasPrefix(trimmed, "Lesson Link:") && current.lessonLink == "" && len(current.text) == 0 {
			current.lessonLink = strings.TrimSpace(strings.TrimPrefix(trimmed, "Lesson Link:"))
			continue
		}

		current.text = append(current.text, line)
	}

	var chunks []*models.CourseChunk
	chunkIndex := 0

	for _, seg := range segments {
		content := strings.TrimSpace(strings.Join(seg.text, "\n"))

		if seg.lessonNumber != nil {
			course.Lessons = append(course.Lessons, models.Lesson{
				LessonNumber: *seg.lessonNumber,
				Title:        seg.lessonTitle,
				LessonLink:   seg.lessonLink,
			})
		}
		if content == "" {
			continue
		}

		for _, piece := range p.chunkText(content) {
			chunks = append(chunks, &models.CourseChunk{
				ID:           common.NewChunkID(),
				Content:      contextualize(course.Title, seg.lessonNumber, piece),
				CourseTitle:  course.Title,
				LessonNumber: seg.lessonNumber,
				ChunkIndex:   chunkIndex,
			})
			chunkIndex++
		}
	}

	return course, chunks, nil
}

// contextualize prefixes a chunk with its course/lesson provenance so the
// embedded text carries enough context to be retrieved on its own
func contextualize(courseTitle string, lessonNumber *int, text string) string {
	if lessonNumber != nil {
		return fmt.Sprintf("Course %s Lesson %d content: %s", courseTitle, *lessonNumber, text)
	}
	return fmt.Sprintf("Course %s content: %s", courseTitle, text)
}

// chunkText splits text into sentence-aligned pieces of roughly chunkSize
// characters with chunkOverlap characters of trailing context carried into
// the next piece
func (p *Processor) chunkText(text string) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}
	if len(normalized) <= p.chunkSize {
		return []string{normalized}
	}

	sentences := splitSentences(normalized)

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunk := strings.TrimSpace(current.String())
		chunks = append(chunks, chunk)
		current.Reset()

		// Carry overlap from the end of the finished chunk
		if p.chunkOverlap > 0 && len(chunk) > p.chunkOverlap {
			overlap := chunk[len(chunk)-p.chunkOverlap:]
			// Align the overlap to a word boundary
			if idx := strings.IndexByte(overlap, ' '); idx >= 0 {
				overlap = overlap[idx+1:]
			}
			current.WriteString(overlap)
		}
	}

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > p.chunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}
	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}

// splitSentences breaks normalized text into sentences, keeping terminal
// punctuation attached
func splitSentences(text string) []string {
	indexes := sentenceSplit.FindAllStringIndex(text, -1)
	if len(indexes) == 0 {
		return []string{text}
	}

	var sentences []string
	start := 0
	for _, loc := range indexes {
		// loc[0] is the punctuation position; keep it with the sentence
		sentences = append(sentences, strings.TrimSpace(text[start:loc[0]+1]))
		start = loc[1]
	}
	if start < len(text) {
		if rest := strings.TrimSpace(text[start:]); rest != "" {
			sentences = append(sentences, rest)
		}
	}
	return sentences
}
