package models

import "time"

// Lesson represents a single lesson within a course
type Lesson struct {
	LessonNumber int    `json:"lesson_number" validate:"gte=0"`
	Title        string `json:"title" validate:"required"`
	LessonLink   string `json:"lesson_link,omitempty"`
}

// Course represents a complete course with its lessons
type Course struct {
	Title      string    `json:"title" badgerhold:"key" validate:"required"`
	CourseLink string    `json:"course_link,omitempty"`
	Instructor string    `json:"instructor,omitempty"`
	Lessons    []Lesson  `json:"lessons"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetLesson returns the lesson with the given number, or nil if not present
func (c *Course) GetLesson(lessonNumber int) *Lesson {
	for i := range c.Lessons {
		if c.Lessons[i].LessonNumber == lessonNumber {
			return &c.Lessons[i]
		}
	}
	return nil
}

// CourseChunk represents one embeddable piece of course content.
// LessonNumber is a pointer because introductory material before the first
// lesson marker has no lesson number.
type CourseChunk struct {
	ID           string    `json:"id" badgerhold:"key"`
	Content      string    `json:"content"`
	CourseTitle  string    `json:"course_title" badgerhold:"index"`
	LessonNumber *int      `json:"lesson_number,omitempty"`
	ChunkIndex   int       `json:"chunk_index"`
	Embedding    []float32 `json:"embedding,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
