package models

// ChunkMetadata carries the provenance fields of one search hit
type ChunkMetadata struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// SearchResults holds the outcome of one vector store query. Documents,
// Metadata and Distances are co-indexed and always of equal length.
//
// Error is a data-level failure signal: when set, the three slices are empty
// and the caller must treat the query as failed rather than as "no matches".
// Empty slices with no Error mean the query succeeded and nothing matched.
type SearchResults struct {
	Documents []string        `json:"documents"`
	Metadata  []ChunkMetadata `json:"metadata"`
	Distances []float64       `json:"distances"`
	Error     string          `json:"error,omitempty"`
}

// NewErrorResults creates a failed result set carrying only an error message
func NewErrorResults(errMsg string) *SearchResults {
	return &SearchResults{
		Documents: []string{},
		Metadata:  []ChunkMetadata{},
		Distances: []float64{},
		Error:     errMsg,
	}
}

// IsEmpty reports whether the result set contains no documents. The Error
// field is deliberately not consulted here; callers check Error first.
func (r *SearchResults) IsEmpty() bool {
	return len(r.Documents) == 0
}
