package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// Service ingests course transcript documents: parsing, chunking, embedding
// and persisting the catalog entry plus content chunks
type Service struct {
	processor *Processor
	courses   interfaces.CourseStorage
	chunks    interfaces.ChunkStorage
	embedder  interfaces.EmbeddingService
	validate  *validator.Validate
	config    *common.IngestConfig
	logger    arbor.ILogger
}

// NewService creates a new document ingestion service
func NewService(
	ragConfig *common.RAGConfig,
	ingestConfig *common.IngestConfig,
	courses interfaces.CourseStorage,
	chunks interfaces.ChunkStorage,
	embedder interfaces.EmbeddingService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		processor: NewProcessor(ragConfig.ChunkSize, ragConfig.ChunkOverlap),
		courses:   courses,
		chunks:    chunks,
		embedder:  embedder,
		validate:  validator.New(),
		config:    ingestConfig,
		logger:    logger,
	}
}

// AddCourseDocument ingests a single transcript file. Returns the parsed
// course and the number of chunks stored. A course title already present in
// the catalog is skipped (returns 0 chunks).
func (s *Service) AddCourseDocument(ctx context.Context, path string) (*models.Course, int, error) {
	course, chunks, err := s.processor.ProcessFile(path)
	if err != nil {
		return nil, 0, err
	}

	if err := s.validate.Struct(course); err != nil {
		return nil, 0, fmt.Errorf("invalid course metadata in %s: %w", path, err)
	}

	exists, err := s.courses.CourseExists(course.Title)
	if err != nil {
		return nil, 0, err
	}
	if exists {
		s.logger.Debug().Str("course", course.Title).Msg("Course already ingested, skipping")
		return course, 0, nil
	}

	// Embed every chunk before persisting anything so a mid-batch embedding
	// failure doesn't leave a half-searchable course behind
	for _, chunk := range chunks {
		embedding, err := s.embedder.GenerateEmbedding(ctx, chunk.Content)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to embed chunk %d of course '%s': %w", chunk.ChunkIndex, course.Title, err)
		}
		chunk.Embedding = embedding
	}

	if err := s.courses.SaveCourse(course); err != nil {
		return nil, 0, err
	}
	if err := s.chunks.SaveChunks(chunks); err != nil {
		return nil, 0, err
	}

	s.logger.Info().
		Str("course", course.Title).
		Int("lessons", len(course.Lessons)).
		Int("chunks", len(chunks)).
		Msg("Course document ingested")

	return course, len(chunks), nil
}

// AddCourseFolder scans the configured docs directory and ingests every
// matching file, skipping courses already in the catalog. Returns totals of
// newly added courses and chunks.
func (s *Service) AddCourseFolder(ctx context.Context) (int, int, error) {
	entries, err := os.ReadDir(s.config.DocsDir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn().Str("dir", s.config.DocsDir).Msg("Docs directory does not exist, skipping ingestion")
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to read docs directory %s: %w", s.config.DocsDir, err)
	}

	totalCourses := 0
	totalChunks := 0

	for _, entry := range entries {
		if entry.IsDir() || !s.matchesExtension(entry.Name()) {
			continue
		}

		path := filepath.Join(s.config.DocsDir, entry.Name())
		course, chunkCount, err := s.AddCourseDocument(ctx, path)
		if err != nil {
			// One bad document should not block the rest of the folder
			s.logger.Error().Err(err).Str("path", path).Msg("Failed to ingest course document")
			continue
		}
		if chunkCount > 0 {
			totalCourses++
			totalChunks += chunkCount
			s.logger.Debug().Str("course", course.Title).Int("chunks", chunkCount).Msg("Course added from folder scan")
		}
	}

	s.logger.Info().
		Str("dir", s.config.DocsDir).
		Int("new_courses", totalCourses).
		Int("new_chunks", totalChunks).
		Msg("Docs folder scan completed")

	return totalCourses, totalChunks, nil
}

// matchesExtension checks a file name against the configured extension list
func (s *Service) matchesExtension(name string) bool {
	if len(s.config.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range s.config.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
