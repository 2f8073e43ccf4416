package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/services/documents"
)

// Service periodically rescans the docs directory for new course
// transcripts. Already-ingested courses are skipped by the ingestion layer,
// so overlapping scans are cheap; a mutex still prevents concurrent runs.
type Service struct {
	ingest       *documents.Service
	cron         *cron.Cron
	logger       arbor.ILogger
	mu           sync.Mutex
	isProcessing bool
	running      bool
}

// NewService creates a new ingestion scheduler
func NewService(ingest *documents.Service, logger arbor.ILogger) *Service {
	return &Service{
		ingest: ingest,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins scheduled rescans with the given cron expression. An empty
// expression disables scheduling.
func (s *Service) Start(cronExpr string) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if cronExpr == "" {
		s.logger.Debug().Msg("Ingestion schedule not configured, scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(cronExpr, s.runScheduledScan); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("cron_expr", cronExpr).Msg("Ingestion scheduler started")
	return nil
}

// Stop halts the scheduler
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Ingestion scheduler stopped")
	return nil
}

// runScheduledScan executes one folder rescan, skipping if one is already
// in progress
func (s *Service) runScheduledScan() {
	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Warn().Msg("Ingestion scan already in progress, skipping scheduled run")
		return
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	courses, chunks, err := s.ingest.AddCourseFolder(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled ingestion scan failed")
		return
	}
	if courses > 0 {
		s.logger.Info().Int("courses", courses).Int("chunks", chunks).Msg("Scheduled scan ingested new courses")
	}
}
