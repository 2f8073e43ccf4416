package answer

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/services/generator"
)

// Service composes the session ledger, the tool registry and the response
// generator into a single question-answering call. This is composition glue;
// the control-flow complexity lives in the generator.
type Service struct {
	generator *generator.ResponseGenerator
	registry  interfaces.ToolRegistry
	sessions  interfaces.SessionService
	logger    arbor.ILogger
}

// NewService creates a new answering service
func NewService(
	gen *generator.ResponseGenerator,
	registry interfaces.ToolRegistry,
	sessions interfaces.SessionService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		generator: gen,
		registry:  registry,
		sessions:  sessions,
		logger:    logger,
	}
}

var _ interfaces.AnswerService = (*Service)(nil)

// Ask answers a question, using and updating the given session's history.
// An empty sessionID creates a new session. Source citations reflect only
// this call's searches; ledger errors propagate to the caller untranslated.
func (s *Service) Ask(ctx context.Context, question, sessionID string) (*interfaces.AnswerResult, error) {
	if question == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}

	startTime := time.Now()

	if sessionID == "" {
		sessionID = s.sessions.CreateSession()
	}

	history := s.sessions.HistoryText(sessionID)

	// Drop sources from any earlier cycle before the loop runs
	s.registry.ResetSources()

	answer, err := s.generator.GenerateResponse(ctx, question, history, s.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	sources := s.registry.LastSources()

	if err := s.sessions.AddExchange(sessionID, question, answer); err != nil {
		return nil, fmt.Errorf("failed to record exchange: %w", err)
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int("question_length", len(question)).
		Int("answer_length", len(answer)).
		Int("sources", len(sources)).
		Dur("duration", time.Since(startTime)).
		Msg("Question answered")

	return &interfaces.AnswerResult{
		Answer:    answer,
		Sources:   sources,
		SessionID: sessionID,
	}, nil
}
