package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/handlers"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/services/answer"
	"github.com/ternarybob/lectio/internal/services/documents"
	"github.com/ternarybob/lectio/internal/services/embeddings"
	"github.com/ternarybob/lectio/internal/services/generator"
	"github.com/ternarybob/lectio/internal/services/llm"
	"github.com/ternarybob/lectio/internal/services/scheduler"
	"github.com/ternarybob/lectio/internal/services/search"
	"github.com/ternarybob/lectio/internal/services/session"
	"github.com/ternarybob/lectio/internal/services/tools"
	badgerstorage "github.com/ternarybob/lectio/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Core services
	EmbeddingService interfaces.EmbeddingService
	VectorStore      interfaces.VectorSearchService
	ModelService     interfaces.ModelService
	ToolRegistry     interfaces.ToolRegistry
	SessionService   interfaces.SessionService
	AnswerService    interfaces.AnswerService
	IngestService    *documents.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	QueryHandler   *handlers.QueryHandler
	CourseHandler  *handlers.CourseHandler
	SessionHandler *handlers.SessionHandler
}

// New initializes the application with all dependencies
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(ctx); err != nil {
		app.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().Msg("Application initialized successfully")
	return app, nil
}

func (a *App) initStorage() error {
	manager, err := badgerstorage.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.StorageManager = manager

	a.Logger.Debug().Str("path", a.Config.Storage.Badger.Path).Msg("Storage initialized")
	return nil
}

func (a *App) initServices(ctx context.Context) error {
	courses := a.StorageManager.CourseStorage()
	chunks := a.StorageManager.ChunkStorage()

	embedder, err := embeddings.NewGeminiService(ctx, &a.Config.Gemini, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}
	a.EmbeddingService = embedder

	a.VectorStore = search.NewVectorStore(chunks, courses, embedder, a.Config.RAG.MaxResults, a.Logger)

	registry := tools.NewRegistry(a.Logger)
	registry.Register(tools.NewSearchTool(a.VectorStore, a.Logger))
	registry.Register(tools.NewOutlineTool(a.VectorStore, a.Logger))
	a.ToolRegistry = registry

	model, err := llm.NewClaudeService(&a.Config.Claude, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create model service: %w", err)
	}
	a.ModelService = model

	gen := generator.NewResponseGenerator(model, a.Config.RAG.MaxRounds, a.Logger)

	a.SessionService = session.NewService(a.Config.RAG.MaxHistory, a.Logger)
	a.AnswerService = answer.NewService(gen, registry, a.SessionService, a.Logger)

	a.IngestService = documents.NewService(&a.Config.RAG, &a.Config.Ingest, courses, chunks, embedder, a.Logger)
	a.SchedulerService = scheduler.NewService(a.IngestService, a.Logger)

	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.ModelService, a.Logger)
	a.QueryHandler = handlers.NewQueryHandler(a.AnswerService, a.Logger)
	a.CourseHandler = handlers.NewCourseHandler(a.StorageManager.CourseStorage(), a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionService, a.Logger)
}

// IngestStartupDocuments loads any new course documents from the configured
// docs directory and starts the rescan schedule if one is configured
func (a *App) IngestStartupDocuments(ctx context.Context) error {
	courses, chunks, err := a.IngestService.AddCourseFolder(ctx)
	if err != nil {
		return err
	}
	if courses > 0 {
		a.Logger.Info().Int("courses", courses).Int("chunks", chunks).Msg("Startup ingestion completed")
	}

	return a.SchedulerService.Start(a.Config.Ingest.Schedule)
}

// Close shuts down all application components
func (a *App) Close() error {
	var firstErr error

	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.ModelService != nil {
		if err := a.ModelService.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.EmbeddingService != nil {
		if err := a.EmbeddingService.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return firstErr
}
