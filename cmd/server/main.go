package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/clubhousegolfcanada/ClubOS/internal/config"
	"github.com/clubhousegolfcanada/ClubOS/internal/docsync"
	"github.com/clubhousegolfcanada/ClubOS/internal/engine"
	httpadapter "github.com/clubhousegolfcanada/ClubOS/internal/interfaces/http"
	"github.com/clubhousegolfcanada/ClubOS/internal/report"
	"github.com/clubhousegolfcanada/ClubOS/internal/repository"
	"github.com/clubhousegolfcanada/ClubOS/internal/resolver"
	"github.com/clubhousegolfcanada/ClubOS/internal/sop"
	"github.com/clubhousegolfcanada/ClubOS/internal/ticket"
	"github.com/clubhousegolfcanada/ClubOS/pkg/database"
	"github.com/clubhousegolfcanada/ClubOS/pkg/utils"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ClubOS operational engine",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	ticketRepo := repository.NewTicketRepository(db, logger)
	incidentRepo := repository.NewIncidentRepository(db, logger)

	// Ticket system
	contacts := ticket.NewDirectory()
	if cfg.Engine.ContactsPath != "" {
		if err := contacts.LoadFile(cfg.Engine.ContactsPath); err != nil {
			logger.Warn("Using built-in contact directory", zap.Error(err))
		}
	}
	notifier := ticket.NewEmailNotifier(cfg.SMTP, logger)
	tickets := ticket.NewSystem(ticketRepo, contacts, notifier, logger)

	// Vocabulary and pipeline stages
	vocab, err := engine.LoadVocabulary(cfg.Engine.VocabularyPath)
	if err != nil {
		logger.Warn("Using built-in vocabulary", zap.Error(err))
		vocab = engine.DefaultVocabulary()
	}

	guard := engine.NewBoundaryGuard(cfg.Engine.PriceCeiling, vocab)
	classifier := engine.NewClassifier(vocab)
	knowledge := engine.NewKnowledgeBase()
	enricher := engine.NewEnricher()

	// Resolution strategies
	prompts, err := resolver.LoadPrompts(cfg.OpenAI.PromptsPath)
	if err != nil {
		logger.Fatal("Failed to load prompt templates", zap.Error(err))
	}
	llm := resolver.NewLLMClient(resolver.LLMConfig{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
	}, logger)
	rules := resolver.NewRuleEngine(cfg.Engine.PriceCeiling, logger)
	taskResolver := resolver.New(llm, prompts, rules, cfg.Engine.PriceCeiling, logger)

	// Pipeline engine
	pipeline := engine.New(guard, classifier, knowledge, enricher, taskResolver, tickets, incidentRepo, logger)

	// SOP sub-pipeline
	sopCache := sop.NewCache(cfg.SOP.CacheTTL)
	syncer := docsync.NewSyncer(cfg.SOP.DocsDir, logger)
	dispatcher := sop.NewActionHandler(tickets, logger)
	sopResolver := sop.NewResolver(sopCache, syncer, dispatcher, tickets, logger)

	if _, err := sopResolver.Refresh(context.Background()); err != nil {
		logger.Warn("Initial SOP sync failed, cache starts empty", zap.Error(err))
	}

	// HTTP surface
	exporter := report.NewTicketExporter(logger)
	handlers := httpadapter.NewHandlers(pipeline, sopResolver, tickets, exporter, logger)
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
