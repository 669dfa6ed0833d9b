package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"loneus/cv-builder/internal/config"
	"loneus/cv-builder/internal/handlers"
	"loneus/cv-builder/internal/repositories"
	"loneus/cv-builder/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	log.Println("✅ Repositories initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant. Search is optional; the rest of the API runs without it.
	var candidateIndex services.CandidateIndex
	if cfg.Qdrant.URL != "" {
		index, err := services.NewCandidateIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, geminiService)
		if err != nil {
			log.Printf("⚠️  Candidate search disabled: %v\n", err)
		} else if err := index.InitCollection(ctx); err != nil {
			log.Printf("⚠️  Candidate search disabled: %v\n", err)
		} else {
			candidateIndex = index
			log.Println("✅ Qdrant initialized successfully")
		}
	}

	// Start the write dispatcher and the notification center
	bus := services.NewErrorBus()
	notifications := services.NewNotificationCenter(bus)
	notifications.Start(ctx)

	dispatcher := services.NewDispatcher(
		bus,
		cfg.Dispatch.Concurrency,
		cfg.Dispatch.QueueSize,
		cfg.Dispatch.WriteTimeout,
	)
	dispatcher.Start(ctx)
	log.Println("✅ Write dispatcher started successfully")

	// Initialize services
	var indexer services.ProfileIndexer
	if candidateIndex != nil {
		indexer = candidateIndex
	}
	gateway := services.NewPersistenceGateway(profileRepo, docRepo, dispatcher, indexer)
	authService := services.NewAuthService(accountRepo, gateway, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	suggestionService := services.NewSuggestionService(geminiService)
	wizards := services.NewWizardStore(gateway)

	uploads := services.NewUploadStore(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := uploads.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	routes := handlers.Routes{
		Auth:          handlers.NewAuthHandler(authService),
		Profile:       handlers.NewProfileHandler(gateway, wizards),
		Documents:     handlers.NewDocumentHandler(gateway),
		AI:            handlers.NewAIHandler(suggestionService, gateway, uploads, services.NewPDFTextExtractor()),
		Navigation:    handlers.NewNavigationHandler(gateway),
		Notifications: handlers.NewNotificationHandler(notifications),
	}
	if candidateIndex != nil {
		routes.Candidates = handlers.NewCandidateHandler(services.NewCandidateSearch(candidateIndex, gateway))
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Loneus CV Builder API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Loneus CV Builder API",
			"version": "1.0.0",
		})
	})

	// Routes
	routes.Register(app, authService)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		dispatcher.Stop()
		notifications.Stop()
		cancel()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

	// Accepted writes run before exit.
	<-stopped
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
