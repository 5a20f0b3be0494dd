// @title           Framecraft Backend API
// @version         1.0.0
// @description     Backend API for the framed-portrait order flow: photo upload, frame selection, pan/zoom positioning, composite rendering, Paystack payment and order confirmation.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"framecraft-backend/internal/compositor"
	"framecraft-backend/internal/config"
	"framecraft-backend/internal/database"
	"framecraft-backend/internal/handlers"
	"framecraft-backend/internal/middleware"
	"framecraft-backend/internal/objectstore"
	"framecraft-backend/internal/paystack"
	"framecraft-backend/internal/services"
	"framecraft-backend/internal/store"
	"framecraft-backend/internal/transform"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Session storage: Postgres + S3 when configured, in-memory otherwise.
	var sessions store.SessionStore
	if cfg.DatabaseURL != "" && cfg.S3Endpoint != "" {
		// Run migrations
		migrator, err := database.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize migrator: %v", err)
		} else {
			if err := migrator.Run(); err != nil {
				log.Printf("Warning: Migration failed: %v", err)
			} else {
				log.Println("Migrations completed successfully")
			}
			migrator.Close()
		}

		objects, err := objectstore.New(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		if err := objects.EnsureBucket(context.Background()); err != nil {
			log.Fatalf("Failed to ensure storage bucket: %v", err)
		}

		pgStore, err := store.NewPostgresStore(cfg.DatabaseURL, objects, cfg.SessionQuotaBytes)
		if err != nil {
			log.Fatalf("Failed to initialize session store: %v", err)
		}
		defer pgStore.Close()
		sessions = pgStore
	} else {
		log.Println("Warning: DATABASE_URL or S3_ENDPOINT not set. Sessions are kept in memory and lost on restart.")
		sessions = store.NewMemoryStore(cfg.SessionQuotaBytes)
	}

	// Paystack client
	paystackClient := paystack.NewClient(cfg.PaystackAPIBaseURL, cfg.PaystackSecretKey)

	// Frame assets: embedded by default, remote when a base URL is set
	var loader compositor.AssetLoader
	if cfg.FrameAssetBaseURL != "" {
		loader = compositor.NewHTTPLoader(cfg.FrameAssetBaseURL)
	} else {
		loader = compositor.NewEmbeddedLoader()
	}
	renderer := compositor.NewRenderer(cfg.OutputWidth, cfg.OutputHeight, loader)
	composites := services.NewCompositeService(renderer, sessions)

	// Per-session viewport editors
	registry := transform.NewRegistry()

	// Confirmation emails go through the queue when Redis is configured
	var queueClient *asynq.Client
	if cfg.RedisAddr != "" {
		queueClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer queueClient.Close()
	} else {
		log.Println("Warning: REDIS_ADDR not set. Confirmation emails will not be sent.")
	}

	// Initialize handlers
	sessionsHandler := handlers.NewSessionsHandler(cfg)
	uploadHandler := handlers.NewUploadHandler(cfg, sessions)
	editorHandler := handlers.NewEditorHandler(registry, sessions)
	ordersHandler := handlers.NewOrdersHandler(cfg, sessions, registry, paystackClient, composites, queueClient)
	compositeHandler := handlers.NewCompositeHandler(composites)
	paymentsHandler := handlers.NewPaymentsHandler(cfg, paystackClient)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no session)
	router.GET("/health", handlers.HealthHandler)

	// Session creation and payment verification need no session token:
	// the Paystack callback page verifies before the session is restored.
	router.POST("/api/v1/sessions", sessionsHandler.CreateSession)
	router.POST("/api/v1/payments/init", paymentsHandler.InitPayment)
	router.POST("/api/v1/payments/verify", paymentsHandler.VerifyPayment)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.SessionMiddleware(cfg))

	api.GET("/frames", handlers.ListFrames)

	api.POST("/session/photo", uploadHandler.Upload)
	api.POST("/session/editor", editorHandler.CreateEditor)
	api.POST("/session/editor/events", editorHandler.ApplyEvents)
	api.GET("/session/editor/transform", editorHandler.GetTransform)

	api.POST("/orders", ordersHandler.CreateOrder)
	api.GET("/orders/current", ordersHandler.GetOrder)
	api.POST("/orders/confirm", ordersHandler.ConfirmOrder)
	api.POST("/orders/composite", compositeHandler.RenderComposite)
	api.GET("/orders/composite", compositeHandler.DownloadComposite)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
