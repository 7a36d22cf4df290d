package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/cache"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/config"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/handlers"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/inference"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/middleware"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/summary"
)

func init() {

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ Loaded .env file")
	}
}

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("✓ Config loaded successfully")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	summaryCache, err := cache.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s cache: %v", cfg.Cache.Backend, err)
	}
	defer summaryCache.Close()
	log.Printf("✓ %s cache ready (max entries: %d, ttl: %s)", cfg.Cache.Backend, cfg.Cache.MaxEntries, cfg.Cache.TTL)

	completer, err := inference.NewCompleter(&cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize completion client: %v", err)
	}
	log.Printf("✓ Completion client ready: %s (%s)", cfg.LLM.Provider, modelName(&cfg.LLM))

	service := summary.NewService(
		completer,
		summaryCache,
		summary.WithLogger(logger),
		summary.WithSingleFlight(cfg.Cache.SingleFlight),
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.SetHTMLTemplate(handlers.LoadTemplates())

	summaryHandler := handlers.NewSummaryHandler(service, cfg.Cache.Backend, cfg.Server.MaxUploadBytes)
	pageHandler := handlers.NewPageHandler(service, cfg.Server.MaxUploadBytes)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Security.APIKey)

	r.GET("/", pageHandler.Show)
	r.POST("/", pageHandler.Submit)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", summaryHandler.HealthCheck)

		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAPIKey())
		{
			protected.POST("/summarize", summaryHandler.HandleSummarize)
			protected.POST("/summarize/upload", summaryHandler.HandleUpload)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Printf("🚀 Clinical Summary service running on port %s", cfg.Server.Port)
	log.Printf("📋 Single-flight: %t, retries: %d", cfg.Cache.SingleFlight, cfg.LLM.MaxRetries)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func modelName(cfg *config.LLMConfig) string {
	if cfg.Provider == config.ProviderAzure {
		return cfg.Deployment
	}
	return cfg.Model
}
