package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/invensync/invensync/internal/inventory"
	invHTTP "github.com/invensync/invensync/internal/inventory/delivery/http"
	"github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/internal/inventory/usecase/command"
	"github.com/invensync/invensync/internal/middleware"
	recipeClient "github.com/invensync/invensync/internal/recipe/client"
	recipeHTTP "github.com/invensync/invensync/internal/recipe/delivery/http"
	"github.com/invensync/invensync/internal/recipe/store"
	recogClient "github.com/invensync/invensync/internal/recognition/client"
	recogHTTP "github.com/invensync/invensync/internal/recognition/delivery/http"
	"github.com/invensync/invensync/kafka"
	"github.com/invensync/invensync/pkg/database"
	"github.com/invensync/invensync/pkg/logger"
	"github.com/invensync/invensync/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "invensync-server")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting invensync server")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shut down tracer")
		}
	}()

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "invensyncdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(&domain.InventoryItem{}); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher for expiry alerts (optional)
	var alerter command.ExpiryAlerter
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer publisher.Close()
		alerter = publisher
		logger.Logger.Info().Str("brokers", brokers).Msg("Kafka expiry alerts enabled")
	} else {
		logger.Logger.Warn().Msg("KAFKA_BROKERS not set, expiry alerts disabled")
	}

	// Initialize inventory handler with Wire DI
	itemHandler, err := inventory.InitializeItemHandler(db, alerter)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}

	// Redis store for saved recipes (optional)
	var recipes recipeHTTP.RecipeStore
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		recipes = store.NewRedisRecipeStore(rdb)
		logger.Logger.Info().Str("addr", addr).Msg("Saved-recipe store enabled")
	} else {
		logger.Logger.Warn().Msg("REDIS_ADDR not set, saved recipes disabled")
	}

	generator := recipeClient.NewGeminiClient(getEnv("GEMINI_API_KEY", ""))
	recipeHandler := recipeHTTP.NewRecipeHandler(itemHandler.Repository(), generator, recipes)

	recognizer := recogClient.NewGroqClient(getEnv("GROQ_API_KEY", ""))
	recognitionHandler := recogHTTP.NewRecognitionHandler(recognizer)

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(itemHandler, recipeHandler, recognitionHandler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(items *invHTTP.ItemHandler, recipes *recipeHTTP.RecipeHandler, recognition *recogHTTP.RecognitionHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	items.RegisterRoutes(router)
	recipes.RegisterRoutes(router, middleware.Auth)
	recognition.RegisterRoutes(router, middleware.Auth)

	// Health check endpoint
	items.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := middleware.Tracing("invensync-server", middleware.Logging(c.Handler(router)))

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
