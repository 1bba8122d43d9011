package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ddipendrac/mystery-message/internal/config"
	"github.com/ddipendrac/mystery-message/internal/database"
	"github.com/ddipendrac/mystery-message/internal/handlers"
	"github.com/ddipendrac/mystery-message/internal/repository"
	"github.com/ddipendrac/mystery-message/internal/services"
	"github.com/ddipendrac/mystery-message/pkg/email"
	"github.com/ddipendrac/mystery-message/pkg/logger"
	"github.com/ddipendrac/mystery-message/pkg/ratelimit"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer database.Disconnect(db)

	mailer, err := email.NewSMTPMailer(cfg)
	if err != nil {
		log.Fatalf("Mailer setup error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, mailer)
	messageService := services.NewMessageService(userRepo)
	completer := services.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	suggestionService := services.NewSuggestionService(completer, cfg.SuggestTimeout)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	messageHandler := handlers.NewMessageHandler(messageService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)

	// Rate limiting of anonymous routes is optional; it activates only when
	// a Redis address is configured.
	var limiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		limiter = ratelimit.NewLimiter(redisClient, ratelimit.DefaultConfig())
		logger.Log.Info("Redis rate limiting enabled")
	}

	// Initialize Gorilla Mux router
	router := newRouter(cfg, userHandler, messageHandler, suggestionHandler, limiter)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
