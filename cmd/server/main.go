package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/dnovoa/payledger/internal/config"
	"github.com/dnovoa/payledger/internal/database"
	"github.com/dnovoa/payledger/internal/handlers"
	"github.com/dnovoa/payledger/internal/repositories"
	"github.com/dnovoa/payledger/internal/services"
)

func main() {
	ctx := context.Background()

	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create postgres pool: %v", err)
	}
	defer postgresPool.Close()

	if err := database.Migrate(ctx, postgresPool); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	var accountRepo repositories.AccountRepository = repositories.NewPostgresAccountRepository(postgresPool)
	paymentRepo := repositories.NewPostgresPaymentRepository(postgresPool)

	// The Redis cache is optional; without REDIS_URL the gate resolves
	// accounts straight from Postgres.
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to create redis client: %v", err)
		}
		defer redisClient.Close()
		accountRepo = repositories.NewCachedAccountRepository(accountRepo, redisClient, cfg.CacheTTL)
	} else {
		log.Println("REDIS_URL not set, account cache disabled")
	}

	accountService := services.NewAccountService(accountRepo)
	ledgerService := services.NewLedgerService(accountRepo, paymentRepo)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	gate := services.NewAccessGate(tokenService, accountRepo)

	// Initialize HTTP Server
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	h := handlers.NewHandlers(accountService, ledgerService, tokenService, gate)
	h.Register(router)

	// Start Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
