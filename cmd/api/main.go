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

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/gallocedrone/habitgrid/internal/adapters/cache"
	adapterHTTP "github.com/gallocedrone/habitgrid/internal/adapters/handler/http"
	"github.com/gallocedrone/habitgrid/internal/adapters/repository"
	"github.com/gallocedrone/habitgrid/internal/core/domain"
	"github.com/gallocedrone/habitgrid/internal/core/services"
)

// @title        HabitGrid API
// @version      1.0
// @description  Personal habit tracker: habits, daily completions, streaks.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	serverPort := envOr("PORT", "8080")
	backend := envOr("STORAGE_BACKEND", "postgres")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	var (
		db             *sqlx.DB
		habitRepo      domain.HabitRepository
		completionRepo domain.CompletionRepository
		userRepo       domain.UserRepository
	)

	switch backend {
	case "memory":
		log.Println("Using in-memory storage backend.")
		completions := repository.NewInMemoryCompletionRepository()
		habitRepo = repository.NewInMemoryHabitRepository(completions)
		completionRepo = completions
		userRepo = repository.NewInMemoryUserRepository()

	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			envOr("DB_HOST", "localhost"), envOr("DB_PORT", "5432"),
			os.Getenv("DB_NAME"))

		log.Println("Connecting to database...")

		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connected successfully.")

		habitRepo = repository.NewPostgresHabitRepository(db)
		completionRepo = repository.NewPostgresCompletionRepository(db)
		userRepo = repository.NewPostgresUserRepository(db)

	default:
		log.Fatalf("Critical: unknown STORAGE_BACKEND %q (use memory or postgres)", backend)
	}

	var rdb *redis.Client
	if host := os.Getenv("REDIS_HOST"); host != "" {
		var err error
		rdb, err = cache.NewRedisClient(cache.Config{
			Host:     host,
			Port:     envOr("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
			rdb = nil
		} else {
			habitRepo = cache.NewCachedHabitRepository(habitRepo, rdb)
			log.Println("Redis cache enabled.")
		}
	}

	tokenService := services.NewTokenService(jwtSecret, "habitgrid", 24*time.Hour, userRepo)
	authService := services.NewAuthService(userRepo)
	habitService := services.NewHabitService(habitRepo)
	completionService := services.NewCompletionService(completionRepo, habitRepo, time.Local)
	statsService := services.NewStatsService(habitRepo, completionRepo, time.Local)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:      adapterHTTP.NewHabitHandler(habitService),
		CompletionHandler: adapterHTTP.NewCompletionHandler(completionService),
		StatsHandler:      adapterHTTP.NewStatsHandler(statsService),
		TokenService:      tokenService,
		DB:                db,
		Redis:             rdb,
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("HabitGrid API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
