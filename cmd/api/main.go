package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/ritmoapp/ritmo-analytics-engine/internal/adapters/cache"
	adapterHTTP "github.com/ritmoapp/ritmo-analytics-engine/internal/adapters/handler/http"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/adapters/repository"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/services"
	"github.com/ritmoapp/ritmo-analytics-engine/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Critical: Failed to run migrations: %v", err)
	}

	redisDB, _ := strconv.Atoi(envOr("REDIS_DB", "0"))
	rdb, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Printf("Warning: Redis unavailable, running without snapshots and rate limiting: %v", err)
		rdb = nil
	}

	userRepo := repository.NewPostgresUserRepository(db.DB)
	habitRepo := repository.NewPostgresHabitRepository(db)
	subRepo := repository.NewPostgresSubmissionRepository(db)

	var snapshots services.StreakSnapshotStore
	var worker *workers.SnapshotWorker
	if rdb != nil {
		store := cache.NewStreakSnapshotStore(rdb)
		snapshots = store

		worker = workers.NewSnapshotWorker(habitRepo, subRepo, userRepo, store)
	}

	tokenService := services.NewTokenService(jwtSecret, "ritmo-api", 24*time.Hour, userRepo)
	authService := services.NewAuthService(userRepo, tokenService)
	habitService := services.NewHabitService(habitRepo, snapshots)
	subService := services.NewSubmissionService(subRepo, habitRepo, snapshots, worker)
	analyticsService := services.NewAnalyticsService(habitRepo, subRepo, userRepo, snapshots)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if worker != nil {
		worker.Start(workerCtx)
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService),
		HabitHandler:      adapterHTTP.NewHabitHandler(habitService),
		SubmissionHandler: adapterHTTP.NewSubmissionHandler(subService),
		AnalyticsHandler:  adapterHTTP.NewAnalyticsHandler(analyticsService),
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
		log.Printf("Ritmo Analytics Engine running on http://localhost:%s", serverPort)
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
