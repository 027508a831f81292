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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/go-review-api/internal/application/sweep"
	"github.com/go-review-api/internal/config"
	"github.com/go-review-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-review-api/internal/infrastructure/jwt"
	s3infra "github.com/go-review-api/internal/infrastructure/s3"
	"github.com/go-review-api/internal/infrastructure/smtp"
	"github.com/go-review-api/internal/infrastructure/sns"
	"github.com/go-review-api/internal/tasks"
	transporthttp "github.com/go-review-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	tokenRepo := dynamo.NewTokenRepo(dynamoClient, cfg.DynamoTables.Tokens)
	reviewRepo := dynamo.NewReviewRepo(dynamoClient, cfg.DynamoTables.Reviews)
	indexRepo := dynamo.NewIndexRepo(dynamoClient, cfg.DynamoTables.VerifiedIndex)
	auditRepo := dynamo.NewAuditRepo(dynamoClient, cfg.DynamoTables.AuditLog)

	// JWT provider (optional — admin surface stays disabled without keys).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available, admin endpoints disabled: %v", err)
	}

	// S3 snapshot publisher for the static site's verified index.
	s3Client := s3infra.NewClient(cfg)
	snapshots := s3infra.NewPublisher(s3Client, cfg.S3BucketName, cfg.IndexObjectKey)

	// SNS workflow fan-out (optional — graceful fallback).
	var notifier sns.Notifier
	if cfg.SNSTopicARN != "" {
		n, err := sns.NewNotifier(cfg)
		if err != nil {
			log.Printf("WARN: SNS notifier not available: %v", err)
		} else {
			notifier = n
		}
	}

	mailer := smtp.NewMailer(cfg)

	// Background queue: verification emails and the expired-token sweep.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	asynqClient := tasks.NewClient(rdb)
	defer asynqClient.Close()
	enqueuer := tasks.NewEnqueuer(asynqClient)

	sweeper := sweep.NewService(tokenRepo, reviewRepo)
	processor := tasks.NewProcessor(mailer, sweeper)

	taskSrv, taskMux := tasks.SetupServer(rdb, processor)
	if err := taskSrv.Start(taskMux); err != nil {
		log.Fatalf("task server error: %v", err)
	}

	scheduler, err := tasks.SetupScheduler(rdb, cfg.SweepInterval)
	if err != nil {
		log.Fatalf("scheduler setup error: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("scheduler error: %v", err)
	}

	deps := &transporthttp.Deps{
		TokenRepo:   tokenRepo,
		ReviewRepo:  reviewRepo,
		IndexRepo:   indexRepo,
		AuditRepo:   auditRepo,
		Snapshots:   snapshots,
		Notifier:    notifier,
		JWTProvider: jwtProvider,
		Enqueuer:    enqueuer,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Shutdown()
	taskSrv.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
