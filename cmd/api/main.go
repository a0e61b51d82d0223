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

	"github.com/go-signup-api/internal/config"
	"github.com/go-signup-api/internal/infrastructure/dynamo"
	"github.com/go-signup-api/internal/infrastructure/google"
	"github.com/go-signup-api/internal/infrastructure/smtp"
	"github.com/go-signup-api/internal/infrastructure/token"
	transporthttp "github.com/go-signup-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// One codec per token class, each independently keyed.
	activationCodec, err := token.NewCodec(cfg.ActivationTokenSecret, cfg.ActivationTokenTTL)
	if err != nil {
		log.Fatalf("activation codec: %v", err)
	}
	accessCodec, err := token.NewCodec(cfg.AccessTokenSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("access codec: %v", err)
	}
	refreshCodec, err := token.NewCodec(cfg.RefreshTokenSecret, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("refresh codec: %v", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	deps := &transporthttp.Deps{
		UserRepo:        dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		Mailer:          mailer,
		ActivationCodec: activationCodec,
		AccessCodec:     accessCodec,
		RefreshCodec:    refreshCodec,
	}

	// Upstream ID-token verification for social auth is opt-in; without a
	// client ID the caller-supplied identity is trusted as already proven.
	if cfg.GoogleClientID != "" {
		deps.IDPVerifier = google.NewVerifier(cfg.GoogleClientID)
	} else {
		log.Println("WARN: GOOGLE_CLIENT_ID not set, social auth trusts caller-supplied identity")
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

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
