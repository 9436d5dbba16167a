package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-access-gate/internal/application/grant"
	"github.com/go-access-gate/internal/application/verification"
	"github.com/go-access-gate/internal/config"
	"github.com/go-access-gate/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-access-gate/internal/infrastructure/jwt"
	"github.com/go-access-gate/internal/infrastructure/memory"
	s3infra "github.com/go-access-gate/internal/infrastructure/s3"
	"github.com/go-access-gate/internal/infrastructure/smtp"
	"github.com/go-access-gate/internal/infrastructure/sns"
	"github.com/go-access-gate/internal/pkg/emailpolicy"
	transporthttp "github.com/go-access-gate/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap the grant ledger table (created if it doesn't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamo: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)
	if err := s3Store.Exists(ctx, cfg.ResourceID); err != nil {
		slog.Warn("protected resource not reachable, redemptions will fail", "err", err)
	}

	// Without signing keys the gate still verifies people but every grant fails.
	var signer grant.Signer
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		signer = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	var escalator verification.Escalator
	if e, err := sns.NewEscalator(cfg); err == nil {
		escalator = e
	} else {
		log.Printf("WARN: operator escalation disabled: %v", err)
	}

	grantSvc := grant.NewService(grant.ServiceDeps{
		Ledger:        dynamo.NewGrantRepo(dynamoClient, cfg.DynamoTables.Grants),
		Signer:        signer,
		Presigner:     s3Store,
		PublicBaseURL: cfg.PublicBaseURL,
		GrantTTL:      cfg.GrantTTL,
		PresignTTL:    cfg.PresignTTL,
	})

	sessions := memory.NewSessionStore()
	go sessions.RunSweeper(ctx, cfg.SessionSweepEvery, cfg.SessionIdleTTL)

	verificationSvc := verification.NewService(verification.ServiceDeps{
		Sessions:            sessions,
		Policy:              emailpolicy.New(cfg.AllowedDomains),
		Mailer:              smtp.NewMailer(cfg),
		Grants:              grantSvc,
		Escalator:           escalator,
		ResourceID:          cfg.ResourceID,
		ResourceName:        cfg.ResourceName,
		EscalationContact:   cfg.EscalationContact,
		CodeTTL:             cfg.CodeTTL(),
		CollaboratorTimeout: cfg.CollaboratorTimeout,
	})

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		Verification: verificationSvc,
		Grants:       grantSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// A message may queue behind one collaborator call for the same
		// requester, then make its own call and an operator alert.
		WriteTimeout: 3*cfg.CollaboratorTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, domains=%s)", cfg.AppPort, cfg.AppEnv, emailpolicy.New(cfg.AllowedDomains))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
		os.Exit(1)
	}
	log.Println("Server stopped")
}
