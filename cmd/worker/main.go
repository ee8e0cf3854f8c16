package main

// Consumes queued payment webhook events and settles payments:
//   PAYMENT_QUEUE_URL=https://sqs... go run ./cmd/worker

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mikemtdev/career-lift/internal/bootstrap"
	"github.com/mikemtdev/career-lift/internal/queue"
	"github.com/mikemtdev/career-lift/internal/shared/config"
	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
	"github.com/mikemtdev/career-lift/internal/workerproc"
)

const (
	defaultRegion             = "us-east-1"
	defaultVisibilitySeconds  = 120
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

type settings struct {
	Region            string
	Concurrency       int
	VisibilitySeconds int
	ShutdownTimeout   time.Duration
}

func loadSettings(cfg config.Config) settings {
	region := strings.TrimSpace(cfg.AWSRegion)
	if region == "" {
		region = defaultRegion
	}
	return settings{
		Region:            region,
		Concurrency:       envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency),
		VisibilitySeconds: envInt("SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds),
		ShutdownTimeout:   time.Duration(envInt("WORKER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second,
	}
}

func main() {
	cfg := config.Load()
	if err := telemetry.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("configure logger: %v", err)
	}
	defer telemetry.Sync()

	queueURL := strings.TrimSpace(cfg.PaymentQueueURL)
	if queueURL == "" {
		log.Fatal("PAYMENT_QUEUE_URL is required")
	}
	s := loadSettings(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := queue.NewSQSClient(ctx, s.Region, queueURL)
	if err != nil {
		log.Fatalf("sqs client: %v", err)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	w := &workerproc.Worker{
		API:               client.API,
		QueueURL:          queueURL,
		Applier:           app.PaymentsService,
		Concurrency:       s.Concurrency,
		VisibilitySeconds: s.VisibilitySeconds,
		ShutdownTimeout:   s.ShutdownTimeout,
	}
	telemetry.Info("worker.start", map[string]any{
		"queue":       queueURL,
		"concurrency": s.Concurrency,
		"visibility":  s.VisibilitySeconds,
	})
	w.Run(ctx)
	telemetry.Info("worker.stopped", nil)
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
