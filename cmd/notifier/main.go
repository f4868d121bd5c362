package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/restaunax/orders-api/internal/client"
	"github.com/restaunax/orders-api/internal/events"
	"github.com/restaunax/orders-api/internal/notifier"
	"github.com/restaunax/orders-api/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "orders-notifier", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	apiURL := os.Getenv("ORDERS_API_URL")
	if apiURL == "" {
		logger.Error("ORDERS_API_URL environment variable is required")
		os.Exit(1)
	}

	// NOTIFY_WEBHOOK_URL is optional; without it tickets are only logged.
	webhookURL := os.Getenv("NOTIFY_WEBHOOK_URL")

	brokers := strings.Split(kafkaBrokers, ",")
	consumer := events.NewConsumer(brokers, events.TopicOrderCreated, "kitchen-notifier")
	defer func() { _ = consumer.Close() }()

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	api := client.New(apiURL, httpClient)
	handler := notifier.NewHandler(api, webhookURL, httpClient, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting kitchen notifier", "brokers", brokers, "webhook_configured", webhookURL != "")

	if err := consumer.Consume(ctx, handler.Handle); err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
