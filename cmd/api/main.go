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

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/restaunax/orders-api/internal/events"
	"github.com/restaunax/orders-api/internal/orders"
	"github.com/restaunax/orders-api/internal/telemetry"
)

const (
	serviceName    = "orders-api"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	store, err := buildStore(ctx, logger)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}

	var publisher *events.Publisher
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		publisher = events.NewPublisher(strings.Split(kafkaBrokers, ","))
		defer func() { _ = publisher.Close() }()
	}

	orderMetrics, err := telemetry.NewOrderMetrics()
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}

	service := orders.NewService(store)
	handler := newHandler(service, publisher, orderMetrics, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders", telemetry.WithHTTPRoute(handler.HandleList))
	mux.HandleFunc("POST /api/orders", telemetry.WithHTTPRoute(handler.HandleCreate))
	mux.HandleFunc("GET /api/orders/{id}", telemetry.WithHTTPRoute(handler.HandleGet))
	mux.HandleFunc("PATCH /api/orders/{id}", telemetry.WithHTTPRoute(handler.HandleUpdateStatus))
	mux.HandleFunc("GET /health", handler.HandleHealth)
	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: withCORS(otelhttp.NewHandler(mux, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting orders api", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func newHandler(service *orders.Service, publisher *events.Publisher, metrics *telemetry.OrderMetrics, logger *slog.Logger) *orders.Handler {
	// A typed nil *Publisher must not end up inside the interface, or the
	// handler's nil check would pass and publishing would panic.
	if publisher == nil {
		return orders.NewHandler(service, nil, metrics, logger)
	}
	return orders.NewHandler(service, publisher, metrics, logger)
}

// buildStore selects the Postgres store when POSTGRES_URL is set, otherwise
// the in-memory store seeded with the legacy corpus (disable with
// SEED_ORDERS=false).
func buildStore(ctx context.Context, logger *slog.Logger) (orders.Store, error) {
	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL != "" {
		db, err := telemetry.OpenDB("postgres", postgresURL)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		logger.Info("using postgres store")
		return orders.NewPostgresStore(db), nil
	}

	store := orders.NewMemoryStore()
	if os.Getenv("SEED_ORDERS") != "false" {
		loaded, err := orders.LoadSeed(ctx, store, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("seed orders loaded", "count", loaded)
	}
	logger.Info("using in-memory store")
	return store, nil
}

// withCORS mirrors the permissive cors() defaults the dashboard dev server
// expects: any origin, the methods the API serves, preflight handled inline.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
