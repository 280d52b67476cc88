package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"bookery/internal/catalog"
	"bookery/internal/journal"
	"bookery/internal/seed"
	"bookery/internal/session"
)

func main() {
	initLogger(getEnv("LOG_FORMAT", "text"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := initTracing(ctx)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer shutdownTracing(context.Background())
	}

	users := session.NewUserStore()
	sessions := session.NewSessions()
	books := catalog.NewStore()
	jnl := journal.New()

	sessionService := session.NewService(users, sessions, jnl)
	catalogService := catalog.NewService(books, sessionService, jnl)

	if path := os.Getenv("SEED_USERS"); path != "" {
		n, err := seed.LoadUsers(ctx, sessionService, path)
		if err != nil {
			slog.Error("failed to load seed users", "file", path, "error", err)
			os.Exit(1)
		}
		slog.Info("loaded seed users", "file", path, "count", n)
	}
	if path := os.Getenv("SEED_BOOKS"); path != "" {
		n, err := seed.LoadBooks(books, path)
		if err != nil {
			slog.Error("failed to load seed books", "file", path, "error", err)
			os.Exit(1)
		}
		slog.Info("loaded seed books", "file", path, "count", n)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	session.NewHandler(sessionService).Routes(router)
	catalog.NewHandler(catalogService).Routes(router)

	port := getEnv("PORT", "8080")
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// initLogger installs the process-wide structured logger.
func initLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// initTracing wires the OTLP HTTP exporter and registers the tracer provider.
func initTracing(ctx context.Context) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(getEnv("OTLP_ENDPOINT", "localhost:4318")),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("bookery"),
		)),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
