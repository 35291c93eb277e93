package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Instrumentation
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/Abhijeet418/latest-FILxConnect/config"
	"github.com/Abhijeet418/latest-FILxConnect/internal/adapters/primary/httpapi"
	"github.com/Abhijeet418/latest-FILxConnect/internal/adapters/secondary/rest"
	"github.com/Abhijeet418/latest-FILxConnect/internal/adapters/secondary/security"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg := config.Load()
	initLogger(cfg)
	slog.Info("🚀 Starting FILxCONNECT feed engine", "config", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Collaborateur backend (Driven Adapter)
	client := rest.NewClient(cfg.BackendURL)
	backend := rest.NewBackend(client)
	slog.Info("✅ Backend client ready", "url", cfg.BackendURL)

	// 4. Vérification des tokens (Driven Adapter)
	publicKeyPEM, err := os.ReadFile(cfg.JWTPublicKeyFile)
	if err != nil {
		slog.Error("Unable to read JWT public key", "file", cfg.JWTPublicKeyFile, "error", err)
		os.Exit(1)
	}
	verifier, err := security.NewJWTVerifier(publicKeyPEM)
	if err != nil {
		slog.Error("Invalid JWT public key", "error", err)
		os.Exit(1)
	}

	// 5. Initialisation du Core
	resolver := domain.MediaResolver{
		BaseURL:       cfg.MediaBaseURL,
		DefaultAvatar: cfg.DefaultAvatarURL,
	}
	identityService := services.NewIdentityService(backend, backend, verifier)
	graphService := services.NewGraphService(backend, backend)
	enricher := services.NewEnricher(backend, backend, backend, resolver)
	feedService := services.NewFeedService(graphService, backend, enricher)
	interactionService := services.NewInteractionService(feedService, identityService, backend, resolver)

	// 6. Gateway session (Driving Adapter)
	server := httpapi.NewServer(identityService, feedService, interactionService)

	srvHTTP := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Handler(),
	}

	go func() {
		slog.Info("📡 Session gateway listening", "port", cfg.Port)
		if err := srvHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
	slog.Info("👋 Server exited")
}

// --- Helpers ---

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("filxconnect-feed-engine"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
