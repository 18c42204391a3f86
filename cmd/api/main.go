package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roombook/internal/api"
	"roombook/internal/catalog"
	"roombook/internal/config"
	"roombook/internal/events"
	"roombook/internal/ledger"
	"roombook/internal/logging"
	"roombook/internal/metrics"
	"roombook/internal/models"
	"roombook/internal/pricing"
	"roombook/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load reference timezone: %w", err)
	}

	rooms, err := loadRooms(cfg, &logger)
	if err != nil {
		return err
	}

	roomCatalog, err := catalog.New(rooms)
	if err != nil {
		return fmt.Errorf("build room catalog: %w", err)
	}

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bookingLedger, err := ledger.New(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("init ledger")
		return err
	}
	defer bookingLedger.Close()

	eventBus := events.NewEventBus()
	subscribeAuditLog(eventBus, &logger)

	pricer := pricing.NewEngine(loc, cfg.Pricing.PeakMultiplier)
	coordinator := service.NewBookingCoordinator(bookingLedger, roomCatalog, pricer, eventBus, loc, cfg.Booking, &logger)
	aggregator := service.NewAnalyticsAggregator(bookingLedger, roomCatalog, loc, &logger)

	httpServer := api.NewHTTPServer(cfg.API, coordinator, aggregator, roomCatalog, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// loadRooms берет комнаты из конфига, либо из отдельного rooms.yaml,
// либо использует стандартный набор
func loadRooms(cfg *config.Config, logger *zerolog.Logger) ([]models.Room, error) {
	if len(cfg.Rooms) > 0 {
		return cfg.Rooms, nil
	}

	roomsPath := os.Getenv("ROOMS_PATH")
	if roomsPath == "" {
		roomsPath = "configs/rooms.yaml"
	}
	roomsData, err := os.ReadFile(roomsPath)
	if err != nil {
		logger.Info().Int("count", len(catalog.SeedRooms())).Msg("rooms file not found, using seed rooms")
		return catalog.SeedRooms(), nil
	}

	var roomsConfig struct {
		Rooms []models.Room `yaml:"rooms"`
	}
	if err := yaml.Unmarshal(roomsData, &roomsConfig); err != nil {
		logger.Error().Err(err).Str("rooms_path", roomsPath).Msg("parse rooms")
		return nil, err
	}

	if err := config.ValidateRooms(roomsConfig.Rooms); err != nil {
		return nil, err
	}
	return roomsConfig.Rooms, nil
}

func subscribeAuditLog(bus *events.EventBus, logger *zerolog.Logger) {
	auditLog := logger.With().Str("component", "audit").Logger()
	handler := func(event *events.Event) error {
		auditLog.Info().
			Str("event_type", event.Type).
			RawJSON("payload", event.Payload).
			Msg("booking event")
		return nil
	}
	bus.Subscribe(events.EventBookingCreated, handler)
	bus.Subscribe(events.EventBookingCancelled, handler)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("metrics server started")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
		return err
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
