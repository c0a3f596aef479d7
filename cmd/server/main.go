package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"hotelWeb/internal/config"
	navigation "hotelWeb/internal/modules/navigation/domain"
	navigationtransport "hotelWeb/internal/modules/navigation/interface"
	handler "hotelWeb/internal/modules/realtime/application/handler"
	usecase "hotelWeb/internal/modules/realtime/application/usecase"
	"hotelWeb/internal/modules/realtime/infrastructure"
	realtimetransport "hotelWeb/internal/modules/realtime/interface"
	reservationsinfra "hotelWeb/internal/modules/reservations/infrastructure"
	reservationstransport "hotelWeb/internal/modules/reservations/interface"
	"hotelWeb/internal/platform/broker"
	"hotelWeb/internal/platform/metrics"
	"hotelWeb/internal/platform/ratelimit"
	"hotelWeb/internal/shared/auth"
	"hotelWeb/internal/shared/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Local runs pick up overrides from .env.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	closeLogs := setupLogging(cfg.Logging)
	defer closeLogs()
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID), slog.Any("topics", cfg.Kafka.Topics))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	var recorder reservationsinfra.CallRecorder
	var gauge realtimetransport.ConnectionGauge
	var observe handler.EventObserver
	if cfg.Metrics.Enabled {
		metrics.Register()
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
		recorder = metrics.BackendRecorder{}
		gauge = metrics.WebsocketGauge{}
		observe = metrics.IncEvent
	}
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	rate, err := ratelimit.ParseRate(cfg.RateLimit.Rate)
	if err != nil {
		slog.Error("invalid rate limit", slog.String("rate", cfg.RateLimit.Rate), slog.Any("error", err))
		os.Exit(1)
	}
	store, closeStore, err := ratelimit.NewStore(cfg.RateLimit.RedisURL)
	if err != nil {
		slog.Error("rate limit store setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()
	validator := auth.NewJWTValidator(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey)
	api := e.Group("/api", ratelimit.Middleware(store, rate, ratelimit.Options{
		TrustForwardHeader: cfg.RateLimit.TrustForwardHeader,
		Validator:          validator,
	}))

	// Reservation REST facade
	reservationClient := reservationsinfra.NewReservationHTTPClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil, recorder)
	reservationstransport.NewReservationHandlers(reservationClient).Register(api.Group("/reservations"))

	// Realtime reservation status
	hub := infrastructure.NewHub()
	broadcastUC := usecase.NewBroadcastUseCase(hub)
	registry := infrastructure.NewHandlerRegistry()

	primaryTopic := "hotel.reservations.events"
	if len(cfg.Kafka.Topics) > 0 {
		primaryTopic = cfg.Kafka.Topics[0]
	}
	events := handler.NewReservationEventHandler(primaryTopic, broadcastUC, observe)
	for _, topic := range cfg.Kafka.Topics {
		registry.Register(events.On(topic))
	}
	watchUC := usecase.NewWatchReservationUseCase(validator, reservationClient, events)

	e.GET("/ws/reservations/:id", realtimetransport.NewReservationWebsocketHandler(hub, watchUC, gauge))
	api.POST("/realtime/reservation-events", realtimetransport.NewReservationEventHTTPHandler(validator, events))

	consumers := broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, registry.Topics())

	// Navigation: route table API plus history-mode fallback for every other GET.
	navigationHandlers := navigationtransport.NewNavigationHandlers(navigation.DefaultTable())
	navigationHandlers.Register(api.Group("/navigation"))
	e.GET("/*", navigationHandlers.HistoryFallback)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
	hub.Shutdown()
	consumers.Wait()
	slog.Info("shutdown complete")
}

// setupLogging installs the default slog logger. Output goes to stdout and, when a log
// directory is configured, to a size-rotated file as well.
func setupLogging(cfg config.LoggingConfig) func() {
	closeFile := func() {}
	var writer io.Writer = os.Stdout
	if cfg.Directory != "" {
		file := logging.NewRotatingFile(logging.FileConfig{
			Directory:  cfg.Directory,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
		writer = io.MultiWriter(os.Stdout, file)
		closeFile = func() { _ = file.Close() }
	}

	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	slog.SetDefault(logger)
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")
	return closeFile
}
