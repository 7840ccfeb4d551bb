package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carcare/internal/config"
	"carcare/internal/database"
	"carcare/internal/handlers"
	"carcare/internal/logging"
	"carcare/internal/metrics"
	"carcare/internal/notify"
	"carcare/internal/repositories"
	"carcare/internal/services"
	"carcare/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const shutdownTimeout = 20 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging, cfg.App)

	srv, err := newServer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize server")
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", cfg.App.Port).Msg("starting server")
		if err := srv.app.Listen(cfg.App.Port); err != nil {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
		os.Exit(1)
	}
	logger.Info().Msg("server gracefully stopped")
}

// server owns every long-lived resource so they can be released in order.
type server struct {
	app        *fiber.App
	db         *gorm.DB
	dispatcher *notify.Dispatcher
	mq         *rabbitmq.Client
	logger     zerolog.Logger
}

func newServer(cfg *config.Config, logger zerolog.Logger) (*server, error) {
	metrics.Register()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewDispatcher(notify.NewSender(cfg.Mail, logger), cfg.Mail, logger)
	dispatcher.Start()

	// Events are optional; without a broker the service publishes nothing.
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQ.URL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange})
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ unavailable, booking events disabled")
			mqClient = nil
		} else {
			publisher = mqClient
		}
	}

	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	catalogService := services.NewCatalogService(repositories.NewGORMServiceRepository(db))
	bookingService := services.NewBookingService(
		repositories.NewGORMBookingRepository(db),
		dispatcher,
		notify.NewRenderer(cfg.Mail.BrandName),
		publisher,
		logger,
	)

	app := handlers.NewApp(cfg, handlers.Deps{
		Auth:     authService,
		Catalog:  catalogService,
		Bookings: bookingService,
		Ping:     func(ctx context.Context) error { return database.Ping(ctx, db) },
	}, logger)

	return &server{
		app:        app,
		db:         db,
		dispatcher: dispatcher,
		mq:         mqClient,
		logger:     logger,
	}, nil
}

// shutdown stops HTTP first so no new bookings enqueue mail, then drains the
// mail queue, then closes the broker and the database.
func (s *server) shutdown(ctx context.Context) error {
	var errs []error
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if err := s.dispatcher.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("mail dispatcher: %w", err))
	}
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			errs = append(errs, fmt.Errorf("rabbitmq: %w", err))
		}
	}
	if err := database.Close(s.db); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	return errors.Join(errs...)
}
