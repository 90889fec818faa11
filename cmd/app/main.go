package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "hallbook/docs"

	"hallbook/internal/availability"
	"hallbook/internal/booking"
	"hallbook/internal/config"
	"hallbook/internal/db"
	"hallbook/internal/events"
	"hallbook/internal/hall"
	"hallbook/internal/interval"
	"hallbook/internal/logger"
	"hallbook/internal/notify"
	"hallbook/internal/server"
	"hallbook/internal/user"

	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 30 * time.Second

// @title Hallbook API
// @version 1.0
// @description Sports hall booking with conflict-free reservations.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting Hallbook application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	txm, err := db.NewTxManager(database,
		db.WithTimeout(cfg.TxTimeout),
		db.WithRetry(db.WithMaxAttempts(cfg.TxMaxAttempts), db.WithBaseDelay(cfg.TxBaseDelay)),
		db.WithLogger(logger.L()),
	)
	if err != nil {
		logger.Fatalf("Failed to create transaction manager: %v", err)
	}

	userRepo := user.NewRepository(database)
	hallRepo := hall.NewRepository(database)
	intervals := interval.NewStore()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	sender := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom, cfg.EmailFromName)
	notifier := notify.New(rdb, userRepo, sender, cfg.BookingTimezone)
	defer notifier.Close()
	logger.Info("Email service initialized")

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Fatalf("Failed to create event publisher: %v", err)
		}
		publisher = kp
		logger.Info("Publishing booking events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	bookingService := booking.NewService(txm, booking.NewRepository(), intervals, hallRepo,
		booking.WithNotifier(notifier),
		booking.WithPublisher(publisher),
		booking.WithPolicy(booking.Policy{
			Location:            cfg.BookingTimezone,
			EnforceOpeningHours: cfg.EnforceOpeningHours,
		}),
		booking.WithLogger(logger.L()),
	)
	hallService := hall.NewService(txm, hallRepo, intervals)
	availabilityService := availability.NewService(txm, hallRepo, intervals)

	srv := server.New(cfg, server.Handlers{
		Users:        user.NewHandler(userRepo),
		Halls:        hall.NewHandler(hallService),
		Bookings:     booking.NewHandler(bookingService),
		Availability: availability.NewHandler(availabilityService, cfg.BookingTimezone),
	}, database)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		notifier.Start(ctx)
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	cancel()
	workers.Wait()

	logger.Info("Server stopped")
}
