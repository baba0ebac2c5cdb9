package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"shopline/cmd"
	"shopline/internal/data/repository"
	"shopline/internal/notification"
	"shopline/internal/otp"
	"shopline/internal/wire"
	"shopline/pkg/database"
	"shopline/pkg/mailer"
	"shopline/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run migrations before opening the pool
	if err := database.RunMigrations(ctx, config.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Redis-backed OTP store
	rdb := otp.NewClient(config.Redis.Addr)
	defer rdb.Close()
	otpStore := otp.NewStore(rdb)

	// Kafka producer for outbound notifications. Closed only after the HTTP
	// server has drained, so in-flight requests can still publish.
	producer := notification.NewProducer(config.Kafka.Brokers, config.Kafka.Topic, config.App.Name, 256, logger)
	producer.Start()

	// Consumer side: worker pool turning events into mail
	sender := mailer.New(config.Email, logger)
	dispatcher := notification.NewDispatcher(repos.Order, sender, logger)
	consumer := notification.NewConsumer(config.Kafka.Brokers, config.Kafka.Group, config.Kafka.Topic, config.Kafka.Workers, logger)
	go func() {
		if err := consumer.Start(ctx, dispatcher.Handle); err != nil {
			logger.Error("Notification consumer stopped", zap.Error(err))
		}
	}()

	// Delivery scheduler: polls paid orders whose slot has arrived
	scheduler := notification.NewDeliveryScheduler(
		repos.Order,
		producer,
		time.Duration(config.Delivery.PollSeconds)*time.Second,
		logger,
	)
	go scheduler.Run(ctx)

	// Wire all dependencies
	app := wire.Wiring(repos, config, otpStore, producer, logger)

	// Start server; blocks until shutdown
	serveErr := cmd.APIServer(ctx, app.Router, config.App.Port, logger)

	// Flush whatever the last requests queued before reporting the outcome
	producer.Close()
	producer.WaitClosed()

	if serveErr != nil {
		logger.Fatal("Server error", zap.Error(serveErr))
	}

	logger.Info("Shutdown complete")
}
