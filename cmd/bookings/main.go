package main

import (
	"context"

	"evshare/internal/bookings/handler"
	"evshare/internal/bookings/repository"
	"evshare/internal/bookings/service"
	"evshare/internal/bookings/validator"
	"evshare/pkg/app"
	"evshare/pkg/config"
	"evshare/pkg/events"
	kafka_config "evshare/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService, publisher := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
		cfg.Client.GracefulShutdown()
	})
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, events.Publisher) {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	groupReader := repository.NewMongoGroupReader(cfg)
	ensureIndexes(cfg, bookingRepo, lockRepo)

	kafkaCfg := kafka_config.Load()
	publisher, err := events.NewKafkaPublisher(kafkaCfg, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		groupReader,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, publisher
}

func ensureIndexes(cfg *config.Config, bookingRepo repository.BookingRepository, lockRepo repository.BookingLockRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}
	if err := lockRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking lock indexes", "error", err)
	}
}
