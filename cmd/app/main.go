package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/bustrip/config"
	"github.com/Domenick1991/bustrip/internal/bootstrap"
	"github.com/Domenick1991/bustrip/internal/cache"
	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/Domenick1991/bustrip/internal/events"
	"github.com/Domenick1991/bustrip/internal/kafka"
	"github.com/Domenick1991/bustrip/internal/logger"
	"github.com/Domenick1991/bustrip/internal/notify"
	"github.com/Domenick1991/bustrip/internal/repository"
	"github.com/Domenick1991/bustrip/internal/service/booking"
	"github.com/Domenick1991/bustrip/internal/service/search"
	"github.com/Domenick1991/bustrip/internal/service/traveler"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := config.LoadEnv(os.Getenv("ENV_FILE")); err != nil {
		logrus.Fatalf("load env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var seats booking.SeatStore = cache.NewMemorySeats()
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		seats = redisCache
		log.WithField("addr", cfg.Redis.Addr).Info("seat locks stored in redis")
	}

	var busOpts []events.Option
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka not reachable, booking events will not be published until it is")
		}
		busOpts = append(busOpts, events.WithProducer(producer, cfg.Kafka.BookingEventsTopic))
	}
	bus := events.NewBus(log, busOpts...)
	if !cfg.Kafka.Enabled {
		// without kafka the worker never sees events, so notify in-process
		sender := notify.NewSender(log)
		bus.Subscribe(func(ctx context.Context, event domain.Event) {
			_ = sender.Send(ctx, event)
		})
	}

	profiles := repository.NewProfileRepository()
	travelerService := traveler.NewTravelerService(profiles, log)
	searchService := search.NewSearchService(cfg.Booking.SearchDelay(), log)
	bookingService := booking.NewBookingService(
		profiles,
		booking.SimulatedSettler{Delay: cfg.Booking.SettlementDelay()},
		log,
		cfg.Booking.HoldTTL(),
		booking.WithSeatStore(seats),
		booking.WithOfferCatalog(searchService),
		booking.WithEvents(bus),
	)

	if cfg.Demo.SeedProfile {
		snap, err := travelerService.Register(ctx, traveler.RegisterInput{
			ID:          "1",
			Name:        "Demo Traveler",
			Phone:       "9999999999",
			DemoHistory: true,
		})
		if err != nil {
			log.WithError(err).Fatal("seed demo profile")
		}
		log.WithField("profile_id", snap.ID).Info("demo profile seeded")
	}

	go bookingService.RunExpirySweeper(ctx, cfg.Booking.ExpirationSweep())

	if err := bootstrap.Run(ctx, cfg, log, bootstrap.Services{
		Search:    searchService,
		Bookings:  bookingService,
		Travelers: travelerService,
	}); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
