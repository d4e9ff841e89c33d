package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-show-booking/internal/config"
	"github.com/iliyamo/movie-show-booking/internal/handler"
	"github.com/iliyamo/movie-show-booking/internal/logging"
	"github.com/iliyamo/movie-show-booking/internal/metrics"
	"github.com/iliyamo/movie-show-booking/internal/middleware"
	"github.com/iliyamo/movie-show-booking/internal/queue"
	"github.com/iliyamo/movie-show-booking/internal/repository"
	"github.com/iliyamo/movie-show-booking/internal/router"
	"github.com/iliyamo/movie-show-booking/internal/service"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	refs, err := service.NewRefGenerator(cfg.RefStrategy)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores are owned here and live exactly as long as the process.
	catalog := repository.NewShowCatalog(repository.DefaultShows())
	ledger := repository.NewBookingLedger()

	// Event delivery outlives the HTTP server so in-flight bookings can
	// still be queued while it shuts down.
	eventsCtx, stopEvents := context.WithCancel(context.Background())
	eventsDone := make(chan struct{})
	var publisher service.EventPublisher
	if cfg.EventsEnabled {
		async := service.NewAsyncPublisher(service.NewAMQPPublisher(cfg.AMQPURL, cfg.BookingQueue, log), cfg.EventBuffer, service.DefaultPublishTimeout, log)
		publisher = async
		go func() {
			defer close(eventsDone)
			async.Run(eventsCtx)
		}()
		consumer := &queue.Consumer{URL: cfg.AMQPURL, Queue: cfg.BookingQueue, LogDir: cfg.BookingLogDir, Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("booking consumer stopped")
			}
		}()
	} else {
		close(eventsDone)
	}
	bookings := service.NewBookingService(catalog, ledger, refs, publisher, log)

	flash, err := handler.NewFlasher(cfg.FlashSecret)
	if err != nil {
		log.WithError(err).Fatal("flash key")
	}
	if cfg.FlashSecret == "" {
		log.Warn("FLASH_SECRET not set, using a random per-process key")
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig(), log)
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.WriterLevel(logrus.WarnLevel))
	e.Use(metrics.Middleware()) // outermost so it sees the final status
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(catalog, flash), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, handler.NewBookingHandler(bookings, flash), middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
	stopEvents()
	<-eventsDone
	log.Info("server stopped")
}
