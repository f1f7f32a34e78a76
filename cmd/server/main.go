package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"event-booking/config"
	deliveryHttp "event-booking/internal/delivery/http"
	"event-booking/internal/delivery/kafka/consumer"
	"event-booking/internal/delivery/kafka/producer"
	"event-booking/internal/notification"
	"event-booking/internal/service"
	storePg "event-booking/internal/store/postgres"
	"event-booking/internal/worker"
	"event-booking/pkg/gateway"
	pkgKafka "event-booking/pkg/kafka"
	pkgLog "event-booking/pkg/logger"
	pkgPg "event-booking/pkg/postgres"
	pkgRedis "event-booking/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.New(pkgLog.Config{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})

	db, err := pkgPg.Connect(ctx, pkgPg.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		Database:        cfg.Postgres.Database,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	redisCli, err := pkgRedis.Connect(ctx, pkgRedis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
	}
	defer redisCli.Close()

	st := storePg.New(db, l)

	// Kafka is optional; without it booking notifications are skipped.
	var prod producer.Producer
	var cons *consumer.Consumer
	if cfg.Kafka.Enabled {
		kafkaSyncProd, err := pkgKafka.NewSyncProducer(pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		defer kafkaSyncProd.Close()

		kafkaConsGr, err := pkgKafka.NewConsumerGroup(pkgKafka.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.ConsumerGroupID,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka consumer: %v", err)
		}
		defer kafkaConsGr.Close()

		prod = producer.NewProducer(kafkaSyncProd, l)
		cons = consumer.NewConsumer(kafkaConsGr, notification.NewLogMailer(l), l)
	}

	gw := gateway.NewClient(gateway.Config{
		KeyID:     cfg.Gateway.KeyID,
		KeySecret: cfg.Gateway.KeySecret,
		BaseURL:   cfg.Gateway.BaseURL,
		Timeout:   cfg.Gateway.Timeout,
	})

	authSvc := service.NewAuthService(st, service.AuthConfig{
		Secret:   cfg.JWT.Secret,
		TokenTTL: cfg.JWT.Expiry,
	}, l)
	eventSvc := service.NewEventService(st, l)
	bookingSvc := service.NewBookingService(st, service.NewTicketIssuer(), prod, cfg.Booking.HoldTTL, l)
	paymentSvc := service.NewPaymentService(st, gw, bookingSvc, cfg.Gateway.KeyID, l)
	ticketSvc := service.NewTicketService(st, l)

	reaper := worker.NewReaper(bookingSvc, cfg.Booking.SweepInterval, cfg.Booking.SweepBatchSize, l)
	reaper.Start(ctx)
	defer reaper.Stop()

	if cons != nil {
		cons.Start(ctx)
		defer cons.Close()
	}

	h := deliveryHttp.NewHandler(authSvc, eventSvc, bookingSvc, paymentSvc, ticketSvc, cfg.Gateway.WebhookSecret, l)
	limiter := deliveryHttp.NewRateLimiter(redisCli, cfg.Booking.RateLimit, cfg.Booking.RateLimitWindow)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      deliveryHttp.NewRouter(h, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Infof(ctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		l.Info(ctx, "Server shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Errorf(ctx, "Server error: %v", err)
	}

	l.Info(ctx, "Server exited")
}
