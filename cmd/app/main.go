package main

import (
	"context"
	"fmt"
	"os"
	"time"

	httpin "return_app/internal/adapters/inbound/http"
	kafkain "return_app/internal/adapters/inbound/kafka"
	"return_app/internal/adapters/outbound/cache"
	"return_app/internal/adapters/outbound/graphql"
	kafkaout "return_app/internal/adapters/outbound/kafka"
	"return_app/internal/adapters/outbound/mail"
	"return_app/internal/adapters/outbound/postgres"
	"return_app/internal/app/config"
	"return_app/internal/app/logger"
	"return_app/internal/app/runtime"
	"return_app/internal/core/service"
	"return_app/internal/migrations"
	"return_app/internal/ports/outbound"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync(log) }()

	ctx, stop := runtime.NotifyContext(context.Background(), log)
	defer stop()

	db, err := postgres.New(ctx, postgres.PoolConfig{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		migCtx, cancel := context.WithTimeout(ctx, cfg.MigrateTimeout)
		err := postgres.RunMigrations(migCtx, db.Pool, migrations.FS, log.Named("migrate"))
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	repo := postgres.NewReturnRepository(db.Pool)
	memCache := cache.NewMemoryCache(cfg.CacheMaxEntries, cfg.CacheTTL)
	gateway := graphql.NewGateway(graphql.NewClient(graphql.Config{
		Endpoint:   cfg.GraphQLURL,
		Timeout:    cfg.GraphQLTimeout,
		AuthHeader: cfg.GraphQLAuthHeader,
		AppToken:   cfg.GraphQLAppToken,
	}))

	g, gctx := errgroup.WithContext(ctx)

	// notifications: queued through Kafka when brokers are configured,
	// mailed directly otherwise, dropped without a mail endpoint.
	var notifier outbound.Notifier
	switch {
	case cfg.MailURL == "":
		log.Info("customer notifications disabled: MAIL_URL not set")
	case len(cfg.KafkaBrokers) > 0:
		sender := mail.NewSender(cfg.MailURL, cfg.MailTimeout)
		producer := kafkaout.NewProducer(kafkaout.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			WriteTimeout: 10 * time.Second,
		})
		defer func() { _ = producer.Close() }()
		notifier = producer

		consumer := kafkain.NewConsumer(kafkain.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaConsumerGroup,
			MinBytes: cfg.KafkaMinBytes,
			MaxBytes: cfg.KafkaMaxBytes,
		}, sender, log)
		defer func() { _ = consumer.Close() }()
		g.Go(func() error { return consumer.Run(gctx) })
	default:
		async := mail.NewAsyncNotifier(mail.NewSender(cfg.MailURL, cfg.MailTimeout), cfg.MailTimeout, log)
		defer async.Wait()
		notifier = async
	}

	returns := service.NewReturnService(gateway, repo, memCache, notifier, log.Named("returns"))
	browse := service.NewBrowseService(gateway, cfg.BrowseSessionTTL, log.Named("browse"))

	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, back office disabled")
	}

	router := httpin.NewRouter(httpin.RouterConfig{
		TokenCookie:    cfg.GraphQLAuthHeader,
		AdminPageSize:  cfg.AdminPageSize,
		AdminUser:      cfg.AdminUser,
		AdminPassword:  cfg.AdminPassword,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Health:         db.Ping,
	}, browse, returns, log)
	httpSrv := runtime.NewHTTPServer(cfg.HTTPAddr, router, log)
	g.Go(func() error { return httpSrv.Run(gctx, cfg.ShutdownTimeout) })

	g.Go(func() error {
		sweepBrowses(gctx, browse, cfg.BrowseSessionTTL, log)
		return nil
	})

	err = g.Wait()

	hits, misses, evictions := memCache.Stats()
	log.Info("shutdown",
		zap.Uint64("cache_hits", hits),
		zap.Uint64("cache_misses", misses),
		zap.Uint64("cache_evictions", evictions),
		zap.Error(err))
	return err
}

// sweepBrowses drops idle browse sessions every half TTL.
func sweepBrowses(ctx context.Context, browse *service.BrowseService, ttl time.Duration, log *zap.Logger) {
	every := ttl / 2
	if every < time.Minute {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := browse.Sweep(); n > 0 {
				log.Debug("idle browses dropped", zap.Int("dropped", n), zap.Int("open", browse.Len()))
			}
		}
	}
}
