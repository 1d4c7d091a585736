package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/01moynul/storefront-golang/internal/account"
	"github.com/01moynul/storefront-golang/internal/cache"
	"github.com/01moynul/storefront-golang/internal/catalog"
	"github.com/01moynul/storefront-golang/internal/commerce"
	"github.com/01moynul/storefront-golang/internal/config"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/logging"
	"github.com/01moynul/storefront-golang/internal/memstore"
	"github.com/01moynul/storefront-golang/internal/outbox"
	"github.com/01moynul/storefront-golang/internal/payment"
)

// store is everything the services persist. Both backends implement all of it.
type store interface {
	commerce.Store
	catalog.Store
	account.Store
	outbox.Source
}

// openStore returns the configured backend and a func that releases it.
func openStore(cfg *config.Config) (store, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		s := memstore.New()
		s.SeedDemo()
		logging.Info("store", "using in-memory store with demo catalog")
		return s, func() {}, nil
	}

	db, err := database.OpenDB(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to primary database: %w", err)
	}
	return database.NewStore(db), func() { db.Close() }, nil
}

// openCache connects to Redis when REDIS_ADDR is set. A nil cache disables caching.
func openCache(ctx context.Context, cfg *config.Config) (catalog.Cache, func(), error) {
	if cfg.RedisAddr == "" {
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return cache.NewRedisCache(client, cfg.CatalogCacheTTL), func() { client.Close() }, nil
}

// newGateway builds the payment provider behind the circuit breaker.
func newGateway(cfg *config.Config) commerce.PaymentGateway {
	var gw commerce.PaymentGateway = payment.SandboxGateway{DeclineOver: cfg.SandboxDeclineOver}
	if cfg.PaymentProvider == config.ProviderStripe {
		gw = payment.NewStripeGateway(payment.StripeConfig{
			SecretKey:  cfg.StripeSecretKey,
			SuccessURL: cfg.StripeSuccessURL,
			CancelURL:  cfg.StripeCancelURL,
			Currency:   cfg.StripeCurrency,
		}, nil)
	}
	return payment.NewBreaker(gw, cfg.PaymentTimeout, cfg.PaymentBreakerOpen)
}

// newPublisher sends to Kafka when brokers are configured and logs otherwise.
func newPublisher(cfg *config.Config) (outbox.Publisher, func()) {
	brokers := outbox.ParseBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		logging.Info("outbox_relay", "no KAFKA_BROKERS set, events are logged only")
		return outbox.LogPublisher{}, func() {}
	}
	p := outbox.NewKafkaPublisher(brokers, cfg.OutboxTopic)
	return p, func() {
		if err := p.Close(); err != nil {
			logging.Error("kafka_close", err)
		}
	}
}
