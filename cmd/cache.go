package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-RentalService/internal/config"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache/ratecache"
	"github.com/m04kA/SMC-RentalService/internal/service/rates"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

// newRateCache кэш снимков цен в Redis. Без redis.addr кэш отключён.
func newRateCache(cfg config.RedisConfig, log *logger.Logger) (rates.SnapshotCache, func(), error) {
	if !cfg.Enabled() {
		log.Info("Rate cache disabled")
		return ratecache.Noop{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis %s: %w", cfg.Addr, err)
	}

	log.Info("Rate cache enabled (redis=%s, ttl=%ds)", cfg.Addr, cfg.TTL)
	cache := ratecache.New(client, time.Duration(cfg.TTL)*time.Second, cfg.Prefix)
	return cache, func() { _ = client.Close() }, nil
}
