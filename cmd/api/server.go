package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tomb "gopkg.in/tomb.v2"

	"github.com/haldorsen/matchbook/config"
	"github.com/haldorsen/matchbook/internal/api/handlers"
	"github.com/haldorsen/matchbook/internal/api/logger"
	"github.com/haldorsen/matchbook/internal/api/routes"
	"github.com/haldorsen/matchbook/internal/matching"
	"github.com/haldorsen/matchbook/internal/storage"
	"github.com/haldorsen/matchbook/internal/storage/file"
	"github.com/haldorsen/matchbook/internal/storage/memory"
	"github.com/haldorsen/matchbook/internal/storage/postgres"
	"github.com/haldorsen/matchbook/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetMinLevel(cfg.Logger.Level)

	logger.Info("Starting matching engine API server", map[string]interface{}{
		"version": "1.0.0",
	})

	engine := matching.NewEngine()
	for _, symbol := range cfg.Engine.Pairs {
		created := engine.RegisterPair(symbol)
		logger.Info("Pair registered at startup", map[string]interface{}{"symbol": symbol, "created": created})
	}

	orderStore, tradeStore := buildStorageLayers(cfg)
	engineHolder := handlers.NewEngineHolder(engine)
	if orderStore != nil || tradeStore != nil {
		engineHolder.WithStores(&handlers.Stores{Orders: orderStore, Trades: tradeStore})
	}
	defer closeStores(orderStore, tradeStore)

	handler := routes.SetupRoutes(engineHolder)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t, ctx := tomb.WithContext(ctx)

	t.Go(func() error {
		logger.Info("Server starting", map[string]interface{}{
			"port":    cfg.Server.Port,
			"address": fmt.Sprintf("http://localhost:%s", cfg.Server.Port),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	t.Go(func() error {
		<-ctx.Done()
		logger.Info("Server shutting down...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := t.Wait(); err != nil {
		logger.Error("Server exited with error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	logger.Info("Server exited successfully", nil)
}

// buildStorageLayers constructs the persistence collaborators to attach to
// the API layer, layered memory -> Redis -> Postgres -> file, based on
// configuration. The matching core itself never sees these; handlers call
// them after Engine.Submit returns.
func buildStorageLayers(cfg *config.Config) (storage.OrderStore, storage.TradeStore) {
	var orderStores []storage.OrderStore
	var tradeStores []storage.TradeStore

	if cfg.Memory.Enabled {
		memOrderStore := memory.NewInMemoryOrderStore(cfg.Memory.MaxOrders)
		memTradeStore := memory.NewInMemoryTradeStore(cfg.Memory.MaxTrades)

		orderStores = append(orderStores, memOrderStore)
		tradeStores = append(tradeStores, memTradeStore)

		logger.Info("In-memory storage layer enabled", map[string]interface{}{
			"max_orders": cfg.Memory.MaxOrders,
			"max_trades": cfg.Memory.MaxTrades,
		})
	}

	if cfg.Redis.Enabled {
		redisCfg := redis.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			TLSEnabled:   cfg.Redis.TLSEnabled,
			OrderTTL:     cfg.Redis.OrderTTL,
			MaxOrders:    cfg.Redis.MaxOrders,
			MaxTrades:    cfg.Redis.MaxTrades,
		}

		redisOrderStore, err := redis.NewRedisOrderStore(redisCfg)
		if err != nil {
			logger.Warn("Failed to connect to Redis, continuing without distributed cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			logger.Info("Redis cache connected successfully", map[string]interface{}{
				"host": cfg.Redis.Host,
				"port": cfg.Redis.Port,
			})
			orderStores = append(orderStores, redisOrderStore)

			redisTradeStore, _ := redis.NewRedisTradeStore(redisCfg)
			tradeStores = append(tradeStores, redisTradeStore)
		}
	}

	if cfg.Database.Enabled {
		pgCfg := postgres.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Name,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			MaxConns:        cfg.Database.MaxConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			SSLMode:         cfg.Database.SSLMode,
		}

		pgOrderStore, err := postgres.NewPostgresOrderStore(pgCfg)
		if err != nil {
			logger.Warn("Failed to connect to PostgreSQL, continuing without persistent storage", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			logger.Info("PostgreSQL connected successfully", map[string]interface{}{
				"host":     cfg.Database.Host,
				"database": cfg.Database.Name,
			})
			orderStores = append(orderStores, pgOrderStore)

			pgTradeStore, _ := postgres.NewPostgresTradeStore(pgCfg)
			tradeStores = append(tradeStores, pgTradeStore)
		}
	}

	if fileTradeStore, err := file.NewFileTradeStore(cfg.Engine.TradeLogPath); err == nil {
		tradeStores = append(tradeStores, fileTradeStore)
		logger.Info("Trade file log enabled", map[string]interface{}{
			"path": cfg.Engine.TradeLogPath,
		})
	}

	var orderStore storage.OrderStore
	var tradeStore storage.TradeStore

	switch len(orderStores) {
	case 0:
		orderStore = nil
	case 1:
		orderStore = orderStores[0]
	default:
		orderStore = storage.NewCompositeOrderStore(orderStores...)
	}

	switch len(tradeStores) {
	case 0:
		tradeStore = nil
	case 1:
		tradeStore = tradeStores[0]
	default:
		tradeStore = storage.NewCompositeTradeStore(tradeStores...)
	}

	logger.Info("Storage layers initialized", map[string]interface{}{
		"order_layers": len(orderStores),
		"trade_layers": len(tradeStores),
	})

	return orderStore, tradeStore
}

func closeStores(orderStore storage.OrderStore, tradeStore storage.TradeStore) {
	if orderStore != nil {
		if err := orderStore.Close(); err != nil {
			logger.Error("failed to close order store", map[string]interface{}{"error": err.Error()})
		}
	}
	if tradeStore != nil {
		if err := tradeStore.Close(); err != nil {
			logger.Error("failed to close trade store", map[string]interface{}{"error": err.Error()})
		}
	}
}
