package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-order-api/internal/config"
	"go-order-api/internal/event"
	"go-order-api/internal/handler"
	"go-order-api/internal/repository"
	"go-order-api/internal/service"
	"go-order-api/internal/ws"
	"go-order-api/pkg/database"
	logx "go-order-api/pkg/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Env
	cfg, envLoaded, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment()})
	if !envLoaded {
		logx.Warn().Msg(".env file not found, using process environment")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, cfg.Environment().IsProduction())
	if err != nil {
		logx.Fatal().Err(err).Msg("connect database")
	}
	// Auto Migrate (untuk production sebaiknya pakai tools migrasi terpisah)
	if err := database.Migrate(db); err != nil {
		logx.Fatal().Err(err).Msg("migrate database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 4. Stock notifications: websocket clients, plus Redis when configured
	notifiers := event.Fanout{wsHub}
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = cfg.Redis.New(ctx)
		if err != nil {
			logx.Fatal().Err(err).Msg("connect redis")
		}
		notifiers = append(notifiers, event.NewRedisPublisher(rdb, cfg.StockEventsChannel))
		logx.Info().Str("channel", cfg.StockEventsChannel).Msg("publishing stock events to redis")
	}

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	lineRepo := repository.NewOrderLineRepo(db)

	productService := service.NewProductService(productRepo, lineRepo, db, notifiers)
	orderService := service.NewOrderService(orderRepo, productRepo, lineRepo, db, notifiers)
	dashService := service.NewDashboardService(productRepo, cfg.LowStockThreshold)

	// 6. Setup Fiber
	app := handler.NewApp(cfg.AppName)

	// 7. Routes
	handler.SetupRoutes(app, handler.Handlers{
		Products:  handler.NewProductHandler(productService),
		Orders:    handler.NewOrderHandler(orderService),
		Dashboard: handler.NewDashboardHandler(dashService),
		Health:    handler.NewHealthHandler(db),
	})
	handler.SetupWebsocket(app, wsHub)

	// 8. Graceful Shutdown
	go func() {
		logx.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logx.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logx.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		logx.Error().Err(err).Msg("server forced to shutdown")
	}

	cancel()
	<-wsHub.Done()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logx.Warn().Err(err).Msg("close redis")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logx.Info().Msg("server exited")
}
