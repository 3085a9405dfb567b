package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "cafeboard/internal"
)

func main() {
	//decimals at json as string
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true

	cfg := NewConfig()
	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger := z.Sugar()

	backend := NewBackendClient(cfg, sugaredLogger)
	live := NewLiveList()
	notifier := NewChimeNotifier(os.Stdout, sugaredLogger)
	service := NewService(backend, live, notifier, sugaredLogger)
	handlers := NewHandlers(service, sugaredLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial bulk fetch before the channel opens, the same order the
	// dashboard loads in.
	if err = service.Resync(ctx); err != nil {
		sugaredLogger.Fatalf("initial sync failed: %s", err.Error())
	}

	channel := NewChannel(cfg, service, sugaredLogger)
	channelErr := make(chan error, 1)
	go func() {
		channelErr <- channel.Run(ctx)
	}()

	app := fiber.New()
	app.Use(logger.New())
	app.Use(PrometheusMiddleware())

	app.Get("/health", handlers.Health)
	app.Get("/metrics", MetricsHandler())

	api := app.Group("/api")
	api.Get("/live", handlers.GetLiveOrders)
	api.Get("/stats", handlers.GetStats)
	api.Get("/orders", handlers.GetOrders)
	api.Patch("/orders/:id/status", handlers.UpdateOrderStatus)
	api.Patch("/orders/:id/paid", handlers.MarkOrderPaid)

	go func() {
		if err := app.Listen(cfg.RunAddress); err != nil {
			sugaredLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		sugaredLogger.Info("Shutting down service...")
	case err = <-channelErr:
		if err != nil {
			sugaredLogger.Errorf("push channel gave up: %s", err.Error())
		}
	}

	cancel()
	if err = app.Shutdown(); err != nil {
		sugaredLogger.Errorf("server shutdown: %s", err.Error())
	}
}
