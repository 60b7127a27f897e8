package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ats-ng/scmc-video-upload-api/internal/config"
	"github.com/ats-ng/scmc-video-upload-api/internal/handlers"
	"github.com/ats-ng/scmc-video-upload-api/internal/index"
	"github.com/ats-ng/scmc-video-upload-api/internal/logger"
	"github.com/ats-ng/scmc-video-upload-api/internal/metrics"
	"github.com/ats-ng/scmc-video-upload-api/internal/middleware"
	"github.com/ats-ng/scmc-video-upload-api/internal/service"
	"github.com/ats-ng/scmc-video-upload-api/internal/storage"
)

func main() {
	// load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	dev := cfg.App.Env == "development"

	// logger
	log, err := logger.New(dev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// object store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := storage.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Endpoint, cfg.S3.PathStyle)
	if err != nil {
		log.Fatalf("s3 init: %v", err)
	}

	// index + service
	idx := index.New(store, cfg.S3.IndexKey)
	svc := service.New(store, idx, log)
	h := handlers.NewHandler(svc, log)

	// fiber app & routes
	app := fiber.New(fiber.Config{
		ReadTimeout:       30 * time.Second,
		BodyLimit:         cfg.App.MaxUploadMB << 20,
		StreamRequestBody: true,
	})

	upload := []fiber.Handler{h.Upload}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rl := middleware.NewRateLimiter(rdb, "ratelimit:upload", cfg.Redis.UploadLimit, cfg.RateWindow)
		upload = []fiber.Handler{rl.ByIP(), h.Upload}
	}

	app.Get("/", h.Root)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/upload", upload...)
	app.Get("/stream/:id", h.Stream)
	app.Get("/media/list", h.List) // before /media/:id, fiber matches in order
	app.Get("/media/:id", h.Info)
	app.Delete("/media/:id", h.Delete)

	// prometheus scrape endpoint on its own listener
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("metrics listener: %v", err)
		}
	}()

	// start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		log.Infof("starting media gateway on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("shutdown requested")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	log.Info("shutdown completed")
}
