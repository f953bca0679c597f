package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"imageConverter/codec"
	"imageConverter/config"
	"imageConverter/converter"
	"imageConverter/handlers"
	"imageConverter/middleware"
	"imageConverter/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	engine := codec.NewEngine()
	normalizer := codec.NewNormalizer(engine, logger)
	conv := converter.New(engine, logger)
	svc := service.NewConvertService(conv, normalizer, logger, cfg.WorkerCount)
	handler := handlers.NewConvertHandler(svc, logger, cfg.MaxUploadBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert", handler.Convert)
	mux.HandleFunc("/api/preview", handler.Preview)
	mux.HandleFunc("/health", handler.Health)

	chain := middleware.TraceID(
		middleware.Logging(logger)(
			middleware.Recovery(logger)(mux),
		),
	)

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.Int("workers", cfg.WorkerCount),
	)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, chain))
}
