package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/memebin/memebin/internal/conf"
	"github.com/memebin/memebin/internal/data"
	memebiz "github.com/memebin/memebin/internal/meme/biz"
	memedata "github.com/memebin/memebin/internal/meme/data"
	memeservice "github.com/memebin/memebin/internal/meme/service"
	"github.com/memebin/memebin/internal/pkg/logger"
	"github.com/memebin/memebin/internal/server"
	"go.uber.org/zap"
)

var configFile = flag.String("config", "config.yaml", "config file path")

func main() {
	flag.Parse()

	// Local overrides, ignored when absent
	_ = godotenv.Load()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("config loaded successfully")

	d, cleanup, err := data.NewData(config, log)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Single repository and store instances, shared by every handler
	memeRepo := memedata.NewMemeRepo(d.DB)
	fileStore := memedata.NewMinIOFileStore(d.MinIOClient)

	memeUseCase := memebiz.NewMemeUseCase(memeRepo, fileStore, log)
	memeService := memeservice.NewMemeService(memeUseCase, log)

	httpServer := server.NewHTTPServer(config, log, memeService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
