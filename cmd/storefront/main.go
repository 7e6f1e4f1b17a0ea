package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/devopsinterview/storefront/pkg/dependency_container"
	infraLogger "github.com/devopsinterview/storefront/pkg/infra/logger"
	_ "github.com/devopsinterview/storefront/pkg/infra/migrations"
	"github.com/devopsinterview/storefront/pkg/infra/prometheus"
	"github.com/devopsinterview/storefront/pkg/server"
	"github.com/devopsinterview/storefront/pkg/version"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../../config"
	}
	if err := config.Load(configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	logger := infraLogger.NewLogger(cfg.Server)
	logger.WithFields(logrus.Fields{
		"app":         version.AppName,
		"version":     version.Version,
		"environment": cfg.Server.Environment,
	}).Info("booting")

	if cfg.Metrics.Enabled {
		prometheus.Initialize()
	}

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to build dependency container")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	container.Start(ctx)

	srv := server.NewStorefrontServer(server.StorefrontServerDI{
		Config:  cfg,
		Logger:  logger,
		Routers: container.Routers,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
	if err := container.Close(); err != nil {
		logger.WithError(err).Error("failed to release resources")
	}
	logger.Info("storefront stopped")
}
