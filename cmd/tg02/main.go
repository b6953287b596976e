package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miroshnikov-aleks/TG02/pkg/bot"
	"github.com/miroshnikov-aleks/TG02/pkg/bus"
	"github.com/miroshnikov-aleks/TG02/pkg/channels"
	"github.com/miroshnikov-aleks/TG02/pkg/config"
	"github.com/miroshnikov-aleks/TG02/pkg/logger"
	"github.com/miroshnikov-aleks/TG02/pkg/storage"
	"github.com/miroshnikov-aleks/TG02/pkg/translate"
	"github.com/miroshnikov-aleks/TG02/pkg/weather"
)

const defaultConfigPath = "config.json"

func main() {
	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		logger.FatalCF("main", "Failed to load config", map[string]interface{}{
			"path":  defaultConfigPath,
			"error": err.Error(),
		})
	}
	if err := cfg.Validate(); err != nil {
		logger.FatalCF("main", "Invalid config", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.FileEnabled {
		if err := logger.EnableFileLogging(cfg.Logging.FilePath); err != nil {
			logger.WarnCF("main", "File logging unavailable", map[string]interface{}{
				"path":  cfg.Logging.FilePath,
				"error": err.Error(),
			})
		}
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	msgBus := bus.NewMessageBus()

	channel, err := channels.NewTelegramChannel(cfg.Telegram, msgBus)
	if err != nil {
		logger.FatalCF("main", "Failed to create telegram channel", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := channel.Start(ctx); err != nil {
		logger.FatalCF("main", "Failed to start telegram channel", map[string]interface{}{
			"error": err.Error(),
		})
	}

	images, err := storage.NewImageStore(cfg.Storage.ImagesDir)
	if err != nil {
		logger.FatalCF("main", "Failed to prepare image storage", map[string]interface{}{
			"dir":   cfg.Storage.ImagesDir,
			"error": err.Error(),
		})
	}

	weatherTimeout := time.Duration(cfg.Weather.TimeoutSeconds) * time.Second
	dispatcher := bot.NewDispatcher(
		msgBus,
		channel,
		bot.NewClassifier(channel.BotUsername()),
		weather.NewClient(cfg.Weather.APIKey, weatherTimeout),
		translate.NewClient(),
		images,
		bot.Options{
			City:           cfg.Weather.City,
			VoicePath:      cfg.Voice.FilePath,
			WeatherTimeout: weatherTimeout,
		},
	)

	if err := dispatcher.Run(ctx); err != nil {
		logger.ErrorCF("main", "Dispatcher exited with error", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	logger.InfoC("main", "Shutdown complete")
}
