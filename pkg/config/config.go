package config

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Weather  WeatherConfig  `json:"weather"`
	Voice    VoiceConfig    `json:"voice"`
	Storage  StorageConfig  `json:"storage"`
	Logging  LoggingConfig  `json:"logging"`
}

type TelegramConfig struct {
	Token string `json:"token" env:"TG02_TELEGRAM_TOKEN"`
}

type WeatherConfig struct {
	APIKey         string `json:"api_key" env:"TG02_WEATHER_API_KEY"`
	City           string `json:"city" env:"TG02_WEATHER_CITY"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"TG02_WEATHER_TIMEOUT_SECONDS"`
}

type VoiceConfig struct {
	FilePath string `json:"file_path" env:"TG02_VOICE_FILE_PATH"`
}

type StorageConfig struct {
	ImagesDir string `json:"images_dir" env:"TG02_STORAGE_IMAGES_DIR"`
}

type LoggingConfig struct {
	Level       string `json:"level" env:"TG02_LOGGING_LEVEL"`
	FileEnabled bool   `json:"file_enabled" env:"TG02_LOGGING_FILE_ENABLED"`
	FilePath    string `json:"file_path" env:"TG02_LOGGING_FILE_PATH"`
}

func DefaultConfig() *Config {
	return &Config{
		Weather: WeatherConfig{
			City:           "Брянск",
			TimeoutSeconds: 10,
		},
		Voice: VoiceConfig{
			FilePath: "voice.ogg",
		},
		Storage: StorageConfig{
			ImagesDir: "img",
		},
		Logging: LoggingConfig{
			Level:    "INFO",
			FilePath: "tg02.log",
		},
	}
}

// LoadConfig layers an optional JSON file and environment overrides on top
// of the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects a config the process cannot start with.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram token is not set (TG02_TELEGRAM_TOKEN)")
	}
	if c.Weather.APIKey == "" {
		return errors.New("weather API key is not set (TG02_WEATHER_API_KEY)")
	}
	return nil
}
