package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go-travel-verifier/logging"
	"go-travel-verifier/metrics"
	redis "go-travel-verifier/redis"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

type ExtractionConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key,omitempty"`
}

type ImageStoreConfig struct {
	UploadURL    string `json:"upload_url"`
	UploadPreset string `json:"upload_preset"`
}

type AuditSinkConfig struct {
	WebhookURL string `json:"webhook_url"`
}

type Config struct {
	ServerConfig ServerConfig `json:"server_config"`
	LogLevel     string       `json:"log_level,omitempty"`

	ExtractionConfig   ExtractionConfig `json:"extraction_config"`
	ImageStoreConfig   ImageStoreConfig `json:"image_store_config"`
	AuditSinkConfig    AuditSinkConfig  `json:"audit_sink_config"`
	SessionTokenSecret string           `json:"session_token_secret,omitempty"`

	StorageType         string                    `json:"storage_type"`
	RedisConfig         redis.RedisConfig         `json:"redis_config,omitempty"`
	RedisSentinelConfig redis.RedisSentinelConfig `json:"redis_sentinel_config,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "Path for the config.json to use")
	flag.Parse()

	if *configPath == "" {
		slog.Error("please provide a config path using the --config flag")
		os.Exit(1)
	}

	slog.Info("Using config", "path", *configPath)

	config, err := readConfigFile(*configPath)
	if err != nil {
		slog.Error("failed to read config file", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(config.LogLevel)

	sessionStorage, err := createSessionStorage(&config)
	if err != nil {
		slog.Error("failed to instantiate session storage", "error", err)
		os.Exit(1)
	}

	tokenCreator, err := NewHmacSessionTokenCreator(config.SessionTokenSecret)
	if err != nil {
		slog.Error("failed to instantiate session token creator", "error", err)
		os.Exit(1)
	}

	extractionClient := NewOpenAIExtractionClient(
		config.ExtractionConfig.BaseURL,
		config.ExtractionConfig.APIKey,
		config.ExtractionConfig.Model,
	)
	imageStore := NewCloudinaryImageStore(
		config.ImageStoreConfig.UploadURL,
		config.ImageStoreConfig.UploadPreset,
	)
	auditSink := NewWebhookAuditSink(config.AuditSinkConfig.WebhookURL)

	serverState := NewServerState(
		sessionStorage,
		tokenCreator,
		NewPassportValidator(),
		extractionClient,
		imageStore,
		auditSink,
		metrics.New(prometheus.DefaultRegisterer),
	)

	server, err := NewServer(serverState, config.ServerConfig)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	err = server.ListenAndServe()
	if err != nil {
		slog.Error("failed to listen and serve", "error", err)
		os.Exit(1)
	}
}

func readConfigFile(path string) (Config, error) {
	// Secrets may live in a .env file next to the binary instead of the
	// config file checked into deployment repos.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	configBytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	if err := json.Unmarshal(configBytes, &config); err != nil {
		return Config{}, err
	}

	if key := os.Getenv("EXTRACTION_API_KEY"); key != "" {
		config.ExtractionConfig.APIKey = key
	}
	if secret := os.Getenv("SESSION_TOKEN_SECRET"); secret != "" {
		config.SessionTokenSecret = secret
	}

	return config, nil
}

func createSessionStorage(config *Config) (SessionStorage, error) {
	if config.StorageType == "redis" {
		slog.Info("Using redis session storage")
		client, err := redis.NewRedisClient(&config.RedisConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisSessionStorage(client, config.RedisConfig.Namespace), nil
	}
	if config.StorageType == "redis_sentinel" {
		slog.Info("Using redis sentinel session storage")
		client, err := redis.NewRedisSentinelClient(&config.RedisSentinelConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisSessionStorage(client, config.RedisSentinelConfig.Namespace), nil
	}
	if config.StorageType == "memory" {
		slog.Info("Using in memory session storage")
		return NewInMemorySessionStorage(), nil
	}
	return nil, fmt.Errorf("%v is not a valid storage type", config.StorageType)
}
