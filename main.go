package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/dskvich/gpt-image-cli/pkg/console"
	"github.com/dskvich/gpt-image-cli/pkg/domain"
	"github.com/dskvich/gpt-image-cli/pkg/logger"
	"github.com/dskvich/gpt-image-cli/pkg/openai"
	"github.com/dskvich/gpt-image-cli/pkg/progress"
	"github.com/dskvich/gpt-image-cli/pkg/retry"
	"github.com/dskvich/gpt-image-cli/pkg/services"
	"github.com/dskvich/gpt-image-cli/pkg/storage"
	"github.com/dskvich/gpt-image-cli/pkg/workers"
)

type Config struct {
	OpenAIToken      string        `env:"OPENAI_API_KEY,required,notEmpty"`
	OpenAIModel      string        `env:"OPENAI_MODEL,required,notEmpty"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	OutputPath       string        `env:"OUTPUT_PATH" envDefault:"output.png"`
	RetryBaseDelay   time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`
	RetryMaxDelay    time.Duration `env:"RETRY_MAX_DELAY" envDefault:"60s"`
	RetryMultiplier  float64       `env:"RETRY_MULTIPLIER" envDefault:"2"`
	RetryJitter      bool          `env:"RETRY_JITTER" envDefault:"true"`
	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"10"`
	LogLevel         slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	LogNoColor       bool          `env:"LOG_NO_COLOR"`
}

func (c Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		BaseDelay:   c.RetryBaseDelay,
		MaxDelay:    c.RetryMaxDelay,
		Multiplier:  c.RetryMultiplier,
		Jitter:      c.RetryJitter,
		MaxAttempts: c.RetryMaxAttempts,
	}
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
}

func runMain() error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.WithLevel(cfg.LogLevel, cfg.LogNoColor))))

	session, err := setupSession(cfg)
	if err != nil {
		return err
	}

	workerGroup := workers.Group{
		workers.NewSignalWatcher(syscall.SIGINT, syscall.SIGTERM),
		session,
	}

	return workerGroup.Run(context.Background())
}

// loadConfig reads envFile into the environment when it exists and parses
// the environment. Variables already set win over the file.
func loadConfig(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	if cfg.RetryMaxAttempts < 0 {
		return nil, fmt.Errorf("RETRY_MAX_ATTEMPTS must not be negative, got %d", cfg.RetryMaxAttempts)
	}

	return &cfg, nil
}

func setupSession(cfg *Config) (workers.Worker, error) {
	hc := retry.NewHTTPClient(cfg.RetryPolicy(), slog.Default())

	openAIClient, err := openai.NewClient(cfg.OpenAIToken, cfg.OpenAIBaseURL, hc)
	if err != nil {
		return nil, fmt.Errorf("creating open ai client: %w", err)
	}

	imageService := services.NewImageService(
		openAIClient,
		storage.NewFileWriter(cfg.OutputPath),
		progress.ForTerminal(),
		domain.ImageModel(cfg.OpenAIModel),
	)

	slog.Info("Image sandbox ready", "model", cfg.OpenAIModel, "output", cfg.OutputPath)

	return console.NewSession(imageService, os.Stdin, os.Stdout), nil
}
