package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kkdai/youtube/v2"
	"gopkg.in/yaml.v3"

	"github.com/codebuildervaibhav/yt-transcribe/internal/audio"
	"github.com/codebuildervaibhav/yt-transcribe/internal/cleanup"
	"github.com/codebuildervaibhav/yt-transcribe/internal/handlers"
	"github.com/codebuildervaibhav/yt-transcribe/internal/metadata"
	"github.com/codebuildervaibhav/yt-transcribe/internal/pipeline"
	"github.com/codebuildervaibhav/yt-transcribe/internal/storage"
	"github.com/codebuildervaibhav/yt-transcribe/internal/transcription"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Pipeline struct {
		Strategy       string `yaml:"strategy"`        // "redirect" or "stream"
		MetadataPolicy string `yaml:"metadata_policy"` // "strict" or "sentinel"
		IncludeSource  bool   `yaml:"include_source"`
	} `yaml:"pipeline"`

	Services struct {
		MetadataEndpoint      string `yaml:"metadata_endpoint"`
		ResolverEndpoint      string `yaml:"resolver_endpoint"`
		TranscriptionEndpoint string `yaml:"transcription_endpoint"`
	} `yaml:"services"`

	Timeouts struct {
		MetadataSeconds      int `yaml:"metadata_seconds"`
		ResolverSeconds      int `yaml:"resolver_seconds"`
		DownloadSeconds      int `yaml:"download_seconds"`
		TranscriptionSeconds int `yaml:"transcription_seconds"`
	} `yaml:"timeouts"`

	Whisper struct {
		Model string `yaml:"model"`
	} `yaml:"whisper"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		HistoryDB string `yaml:"history_db"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`
}

func main() {
	// Load configuration
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The Whisper credential comes from the environment, never from the
	// config file, and is injected into the transcription client only.
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}

	// Ensure temp directory exists
	if err := cleanup.EnsureTempDirExists(config.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}

	// Initialize components
	log.Println("Initializing components...")

	fetcher := metadata.NewFetcher(
		config.Services.MetadataEndpoint,
		time.Duration(config.Timeouts.MetadataSeconds)*time.Second,
	)

	source, err := buildSource(config)
	if err != nil {
		log.Fatalf("Failed to initialize audio source: %v", err)
	}
	log.Printf("Audio acquisition strategy: %s", config.Pipeline.Strategy)

	transcriber := transcription.NewClient(
		config.Services.TranscriptionEndpoint,
		apiKey,
		config.Whisper.Model,
		time.Duration(config.Timeouts.TranscriptionSeconds)*time.Second,
	)

	pipe := pipeline.New(fetcher, source, transcriber, pipeline.Options{
		MetadataPolicy: config.Pipeline.MetadataPolicy,
		IncludeSource:  config.Pipeline.IncludeSource,
	})

	// Request history (optional - disabled when no path is configured)
	var history *storage.HistoryDB
	if config.Storage.HistoryDB != "" {
		if err := os.MkdirAll(filepath.Dir(config.Storage.HistoryDB), 0755); err != nil {
			log.Fatalf("Failed to create history directory: %v", err)
		}
		history, err = storage.NewHistoryDB(config.Storage.HistoryDB)
		if err != nil {
			log.Fatalf("Failed to initialize history database: %v", err)
		}
		defer history.Close()
	} else {
		log.Println("Request history disabled - no history_db configured")
	}

	// Temp file sweeper
	sweeper := cleanup.NewSweeper(
		config.Storage.TempDir,
		time.Duration(config.Cleanup.IntervalMinutes)*time.Minute,
		time.Duration(config.Cleanup.MaxAgeHours)*time.Hour,
	)
	sweeper.Start()
	defer sweeper.Stop()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	transcribeHandler := handlers.NewTranscribeHandler(pipe, history, config.Pipeline.Strategy)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Get("/api/transcribe", transcribeHandler.Handle)

	if history != nil {
		historyHandler := handlers.NewHistoryHandler(history)
		app.Get("/api/history", historyHandler.Handle)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   GET /api/transcribe?id=VIDEO_ID or ?url=VIDEO_URL")
	log.Println("   GET /api/history   - Recent request outcomes")
	log.Println("   GET /health        - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildSource constructs the configured acquisition strategy.
func buildSource(config *Config) (audio.Source, error) {
	switch config.Pipeline.Strategy {
	case audio.StrategyRedirect:
		return audio.NewRedirectSource(
			config.Services.ResolverEndpoint,
			time.Duration(config.Timeouts.ResolverSeconds)*time.Second,
			time.Duration(config.Timeouts.DownloadSeconds)*time.Second,
		), nil
	case audio.StrategyStream:
		return audio.NewStreamSource(&youtube.Client{}, config.Storage.TempDir), nil
	default:
		return nil, fmt.Errorf("unknown acquisition strategy %q", config.Pipeline.Strategy)
	}
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
