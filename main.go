package main

import (
	"log"

	"github.com/joho/godotenv"
	"invoicing/cmd"
	"invoicing/internal/config"
	"invoicing/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use default logger config to report the configuration problem
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		l := logger.WithComponent("main")
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().Str("data_dir", cfg.DataDir).Msg("Starting Invoicing CLI")

	cmd.Execute(cfg)
}
