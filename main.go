package main

import (
	"log"

	"github.com/joho/godotenv"

	"goab/internal"
	"goab/internal/config"
	"goab/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	server := ui.NewServer(cfg, logger)

	if err := server.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
