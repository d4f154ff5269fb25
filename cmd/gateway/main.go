package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lei/hikvision-gateway/pkg/gateway"
)

const defaultConfigFile = "configs/gateway.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	// Load .env file (ignore error if file doesn't exist - env vars might be set externally)
	_ = godotenv.Load()

	// CONFIG_FILE wins; otherwise use the default file when present and fall
	// back to HIKVISION_* variables alone
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configFile = defaultConfigFile
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	gw, err := gateway.NewFromConfigFile(configFile)
	if err != nil {
		return err
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the gateway (blocks until shutdown)
	return gw.Start(ctx)
}
