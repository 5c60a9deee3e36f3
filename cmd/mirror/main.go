// cmd/mirror/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"
	"os/signal"
	"syscall"

	"github.com/bethropolis/mirror/internal/app"
	"github.com/bethropolis/mirror/internal/config"
	"github.com/bethropolis/mirror/internal/logger"
	"github.com/bethropolis/mirror/internal/relay"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// --- Argument & Flag Parsing ---
	flags := config.NewFlags(flag.CommandLine)
	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		stlog.Fatalf("Failed to parse flags: %v", err)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return 0
	}
	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	cfg, cfgErr := config.Load(*flags.ConfigFilePath, flags)
	serving := *flags.Serve != ""

	// The editor owns the terminal, so it logs to a file unless told otherwise.
	if !serving && cfg.Logger.LogFilePath == "" {
		cfg.Logger.LogFilePath = config.DefaultLogFileName
	}
	closer, err := logger.Setup(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	if cfgErr != nil {
		logger.Warnf("Config: %v (using defaults)", cfgErr)
	}

	if serving {
		return serve(cfg)
	}
	return runEditor(cfg, filePath)
}

func serve(cfg *config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := relay.ListenAndServe(ctx, cfg.Relay.Listen, relay.NewHub()); err != nil {
		logger.Errorf("Relay exited with error: %v", err)
		return 1
	}
	logger.Infof("Relay stopped.")
	return 0
}

func runEditor(cfg *config.Config, filePath string) int {
	logger.Infof("Starting %s editor...", config.AppName)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	mirrorApp, err := app.New(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		return 1
	}
	if err := mirrorApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		return 1
	}
	logger.Infof("%s editor finished.", config.AppName)
	return 0
}
