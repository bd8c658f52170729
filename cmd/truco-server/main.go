package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/truco/internal/game"
	"github.com/cardroom/truco/internal/registry"
	"github.com/cardroom/truco/internal/server"
	"github.com/cardroom/truco/internal/session"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"truco-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	// Setup logging
	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("Starting Truco Server",
		"addr", cfg.GetServerAddress(),
		"tables", len(cfg.Tables))

	reg := registry.New(logger)
	router := server.NewRouter(logger)
	manager := session.NewManager(reg, quartz.NewReal(), cfg.SessionConfig(), router, logger)
	router.SetManager(manager)

	wsServer := server.NewServer(cfg.GetServerAddress(), router, logger)

	// Create tables from configuration
	for _, tableConfig := range cfg.Tables {
		size, _ := registry.ParseRoomSize(tableConfig.Size)
		table, err := manager.CreateTable(tableConfig.Name, nil, tableConfig.Bots, size, game.Options{
			ScoreLimit: tableConfig.ScoreLimit,
			CutDeck:    tableConfig.CutDeck,
		})
		if err != nil {
			logger.Error("Failed to create table", "error", err, "table", tableConfig.Name)
			ctx.Exit(1)
		}

		logger.Info("Created table",
			"id", table.ID(),
			"size", tableConfig.Size,
			"scoreLimit", tableConfig.ScoreLimit,
			"bots", tableConfig.Bots)
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Shutting down server...")
		manager.Close()
		wsServer.Stop()
		os.Exit(0)
	}()

	if err := wsServer.Start(); err != nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
}
