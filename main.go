package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logFilePath := "fortnite-shop-bot.log"
	if err := InitLogger(logFilePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	mcpMode := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--debug":
			SetLogLevel("debug")
			logger.Debug().Msg("Debug logging enabled")
		case "--mcp":
			mcpMode = true
		}
	}

	if mcpMode {
		runMCP()
		return
	}

	logger.Info().Str("log_file", logFilePath).Msg("Initializing Fortnite shop bot")

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Configuration error")
	}

	shop := NewShopClient(cfg.ShopAPIURL)
	conv := NewConverter()

	transport, err := newTelegramTransport(cfg.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}

	sched, err := NewScheduler(shop, conv, transport, cfg.BroadcastChatID)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	dispatcher := NewDispatcher(shop, conv, transport, sched.NextIn)

	sched.Start()
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport.runTelegram(ctx, dispatcher)

	logger.Info().Msg("Shutting down")
}
