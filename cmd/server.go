package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	app "vpn-coordination-portal/internal"
	"vpn-coordination-portal/internal/config"
	"vpn-coordination-portal/internal/email"
	"vpn-coordination-portal/internal/portal"
	"vpn-coordination-portal/internal/storage"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the VPN coordination portal server",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Starting VPN coordination portal...")
		ServerMain(cfg, provider)
	},
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	// Determine level from config and set it on the handler options.
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

// newCLIEngine builds an engine over the provider the root command opened.
func newCLIEngine() *portal.Engine {
	mailer := email.NewMailer(cfg.Email)
	return portal.NewEngine(provider, mailer, cfg.BaseURL)
}

func ServerMain(cfg *config.Config, storageProvider storage.Provider) {
	if cfg == nil {
		panic("Config not initialized.")
	}
	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	mailer := email.NewMailer(cfg.Email)
	engine := portal.NewEngine(storageProvider, mailer, cfg.BaseURL)

	server := app.HTTPServer(cfg, engine)
	server.Run()
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
