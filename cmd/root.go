package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"vpn-coordination-portal/internal/config"
	"vpn-coordination-portal/internal/storage"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	cfg      *config.Config
	provider storage.Provider
)

var rootCmd = &cobra.Command{
	Use:   "vpn-coordination-portal",
	Short: "Multi-party VPN request coordination portal",
	Long:  `A portal for creating site-to-site VPN requests, collecting each side's technical details through emailed tokenized links, and recording mutual agreement.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadConfig(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}

		initLogger(cfg)

		provider, err = storage.NewProvider(&cfg.Storage)
		if err != nil {
			slog.Error("Failed to initialize storage provider", "error", err)
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if provider != nil {
			provider.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./instance/config.yaml)")
}
