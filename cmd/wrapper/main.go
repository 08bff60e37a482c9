package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ohmynofan/weth-wrapper/internal/app"
	"github.com/ohmynofan/weth-wrapper/internal/config"
	"github.com/ohmynofan/weth-wrapper/internal/platform/logger"
	"github.com/ohmynofan/weth-wrapper/internal/platform/ui"
)

func main() {
	cfg := config.Load()

	_ = logger.Init(cfg.LogPath)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		ui.ShowError(err.Error())
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "weth-wrapper",
		Short:         "Wrap and unwrap the native coin from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.StartUISystem("Wrap/Unwrap " + cfg.Network.Symbol + " on " + cfg.Network.Name)
			defer ui.StopUISystem()
			return app.New(cfg).Run(cmd.Context())
		},
	}

	var account, limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show recent wrap and unwrap actions for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.New(cfg).History(account, limit)
		},
	}
	history.Flags().IntVar(&account, "account", 1, "account number in the accounts file")
	history.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")
	root.AddCommand(history)

	return root
}
