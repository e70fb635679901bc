package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chittyapps/chittyinsight/internal/assistant"
	"github.com/chittyapps/chittyinsight/internal/config"
	"github.com/chittyapps/chittyinsight/internal/logger"
	"github.com/chittyapps/chittyinsight/internal/realtime"
	"github.com/chittyapps/chittyinsight/internal/server"
	"github.com/chittyapps/chittyinsight/internal/storage"
	"github.com/chittyapps/chittyinsight/pkg/types"
)

const shutdownGrace = 10 * time.Second

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chittyinsight",
		Short: "ChittyInsight admin console backend",
	}
	root.AddCommand(serveCmd())
	return root
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		seed       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the console API and realtime channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				host, port, err := config.SplitAddr(addr)
				if err != nil {
					return err
				}
				cfg.Server.Host = host
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}

			logger.Init(cfg.Log.Level)

			store := storage.NewMemStore()
			if cfg.Seed {
				store.Seed()
				logger.Logger.Info().Msg("loaded demo data set")
			}

			hub := realtime.NewHub()
			responder := assistant.NewResponder(
				store,
				assistant.NewRandomPicker(),
				assistant.WithDelay(cfg.Assistant.ReplyDelay.Std()),
				assistant.WithOnReply(func(msg *types.ChatMessage) {
					hub.Publish("chat_message", msg)
				}),
			)

			srv := server.New(cfg, store, responder, hub)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Stop(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to yaml config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, host:port")
	cmd.Flags().BoolVar(&seed, "seed", true, "load the demo data set on startup")
	return cmd
}
