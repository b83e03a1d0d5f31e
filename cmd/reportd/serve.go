package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ballpark-labs/reportd/config"
	"github.com/ballpark-labs/reportd/logger"
	"github.com/ballpark-labs/reportd/mcp"
	"github.com/ballpark-labs/reportd/server"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report generation HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := initLogging()
		if err != nil {
			return err
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		engine, gateway, err := buildEngine(cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := gateway.Close(); err != nil {
				log.Warn().Err(err).Msg("Gateway close failed")
			}
		}()

		warmGateway(cmd.Context(), gateway, log)

		srv := server.NewServer(engine, gateway, server.Defaults{
			Model:     cfg.Defaults.Model,
			MaxTokens: cfg.Defaults.MaxTokens,
		}, log)
		return srv.ListenAndServe(cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "override HTTP listen address")
}

func initLogging() (zerolog.Logger, error) {
	if logFile != "" && pretty {
		return zerolog.Logger{}, fmt.Errorf("--logfile and --pretty are mutually exclusive")
	}
	return logger.InitWithOptions(logFile, pretty)
}

// warmGateway eagerly establishes the tool connection so the first report
// request doesn't pay the dial. Failure here is not fatal: the gateway dials
// lazily on first use anyway.
func warmGateway(ctx context.Context, gateway *mcp.Gateway, log zerolog.Logger) {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	start := time.Now()

	err := backoff.Retry(func() error {
		_, err := gateway.ListTools(ctx)
		return err
	}, policy)
	if err != nil {
		log.Warn().Err(err).Msg("Gateway warmup failed; will connect lazily on first request")
		return
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("Gateway connection warmed")
}
