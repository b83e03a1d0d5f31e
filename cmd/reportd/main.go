package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ballpark-labs/reportd/config"
	"github.com/ballpark-labs/reportd/llm"
	"github.com/ballpark-labs/reportd/llm/anthropic"
	"github.com/ballpark-labs/reportd/llm/openai"
	"github.com/ballpark-labs/reportd/mcp"
	"github.com/ballpark-labs/reportd/ratelimit"
	"github.com/ballpark-labs/reportd/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logFile    string
	pretty     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "reportd",
		Short:         "reportd generates tool-backed HTML baseball reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.GetConfigPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "logfile", "", "path to log file; if not set, logs to stdout/stderr")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "use pretty console output (only valid when logfile is not set)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildEngine assembles the full collaborator graph from configuration. The
// returned gateway must be closed on shutdown.
func buildEngine(cfg *config.Config, log zerolog.Logger) (*report.Engine, *mcp.Gateway, error) {
	registry := llm.NewRegistry()
	registry.Register("anthropic", llm.MatchPrefixes(anthropic.ModelPrefixes...), func() (llm.Client, error) {
		return anthropic.NewClient(cfg.Anthropic.APIKey, log)
	})
	registry.Register("openai", llm.MatchPrefixes(openai.ModelPrefixes...), func() (llm.Client, error) {
		return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Organization, log)
	})

	dial, err := gatewayDialer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	gateway := mcp.NewGateway(dial, log)

	limiter := ratelimit.NewLimiter(cfg.Limits.ModelBudgets, cfg.Limits.DefaultBudget, log)
	engine := report.NewEngine(registry, gateway, limiter, log)
	return engine, gateway, nil
}

// gatewayDialer selects the transport from configuration. URL means streamable
// HTTP; Command means a STDIO child process.
func gatewayDialer(cfg *config.Config, log zerolog.Logger) (mcp.DialFunc, error) {
	switch {
	case cfg.Gateway.URL != "":
		return func(_ context.Context) (mcp.Transport, error) {
			return mcp.NewHTTPTransport(log, cfg.Gateway.URL)
		}, nil
	case cfg.Gateway.Command != "":
		return func(_ context.Context) (mcp.Transport, error) {
			return mcp.NewStdioTransport(log, cfg.Gateway.Command, cfg.Gateway.Args, cfg.Gateway.Env)
		}, nil
	default:
		return nil, fmt.Errorf("no tool gateway configured: set gateway.url or gateway.command")
	}
}
