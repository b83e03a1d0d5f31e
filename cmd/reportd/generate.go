package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ballpark-labs/reportd/config"
	"github.com/ballpark-labs/reportd/llm"
	"github.com/ballpark-labs/reportd/prompts"
	"github.com/ballpark-labs/reportd/report"
	"github.com/spf13/cobra"
)

var (
	generateModel  string
	generateOutput string
	generateSeason int
	generateFocus  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single report from the command line",
}

var generatePlayerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Generate a player performance report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, prompts.PlayerReport(args[0], generateSeason))
	},
}

var generateTeamsCmd = &cobra.Command{
	Use:   "teams <team1> <team2>",
	Short: "Generate a two-team comparison report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, prompts.TeamComparison(args[0], args[1], generateFocus))
	},
}

var generateGameCmd = &cobra.Command{
	Use:   "game <game-id>",
	Short: "Generate a game recap report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid game id %q: %w", args[0], err)
		}
		return runGenerate(cmd, prompts.GameRecap(gameID))
	},
}

var generateStatsCmd = &cobra.Command{
	Use:   "stats <category>",
	Short: "Generate a statistical deep dive report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, prompts.StatisticalDeepDive(args[0], generateSeason))
	},
}

var generatePromptCmd = &cobra.Command{
	Use:   "prompt <text>",
	Short: "Generate a report from a free-form prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args[0])
	},
}

func init() {
	generateCmd.PersistentFlags().StringVarP(&generateModel, "model", "m", "", "override the configured model")
	generateCmd.PersistentFlags().StringVarP(&generateOutput, "output", "o", "", "write the report to a file instead of stdout")
	generateCmd.PersistentFlags().IntVar(&generateSeason, "season", 0, "season year (0 = current season)")
	generateTeamsCmd.Flags().StringVar(&generateFocus, "focus", "overall", "comparison focus: overall, hitting, pitching, recent")

	generateCmd.AddCommand(generatePlayerCmd)
	generateCmd.AddCommand(generateTeamsCmd)
	generateCmd.AddCommand(generateGameCmd)
	generateCmd.AddCommand(generateStatsCmd)
	generateCmd.AddCommand(generatePromptCmd)
}

func runGenerate(cmd *cobra.Command, promptText string) error {
	log, err := initLogging()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
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

	ctx := cmd.Context()
	defs, err := gateway.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("listing tools: %w", err)
	}
	tools := make([]llm.ToolSpec, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, d.ToolSpec())
	}

	model := generateModel
	if model == "" {
		model = cfg.Defaults.Model
	}

	doc, err := engine.GenerateDocument(ctx, &report.Request{
		Prompt:       promptText,
		SystemPrompt: prompts.DefaultSystem,
		Tools:        tools,
		Model:        model,
		MaxTokens:    cfg.Defaults.MaxTokens,
	})
	if err != nil {
		return err
	}

	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(doc), 0o600); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		log.Info().Str("path", generateOutput).Msg("Report written")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc)
	return nil
}
