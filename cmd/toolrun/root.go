package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/spetersoncode/toolrun/config"
	"github.com/spetersoncode/toolrun/internal/logger"
)

const version = "0.1.0"

var (
	cfg  *config.Config
	logs *logger.Logger

	logFile    string
	mcpServers []string
)

var rootCmd = &cobra.Command{
	Use:   "toolrun",
	Short: "Run tool-using LLM agents",
	Long: `toolrun drives a conversation with a completion service while the model
calls registered tools, until it answers, calls a target tool or fails.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logs != nil {
			logs.Close()
		}
	},
}

func init() {
	config.LoadEnvFile()
	cfg = config.FromEnv()
	f := rootCmd.PersistentFlags()

	f.StringVar((*string)(&cfg.Provider), "provider", string(cfg.Provider), "completion provider (openai, anthropic, google)")
	f.StringVar(&cfg.Model, "model", cfg.Model, "model id, or Azure deployment name")
	f.StringVar(&cfg.OpenAIURL, "api-url", cfg.OpenAIURL, "OpenAI-compatible endpoint")
	f.StringVar(&cfg.OpenAIEndpoint, "azure-endpoint", cfg.OpenAIEndpoint, "Azure OpenAI endpoint; enables Azure")
	f.StringVar(&cfg.OpenAIVersion, "azure-api-version", cfg.OpenAIVersion, "Azure OpenAI API version")

	f.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "sampling temperature")
	f.Float64Var(&cfg.PresencePenalty, "presence-penalty", cfg.PresencePenalty, "presence penalty")
	f.Int64Var(&cfg.MaxCompletionTokens, "max-completion-tokens", cfg.MaxCompletionTokens, "maximum tokens per completion")
	f.DurationVar(&cfg.PromptTimeout, "timeout", cfg.PromptTimeout, "per-attempt completion timeout")
	f.IntVar(&cfg.Retry, "retry", cfg.Retry, "completion attempts per turn")

	f.Float64Var(&cfg.BillingCap, "billing-cap", cfg.BillingCap, "spend cap in dollars")
	f.StringVar(&cfg.DebugDir, "debug-dir", cfg.DebugDir, "directory for completion transcripts (empty disables)")
	f.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "completion requests per second, 0 for unlimited")
	f.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "rate limiter burst")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")

	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human-friendly console logs")
	f.StringVar(&logFile, "log-file", "", "also write logs to this file")

	f.StringArrayVar(&mcpServers, "mcp-server", nil, "command line of an MCP server whose tools are added (repeatable)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	logs, err = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		File:    logFile,
		Console: true,
		Pretty:  cfg.LogPretty,
	})
	if err != nil {
		return err
	}
	log.Debug().Str("command", cmd.Name()).Msg("starting")
	return nil
}
