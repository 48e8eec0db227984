package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/spetersoncode/toolrun/budget"
	"github.com/spetersoncode/toolrun/client"
	"github.com/spetersoncode/toolrun/debug"
	"github.com/spetersoncode/toolrun/executor"
	"github.com/spetersoncode/toolrun/internal/metrics"
	"github.com/spetersoncode/toolrun/mcp"
	"github.com/spetersoncode/toolrun/tool"
)

const (
	maxSearchResults  = 100
	mcpConnectTimeout = 30 * time.Second
)

// runtime holds what a command needs to talk to the model and the tools it
// started, so they can be shut down together.
type runtime struct {
	exec    *executor.Executor
	metrics *metrics.Metrics
	remotes []*mcp.Remote
	server  *http.Server
}

// newToolRuntime starts the metrics endpoint only. Commands that never call
// the model use it.
func newToolRuntime() *runtime {
	rt := &runtime{metrics: metrics.New()}
	rt.serveMetrics()
	return rt
}

// newRuntime validates the configuration and builds the shared executor.
func newRuntime(ctx context.Context) (*runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	m, known := cfg.ChatModel()
	if !known {
		log.Warn().Str("model", m.String()).Msg("model has no pricing, spend will not be tracked")
	}

	provider, err := client.New(ctx, client.Config{
		APIKeys: client.APIKeys{
			OpenAI:    cfg.OpenAIKey,
			Anthropic: cfg.AnthropicKey,
			Google:    cfg.GoogleKey,
		},
		OpenAIBaseURL:   cfg.OpenAIURL,
		AzureEndpoint:   cfg.OpenAIEndpoint,
		AzureAPIVersion: cfg.OpenAIVersion,
	}, m)
	if err != nil {
		return nil, err
	}

	rt := newToolRuntime()
	opts := []executor.Option{
		executor.WithBudget(budget.New(cfg.BillingCap, budget.WithMetrics(rt.metrics))),
		executor.WithMetrics(rt.metrics),
	}
	if cfg.DebugDir != "" {
		rec, err := debug.New(cfg.DebugDir)
		if err != nil {
			rt.close()
			return nil, err
		}
		log.Info().Str("dir", rec.Dir()).Msg("recording completions")
		opts = append(opts, executor.WithRecorder(rec))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, executor.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}

	rt.exec = executor.New(provider, m, opts...)
	return rt, nil
}

func (rt *runtime) serveMetrics() {
	if cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(rt.metrics.Registry(), promhttp.HandlerOpts{}))
	rt.server = &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := rt.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server failed")
		}
	}()
	log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
}

// registry builds the file tools rooted at folder plus the tools of every
// --mcp-server.
func (rt *runtime) registry(ctx context.Context, folder string) (*tool.Registry, error) {
	opts := []tool.FileToolOption{tool.WithBasePath(folder)}
	reg := tool.NewRegistry(tool.WithMetrics(rt.metrics)).
		Add(tool.FileTools(opts...)...).
		Add(tool.NewSearchTool(maxSearchResults, opts...))

	for _, line := range mcpServers {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		dialCtx, cancel := context.WithTimeout(ctx, mcpConnectTimeout)
		remote, err := mcp.DialStdio(dialCtx, fields[0], os.Environ(), fields[1:]...)
		cancel()
		if err != nil {
			return nil, err
		}
		rt.remotes = append(rt.remotes, remote)
		if err := remote.Register(reg); err != nil {
			return nil, err
		}
		log.Info().Str("server", fields[0]).Int("tools", len(remote.Tools())).Msg("imported mcp tools")
	}
	return reg, nil
}

func (rt *runtime) close() {
	for _, r := range rt.remotes {
		if err := r.Close(); err != nil {
			log.Warn().Err(err).Msg("closing mcp session")
		}
	}
	if rt.exec != nil {
		b := rt.exec.Budget()
		log.Info().Stringer("spent", b.Spent()).Stringer("cap", b.Cap()).Msg("session spend")
	}
	if rt.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rt.server.Shutdown(ctx)
	}
}
