package agent

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/internal/metrics"
)

// DefaultSystemPrompt seeds the conversation when no system prompt is given.
const DefaultSystemPrompt = "You are an expert agent that calls tool to complete your task."

// DefaultPrefix names debug transcripts of agent turns.
const DefaultPrefix = "agent"

// Options contains configuration for an agent.
type Options struct {
	// SystemPrompt is the first message of the conversation.
	SystemPrompt string

	// Settings are the sampling and retry settings of every turn.
	Settings ai.Settings

	// Prefix names the debug transcript of each turn.
	Prefix string

	// Model overrides the executor's model id in requests.
	Model string

	// MaxSteps limits the number of turns a driver runs.
	// Zero means unlimited, which is the default.
	MaxSteps int

	// Timeout sets a deadline for a whole driver run.
	// Zero means no timeout (context deadline applies).
	Timeout time.Duration

	// ErrorFeedback appends a user message describing a recoverable tool
	// failure before the next turn. When false the turn is re-issued with
	// the context unchanged.
	ErrorFeedback bool

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// Option is a functional option for configuring an agent.
type Option func(*Options)

// WithSystemPrompt replaces DefaultSystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithSettings sets the per-turn sampling and retry settings.
func WithSettings(s ai.Settings) Option {
	return func(o *Options) {
		o.Settings = s
	}
}

// WithPrefix sets the debug transcript prefix.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithModel overrides the model id sent with each request.
func WithModel(id string) Option {
	return func(o *Options) {
		o.Model = id
	}
}

// WithMaxSteps sets the maximum number of turns per driver run.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithTimeout sets a deadline for each driver run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithErrorFeedback reports recoverable tool failures back to the model.
func WithErrorFeedback(enabled bool) Option {
	return func(o *Options) {
		o.ErrorFeedback = enabled
	}
}

// WithLogger sets the agent logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetrics counts classified turns.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		SystemPrompt: DefaultSystemPrompt,
		Settings:     ai.DefaultSettings(),
		Prefix:       DefaultPrefix,
		Logger:       log.Logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
