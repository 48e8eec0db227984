package toolrun

import "time"

// Defaults for Settings.
const (
	DefaultTemperature         = 0.8
	DefaultPresencePenalty     = 0.0
	DefaultMaxCompletionTokens = 16384
	DefaultTimeout             = 120 * time.Second
	DefaultRetry               = 5
)

// Settings contains per-request sampling and execution parameters.
type Settings struct {
	Temperature         float64
	PresencePenalty     float64
	MaxCompletionTokens int64
	ToolChoice          ToolChoice
	// Timeout bounds each completion attempt. Zero means unbounded.
	Timeout time.Duration
	// Retry is the maximum number of completion attempts.
	Retry int
}

// DefaultSettings returns the default request settings.
func DefaultSettings() Settings {
	return Settings{
		Temperature:         DefaultTemperature,
		PresencePenalty:     DefaultPresencePenalty,
		MaxCompletionTokens: DefaultMaxCompletionTokens,
		ToolChoice:          ToolChoiceAuto(),
		Timeout:             DefaultTimeout,
		Retry:               DefaultRetry,
	}
}

// Option is a functional option for configuring Settings.
type Option func(*Settings)

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(s *Settings) {
		s.Temperature = t
	}
}

// WithPresencePenalty sets the presence penalty.
func WithPresencePenalty(p float64) Option {
	return func(s *Settings) {
		s.PresencePenalty = p
	}
}

// WithMaxCompletionTokens sets the maximum number of tokens to generate.
func WithMaxCompletionTokens(n int64) Option {
	return func(s *Settings) {
		s.MaxCompletionTokens = n
	}
}

// WithToolChoice sets the tool choice mode.
func WithToolChoice(c ToolChoice) Option {
	return func(s *Settings) {
		s.ToolChoice = c
	}
}

// WithTimeout sets the per-attempt timeout. Zero means unbounded.
func WithTimeout(d time.Duration) Option {
	return func(s *Settings) {
		s.Timeout = d
	}
}

// WithRetry sets the maximum number of attempts.
func WithRetry(n int) Option {
	return func(s *Settings) {
		s.Retry = n
	}
}

// ApplyOptions applies functional options on top of DefaultSettings.
func ApplyOptions(opts ...Option) Settings {
	s := DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Request is a single completion request.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools,omitempty"`
	Settings Settings  `json:"settings"`
}
