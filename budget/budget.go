// Package budget tracks cumulative spend against a USD cap.
//
// The cap is advisory: every charge is applied first and checked second, so
// the call that crosses the cap is recorded and reported but never rolled
// back. A Tracker is safe for concurrent use and is normally shared by every
// agent in a process.
package budget

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/spetersoncode/toolrun/internal/metrics"
	"github.com/spetersoncode/toolrun/model"
)

// ErrBudgetExceeded is matched by every *ExceededError.
var ErrBudgetExceeded = errors.New("budget: cap exceeded")

// DefaultCap is the default spend cap in USD.
const DefaultCap = 10.0

var million = decimal.NewFromInt(1_000_000)

// ExceededError reports spend above the cap after a charge.
type ExceededError struct {
	Spent decimal.Decimal
	Cap   decimal.Decimal
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("budget: cap %s reached, current %s", e.Cap.String(), e.Spent.String())
}

func (e *ExceededError) Is(target error) bool {
	return target == ErrBudgetExceeded
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used to report spend after each charge.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// WithMetrics exports spend to a Prometheus gauge.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

// Tracker is a lock-guarded spend ledger.
type Tracker struct {
	mu      sync.Mutex
	spent   decimal.Decimal
	cap     decimal.Decimal
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New creates a tracker with the given cap in USD.
func New(capUSD float64, opts ...Option) *Tracker {
	t := &Tracker{
		spent:  decimal.Zero,
		cap:    decimal.NewFromFloat(capUSD),
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ChargeInput charges prompt tokens at the model's input price.
func (t *Tracker) ChargeInput(m model.ChatModel, tokens int64) error {
	return t.charge(m, "input", m.Pricing().InputPerMillion, tokens)
}

// ChargeCachedInput charges prompt-cache hits at the model's cached input price.
func (t *Tracker) ChargeCachedInput(m model.ChatModel, tokens int64) error {
	return t.charge(m, "cached_input", m.Pricing().CachedInput(), tokens)
}

// ChargeOutput charges completion tokens at the model's output price.
func (t *Tracker) ChargeOutput(m model.ChatModel, tokens int64) error {
	return t.charge(m, "output", m.Pricing().OutputPerMillion, tokens)
}

func (t *Tracker) charge(m model.ChatModel, direction string, pricePerMillion float64, tokens int64) error {
	cost := decimal.NewFromFloat(pricePerMillion).Mul(decimal.NewFromInt(tokens)).Div(million)

	t.mu.Lock()
	t.spent = t.spent.Add(cost)
	spent := t.spent
	over := spent.GreaterThan(t.cap)
	t.mu.Unlock()

	t.metrics.SetSpend(spent)
	t.logger.Debug().
		Str("model", m.String()).
		Str("direction", direction).
		Int64("tokens", tokens).
		Str("cost", cost.String()).
		Str("billing", fmt.Sprintf("Billing(%s/%s)", spent.String(), t.cap.String())).
		Msg("charged")

	if over {
		return &ExceededError{Spent: spent, Cap: t.cap}
	}
	return nil
}

// Spent returns cumulative spend.
func (t *Tracker) Spent() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spent
}

// Cap returns the configured cap.
func (t *Tracker) Cap() decimal.Decimal {
	return t.cap
}

// Remaining returns cap minus spend; negative once the cap is crossed.
func (t *Tracker) Remaining() decimal.Decimal {
	return t.cap.Sub(t.Spent())
}

// InCap reports whether spend is at or below the cap.
func (t *Tracker) InCap() bool {
	return t.Spent().LessThanOrEqual(t.cap)
}

// String renders the ledger as Billing(spent/cap).
func (t *Tracker) String() string {
	return fmt.Sprintf("Billing(%s/%s)", t.Spent().String(), t.cap.String())
}
