// Package executor submits completion requests to a provider with retry,
// per-attempt timeouts, budget accounting and transcript capture.
//
// One Executor is meant to be shared by every agent in a process: the
// budget, the debug recorder and the rate limiter are all process-wide.
package executor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/budget"
	"github.com/spetersoncode/toolrun/debug"
	"github.com/spetersoncode/toolrun/internal/metrics"
	"github.com/spetersoncode/toolrun/internal/retry"
	"github.com/spetersoncode/toolrun/model"
)

// Executor is safe for concurrent use.
type Executor struct {
	provider ai.CompletionProvider
	model    model.ChatModel
	budget   *budget.Tracker
	recorder *debug.Recorder
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// New creates an executor that sends requests for m to provider.
func New(provider ai.CompletionProvider, m model.ChatModel, opts ...Option) *Executor {
	e := &Executor{
		provider: provider,
		model:    m,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model returns the default model. Requests naming another built-in model
// are priced as that model.
func (e *Executor) Model() model.ChatModel { return e.model }

// Budget returns the attached tracker, or nil.
func (e *Executor) Budget() *budget.Tracker { return e.budget }

// Complete performs one completion call.
//
// The request is recorded before the call and the response after it. When
// the response reports usage, input and output tokens are charged to the
// budget; a charge that takes spend over the cap fails the call with the
// budget error. A response without usage is logged and accepted.
func (e *Executor) Complete(ctx context.Context, req *ai.Request, prefix string) (*ai.Response, error) {
	r := *req
	if r.Model == "" {
		r.Model = e.model.String()
	}

	logger := e.logger.With().
		Str("request_id", uuid.NewString()).
		Str("prefix", prefix).
		Str("model", r.Model).
		Logger()

	slot := e.recorder.NextSlot(prefix)
	e.recorder.RecordRequest(slot, &r)

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	logger.Debug().Int("messages", len(r.Messages)).Int("tools", len(r.Tools)).Msg("sending completion request")
	start := time.Now()
	resp, err := e.provider.Complete(ctx, &r)
	elapsed := time.Since(start)
	if err != nil {
		e.metrics.RecordCompletion(r.Model, "error", elapsed.Seconds())
		logger.Debug().Err(err).Dur("elapsed", elapsed).Msg("completion failed")
		return nil, err
	}
	e.metrics.RecordCompletion(r.Model, "ok", elapsed.Seconds())
	logger.Debug().Dur("elapsed", elapsed).Int("choices", len(resp.Choices)).Msg("completion received")

	e.recorder.RecordResponse(slot, resp)

	if err := e.charge(logger, e.pricedModel(r.Model), resp.Usage); err != nil {
		return nil, err
	}
	return resp, nil
}

// pricedModel returns the model a request is billed as: the executor's own
// model when id matches it, else the built-in model named id. Unknown ids,
// such as Azure deployment names, are billed at the executor's model.
func (e *Executor) pricedModel(id string) model.ChatModel {
	if id == "" || strings.EqualFold(id, e.model.String()) {
		return e.model
	}
	if m, ok := model.Lookup(id); ok {
		return m
	}
	return e.model
}

// charge applies every charge for usage and returns the first budget error.
func (e *Executor) charge(logger zerolog.Logger, m model.ChatModel, usage *ai.Usage) error {
	if usage == nil {
		logger.Warn().Msg("no usage reported")
		return nil
	}

	id := m.String()
	e.metrics.RecordTokens(id, "input", usage.PromptTokens)
	e.metrics.RecordTokens(id, "output", usage.CompletionTokens)
	if e.budget == nil {
		return nil
	}

	input := usage.PromptTokens
	var errs []error
	if usage.CachedPromptTokens > 0 && m.Pricing().HasCachedPricing() {
		input -= usage.CachedPromptTokens
		errs = append(errs, e.budget.ChargeInput(m, input))
		errs = append(errs, e.budget.ChargeCachedInput(m, usage.CachedPromptTokens))
	} else {
		errs = append(errs, e.budget.ChargeInput(m, input))
	}
	errs = append(errs, e.budget.ChargeOutput(m, usage.CompletionTokens))

	logger.Info().Str("billing", e.budget.String()).Msg("model billing")

	if failed := lo.Compact(errs); len(failed) > 0 {
		return failed[0]
	}
	return nil
}

// CompleteWithRetry calls Complete up to maxAttempts times.
//
// Each attempt is bounded by timeout (zero means unbounded). An attempt
// that misses its deadline is abandoned and its context cancelled; the
// next attempt starts immediately. There is no backoff.
//
// Budget exhaustion and cancellation of ctx end the loop at once and are
// returned unchanged. Otherwise a failed run returns *RetryExhaustedError
// carrying the last error any attempt returned.
func (e *Executor) CompleteWithRetry(ctx context.Context, req *ai.Request, prefix string, timeout time.Duration, maxAttempts int) (*ai.Response, error) {
	// Room for every event of the run: a start and an outcome per attempt
	// plus the final one, so emit never drops a timeout.
	events := make(chan retry.Event, 2*max(maxAttempts, 0)+2)
	done := make(chan struct{})
	priced := e.pricedModel(req.Model).String()
	go func() {
		defer close(done)
		for ev := range events {
			e.logEvent(prefix, priced, timeout, ev)
		}
	}()

	cfg := retry.Config{
		MaxAttempts: maxAttempts,
		Timeout:     timeout,
		Fatal:       isFatal,
	}
	resp, err := retry.Do(ctx, cfg, events, func(ctx context.Context) (*ai.Response, error) {
		return e.Complete(ctx, req, prefix)
	})
	close(events)
	<-done

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return nil, &RetryExhaustedError{
			Attempts: exhausted.Attempts,
			Timeouts: exhausted.Timeouts,
			Last:     exhausted.Last,
		}
	}
	return resp, err
}

func isFatal(err error) bool {
	return errors.Is(err, budget.ErrBudgetExceeded)
}

func (e *Executor) logEvent(prefix, modelID string, timeout time.Duration, ev retry.Event) {
	switch ev.Type {
	case retry.EventAttemptTimeout:
		e.metrics.RecordTimeout(modelID)
		e.logger.Warn().
			Str("prefix", prefix).
			Int("attempt", ev.Attempt).
			Dur("timeout", timeout).
			Msg("completion attempt timed out")
	case retry.EventAttemptFailed:
		e.logger.Warn().
			Err(ev.Error).
			Str("prefix", prefix).
			Int("attempt", ev.Attempt).
			Bool("transient", ev.Transient).
			Dur("timeout", timeout).
			Msg("completion attempt failed")
	case retry.EventAborted:
		e.logger.Error().Err(ev.Error).Str("prefix", prefix).Int("attempt", ev.Attempt).Msg("completion aborted")
	case retry.EventExhausted:
		e.logger.Error().Err(ev.Error).Str("prefix", prefix).Int("attempts", ev.MaxAttempts).Msg("completion retries exhausted")
	case retry.EventAttemptStart:
		if ev.Attempt > 1 {
			e.logger.Debug().Str("prefix", prefix).Int("attempt", ev.Attempt).Msg("retrying completion")
		}
	}
}
