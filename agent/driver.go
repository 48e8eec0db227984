package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/tool"
)

// policy maps a classified turn to an outcome.
type policy[T any] func(ctx context.Context, turn Turn) (Outcome[T], error)

// drive runs turns until the policy returns a terminal outcome.
func drive[T any](ctx context.Context, a *Agent, extra []ai.Tool, p policy[T]) (Outcome[T], error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	for step := 1; ; step++ {
		if a.opts.MaxSteps > 0 && step > a.opts.MaxSteps {
			return Outcome[T]{}, ErrMaxStepsReached
		}

		turn, err := a.runOnce(ctx, extra)
		if err == nil {
			var out Outcome[T]
			out, err = p(ctx, turn)
			if err == nil {
				a.opts.Logger.Debug().
					Int("step", step).
					Str("turn", string(turn.Kind)).
					Stringer("outcome", out.Kind).
					Msg("agent action")
				if out.Kind != OutcomeContinue {
					return out, nil
				}
				continue
			}
		}

		if a.opts.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome[T]{}, fmt.Errorf("%w: %w", ErrAgentTimeout, err)
		}
		return Outcome[T]{}, err
	}
}

// RunUntilTool runs turns until the model calls target and returns the
// call's parsed arguments. The target is advertised to the model even when
// it is not in the registry; its handler is never invoked.
//
// When a response contains a call to target, the first such call decides
// the turn and the other calls are ignored. Arguments that fail target's
// schema are logged and the turn is re-issued. Responses without a target
// call are dispatched in order through the registry and their results
// appended as one user message.
//
// Unknown tools and malformed arguments are recoverable: they are logged
// and the turn re-issued. Any other tool error ends the run. A text reply
// or a refusal ends the run with *UnexpectedError.
func RunUntilTool[T any](ctx context.Context, a *Agent, target *tool.Typed[T]) (T, error) {
	var zero T

	out, err := drive[T](ctx, a, []ai.Tool{target.Definition()}, func(ctx context.Context, turn Turn) (Outcome[T], error) {
		if turn.Kind != TurnToolCalls {
			return Unexpected[T](turn.Text), nil
		}

		if call, ok := lo.Find(turn.ToolCalls, func(c ai.ToolCall) bool { return c.Name == target.Name() }); ok {
			args, err := target.Parse(call.Arguments)
			if err != nil {
				a.recover(err, turn.ToolCalls)
				return Continue[T](), nil
			}
			return Out(args), nil
		}

		if err := a.handleToolCalls(ctx, turn.ToolCalls); err != nil {
			return Outcome[T]{}, err
		}
		return Continue[T](), nil
	})
	if err != nil {
		return zero, err
	}
	if out.Kind == OutcomeUnexpected {
		return zero, &UnexpectedError{Text: out.Text}
	}
	return out.Value, nil
}

// RunUntilText runs turns until the model replies with text and returns
// it. Every tool call is dispatched through the registry.
//
// Unknown tools and malformed arguments are recoverable: they are logged
// and the turn re-issued. Any other tool error ends the run. A refusal is
// a valid end of the run: its text is returned with a nil error.
func (a *Agent) RunUntilText(ctx context.Context) (string, error) {
	out, err := drive[string](ctx, a, nil, func(ctx context.Context, turn Turn) (Outcome[string], error) {
		switch turn.Kind {
		case TurnToolCalls:
			if err := a.handleToolCalls(ctx, turn.ToolCalls); err != nil {
				return Outcome[string]{}, err
			}
			return Continue[string](), nil
		case TurnRefusal:
			return Unexpected[string](turn.Text), nil
		default:
			return Out(turn.Text), nil
		}
	})
	if err != nil {
		return "", err
	}
	if out.Kind == OutcomeUnexpected {
		a.opts.Logger.Info().Str("refusal", out.Text).Msg("model refused")
		return out.Text, nil
	}
	return out.Value, nil
}
