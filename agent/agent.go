package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/executor"
	"github.com/spetersoncode/toolrun/tool"
)

// Agent owns one conversation. It is not safe for concurrent use; the
// registry and executor it holds may be shared with other agents.
type Agent struct {
	registry *tool.Registry
	exec     *executor.Executor
	opts     *Options
	messages []ai.Message
}

// New creates an agent whose conversation starts with the system prompt
// and the user message.
func New(registry *tool.Registry, exec *executor.Executor, user string, opts ...Option) *Agent {
	o := ApplyOptions(opts...)
	return &Agent{
		registry: registry,
		exec:     exec,
		opts:     o,
		messages: []ai.Message{
			ai.SystemMessage(o.SystemPrompt),
			ai.UserMessage(user),
		},
	}
}

// Messages returns a copy of the conversation.
func (a *Agent) Messages() []ai.Message {
	out := make([]ai.Message, len(a.messages))
	copy(out, a.messages)
	return out
}

// RunOnce runs one turn: it sends the conversation with the registry's
// catalog, classifies the first choice and appends the assistant message.
// Executor errors are returned unchanged.
func (a *Agent) RunOnce(ctx context.Context) (Turn, error) {
	return a.runOnce(ctx, nil)
}

// runOnce advertises extra alongside the registry catalog. A registered
// tool wins over an extra descriptor of the same name.
func (a *Agent) runOnce(ctx context.Context, extra []ai.Tool) (Turn, error) {
	tools := lo.UniqBy(append(a.registry.Catalog(), extra...), func(t ai.Tool) string {
		return t.Name
	})
	req := &ai.Request{
		Model:    a.opts.Model,
		Messages: a.Messages(),
		Tools:    tools,
		Settings: a.opts.Settings,
	}

	resp, err := a.exec.CompleteWithRetry(ctx, req, a.opts.Prefix, a.opts.Settings.Timeout, a.opts.Settings.Retry)
	if err != nil {
		return Turn{}, err
	}

	turn, err := a.classify(resp)
	if err != nil {
		return Turn{}, err
	}
	a.opts.Metrics.RecordTurn(string(turn.Kind))
	return turn, nil
}

func (a *Agent) classify(resp *ai.Response) (Turn, error) {
	choice, ok := resp.FirstChoice()
	if !ok {
		return Turn{}, &UnsupportedResponseError{}
	}
	msg := choice.Message

	switch {
	case choice.FinishReason == ai.FinishToolCalls || len(msg.ToolCalls) > 0:
		recorded := ai.AssistantToolCalls(msg.ToolCalls)
		a.messages = append(a.messages, recorded)
		return Turn{Kind: TurnToolCalls, ToolCalls: recorded.ToolCalls}, nil

	case choice.FinishReason == ai.FinishContentFilter || msg.Refusal != "":
		a.messages = append(a.messages, ai.AssistantRefusal(msg.Refusal))
		return Turn{Kind: TurnRefusal, Text: msg.Refusal}, nil

	case choice.FinishReason == ai.FinishStop || choice.FinishReason == ai.FinishLength || msg.Content != "":
		a.messages = append(a.messages, ai.AssistantMessage(msg.Content))
		return Turn{Kind: TurnMessage, Text: msg.Content}, nil

	default:
		return Turn{}, &UnsupportedResponseError{FinishReason: choice.FinishReason}
	}
}

// handleToolCalls dispatches every call in order and appends their joined
// results as one user message. Recoverable failures are logged and leave
// the context for a re-prompt; other tool errors are returned.
func (a *Agent) handleToolCalls(ctx context.Context, calls []ai.ToolCall) error {
	if len(calls) == 0 {
		a.opts.Logger.Warn().Msg("tool call turn without calls")
		return nil
	}

	results := make([]ai.ToolResult, 0, len(calls))
	for _, call := range calls {
		out, err := a.registry.Execute(ctx, call)
		if err != nil {
			if tool.IsRecoverable(err) {
				a.recover(err, calls)
				return nil
			}
			return err
		}
		results = append(results, ai.ToolResult{ToolCallID: call.ID, Content: out})
	}

	a.messages = append(a.messages, ai.Message{
		Role: ai.RoleUser,
		Content: strings.Join(lo.Map(results, func(r ai.ToolResult, _ int) string {
			return r.Content
		}), "\n"),
		ToolResults: results,
	})
	return nil
}

// recover logs a recoverable tool failure and, with error feedback on,
// tells the model what went wrong.
func (a *Agent) recover(err error, calls []ai.ToolCall) {
	a.opts.Logger.Warn().Err(err).Str("prefix", a.opts.Prefix).Msg("error during tool call, retrying turn")
	if !a.opts.ErrorFeedback {
		return
	}

	feedback := fmt.Sprintf("Your tool call failed: %v. Correct the call and try again.", err)
	var mismatch *tool.SchemaMismatchError
	if errors.As(err, &mismatch) {
		feedback += "\nExpected arguments schema: " + mismatch.Schema
	}
	a.messages = append(a.messages, ai.Message{
		Role:    ai.RoleUser,
		Content: feedback,
		ToolResults: lo.Map(calls, func(c ai.ToolCall, _ int) ai.ToolResult {
			return ai.ToolResult{ToolCallID: c.ID, Content: feedback}
		}),
	})
}
