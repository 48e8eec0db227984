package executor

import (
	"context"

	ai "github.com/spetersoncode/toolrun"
)

// Prompt sends a single system and user message and returns the reply
// text. A leading <think>...</think> block is removed.
func (e *Executor) Prompt(ctx context.Context, system, user, prefix string, settings ai.Settings) (string, error) {
	resp, err := e.Complete(ctx, promptRequest(system, user, settings), prefix)
	if err != nil {
		return "", err
	}
	return e.replyText(resp)
}

// PromptWithRetry is Prompt with the retry and timeout policy of
// CompleteWithRetry, taken from settings.
func (e *Executor) PromptWithRetry(ctx context.Context, system, user, prefix string, settings ai.Settings) (string, error) {
	resp, err := e.CompleteWithRetry(ctx, promptRequest(system, user, settings), prefix, settings.Timeout, settings.Retry)
	if err != nil {
		return "", err
	}
	return e.replyText(resp)
}

func promptRequest(system, user string, settings ai.Settings) *ai.Request {
	settings.ToolChoice = ai.ToolChoiceNone()
	return &ai.Request{
		Messages: []ai.Message{ai.SystemMessage(system), ai.UserMessage(user)},
		Settings: settings,
	}
}

func (e *Executor) replyText(resp *ai.Response) (string, error) {
	choice, ok := resp.FirstChoice()
	if !ok || choice.Message.Content == "" {
		return "", ErrNoContent
	}

	text, ok := ai.StripThink(choice.Message.Content)
	if !ok {
		e.logger.Warn().Str("reply", choice.Message.Content).Msg("unclosed or empty think block")
	}
	return text, nil
}
