package toolrun

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// StripThink removes a leading <think>...</think> block emitted by reasoning
// models. The text is returned unchanged, with ok false, when the block is
// unclosed or nothing follows it.
func StripThink(text string) (stripped string, ok bool) {
	if !strings.HasPrefix(text, thinkOpen) {
		return text, true
	}
	end := strings.Index(text, thinkClose)
	if end < 0 {
		return text, false
	}
	rest := text[end+len(thinkClose):]
	if rest == "" {
		return text, false
	}
	return rest, true
}
