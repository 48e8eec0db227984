// Package transcript prepares a conversation for provider APIs that
// require every tool call to be answered by a tool result.
package transcript

import (
	"github.com/samber/lo"

	ai "github.com/spetersoncode/toolrun"
)

// Unanswered is the result sent for a tool call that never got one, which
// happens when a turn is re-issued after a recoverable tool failure.
const Unanswered = "The tool call was not executed. Check the tool name and arguments and try again."

// Pair returns msgs with every assistant tool-call message followed by a
// user message whose ToolResults answer each call once, in call order.
// Existing results are kept, missing ones filled with Unanswered, and
// results for unknown call ids dropped. msgs is not modified.
func Pair(msgs []ai.Message) []ai.Message {
	out := make([]ai.Message, 0, len(msgs))
	for i := 0; i < len(msgs); i++ {
		msg := msgs[i]
		out = append(out, msg)
		if msg.Role != ai.RoleAssistant || len(msg.ToolCalls) == 0 {
			continue
		}

		var answered map[string]ai.ToolResult
		reply := ai.Message{Role: ai.RoleUser}
		if i+1 < len(msgs) && isResults(msgs[i+1]) {
			reply = msgs[i+1]
			answered = lo.SliceToMap(reply.ToolResults, func(r ai.ToolResult) (string, ai.ToolResult) {
				return r.ToolCallID, r
			})
			i++
		}

		reply.ToolResults = lo.Map(msg.ToolCalls, func(c ai.ToolCall, _ int) ai.ToolResult {
			if r, ok := answered[c.ID]; ok {
				return r
			}
			return ai.ToolResult{ToolCallID: c.ID, Content: Unanswered}
		})
		out = append(out, reply)
	}
	return out
}

func isResults(m ai.Message) bool {
	return (m.Role == ai.RoleUser || m.Role == ai.RoleTool) && len(m.ToolResults) > 0
}
