// Package agent drives a tool-calling conversation with a model.
//
// An Agent holds one conversation: a system prompt, the user's request and
// every turn since. RunOnce sends the conversation together with the
// registry's tool catalog, classifies the first choice of the response as
// tool calls, a refusal or a message, and records it. Drivers loop over
// RunOnce until a terminal outcome:
//
//	registry := tool.NewRegistry().Add(tool.FileTools(tool.WithBasePath(root))...)
//	exec := executor.New(provider, model.O1, executor.WithBudget(budget.New(10)))
//
//	a := agent.New(registry, exec, "Which file defines main?")
//	text, err := a.RunUntilText(ctx)
//
// RunUntilTool stops when the model calls a designated target tool and
// returns its decoded arguments:
//
//	type Report struct {
//	    Files []string `json:"files" jsonschema:"required"`
//	}
//	done := tool.MustNew[Report]("report_files", "Report the files you found", nil)
//	report, err := agent.RunUntilTool(ctx, a, done)
//
// Unknown tool names and malformed arguments never end a run. They are
// logged and the turn is re-issued, optionally with a feedback message
// (WithErrorFeedback). Every other error ends the run.
package agent
