// Package toolrun drives multi-turn conversations with an LLM while the
// model calls locally registered tools.
//
// The root package holds the data model shared by every other package:
// messages, tool descriptors, requests, responses and categorized provider
// errors. The work happens elsewhere:
//
//   - [github.com/spetersoncode/toolrun/tool]: typed tools, schema
//     validation and dispatch by name
//   - [github.com/spetersoncode/toolrun/executor]: one completion call with
//     retry, per-attempt timeouts, spend accounting and transcript capture
//   - [github.com/spetersoncode/toolrun/agent]: the turn loop that classifies
//     each response and decides whether to continue
//   - [github.com/spetersoncode/toolrun/client]: picks the provider adapter
//     for a model
//
// # Basic Usage
//
// Find files with the built-in file tools and stop on a text reply:
//
//	m := model.GPT4o
//	p, err := client.New(ctx, client.Config{
//	    APIKeys: client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	}, m)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exec := executor.New(p, m, executor.WithBudget(budget.New(10)))
//	registry := tool.NewRegistry().Add(tool.FileTools(tool.WithBasePath("./src"))...)
//
//	a := agent.New(registry, exec, "Find the file that loads configuration.")
//	answer, err := a.RunUntilText(ctx)
//
// # Typed Tools
//
// Tool arguments are Go structs. Their JSON schema is generated with
// [SchemaFor] and every call is validated against it before the handler
// runs:
//
//	type WeatherArgs struct {
//	    City string `json:"city" jsonschema:"required,description=City name"`
//	}
//
//	weather := tool.MustNew("get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (string, error) {
//	        return lookup(args.City)
//	    })
//
// # Error Handling
//
// Provider adapters return [*Error] values categorized as transient,
// permanent or user input. Use [IsTransient], [IsPermanent] and
// [IsUserInput] to branch on them.
package toolrun
