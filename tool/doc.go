// Package tool provides the tool registry and the typed tools an agent
// advertises to a model.
//
// A tool is a descriptor (name, description, JSON schema of its arguments)
// plus a handler. Typed tools derive their schema from a Go struct:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"required,description=City name"`
//	    Unit     string `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
//	}
//
//	weather := tool.MustNew("get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (string, error) {
//	        return fmt.Sprintf("72F in %s", args.Location), nil
//	    })
//
//	registry := tool.NewRegistry().Add(weather)
//	out, err := registry.Dispatch(ctx, "get_weather", `{"location":"Paris"}`)
//
// # Dispatch errors
//
// Dispatch distinguishes three failures:
//
//   - *UnknownToolError (matches ErrUnknownTool) when no tool has the name
//   - *SchemaMismatchError (matches ErrSchemaMismatch) when the arguments do
//     not parse or validate; it carries the schema and the raw text
//   - anything the tool itself returns, unchanged
//
// IsRecoverable reports whether a failure is one of the first two.
//
// # Built-in tools
//
// FileTools returns read_file and list_dir; NewSearchTool returns
// search_files. All are rooted at WithBasePath and refuse absolute paths
// and "..".
package tool
