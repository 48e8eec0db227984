package tool

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/internal/metrics"
)

// maxSuggestionDistance bounds the edit distance for "did you mean" hints.
const maxSuggestionDistance = 3

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithMetrics counts dispatch outcomes.
func WithMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// Registry maps tool names to tools and dispatches calls by name.
// It is safe for concurrent use.
//
// Registering a name that is already present replaces the earlier tool:
// the last registration wins.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewRegistry creates an empty tool registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools:  make(map[string]Tool),
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds t under its name, replacing any tool of the same name.
func (r *Registry) Register(t Tool) {
	name := t.Definition().Name

	r.mu.Lock()
	_, replaced := r.tools[name]
	r.tools[name] = t
	r.mu.Unlock()

	if replaced {
		r.logger.Debug().Str("tool", name).Msg("tool replaced")
	}
}

// Add registers tools and returns the registry for chaining.
//
//	registry := tool.NewRegistry().Add(
//	    tool.MustNew("read_file", "Read a file", readFile),
//	    tool.MustNew("list_dir", "List a directory", listDir),
//	)
func (r *Registry) Add(tools ...Tool) *Registry {
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// RegisterFunc creates a typed tool from fn and registers it.
func RegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T], opts ...Option) error {
	t, err := New(name, description, fn, opts...)
	if err != nil {
		return err
	}
	r.Register(t)
	return nil
}

// RegisterHandler registers a tool with a caller-supplied schema.
func (r *Registry) RegisterHandler(def ai.Tool, h Handler) error {
	t, err := NewRaw(def, h)
	if err != nil {
		return err
	}
	r.Register(t)
	return nil
}

// Unregister removes a tool from the registry.
// It is a no-op if the tool is not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Catalog returns the descriptors of all registered tools, sorted by name.
func (r *Registry) Catalog() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := lo.MapToSlice(r.tools, func(_ string, t Tool) ai.Tool {
		return t.Definition()
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Names returns the names of all registered tools, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.tools)
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Dispatch invokes the named tool with raw JSON arguments.
//
// An unregistered name fails with *UnknownToolError. Arguments that do not
// parse or validate against the tool's schema fail with *SchemaMismatchError.
// Errors returned by the tool itself propagate unchanged.
func (r *Registry) Dispatch(ctx context.Context, name, rawArgs string) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		r.metrics.RecordDispatch(name, "unknown")
		return "", &UnknownToolError{Name: name, Suggestions: r.suggest(name)}
	}

	out, err := t.Call(ctx, json.RawMessage(rawArgs))
	switch {
	case err == nil:
		r.metrics.RecordDispatch(name, "ok")
	case errors.Is(err, ErrSchemaMismatch):
		r.metrics.RecordDispatch(name, "schema_mismatch")
	default:
		r.metrics.RecordDispatch(name, "error")
	}
	return out, err
}

// Execute dispatches a tool call, the shape providers return.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (string, error) {
	return r.Dispatch(ctx, call.Name, call.Arguments)
}

func (r *Registry) suggest(name string) []string {
	names := r.Names()

	type candidate struct {
		name     string
		distance int
	}
	candidates := lo.FilterMap(names, func(n string, _ int) (candidate, bool) {
		d := fuzzy.LevenshteinDistance(name, n)
		if d <= maxSuggestionDistance || fuzzy.MatchNormalizedFold(name, n) || fuzzy.MatchNormalizedFold(n, name) {
			return candidate{name: n, distance: d}, true
		}
		return candidate{}, false
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	return lo.Map(candidates, func(c candidate, _ int) string { return c.name })
}
