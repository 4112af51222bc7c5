// Package registry provides name-based tool dispatch. A tool receives a
// loose input map and returns a list of row maps; the registry shapes tool
// failures into an error payload the caller can surface as-is.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/pkg/domain"
)

// ToolFunc is the signature every registered tool implements.
type ToolFunc func(ctx context.Context, input map[string]any) ([]map[string]any, error)

// Registry manages the available tools.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]ToolFunc
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the structured logger used for tool telemetry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLifecycleHooks installs observability callbacks fired around every
// invocation.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Registry) {
		r.hooks = hooks
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		tools:  make(map[string]ToolFunc),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool under the given name. An existing tool with the
// same name is overwritten.
func (r *Registry) Register(name string, fn ToolFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = fn
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke looks up a tool by name and executes it. An unknown name returns
// ErrToolNotFound. A tool failure does not propagate as an error: it is
// shaped into a single-element payload under the "error" key, so sessions
// keep going after a broken tool call.
func (r *Registry) Invoke(ctx context.Context, name string, input map[string]any) ([]map[string]any, error) {
	r.mu.RLock()
	fn, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
	}

	start := time.Now()
	if r.hooks.OnToolCall != nil {
		r.hooks.OnToolCall(ctx, &domain.ToolEvent{
			Timestamp: start,
			Type:      domain.EventToolCall,
			ToolName:  name,
		})
	}

	result, err := fn(ctx, input)
	elapsed := time.Since(start)

	if err != nil {
		r.logger.Warn("tool execution failed", "tool", name, "err", err)
		result = ErrorPayload(err)
	}
	if r.hooks.OnToolReturn != nil {
		r.hooks.OnToolReturn(ctx, &domain.ToolEvent{
			Timestamp: time.Now(),
			Type:      domain.EventToolReturn,
			ToolName:  name,
			Duration:  elapsed,
			IsError:   err != nil,
		})
	}
	r.logger.Debug("tool executed", "tool", name, "rows", len(result), "duration", elapsed)
	return result, nil
}

// ErrorPayload shapes an error into the tool result contract.
func ErrorPayload(err error) []map[string]any {
	return []map[string]any{{"error": err.Error()}}
}

// IsErrorPayload reports whether a tool result is an error-shaped payload.
func IsErrorPayload(result []map[string]any) (string, bool) {
	if len(result) != 1 {
		return "", false
	}
	msg, ok := result[0]["error"].(string)
	return msg, ok
}
