package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// Registry implements the ToolRegistry interface. Tools themselves are
// stateless; the registry records the sources of each tool's most recent
// execution so the answer layer can collect citations after a full cycle.
//
// The last-sources record is shared mutable state across concurrent answer
// cycles that share a registry instance. Distinct cycles on distinct
// registries are fully isolated; concurrent cycles on the same registry can
// interleave source updates. See DESIGN.md.
type Registry struct {
	mu          sync.Mutex
	order       []string
	tools       map[string]interfaces.Tool
	lastSources map[string][]string
	logger      arbor.ILogger
}

// NewRegistry creates an empty tool registry
func NewRegistry(logger arbor.ILogger) *Registry {
	return &Registry{
		tools:       make(map[string]interfaces.Tool),
		lastSources: make(map[string][]string),
		logger:      logger,
	}
}

// Register adds a tool by name. A duplicate name overwrites the previous
// tool silently and keeps its original registration position.
func (r *Registry) Register(tool interfaces.Tool) {
	name := tool.Definition().Name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool

	r.logger.Debug().Str("tool", name).Msg("Tool registered")
}

// Definitions returns all tool definitions in registration order
func (r *Registry) Definitions() []interfaces.ToolDefinition {
	r.mu.Lock()
	defer r.mu.Unlock()

	definitions := make([]interfaces.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		definitions = append(definitions, r.tools[name].Definition())
	}
	return definitions
}

// Execute invokes the named tool. An unknown name is converted to result
// text here - the sole boundary where "unknown tool" becomes data - because
// the model must be able to see and recover from it.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	r.mu.Lock()
	tool, exists := r.tools[name]
	r.mu.Unlock()

	if !exists {
		r.logger.Warn().Str("tool", name).Msg("Unknown tool requested")
		return fmt.Sprintf("Tool '%s' not found", name), nil
	}

	output, err := tool.Execute(ctx, args)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.lastSources[name] = output.Sources
	r.mu.Unlock()

	return output.Content, nil
}

// LastSources returns the first non-empty source list across registered
// tools, in registration order. With a single search tool registered this is
// simply that tool's most recent sources; simultaneous non-empty source sets
// from multiple tools are not merged.
func (r *Registry) LastSources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		if sources := r.lastSources[name]; len(sources) > 0 {
			return sources
		}
	}
	return nil
}

// ResetSources clears recorded sources for every registered tool
func (r *Registry) ResetSources() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSources = make(map[string][]string)
}
