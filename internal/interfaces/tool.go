package interfaces

import "context"

// ToolDefinition describes one invocable tool in the shape the model's
// function-calling interface expects. Immutable after registration.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// ToolOutput is the explicit result of a tool execution: the text returned to
// the model plus the human-readable source citations derived from it. Sources
// travel as a return value rather than a mutable slot on the tool so a tool
// instance holds no per-call state.
type ToolOutput struct {
	Content string   `json:"content"`
	Sources []string `json:"sources,omitempty"`
}

// Tool is one capability exposed to the model
type Tool interface {
	// Definition returns the tool's name, description and input schema
	Definition() ToolDefinition

	// Execute runs the tool with the model-provided arguments
	Execute(ctx context.Context, args map[string]interface{}) (*ToolOutput, error)
}

// ToolRegistry maps tool names to Tool instances and tracks the sources of
// the most recent execution per tool.
type ToolRegistry interface {
	// Register adds a tool by name; a duplicate name overwrites silently
	Register(tool Tool)

	// Definitions returns all tool definitions in registration order
	Definitions() []ToolDefinition

	// Execute invokes the named tool. An unknown name is reported as result
	// text, not as an error, so the model can see and recover from it.
	Execute(ctx context.Context, name string, args map[string]interface{}) (string, error)

	// LastSources returns the sources of the most recent execution: the first
	// non-empty source list across registered tools, in registration order
	LastSources() []string

	// ResetSources clears recorded sources for every registered tool
	ResetSources()
}
