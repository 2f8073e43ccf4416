package interfaces

import "context"

// Role values used in model conversations
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// BlockType identifies the kind of a content block
type BlockType string

const (
	BlockTypeText       BlockType = "text"
	BlockTypeToolUse    BlockType = "tool_use"
	BlockTypeToolResult BlockType = "tool_result"
)

// StopReason indicates why the model ended its turn
type StopReason string

const (
	// StopReasonEndTurn means the model produced a terminal text answer
	StopReasonEndTurn StopReason = "end_turn"
	// StopReasonToolUse means the model is requesting tool execution
	StopReasonToolUse StopReason = "tool_use"
)

// ContentBlock is one element of a message's content. The populated fields
// depend on Type: Text for text blocks; ToolUseID/ToolName/ToolInput for
// tool_use blocks; ToolUseID/Content/IsError for tool_result blocks.
type ContentBlock struct {
	Type      BlockType              `json:"type"`
	Text      string                 `json:"text,omitempty"`
	ToolUseID string                 `json:"tool_use_id,omitempty"`
	ToolName  string                 `json:"tool_name,omitempty"`
	ToolInput map[string]interface{} `json:"tool_input,omitempty"`
	Content   string                 `json:"content,omitempty"`
	IsError   bool                   `json:"is_error,omitempty"`
}

// ModelMessage is one turn of a model conversation
type ModelMessage struct {
	Role   string         `json:"role"`
	Blocks []ContentBlock `json:"blocks"`
}

// NewTextMessage creates a single-text-block message for the given role
func NewTextMessage(role, text string) ModelMessage {
	return ModelMessage{
		Role:   role,
		Blocks: []ContentBlock{{Type: BlockTypeText, Text: text}},
	}
}

// ModelRequest carries everything needed for one model call. Tools may be nil
// (no tool definitions attached); ToolChoiceAuto is only honored when Tools
// is non-empty.
type ModelRequest struct {
	Messages       []ModelMessage
	System         string
	Tools          []ToolDefinition
	ToolChoiceAuto bool
}

// ModelResponse is the provider-neutral result of one model call
type ModelResponse struct {
	StopReason StopReason
	Blocks     []ContentBlock
}

// FirstText returns the text of the first text block, or "" if none exists
func (r *ModelResponse) FirstText() string {
	for _, block := range r.Blocks {
		if block.Type == BlockTypeText {
			return block.Text
		}
	}
	return ""
}

// ToolUses returns the tool_use blocks of the response in emission order
func (r *ModelResponse) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range r.Blocks {
		if block.Type == BlockTypeToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}

// ModelService abstracts the language model provider. Implementations own
// their timeout and retry behavior; callers do not retry failed calls.
type ModelService interface {
	// CreateMessage performs one model call
	CreateMessage(ctx context.Context, req *ModelRequest) (*ModelResponse, error)

	// HealthCheck verifies the provider is reachable
	HealthCheck(ctx context.Context) error

	// Close releases provider resources
	Close() error
}
