package generator

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// DefaultMaxRounds bounds sequential tool-calling rounds per question
const DefaultMaxRounds = 2

// toolErrorPrefix labels failed tool executions in tool_result blocks
const toolErrorPrefix = "Error executing tool: "

// ResponseGenerator drives the model through up to maxRounds rounds of
// optional tool invocation and produces a final natural-language answer.
//
// Termination is guaranteed within maxRounds+1 model calls: every
// round-initiating call carries tool definitions with an automatic tool
// choice, and once the bound is reached one final call is issued without any
// tool definitions, which forces a terminal text answer regardless of model
// behavior.
type ResponseGenerator struct {
	model     interfaces.ModelService
	maxRounds int
	logger    arbor.ILogger
}

// NewResponseGenerator creates a new response generator
func NewResponseGenerator(model interfaces.ModelService, maxRounds int, logger arbor.ILogger) *ResponseGenerator {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &ResponseGenerator{
		model:     model,
		maxRounds: maxRounds,
		logger:    logger,
	}
}

// GenerateResponse answers one question, invoking registry tools as the
// model requests them. conversationHistory is pre-formatted history text
// ("" for a fresh session); registry may be nil, meaning no tools are
// available. Individual tool failures are isolated per tool-request block
// and passed back to the model as error-flagged results.
func (g *ResponseGenerator) GenerateResponse(
	ctx context.Context,
	query string,
	conversationHistory string,
	registry interfaces.ToolRegistry,
) (string, error) {
	systemContent := buildSystemContent(conversationHistory)

	var tools []interfaces.ToolDefinition
	if registry != nil {
		tools = registry.Definitions()
	}

	messages := []interfaces.ModelMessage{
		interfaces.NewTextMessage(interfaces.RoleUser, query),
	}

	roundCount := 0
	hasSuccessfulToolCall := false

	for roundCount < g.maxRounds {
		req := &interfaces.ModelRequest{
			Messages: messages,
			System:   systemContent,
		}

		// Attach tools only when we can execute them
		if len(tools) > 0 && registry != nil {
			req.Tools = tools
			req.ToolChoiceAuto = true
		}

		// Mid-round transport failures propagate; the loop does not retry
		response, err := g.model.CreateMessage(ctx, req)
		if err != nil {
			return "", fmt.Errorf("model call failed on round %d: %w", roundCount+1, err)
		}

		if response.StopReason != interfaces.StopReasonToolUse {
			// No tool use - we have our final response
			return response.FirstText(), nil
		}

		// Execute requested tools and fold results into the conversation
		var roundSucceeded bool
		messages, roundSucceeded = g.executeTools(ctx, response, messages, registry)
		if roundSucceeded {
			hasSuccessfulToolCall = true
		}
		roundCount++

		g.logger.Debug().
			Int("round", roundCount).
			Int("max_rounds", g.maxRounds).
			Bool("round_succeeded", roundSucceeded).
			Msg("Tool round completed")
	}

	// Max rounds reached - make one final call without tools to synthesize
	return g.finalResponse(ctx, messages, systemContent, hasSuccessfulToolCall), nil
}

// buildSystemContent appends the optional history suffix to the static prompt
func buildSystemContent(conversationHistory string) string {
	if conversationHistory == "" {
		return systemPrompt
	}
	return systemPrompt + "\n\nPrevious conversation:\n" + conversationHistory
}

// executeTools runs every tool_use block of a model response in emission
// order and returns the updated message list plus a flag reporting whether
// at least one execution succeeded.
//
// A failing execution is converted to an error-flagged tool_result carrying
// the failure message; sibling blocks in the same turn still execute. A
// tool_use turn with zero tool_use blocks yields no user turn and counts as
// a round with zero successes.
func (g *ResponseGenerator) executeTools(
	ctx context.Context,
	response *interfaces.ModelResponse,
	messages []interfaces.ModelMessage,
	registry interfaces.ToolRegistry,
) ([]interfaces.ModelMessage, bool) {
	// Append the model's tool-use turn verbatim
	messages = append(messages, interfaces.ModelMessage{
		Role:   interfaces.RoleAssistant,
		Blocks: response.Blocks,
	})

	var toolResults []interfaces.ContentBlock
	anyToolSucceeded := false

	for _, block := range response.ToolUses() {
		content, err := registry.Execute(ctx, block.ToolName, block.ToolInput)
		if err != nil {
			g.logger.Warn().
				Err(err).
				Str("tool", block.ToolName).
				Str("tool_use_id", block.ToolUseID).
				Msg("Tool execution failed")

			toolResults = append(toolResults, interfaces.ContentBlock{
				Type:      interfaces.BlockTypeToolResult,
				ToolUseID: block.ToolUseID,
				Content:   toolErrorPrefix + err.Error(),
				IsError:   true,
			})
			continue
		}

		toolResults = append(toolResults, interfaces.ContentBlock{
			Type:      interfaces.BlockTypeToolResult,
			ToolUseID: block.ToolUseID,
			Content:   content,
		})
		anyToolSucceeded = true
	}

	// All results travel back as a single user turn
	if len(toolResults) > 0 {
		messages = append(messages, interfaces.ModelMessage{
			Role:   interfaces.RoleUser,
			Blocks: toolResults,
		})
	}

	return messages, anyToolSucceeded
}

// finalResponse issues the forced final call without tool definitions. A
// transport failure here is caught and mapped to one of two fixed fallback
// answers so the caller always receives text.
func (g *ResponseGenerator) finalResponse(
	ctx context.Context,
	messages []interfaces.ModelMessage,
	systemContent string,
	hasSuccessfulToolCall bool,
) string {
	req := &interfaces.ModelRequest{
		Messages: messages,
		System:   systemContent,
		// No tools - forces a text response
	}

	response, err := g.model.CreateMessage(ctx, req)
	if err != nil {
		g.logger.Error().
			Err(err).
			Bool("had_successful_tool_call", hasSuccessfulToolCall).
			Msg("Forced final model call failed")

		if hasSuccessfulToolCall {
			return fallbackWithResults
		}
		return fallbackWithoutResults
	}

	return response.FirstText()
}
