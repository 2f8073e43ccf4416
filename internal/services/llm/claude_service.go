package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// ClaudeService implements the ModelService interface using Anthropic's
// Claude API. It converts the neutral message/block types to the SDK's
// params and back, including tool definitions and tool_use/tool_result
// content blocks.
type ClaudeService struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	timeout   time.Duration
	maxTokens int
}

// NewClaudeService creates a new Claude model service instance.
//
// The service initialization includes:
//  1. Resolving the Anthropic API key from config (populated from
//     ANTHROPIC_API_KEY when unset in the file)
//  2. Setting default model name if not specified
//  3. Parsing timeout duration from configuration
//  4. Initializing the Claude client
func NewClaudeService(claudeConfig *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if claudeConfig.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for Claude service (set via ANTHROPIC_API_KEY, LECTIO_CLAUDE_API_KEY, or claude.api_key in config)")
	}

	// Set default model name if not specified
	if claudeConfig.Model == "" {
		claudeConfig.Model = "claude-sonnet-4-20250514"
	}

	// Parse timeout duration
	timeout, err := time.ParseDuration(claudeConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", claudeConfig.Timeout, err)
	}

	// Set default max tokens
	maxTokens := claudeConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 800
	}

	// Initialize Claude client
	client := anthropic.NewClient(
		option.WithAPIKey(claudeConfig.APIKey),
	)

	service := &ClaudeService{
		config:    claudeConfig,
		logger:    logger,
		client:    client,
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", claudeConfig.Model).
		Str("timeout", timeout.String()).
		Float64("temperature", float64(claudeConfig.Temperature)).
		Int("max_tokens", maxTokens).
		Msg("Claude model service initialized successfully")

	return service, nil
}

// CreateMessage performs one model call with the accumulated conversation,
// optional system text and optional tool definitions.
func (s *ClaudeService) CreateMessage(ctx context.Context, req *interfaces.ModelRequest) (*interfaces.ModelResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty for model call")
	}

	// Create timeout context
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("message_count", len(req.Messages)).
		Int("tool_count", len(req.Tools)).
		Msg("Starting Claude model call")

	params, err := s.buildParams(req)
	if err != nil {
		return nil, fmt.Errorf("failed to convert request to Claude format: %w", err)
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("message_count", len(req.Messages)).
			Msg("Claude model call failed")
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	response, err := convertResponse(resp)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("stop_reason", string(response.StopReason)).
		Int("block_count", len(response.Blocks)).
		Dur("duration", time.Since(startTime)).
		Msg("Claude model call completed")

	return response, nil
}

// buildParams converts a neutral ModelRequest to Claude MessageNewParams
func (s *ClaudeService) buildParams(req *interfaces.ModelRequest) (anthropic.MessageNewParams, error) {
	claudeMessages, err := convertMessagesToClaude(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.maxTokens),
		Messages:  claudeMessages,
	}

	// Set temperature if configured
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	// Set system message if present
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	// Attach tool definitions; the forced final call omits them entirely
	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, def := range req.Tools {
			tools = append(tools, anthropic.ToolUnionParam{
				OfTool: &anthropic.ToolParam{
					Name:        def.Name,
					Description: anthropic.String(def.Description),
					InputSchema: convertInputSchema(def.InputSchema),
				},
			})
		}
		params.Tools = tools

		if req.ToolChoiceAuto {
			params.ToolChoice = anthropic.ToolChoiceUnionParam{
				OfAuto: &anthropic.ToolChoiceAutoParam{},
			}
		}
	}

	return params, nil
}

// convertInputSchema maps a generic schema map to the SDK's schema param
func convertInputSchema(schema map[string]interface{}) anthropic.ToolInputSchemaParam {
	param := anthropic.ToolInputSchemaParam{}

	if properties, ok := schema["properties"]; ok {
		param.Properties = properties
	}
	if required, ok := schema["required"].([]string); ok {
		param.Required = required
	} else if rawRequired, ok := schema["required"].([]interface{}); ok {
		fields := make([]string, 0, len(rawRequired))
		for _, r := range rawRequired {
			if field, ok := r.(string); ok {
				fields = append(fields, field)
			}
		}
		param.Required = fields
	}

	return param
}

// convertMessagesToClaude converts neutral messages to Claude MessageParam
// format, preserving text, tool_use and tool_result blocks in order.
func convertMessagesToClaude(messages []interfaces.ModelMessage) ([]anthropic.MessageParam, error) {
	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == interfaces.RoleUser {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, fmt.Errorf("at least one message must have role 'user'")
	}

	claudeMessages := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Blocks))
		for _, block := range msg.Blocks {
			switch block.Type {
			case interfaces.BlockTypeText:
				blocks = append(blocks, anthropic.NewTextBlock(block.Text))
			case interfaces.BlockTypeToolUse:
				blocks = append(blocks, anthropic.NewToolUseBlock(block.ToolUseID, block.ToolInput, block.ToolName))
			case interfaces.BlockTypeToolResult:
				blocks = append(blocks, anthropic.NewToolResultBlock(block.ToolUseID, block.Content, block.IsError))
			default:
				return nil, fmt.Errorf("unsupported content block type: %s", block.Type)
			}
		}

		switch msg.Role {
		case interfaces.RoleAssistant:
			claudeMessages = append(claudeMessages, anthropic.NewAssistantMessage(blocks...))
		default:
			// User and unknown roles map to user messages
			claudeMessages = append(claudeMessages, anthropic.NewUserMessage(blocks...))
		}
	}

	return claudeMessages, nil
}

// convertResponse maps a Claude API response back to the neutral form
func convertResponse(resp *anthropic.Message) (*interfaces.ModelResponse, error) {
	if resp == nil {
		return nil, fmt.Errorf("no response generated from Claude API")
	}

	response := &interfaces.ModelResponse{
		StopReason: interfaces.StopReasonEndTurn,
	}
	if resp.StopReason == anthropic.StopReasonToolUse {
		response.StopReason = interfaces.StopReasonToolUse
	}

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			response.Blocks = append(response.Blocks, interfaces.ContentBlock{
				Type: interfaces.BlockTypeText,
				Text: block.Text,
			})
		case "tool_use":
			args := map[string]interface{}{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return nil, fmt.Errorf("failed to decode tool input for %s: %w", block.Name, err)
				}
			}
			response.Blocks = append(response.Blocks, interfaces.ContentBlock{
				Type:      interfaces.BlockTypeToolUse,
				ToolUseID: block.ID,
				ToolName:  block.Name,
				ToolInput: args,
			})
		}
	}

	if len(response.Blocks) == 0 {
		return nil, fmt.Errorf("no content blocks returned from Claude API")
	}

	return response, nil
}

// HealthCheck verifies the Claude service is operational and can handle
// requests with a lightweight connectivity probe.
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	s.logger.Debug().Msg("Running Claude model service health check")

	healthCheckCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	probe := &interfaces.ModelRequest{
		Messages: []interfaces.ModelMessage{
			interfaces.NewTextMessage(interfaces.RoleUser, "ping"),
		},
	}

	resp, err := s.CreateMessage(healthCheckCtx, probe)
	if err != nil {
		return fmt.Errorf("Claude health check failed: %w", err)
	}

	if len(strings.TrimSpace(resp.FirstText())) == 0 {
		return fmt.Errorf("Claude probe returned empty response")
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Msg("Claude model service health check passed")

	return nil
}

// Close releases resources and performs cleanup operations
func (s *ClaudeService) Close() error {
	s.logger.Debug().Msg("Closing Claude model service")
	// Claude client doesn't require explicit cleanup
	return nil
}
