// Package anthropic implements agentry.Transport on top of the official
// Anthropic SDK.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/viper"

	"github.com/skosovsky/agentry"
)

// DefaultAPIKeyEnv is the environment variable consulted for the API key.
const DefaultAPIKeyEnv = "ANTHROPIC_API_KEY"

// ErrAPIKeyNotFound is returned when no API key is configured.
var ErrAPIKeyNotFound = errors.New("anthropic api key not found")

// Config holds client configuration.
type Config struct {
	// APIKey is used directly when set; otherwise APIKeyEnv is consulted.
	APIKey    string
	APIKeyEnv string
}

// Option configures a Client.
type Option func(*Config)

// WithAPIKey sets the API key explicitly, skipping the environment lookup.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithAPIKeyEnv overrides the environment variable consulted for the key.
func WithAPIKeyEnv(envVar string) Option {
	return func(c *Config) {
		c.APIKeyEnv = envVar
	}
}

// Client is an agentry.Transport backed by the Anthropic Messages API.
type Client struct {
	client *anthropic.Client
}

// NewClient creates a Client. Without WithAPIKey the key is read from the
// environment through viper (DefaultAPIKeyEnv unless overridden).
func NewClient(opts ...Option) (*Client, error) {
	config := &Config{APIKeyEnv: DefaultAPIKeyEnv}
	for _, opt := range opts {
		opt(config)
	}

	apiKey := config.APIKey
	if apiKey == "" {
		_ = viper.BindEnv(config.APIKeyEnv, config.APIKeyEnv)
		apiKey = viper.GetString(config.APIKeyEnv)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set %s", ErrAPIKeyNotFound, config.APIKeyEnv)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &Client{client: &client}, nil
}

// CreateMessage performs one Messages API call. Retries and backoff are the
// SDK's concern; errors propagate to the caller unchanged in meaning.
func (c *Client) CreateMessage(ctx context.Context, req agentry.Request) (*agentry.Response, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages:    toMessageParams(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = toToolParams(req.Tools)
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{
				DisableParallelToolUse: anthropic.Bool(req.DisableParallelToolUse),
			},
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return fromMessage(msg), nil
}

// toMessageParams converts transcript messages to SDK message params.
func toMessageParams(messages []agentry.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Content))
		for _, b := range m.Content {
			switch b.Type {
			case agentry.BlockText:
				blocks = append(blocks, anthropic.NewTextBlock(b.Text))
			case agentry.BlockToolUse:
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    b.ID,
						Name:  b.Name,
						Input: b.Input,
					},
				})
			case agentry.BlockToolResult:
				blocks = append(blocks, anthropic.NewToolResultBlock(b.ToolUseID, b.Content, b.IsError))
			}
		}
		if m.Role == agentry.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

// toToolParams converts tool schemas to SDK tool params. A schema with a
// provider type tag maps to the corresponding native tool variant.
func toToolParams(schemas []agentry.ToolSchema) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(schemas))
	for _, s := range schemas {
		if s.Type != "" {
			out = append(out, anthropic.ToolUnionParam{
				OfTextEditor20250124: &anthropic.ToolTextEditor20250124Param{},
			})
			continue
		}
		tool := anthropic.ToolParam{
			Name: s.Name,
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: s.InputSchema["properties"],
				Required:   requiredList(s.InputSchema),
			},
		}
		if s.Description != "" {
			tool.Description = anthropic.String(s.Description)
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out
}

// requiredList extracts the required parameter names from an input schema.
// An absent list and an empty one are equivalent.
func requiredList(input map[string]any) []string {
	switch v := input["required"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// fromMessage converts an SDK response to the transport-neutral form.
func fromMessage(msg *anthropic.Message) *agentry.Response {
	resp := &agentry.Response{
		ID:         msg.ID,
		StopReason: string(msg.StopReason),
		Usage: agentry.TokenCount{
			Input:  msg.Usage.InputTokens,
			Output: msg.Usage.OutputTokens,
		},
	}
	for i := range msg.Content {
		block := &msg.Content[i]
		switch block.Type {
		case "text":
			resp.Content = append(resp.Content, agentry.TextBlock(block.Text))
		case "tool_use":
			var input map[string]any
			if len(block.Input) > 0 {
				_ = json.Unmarshal(block.Input, &input)
			}
			resp.Content = append(resp.Content, agentry.ToolUseBlock(block.ID, block.Name, input))
		}
	}
	return resp
}

var _ agentry.Transport = (*Client)(nil)
