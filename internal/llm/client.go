package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// Role identifies the author of a Message.
type Role string

// Conversation roles.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult is the output of an executed tool, fed back as a RoleTool message.
type ToolResult struct {
	Name   string
	Output map[string]any
}

// Message is one entry of a conversation.
type Message struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// ChatRequest is a single model turn over a conversation.
type ChatRequest struct {
	System   string
	Messages []Message
	Tools    []ToolSpec
	Tier     ModelTier
	// JSON asks the provider for an application/json response.
	JSON bool
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Chat runs one model turn and returns the model's message, which may carry tool calls
	Chat(ctx context.Context, req *ChatRequest) (*Message, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a client for config. Without an API key it returns a client
// whose calls fail with types.ErrLLMUnavailable, so the server can start and the
// local features keep working.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return &unavailableClient{config: config}, nil
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}
	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	return model, nil
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	msg, err := messageFromResponse(resp)
	if err != nil {
		return "", err
	}
	if msg.Text == "" {
		return "", fmt.Errorf("no text parts in response")
	}

	return CleanJSONBlock(msg.Text), nil
}

// Chat sends the last message of req with the earlier ones as history.
func (c *GeminiClient) Chat(ctx context.Context, req *ChatRequest) (*Message, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("chat request has no messages")
	}

	model, err := c.model(req.Tier)
	if err != nil {
		return nil, err
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
	if tools := genaiTools(req.Tools); tools != nil {
		model.Tools = tools
		model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingAuto},
		}
	}

	session := model.StartChat()
	for _, m := range req.Messages[:len(req.Messages)-1] {
		session.History = append(session.History, toContent(m))
	}
	last := toContent(req.Messages[len(req.Messages)-1])

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return messageFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func toContent(m Message) *genai.Content {
	role := "user"
	if m.Role == RoleModel {
		role = "model"
	}

	content := &genai.Content{Role: role}
	if m.Text != "" {
		content.Parts = append(content.Parts, genai.Text(m.Text))
	}
	for _, call := range m.ToolCalls {
		content.Parts = append(content.Parts, genai.FunctionCall{Name: call.Name, Args: call.Args})
	}
	for _, res := range m.ToolResults {
		content.Parts = append(content.Parts, genai.FunctionResponse{Name: res.Name, Response: res.Output})
	}
	return content
}

// messageFromResponse converts the first candidate into a Message.
func messageFromResponse(resp *genai.GenerateContentResponse) (*Message, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	msg := &Message{Role: RoleModel}
	var text []string
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text = append(text, string(p))
		case genai.FunctionCall:
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{Name: p.Name, Args: p.Args})
		case *genai.FunctionCall:
			msg.ToolCalls = append(msg.ToolCalls, ToolCall{Name: p.Name, Args: p.Args})
		}
	}
	msg.Text = strings.Join(text, "")
	return msg, nil
}

// unavailableClient backs a server started without GEMINI_API_KEY.
type unavailableClient struct {
	config *Config
}

func (c *unavailableClient) GenerateJSON(context.Context, string, ModelTier) (string, error) {
	return "", types.ErrLLMUnavailable
}

func (c *unavailableClient) Chat(context.Context, *ChatRequest) (*Message, error) {
	return nil, types.ErrLLMUnavailable
}

func (c *unavailableClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

func (c *unavailableClient) Close() error { return nil }
