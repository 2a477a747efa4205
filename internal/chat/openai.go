package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const maxTokens = 2048

// OpenAIClient sends requests to an OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient builds a client. An empty baseURL uses the OpenAI default.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	ccr := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
	}
	// Reasoning models reject max_tokens.
	if isReasoningModel(req.Model) {
		ccr.MaxCompletionTokens = maxTokens
	} else {
		ccr.MaxTokens = maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}
