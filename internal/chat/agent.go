package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const agentUserID = "resume-analyzer"

// AgentClient runs a Gemini-backed ADK agent. The system prompt is fixed when
// the agent is built, so system messages in a Request are not resent.
type AgentClient struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
	model    string
}

func NewAgentClient(ctx context.Context, apiKey, modelName, agentName, instruction string) (*AgentClient, error) {
	llm, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return NewAgentClientWithModel(llm, agentName, instruction)
}

// NewAgentClientWithModel builds the agent around any ADK model, keeping
// sessions in memory.
func NewAgentClientWithModel(llm model.LLM, agentName, instruction string) (*AgentClient, error) {
	return newAgentClient(llm, agentName, instruction, session.InMemoryService())
}

func newAgentClient(llm model.LLM, agentName, instruction string, sessions session.Service) (*AgentClient, error) {
	analyzer, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       llm,
		Description: "Analyze Resume",
		Instruction: instruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	r, err := runner.New(runner.Config{
		AppName:        analyzer.Name(),
		Agent:          analyzer,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &AgentClient{
		runner:   r,
		sessions: sessions,
		appName:  analyzer.Name(),
		model:    llm.Name(),
	}, nil
}

func (c *AgentClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.Model != "" && req.Model != c.model {
		slog.Warn("agent model is fixed at construction",
			"component", "chat", "requested", req.Model, "using", c.model)
	}

	var parts []string
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			continue
		}
		parts = append(parts, m.Content)
	}

	created, err := c.sessions.Create(ctx, &session.CreateRequest{
		AppName:   c.appName,
		UserID:    agentUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	sess := created.Session
	defer func() {
		err := c.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   sess.AppName(),
			UserID:    sess.UserID(),
			SessionID: sess.ID(),
		})
		if err != nil {
			slog.Warn("failed to delete agent session", "component", "chat", "error", err)
		}
	}()

	stream := c.runner.Run(ctx, sess.UserID(), sess.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: strings.Join(parts, "\n\n")},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", fmt.Errorf("agent run failed: %w", err)
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if output == "" {
		return "", ErrEmptyResponse
	}
	return output, nil
}
