// Package chat talks to hosted chat-completion models.
package chat

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

var ErrEmptyResponse = errors.New("empty response from model")

type Message struct {
	Role    string
	Content string
}

type Request struct {
	Model    string
	Messages []Message
}

// Client returns the model's free-form reply to a conversation.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
