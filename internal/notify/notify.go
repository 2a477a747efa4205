// Package notify publishes analysis session status changes.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type Update struct {
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier interface {
	Notify(ctx context.Context, u Update) error
}

// Log writes updates to the default slog logger.
type Log struct{}

func (Log) Notify(_ context.Context, u Update) error {
	slog.Info("session update",
		"component", "notify",
		"session_id", u.SessionID,
		"status", u.Status,
		"message", u.Message)
	return nil
}

// Multi fans an update out to several notifiers and returns the first error.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, u Update) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, u); err != nil && first == nil {
			first = err
		}
	}
	return first
}
