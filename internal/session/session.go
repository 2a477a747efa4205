// Package session runs one resume upload at a time through extraction, the
// chat model and response interpretation, and keeps the resulting state until
// it is reset.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/analysis"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/chat"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/checklist"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/notify"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/prompt"
)

const (
	UploadErrorMessage     = "Failed to analyze resume. Please try again."
	UnsupportedTypeMessage = "Please upload a PDF file"
)

var (
	ErrBusy            = errors.New("an upload is already being analyzed")
	ErrUnsupportedType = errors.New("unsupported file type")
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

type Document struct {
	Name string
	MIME string
	Data []byte
}

type State struct {
	ID        uuid.UUID        `json:"id"`
	Status    Status           `json:"status"`
	Filename  string           `json:"filename,omitempty"`
	Record    *analysis.Record `json:"record,omitempty"`
	Error     string           `json:"error,omitempty"`
	Checklist []checklist.Item `json:"checklist,omitempty"`
	// Missing lists the checklist labels not found in the resume.
	Missing []string `json:"missing,omitempty"`
}

type TextExtractor interface {
	Text(mime string, data []byte) (string, error)
}

type Options struct {
	Extractor     TextExtractor
	Gate          *chat.Gate
	Template      prompt.Template
	Model         string
	AcceptedTypes []string
	// Notifier defaults to notify.Log.
	Notifier notify.Notifier
	// Timeout bounds extraction plus the model call. Zero means no limit.
	Timeout time.Duration
}

type Session struct {
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

func New(opts Options) *Session {
	if opts.Notifier == nil {
		opts.Notifier = notify.Log{}
	}
	return &Session{
		opts:   opts,
		logger: slog.With("component", "session"),
		state:  State{Status: StatusIdle},
	}
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset discards the last result. It fails with ErrBusy while loading.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == StatusLoading {
		return ErrBusy
	}
	s.state = State{Status: StatusIdle}
	return nil
}

// Upload analyzes doc. The returned record may itself be a failure record
// when the model's reply was unusable; err is set only when the pipeline
// could not produce a reply at all.
func (s *Session) Upload(ctx context.Context, doc Document) (analysis.Record, error) {
	s.mu.Lock()
	if s.state.Status == StatusLoading {
		s.mu.Unlock()
		return analysis.Record{}, ErrBusy
	}
	if !slices.Contains(s.opts.AcceptedTypes, doc.MIME) {
		s.state = State{
			ID:       uuid.New(),
			Status:   StatusFailed,
			Filename: doc.Name,
			Error:    UnsupportedTypeMessage,
		}
		s.mu.Unlock()
		return analysis.Record{}, fmt.Errorf("%w: %q", ErrUnsupportedType, doc.MIME)
	}
	id := uuid.New()
	s.state = State{ID: id, Status: StatusLoading, Filename: doc.Name}
	s.mu.Unlock()

	logger := s.logger.With("session_id", id, "file", doc.Name)
	logger.Info("analysis started", "bytes", len(doc.Data))
	s.notify(ctx, id, notify.StatusProcessing, "analysis started")

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	rec, items, err := s.run(ctx, doc)

	s.mu.Lock()
	if err != nil {
		s.state.Status = StatusFailed
		s.state.Error = UploadErrorMessage
	} else {
		s.state.Status = StatusDone
		s.state.Record = &rec
		s.state.Checklist = items
		s.state.Missing = checklist.Missing(items)
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("analysis failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		s.notify(ctx, id, notify.StatusFailed, "analysis failed")
		return analysis.Record{}, err
	}
	logger.Info("analysis completed",
		"score_ok", rec.OK(),
		"score", rec.Score(),
		"missing", len(s.State().Missing),
		"duration_ms", time.Since(start).Milliseconds())
	s.notify(ctx, id, notify.StatusCompleted, "analysis completed")
	return rec, nil
}

func (s *Session) run(ctx context.Context, doc Document) (analysis.Record, []checklist.Item, error) {
	text, err := s.opts.Extractor.Text(doc.MIME, doc.Data)
	if err != nil {
		return analysis.Record{}, nil, fmt.Errorf("extract resume text: %w", err)
	}
	items := checklist.Check(text)

	client, err := s.opts.Gate.Wait(ctx)
	if err != nil {
		return analysis.Record{}, nil, fmt.Errorf("chat service not ready: %w", err)
	}
	reply, err := client.Complete(ctx, chat.Request{
		Model:    s.opts.Model,
		Messages: s.opts.Template.Messages(text),
	})
	if err != nil {
		return analysis.Record{}, nil, fmt.Errorf("chat completion: %w", err)
	}
	return analysis.Interpret(reply), items, nil
}

func (s *Session) notify(ctx context.Context, id uuid.UUID, status, msg string) {
	err := s.opts.Notifier.Notify(context.WithoutCancel(ctx), notify.Update{
		SessionID: id,
		Status:    status,
		Message:   msg,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to publish update", "session_id", id, "error", err)
	}
}
