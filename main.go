// resume-analyzer extracts the text of a resume, asks a hosted chat model to
// critique it and prints the structured analysis as JSON.
//
//	resume-analyzer [-config config.yaml] [-checklist] [-pretty] <resume.pdf | r2://bucket/key>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/chat"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/config"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/extract"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/notify"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/prompt"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/session"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/storage"
)

const agentName = "resume_analyzer"

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "optional YAML config file")
	withChecklist := flag.Bool("checklist", false, "print the full session state including the presence checklist")
	pretty := flag.Bool("pretty", false, "indent JSON output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <resume.pdf | r2://bucket/key>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tmpl := prompt.Default()
	if cfg.PromptTemplatePath != "" {
		if tmpl, err = prompt.Load(cfg.PromptTemplatePath); err != nil {
			slog.Error("failed to load prompt template", "error", err)
			os.Exit(1)
		}
	}

	// The chat client is built in the background; the upload blocks on the
	// gate only once extraction is done.
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	gate := chat.NewGate()
	go func() {
		client, err := newChatClient(ctx, cfg, tmpl)
		if err != nil {
			cancel(err)
			return
		}
		gate.Ready(client)
	}()

	notifier, closeNotifier := newNotifier(cfg)
	defer closeNotifier()

	doc, err := loadDocument(ctx, cfg, flag.Arg(0))
	if err != nil {
		slog.Error("failed to load resume", "error", err)
		os.Exit(1)
	}

	sess := session.New(session.Options{
		Extractor:     extract.New(),
		Gate:          gate,
		Template:      tmpl,
		Model:         cfg.Model,
		AcceptedTypes: cfg.AcceptedTypes,
		Notifier:      notifier,
		Timeout:       cfg.RequestTimeout,
	})

	rec, err := sess.Upload(ctx, doc)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			slog.Error("chat service unavailable", "error", cause)
		}
		fmt.Fprintln(os.Stderr, sess.State().Error)
		os.Exit(1)
	}

	var out any = rec
	if *withChecklist {
		out = sess.State()
	}
	if err := writeJSON(out, *pretty); err != nil {
		slog.Error("failed to write result", "error", err)
		os.Exit(1)
	}
}

func initLogger(cfg *config.Config) {
	level, _ := cfg.Level()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func newChatClient(ctx context.Context, cfg *config.Config, tmpl prompt.Template) (chat.Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return chat.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL), nil
	default:
		return chat.NewAgentClient(ctx, cfg.GoogleAPIKey, cfg.Model, agentName, tmpl.System)
	}
}

func newNotifier(cfg *config.Config) (notify.Notifier, func()) {
	if cfg.RabbitMQ.URL == "" {
		return notify.Log{}, func() {}
	}
	pub, err := notify.DialAMQP(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		slog.Warn("session updates will only be logged", "error", err)
		return notify.Log{}, func() {}
	}
	return notify.Multi{notify.Log{}, pub}, func() {
		if err := pub.Close(); err != nil {
			slog.Warn("failed to close RabbitMQ connection", "error", err)
		}
	}
}

func loadDocument(ctx context.Context, cfg *config.Config, src string) (session.Document, error) {
	doc := session.Document{Name: path.Base(src), MIME: extract.MIMEFromName(src)}
	if !storage.IsObjectURI(src) {
		data, err := os.ReadFile(src)
		if err != nil {
			return doc, err
		}
		doc.Data = data
		return doc, nil
	}

	if !cfg.HasR2() {
		return doc, errors.New("object storage credentials are not configured (R2_ACCESS_KEY, R2_SECRET_KEY)")
	}
	store, err := storage.New(ctx, storage.R2Config{
		AccountID: cfg.R2.AccountID,
		Bucket:    cfg.R2.Bucket,
		AccessKey: cfg.R2.AccessKey,
		SecretKey: cfg.R2.SecretKey,
	})
	if err != nil {
		return doc, err
	}
	data, err := store.Fetch(ctx, src)
	if err != nil {
		return doc, err
	}
	doc.Data = data
	return doc, nil
}

func writeJSON(v any, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
