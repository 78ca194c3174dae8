// Package shoutout writes the one-line DJ announcement for a request.
//
// Generation never fails from the caller's point of view: when the model is
// disabled, unconfigured, slow, or returns nothing usable, the service answers
// with "Next up: {song} for {user}!" and logs why.
package shoutout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vibeline/internal/config"
	"vibeline/internal/logging"
	"vibeline/internal/request"
	"vibeline/internal/services"
	"vibeline/internal/services/llm"
)

const systemPrompt = "You are a cool, minimalist underground club DJ."

// Completer produces a text reply for a prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Result is a generated shout-out.
type Result struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

// Service generates shout-outs.
type Service struct {
	completer Completer
	enabled   bool
	timeout   time.Duration
	logger    *slog.Logger
}

// New builds a Service around completer. A nil completer always falls back.
func New(completer Completer, enabled bool, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		completer: completer,
		enabled:   enabled,
		timeout:   timeout,
		logger:    logging.NewComponentLogger(logger, "shoutout"),
	}
}

// NewFromConfig wires an OpenRouter client from cfg. Without an API key the
// service is built without a completer and every call falls back.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Service {
	llmCfg := cfg.GetLLM()
	var completer Completer
	if llmCfg.APIKey != "" {
		completer = llm.NewClient(llm.Config{
			APIKey:         llmCfg.APIKey,
			BaseURL:        llmCfg.BaseURL,
			Model:          llmCfg.Model,
			Referer:        llmCfg.Referer,
			Title:          llmCfg.Title,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
		}, llm.WithRetryMaxAttempts(2))
	}
	return New(completer, cfg.Shoutout.Enabled, cfg.ShoutoutTimeout(), logger)
}

// Fallback is the fixed announcement used whenever generation fails.
func Fallback(r request.Request) string {
	return fmt.Sprintf("Next up: %s for %s!", r.SongName, displayName(r))
}

// Prompt renders the user prompt for r.
func Prompt(r request.Request) string {
	var b strings.Builder
	b.WriteString("Generate a short, energetic one-sentence shout-out for the next track.\n")
	fmt.Fprintf(&b, "Song: %s by %s.\n", r.SongName, r.Artist)
	fmt.Fprintf(&b, "Requested by: %s.\n", displayName(r))
	if vibe := strings.TrimSpace(r.Vibe); vibe != "" {
		fmt.Fprintf(&b, "Vibe: %s.\n", vibe)
	}
	fmt.Fprintf(&b, "Listener's Note: %s.\n", strings.TrimSpace(r.Note))
	b.WriteString("Keep it professional, concise, and in character.")
	return b.String()
}

// Generate returns a shout-out for r.
func (s *Service) Generate(ctx context.Context, r request.Request) Result {
	logger := logging.WithContext(services.WithRequestID(ctx, r.ID), s.logger)
	text, err := s.generate(ctx, r)
	if err != nil {
		logging.WarnWithContext(logger, "shout-out generation failed; using fallback", "shoutout_fallback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
			logging.String(logging.FieldImpact, "listener hears the generic announcement"),
		)
		return Result{Text: Fallback(r), Fallback: true}
	}
	logger.Debug("shout-out generated", logging.Int("length", len(text)))
	return Result{Text: text}
}

var (
	errDisabled      = errors.New("shout-outs disabled")
	errNotConfigured = errors.New("no llm api key configured")
)

func (s *Service) generate(ctx context.Context, r request.Request) (string, error) {
	if !s.enabled {
		return "", errDisabled
	}
	if s.completer == nil {
		return "", errNotConfigured
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	reply, err := s.completer.Complete(ctx, systemPrompt, Prompt(r))
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "shoutout", "generate", "llm completion", err)
	}
	text := llm.CleanText(reply)
	if text == "" {
		return "", services.Wrap(services.ErrExternalService, "shoutout", "generate", "empty reply", nil)
	}
	return text, nil
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, errDisabled):
		return "set shoutout.enabled = true to use the model"
	case errors.Is(err, errNotConfigured), errors.Is(err, llm.ErrMissingAPIKey):
		return "set VIBELINE_LLM_API_KEY or llm.api_key"
	case errors.Is(err, context.DeadlineExceeded):
		return "raise shoutout.timeout_seconds or check provider latency"
	default:
		return "check llm.base_url, llm.model and provider status"
	}
}

func displayName(r request.Request) string {
	if name := strings.TrimSpace(r.UserName); name != "" {
		return name
	}
	return request.DefaultUserName
}
