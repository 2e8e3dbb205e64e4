package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/windfall/readaloud_service/internal/errors"
	"github.com/windfall/readaloud_service/internal/prompt"
	"github.com/windfall/readaloud_service/pkg/feedback"
)

// FeedbackService compares a passage with what the user read aloud.
type FeedbackService struct {
	gateway ModelGateway
	prompts *prompt.Set
	log     zerolog.Logger
}

// NewFeedbackService creates a new feedback service. A nil gateway makes every
// call fail with an upstream error.
func NewFeedbackService(gateway ModelGateway, prompts *prompt.Set, log zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		gateway: gateway,
		prompts: prompts,
		log:     log,
	}
}

// AnalyzeReading asks the model to act as a pronunciation coach and returns
// its structured feedback. Output that does not parse into a Feedback is
// reported as a malformed response; it is never retried or repaired.
func (s *FeedbackService) AnalyzeReading(ctx context.Context, originalPassage, userTranscript string) (*feedback.Feedback, error) {
	if strings.TrimSpace(originalPassage) == "" || strings.TrimSpace(userTranscript) == "" {
		return nil, errors.Validation("Original passage and user transcript are required.")
	}
	if s.gateway == nil {
		return nil, errors.Upstream("model gateway not configured", nil)
	}

	p, err := s.prompts.Feedback(originalPassage, userTranscript)
	if err != nil {
		return nil, errors.InternalWrap("failed to build feedback prompt", err)
	}

	raw, err := s.gateway.Complete(ctx, p)
	if err != nil {
		return nil, errors.Upstream("reading analysis failed", err)
	}

	fb, err := feedback.Parse(raw)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("raw", truncate(raw, 512)).
			Msg("Model returned unusable feedback")
		return nil, errors.Malformed("model returned malformed feedback", err)
	}

	s.log.Debug().
		Int("mistakes", len(fb.Mistakes)).
		Msg("Reading analyzed")

	return fb, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
