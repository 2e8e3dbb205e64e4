package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/windfall/readaloud_service/internal/errors"
	"github.com/windfall/readaloud_service/internal/prompt"
)

// PassageService generates practice passages.
type PassageService struct {
	gateway ModelGateway
	prompts *prompt.Set
	log     zerolog.Logger
}

// NewPassageService creates a new passage service. A nil gateway makes every
// call fail with an upstream error.
func NewPassageService(gateway ModelGateway, prompts *prompt.Set, log zerolog.Logger) *PassageService {
	return &PassageService{
		gateway: gateway,
		prompts: prompts,
		log:     log,
	}
}

// GeneratePassage asks the model for a 5-10 sentence passage at the given
// difficulty and returns the text verbatim.
func (s *PassageService) GeneratePassage(ctx context.Context, difficulty string) (string, error) {
	if strings.TrimSpace(difficulty) == "" {
		return "", errors.Validation("Difficulty level is required.")
	}
	if s.gateway == nil {
		return "", errors.Upstream("model gateway not configured", nil)
	}

	p, err := s.prompts.Passage(difficulty)
	if err != nil {
		return "", errors.InternalWrap("failed to build passage prompt", err)
	}

	passage, err := s.gateway.Complete(ctx, p)
	if err != nil {
		return "", errors.Upstream("passage generation failed", err)
	}
	if strings.TrimSpace(passage) == "" {
		return "", errors.Malformed("model returned an empty passage", nil)
	}

	s.log.Debug().
		Str("difficulty", difficulty).
		Int("length", len(passage)).
		Msg("Passage generated")

	return passage, nil
}
