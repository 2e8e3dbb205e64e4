package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/windfall/readaloud_service/internal/errors"
	"github.com/windfall/readaloud_service/internal/service"
	"github.com/windfall/readaloud_service/pkg/response"
)

const (
	msgPassageFailed  = "Failed to generate passage."
	msgAnalysisFailed = "Failed to analyze reading."
)

// ReadingHandler handles the passage and reading-analysis endpoints.
type ReadingHandler struct {
	log             zerolog.Logger
	passageService  *service.PassageService
	feedbackService *service.FeedbackService
}

// NewReadingHandler creates a new reading handler.
func NewReadingHandler(
	log zerolog.Logger,
	passageService *service.PassageService,
	feedbackService *service.FeedbackService,
) *ReadingHandler {
	return &ReadingHandler{
		log:             log,
		passageService:  passageService,
		feedbackService: feedbackService,
	}
}

// GeneratePassageRequest is the body of POST /api/generate-passage.
type GeneratePassageRequest struct {
	Difficulty string `json:"difficulty"`
}

// GeneratePassageResponse is returned by POST /api/generate-passage.
type GeneratePassageResponse struct {
	Passage string `json:"passage"`
}

// AnalyzeReadingRequest is the body of POST /api/analyze-reading.
type AnalyzeReadingRequest struct {
	OriginalPassage string `json:"originalPassage"`
	UserTranscript  string `json:"userTranscript"`
}

// GeneratePassage handles POST /api/generate-passage
func (h *ReadingHandler) GeneratePassage(w http.ResponseWriter, r *http.Request) {
	var req GeneratePassageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	passage, err := h.passageService.GeneratePassage(r.Context(), req.Difficulty)
	if err != nil {
		h.handleError(w, r, err, msgPassageFailed)
		return
	}

	response.JSON(w, http.StatusOK, GeneratePassageResponse{Passage: passage})
}

// AnalyzeReading handles POST /api/analyze-reading
// Response: the feedback object, { "overallFeedback": "...", "mistakes": [...] }
func (h *ReadingHandler) AnalyzeReading(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	fb, err := h.feedbackService.AnalyzeReading(r.Context(), req.OriginalPassage, req.UserTranscript)
	if err != nil {
		h.handleError(w, r, err, msgAnalysisFailed)
		return
	}

	response.JSON(w, http.StatusOK, fb)
}

// handleError logs err and writes its status. Only validation messages reach
// the caller; everything else gets the generic message.
func (h *ReadingHandler) handleError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrValidation {
		response.Error(w, appErr.HTTPStatus(), appErr.Message)
		return
	}
	code := errors.CodeOf(err)

	h.log.Error().
		Err(err).
		Str("code", string(code)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg("Request failed")

	response.InternalError(w, generic)
}
