// Package practice coordinates the browser client: it takes user and
// recognizer events, calls the backend and pushes results to the view.
package practice

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/windfall/readaloud_service/pkg/capture"
	"github.com/windfall/readaloud_service/pkg/feedback"
)

// User-facing messages.
const (
	MsgPassageFailed   = "Failed to fetch a new passage. Please try again."
	MsgAnalysisFailed  = "Failed to analyze your reading. Please try again."
	MsgNoSpeech        = "No speech was detected. Please read the passage aloud and try again."
	MsgSpeechFailed    = "Speech recognition error: %v. Please check your microphone permissions."
	MsgPlaybackFailed  = "Could not play the word: %v"
	MsgGeneratingBusy  = "Generating your passage..."
	MsgAnalyzingBusy   = "Analyzing your speech..."
	MsgStartFailed     = "Could not start recording: %v"
)

// API is the backend the controller talks to.
type API interface {
	GeneratePassage(ctx context.Context, difficulty string) (string, error)
	AnalyzeReading(ctx context.Context, originalPassage, userTranscript string) (*feedback.Feedback, error)
}

// Speaker plays a single word with text-to-speech.
type Speaker interface {
	Speak(word string) error
}

// RecordButton is the state of the record control.
type RecordButton int

const (
	// ButtonDisabled shows "Start Recording" but cannot be pressed.
	ButtonDisabled RecordButton = iota
	ButtonReady
	ButtonRecording
	ButtonProcessing
)

// View is the page the controller drives.
type View interface {
	SetBusy(busy bool, message string)
	ShowPassage(text string)
	SetRecordButton(state RecordButton)
	ShowFeedback(fragment template.HTML)
	HideFeedback()
	Alert(message string)
}

// Dispatcher runs work triggered by recognizer callbacks.
type Dispatcher func(fn func())

// Controller holds the single active passage and capture session.
type Controller struct {
	ctx      context.Context
	api      API
	view     View
	speaker  Speaker
	capture  *capture.Session
	dispatch Dispatcher
	log      zerolog.Logger

	mu      sync.Mutex
	passage string
	busy    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithDispatcher sets how recognizer-triggered work is run. The default runs
// it inline.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Controller) { c.dispatch = d }
}

// WithLogger sets the controller logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// New creates a controller. The recognizer backs its capture session.
func New(ctx context.Context, api API, view View, speaker Speaker, rec capture.Recognizer, opts ...Option) *Controller {
	c := &Controller{
		ctx:      ctx,
		api:      api,
		view:     view,
		speaker:  speaker,
		dispatch: func(fn func()) { fn() },
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.capture = capture.New(rec,
		capture.WithLogger(c.log),
		capture.OnStateChange(c.onCaptureState),
		capture.OnComplete(func(transcript string) {
			c.dispatch(func() { c.analyze(transcript) })
		}),
		capture.OnError(c.onCaptureError),
	)

	view.SetRecordButton(ButtonDisabled)
	return c
}

// Passage returns the active passage.
func (c *Controller) Passage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passage
}

// CaptureState returns the state of the capture session.
func (c *Controller) CaptureState() capture.State {
	return c.capture.State()
}

// RequestPassage fetches a new passage. Ignored while busy or recording.
func (c *Controller) RequestPassage(difficulty string) {
	if c.capture.State() != capture.StateIdle || !c.acquire() {
		return
	}
	defer c.release()

	c.view.SetBusy(true, MsgGeneratingBusy)
	defer c.view.SetBusy(false, "")

	passage, err := c.api.GeneratePassage(c.ctx, difficulty)
	if err != nil {
		c.log.Error().Err(err).Str("difficulty", difficulty).Msg("Error fetching passage")
		c.view.Alert(MsgPassageFailed)
		return
	}

	c.mu.Lock()
	c.passage = passage
	c.mu.Unlock()

	c.view.HideFeedback()
	c.view.ShowPassage(passage)
	c.view.SetRecordButton(ButtonReady)
}

// ToggleRecording starts a recording when idle and stops it when recording.
func (c *Controller) ToggleRecording() {
	switch c.capture.State() {
	case capture.StateIdle:
		if c.Passage() == "" || c.isBusy() {
			return
		}
		c.view.HideFeedback()
		if err := c.capture.Start(); err != nil {
			c.view.Alert(fmt.Sprintf(MsgStartFailed, err))
			c.view.SetRecordButton(ButtonReady)
		}
	case capture.StateRecording:
		_ = c.capture.Stop()
	}
}

// PlayWord speaks word aloud.
func (c *Controller) PlayWord(word string) {
	if word == "" {
		return
	}
	if err := c.speaker.Speak(word); err != nil {
		c.view.Alert(fmt.Sprintf(MsgPlaybackFailed, err))
	}
}

func (c *Controller) analyze(transcript string) {
	if strings.TrimSpace(transcript) == "" {
		c.view.Alert(MsgNoSpeech)
		c.view.SetRecordButton(ButtonReady)
		return
	}
	if !c.acquire() {
		return
	}
	defer c.release()

	c.view.SetRecordButton(ButtonDisabled)
	c.view.SetBusy(true, MsgAnalyzingBusy)
	defer func() {
		c.view.SetBusy(false, "")
		c.view.SetRecordButton(ButtonReady)
	}()

	fb, err := c.api.AnalyzeReading(c.ctx, c.Passage(), transcript)
	if err != nil {
		c.log.Error().Err(err).Msg("Error analyzing reading")
		c.view.Alert(MsgAnalysisFailed)
		return
	}

	fragment, err := feedback.Render(fb)
	if err != nil {
		c.log.Error().Err(err).Msg("Error rendering feedback")
		c.view.Alert(MsgAnalysisFailed)
		return
	}
	c.view.ShowFeedback(fragment)
}

func (c *Controller) onCaptureState(st capture.State) {
	switch st {
	case capture.StateRecording:
		c.view.SetRecordButton(ButtonRecording)
	case capture.StateStopping:
		c.view.SetRecordButton(ButtonProcessing)
	case capture.StateIdle:
		// completion or error handling sets the button from here
		c.view.SetRecordButton(ButtonDisabled)
	}
}

func (c *Controller) onCaptureError(err error) {
	c.view.Alert(fmt.Sprintf(MsgSpeechFailed, err))
	c.view.SetBusy(false, "")
	c.view.SetRecordButton(ButtonReady)
}

func (c *Controller) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) isBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}
