package practice

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windfall/readaloud_service/pkg/capture"
	"github.com/windfall/readaloud_service/pkg/feedback"
)

type fakeAPI struct {
	passage    string
	passageErr error
	fb         *feedback.Feedback
	analyzeErr error

	difficulties []string
	analyzed     [][2]string
}

func (a *fakeAPI) GeneratePassage(_ context.Context, difficulty string) (string, error) {
	a.difficulties = append(a.difficulties, difficulty)
	return a.passage, a.passageErr
}

func (a *fakeAPI) AnalyzeReading(_ context.Context, original, transcript string) (*feedback.Feedback, error) {
	a.analyzed = append(a.analyzed, [2]string{original, transcript})
	return a.fb, a.analyzeErr
}

type fakeView struct {
	busy     []bool
	messages []string
	passage  string
	buttons  []RecordButton
	feedback template.HTML
	hidden   int
	alerts   []string
}

func (v *fakeView) SetBusy(busy bool, message string) {
	v.busy = append(v.busy, busy)
	if busy {
		v.messages = append(v.messages, message)
	}
}
func (v *fakeView) ShowPassage(text string)             { v.passage = text }
func (v *fakeView) SetRecordButton(state RecordButton)  { v.buttons = append(v.buttons, state) }
func (v *fakeView) ShowFeedback(fragment template.HTML) { v.feedback = fragment }
func (v *fakeView) HideFeedback()                       { v.hidden++ }
func (v *fakeView) Alert(message string)                { v.alerts = append(v.alerts, message) }

func (v *fakeView) lastButton() RecordButton { return v.buttons[len(v.buttons)-1] }

type fakeSpeaker struct {
	words []string
	err   error
}

func (s *fakeSpeaker) Speak(word string) error {
	s.words = append(s.words, word)
	return s.err
}

type fakeRecognizer struct {
	listeners []capture.Listener
	startErr  error
}

func (r *fakeRecognizer) Start(l capture.Listener) error {
	if r.startErr != nil {
		return r.startErr
	}
	r.listeners = append(r.listeners, l)
	return nil
}

func (r *fakeRecognizer) Stop() {}

func (r *fakeRecognizer) current() capture.Listener { return r.listeners[len(r.listeners)-1] }

type fixture struct {
	api     *fakeAPI
	view    *fakeView
	speaker *fakeSpeaker
	rec     *fakeRecognizer
	ctrl    *Controller
}

func newFixture() *fixture {
	f := &fixture{
		api:     &fakeAPI{passage: "It was very sunny."},
		view:    &fakeView{},
		speaker: &fakeSpeaker{},
		rec:     &fakeRecognizer{},
	}
	f.ctrl = New(context.Background(), f.api, f.view, f.speaker, f.rec)
	return f
}

// read records one full session that produces transcript.
func (f *fixture) read(t *testing.T, transcript string) {
	t.Helper()
	f.ctrl.ToggleRecording()
	require.Equal(t, capture.StateRecording, f.ctrl.CaptureState())
	if transcript != "" {
		f.rec.current().OnResult(capture.Segment{Text: transcript, Final: true})
	}
	f.ctrl.ToggleRecording()
	require.Equal(t, capture.StateStopping, f.ctrl.CaptureState())
	f.rec.current().OnEnd()
}

func TestRecordDisabledUntilPassage(t *testing.T) {
	f := newFixture()
	assert.Equal(t, ButtonDisabled, f.view.lastButton())

	f.ctrl.ToggleRecording()
	assert.Equal(t, capture.StateIdle, f.ctrl.CaptureState())
	assert.Empty(t, f.rec.listeners)
}

func TestRequestPassage(t *testing.T) {
	f := newFixture()
	f.ctrl.RequestPassage("beginner")

	assert.Equal(t, []string{"beginner"}, f.api.difficulties)
	assert.Equal(t, "It was very sunny.", f.view.passage)
	assert.Equal(t, "It was very sunny.", f.ctrl.Passage())
	assert.Equal(t, []bool{true, false}, f.view.busy)
	assert.Equal(t, []string{MsgGeneratingBusy}, f.view.messages)
	assert.Equal(t, 1, f.view.hidden)
	assert.Equal(t, ButtonReady, f.view.lastButton())
	assert.Empty(t, f.view.alerts)
}

func TestRequestPassageFailure(t *testing.T) {
	f := newFixture()
	f.api.passageErr = errors.New("backend returned 500")
	f.ctrl.RequestPassage("advanced")

	assert.Equal(t, []string{MsgPassageFailed}, f.view.alerts)
	assert.Equal(t, []bool{true, false}, f.view.busy)
	assert.Empty(t, f.ctrl.Passage())
	assert.Equal(t, ButtonDisabled, f.view.lastButton())
}

func TestRequestPassageIgnoredWhileRecording(t *testing.T) {
	f := newFixture()
	f.ctrl.RequestPassage("beginner")
	f.ctrl.ToggleRecording()

	f.ctrl.RequestPassage("advanced")
	assert.Equal(t, []string{"beginner"}, f.api.difficulties)
}

func TestFullReading(t *testing.T) {
	f := newFixture()
	f.api.fb = &feedback.Feedback{
		OverallFeedback: "Nice reading.",
		Mistakes: []feedback.Mistake{{
			Kind:         feedback.KindOmission,
			OriginalWord: strPtr("very"),
			Context:      "very sunny",
		}},
	}
	f.ctrl.RequestPassage("beginner")
	f.read(t, "it was sunny")

	require.Len(t, f.api.analyzed, 1)
	assert.Equal(t, [2]string{"It was very sunny.", "it was sunny"}, f.api.analyzed[0])
	assert.Contains(t, string(f.view.feedback), `data-word="very"`)
	assert.Contains(t, f.view.messages, MsgAnalyzingBusy)
	assert.Equal(t, capture.StateIdle, f.ctrl.CaptureState())
	assert.Equal(t, ButtonReady, f.view.lastButton())
	assert.Empty(t, f.view.alerts)
}

func TestRecordingButtonStates(t *testing.T) {
	f := newFixture()
	f.api.fb = &feedback.Feedback{OverallFeedback: "ok", Mistakes: []feedback.Mistake{}}
	f.ctrl.RequestPassage("beginner")
	f.view.buttons = nil

	f.read(t, "it was very sunny")
	assert.Equal(t, []RecordButton{
		ButtonRecording,
		ButtonProcessing,
		ButtonDisabled,
		ButtonDisabled,
		ButtonReady,
	}, f.view.buttons)
	assert.Contains(t, string(f.view.feedback), feedback.PerfectMessage)
}

func TestEmptyTranscriptSkipsAnalysis(t *testing.T) {
	f := newFixture()
	f.ctrl.RequestPassage("beginner")
	f.read(t, "")

	assert.Empty(t, f.api.analyzed)
	assert.Equal(t, []string{MsgNoSpeech}, f.view.alerts)
	assert.Equal(t, ButtonReady, f.view.lastButton())
}

func TestAnalysisFailure(t *testing.T) {
	f := newFixture()
	f.api.analyzeErr = errors.New("backend returned 500: Failed to analyze reading.")
	f.ctrl.RequestPassage("beginner")
	f.read(t, "it was sunny")

	assert.Equal(t, []string{MsgAnalysisFailed}, f.view.alerts)
	assert.Empty(t, f.view.feedback)
	assert.Equal(t, false, f.view.busy[len(f.view.busy)-1])
	assert.Equal(t, ButtonReady, f.view.lastButton())
}

func TestRecognitionError(t *testing.T) {
	f := newFixture()
	f.ctrl.RequestPassage("beginner")
	f.ctrl.ToggleRecording()
	f.rec.current().OnError(errors.New("not-allowed"))

	assert.Equal(t, capture.StateIdle, f.ctrl.CaptureState())
	assert.Equal(t, []string{fmt.Sprintf(MsgSpeechFailed, "not-allowed")}, f.view.alerts)
	assert.Equal(t, ButtonReady, f.view.lastButton())
	assert.Empty(t, f.api.analyzed)
}

func TestStartFailure(t *testing.T) {
	f := newFixture()
	f.rec.startErr = errors.New("no microphone")
	f.ctrl.RequestPassage("beginner")
	f.ctrl.ToggleRecording()

	assert.Equal(t, []string{"Could not start recording: no microphone"}, f.view.alerts)
	assert.Equal(t, ButtonReady, f.view.lastButton())
}

func TestRecordingHidesOldFeedback(t *testing.T) {
	f := newFixture()
	f.ctrl.RequestPassage("beginner")
	hidden := f.view.hidden

	f.ctrl.ToggleRecording()
	assert.Equal(t, hidden+1, f.view.hidden)
}

func TestDispatcherRunsAnalysis(t *testing.T) {
	var queued []func()
	api := &fakeAPI{passage: "Hello there.", fb: &feedback.Feedback{OverallFeedback: "ok", Mistakes: []feedback.Mistake{}}}
	view := &fakeView{}
	rec := &fakeRecognizer{}
	ctrl := New(context.Background(), api, view, &fakeSpeaker{}, rec,
		WithDispatcher(func(fn func()) { queued = append(queued, fn) }))

	ctrl.RequestPassage("beginner")
	ctrl.ToggleRecording()
	rec.current().OnResult(capture.Segment{Text: "hello there", Final: true})
	ctrl.ToggleRecording()
	rec.current().OnEnd()

	assert.Empty(t, api.analyzed)
	require.Len(t, queued, 1)
	queued[0]()
	assert.Len(t, api.analyzed, 1)
}

func TestPlayWord(t *testing.T) {
	f := newFixture()
	f.ctrl.PlayWord("sunny")
	f.ctrl.PlayWord("")
	assert.Equal(t, []string{"sunny"}, f.speaker.words)

	f.speaker.err = errors.New("speech synthesis unavailable")
	f.ctrl.PlayWord("very")
	assert.Equal(t, []string{"Could not play the word: speech synthesis unavailable"}, f.view.alerts)
}

func strPtr(s string) *string { return &s }
