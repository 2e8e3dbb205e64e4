// Package capture drives one continuous speech-recognition session at a time
// and accumulates its finalized transcript.
//
// A Session moves idle → recording on Start, recording → stopping on Stop and
// back to idle when the recognizer reports the end of the session, at which
// point the completion callback receives the transcript. A recognition error
// returns the session to idle from any state without completing.
package capture

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State of a capture session.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

var (
	ErrSessionActive = errors.New("capture: a recording session is already active")
	ErrNotRecording  = errors.New("capture: not recording")
)

// Segment is one recognition result.
type Segment struct {
	Text  string
	Final bool
}

// Listener receives the events of one recognition session.
type Listener interface {
	OnResult(seg Segment)
	OnEnd()
	OnError(err error)
}

// Recognizer is a continuous speech recognizer. Start begins a session that
// reports to l until OnEnd or OnError; Stop asks it to finish.
type Recognizer interface {
	Start(l Listener) error
	Stop()
}

// Session is the capture state machine. It is safe for concurrent use;
// callbacks run without the lock held.
type Session struct {
	rec Recognizer
	log zerolog.Logger

	onComplete func(transcript string)
	onError    func(err error)
	onState    func(State)

	mu         sync.Mutex
	state      State
	id         string
	transcript strings.Builder
}

// Option configures a Session.
type Option func(*Session)

// OnComplete sets the callback receiving the transcript when a session ends.
func OnComplete(fn func(transcript string)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// OnError sets the callback receiving recognition errors.
func OnError(fn func(err error)) Option {
	return func(s *Session) { s.onError = fn }
}

// OnStateChange sets the callback notified after every transition.
func OnStateChange(fn func(State)) Option {
	return func(s *Session) { s.onState = fn }
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New creates an idle session over rec.
func New(rec Recognizer, opts ...Option) *Session {
	s := &Session{
		rec: rec,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the transcript accumulated so far.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.String()
}

// Start begins a new recording with an empty transcript.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrSessionActive
	}
	id := uuid.NewString()
	s.id = id
	s.state = StateRecording
	s.transcript.Reset()
	s.mu.Unlock()

	if err := s.rec.Start(&listener{session: s, id: id}); err != nil {
		s.mu.Lock()
		if s.id == id {
			s.state = StateIdle
			s.id = ""
		}
		s.mu.Unlock()
		s.log.Error().Err(err).Str("session_id", id).Msg("Recognizer failed to start")
		s.notifyState(StateIdle)
		return err
	}

	s.log.Debug().Str("session_id", id).Msg("Recording started")
	s.notifyState(StateRecording)
	return nil
}

// Stop asks the recognizer to end the recording. The session stays in
// stopping until the recognizer reports the end.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return ErrNotRecording
	}
	s.state = StateStopping
	id := s.id
	s.mu.Unlock()

	s.log.Debug().Str("session_id", id).Msg("Recording stopping")
	s.notifyState(StateStopping)
	s.rec.Stop()
	return nil
}

func (s *Session) handleResult(id string, seg Segment) {
	if !seg.Final {
		return
	}
	text := strings.TrimSpace(seg.Text)
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.id || s.state == StateIdle {
		return
	}
	if s.transcript.Len() > 0 {
		s.transcript.WriteByte(' ')
	}
	s.transcript.WriteString(text)
}

func (s *Session) handleEnd(id string) {
	s.mu.Lock()
	if id != s.id || s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.id = ""
	transcript := s.transcript.String()
	s.mu.Unlock()

	s.log.Debug().
		Str("session_id", id).
		Int("transcript_length", len(transcript)).
		Msg("Recording ended")
	s.notifyState(StateIdle)
	if s.onComplete != nil {
		s.onComplete(transcript)
	}
}

func (s *Session) handleError(id string, err error) {
	s.mu.Lock()
	if id != s.id || s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.id = ""
	s.mu.Unlock()

	s.log.Warn().Err(err).Str("session_id", id).Msg("Recognition error")
	s.notifyState(StateIdle)
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *Session) notifyState(st State) {
	if s.onState != nil {
		s.onState(st)
	}
}

// listener ties recognizer events to the session that started them, so
// events from an earlier session are dropped.
type listener struct {
	session *Session
	id      string
}

func (l *listener) OnResult(seg Segment) { l.session.handleResult(l.id, seg) }
func (l *listener) OnEnd()               { l.session.handleEnd(l.id) }
func (l *listener) OnError(err error)    { l.session.handleError(l.id, err) }
