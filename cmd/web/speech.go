//go:build js && wasm

package main

import (
	"errors"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/windfall/readaloud_service/pkg/capture"
)

const speechLang = "en-US"

var errSpeechUnsupported = errors.New("your browser does not support Text-to-Speech")

// speechRecognizer adapts the Web Speech API to capture.Recognizer. Each
// Start creates a fresh recognition object.
type speechRecognizer struct {
	ctor js.Value

	mu      sync.Mutex
	current js.Value
	// callbacks of sessions that already ended
	spent []js.Func
}

func newSpeechRecognizer(global js.Value) (*speechRecognizer, bool) {
	ctor := global.Get("SpeechRecognition")
	if !ctor.Truthy() {
		ctor = global.Get("webkitSpeechRecognition")
	}
	if !ctor.Truthy() {
		return nil, false
	}
	return &speechRecognizer{ctor: ctor}, true
}

func (r *speechRecognizer) Start(l capture.Listener) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.spent {
		f.Release()
	}
	r.spent = nil

	rec := r.ctor.New()
	rec.Set("continuous", true)
	rec.Set("interimResults", false)
	rec.Set("lang", speechLang)

	var onResult, onError, onEnd js.Func
	onResult = js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := args[0]
		results := ev.Get("results")
		for i := ev.Get("resultIndex").Int(); i < results.Length(); i++ {
			res := results.Index(i)
			l.OnResult(capture.Segment{
				Text:  res.Index(0).Get("transcript").String(),
				Final: res.Get("isFinal").Bool(),
			})
		}
		return nil
	})
	onError = js.FuncOf(func(_ js.Value, args []js.Value) any {
		l.OnError(errors.New(args[0].Get("error").String()))
		return nil
	})
	onEnd = js.FuncOf(func(js.Value, []js.Value) any {
		l.OnEnd()
		r.mu.Lock()
		r.spent = append(r.spent, onResult, onError, onEnd)
		r.mu.Unlock()
		return nil
	})
	rec.Set("onresult", onResult)
	rec.Set("onerror", onError)
	rec.Set("onend", onEnd)

	// start throws when the microphone is unavailable
	defer func() {
		if p := recover(); p != nil {
			onResult.Release()
			onError.Release()
			onEnd.Release()
			err = fmt.Errorf("speech recognition: %v", p)
		}
	}()
	rec.Call("start")
	r.current = rec
	return nil
}

func (r *speechRecognizer) Stop() {
	r.mu.Lock()
	rec := r.current
	r.mu.Unlock()
	if rec.Truthy() {
		rec.Call("stop")
	}
}

// speaker plays words with speechSynthesis.
type speaker struct {
	global js.Value
}

func newSpeaker(global js.Value) *speaker {
	return &speaker{global: global}
}

func (s *speaker) Speak(word string) error {
	synth := s.global.Get("speechSynthesis")
	utteranceCtor := s.global.Get("SpeechSynthesisUtterance")
	if !synth.Truthy() || !utteranceCtor.Truthy() {
		return errSpeechUnsupported
	}
	utterance := utteranceCtor.New(word)
	utterance.Set("lang", speechLang)
	synth.Call("cancel")
	synth.Call("speak", utterance)
	return nil
}
