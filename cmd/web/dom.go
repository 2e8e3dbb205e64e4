//go:build js && wasm

package main

import (
	"html/template"
	"syscall/js"

	"github.com/windfall/readaloud_service/pkg/feedback"
	"github.com/windfall/readaloud_service/pkg/practice"
)

// domView renders controller state into the page.
type domView struct {
	window            js.Value
	difficulty        js.Value
	getPassageBtn     js.Value
	passageContainer  js.Value
	passageText       js.Value
	recordBtn         js.Value
	feedbackContainer js.Value
	feedbackContent   js.Value
	loading           js.Value
	loadingText       js.Value

	// handlers live for the lifetime of the page
	handlers []js.Func
}

func newDOMView(doc js.Value) *domView {
	byID := func(id string) js.Value { return doc.Call("getElementById", id) }
	return &domView{
		window:            js.Global(),
		difficulty:        byID("difficulty"),
		getPassageBtn:     byID("get-passage-btn"),
		passageContainer:  byID("passage-container"),
		passageText:       byID("passage-text"),
		recordBtn:         byID("record-btn"),
		feedbackContainer: byID("feedback-container"),
		feedbackContent:   byID("feedback-content"),
		loading:           byID("loading"),
		loadingText:       byID("loading-text"),
	}
}

// bind attaches the page controls to ctrl. Calls that fetch must not run on
// the event loop.
func (v *domView) bind(ctrl *practice.Controller) {
	v.on(v.getPassageBtn, "click", func(js.Value) {
		difficulty := v.difficulty.Get("value").String()
		go ctrl.RequestPassage(difficulty)
	})
	v.on(v.recordBtn, "click", func(js.Value) {
		ctrl.ToggleRecording()
	})
	// rendered words are replaced on every analysis, so listen on the container
	v.on(v.feedbackContent, "click", func(ev js.Value) {
		target := ev.Get("target").Call("closest", "."+feedback.WordClass)
		if !target.Truthy() {
			return
		}
		ctrl.PlayWord(target.Get("dataset").Get("word").String())
	})
}

func (v *domView) on(el js.Value, event string, fn func(ev js.Value)) {
	h := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	v.handlers = append(v.handlers, h)
	el.Call("addEventListener", event, h)
}

func (v *domView) disableControls() {
	v.getPassageBtn.Set("disabled", true)
	v.recordBtn.Set("disabled", true)
}

func (v *domView) SetBusy(busy bool, message string) {
	if busy {
		v.loadingText.Set("textContent", message)
		v.loading.Get("classList").Call("remove", "hidden")
		v.getPassageBtn.Set("disabled", true)
		return
	}
	v.loading.Get("classList").Call("add", "hidden")
	v.getPassageBtn.Set("disabled", false)
}

func (v *domView) ShowPassage(text string) {
	v.passageText.Set("textContent", text)
	v.passageContainer.Get("classList").Call("remove", "hidden")
}

func (v *domView) SetRecordButton(state practice.RecordButton) {
	label, disabled, recording := "Start Recording", false, false
	switch state {
	case practice.ButtonDisabled:
		disabled = true
	case practice.ButtonRecording:
		label, recording = "Stop Recording", true
	case practice.ButtonProcessing:
		label, disabled = "Processing...", true
	}
	v.recordBtn.Set("textContent", label)
	v.recordBtn.Set("disabled", disabled)
	v.recordBtn.Get("classList").Call("toggle", "recording", recording)
}

func (v *domView) ShowFeedback(fragment template.HTML) {
	v.feedbackContent.Set("innerHTML", string(fragment))
	v.feedbackContainer.Get("classList").Call("remove", "hidden")
}

func (v *domView) HideFeedback() {
	v.feedbackContainer.Get("classList").Call("add", "hidden")
}

func (v *domView) Alert(message string) {
	v.window.Call("alert", message)
}
