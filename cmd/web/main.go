//go:build js && wasm

// Command web is the browser client. It is compiled to WebAssembly and
// loaded by web/index.html.
package main

import (
	"context"
	"os"
	"syscall/js"

	"github.com/rs/zerolog"

	"github.com/windfall/readaloud_service/pkg/apiclient"
	"github.com/windfall/readaloud_service/pkg/practice"
)

const unsupportedMessage = "Your browser does not support the Web Speech API. Please try Chrome or Edge."

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).
		With().
		Timestamp().
		Str("service", "readaloud_web").
		Logger()

	view := newDOMView(js.Global().Get("document"))

	recognizer, ok := newSpeechRecognizer(js.Global())
	if !ok {
		log.Warn().Msg("Speech recognition is not available")
		view.Alert(unsupportedMessage)
		view.disableControls()
		select {}
	}

	baseURL := js.Global().Get("location").Get("origin").String() + "/api"
	api := apiclient.New(baseURL, nil)

	ctrl := practice.New(context.Background(), api, view, newSpeaker(js.Global()), recognizer,
		practice.WithLogger(log),
		practice.WithDispatcher(func(fn func()) { go fn() }),
	)

	view.bind(ctrl)
	log.Info().Str("api", baseURL).Msg("Client ready")

	select {}
}
