package service

import "context"

// ModelGateway sends one prompt to a generative-language model and returns
// its raw text output.
type ModelGateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
