// Package feedback holds the reading-feedback model shared by the server and
// the browser client: the validated parse of model output and its HTML rendering.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind is the category of a reading mistake.
type Kind string

const (
	KindMispronunciation Kind = "mispronunciation"
	KindOmission         Kind = "omission"
	KindInsertion        Kind = "insertion"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMispronunciation, KindOmission, KindInsertion:
		return true
	}
	return false
}

// Mistake is a single difference between the passage and what was read.
// OriginalWord is nil for insertions, UserWord is nil for omissions.
type Mistake struct {
	Kind         Kind    `json:"type"`
	OriginalWord *string `json:"originalWord"`
	UserWord     *string `json:"userWord"`
	Context      string  `json:"context"`
}

// Feedback is the analysis of one reading.
type Feedback struct {
	OverallFeedback string    `json:"overallFeedback"`
	Mistakes        []Mistake `json:"mistakes"`
}

// Perfect reports whether no mistakes were found.
func (f *Feedback) Perfect() bool {
	return len(f.Mistakes) == 0
}

// ErrMalformed is returned by Parse when the text is not a feedback object.
var ErrMalformed = errors.New("malformed feedback")

// StripFences removes the markdown code fences models like to wrap JSON in,
// along with surrounding whitespace.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

type rawFeedback struct {
	OverallFeedback *string        `json:"overallFeedback"`
	Mistakes        *[]*rawMistake `json:"mistakes"`
}

type rawMistake struct {
	Type         *string `json:"type"`
	OriginalWord *string `json:"originalWord"`
	UserWord     *string `json:"userWord"`
	Context      *string `json:"context"`
}

// Parse cleans model output and decodes it into a Feedback, checking every
// mistake against the fields its kind requires. Word fields a kind does not
// allow are dropped. Errors wrap ErrMalformed.
func Parse(text string) (*Feedback, error) {
	cleaned := StripFences(text)

	var raw rawFeedback
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.OverallFeedback == nil {
		return nil, fmt.Errorf("%w: overallFeedback missing", ErrMalformed)
	}
	if raw.Mistakes == nil {
		return nil, fmt.Errorf("%w: mistakes missing", ErrMalformed)
	}

	fb := &Feedback{
		OverallFeedback: *raw.OverallFeedback,
		Mistakes:        make([]Mistake, 0, len(*raw.Mistakes)),
	}
	for i, rm := range *raw.Mistakes {
		m, err := rm.toMistake()
		if err != nil {
			return nil, fmt.Errorf("%w: mistakes[%d]: %v", ErrMalformed, i, err)
		}
		fb.Mistakes = append(fb.Mistakes, m)
	}
	return fb, nil
}

func (rm *rawMistake) toMistake() (Mistake, error) {
	if rm == nil {
		return Mistake{}, errors.New("null entry")
	}
	if rm.Type == nil {
		return Mistake{}, errors.New("type missing")
	}
	kind := Kind(strings.ToLower(strings.TrimSpace(*rm.Type)))
	if !kind.Valid() {
		return Mistake{}, fmt.Errorf("unknown type %q", *rm.Type)
	}
	if rm.Context == nil {
		return Mistake{}, errors.New("context missing")
	}

	m := Mistake{Kind: kind, Context: *rm.Context}
	switch kind {
	case KindMispronunciation:
		if !present(rm.OriginalWord) || !present(rm.UserWord) {
			return Mistake{}, errors.New("mispronunciation needs originalWord and userWord")
		}
		m.OriginalWord, m.UserWord = rm.OriginalWord, rm.UserWord
	case KindOmission:
		if !present(rm.OriginalWord) {
			return Mistake{}, errors.New("omission needs originalWord")
		}
		m.OriginalWord = rm.OriginalWord
	case KindInsertion:
		if !present(rm.UserWord) {
			return Mistake{}, errors.New("insertion needs userWord")
		}
		m.UserWord = rm.UserWord
	}
	return m, nil
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
