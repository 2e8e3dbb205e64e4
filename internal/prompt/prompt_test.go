package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPassage(t *testing.T) {
	out, err := Default().Passage("intermediate")
	require.NoError(t, err)

	assert.Contains(t, out, `The difficulty level is "intermediate".`)
	assert.Contains(t, out, "between 5 and 10 sentences")
	assert.Contains(t, out, "Do not include a title")
}

func TestDefaultFeedback(t *testing.T) {
	out, err := Default().Feedback("The cat sat on the mat.", "the cat sat on mat")
	require.NoError(t, err)

	assert.Contains(t, out, "--- ORIGINAL TEXT ---\nThe cat sat on the mat.\n--- END ORIGINAL TEXT ---")
	assert.Contains(t, out, "--- USER'S TRANSCRIPTION ---\nthe cat sat on mat\n--- END USER'S TRANSCRIPTION ---")
	assert.Contains(t, out, `"overallFeedback"`)
	assert.Contains(t, out, `"mistakes"`)
}

func TestFeedbackDoesNotEvaluateUserText(t *testing.T) {
	out, err := Default().Feedback("{{ .Secret }}", "{{ printf \"x\" }}")
	require.NoError(t, err)

	assert.Contains(t, out, "{{ .Secret }}")
	assert.Contains(t, out, `{{ printf "x" }}`)
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
passage: "Write {{ .Difficulty }} text."
feedback: "Compare {{ .Original }} with {{ .Transcript }}."
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	p, err := s.Passage("easy")
	require.NoError(t, err)
	assert.Equal(t, "Write easy text.", p)

	f, err := s.Feedback("a", "b")
	require.NoError(t, err)
	assert.Equal(t, "Compare a with b.", f)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "passage: [unterminated"},
		{"missing passage", `feedback: "x"`},
		{"missing feedback", `passage: "x"`},
		{"bad template", "passage: \"{{ .Difficulty\"\nfeedback: \"x\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRenderUnknownField(t *testing.T) {
	s, err := Parse([]byte("passage: \"{{ .Level }}\"\nfeedback: \"x\""))
	require.NoError(t, err)

	_, err = s.Passage("easy")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
