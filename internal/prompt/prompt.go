package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

// file is the YAML layout of a prompts file.
type file struct {
	Passage  string `yaml:"passage"`
	Feedback string `yaml:"feedback"`
}

// Set holds the parsed prompt templates.
type Set struct {
	passage  *template.Template
	feedback *template.Template
}

// Default returns the embedded prompt set.
func Default() *Set {
	s, err := Parse(defaultPrompts)
	if err != nil {
		panic("embedded prompts: " + err.Error())
	}
	return s
}

// Load reads a prompt set from path, or returns the embedded defaults
// when path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts %q: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("prompts %q: %w", path, err)
	}
	return s, nil
}

// Parse builds a prompt set from YAML.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if strings.TrimSpace(f.Passage) == "" {
		return nil, fmt.Errorf("passage prompt is required")
	}
	if strings.TrimSpace(f.Feedback) == "" {
		return nil, fmt.Errorf("feedback prompt is required")
	}

	passage, err := template.New("passage").Option("missingkey=error").Parse(f.Passage)
	if err != nil {
		return nil, fmt.Errorf("passage prompt: %w", err)
	}
	feedback, err := template.New("feedback").Option("missingkey=error").Parse(f.Feedback)
	if err != nil {
		return nil, fmt.Errorf("feedback prompt: %w", err)
	}

	return &Set{passage: passage, feedback: feedback}, nil
}

// Passage renders the passage-generation prompt.
func (s *Set) Passage(difficulty string) (string, error) {
	return render(s.passage, struct{ Difficulty string }{difficulty})
}

// Feedback renders the reading-analysis prompt.
func (s *Set) Feedback(original, transcript string) (string, error) {
	return render(s.feedback, struct {
		Original   string
		Transcript string
	}{original, transcript})
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return b.String(), nil
}
