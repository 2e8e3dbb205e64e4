package feedback

import (
	"bytes"
	"html/template"
)

// WordClass marks rendered original words; the client binds speech playback
// to elements with this class, reading the word from data-word.
const WordClass = "mistake-word"

// PerfectMessage is shown instead of a list when there are no mistakes.
const PerfectMessage = "🎉 No mistakes detected. Fantastic job!"

var renderTmpl = template.Must(template.New("feedback").Funcs(template.FuncMap{"deref": deref}).Parse(`
{{- define "word" }}<span class="` + WordClass + `" data-word="{{ . }}">{{ . }}</span>{{ end -}}
<p><strong>Overall:</strong> {{ .OverallFeedback }}</p>
{{- if .Mistakes }}
<ul>
{{- range .Mistakes }}
<li>
{{- if eq .Kind "mispronunciation" }}You said "<em>{{ deref .UserWord }}</em>" instead of "{{ template "word" deref .OriginalWord }}".
{{- else if eq .Kind "omission" }}You missed the word "{{ template "word" deref .OriginalWord }}".
{{- else if eq .Kind "insertion" }}You added the extra word "<em>{{ deref .UserWord }}</em>".
{{- end }}<br><small><strong>Context:</strong> ...{{ .Context }}...</small></li>
{{- end }}
</ul>
{{- else }}
<p>` + PerfectMessage + `</p>
{{- end }}
`))

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Render turns feedback into an HTML fragment. Model text is escaped.
func Render(fb *Feedback) (template.HTML, error) {
	var buf bytes.Buffer
	if err := renderTmpl.Execute(&buf, fb); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
