package digest

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

// Message is a rendered digest, ready to hand to the email transport.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Render turns a payload into a Message. Each content section appears only
// when the payload carries data for it; a progress-only payload is valid.
func Render(p Payload) (Message, error) {
	if p.Progress == nil {
		return Message{}, ErrInvalidPayload
	}

	data := newView(p)

	var html bytes.Buffer
	if err := htmlDigest.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("digest: render html: %w", err)
	}

	var text bytes.Buffer
	if err := textDigest.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("digest: render text: %w", err)
	}

	return Message{
		Subject: subject(p),
		HTML:    html.String(),
		Text:    strings.TrimSpace(text.String()) + "\n",
	}, nil
}

func subject(p Payload) string {
	name := p.ChildName
	if name == "" {
		name = "Your baby"
	}
	s := fmt.Sprintf("%s at week %d", name, p.Progress.Week)
	if p.Progress.Size != nil {
		s += fmt.Sprintf(": the size of a %s", p.Progress.Size.Item)
	}
	return s
}

// view is the template data. Section flags are computed here so the
// templates stay free of logic.
type view struct {
	Greeting  string
	ChildName string
	Progress  ProgressFact

	ShowProgress   bool
	ShowBodyChange bool
	ShowTips       bool
	ShowResources  bool

	BodyChange   BodyChangeFact
	PlanningTips []string
	NewResources []ResourceSummary
	Links        Links
}

func newView(p Payload) view {
	v := view{
		Greeting:     "Hello",
		ChildName:    p.ChildName,
		Progress:     *p.Progress,
		ShowProgress: p.Progress.Size != nil,
		ShowTips:     len(p.PlanningTips) > 0,
		PlanningTips: p.PlanningTips,
		NewResources: p.NewResources,
		Links:        p.Links,
	}
	if p.DisplayName != "" {
		v.Greeting = "Hello " + p.DisplayName
	}
	if v.ChildName == "" {
		v.ChildName = "your baby"
	}
	if p.BodyChange != nil && (p.BodyChange.Text != "" || p.BodyChange.Tip != "") {
		v.ShowBodyChange = true
		v.BodyChange = *p.BodyChange
	}
	v.ShowResources = len(p.NewResources) > 0
	return v
}

// ─── TEMPLATES ────────────────────────────────────────────────────────────────

var htmlDigest = htmltemplate.Must(htmltemplate.New("digest.html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <p>{{.Greeting}},</p>
  <h2 style="margin-bottom: 8px;">Week {{.Progress.Week}} with {{.ChildName}}</h2>
  <p style="color: #6b7280;">{{.Progress.WeeksRemaining}} weeks to go</p>
{{- if .Progress.Encouragement}}
  <p data-field="encouragement">{{.Progress.Encouragement}}</p>
{{- end}}
{{- if .ShowProgress}}
  <div data-section="progress">
    <h3>How big is {{.ChildName}}?</h3>
    <p>About the size of a <strong>{{.Progress.Size.Item}}</strong>{{if .Progress.Size.Length}} ({{.Progress.Size.Length}}){{end}}.</p>
  </div>
{{- end}}
{{- if .ShowBodyChange}}
  <div data-section="body-change">
    <h3>Your body this week</h3>
    {{- if .BodyChange.Text}}
    <p>{{.BodyChange.Text}}</p>
    {{- end}}
    {{- if .BodyChange.Tip}}
    <p><em>Tip:</em> {{.BodyChange.Tip}}</p>
    {{- end}}
  </div>
{{- end}}
{{- if .ShowTips}}
  <div data-section="planning">
    <h3>Planning ahead</h3>
    <ul>
    {{- range .PlanningTips}}
      <li>{{.}}</li>
    {{- end}}
    </ul>
  </div>
{{- end}}
{{- if .ShowResources}}
  <div data-section="resources">
    <h3>New in the library</h3>
    <ul>
    {{- range .NewResources}}
      <li data-resource="{{.Slug}}"><a href="{{.URL}}">{{.Title}}</a>{{if .Summary}}<br><span style="color: #6b7280;">{{.Summary}}</span>{{end}}</li>
    {{- end}}
    </ul>
  </div>
{{- end}}
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 32px 0;">
  <p style="color: #9ca3af; font-size: 12px;">
    <a href="{{.Links.Dashboard}}" style="color: #6b7280;">Dashboard</a> ·
    <a href="{{.Links.Resources}}" style="color: #6b7280;">Resources</a> ·
    <a href="{{.Links.Settings}}" style="color: #6b7280;">Email settings</a>
  </p>
</body>
</html>
`))

var textDigest = texttemplate.Must(texttemplate.New("digest.txt").Parse(`{{.Greeting}},

Week {{.Progress.Week}} with {{.ChildName}} ({{.Progress.WeeksRemaining}} weeks to go)
{{- if .Progress.Encouragement}}
{{.Progress.Encouragement}}
{{- end}}
{{- if .ShowProgress}}

How big is {{.ChildName}}?
About the size of a {{.Progress.Size.Item}}{{if .Progress.Size.Length}} ({{.Progress.Size.Length}}){{end}}.
{{- end}}
{{- if .ShowBodyChange}}

Your body this week
{{- if .BodyChange.Text}}
{{.BodyChange.Text}}
{{- end}}
{{- if .BodyChange.Tip}}
Tip: {{.BodyChange.Tip}}
{{- end}}
{{- end}}
{{- if .ShowTips}}

Planning ahead
{{- range .PlanningTips}}
- {{.}}
{{- end}}
{{- end}}
{{- if .ShowResources}}

New in the library
{{- range .NewResources}}
- {{.Title}}: {{.URL}}
{{- end}}
{{- end}}

Dashboard: {{.Links.Dashboard}}
Email settings: {{.Links.Settings}}
`))
