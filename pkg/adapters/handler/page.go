package handler

import (
	"html/template"
	"io"

	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
)

const embeddingTeams = "teams"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>My Links</title>
</head>
<body>
  <form method="post" action="/widget/intent">
    {{- if .Teams}}
    <input type="hidden" name="host" value="{{.TeamsValue}}">
    {{- end}}
    {{.Widget}}
  </form>
{{- if .PaneOpen}}
  <aside class="propertyPane">
    <p>{{.Form.Description}}</p>
    <form method="post" action="/widget/pane">
      {{- if .Teams}}
      <input type="hidden" name="host" value="{{.TeamsValue}}">
      {{- end}}
      {{- range .Form.Groups}}
      <fieldset>
        <legend>{{.Name}}</legend>
        {{- range .Fields}}
        {{- if eq .Kind "text"}}
        <label>{{.Label}} <input type="text" name="{{.Name}}" value="{{.Value}}"></label>
        {{- else}}
        <button type="submit" name="action" value="{{.Action}}" class="{{.ButtonType}}">{{.Text}}</button>
        {{- end}}
        {{- end}}
      </fieldset>
      {{- end}}
      <button type="submit" name="action" value="{{.CloseAction}}">Close</button>
    </form>
  </aside>
{{- end}}
</body>
</html>
`))

type pageView struct {
	Teams       bool
	TeamsValue  string
	Widget      template.HTML
	PaneOpen    bool
	Form        domain.FormDescriptor
	CloseAction string
}

// writePage embeds the widget markup, already escaped by the widget
// template, and the side panel built from the form descriptor.
func writePage(w io.Writer, widget []byte, teams, paneOpen bool, form domain.FormDescriptor) error {
	return pageTemplate.Execute(w, pageView{
		Teams:       teams,
		TeamsValue:  embeddingTeams,
		Widget:      template.HTML(widget),
		PaneOpen:    paneOpen,
		Form:        form,
		CloseAction: domain.ActionClose,
	})
}
