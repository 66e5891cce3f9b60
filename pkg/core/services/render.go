package services

import (
	"bytes"
	"html/template"

	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
)

// Button names the host reads back from the submitted markup
const (
	IntentField = "intent"
	IntentAdd   = "add"
	EditField   = "edit"
)

const Placeholder = "No links added yet"

var widgetTemplate = template.Must(template.New("widget").Parse(`<section class="customLinks{{if .Teams}} teams{{end}}">
  <button class="addButton" id="addLinkButton" type="submit" name="{{.IntentField}}" value="{{.IntentAdd}}">Add Link</button>
  <table>
    <thead>
      <tr>
        <th>Link</th>
      </tr>
    </thead>
    <tbody>
{{- range .Rows}}
      <tr>
        <td class="linkFormat"><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a></td>
        <td><button class="editButton" type="submit" name="{{$.EditField}}" value="{{.Index}}" data-index="{{.Index}}">Edit</button></td>
      </tr>
{{- else}}
      <tr><td colspan="2">{{.Placeholder}}</td></tr>
{{- end}}
    </tbody>
  </table>
</section>`))

type widgetRow struct {
	Index int
	Title string
	URL   string
}

type widgetView struct {
	Teams       bool
	Rows        []widgetRow
	Placeholder string
	IntentField string
	IntentAdd   string
	EditField   string
}

// renderWidget produces the link table. Titles and URLs are escaped by
// html/template; URLs with unsafe schemes are replaced.
func renderWidget(links []domain.LinkRecord, teams bool) ([]byte, error) {
	view := widgetView{
		Teams:       teams,
		Placeholder: Placeholder,
		IntentField: IntentField,
		IntentAdd:   IntentAdd,
		EditField:   EditField,
	}
	for i, l := range links {
		view.Rows = append(view.Rows, widgetRow{Index: i, Title: l.Title, URL: l.URL})
	}

	var buf bytes.Buffer
	if err := widgetTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
