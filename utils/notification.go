package utils

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/cppla/requestdesk/models"
)

const unknownSender = "Unknown"

// Every value is escaped by html/template according to where it lands
// (element text or href), so client text is shown verbatim, never rendered.
var notificationTmpl = template.Must(template.New("notification").Parse(`<h2>New product request</h2>
<table cellpadding="4">
{{range .Rows}}<tr><td><strong>{{.Label}}</strong></td><td>{{.Value}}</td></tr>
{{end}}</table>
{{if .Images}}<p>Images:</p>
<ul>
{{range .Images}}<li><a href="{{.}}">{{.}}</a></li>
{{end}}</ul>
{{else}}<p>No images attached.</p>
{{end}}`))

type notificationRow struct {
	Label string
	Value string
}

// NotificationSubject returns the subject line for a new submission by name.
func NotificationSubject(name string) string {
	if strings.TrimSpace(name) == "" {
		name = unknownSender
	}
	return "New product request from " + name
}

// ComposeNotification renders the operator email for a submission.
func ComposeNotification(sub models.Submission) (string, error) {
	data := struct {
		Rows   []notificationRow
		Images []string
	}{
		Rows: []notificationRow{
			{"Name", sub.Name},
			{"Email", sub.Email},
			{"Phone", sub.Phone},
			{"WhatsApp", sub.WhatsApp},
			{"Product details", sub.ProductDetails},
		},
		Images: sub.Images,
	}
	var b strings.Builder
	if err := notificationTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render notification: %w", err)
	}
	return b.String(), nil
}
