// Package views holds the two screens of the calculator, the form and the
// results report, as embedded html/template files.
package views

import (
	"embed"
	"html/template"

	"github.com/divia/calculadora/pkg/calculator"
	"github.com/divia/calculadora/pkg/models"
	"github.com/divia/calculadora/pkg/session"
)

// Template names
const (
	FormPage    = "form.tmpl"
	ResultsPage = "results.tmpl"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"hours": calculator.FormatHours,
	"money": calculator.FormatMoney,
	"taskHours": func(form models.FormData, key string) int {
		return form.TaskHours(key)
	},
}

// Templates parses the embedded page templates
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

// Page is the data both screens render from
type Page struct {
	session.Snapshot
	Tasks             []calculator.Task
	AdvisoryLink      string
	SalesIncrease     string
	ReportErrorNotice string
}

// NewPage wraps a session snapshot with the static page content
func NewPage(snap session.Snapshot, advisoryLink, salesIncrease string) Page {
	return Page{
		Snapshot:          snap,
		Tasks:             calculator.Tasks,
		AdvisoryLink:      advisoryLink,
		SalesIncrease:     salesIncrease,
		ReportErrorNotice: session.ReportErrorNotice,
	}
}

// Name returns the template to render for a view
func Name(view session.View) string {
	if view == session.ViewResults {
		return ResultsPage
	}
	return FormPage
}
