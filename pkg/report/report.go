// Package report renders the self-contained HTML report that is sent to
// the automation webhook and turned into a PDF there. All styling is
// inline because the document is rendered outside of this service.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/divia/calculadora/pkg/calculator"
	"github.com/divia/calculadora/pkg/models"
)

// DefaultProfession names the visitor in the narrative when no profession was given
const DefaultProfession = "emprendedora digital"

//go:embed templates/report.html.tmpl
var reportHTML string

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

// Data holds the already formatted values shown in the report
type Data struct {
	Profession       string
	TotalWeeklyHours int
	WeeklyHours      string
	MonthlyHours     string
	HourlyValue      int
	Savings          string
	AdvisoryLink     string
}

// NewData formats a calculation for display
func NewData(form models.FormData, result models.CalculationResult, advisoryLink string) Data {
	return Data{
		Profession:       form.ProfessionOr(DefaultProfession),
		TotalWeeklyHours: result.TotalWeeklyHours,
		WeeklyHours:      calculator.FormatHours(result.WeeklyAutomatedHours),
		MonthlyHours:     calculator.FormatHours(result.MonthlyAutomatedHours),
		HourlyValue:      result.HourlyValue,
		Savings:          calculator.FormatMoney(result.MonthlySavings),
		AdvisoryLink:     advisoryLink,
	}
}

// Render executes the report template. User supplied text is HTML escaped.
func Render(data Data) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error rendering report: %w", err)
	}
	return buf.String(), nil
}
