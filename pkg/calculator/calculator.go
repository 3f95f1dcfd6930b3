// Package calculator turns the weekly task hours of a FormData into the
// estimated time and money freed by automating them.
package calculator

import (
	"github.com/divia/calculadora/pkg/models"
)

// DefaultHourlyValue is used when the visitor leaves the hourly rate at zero
const DefaultHourlyValue = 20

// WeeksPerMonth converts weekly hours into monthly hours
const WeeksPerMonth = 4

// Task is one recurring business task with the share of its time
// that is assumed recoverable through automation
type Task struct {
	Key   string
	Label string
	Icon  string
	Rate  float64
}

// Tasks lists the seven task categories in the order the form asks for them
var Tasks = []Task{
	{Key: models.FieldSocialMedia, Label: "¿Cuántas horas dedicás a crear tu plan de contenido para redes sociales?", Icon: "📱", Rate: 0.5},
	{Key: models.FieldCopywriting, Label: "¿Cuántas horas te lleva crear páginas de venta o textos persuasivos?", Icon: "✍️", Rate: 0.7},
	{Key: models.FieldComments, Label: "¿Cuánto tiempo invertís revisando y respondiendo comentarios diarios?", Icon: "💬", Rate: 0.6},
	{Key: models.FieldCustomerSupport, Label: "¿Cuánto tiempo usás para responder dudas personalizadas de clientas?", Icon: "🤝", Rate: 0.6},
	{Key: models.FieldNewsletters, Label: "¿Cuántas horas dedicás al envío de newsletters?", Icon: "📧", Rate: 0.8},
	{Key: models.FieldContentAudit, Label: "¿Cuánto tiempo te toma auditar propuestas o contenidos?", Icon: "🔍", Rate: 0.4},
	{Key: models.FieldSalesEmails, Label: "¿Cuántas horas dedicás a responder emails de potenciales clientes?", Icon: "💼", Rate: 0.6},
}

// Calculate derives the savings estimate from form. It has no side effects
// and is cheap enough to run on every keystroke. Fields outside
// 0..models.MaxCount are clamped first so the total never wraps.
func Calculate(form models.FormData) models.CalculationResult {
	form = form.Normalize()

	total := 0
	weekly := 0.0
	for _, task := range Tasks {
		hours := form.TaskHours(task.Key)
		total += hours
		weekly += float64(hours) * task.Rate
	}

	hourlyValue := form.HourlyRate
	if hourlyValue <= 0 {
		hourlyValue = DefaultHourlyValue
	}

	monthly := weekly * WeeksPerMonth

	return models.CalculationResult{
		TotalWeeklyHours:      total,
		WeeklyAutomatedHours:  weekly,
		MonthlyAutomatedHours: monthly,
		HourlyValue:           hourlyValue,
		MonthlySavings:        monthly * float64(hourlyValue),
	}
}
