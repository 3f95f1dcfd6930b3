package services

import (
	"context"
	"fmt"
	"log"

	"github.com/divia/calculadora/pkg/calculator"
	"github.com/divia/calculadora/pkg/clients/webhook"
	"github.com/divia/calculadora/pkg/config"
	"github.com/divia/calculadora/pkg/models"
	"github.com/divia/calculadora/pkg/report"
	"github.com/divia/calculadora/pkg/utils"
)

const (
	// DefaultNombre is sent to the webhook when the visitor gave no profession
	DefaultNombre = "Emprendedora digital"

	// SalesIncrease is the advertised sales uplift range, in percent
	SalesIncrease = "30-60"
)

// ReportService defines the interface for generating savings reports
type ReportService interface {
	GenerateReport(ctx context.Context, form models.FormData) (*webhook.Report, error)
}

type reportServiceImpl struct {
	webhookClient webhook.Client
	config        *config.Config
}

// NewReportService creates a new report service
func NewReportService(webhookClient webhook.Client, config *config.Config) ReportService {
	return &reportServiceImpl{
		webhookClient: webhookClient,
		config:        config,
	}
}

// GenerateReport sends the calculation to the webhook and returns the file it produces
func (s *reportServiceImpl) GenerateReport(ctx context.Context, form models.FormData) (*webhook.Report, error) {
	emailHash := utils.HashString(form.Email)

	log.Printf("Processing report for %s (%s)", form.ProfessionOr(DefaultNombre), emailHash)

	payload, err := BuildPayload(form, s.config.AdvisoryLink)
	if err != nil {
		log.Printf("Error building webhook payload: %v", err)
		return nil, err
	}

	rep, err := s.webhookClient.RequestReport(ctx, payload)
	if err != nil {
		log.Printf("Error generating report for %s: %v", emailHash, err)
		return nil, fmt.Errorf("error generating report: %w", err)
	}

	log.Printf("Successfully generated report %s for %s", rep.Filename, emailHash)
	return rep, nil
}

// BuildPayload computes the results for form and formats them the way the webhook expects
func BuildPayload(form models.FormData, advisoryLink string) (webhook.Payload, error) {
	result := calculator.Calculate(form)

	html, err := report.Render(report.NewData(form, result, advisoryLink))
	if err != nil {
		return webhook.Payload{}, err
	}

	return webhook.Payload{
		Nombre:                  form.ProfessionOr(DefaultNombre),
		Email:                   form.Email,
		TotalHorasSemanales:     result.TotalWeeklyHours,
		HorasLiberadas:          calculator.FormatHours(result.WeeklyAutomatedHours),
		HorasLiberadasMensuales: calculator.FormatHours(result.MonthlyAutomatedHours),
		AhorroUSD:               calculator.FormatMoney(result.MonthlySavings),
		PorcentajeVentas:        SalesIncrease,
		LinkAsesoria:            advisoryLink,
		ReportContent:           html,
	}, nil
}
