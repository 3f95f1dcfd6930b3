package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/divia/calculadora/pkg/calculator"
	"github.com/divia/calculadora/pkg/config"
	"github.com/divia/calculadora/pkg/models"
	"github.com/divia/calculadora/pkg/services"
	"github.com/divia/calculadora/pkg/session"
)

// calcFlags maps each form field to the CLI flag that sets it
var calcFlags = []struct {
	field string
	flag  string
	usage string
}{
	{models.FieldEmail, "email", "Email the report is sent to"},
	{models.FieldProfession, "profession", "What the business owner does"},
	{models.FieldHourlyRate, "hourly-rate", "Value of one hour of work in USD (0 = 20)"},
	{models.FieldSocialMedia, "social-media", "Weekly hours planning social media content"},
	{models.FieldCopywriting, "copywriting", "Weekly hours writing sales pages and copy"},
	{models.FieldComments, "comments", "Weekly hours answering comments"},
	{models.FieldCustomerSupport, "customer-support", "Weekly hours answering customer questions"},
	{models.FieldNewsletters, "newsletters", "Weekly hours sending newsletters"},
	{models.FieldContentAudit, "content-audit", "Weekly hours auditing proposals or content"},
	{models.FieldSalesEmails, "sales-emails", "Weekly hours answering prospect emails"},
}

func newCalcCmd() *cobra.Command {
	values := make(map[string]*string, len(calcFlags))
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print the savings estimate and the webhook payload for the given answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var form models.FormData
			for _, f := range calcFlags {
				if err := form.SetField(f.field, *values[f.field]); err != nil {
					return err
				}
			}

			cfg := config.LoadConfig()
			if asJSON {
				return printPayload(cmd.OutOrStdout(), form, cfg.AdvisoryLink)
			}
			printCLI(cmd.OutOrStdout(), form)
			return nil
		},
	}

	for _, f := range calcFlags {
		values[f.field] = cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the webhook payload as JSON")

	return cmd
}

func printCLI(w io.Writer, form models.FormData) {
	res := calculator.Calculate(form)

	fmt.Fprintf(w, "Profession:              %s\n", form.ProfessionOr(services.DefaultNombre))
	fmt.Fprintf(w, "Total weekly hours:      %d\n", res.TotalWeeklyHours)
	fmt.Fprintf(w, "Hours freed per week:    %s\n", calculator.FormatHours(res.WeeklyAutomatedHours))
	fmt.Fprintf(w, "Hours freed per month:   %s\n", calculator.FormatHours(res.MonthlyAutomatedHours))
	fmt.Fprintf(w, "Hourly value:            $%d\n", res.HourlyValue)
	fmt.Fprintf(w, "Monthly savings:         $%s USD\n", calculator.FormatMoney(res.MonthlySavings))
	fmt.Fprintf(w, "Sales increase:          %s%% in 4 weeks\n", services.SalesIncrease)

	if ok, hint := session.CheckSubmittable(form); !ok {
		fmt.Fprintf(w, "\nNot ready to submit: %s\n", hint)
	}
}

func printPayload(w io.Writer, form models.FormData, advisoryLink string) error {
	payload, err := services.BuildPayload(form, advisoryLink)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}
