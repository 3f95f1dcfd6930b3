package models

// Field names shared by the HTML form, the JSON API and the CLI
const (
	FieldEmail           = "email"
	FieldProfession      = "profession"
	FieldHourlyRate      = "hourlyRate"
	FieldSocialMedia     = "socialMedia"
	FieldCopywriting     = "copywriting"
	FieldComments        = "comments"
	FieldCustomerSupport = "customerSupport"
	FieldNewsletters     = "newsletters"
	FieldContentAudit    = "contentAudit"
	FieldSalesEmails     = "salesEmails"
)

// Represents the calculator inputs entered by a visitor
type FormData struct {
	Email           string `json:"email"`
	Profession      string `json:"profession"`
	HourlyRate      int    `json:"hourlyRate"`
	SocialMedia     int    `json:"socialMedia"`
	Copywriting     int    `json:"copywriting"`
	Comments        int    `json:"comments"`
	CustomerSupport int    `json:"customerSupport"`
	Newsletters     int    `json:"newsletters"`
	ContentAudit    int    `json:"contentAudit"`
	SalesEmails     int    `json:"salesEmails"`
}

// CalculationResult holds the values derived from a FormData.
// It is recomputed whenever it is needed and never stored on its own.
type CalculationResult struct {
	TotalWeeklyHours      int     `json:"totalWeeklyHours"`
	WeeklyAutomatedHours  float64 `json:"weeklyAutomatedHours"`
	MonthlyAutomatedHours float64 `json:"monthlyAutomatedHours"`
	HourlyValue           int     `json:"hourlyValue"`
	MonthlySavings        float64 `json:"monthlySavings"`
}

// TaskHours returns the weekly hours stored for a task field, 0 for anything else
func (f FormData) TaskHours(field string) int {
	switch field {
	case FieldSocialMedia:
		return f.SocialMedia
	case FieldCopywriting:
		return f.Copywriting
	case FieldComments:
		return f.Comments
	case FieldCustomerSupport:
		return f.CustomerSupport
	case FieldNewsletters:
		return f.Newsletters
	case FieldContentAudit:
		return f.ContentAudit
	case FieldSalesEmails:
		return f.SalesEmails
	}
	return 0
}

// ProfessionOr returns the profession, or fallback when none was entered
func (f FormData) ProfessionOr(fallback string) string {
	if f.Profession == "" {
		return fallback
	}
	return f.Profession
}

// Normalize clamps every numeric field to the range 0..MaxCount.
// Values decoded from JSON skip SetField, so they pass through here instead.
func (f FormData) Normalize() FormData {
	for _, n := range []*int{
		&f.HourlyRate,
		&f.SocialMedia,
		&f.Copywriting,
		&f.Comments,
		&f.CustomerSupport,
		&f.Newsletters,
		&f.ContentAudit,
		&f.SalesEmails,
	} {
		*n = clampCount(*n)
	}
	return f
}
