package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/divia/calculadora/pkg/calculator"
	"github.com/divia/calculadora/pkg/clients/webhook"
	"github.com/divia/calculadora/pkg/config"
	"github.com/divia/calculadora/pkg/models"
	"github.com/divia/calculadora/pkg/services"
	"github.com/divia/calculadora/pkg/session"
	"github.com/divia/calculadora/pkg/views"
)

const sessionCookie = "divia_session"

// scriptHeader marks requests sent by the page's own script, which
// expect JSON errors instead of a rendered page
const scriptHeader = "X-Requested-With"

var validate = validator.New()

// Handlers contains all HTTP handlers for the calculator
type Handlers struct {
	reportService services.ReportService
	sessions      *session.Store
	config        *config.Config
}

// NewHandlers creates a new Handlers instance
func NewHandlers(reportService services.ReportService, sessions *session.Store, config *config.Config) *Handlers {
	return &Handlers{
		reportService: reportService,
		sessions:      sessions,
		config:        config,
	}
}

// Display carries the results formatted the way the page shows them
type Display struct {
	WeeklyAutomatedHours  string `json:"weeklyAutomatedHours"`
	MonthlyAutomatedHours string `json:"monthlyAutomatedHours"`
	MonthlySavings        string `json:"monthlySavings"`
}

// CalculationResponse is returned for every live recalculation
type CalculationResponse struct {
	Form      models.FormData          `json:"form"`
	Result    models.CalculationResult `json:"result"`
	Display   Display                  `json:"display"`
	CanSubmit bool                     `json:"canSubmit"`
	Hint      string                   `json:"hint"`
}

func newCalculationResponse(form models.FormData) CalculationResponse {
	result := calculator.Calculate(form)
	canSubmit, hint := session.CheckSubmittable(form)
	return CalculationResponse{
		Form:   form,
		Result: result,
		Display: Display{
			WeeklyAutomatedHours:  calculator.FormatHours(result.WeeklyAutomatedHours),
			MonthlyAutomatedHours: calculator.FormatHours(result.MonthlyAutomatedHours),
			MonthlySavings:        calculator.FormatMoney(result.MonthlySavings),
		},
		CanSubmit: canSubmit,
		Hint:      hint,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ShowPage renders the form or the results, depending on where the visitor is
func (h *Handlers) ShowPage(c *gin.Context) {
	sess := h.currentSession(c)
	h.render(c, http.StatusOK, sess.Snapshot())
}

// UpdateFields applies the posted form values and returns the live totals
func (h *Handlers) UpdateFields(c *gin.Context) {
	sess := h.currentSession(c)

	if err := applyForm(c, sess); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newCalculationResponse(sess.Form()))
}

// Submit moves the visitor to the results screen
func (h *Handlers) Submit(c *gin.Context) {
	sess := h.currentSession(c)

	if err := applyForm(c, sess); err != nil {
		log.Printf("Session %s sent an invalid form: %v", sess.ID, err)
		h.renderNotice(c, http.StatusBadRequest, sess, session.FormErrorNotice)
		return
	}

	if err := sess.Submit(); err != nil {
		h.render(c, http.StatusUnprocessableEntity, sess.Snapshot())
		return
	}

	log.Printf("Session %s submitted the calculator", sess.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

// DownloadReport asks the webhook for the visitor's report and sends the file back
func (h *Handlers) DownloadReport(c *gin.Context) {
	sess := h.currentSession(c)

	form, err := sess.BeginDownload()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	rep, err := h.reportService.GenerateReport(c.Request.Context(), form)
	sess.EndDownload()
	if err != nil {
		status := statusForReportError(err)
		if c.GetHeader(scriptHeader) != "" {
			c.JSON(status, gin.H{"error": session.ReportErrorNotice})
			return
		}
		h.renderNotice(c, status, sess, session.ReportErrorNotice)
		return
	}

	sendReport(c, rep)
}

// Reset clears the visitor's form and goes back to it
func (h *Handlers) Reset(c *gin.Context) {
	sess := h.currentSession(c)
	sess.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

// Calculate is the stateless JSON version of the live recalculation.
// Text fields are taken as typed, so a half-written email is not an error here.
func (h *Handlers) Calculate(c *gin.Context) {
	var form models.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newCalculationResponse(form.Normalize()))
}

// GenerateReport is the stateless JSON version of DownloadReport
func (h *Handlers) GenerateReport(c *gin.Context) {
	var form models.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	form = form.Normalize()

	if ok, hint := session.CheckSubmittable(form); !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": hint})
		return
	}
	if err := validate.Var(form.Email, "email"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid email %q", form.Email)})
		return
	}

	rep, err := h.reportService.GenerateReport(c.Request.Context(), form)
	if err != nil {
		c.JSON(statusForReportError(err), gin.H{"error": session.ReportErrorNotice})
		return
	}

	sendReport(c, rep)
}

func (h *Handlers) render(c *gin.Context, status int, snap session.Snapshot) {
	c.HTML(status, views.Name(snap.View), views.NewPage(snap, h.config.AdvisoryLink, services.SalesIncrease))
}

// renderNotice re-renders the visitor's current screen with an error banner
func (h *Handlers) renderNotice(c *gin.Context, status int, sess *session.Session, notice string) {
	snap := sess.Snapshot()
	snap.Notice = notice
	h.render(c, status, snap)
}

// currentSession returns the visitor's session, starting one when the
// cookie is missing or points at an expired session
func (h *Handlers) currentSession(c *gin.Context) *session.Session {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if sess, err := h.sessions.Get(id); err == nil {
			h.setSessionCookie(c, sess.ID)
			return sess
		}
	}

	sess := h.sessions.Create()
	h.setSessionCookie(c, sess.ID)
	return sess
}

func (h *Handlers) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(h.config.SessionTTL.Seconds()), "/", "", h.config.SessionCookieSecure, true)
}

func applyForm(c *gin.Context, sess *session.Session) error {
	if err := c.Request.ParseForm(); err != nil {
		return fmt.Errorf("error parsing form: %w", err)
	}

	return sess.Update(func(form *models.FormData) error {
		for field, values := range c.Request.PostForm {
			if len(values) == 0 {
				continue
			}
			if err := form.SetField(field, values[len(values)-1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func sendReport(c *gin.Context, rep *webhook.Report) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rep.Filename))
	c.Data(http.StatusOK, rep.ContentType, rep.Data)
}

// statusForReportError maps webhook failures to a gateway status
func statusForReportError(err error) int {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
