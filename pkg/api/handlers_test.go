package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divia/calculadora/pkg/clients/webhook"
	"github.com/divia/calculadora/pkg/config"
	"github.com/divia/calculadora/pkg/models"
	"github.com/divia/calculadora/pkg/session"
)

// fakeReportService returns a canned report or error and records the forms it saw
type fakeReportService struct {
	forms  []models.FormData
	report *webhook.Report
	err    error
}

func (f *fakeReportService) GenerateReport(ctx context.Context, form models.FormData) (*webhook.Report, error) {
	f.forms = append(f.forms, form)
	return f.report, f.err
}

type testServer struct {
	router   *gin.Engine
	sessions *session.Store
	reports  *fakeReportService
	cookies  []*http.Cookie
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{AdvisoryLink: "https://divia.com/asesoria", SessionTTL: time.Hour}
	reports := &fakeReportService{
		report: &webhook.Report{Filename: "reporte_divia.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
	}
	sessions := session.NewStore(cfg.SessionTTL)

	router := gin.New()
	RegisterRoutes(router, NewHandlers(reports, sessions, cfg))

	return &testServer{router: router, sessions: sessions, reports: reports}
}

// do sends a request carrying the cookies collected so far
func (s *testServer) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	return s.send(method, path, form, nil)
}

// fetch posts the way the results page script does
func (s *testServer) fetch(path string) *httptest.ResponseRecorder {
	return s.send(http.MethodPost, path, nil, http.Header{scriptHeader: {"fetch"}})
}

func (s *testServer) send(method, path string, form url.Values, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for key, values := range header {
		req.Header[key] = values
	}
	for _, cookie := range s.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		s.cookies = cookies
	}
	return w
}

func (s *testServer) doJSON(path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) visitor(t *testing.T) *session.Session {
	t.Helper()
	require.NotEmpty(t, s.cookies)
	sess, err := s.sessions.Get(s.cookies[0].Value)
	require.NoError(t, err)
	return sess
}

func filledForm() url.Values {
	return url.Values{
		models.FieldEmail:       {"ana@example.com"},
		models.FieldProfession:  {"Coach"},
		models.FieldHourlyRate:  {""},
		models.FieldSocialMedia: {"10"},
		models.FieldCopywriting: {"5"},
		models.FieldComments:    {"abc"},
	}
}

func TestHealthCheck(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestShowPageStartsSession(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Calculadora DIVIA")
	require.Len(t, s.cookies, 1)
	assert.Equal(t, sessionCookie, s.cookies[0].Name)
	assert.True(t, s.cookies[0].HttpOnly)
	assert.Equal(t, 1, s.sessions.Len())

	s.do(http.MethodGet, "/", nil)
	assert.Equal(t, 1, s.sessions.Len(), "the cookie keeps the same session")
}

func TestUpdateFields(t *testing.T) {
	s := setupServer(t)
	s.do(http.MethodGet, "/", nil)

	w := s.do(http.MethodPost, "/calculate", url.Values{models.FieldSocialMedia: {"10"}, models.FieldCopywriting: {"5"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CalculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 15, resp.Result.TotalWeeklyHours)
	assert.Equal(t, "8.5", resp.Display.WeeklyAutomatedHours)
	assert.Equal(t, "34.0", resp.Display.MonthlyAutomatedHours)
	assert.Equal(t, "680", resp.Display.MonthlySavings)
	assert.False(t, resp.CanSubmit)
	assert.Equal(t, session.HintEmail, resp.Hint)

	w = s.do(http.MethodPost, "/calculate", url.Values{models.FieldCopywriting: {"-2"}})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Form.Copywriting)
	assert.Equal(t, 10, resp.Result.TotalWeeklyHours)
}

func TestUpdateFieldsUnknownField(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/calculate", url.Values{"phone": {"555"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown form field")
}

func TestSubmitUnknownField(t *testing.T) {
	s := setupServer(t)

	form := filledForm()
	form.Set("phone", "555")
	w := s.do(http.MethodPost, "/submit", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Calculadora DIVIA")
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "No pudimos procesar el formulario")
	assert.Equal(t, session.ViewForm, s.visitor(t).View())
	assert.Equal(t, models.FormData{}, s.visitor(t).Form(), "no field is applied")

	w = s.do(http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), `role="alert"`)
}

func TestSubmitRejected(t *testing.T) {
	s := setupServer(t)

	form := filledForm()
	form.Set(models.FieldSocialMedia, "0")
	form.Set(models.FieldCopywriting, "0")
	w := s.do(http.MethodPost, "/submit", form)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), session.HintHours)
	assert.Equal(t, session.ViewForm, s.visitor(t).View())
}

func TestSubmitDownloadAndReset(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/submit", filledForm())
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, session.ViewResults, s.visitor(t).View())

	w = s.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Tu Reporte DIVIA")
	assert.Contains(t, body, "8.5h")
	assert.Contains(t, body, "$680")

	w = s.do(http.MethodPost, "/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="reporte_divia.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
	require.Len(t, s.reports.forms, 1)
	assert.Equal(t, "Coach", s.reports.forms[0].Profession)
	assert.Equal(t, 0, s.reports.forms[0].Comments)
	assert.False(t, s.visitor(t).Downloading())

	w = s.do(http.MethodPost, "/reset", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, session.ViewForm, s.visitor(t).View())
	assert.Equal(t, models.FormData{}, s.visitor(t).Form())

	w = s.do(http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Calculadora DIVIA")
}

func TestDownloadReportRequiresResults(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/report", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, s.reports.forms)
}

func TestDownloadReportWhileDownloading(t *testing.T) {
	s := setupServer(t)
	s.do(http.MethodPost, "/submit", filledForm())

	_, err := s.visitor(t).BeginDownload()
	require.NoError(t, err)

	w := s.do(http.MethodPost, "/report", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), session.ErrDownloadInProgress.Error())
	assert.Empty(t, s.reports.forms)
}

func TestDownloadReportWebhookFailure(t *testing.T) {
	s := setupServer(t)
	s.reports.err = &webhook.StatusError{StatusCode: http.StatusInternalServerError, Body: "scenario failed"}
	s.do(http.MethodPost, "/submit", filledForm())
	before := s.visitor(t).Form()

	w := s.do(http.MethodPost, "/report", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Tu Reporte DIVIA")
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "Hubo un error al generar el reporte")
	assert.False(t, s.visitor(t).Downloading())
	assert.Equal(t, before, s.visitor(t).Form())

	w = s.do(http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), `role="alert"`)
}

func TestDownloadReportScriptFailure(t *testing.T) {
	s := setupServer(t)
	s.reports.err = errors.New("connection refused")
	s.do(http.MethodPost, "/submit", filledForm())

	w := s.fetch("/report")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"`+session.ReportErrorNotice+`"}`, w.Body.String())
	assert.False(t, s.visitor(t).Downloading())

	w = s.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `role="alert"`, "the script already told the visitor")
}

func TestAPICalculate(t *testing.T) {
	s := setupServer(t)

	w := s.doJSON("/api/calculate", map[string]interface{}{
		"email":       "ana@example.com",
		"profession":  "Coach",
		"hourlyRate":  -4,
		"socialMedia": 10,
		"copywriting": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CalculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Form.HourlyRate)
	assert.Equal(t, 20, resp.Result.HourlyValue)
	assert.InDelta(t, 680.0, resp.Result.MonthlySavings, 1e-9)
	assert.True(t, resp.CanSubmit)
	assert.Empty(t, resp.Hint)
}

func TestAPICalculateInvalidBody(t *testing.T) {
	s := setupServer(t)

	w := s.doJSON("/api/calculate", map[string]interface{}{"socialMedia": "ten"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

}

func TestAPICalculatePartialEmail(t *testing.T) {
	s := setupServer(t)

	w := s.doJSON("/api/calculate", map[string]interface{}{"email": "ana@", "socialMedia": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CalculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ana@", resp.Form.Email)
	assert.Equal(t, 2, resp.Result.TotalWeeklyHours)
}

func TestAPICalculateCapsLargeValues(t *testing.T) {
	s := setupServer(t)

	w := s.doJSON("/api/calculate", map[string]interface{}{
		"email":       "ana@example.com",
		"profession":  "Coach",
		"socialMedia": int64(9223372036854775807),
		"copywriting": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CalculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.MaxCount, resp.Form.SocialMedia)
	assert.Equal(t, models.MaxCount+1, resp.Result.TotalWeeklyHours)
	assert.True(t, resp.CanSubmit)
}

func TestAPIGenerateReport(t *testing.T) {
	s := setupServer(t)

	w := s.doJSON("/api/report", map[string]interface{}{"email": "ana@example.com", "profession": "Coach"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), session.HintHours)

	w = s.doJSON("/api/report", map[string]interface{}{"email": "ana@", "profession": "Coach", "newsletters": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email")
	assert.Empty(t, s.reports.forms)

	w = s.doJSON("/api/report", map[string]interface{}{"email": "ana@example.com", "profession": "Coach", "newsletters": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4", w.Body.String())
	require.Len(t, s.reports.forms, 1)
	assert.Equal(t, 3, s.reports.forms[0].Newsletters)

	s.reports.err = errors.New("connection refused")
	w = s.doJSON("/api/report", map[string]interface{}{"email": "ana@example.com", "profession": "Coach", "newsletters": 3})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	s.reports.err = context.DeadlineExceeded
	w = s.doJSON("/api/report", map[string]interface{}{"email": "ana@example.com", "profession": "Coach", "newsletters": 3})
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
