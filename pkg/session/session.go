package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/divia/calculadora/pkg/calculator"
	"github.com/divia/calculadora/pkg/models"
)

var (
	ErrNotSubmittable     = errors.New("form is not ready to submit")
	ErrNotInResults       = errors.New("results are not available yet")
	ErrDownloadInProgress = errors.New("report download already in progress")
)

// Hints shown next to the disabled submit button
const (
	HintEmail      = "Ingresa tu email para continuar"
	HintProfession = "Contanos a qué te dedicas para continuar"
	HintHours      = "Ingresa al menos una hora para continuar"
)

// Notices shown above the page when a request could not be completed
const (
	ReportErrorNotice = "Hubo un error al generar el reporte. Por favor, inténtalo de nuevo."
	FormErrorNotice   = "No pudimos procesar el formulario. Por favor, inténtalo de nuevo."
)

// View is the screen a session is currently on
type View int

const (
	ViewForm View = iota
	ViewResults
)

func (v View) String() string {
	switch v {
	case ViewForm:
		return "form"
	case ViewResults:
		return "results"
	}
	return "unknown"
}

// CheckSubmittable reports whether form may be submitted and, when it may
// not, the hint explaining the first missing piece
func CheckSubmittable(form models.FormData) (bool, string) {
	switch {
	case strings.TrimSpace(form.Email) == "":
		return false, HintEmail
	case strings.TrimSpace(form.Profession) == "":
		return false, HintProfession
	case calculator.Calculate(form).TotalWeeklyHours == 0:
		return false, HintHours
	}
	return true, ""
}

// Session is the calculator state of one visitor
type Session struct {
	ID string

	mu           sync.Mutex
	form         models.FormData
	view         View
	downloading  bool
	autoDownload bool
}

// Snapshot is a consistent copy of a session for rendering
type Snapshot struct {
	Form         models.FormData
	Result       models.CalculationResult
	View         View
	CanSubmit    bool
	Hint         string
	Downloading  bool
	AutoDownload bool
	// Notice is never stored; handlers set it on the snapshot they render
	Notice string
}

func New(id string) *Session {
	return &Session{ID: id}
}

// SetField applies one edited form value
func (s *Session) SetField(field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.SetField(field, raw)
}

// Update applies several edits at once. Nothing is stored when edit fails.
func (s *Session) Update(edit func(form *models.FormData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	form := s.form
	if err := edit(&form); err != nil {
		return err
	}
	s.form = form
	return nil
}

func (s *Session) Form() models.FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) Downloading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloading
}

// Submit moves the session to the results view and asks the page to
// start the report download right away
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok, _ := CheckSubmittable(s.form); !ok {
		return ErrNotSubmittable
	}
	s.view = ViewResults
	s.autoDownload = true
	return nil
}

// Reset clears the form and returns to the form view
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form.Reset()
	s.view = ViewForm
	s.autoDownload = false
}

// BeginDownload marks a report download as pending and returns the form
// to generate it from. Only one download may be pending at a time.
func (s *Session) BeginDownload() (models.FormData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != ViewResults {
		return models.FormData{}, ErrNotInResults
	}
	if s.downloading {
		return models.FormData{}, ErrDownloadInProgress
	}
	s.downloading = true
	s.autoDownload = false
	return s.form, nil
}

// EndDownload clears the pending flag. The form is left as it was,
// whether or not the report was generated.
func (s *Session) EndDownload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloading = false
}

// Snapshot returns the current state. The auto-download marker is
// consumed, so the download only starts on a single render.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	canSubmit, hint := CheckSubmittable(s.form)
	snap := Snapshot{
		Form:         s.form,
		Result:       calculator.Calculate(s.form),
		View:         s.view,
		CanSubmit:    canSubmit,
		Hint:         hint,
		Downloading:  s.downloading,
		AutoDownload: s.autoDownload,
	}
	s.autoDownload = false
	return snap
}
