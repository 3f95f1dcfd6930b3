package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
)

// DefaultFilename is used when the webhook does not name the file it returns
const DefaultFilename = "reporte_divia.pdf"

const defaultContentType = "application/pdf"

// Payload is the JSON body the automation webhook expects
type Payload struct {
	Nombre                  string `json:"nombre"`
	Email                   string `json:"email"`
	TotalHorasSemanales     int    `json:"total_horas_semanales"`
	HorasLiberadas          string `json:"horas_liberadas"`
	HorasLiberadasMensuales string `json:"horas_liberadas_mensuales"`
	AhorroUSD               string `json:"ahorro_usd"`
	PorcentajeVentas        string `json:"porcentaje_ventas"`
	LinkAsesoria            string `json:"link_asesoria"`
	ReportContent           string `json:"reportContent"`
}

// Report is the file generated by the webhook
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StatusError is returned when the webhook answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error from webhook: %d - %s", e.StatusCode, e.Body)
}

// Client defines the interface for requesting reports from the automation webhook
type Client interface {
	RequestReport(ctx context.Context, payload Payload) (*Report, error)
}

type clientImpl struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new webhook client. A zero timeout waits for the webhook indefinitely.
func NewClient(url string, timeout time.Duration) Client {
	return &clientImpl{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *clientImpl) RequestReport(ctx context.Context, payload Payload) (*Report, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling webhook: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	report := &Report{
		Filename:    FilenameFromDisposition(resp.Header.Get("Content-Disposition")),
		ContentType: contentType,
		Data:        body,
	}

	log.Printf("Received report %s from webhook (%d bytes)", report.Filename, len(report.Data))
	return report, nil
}

var filenamePattern = regexp.MustCompile(`filename="([^"]+)"`)

// FilenameFromDisposition extracts the quoted filename token of a
// Content-Disposition header, falling back to DefaultFilename
func FilenameFromDisposition(header string) string {
	if !strings.Contains(header, "filename=") {
		return DefaultFilename
	}

	match := filenamePattern.FindStringSubmatch(header)
	if len(match) < 2 {
		return DefaultFilename
	}

	// Only keep the last path element of whatever the webhook sent
	name := path.Base(strings.ReplaceAll(match[1], `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return DefaultFilename
	}
	return name
}
