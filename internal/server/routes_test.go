package server

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"nutrikid/internal/llamaservice"
	"github.com/labstack/echo/v4"
)

// fixedGenerator always answers with the same generation result.
type fixedGenerator struct {
	result llamaservice.GenerationResult
}

func (g *fixedGenerator) Generate(ctx context.Context, systemPrompt, userQuery string) llamaservice.GenerationResult {
	return g.result
}

func newTestServer(result llamaservice.GenerationResult) *Server {
	svc := llamaservice.NewService(
		llamaservice.Config{Token: "test-token", UserLogin: "testlogin"},
		llamaservice.WithGenerator(&fixedGenerator{result: result}),
	)
	return &Server{advisor: svc}
}

// newTestContext builds an echo context around the given request with a
// string-backed renderer, so handlers can be exercised without the
// template files on disk.
func newTestContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Renderer = &TemplateRenderer{
		templates: template.Must(template.New("index.html").Parse(
			"age={{.Input.AgeMonths}};report={{.Report}}")),
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSuggestAPIHandler(t *testing.T) {
	s := newTestServer(llamaservice.GenerationResult{
		Text:     "1. Oatmeal with mashed banana and a splash of whole milk.",
		ModelID:  "meta-llama/Llama-3.2-3B-Instruct",
		Accepted: true,
	})

	body := `{"age_months":18,"weight_kg":10.5,"height_cm":80,"dietary_request":"breakfast ideas"}`
	req := httptest.NewRequest(http.MethodPost, "/api/suggest", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newTestContext(req)

	if err := s.suggestAPIHandler(c); err != nil {
		t.Fatalf("suggestAPIHandler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Report string `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}

	for _, want := range []string{
		"- **Age:** 18 months (1.5 years)",
		"- **BMI:** 16.4 (Normal weight)",
		"Oatmeal with mashed banana",
		"**Model Used:** meta-llama/Llama-3.2-3B-Instruct",
	} {
		if !strings.Contains(resp.Report, want) {
			t.Errorf("report missing %q\nreport:\n%s", want, resp.Report)
		}
	}
}

func TestSuggestAPIHandlerBadBody(t *testing.T) {
	s := newTestServer(llamaservice.GenerationResult{Accepted: true})

	req := httptest.NewRequest(http.MethodPost, "/api/suggest", strings.NewReader(`{"age_months":"not a number"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newTestContext(req)

	if err := s.suggestAPIHandler(c); err != nil {
		t.Fatalf("suggestAPIHandler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSuggestAPIHandlerFallback(t *testing.T) {
	s := newTestServer(llamaservice.GenerationResult{Accepted: false})

	body := `{"age_months":18,"weight_kg":10.5,"height_cm":80,"dietary_request":"breakfast ideas"}`
	req := httptest.NewRequest(http.MethodPost, "/api/suggest", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newTestContext(req)

	if err := s.suggestAPIHandler(c); err != nil {
		t.Fatalf("suggestAPIHandler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Report string `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}

	if !strings.Contains(resp.Report, "Llama model temporarily unavailable") {
		t.Errorf("fallback report missing unavailability note:\n%s", resp.Report)
	}
	if !strings.Contains(resp.Report, "Whole milk (after 12 months)") {
		t.Errorf("fallback report missing 12-24 month suggestions:\n%s", resp.Report)
	}
}

func TestSuggestFormHandler(t *testing.T) {
	s := newTestServer(llamaservice.GenerationResult{
		Text:     "1. Scrambled egg with soft toast strips.",
		ModelID:  "meta-llama/Llama-3.2-3B-Instruct",
		Accepted: true,
	})

	form := url.Values{}
	form.Set("age_months", "18")
	form.Set("weight_kg", "10.5")
	form.Set("height_cm", "80")
	form.Set("dietary_request", "breakfast ideas")

	req := httptest.NewRequest(http.MethodPost, "/suggest", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c, rec := newTestContext(req)

	if err := s.suggestFormHandler(c); err != nil {
		t.Fatalf("suggestFormHandler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	page := rec.Body.String()
	if !strings.Contains(page, "age=18;") {
		t.Errorf("page does not echo submitted form values: %s", page)
	}
	if !strings.Contains(page, "Scrambled egg with soft toast strips.") {
		t.Errorf("page does not include the generated report: %s", page)
	}
}

func TestRenderFormHandlerDefaults(t *testing.T) {
	s := newTestServer(llamaservice.GenerationResult{Accepted: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec := newTestContext(req)

	if err := s.renderFormHandler(c); err != nil {
		t.Fatalf("renderFormHandler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "age=24;report=" {
		t.Errorf("rendered page = %q, want default age and empty report", got)
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(llamaservice.GenerationResult{Accepted: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	c, rec := newTestContext(req)

	if err := s.healthHandler(c); err != nil {
		t.Fatalf("healthHandler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Status string `json:"status"`
		Model  string `json:"model"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	if resp.Status != "online" {
		t.Errorf("status field = %q, want %q", resp.Status, "online")
	}
	if resp.Model != "meta-llama/Llama-3.2-3B-Instruct" {
		t.Errorf("model field = %q, want the fixed Llama model", resp.Model)
	}
}

func TestStatusHandlerAlwaysReportsOnline(t *testing.T) {
	s := newTestServer(llamaservice.GenerationResult{Accepted: true})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	c, rec := newTestContext(req)

	if err := s.statusHandler(c); err != nil {
		t.Fatalf("statusHandler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	if resp["status"] != "online" {
		t.Errorf("status field = %v, want %q", resp["status"], "online")
	}
	for _, section := range []string{"runtime", "cpu", "memory", "disk"} {
		if _, ok := resp[section]; !ok {
			t.Errorf("status response missing %q section", section)
		}
	}
}
