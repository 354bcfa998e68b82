package server

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// TemplateRenderer is a custom html/template renderer for Echo framework
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	// Use ExecuteTemplate to select the correct template by name
	return t.templates.ExecuteTemplate(w, name, data)
}

// exampleRequest is one of the prefilled requests shown under the form.
type exampleRequest struct {
	AgeMonths int
	WeightKg  float64
	HeightCm  float64
	Request   string
}

var formExamples = []exampleRequest{
	{18, 10.5, 80, "Suggest a healthy breakfast for my 18-month-old"},
	{36, 15, 95, "What snacks are good for my 3-year-old's growth?"},
	{8, 8.5, 70, "Safe finger foods for my 8-month-old baby"},
	{48, 18, 105, "Weekly meal plan for my 4-year-old"},
	{30, 11, 85, "Healthy foods to help my underweight toddler gain weight"},
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"https://*", "http://*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:       300,
	}))

	renderer := &TemplateRenderer{
		templates: template.Must(template.ParseGlob("web/templates/*.html")),
	}
	e.Renderer = renderer

	e.Use(LoggerMiddleware)

	// Meal planner pages
	e.GET("/", s.renderFormHandler)
	e.POST("/suggest", s.suggestFormHandler)

	// JSON API
	e.POST("/api/suggest", s.suggestAPIHandler)

	// Operational endpoints
	e.GET("/health", s.healthHandler)
	e.GET("/status", s.statusHandler)

	return e
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}

// suggestRequest binds both the JSON API body and the HTML form fields.
type suggestRequest struct {
	AgeMonths      int     `json:"age_months" form:"age_months"`
	WeightKg       float64 `json:"weight_kg" form:"weight_kg"`
	HeightCm       float64 `json:"height_cm" form:"height_cm"`
	DietaryRequest string  `json:"dietary_request" form:"dietary_request"`
}

// formDefaults mirrors the initial values of the planner form.
var formDefaults = suggestRequest{AgeMonths: 24, WeightKg: 12.0, HeightCm: 85.0}

// formPage carries everything the form template needs for one render.
type formPage struct {
	Model    string
	NowUTC   string
	Examples []exampleRequest
	Input    suggestRequest
	Report   string
}

func (s *Server) pageData(input suggestRequest, report string) formPage {
	return formPage{
		Model:    s.advisor.ModelID(),
		NowUTC:   time.Now().UTC().Format("2006-01-02 15:04:05"),
		Examples: formExamples,
		Input:    input,
		Report:   report,
	}
}

// renderFormHandler serves the meal planner form with its defaults.
func (s *Server) renderFormHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", s.pageData(formDefaults, ""))
}

// suggestFormHandler handles the browser form post and re-renders the
// page with the report filled in.
func (s *Server) suggestFormHandler(c echo.Context) error {
	var req suggestRequest
	if err := c.Bind(&req); err != nil {
		log.Warn().Err(err).Msg("Rejecting malformed form submission")
		return c.Render(http.StatusBadRequest, "index.html",
			s.pageData(formDefaults, "Could not read the form values, please try again."))
	}

	report := s.advisor.SuggestMeal(c.Request().Context(), req.AgeMonths, req.WeightKg, req.HeightCm, req.DietaryRequest)

	return c.Render(http.StatusOK, "index.html", s.pageData(req, report))
}

// suggestAPIHandler is the JSON twin of the form handler.
func (s *Server) suggestAPIHandler(c echo.Context) error {
	var req suggestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	report := s.advisor.SuggestMeal(c.Request().Context(), req.AgeMonths, req.WeightKg, req.HeightCm, req.DietaryRequest)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"report":     report,
		"request_id": c.Get("request_id"),
	})
}

// healthHandler reports liveness and the model behind the service.
func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "online",
		"model":  s.advisor.ModelID(),
		"uptime": time.Since(startTime).String(),
	})
}

// statusHandler collects and returns system-level metrics.
func (s *Server) statusHandler(c echo.Context) error {
	// 1. Memory Stats
	v, _ := mem.VirtualMemory()

	// 2. CPU Usage (since boot; avoids blocking the handler)
	cpuPercent, _ := cpu.Percent(0, false)
	cpuUsage := "n/a"
	if len(cpuPercent) > 0 {
		cpuUsage = fmt.Sprintf("%.2f%%", cpuPercent[0])
	}

	// 3. Disk Stats (Root partition)
	d, _ := disk.Usage("/")

	// 4. Host/Runtime Info
	hInfo, _ := host.Info()
	if hInfo == nil {
		hInfo = &host.InfoStat{}
	}
	if v == nil {
		v = &mem.VirtualMemoryStat{}
	}
	if d == nil {
		d = &disk.UsageStat{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "online",
		"model":  s.advisor.ModelID(),
		"runtime": map[string]interface{}{
			"uptime":     time.Since(startTime).String(),
			"start_time": startTime.Format(time.RFC3339),
			"os":         hInfo.OS,
			"platform":   hInfo.Platform,
			"arch":       hInfo.KernelArch,
			"hostname":   hInfo.Hostname,
		},
		"cpu": map[string]interface{}{
			"usage_percent": cpuUsage,
			"cores":         hInfo.Procs,
		},
		"memory": map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/1024/1024/1024),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
			"free_gb":      fmt.Sprintf("%.2f GB", float64(v.Free)/1024/1024/1024),
		},
		"disk": map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(d.Total)/1024/1024/1024),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(d.Used)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		},
	})
}
