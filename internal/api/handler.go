package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/statement-table-extractor/internal/metrics"
	"github.com/insightdelivered/statement-table-extractor/internal/models"
	"github.com/insightdelivered/statement-table-extractor/internal/parser"
	"github.com/insightdelivered/statement-table-extractor/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "2.0.0"

const requestIDKey = "requestid"

// ErrorResponse is the JSON body of a failed request that never reached the
// parser.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Extractor turns a PDF on disk into positioned words.
type Extractor func(path string) (models.Document, error)

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Log     *slog.Logger
	Metrics *metrics.Metrics
	Extract Extractor
	// DefaultFamily is used when the request names none; empty means auto-detect.
	DefaultFamily string
	// CalibrationFile is an optional YAML overlay applied to every family.
	CalibrationFile string
}

// NewApp returns a fiber app with the API routes and /metrics registered.
func NewApp(h *Handler, bodyLimit int, gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})
	h.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return app
}

// RegisterRoutes sets up the API routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api", requestID)
	api.Get("/health", h.HandleHealth)
	api.Post("/convert", h.observe, h.HandleConvert)
}

// requestID tags every request with an id, reusing the caller's when sent.
func requestID(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals(requestIDKey, id)
	return c.Next()
}

func (h *Handler) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if h.Metrics != nil {
		h.Metrics.RequestDuration.
			WithLabelValues(strconv.Itoa(c.Response().StatusCode())).
			Observe(time.Since(start).Seconds())
	}
	return err
}

func (h *Handler) logger(c *fiber.Ctx) *slog.Logger {
	log := h.Log
	if log == nil {
		log = slog.Default()
	}
	if id, ok := c.Locals(requestIDKey).(string); ok {
		log = log.With("request_id", id)
	}
	return log
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// HandleConvert accepts a multipart PDF upload in field "file" and returns
// the parse as a JSON report, or as CSV when format=csv. A parse that
// aborts is answered with 422 and the JSON report, so its warnings reach
// the caller.
func (h *Handler) HandleConvert(c *fiber.Ctx) (err error) {
	log := h.logger(c)

	// Recover from any panics to prevent server crash
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("convert panicked", "panic", rec)
			err = writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Internal server error (recovered from crash): %v", rec))
		}
	}()

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	format := strings.ToLower(c.FormValue("format", "json"))
	if format != "json" && format != "csv" {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Unknown format %q. Use json or csv.", format))
	}

	var family models.Family
	if name := c.FormValue("family", h.DefaultFamily); name != "" {
		if family, err = parser.ParseFamily(name); err != nil {
			return writeError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := c.SaveFile(fh, tmp.Name()); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	doc, err := h.Extract(tmp.Name())
	if err != nil {
		log.Warn("extraction failed", "file", fh.Filename, "error", err)
		h.observeFailure(family)
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
	}

	var fallback string
	if family == "" {
		family, fallback = parser.DetectFamily(doc.Pages)
		log.Info("auto-detected family", "family", family, "fallback", fallback != "")
	}

	cfg, err := parser.ResolveConfig(family, h.CalibrationFile)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	session := parser.NewSession(cfg, family, log)
	session.Debug = c.FormValue("debug") == "true"
	if fallback != "" {
		session.AddWarning(fallback)
	}
	result := session.Parse(doc)
	if h.Metrics != nil {
		h.Metrics.ObserveResult(result)
	}
	log.Info("converted statement",
		"file", fh.Filename,
		"success", result.Success,
		"transactions", len(result.Data),
		"confidence", result.Confidence)

	if !result.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(writer.NewReport(result))
	}

	if format == "csv" {
		var buf bytes.Buffer
		csvWriter := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
		if err := csvWriter.Write(&buf, result); err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	}
	return c.JSON(writer.NewReport(result))
}

func (h *Handler) observeFailure(family models.Family) {
	if h.Metrics == nil {
		return
	}
	if family == "" {
		family = "unknown"
	}
	h.Metrics.ObserveFailure(string(family))
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	id, _ := c.Locals(requestIDKey).(string)
	return c.Status(status).JSON(ErrorResponse{
		Success:   false,
		Error:     msg,
		RequestID: id,
	})
}

