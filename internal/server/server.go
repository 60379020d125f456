package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/eugene-roi/internal/config"
	"github.com/iwvelando/eugene-roi/internal/intake"
	"github.com/iwvelando/eugene-roi/internal/report"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"go.uber.org/zap"
)

//go:embed static/* templates/*
var assets embed.FS

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	sessions    *sessionStore
	page        *template.Template
}

type calculateResponse struct {
	Results  roi.Results `json:"results"`
	Warnings []string    `json:"warnings,omitempty"`
	Duration string      `json:"duration"`
}

// NewHandler constructs the HTTP handler that serves the calculator form, the
// JSON API and the workbook export.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string, sessionTTL time.Duration) http.Handler {
	return newHandler(logger, maxBodySize, version, newSessionStore(sessionTTL))
}

func newHandler(logger *zap.Logger, maxBodySize int64, version string, sessions *sessionStore) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	tmpl, err := template.New("index.html").Funcs(templateFuncs).ParseFS(assets, "templates/index.html")
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded templates: %v", err))
	}

	h := &handler{
		logger:      logger,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		sessions:    sessions,
		page:        tmpl,
	}

	mux := http.NewServeMux()

	// Calculator form
	mux.HandleFunc("/", h.handleIndex)

	// JSON API taking a practice configuration
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// Workbook download of the session's last results
	mux.HandleFunc("/export", h.handleExport)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.Handle("/static/", http.FileServer(http.FS(assets)))

	return mux
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleIndex"
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		src := intake.Values{}
		in, _ := intake.Collect(src)
		h.render(w, buildPage(src, in, h.version), op)

	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
		if err := r.ParseForm(); err != nil {
			h.respondReadError(w, err, op)
			return
		}

		src := intake.FromForm(r.PostForm)
		in, notes := intake.Collect(src)
		p := buildPage(src, in, h.version)
		p.Notes = notes
		p.Debug = r.PostForm.Get("debug") != ""
		if p.Debug {
			p.DebugInfo = buildDebug(in)
		}

		if r.PostForm.Get("action") == "calculate" {
			start := time.Now()
			res := roi.Calculate(h.logger, in)
			h.sessions.put(sessionID(w, r), res)
			p.Results = buildResults(res)

			h.logger.Info("calculation rendered",
				zap.String("op", op),
				zap.String("calculationId", res.CalculationID),
				zap.Int("notes", len(notes)),
				zap.Duration("duration", time.Since(start)),
			)
		}

		h.render(w, p, op)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		h.respondReadError(w, err, op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()), configType(r))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	in, _ := cfg.Inputs()
	res := roi.Calculate(h.logger, in)
	h.sessions.put(sessionID(w, r), res)

	elapsed := time.Since(start)
	h.logger.Info("calculation computed",
		zap.String("op", op),
		zap.String("calculationId", res.CalculationID),
		zap.Int("warnings", len(warnings)+len(res.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Results:  res,
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	res, ok := h.sessions.get(sessionID(w, r))
	if !ok {
		h.respondErrorWithOp(w, http.StatusNotFound, "No results to export. Please run the calculation first.", op)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, res); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build workbook: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", constants.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.ReportFileName))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write workbook",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// configType picks the viper decoder from the request's Content-Type. YAML is
// assumed unless JSON is declared.
func configType(r *http.Request) string {
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "json") {
		return "json"
	}
	return "yaml"
}

func (h *handler) render(w http.ResponseWriter, p page, op string) {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, p); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render page: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) respondReadError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
