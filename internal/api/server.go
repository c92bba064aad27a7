// Package api exposes the forge over a JSON HTTP API.
//
// Every route runs through the same middleware stack: request id, logging,
// CORS, JSON content type and panic recovery. Failures are written by the
// shared HTTPErrorHandler so clients always receive the same error shape.
//
// ENDPOINT STRUCTURE:
// - /api/v1/commands: catalog listing, search and custom commands
// - /api/v1/scripts/{type}: the add, launch and remove buffers
// - /api/v1/bundle: all three buffers as one JSON document
// - /api/v1/settings/ai: the shared suggestions toggle
// - /api/v1/health: liveness
// - /api/docs, /api/openapi.json: API documentation
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/catalog"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/codec"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/renderer"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/service"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/validation"
)

const maxBodySize = 1 << 20

// APIServer serves the forge HTTP API
type APIServer struct {
	service      *service.Service
	errorHandler *errors.HTTPErrorHandler
	validator    *validation.Validator
	logger       *zap.Logger
	port         int
	server       *http.Server
}

// NewAPIServer creates a new API server instance
func NewAPIServer(svc *service.Service, port int) *APIServer {
	logger := svc.Logger().Named("api")
	s := &APIServer{
		service:      svc,
		errorHandler: errors.NewHTTPErrorHandler(true, logger),
		validator:    validation.NewValidator(),
		logger:       logger,
		port:         port,
	}
	s.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// Generation requests hold the connection for up to the AI timeout
		WriteTimeout: svc.Config().AITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied
func (s *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.withMiddleware(s.handleHealth))

	mux.HandleFunc("GET /api/v1/commands", s.withMiddleware(s.handleListCommands))
	mux.HandleFunc("POST /api/v1/commands", s.withMiddleware(s.handleCreateCommand))
	mux.HandleFunc("GET /api/v1/commands/{id}", s.withMiddleware(s.handleGetCommand))

	mux.HandleFunc("GET /api/v1/scripts", s.withMiddleware(s.handleListScripts))
	mux.HandleFunc("GET /api/v1/scripts/{type}", s.withMiddleware(s.handleGetScript))
	mux.HandleFunc("PUT /api/v1/scripts/{type}", s.withMiddleware(s.handlePutScript))
	mux.HandleFunc("POST /api/v1/scripts/{type}/insert", s.withMiddleware(s.handleInsert))
	mux.HandleFunc("POST /api/v1/scripts/{type}/drop", s.withMiddleware(s.handleDrop))
	mux.HandleFunc("PUT /api/v1/scripts/{type}/lines/{line}/parameters", s.withMiddleware(s.handleBindParameters))
	mux.HandleFunc("POST /api/v1/scripts/{type}/generate", s.withMiddleware(s.handleGenerate))
	mux.HandleFunc("POST /api/v1/scripts/{type}/suggest", s.withMiddleware(s.handleSuggest))
	mux.HandleFunc("DELETE /api/v1/scripts/{type}/ai", s.withMiddleware(s.handleCancelAI))
	mux.HandleFunc("GET /api/v1/scripts/{type}/export", s.withMiddleware(s.handleExportScript))
	mux.HandleFunc("POST /api/v1/scripts/{type}/import", s.withMiddleware(s.handleImportScript))

	mux.HandleFunc("GET /api/v1/bundle", s.withMiddleware(s.handleExportBundle))
	mux.HandleFunc("POST /api/v1/bundle", s.withMiddleware(s.handleImportBundle))

	mux.HandleFunc("GET /api/v1/settings/ai", s.withMiddleware(s.handleGetAISetting))
	mux.HandleFunc("PUT /api/v1/settings/ai", s.withMiddleware(s.handlePutAISetting))

	mux.HandleFunc("GET /api/docs", s.withMiddleware(s.handleOpenAPI))
	mux.HandleFunc("GET /api/openapi.json", s.withMiddleware(s.handleOpenAPISpec))

	return mux
}

// Start begins serving HTTP requests
func (s *APIServer) Start() error {
	s.logger.Info("API server starting",
		zap.String("url", fmt.Sprintf("http://localhost:%d", s.port)),
		zap.String("docs", fmt.Sprintf("http://localhost:%d/api/docs", s.port)))

	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// withMiddleware applies middleware to HTTP handlers
func (s *APIServer) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return s.requestIDMiddleware(
		s.loggingMiddleware(
			s.corsMiddleware(
				s.contentTypeMiddleware(
					s.errorMiddleware(handler),
				),
			),
		),
	)
}

// requestIDMiddleware tags each request with an id, reusing the client's
func (s *APIServer) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next(w, r)
	}
}

// statusRecorder captures the status code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func (s *APIServer) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Duration("duration", time.Since(start)))
	}
}

// corsMiddleware handles CORS headers
func (s *APIServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// contentTypeMiddleware sets default content type
func (s *APIServer) contentTypeMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next(w, r)
	}
}

// errorMiddleware recovers from panics
func (s *APIServer) errorMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				s.writeError(w, errors.InternalError("Internal server error"))
			}
		}()
		next(w, r)
	}
}

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// writeResponse writes a standardized JSON response
func (s *APIServer) writeResponse(w http.ResponseWriter, data interface{}, message string, statusCode int) {
	response := APIResponse{
		Success:   statusCode < 400,
		Data:      data,
		Message:   message,
		Timestamp: time.Now(),
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		s.writeError(w, errors.Wrap(err, errors.ErrCodeInternalError, "Failed to encode response"))
		return
	}
	w.WriteHeader(statusCode)
	_, _ = w.Write(jsonData)
}

// writeError writes an error response using the error handler
func (s *APIServer) writeError(w http.ResponseWriter, err error) {
	s.errorHandler.WriteHTTPError(w, err)
}

// writeFile sends raw content as a download
func (s *APIServer) writeFile(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readBody reads a bounded request body
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "Failed to read request body")
	}
	if len(data) > maxBodySize {
		return nil, errors.NewAppError(errors.ErrCodeInvalidInput, "Request body too large")
	}
	return data, nil
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "Invalid JSON body")
	}
	return nil
}

// validate checks data against the named schema
func (s *APIServer) validate(schema string, data map[string]interface{}) error {
	result := s.validator.Validate(schema, data)
	if !result.Valid {
		return result.ToAppError()
	}
	return nil
}

// scriptType parses the {type} path segment
func scriptType(r *http.Request) (models.ScriptType, error) {
	t, err := models.ParseScriptType(r.PathValue("type"))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeNotFound, fmt.Sprintf("Script '%s' not found", r.PathValue("type")))
	}
	return t, nil
}

// scriptView is the JSON form of a buffer
type scriptView struct {
	Type    models.ScriptType `json:"type"`
	Label   string            `json:"label"`
	Text    string            `json:"text"`
	Version uint64            `json:"version"`
}

func (s *APIServer) viewScript(t models.ScriptType) (scriptView, error) {
	text, version, err := s.service.Workspace().Snapshot(t)
	if err != nil {
		return scriptView{}, err
	}
	return scriptView{Type: t, Label: t.Label(), Text: text, Version: version}, nil
}

// handleHealth handles GET /api/v1/health
func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status":    "healthy",
		"commands":  s.service.Catalog().Len(),
		"aiEnabled": s.service.AIEnabled(),
		"generator": s.service.Config().Generator,
	}, "", http.StatusOK)
}

// handleListCommands handles GET /api/v1/commands
func (s *APIServer) handleListCommands(w http.ResponseWriter, r *http.Request) {
	var commands []models.CommandTemplate
	if q := r.URL.Query().Get("q"); q != "" {
		commands = s.service.SearchCommands(q)
	} else {
		commands = s.service.ListCommands()
	}
	s.writeResponse(w, commands, fmt.Sprintf("%d commands", len(commands)), http.StatusOK)
}

// handleCreateCommand handles POST /api/v1/commands
func (s *APIServer) handleCreateCommand(w http.ResponseWriter, r *http.Request) {
	var req catalog.CustomCommandRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	tmpl, err := s.service.AddCustomCommand(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, tmpl, "Command added", http.StatusCreated)
}

// handleGetCommand handles GET /api/v1/commands/{id}
func (s *APIServer) handleGetCommand(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.service.GetCommand(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, tmpl, "", http.StatusOK)
}

// handleListScripts handles GET /api/v1/scripts
func (s *APIServer) handleListScripts(w http.ResponseWriter, r *http.Request) {
	views := make([]scriptView, 0, len(models.ScriptTypes))
	for _, t := range models.ScriptTypes {
		v, err := s.viewScript(t)
		if err != nil {
			s.writeError(w, err)
			return
		}
		views = append(views, v)
	}
	s.writeResponse(w, views, "", http.StatusOK)
}

// handleGetScript handles GET /api/v1/scripts/{type}. ?format=markdown
// returns the script wrapped in a Markdown code block.
func (s *APIServer) handleGetScript(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.viewScript(t)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", renderer.FormatText:
	case renderer.FormatMarkdown:
		view.Text = renderer.NewRenderer(t, view.Text).RenderMarkdown()
	default:
		s.writeError(w, errors.ValidationError(fmt.Sprintf("Unknown format '%s'", format)))
		return
	}
	s.writeResponse(w, view, "", http.StatusOK)
}

type putScriptRequest struct {
	Text string `json:"text"`
}

// handlePutScript handles PUT /api/v1/scripts/{type}
func (s *APIServer) handlePutScript(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req putScriptRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.service.SetScript(t, req.Text); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeScript(w, t, "Script updated")
}

func (s *APIServer) writeScript(w http.ResponseWriter, t models.ScriptType, message string) {
	view, err := s.viewScript(t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, view, message, http.StatusOK)
}

type insertRequest struct {
	CommandID string `json:"commandId"`
}

type insertResponse struct {
	Type models.ScriptType `json:"type"`
	Line int               `json:"line"`
	Text string            `json:"text"`
}

// handleInsert handles POST /api/v1/scripts/{type}/insert
func (s *APIServer) handleInsert(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req insertRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.CommandID == "" {
		s.writeError(w, errors.ValidationError("commandId is required"))
		return
	}
	line, err := s.service.Insert(t, req.CommandID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	text, _ := s.service.Script(t)
	s.writeResponse(w, insertResponse{Type: t, Line: line, Text: text}, "Command inserted", http.StatusOK)
}

// handleDrop handles POST /api/v1/scripts/{type}/drop. The body is the raw
// drag payload; a target inside the payload overrides the path.
func (s *APIServer) handleDrop(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	raw, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	target, line, err := s.service.Drop(raw, t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	text, _ := s.service.Script(target)
	s.writeResponse(w, insertResponse{Type: target, Line: line, Text: text}, "Command inserted", http.StatusOK)
}

type bindRequest struct {
	Values map[string]string `json:"values"`
}

// handleBindParameters handles PUT /api/v1/scripts/{type}/lines/{line}/parameters
func (s *APIServer) handleBindParameters(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	index, err := strconv.Atoi(r.PathValue("line"))
	if err != nil {
		s.writeError(w, errors.ValidationError(fmt.Sprintf("Invalid line '%s'", r.PathValue("line"))))
		return
	}
	var req bindRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.service.BindParameters(t, index, req.Values); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeScript(w, t, "Parameters updated")
}

type generateRequest struct {
	Description string `json:"description"`
}

// handleGenerate handles POST /api/v1/scripts/{type}/generate
func (s *APIServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validate(validation.SchemaGenerate, map[string]interface{}{
		"type":        string(t),
		"description": req.Description,
	}); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.service.Generate(r.Context(), t, req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, res, "Script generated", http.StatusOK)
}

// handleSuggest handles POST /api/v1/scripts/{type}/suggest
func (s *APIServer) handleSuggest(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validate(validation.SchemaSuggest, map[string]interface{}{"type": string(t)}); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.service.Suggest(r.Context(), t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, res, "Suggestion applied", http.StatusOK)
}

// handleCancelAI handles DELETE /api/v1/scripts/{type}/ai
func (s *APIServer) handleCancelAI(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pending := s.service.AIPending(t)
	s.service.CancelAI(t)
	s.writeResponse(w, map[string]bool{"canceled": pending}, "", http.StatusOK)
}

// handleExportScript handles GET /api/v1/scripts/{type}/export
func (s *APIServer) handleExportScript(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	name, data, err := s.service.ExportScript(t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeFile(w, name, "text/plain; charset=utf-8", data)
}

// handleImportScript handles POST /api/v1/scripts/{type}/import. The body
// replaces the script verbatim.
func (s *APIServer) handleImportScript(w http.ResponseWriter, r *http.Request) {
	t, err := scriptType(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.service.ImportScript(t, data); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeScript(w, t, "Script imported")
}

// handleExportBundle handles GET /api/v1/bundle
func (s *APIServer) handleExportBundle(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportBundle()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeFile(w, codec.BundleFileName, "application/json", data)
}

// handleImportBundle handles POST /api/v1/bundle
func (s *APIServer) handleImportBundle(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.service.ImportBundle(data); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleListScripts(w, r)
}

type aiSetting struct {
	Enabled bool `json:"enabled"`
}

// handleGetAISetting handles GET /api/v1/settings/ai
func (s *APIServer) handleGetAISetting(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, aiSetting{Enabled: s.service.AIEnabled()}, "", http.StatusOK)
}

// handlePutAISetting handles PUT /api/v1/settings/ai
func (s *APIServer) handlePutAISetting(w http.ResponseWriter, r *http.Request) {
	var req aiSetting
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.service.SetAIEnabled(req.Enabled)
	s.writeResponse(w, aiSetting{Enabled: s.service.AIEnabled()}, "AI setting updated", http.StatusOK)
}
